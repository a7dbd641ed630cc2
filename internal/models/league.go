package models

import (
	"errors"
	"fmt"
	"time"
)

// Platform represents the fantasy platform a league lives on
type Platform string

// Platform constants
const (
	PlatformSleeper Platform = "sleeper"
	PlatformYahoo   Platform = "yahoo"
)

// IsValidPlatform checks if a given Platform is one of the valid constants
func IsValidPlatform(p Platform) bool {
	switch p {
	case PlatformSleeper, PlatformYahoo:
		return true
	default:
		return false
	}
}

// ScoringType represents the league scoring format
type ScoringType string

// ScoringType constants
const (
	ScoringStandard ScoringType = "standard"
	ScoringPPR      ScoringType = "ppr"
	ScoringHalfPPR  ScoringType = "half_ppr"
)

// LeagueStatus represents where the league is in its season lifecycle
type LeagueStatus string

// LeagueStatus constants
const (
	LeagueStatusPreDraft LeagueStatus = "pre_draft"
	LeagueStatusDrafting LeagueStatus = "drafting"
	LeagueStatusInSeason LeagueStatus = "in_season"
	LeagueStatusComplete LeagueStatus = "complete"
)

// League represents a fantasy league tracked by the service
type League struct {
	// Identity: ID is "{platform}:{external_id}", unique across platforms
	ID         string   `json:"id"`
	Platform   Platform `json:"platform" badgerhold:"index"`
	ExternalID string   `json:"external_id"`

	// League shape
	Name        string       `json:"name"`
	Season      string       `json:"season"` // e.g. "2025"
	CurrentWeek int          `json:"current_week"`
	TotalWeeks  int          `json:"total_weeks"`
	NumTeams    int          `json:"num_teams"`
	ScoringType ScoringType  `json:"scoring_type"`
	Status      LeagueStatus `json:"status" badgerhold:"index"`

	// Recap behavior and delivery targets
	PowerRankingsEnabled bool     `json:"power_rankings_enabled"`
	WaiverRecapEnabled   bool     `json:"waiver_recap_enabled"`
	RenderStyle          string   `json:"render_style,omitempty"` // overrides the configured default when set
	Persona              string   `json:"persona,omitempty"`
	Timezone             string   `json:"timezone,omitempty"` // IANA name, e.g. "America/Chicago"
	GroupMeBotID         string   `json:"groupme_bot_id,omitempty"`
	EmailRecipients      []string `json:"email_recipients,omitempty"`

	// Timestamps
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// LeagueID builds the composite league key used across all stores
func LeagueID(platform Platform, externalID string) string {
	return fmt.Sprintf("%s:%s", platform, externalID)
}

// Validate checks the league is well-formed enough to store
func (l *League) Validate() error {
	if l.ID == "" {
		return errors.New("league ID is required")
	}
	if l.ExternalID == "" {
		return errors.New("league external ID is required")
	}
	if !IsValidPlatform(l.Platform) {
		return fmt.Errorf("invalid platform: %s (must be one of: sleeper, yahoo)", l.Platform)
	}
	if l.NumTeams < 0 {
		return fmt.Errorf("invalid team count: %d", l.NumTeams)
	}
	return nil
}

// InSeason reports whether weekly recaps make sense for this league right now
func (l *League) InSeason() bool {
	return l.Status == LeagueStatusInSeason
}
