package models

import (
	"errors"
	"fmt"
	"time"
)

// Roster represents a single team within a league, including its season
// record and the previous power ranking carried between recap runs
type Roster struct {
	// Identity: ID is "{leagueID}:{rosterID}"
	ID       string `json:"id"`
	LeagueID string `json:"league_id" badgerhold:"index"`
	RosterID int    `json:"roster_id"`
	OwnerID  string `json:"owner_id"`

	// Display
	TeamName  string `json:"team_name"`
	OwnerName string `json:"owner_name"`

	// Season record
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`

	// Waivers
	WaiverPosition   int `json:"waiver_position"`
	WaiverBudgetUsed int `json:"waiver_budget_used"`
	FAABBudget       int `json:"faab_budget"`

	// PowerRankPrevious holds the rank from the last published power
	// rankings for this roster. Zero means never ranked.
	PowerRankPrevious int `json:"power_rank_previous"`

	// Players
	Players  []string `json:"players,omitempty"`
	Starters []string `json:"starters,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// RosterKey builds the composite roster key
func RosterKey(leagueID string, rosterID int) string {
	return fmt.Sprintf("%s:%d", leagueID, rosterID)
}

// Validate checks the roster is well-formed enough to store
func (r *Roster) Validate() error {
	if r.ID == "" {
		return errors.New("roster ID is required")
	}
	if r.LeagueID == "" {
		return errors.New("roster league ID is required")
	}
	return nil
}

// DisplayName returns the team name, falling back to a generated name when
// the platform never provided one
func (r *Roster) DisplayName() string {
	if r.TeamName != "" {
		return r.TeamName
	}
	return fmt.Sprintf("Team %d", r.RosterID)
}

// GamesPlayed returns the total completed games for this roster
func (r *Roster) GamesPlayed() int {
	return r.Wins + r.Losses + r.Ties
}

// WinPct returns the win percentage, counting ties as neither. Returns 0
// when no games have been played.
func (r *Roster) WinPct() float64 {
	games := r.GamesPlayed()
	if games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(games)
}
