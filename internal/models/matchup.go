package models

import (
	"errors"
	"fmt"
	"time"
)

// Matchup represents a single head-to-head pairing for one week. A nil
// Team2RosterID means team 1 is on a bye; a nil WinnerRosterID on a
// completed matchup means the game ended in a tie.
type Matchup struct {
	// Identity: ID is "{leagueID}:{week}:{matchupID}"
	ID        string `json:"id"`
	LeagueID  string `json:"league_id" badgerhold:"index"`
	Week      int    `json:"week" badgerhold:"index"`
	MatchupID int    `json:"matchup_id"`

	// Sides
	Team1RosterID int  `json:"team1_roster_id"`
	Team2RosterID *int `json:"team2_roster_id,omitempty"`

	// Scores
	Team1Points    float64 `json:"team1_points"`
	Team2Points    float64 `json:"team2_points"`
	Team1Projected float64 `json:"team1_projected"`
	Team2Projected float64 `json:"team2_projected"`

	// Outcome
	WinnerRosterID *int `json:"winner_roster_id,omitempty"`
	IsPlayoff      bool `json:"is_playoff"`
	IsCompleted    bool `json:"is_completed"`

	UpdatedAt time.Time `json:"updated_at"`
}

// MatchupKey builds the composite matchup key
func MatchupKey(leagueID string, week, matchupID int) string {
	return fmt.Sprintf("%s:%d:%d", leagueID, week, matchupID)
}

// Validate checks the matchup is well-formed enough to store
func (m *Matchup) Validate() error {
	if m.ID == "" {
		return errors.New("matchup ID is required")
	}
	if m.LeagueID == "" {
		return errors.New("matchup league ID is required")
	}
	if m.Week < 1 {
		return errors.New("matchup week must be positive")
	}
	return nil
}

// IsBye reports whether this matchup has no opponent
func (m *Matchup) IsBye() bool {
	return m.Team2RosterID == nil
}

// IsTie reports whether a completed matchup produced no winner
func (m *Matchup) IsTie() bool {
	return m.IsCompleted && !m.IsBye() && m.WinnerRosterID == nil
}
