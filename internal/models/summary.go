package models

import (
	"fmt"
	"time"
)

// Trend represents the direction a team moved in the power rankings
type Trend string

// Trend constants
const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// PerformanceRecord captures one team's side of a completed matchup.
// Exactly two records exist per two-team matchup; bye weeks produce none.
// Records are built fresh per summary request and never mutated after.
type PerformanceRecord struct {
	RosterID        int     `json:"roster_id"`
	TeamName        string  `json:"team_name"`
	OwnerName       string  `json:"owner_name"`
	PointsScored    float64 `json:"points_scored"`
	PointsProjected float64 `json:"points_projected"`
	Win             bool    `json:"win"`
	OpponentName    string  `json:"opponent_name"`
	OpponentPoints  float64 `json:"opponent_points"`
	Margin          float64 `json:"margin"`
}

// BeatProjection reports whether the team outscored its projection
func (p *PerformanceRecord) BeatProjection() bool {
	return p.PointsScored > p.PointsProjected
}

// PowerRankingEntry is one team's row in the computed power rankings.
// PreviousRank is nil for a roster that has never been ranked; movement
// treats an absent previous rank as equal to the new rank, so new rosters
// never appear as movers.
type PowerRankingEntry struct {
	Rank          int     `json:"rank"`
	PreviousRank  *int    `json:"previous_rank,omitempty"`
	RosterID      int     `json:"roster_id"`
	TeamName      string  `json:"team_name"`
	OwnerName     string  `json:"owner_name"`
	Record        string  `json:"record"` // "W-L" or "W-L-T", ties segment omitted when zero
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
	PowerScore    float64 `json:"power_score"`
	Trend         Trend   `json:"trend"`
	Movement      int     `json:"movement"` // previous rank minus new rank, positive = climbed
}

// TransactionSummary is the human-readable digest of one raw transaction
type TransactionSummary struct {
	Type           TransactionType `json:"transaction_type"`
	TeamName       string          `json:"team_name"`
	OwnerName      string          `json:"owner_name"`
	PlayersAdded   []string        `json:"players_added"`
	PlayersDropped []string        `json:"players_dropped"`
	FAABSpent      *int            `json:"faab_spent,omitempty"`
	Notes          string          `json:"notes"`
}

// MatchupResult pairs the two sides of a decided matchup
type MatchupResult struct {
	Winner PerformanceRecord `json:"winner"`
	Loser  PerformanceRecord `json:"loser"`
}

// WeeklySummary is the aggregate recap for one league week. It is entirely
// derived from stored state at generation time; the only cross-call state it
// depends on is each roster's PowerRankPrevious, which the caller persists
// after publishing.
type WeeklySummary struct {
	// Identity: ID is "{leagueID}:{week}", set when the summary is stored
	ID         string `json:"id"`
	LeagueID   string `json:"league_id" badgerhold:"index"`
	LeagueName string `json:"league_name"`
	Week       int    `json:"week"`
	Season     string `json:"season"`

	// Performances
	Performances   []PerformanceRecord `json:"performances"`
	HighestScorer  PerformanceRecord   `json:"highest_scorer"`
	LowestScorer   PerformanceRecord   `json:"lowest_scorer"`
	BiggestBlowout MatchupResult       `json:"biggest_blowout"`
	ClosestMatchup MatchupResult       `json:"closest_matchup"`

	// Power rankings
	PowerRankings  []PowerRankingEntry `json:"power_rankings"`
	BiggestClimber *PowerRankingEntry  `json:"biggest_climber,omitempty"`
	BiggestFall    *PowerRankingEntry  `json:"biggest_fall,omitempty"`

	// Transactions
	Transactions     []TransactionSummary `json:"transactions"`
	TotalFAABSpent   int                  `json:"total_faab_spent"`
	MostActiveTrader *string              `json:"most_active_trader,omitempty"`

	// League stats
	AverageScore   float64  `json:"average_score"`
	TotalPoints    float64  `json:"total_points"`
	PlayoffPicture []string `json:"playoff_picture"` // team names in playoff positions, by rank

	GeneratedAt time.Time `json:"generated_at"`
}

// SummaryKey builds the composite weekly summary key
func SummaryKey(leagueID string, week int) string {
	return fmt.Sprintf("%s:%d", leagueID, week)
}
