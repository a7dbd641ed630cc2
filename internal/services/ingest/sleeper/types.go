// Package sleeper provides a client for the Sleeper fantasy football API.
// Sleeper's API is public and unauthenticated; responses are normalized
// into storage models before they leave this package.
package sleeper

// leagueResponse is the wire shape of GET /league/{id}.
type leagueResponse struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	Sport           string             `json:"sport"`
	Status          string             `json:"status"`
	TotalRosters    int                `json:"total_rosters"`
	Settings        leagueSettings     `json:"settings"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
}

// leagueSettings carries the subset of league settings the service reads.
type leagueSettings struct {
	// Leg is Sleeper's name for the current NFL week.
	Leg              int `json:"leg"`
	PlayoffWeekStart int `json:"playoff_week_start"`
	WaiverBudget     int `json:"waiver_budget"`
}

// rosterResponse is the wire shape of one entry in GET /league/{id}/rosters.
type rosterResponse struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	Settings rosterSettings `json:"settings"`
	Starters []string       `json:"starters"`
	Players  []string       `json:"players"`
	Reserve  []string       `json:"reserve"`
}

// rosterSettings carries a roster's season record. Sleeper splits point
// totals into an integer part and a hundredths part.
type rosterSettings struct {
	Wins               int `json:"wins"`
	Losses             int `json:"losses"`
	Ties               int `json:"ties"`
	FPTS               int `json:"fpts"`
	FPTSDecimal        int `json:"fpts_decimal"`
	FPTSAgainst        int `json:"fpts_against"`
	FPTSAgainstDecimal int `json:"fpts_against_decimal"`
	WaiverPosition     int `json:"waiver_position"`
	WaiverBudgetUsed   int `json:"waiver_budget_used"`
}

// userResponse is the wire shape of one entry in GET /league/{id}/users.
type userResponse struct {
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Avatar      string       `json:"avatar"`
	IsOwner     bool         `json:"is_owner"`
	Metadata    userMetadata `json:"metadata"`
}

type userMetadata struct {
	TeamName string `json:"team_name"`
}

// matchupEntry is the wire shape of one entry in GET
// /league/{id}/matchups/{week}. Sleeper returns one entry per roster;
// the two sides of a game share a matchup_id. Points are a pointer so a
// week that has not been played can be told apart from a zero score.
type matchupEntry struct {
	RosterID        int      `json:"roster_id"`
	MatchupID       *int     `json:"matchup_id"`
	Points          *float64 `json:"points"`
	PointsProjected *float64 `json:"points_projected"`
}

// transactionResponse is the wire shape of one entry in GET
// /league/{id}/transactions/{week}. Adds and drops map player IDs to the
// roster receiving or releasing them.
type transactionResponse struct {
	TransactionID string               `json:"transaction_id"`
	Type          string               `json:"type"`
	Status        string               `json:"status"`
	RosterIDs     []int                `json:"roster_ids"`
	Adds          map[string]int       `json:"adds"`
	Drops         map[string]int       `json:"drops"`
	Settings      *transactionSettings `json:"settings"`
	Created       int64                `json:"created"`
	StatusUpdated int64                `json:"status_updated"`
	Leg           int                  `json:"leg"`
}

// transactionSettings carries waiver claim details.
type transactionSettings struct {
	WaiverBid int `json:"waiver_bid"`
	Seq       int `json:"seq"`
}
