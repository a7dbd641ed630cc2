// Package yahoo provides a client for the Yahoo Fantasy Sports API.
// Yahoo responses are XML and authentication runs through OAuth2; tokens
// are persisted in the key/value store so refreshes survive restarts.
package yahoo

import "encoding/xml"

// leagueDocument is the wire shape of GET /league/{key}/settings.
type leagueDocument struct {
	XMLName xml.Name      `xml:"fantasy_content"`
	League  leagueDetails `xml:"league"`
}

type leagueDetails struct {
	LeagueKey   string          `xml:"league_key"`
	LeagueID    string          `xml:"league_id"`
	Name        string          `xml:"name"`
	NumTeams    int             `xml:"num_teams"`
	CurrentWeek int             `xml:"current_week"`
	StartWeek   int             `xml:"start_week"`
	EndWeek     int             `xml:"end_week"`
	Season      string          `xml:"season"`
	GameCode    string          `xml:"game_code"`
	IsFinished  int             `xml:"is_finished"`
	DraftStatus string          `xml:"draft_status"`
	Settings    *leagueSettings `xml:"settings"`
}

type leagueSettings struct {
	ScoringType      string `xml:"scoring_type"`
	UsesFAAB         int    `xml:"uses_faab"`
	PlayoffStartWeek int    `xml:"playoff_start_week"`
}

// teamsDocument is the wire shape of GET /league/{key}/teams.
type teamsDocument struct {
	XMLName xml.Name      `xml:"fantasy_content"`
	Teams   []teamDetails `xml:"league>teams>team"`
}

type teamDetails struct {
	TeamKey        string           `xml:"team_key"`
	TeamID         int              `xml:"team_id"`
	Name           string           `xml:"name"`
	WaiverPriority int              `xml:"waiver_priority"`
	FAABBalance    int              `xml:"faab_balance"`
	Managers       []managerDetails `xml:"managers>manager"`
}

type managerDetails struct {
	ManagerID int    `xml:"manager_id"`
	GUID      string `xml:"guid"`
	Nickname  string `xml:"nickname"`
	ImageURL  string `xml:"image_url"`
}

// standingsDocument is the wire shape of GET /league/{key}/standings.
type standingsDocument struct {
	XMLName xml.Name        `xml:"fantasy_content"`
	Teams   []standingsTeam `xml:"league>standings>teams>team"`
}

type standingsTeam struct {
	TeamKey   string        `xml:"team_key"`
	Standings teamStandings `xml:"team_standings"`
}

type teamStandings struct {
	Rank          int           `xml:"rank"`
	Outcome       outcomeTotals `xml:"outcome_totals"`
	PointsFor     float64       `xml:"points_for"`
	PointsAgainst float64       `xml:"points_against"`
}

type outcomeTotals struct {
	Wins   int `xml:"wins"`
	Losses int `xml:"losses"`
	Ties   int `xml:"ties"`
}

// scoreboardDocument is the wire shape of GET
// /league/{key}/scoreboard;week={week}.
type scoreboardDocument struct {
	XMLName  xml.Name         `xml:"fantasy_content"`
	Matchups []matchupDetails `xml:"league>scoreboard>matchups>matchup"`
}

type matchupDetails struct {
	Week          int           `xml:"week"`
	Status        string        `xml:"status"`
	IsPlayoffs    int           `xml:"is_playoffs"`
	IsTied        int           `xml:"is_tied"`
	WinnerTeamKey string        `xml:"winner_team_key"`
	Teams         []matchupTeam `xml:"teams>team"`
}

type matchupTeam struct {
	TeamKey   string     `xml:"team_key"`
	TeamID    int        `xml:"team_id"`
	Points    teamPoints `xml:"team_points"`
	Projected teamPoints `xml:"team_projected_points"`
}

type teamPoints struct {
	Total float64 `xml:"total"`
}

// transactionsDocument is the wire shape of GET
// /league/{key}/transactions;types=add,drop,trade.
type transactionsDocument struct {
	XMLName      xml.Name             `xml:"fantasy_content"`
	Transactions []transactionDetails `xml:"league>transactions>transaction"`
}

type transactionDetails struct {
	TransactionKey string              `xml:"transaction_key"`
	Type           string              `xml:"type"`
	Status         string              `xml:"status"`
	Timestamp      int64               `xml:"timestamp"`
	FAABBid        *int                `xml:"faab_bid"`
	Players        []transactionPlayer `xml:"players>player"`
}

type transactionPlayer struct {
	PlayerKey string       `xml:"player_key"`
	Name      playerName   `xml:"name"`
	Data      playerTxData `xml:"transaction_data"`
}

type playerName struct {
	Full string `xml:"full"`
}

type playerTxData struct {
	Type               string `xml:"type"`
	SourceType         string `xml:"source_type"`
	SourceTeamKey      string `xml:"source_team_key"`
	DestinationTeamKey string `xml:"destination_team_key"`
}

// playerPayload is the stored shape of one player in a transaction's
// added/dropped lists.
type playerPayload struct {
	Name      string `json:"name"`
	PlayerKey string `json:"player_key,omitempty"`
}
