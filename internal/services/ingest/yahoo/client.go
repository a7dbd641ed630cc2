package yahoo

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/kforero17/aicommissioner/internal/httpclient"
	"github.com/kforero17/aicommissioner/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the Yahoo Fantasy Sports API.
	DefaultBaseURL = "https://fantasysports.yahooapis.com/fantasy/v2"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5
)

// Client is a Yahoo Fantasy Sports API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	timeout    time.Duration
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets a custom HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a Yahoo API client that authenticates every request
// through the given token source.
func NewClient(src oauth2.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		Timeout:   c.timeout,
		Transport: &oauth2.Transport{Source: src},
	}
	return c
}

// get performs a GET request against the API and decodes the XML response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("url", reqURL).
			Msg("Yahoo API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &httpclient.StatusError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	if err := xml.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", reqURL, err)
	}
	return nil
}

// Platform identifies this client as the Yahoo provider.
func (c *Client) Platform() models.Platform {
	return models.PlatformYahoo
}

// FetchLeague retrieves league metadata normalized into a League model.
func (c *Client) FetchLeague(ctx context.Context, externalID string) (*models.League, error) {
	var doc leagueDocument
	if err := c.get(ctx, fmt.Sprintf("/league/%s/settings", externalID), &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch league %s: %w", externalID, err)
	}
	raw := doc.League

	name := raw.Name
	if name == "" {
		name = fmt.Sprintf("League %s", externalID)
	}
	week := raw.CurrentWeek
	if week < 1 {
		week = 1
	}

	scoring := models.ScoringStandard
	if raw.Settings != nil {
		scoring = yahooScoringType(raw.Settings.ScoringType)
	}

	now := time.Now()
	league := &models.League{
		ID:          models.LeagueID(models.PlatformYahoo, externalID),
		Platform:    models.PlatformYahoo,
		ExternalID:  externalID,
		Name:        name,
		Season:      raw.Season,
		CurrentWeek: week,
		NumTeams:    raw.NumTeams,
		ScoringType: scoring,
		Status:      yahooLeagueStatus(raw),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if raw.Settings != nil && raw.Settings.PlayoffStartWeek > 1 {
		// Last regular-season week
		league.TotalWeeks = raw.Settings.PlayoffStartWeek - 1
	}
	return league, nil
}

// FetchRosters retrieves all teams joined with their standings records.
func (c *Client) FetchRosters(ctx context.Context, league *models.League) ([]*models.Roster, error) {
	var teams teamsDocument
	if err := c.get(ctx, fmt.Sprintf("/league/%s/teams", league.ExternalID), &teams); err != nil {
		return nil, fmt.Errorf("failed to fetch teams for league %s: %w", league.ExternalID, err)
	}
	var standings standingsDocument
	if err := c.get(ctx, fmt.Sprintf("/league/%s/standings", league.ExternalID), &standings); err != nil {
		return nil, fmt.Errorf("failed to fetch standings for league %s: %w", league.ExternalID, err)
	}

	records := make(map[string]teamStandings, len(standings.Teams))
	for _, s := range standings.Teams {
		records[s.TeamKey] = s.Standings
	}

	now := time.Now()
	rosters := make([]*models.Roster, 0, len(teams.Teams))
	for _, team := range teams.Teams {
		rosterID := team.TeamID
		if rosterID == 0 {
			rosterID = teamIDFromKey(team.TeamKey)
		}
		if rosterID == 0 {
			continue
		}

		roster := &models.Roster{
			ID:             models.RosterKey(league.ID, rosterID),
			LeagueID:       league.ID,
			RosterID:       rosterID,
			TeamName:       team.Name,
			WaiverPosition: team.WaiverPriority,
			FAABBudget:     team.FAABBalance,
			UpdatedAt:      now,
		}
		if len(team.Managers) > 0 {
			roster.OwnerID = team.Managers[0].GUID
			roster.OwnerName = team.Managers[0].Nickname
		}
		if record, ok := records[team.TeamKey]; ok {
			roster.Wins = record.Outcome.Wins
			roster.Losses = record.Outcome.Losses
			roster.Ties = record.Outcome.Ties
			roster.PointsFor = record.PointsFor
			roster.PointsAgainst = record.PointsAgainst
		}
		rosters = append(rosters, roster)
	}
	return rosters, nil
}

// FetchMatchups retrieves one week of matchups from the scoreboard.
// Matchups without exactly two sides are skipped; Yahoo models byes by
// omission. A 404 means the week does not exist yet and yields an empty
// result.
func (c *Client) FetchMatchups(ctx context.Context, league *models.League, week int) ([]*models.Matchup, error) {
	var doc scoreboardDocument
	if err := c.get(ctx, fmt.Sprintf("/league/%s/scoreboard;week=%d", league.ExternalID, week), &doc); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch scoreboard for league %s week %d: %w", league.ExternalID, week, err)
	}

	now := time.Now()
	matchups := make([]*models.Matchup, 0, len(doc.Matchups))
	for i, m := range doc.Matchups {
		if len(m.Teams) != 2 {
			continue
		}
		team1, team2 := m.Teams[0], m.Teams[1]

		team1ID := teamIDFromKey(team1.TeamKey)
		if team1ID == 0 {
			team1ID = team1.TeamID
		}
		team2ID := teamIDFromKey(team2.TeamKey)
		if team2ID == 0 {
			team2ID = team2.TeamID
		}

		matchupID := i + 1
		matchup := &models.Matchup{
			ID:             models.MatchupKey(league.ID, week, matchupID),
			LeagueID:       league.ID,
			Week:           week,
			MatchupID:      matchupID,
			Team1RosterID:  team1ID,
			Team2RosterID:  &team2ID,
			Team1Points:    team1.Points.Total,
			Team2Points:    team2.Points.Total,
			Team1Projected: team1.Projected.Total,
			Team2Projected: team2.Projected.Total,
			IsPlayoff:      m.IsPlayoffs == 1,
			UpdatedAt:      now,
		}

		matchup.IsCompleted = m.Status == "postevent" || team1.Points.Total > 0 || team2.Points.Total > 0
		if matchup.IsCompleted {
			switch {
			case m.WinnerTeamKey != "":
				if id := teamIDFromKey(m.WinnerTeamKey); id > 0 {
					matchup.WinnerRosterID = &id
				}
			case m.IsTied == 1:
				// tie stays unset
			case matchup.Team1Points > matchup.Team2Points:
				winner := team1ID
				matchup.WinnerRosterID = &winner
			case matchup.Team2Points > matchup.Team1Points:
				winner := team2ID
				matchup.WinnerRosterID = &winner
			}
		}
		matchups = append(matchups, matchup)
	}
	return matchups, nil
}

// FetchTransactions retrieves recent add, drop, and trade transactions.
// Yahoo's transactions endpoint has no week filter, so entries are tagged
// with the requested week; re-syncing an older entry moves it to the week
// of the latest sync.
func (c *Client) FetchTransactions(ctx context.Context, league *models.League, week int) ([]*models.Transaction, error) {
	var doc transactionsDocument
	if err := c.get(ctx, fmt.Sprintf("/league/%s/transactions;types=add,drop,trade", league.ExternalID), &doc); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch transactions for league %s: %w", league.ExternalID, err)
	}

	now := time.Now()
	transactions := make([]*models.Transaction, 0, len(doc.Transactions))
	for _, t := range doc.Transactions {
		if t.TransactionKey == "" {
			continue
		}

		tx := &models.Transaction{
			ID:             models.TransactionKey(league.ID, t.TransactionKey),
			LeagueID:       league.ID,
			ExternalID:     t.TransactionKey,
			Week:           week,
			Type:           yahooTransactionType(t.Type),
			Status:         yahooTransactionStatus(t.Status),
			PlayersAdded:   encodePlayers(t.Players, "add"),
			PlayersDropped: encodePlayers(t.Players, "drop"),
			CreatedAt:      now,
		}

		seen := make(map[string]bool)
		var teamKeys []string
		for _, p := range t.Players {
			for _, key := range [2]string{p.Data.DestinationTeamKey, p.Data.SourceTeamKey} {
				if key != "" && !seen[key] {
					seen[key] = true
					teamKeys = append(teamKeys, key)
				}
			}
		}
		if len(teamKeys) > 0 {
			tx.RosterID = teamIDFromKey(teamKeys[0])
		}
		if tx.Type == models.TransactionTypeTrade && len(teamKeys) > 1 {
			if partner := teamIDFromKey(teamKeys[1]); partner > 0 {
				tx.TradePartnerRosterID = &partner
			}
		}

		if t.FAABBid != nil {
			bid := *t.FAABBid
			tx.FAABBid = &bid
		}
		if t.Timestamp > 0 {
			tx.CreatedAt = time.Unix(t.Timestamp, 0)
			processed := tx.CreatedAt
			tx.ProcessedAt = &processed
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// FetchUsers retrieves the managers behind every team in the league.
func (c *Client) FetchUsers(ctx context.Context, league *models.League) ([]*models.User, error) {
	var teams teamsDocument
	if err := c.get(ctx, fmt.Sprintf("/league/%s/teams", league.ExternalID), &teams); err != nil {
		return nil, fmt.Errorf("failed to fetch teams for league %s: %w", league.ExternalID, err)
	}

	now := time.Now()
	seen := make(map[string]bool)
	var users []*models.User
	for _, team := range teams.Teams {
		for _, manager := range team.Managers {
			if manager.GUID == "" || seen[manager.GUID] {
				continue
			}
			seen[manager.GUID] = true
			users = append(users, &models.User{
				ID:          models.UserKey(models.PlatformYahoo, manager.GUID),
				Platform:    models.PlatformYahoo,
				ExternalID:  manager.GUID,
				DisplayName: manager.Nickname,
				AvatarURL:   manager.ImageURL,
				Leagues:     []string{league.ID},
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}
	return users, nil
}

// teamIDFromKey extracts the numeric team ID from a Yahoo team key such as
// "461.l.12345.t.7". Returns 0 when the key has no team segment.
func teamIDFromKey(key string) int {
	idx := strings.LastIndex(key, ".t.")
	if idx < 0 {
		return 0
	}
	id, err := strconv.Atoi(key[idx+len(".t."):])
	if err != nil {
		return 0
	}
	return id
}

// yahooScoringType classifies the scoring format from the settings string.
// Yahoo does not expose PPR-ness directly, so this matches on the label.
func yahooScoringType(s string) models.ScoringType {
	label := strings.ToLower(s)
	switch {
	case strings.Contains(label, "half"):
		return models.ScoringHalfPPR
	case strings.Contains(label, "ppr"):
		return models.ScoringPPR
	default:
		return models.ScoringStandard
	}
}

// yahooLeagueStatus derives the season lifecycle from the league flags.
func yahooLeagueStatus(raw leagueDetails) models.LeagueStatus {
	switch {
	case raw.IsFinished == 1:
		return models.LeagueStatusComplete
	case raw.DraftStatus == "predraft":
		return models.LeagueStatusPreDraft
	case raw.DraftStatus == "draft":
		return models.LeagueStatusDrafting
	default:
		return models.LeagueStatusInSeason
	}
}

// yahooTransactionType maps Yahoo's transaction type onto the storage
// vocabulary. Combined "add/drop" entries count as adds.
func yahooTransactionType(t string) models.TransactionType {
	label := strings.ToLower(t)
	switch {
	case strings.Contains(label, "trade"):
		return models.TransactionTypeTrade
	case strings.Contains(label, "add"):
		return models.TransactionTypeAdd
	case strings.Contains(label, "drop"):
		return models.TransactionTypeDrop
	default:
		return models.TransactionTypeWaiver
	}
}

// yahooTransactionStatus maps Yahoo's status onto the storage vocabulary.
func yahooTransactionStatus(s string) models.TransactionStatus {
	switch s {
	case "successful":
		return models.TransactionStatusComplete
	case "pending":
		return models.TransactionStatusPending
	default:
		return models.TransactionStatusFailed
	}
}

// encodePlayers filters a transaction's players by action and stores them
// as a JSON array of name-bearing objects.
func encodePlayers(players []transactionPlayer, action string) json.RawMessage {
	var payload []playerPayload
	for _, p := range players {
		if p.Data.Type != action {
			continue
		}
		payload = append(payload, playerPayload{Name: p.Name.Full, PlayerKey: p.PlayerKey})
	}
	if len(payload) == 0 {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return raw
}
