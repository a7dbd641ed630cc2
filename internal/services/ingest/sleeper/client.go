package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/httpclient"
	"github.com/kforero17/aicommissioner/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the Sleeper API.
	DefaultBaseURL = "https://api.sleeper.app/v1"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	// Sleeper allows roughly 1000 calls per minute.
	DefaultRateLimit = 10

	// DefaultRateBurst is the default burst size for the rate limiter.
	DefaultRateBurst = 5

	// avatarBaseURL is the CDN prefix that turns an avatar ID into a URL.
	avatarBaseURL = "https://sleepercdn.com/avatars/"
)

// Client is a Sleeper API client.
type Client struct {
	baseURL   string
	http      *httpclient.RateLimitedClient
	logger    arbor.ILogger
	timeout   time.Duration
	perSecond float64
	burst     int
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
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		c.perSecond = perSecond
		c.burst = burst
	}
}

// NewClient creates a new Sleeper API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		perSecond: DefaultRateLimit,
		burst:     DefaultRateBurst,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.http = httpclient.NewRateLimitedClient(c.timeout, c.perSecond, c.burst)
	return c
}

// get performs a GET request against the API and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	reqURL := c.baseURL + path

	if c.logger != nil {
		c.logger.Debug().
			Str("url", reqURL).
			Msg("Sleeper API request")
	}

	return c.http.GetJSON(ctx, reqURL, result)
}

func (c *Client) fetchLeague(ctx context.Context, leagueID string) (*leagueResponse, error) {
	var out leagueResponse
	if err := c.get(ctx, "/league/"+leagueID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) fetchRosters(ctx context.Context, leagueID string) ([]rosterResponse, error) {
	var out []rosterResponse
	if err := c.get(ctx, fmt.Sprintf("/league/%s/rosters", leagueID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetchUsers(ctx context.Context, leagueID string) ([]userResponse, error) {
	var out []userResponse
	if err := c.get(ctx, fmt.Sprintf("/league/%s/users", leagueID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetchMatchups(ctx context.Context, leagueID string, week int) ([]matchupEntry, error) {
	var out []matchupEntry
	if err := c.get(ctx, fmt.Sprintf("/league/%s/matchups/%d", leagueID, week), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetchTransactions(ctx context.Context, leagueID string, week int) ([]transactionResponse, error) {
	var out []transactionResponse
	if err := c.get(ctx, fmt.Sprintf("/league/%s/transactions/%d", leagueID, week), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Platform identifies this client as the Sleeper provider.
func (c *Client) Platform() models.Platform {
	return models.PlatformSleeper
}

// FetchLeague retrieves league metadata normalized into a League model.
func (c *Client) FetchLeague(ctx context.Context, externalID string) (*models.League, error) {
	raw, err := c.fetchLeague(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch league %s: %w", externalID, err)
	}

	name := raw.Name
	if name == "" {
		name = fmt.Sprintf("League %s", externalID)
	}
	week := raw.Settings.Leg
	if week < 1 {
		week = 1
	}

	now := time.Now()
	league := &models.League{
		ID:          models.LeagueID(models.PlatformSleeper, externalID),
		Platform:    models.PlatformSleeper,
		ExternalID:  externalID,
		Name:        name,
		Season:      raw.Season,
		CurrentWeek: week,
		NumTeams:    raw.TotalRosters,
		ScoringType: scoringType(raw.ScoringSettings),
		Status:      leagueStatus(raw.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if raw.Settings.PlayoffWeekStart > 1 {
		// Last regular-season week
		league.TotalWeeks = raw.Settings.PlayoffWeekStart - 1
	}
	return league, nil
}

// FetchRosters retrieves all rosters joined with their owners' display
// names. A roster whose owner is missing from the users endpoint keeps an
// empty team name and falls back to a generated one at display time.
func (c *Client) FetchRosters(ctx context.Context, league *models.League) ([]*models.Roster, error) {
	rawRosters, err := c.fetchRosters(ctx, league.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rosters for league %s: %w", league.ExternalID, err)
	}
	rawUsers, err := c.fetchUsers(ctx, league.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users for league %s: %w", league.ExternalID, err)
	}

	owners := make(map[string]userResponse, len(rawUsers))
	for _, u := range rawUsers {
		owners[u.UserID] = u
	}

	now := time.Now()
	rosters := make([]*models.Roster, 0, len(rawRosters))
	for _, r := range rawRosters {
		roster := &models.Roster{
			ID:               models.RosterKey(league.ID, r.RosterID),
			LeagueID:         league.ID,
			RosterID:         r.RosterID,
			OwnerID:          r.OwnerID,
			Wins:             r.Settings.Wins,
			Losses:           r.Settings.Losses,
			Ties:             r.Settings.Ties,
			PointsFor:        points(r.Settings.FPTS, r.Settings.FPTSDecimal),
			PointsAgainst:    points(r.Settings.FPTSAgainst, r.Settings.FPTSAgainstDecimal),
			WaiverPosition:   r.Settings.WaiverPosition,
			WaiverBudgetUsed: r.Settings.WaiverBudgetUsed,
			Players:          r.Players,
			Starters:         r.Starters,
			UpdatedAt:        now,
		}
		if owner, ok := owners[r.OwnerID]; ok {
			roster.OwnerName = owner.DisplayName
			roster.TeamName = owner.Metadata.TeamName
			if roster.TeamName == "" {
				roster.TeamName = owner.DisplayName
			}
		}
		rosters = append(rosters, roster)
	}
	return rosters, nil
}

// FetchMatchups retrieves one week of matchups. Sleeper returns a flat
// list of sides; the two sides of a game share a matchup_id. Sides without
// a matchup_id and groups with a single side are stored as byes. A 404
// means the week does not exist yet and yields an empty result.
func (c *Client) FetchMatchups(ctx context.Context, league *models.League, week int) ([]*models.Matchup, error) {
	entries, err := c.fetchMatchups(ctx, league.ExternalID, week)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch matchups for league %s week %d: %w", league.ExternalID, week, err)
	}

	groups := make(map[int][]matchupEntry)
	var solo []matchupEntry
	for _, e := range entries {
		if e.MatchupID == nil {
			solo = append(solo, e)
			continue
		}
		groups[*e.MatchupID] = append(groups[*e.MatchupID], e)
	}

	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	playoff := league.TotalWeeks > 0 && week > league.TotalWeeks
	now := time.Now()
	matchups := make([]*models.Matchup, 0, len(ids)+len(solo))
	for _, id := range ids {
		sides := groups[id]
		var second *matchupEntry
		if len(sides) > 1 {
			second = &sides[1]
		}
		m := buildMatchup(league.ID, week, id, sides[0], second, now)
		m.IsPlayoff = playoff
		matchups = append(matchups, m)
	}
	for _, e := range solo {
		// Bye sides come back without a matchup id; key on the roster
		m := buildMatchup(league.ID, week, -e.RosterID, e, nil, now)
		m.IsPlayoff = playoff
		matchups = append(matchups, m)
	}
	return matchups, nil
}

// buildMatchup assembles a matchup from one or two sides. The winner is
// only decided once both sides have a score; a tie leaves the winner unset.
func buildMatchup(leagueID string, week, matchupID int, team1 matchupEntry, team2 *matchupEntry, now time.Time) *models.Matchup {
	m := &models.Matchup{
		ID:            models.MatchupKey(leagueID, week, matchupID),
		LeagueID:      leagueID,
		Week:          week,
		MatchupID:     matchupID,
		Team1RosterID: team1.RosterID,
		UpdatedAt:     now,
	}
	if team1.Points != nil {
		m.Team1Points = *team1.Points
	}
	if team1.PointsProjected != nil {
		m.Team1Projected = *team1.PointsProjected
	}
	if team2 == nil {
		m.IsCompleted = team1.Points != nil
		return m
	}

	t2 := team2.RosterID
	m.Team2RosterID = &t2
	if team2.Points != nil {
		m.Team2Points = *team2.Points
	}
	if team2.PointsProjected != nil {
		m.Team2Projected = *team2.PointsProjected
	}

	if team1.Points != nil && team2.Points != nil {
		m.IsCompleted = true
		switch {
		case m.Team1Points > m.Team2Points:
			winner := team1.RosterID
			m.WinnerRosterID = &winner
		case m.Team2Points > m.Team1Points:
			winner := t2
			m.WinnerRosterID = &winner
		}
	}
	return m
}

// FetchTransactions retrieves one week of transactions. A 404 means the
// week does not exist yet and yields an empty result.
func (c *Client) FetchTransactions(ctx context.Context, league *models.League, week int) ([]*models.Transaction, error) {
	raw, err := c.fetchTransactions(ctx, league.ExternalID, week)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch transactions for league %s week %d: %w", league.ExternalID, week, err)
	}

	now := time.Now()
	transactions := make([]*models.Transaction, 0, len(raw))
	for _, t := range raw {
		if t.TransactionID == "" {
			continue
		}
		tx := &models.Transaction{
			ID:             models.TransactionKey(league.ID, t.TransactionID),
			LeagueID:       league.ID,
			ExternalID:     t.TransactionID,
			Week:           week,
			Type:           transactionType(t.Type),
			Status:         transactionStatus(t.Status),
			PlayersAdded:   encodePlayerIDs(t.Adds),
			PlayersDropped: encodePlayerIDs(t.Drops),
			CreatedAt:      now,
		}
		if len(t.RosterIDs) > 0 {
			tx.RosterID = t.RosterIDs[0]
		}
		if tx.Type == models.TransactionTypeTrade && len(t.RosterIDs) > 1 {
			partner := t.RosterIDs[1]
			tx.TradePartnerRosterID = &partner
		}
		if t.Settings != nil {
			if t.Settings.WaiverBid > 0 {
				bid := t.Settings.WaiverBid
				tx.FAABBid = &bid
			}
			if t.Settings.Seq > 0 {
				seq := t.Settings.Seq
				tx.WaiverPriority = &seq
			}
		}
		if t.Created > 0 {
			tx.CreatedAt = time.UnixMilli(t.Created)
		}
		if t.StatusUpdated > 0 {
			processed := time.UnixMilli(t.StatusUpdated)
			tx.ProcessedAt = &processed
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// FetchUsers retrieves the platform accounts belonging to the league.
func (c *Client) FetchUsers(ctx context.Context, league *models.League) ([]*models.User, error) {
	raw, err := c.fetchUsers(ctx, league.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users for league %s: %w", league.ExternalID, err)
	}

	now := time.Now()
	users := make([]*models.User, 0, len(raw))
	for _, u := range raw {
		if u.UserID == "" {
			continue
		}
		user := &models.User{
			ID:          models.UserKey(models.PlatformSleeper, u.UserID),
			Platform:    models.PlatformSleeper,
			ExternalID:  u.UserID,
			DisplayName: u.DisplayName,
			Leagues:     []string{league.ID},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if u.Avatar != "" {
			user.AvatarURL = avatarBaseURL + u.Avatar
		}
		users = append(users, user)
	}
	return users, nil
}

// scoringType classifies the league format from its reception scoring.
func scoringType(settings map[string]float64) models.ScoringType {
	rec := settings["rec"]
	switch {
	case rec >= 1:
		return models.ScoringPPR
	case rec > 0:
		return models.ScoringHalfPPR
	default:
		return models.ScoringStandard
	}
}

// leagueStatus maps Sleeper's status string onto a LeagueStatus. Values
// the API adds later fall back to in-season.
func leagueStatus(status string) models.LeagueStatus {
	switch s := models.LeagueStatus(status); s {
	case models.LeagueStatusPreDraft, models.LeagueStatusDrafting,
		models.LeagueStatusInSeason, models.LeagueStatusComplete:
		return s
	default:
		return models.LeagueStatusInSeason
	}
}

// transactionType maps Sleeper's transaction type onto the storage
// vocabulary. Unrecognized types are treated as plain adds.
func transactionType(t string) models.TransactionType {
	switch t {
	case "waiver":
		return models.TransactionTypeWaiver
	case "free_agent":
		return models.TransactionTypeFreeAgent
	case "trade":
		return models.TransactionTypeTrade
	default:
		return models.TransactionTypeAdd
	}
}

// transactionStatus maps Sleeper's status onto the storage vocabulary,
// defaulting to complete.
func transactionStatus(s string) models.TransactionStatus {
	switch s {
	case "failed":
		return models.TransactionStatusFailed
	case "pending":
		return models.TransactionStatusPending
	default:
		return models.TransactionStatusComplete
	}
}

// encodePlayerIDs flattens an adds/drops map into a sorted JSON array of
// player IDs. Sleeper transaction payloads carry IDs only, so the IDs are
// what flows through to recaps.
func encodePlayerIDs(players map[string]int) json.RawMessage {
	if len(players) == 0 {
		return nil
	}
	ids := make([]string, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil
	}
	return raw
}

// points combines Sleeper's split integer and hundredths point totals.
func points(whole, hundredths int) float64 {
	return float64(whole) + float64(hundredths)/100
}
