// Package ingest synchronizes league data from fantasy platforms into
// local storage. Provider clients are registered by platform; the service
// owns upsert merging so a platform refresh never clobbers locally
// configured recap settings or power-rank baselines.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

const (
	// matchupSyncSpan is how many weeks of matchups, ending at the
	// current week, each full sync refreshes.
	matchupSyncSpan = 3

	// transactionSyncSpan is how many weeks of transactions each full
	// sync refreshes.
	transactionSyncSpan = 2
)

// Service implements league synchronization across providers.
type Service struct {
	storage interfaces.StorageManager
	events  interfaces.EventService
	logger  arbor.ILogger
	clients map[models.Platform]interfaces.ProviderClient
}

// NewService creates a sync service. Each client registers under its own
// platform; a later client for the same platform replaces the earlier one.
func NewService(
	storage interfaces.StorageManager,
	events interfaces.EventService,
	logger arbor.ILogger,
	clients ...interfaces.ProviderClient,
) interfaces.SyncService {
	byPlatform := make(map[models.Platform]interfaces.ProviderClient, len(clients))
	for _, c := range clients {
		byPlatform[c.Platform()] = c
	}
	return &Service{
		storage: storage,
		events:  events,
		logger:  logger,
		clients: byPlatform,
	}
}

func (s *Service) client(platform models.Platform) (interfaces.ProviderClient, error) {
	c, ok := s.clients[platform]
	if !ok {
		return nil, fmt.Errorf("no provider client registered for platform %s", platform)
	}
	return c, nil
}

// RegisterLeague fetches a league from its platform for the first time and
// stores it, then runs a full sync so rosters, matchups, and transactions
// are immediately available. Registering an already-known league refreshes
// its platform fields and re-syncs.
func (s *Service) RegisterLeague(ctx context.Context, platform models.Platform, externalID string) (*models.League, error) {
	if !models.IsValidPlatform(platform) {
		return nil, fmt.Errorf("invalid platform: %s (must be one of: sleeper, yahoo)", platform)
	}
	if externalID == "" {
		return nil, fmt.Errorf("external league ID is required")
	}
	client, err := s.client(platform)
	if err != nil {
		return nil, err
	}

	fetched, err := client.FetchLeague(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch league %s from %s: %w", externalID, platform, err)
	}

	leagueID := models.LeagueID(platform, externalID)
	league := fetched
	if existing, err := s.storage.LeagueStorage().GetLeague(ctx, leagueID); err == nil && existing != nil {
		applyFetched(existing, fetched)
		league = existing
	} else {
		// New leagues get both recaps on; callers turn them off per league
		league.PowerRankingsEnabled = true
		league.WaiverRecapEnabled = true
	}

	if err := s.storage.LeagueStorage().SaveLeague(ctx, league); err != nil {
		return nil, fmt.Errorf("failed to store league %s: %w", leagueID, err)
	}

	s.logger.Info().
		Str("league_id", leagueID).
		Str("name", league.Name).
		Msg("League registered")

	if err := s.SyncLeague(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("league %s registered but initial sync failed: %w", leagueID, err)
	}
	return s.storage.LeagueStorage().GetLeague(ctx, leagueID)
}

// SyncLeague refreshes one league's metadata, rosters, users, and the
// recent weeks of matchups and transactions.
func (s *Service) SyncLeague(ctx context.Context, leagueID string) error {
	league, err := s.storage.LeagueStorage().GetLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("failed to load league %s: %w", leagueID, err)
	}
	client, err := s.client(league.Platform)
	if err != nil {
		return err
	}

	s.publish(ctx, interfaces.EventSyncStarted, map[string]interface{}{
		"league_id": leagueID,
	})

	if err := s.syncLeague(ctx, client, league); err != nil {
		s.publish(ctx, interfaces.EventSyncFailed, map[string]interface{}{
			"league_id": leagueID,
			"error":     err.Error(),
		})
		return err
	}

	s.publish(ctx, interfaces.EventSyncCompleted, map[string]interface{}{
		"league_id": leagueID,
		"week":      league.CurrentWeek,
	})
	return nil
}

func (s *Service) syncLeague(ctx context.Context, client interfaces.ProviderClient, league *models.League) error {
	fetched, err := client.FetchLeague(ctx, league.ExternalID)
	if err != nil {
		return fmt.Errorf("failed to refresh league %s: %w", league.ID, err)
	}
	applyFetched(league, fetched)

	if err := s.syncRosters(ctx, client, league); err != nil {
		return err
	}
	if err := s.syncUsers(ctx, client, league); err != nil {
		return err
	}

	// Only recent weeks are refreshed; settled weeks never change
	for week := firstWeek(league.CurrentWeek, matchupSyncSpan); week <= league.CurrentWeek; week++ {
		if err := s.syncMatchups(ctx, client, league, week); err != nil {
			s.logger.Warn().Err(err).
				Str("league_id", league.ID).
				Int("week", week).
				Msg("Matchup sync failed for week")
		}
	}
	for week := firstWeek(league.CurrentWeek, transactionSyncSpan); week <= league.CurrentWeek; week++ {
		if err := s.syncTransactions(ctx, client, league, week); err != nil {
			s.logger.Warn().Err(err).
				Str("league_id", league.ID).
				Int("week", week).
				Msg("Transaction sync failed for week")
		}
	}

	now := time.Now()
	league.LastSyncedAt = &now
	if err := s.storage.LeagueStorage().SaveLeague(ctx, league); err != nil {
		return fmt.Errorf("failed to store league %s: %w", league.ID, err)
	}

	s.logger.Info().
		Str("league_id", league.ID).
		Int("week", league.CurrentWeek).
		Msg("League synced")
	return nil
}

// SyncWeek refreshes matchups and transactions for a single week.
func (s *Service) SyncWeek(ctx context.Context, leagueID string, week int) error {
	if week < 1 {
		return fmt.Errorf("invalid week: %d", week)
	}
	league, err := s.storage.LeagueStorage().GetLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("failed to load league %s: %w", leagueID, err)
	}
	client, err := s.client(league.Platform)
	if err != nil {
		return err
	}

	if err := s.syncMatchups(ctx, client, league, week); err != nil {
		return err
	}
	if err := s.syncTransactions(ctx, client, league, week); err != nil {
		return err
	}

	s.logger.Info().
		Str("league_id", leagueID).
		Int("week", week).
		Msg("Week synced")
	return nil
}

// SyncAllLeagues refreshes every in-season league, continuing past
// per-league failures.
func (s *Service) SyncAllLeagues(ctx context.Context) error {
	leagues, err := s.storage.LeagueStorage().ListLeagues(ctx)
	if err != nil {
		return fmt.Errorf("failed to list leagues: %w", err)
	}

	var attempted, failed int
	for _, league := range leagues {
		if league.Status != models.LeagueStatusInSeason {
			continue
		}
		attempted++
		if err := s.SyncLeague(ctx, league.ID); err != nil {
			failed++
			s.logger.Error().Err(err).
				Str("league_id", league.ID).
				Msg("League sync failed")
		}
	}

	s.logger.Info().
		Int("attempted", attempted).
		Int("failed", failed).
		Msg("Sync pass finished")

	if failed > 0 {
		return fmt.Errorf("%d of %d league syncs failed", failed, attempted)
	}
	return nil
}

func (s *Service) syncRosters(ctx context.Context, client interfaces.ProviderClient, league *models.League) error {
	rosters, err := client.FetchRosters(ctx, league)
	if err != nil {
		return fmt.Errorf("failed to fetch rosters for %s: %w", league.ID, err)
	}

	existing, err := s.storage.RosterStorage().GetRostersByLeague(ctx, league.ID)
	if err != nil {
		return fmt.Errorf("failed to load stored rosters for %s: %w", league.ID, err)
	}
	previousRanks := make(map[int]int, len(existing))
	for _, r := range existing {
		previousRanks[r.RosterID] = r.PowerRankPrevious
	}
	for _, r := range rosters {
		// The rank baseline survives refreshes until the next published recap
		r.PowerRankPrevious = previousRanks[r.RosterID]
	}

	if err := s.storage.RosterStorage().SaveRosters(ctx, rosters); err != nil {
		return fmt.Errorf("failed to store rosters for %s: %w", league.ID, err)
	}
	return nil
}

func (s *Service) syncUsers(ctx context.Context, client interfaces.ProviderClient, league *models.League) error {
	users, err := client.FetchUsers(ctx, league)
	if err != nil {
		return fmt.Errorf("failed to fetch users for %s: %w", league.ID, err)
	}

	for _, u := range users {
		stored, err := s.storage.UserStorage().GetUser(ctx, u.ID)
		if err != nil || stored == nil {
			continue
		}
		u.CreatedAt = stored.CreatedAt
		for _, id := range stored.Leagues {
			if !u.InLeague(id) {
				u.Leagues = append(u.Leagues, id)
			}
		}
	}

	if err := s.storage.UserStorage().SaveUsers(ctx, users); err != nil {
		return fmt.Errorf("failed to store users for %s: %w", league.ID, err)
	}
	return nil
}

func (s *Service) syncMatchups(ctx context.Context, client interfaces.ProviderClient, league *models.League, week int) error {
	matchups, err := client.FetchMatchups(ctx, league, week)
	if err != nil {
		return fmt.Errorf("failed to fetch matchups for %s week %d: %w", league.ID, week, err)
	}
	if len(matchups) == 0 {
		return nil
	}
	if err := s.storage.MatchupStorage().SaveMatchups(ctx, matchups); err != nil {
		return fmt.Errorf("failed to store matchups for %s week %d: %w", league.ID, week, err)
	}
	return nil
}

func (s *Service) syncTransactions(ctx context.Context, client interfaces.ProviderClient, league *models.League, week int) error {
	transactions, err := client.FetchTransactions(ctx, league, week)
	if err != nil {
		return fmt.Errorf("failed to fetch transactions for %s week %d: %w", league.ID, week, err)
	}
	if len(transactions) == 0 {
		return nil
	}
	if err := s.storage.TransactionStorage().SaveTransactions(ctx, transactions); err != nil {
		return fmt.Errorf("failed to store transactions for %s week %d: %w", league.ID, week, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).
			Str("event", string(eventType)).
			Msg("Failed to publish event")
	}
}

// applyFetched copies the platform-owned fields of a fetched league onto
// the stored one, leaving locally configured recap settings untouched.
func applyFetched(stored, fetched *models.League) {
	stored.Name = fetched.Name
	stored.Season = fetched.Season
	stored.CurrentWeek = fetched.CurrentWeek
	stored.TotalWeeks = fetched.TotalWeeks
	stored.NumTeams = fetched.NumTeams
	stored.ScoringType = fetched.ScoringType
	stored.Status = fetched.Status
	stored.UpdatedAt = fetched.UpdatedAt
}

// firstWeek returns the first week of a span ending at current, clamped
// to week 1.
func firstWeek(current, span int) int {
	first := current - span + 1
	if first < 1 {
		return 1
	}
	return first
}
