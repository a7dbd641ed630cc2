package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// LeagueStorage implements the LeagueStorage interface for Badger
type LeagueStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewLeagueStorage creates a new LeagueStorage instance
func NewLeagueStorage(db *BadgerDB, logger arbor.ILogger) interfaces.LeagueStorage {
	return &LeagueStorage{
		db:     db,
		logger: logger,
	}
}

func (s *LeagueStorage) SaveLeague(ctx context.Context, league *models.League) error {
	if err := league.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if league.CreatedAt.IsZero() {
		league.CreatedAt = now
	}
	league.UpdatedAt = now

	if err := s.db.Store().Upsert(league.ID, league); err != nil {
		return fmt.Errorf("failed to save league: %w", err)
	}
	return nil
}

func (s *LeagueStorage) GetLeague(ctx context.Context, id string) (*models.League, error) {
	var league models.League
	if err := s.db.Store().Get(id, &league); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("league %s: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &league, nil
}

func (s *LeagueStorage) GetLeaguesByPlatform(ctx context.Context, platform models.Platform) ([]*models.League, error) {
	var leagues []models.League
	if err := s.db.Store().Find(&leagues, badgerhold.Where("Platform").Eq(platform)); err != nil {
		return nil, fmt.Errorf("failed to get leagues by platform: %w", err)
	}

	result := make([]*models.League, len(leagues))
	for i := range leagues {
		result[i] = &leagues[i]
	}
	return result, nil
}

func (s *LeagueStorage) ListLeagues(ctx context.Context) ([]*models.League, error) {
	var leagues []models.League
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&leagues, query); err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}

	result := make([]*models.League, len(leagues))
	for i := range leagues {
		result[i] = &leagues[i]
	}
	return result, nil
}

func (s *LeagueStorage) ListRecapLeagues(ctx context.Context) ([]*models.League, error) {
	var leagues []models.League
	if err := s.db.Store().Find(&leagues, badgerhold.Where("Status").Eq(models.LeagueStatusInSeason)); err != nil {
		return nil, fmt.Errorf("failed to list recap leagues: %w", err)
	}

	result := make([]*models.League, 0, len(leagues))
	for i := range leagues {
		if leagues[i].PowerRankingsEnabled || leagues[i].WaiverRecapEnabled {
			result = append(result, &leagues[i])
		}
	}
	return result, nil
}

func (s *LeagueStorage) DeleteLeague(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.League{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete league: %w", err)
	}
	return nil
}

func (s *LeagueStorage) CountLeagues(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.League{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count leagues: %w", err)
	}
	return int(count), nil
}
