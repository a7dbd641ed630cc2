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

// MatchupStorage implements the MatchupStorage interface for Badger
type MatchupStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewMatchupStorage creates a new MatchupStorage instance
func NewMatchupStorage(db *BadgerDB, logger arbor.ILogger) interfaces.MatchupStorage {
	return &MatchupStorage{
		db:     db,
		logger: logger,
	}
}

func (s *MatchupStorage) SaveMatchup(ctx context.Context, matchup *models.Matchup) error {
	if err := matchup.Validate(); err != nil {
		return err
	}

	matchup.UpdatedAt = time.Now()

	if err := s.db.Store().Upsert(matchup.ID, matchup); err != nil {
		return fmt.Errorf("failed to save matchup: %w", err)
	}
	return nil
}

func (s *MatchupStorage) SaveMatchups(ctx context.Context, matchups []*models.Matchup) error {
	for _, matchup := range matchups {
		if err := s.SaveMatchup(ctx, matchup); err != nil {
			return err
		}
	}
	return nil
}

func (s *MatchupStorage) GetMatchupsByWeek(ctx context.Context, leagueID string, week int) ([]*models.Matchup, error) {
	var matchups []models.Matchup
	query := badgerhold.Where("LeagueID").Eq(leagueID).And("Week").Eq(week).SortBy("MatchupID")
	if err := s.db.Store().Find(&matchups, query); err != nil {
		return nil, fmt.Errorf("failed to get matchups by week: %w", err)
	}

	result := make([]*models.Matchup, len(matchups))
	for i := range matchups {
		result[i] = &matchups[i]
	}
	return result, nil
}

func (s *MatchupStorage) DeleteMatchupsByLeague(ctx context.Context, leagueID string) error {
	query := badgerhold.Where("LeagueID").Eq(leagueID)
	if err := s.db.Store().DeleteMatching(&models.Matchup{}, query); err != nil {
		return fmt.Errorf("failed to delete matchups by league: %w", err)
	}
	return nil
}

func (s *MatchupStorage) DeleteMatchupsOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := badgerhold.Where("UpdatedAt").Lt(cutoff)

	count, err := s.db.Store().Count(&models.Matchup{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count old matchups: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.Matchup{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete old matchups: %w", err)
	}
	return int(count), nil
}

func (s *MatchupStorage) CountMatchups(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Matchup{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count matchups: %w", err)
	}
	return int(count), nil
}
