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

// RosterStorage implements the RosterStorage interface for Badger
type RosterStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRosterStorage creates a new RosterStorage instance
func NewRosterStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RosterStorage {
	return &RosterStorage{
		db:     db,
		logger: logger,
	}
}

func (s *RosterStorage) SaveRoster(ctx context.Context, roster *models.Roster) error {
	if err := roster.Validate(); err != nil {
		return err
	}

	roster.UpdatedAt = time.Now()

	if err := s.db.Store().Upsert(roster.ID, roster); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

func (s *RosterStorage) SaveRosters(ctx context.Context, rosters []*models.Roster) error {
	for _, roster := range rosters {
		if err := s.SaveRoster(ctx, roster); err != nil {
			return err
		}
	}
	return nil
}

func (s *RosterStorage) GetRoster(ctx context.Context, leagueID string, rosterID int) (*models.Roster, error) {
	key := models.RosterKey(leagueID, rosterID)

	var roster models.Roster
	if err := s.db.Store().Get(key, &roster); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("roster %s: %w", key, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	return &roster, nil
}

// GetRostersByLeague returns rosters ordered by roster ID so downstream
// ranking has a stable enumeration order.
func (s *RosterStorage) GetRostersByLeague(ctx context.Context, leagueID string) ([]*models.Roster, error) {
	var rosters []models.Roster
	query := badgerhold.Where("LeagueID").Eq(leagueID).SortBy("RosterID")
	if err := s.db.Store().Find(&rosters, query); err != nil {
		return nil, fmt.Errorf("failed to get rosters by league: %w", err)
	}

	result := make([]*models.Roster, len(rosters))
	for i := range rosters {
		result[i] = &rosters[i]
	}
	return result, nil
}

func (s *RosterStorage) UpdatePreviousRanks(ctx context.Context, leagueID string, ranks map[int]int) error {
	for rosterID, rank := range ranks {
		roster, err := s.GetRoster(ctx, leagueID, rosterID)
		if err != nil {
			return fmt.Errorf("failed to update previous rank for roster %d: %w", rosterID, err)
		}

		roster.PowerRankPrevious = rank
		roster.UpdatedAt = time.Now()

		if err := s.db.Store().Upsert(roster.ID, roster); err != nil {
			return fmt.Errorf("failed to update previous rank for roster %d: %w", rosterID, err)
		}
	}
	return nil
}

func (s *RosterStorage) DeleteRostersByLeague(ctx context.Context, leagueID string) error {
	query := badgerhold.Where("LeagueID").Eq(leagueID)
	if err := s.db.Store().DeleteMatching(&models.Roster{}, query); err != nil {
		return fmt.Errorf("failed to delete rosters by league: %w", err)
	}
	return nil
}

func (s *RosterStorage) CountRosters(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Roster{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count rosters: %w", err)
	}
	return int(count), nil
}
