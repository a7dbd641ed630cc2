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

// SummaryStorage implements the SummaryStorage interface for Badger
type SummaryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSummaryStorage creates a new SummaryStorage instance
func NewSummaryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SummaryStorage {
	return &SummaryStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SummaryStorage) SaveSummary(ctx context.Context, summary *models.WeeklySummary) error {
	if summary.LeagueID == "" {
		return fmt.Errorf("summary league ID is required")
	}
	if summary.Week < 1 {
		return fmt.Errorf("summary week must be positive")
	}

	if summary.ID == "" {
		summary.ID = models.SummaryKey(summary.LeagueID, summary.Week)
	}
	if summary.GeneratedAt.IsZero() {
		summary.GeneratedAt = time.Now()
	}

	if err := s.db.Store().Upsert(summary.ID, summary); err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

func (s *SummaryStorage) GetSummary(ctx context.Context, leagueID string, week int) (*models.WeeklySummary, error) {
	key := models.SummaryKey(leagueID, week)

	var summary models.WeeklySummary
	if err := s.db.Store().Get(key, &summary); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("summary %s: %w", key, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return &summary, nil
}

func (s *SummaryStorage) GetSummariesByLeague(ctx context.Context, leagueID string, limit int) ([]*models.WeeklySummary, error) {
	query := badgerhold.Where("LeagueID").Eq(leagueID).SortBy("Week").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var summaries []models.WeeklySummary
	if err := s.db.Store().Find(&summaries, query); err != nil {
		return nil, fmt.Errorf("failed to get summaries by league: %w", err)
	}

	result := make([]*models.WeeklySummary, len(summaries))
	for i := range summaries {
		result[i] = &summaries[i]
	}
	return result, nil
}

func (s *SummaryStorage) GetLatestSummary(ctx context.Context, leagueID string) (*models.WeeklySummary, error) {
	summaries, err := s.GetSummariesByLeague(ctx, leagueID, 1)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("latest summary for league %s: %w", leagueID, interfaces.ErrNotFound)
	}
	return summaries[0], nil
}

func (s *SummaryStorage) DeleteSummariesOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := badgerhold.Where("GeneratedAt").Lt(cutoff)

	count, err := s.db.Store().Count(&models.WeeklySummary{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count old summaries: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.WeeklySummary{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete old summaries: %w", err)
	}
	return int(count), nil
}

func (s *SummaryStorage) CountSummaries(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.WeeklySummary{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count summaries: %w", err)
	}
	return int(count), nil
}
