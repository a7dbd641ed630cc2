// Package maintenance owns periodic storage upkeep: retention cleanup of
// weekly data and the recurring storage health check.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// Service implements MaintenanceService interface
type Service struct {
	storage       interfaces.StorageManager
	events        interfaces.EventService
	logger        arbor.ILogger
	retentionDays int
}

var _ interfaces.MaintenanceService = (*Service)(nil)

// NewService creates a new maintenance service. The retention window comes
// from the recap config; eventService may be nil.
func NewService(cfg *common.Config, storage interfaces.StorageManager, eventService interfaces.EventService, logger arbor.ILogger) interfaces.MaintenanceService {
	retention := cfg.Recap.RetentionDays
	if retention <= 0 {
		retention = 730
	}

	return &Service{
		storage:       storage,
		events:        eventService,
		logger:        logger,
		retentionDays: retention,
	}
}

// Cleanup deletes weekly data past the retention window and compacts the
// store. A failing pass is recorded in the stats and the remaining passes
// still run.
func (s *Service) Cleanup(ctx context.Context) (*interfaces.CleanupStats, error) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	stats := &interfaces.CleanupStats{}

	s.logger.Info().
		Str("cutoff", cutoff.Format(time.RFC3339)).
		Int("retention_days", s.retentionDays).
		Msg("Starting retention cleanup")

	deleted, err := s.storage.SummaryStorage().DeleteSummariesOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to delete old summaries")
		stats.Errors = append(stats.Errors, fmt.Sprintf("summaries: %v", err))
	} else {
		stats.DeletedSummaries = deleted
	}

	deleted, err = s.storage.TransactionStorage().DeleteTransactionsOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to delete old transactions")
		stats.Errors = append(stats.Errors, fmt.Sprintf("transactions: %v", err))
	} else {
		stats.DeletedTransactions = deleted
	}

	deleted, err = s.storage.MatchupStorage().DeleteMatchupsOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to delete old matchups")
		stats.Errors = append(stats.Errors, fmt.Sprintf("matchups: %v", err))
	} else {
		stats.DeletedMatchups = deleted
	}

	if err := s.storage.RunGC(); err != nil {
		s.logger.Warn().Err(err).Msg("Value log garbage collection failed")
		stats.Errors = append(stats.Errors, fmt.Sprintf("gc: %v", err))
	}

	s.logger.Info().
		Int("deleted_summaries", stats.DeletedSummaries).
		Int("deleted_transactions", stats.DeletedTransactions).
		Int("deleted_matchups", stats.DeletedMatchups).
		Int("errors", len(stats.Errors)).
		Msg("Retention cleanup complete")

	s.emitCompleted(ctx, stats)

	return stats, nil
}

// HealthCheck verifies storage connectivity with a cheap count query
func (s *Service) HealthCheck(ctx context.Context) error {
	count, err := s.storage.LeagueStorage().CountLeagues(ctx)
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}

	s.logger.Debug().
		Int("league_count", count).
		Msg("Storage health check passed")

	return nil
}

func (s *Service) emitCompleted(ctx context.Context, stats *interfaces.CleanupStats) {
	if s.events == nil {
		return
	}

	event := interfaces.Event{
		Type: interfaces.EventCleanupCompleted,
		Payload: map[string]interface{}{
			"deleted_summaries":    stats.DeletedSummaries,
			"deleted_transactions": stats.DeletedTransactions,
			"deleted_matchups":     stats.DeletedMatchups,
			"errors":               len(stats.Errors),
			"timestamp":            time.Now().Format(time.RFC3339),
		},
	}

	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish cleanup event")
	}
}
