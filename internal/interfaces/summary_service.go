package interfaces

import (
	"context"

	"github.com/kforero17/aicommissioner/internal/models"
)

// SummaryService derives weekly analytics from stored league state. All
// methods are pure reads: nothing here persists ranks or summaries, that is
// the caller's responsibility.
type SummaryService interface {
	// GenerateWeeklySummary builds the complete summary for a league week,
	// composing performances, power rankings, and transaction digests.
	// Returns an error wrapping ErrNotFound when the league does not exist.
	GenerateWeeklySummary(ctx context.Context, leagueID string, week int) (*models.WeeklySummary, error)

	// CalculatePowerRankings ranks every roster in the league by power
	// score, with movement relative to each roster's stored previous rank
	CalculatePowerRankings(ctx context.Context, leagueID string) ([]models.PowerRankingEntry, error)

	// SummarizeTransactions digests one week of raw transactions into
	// human-readable summaries
	SummarizeTransactions(ctx context.Context, leagueID string, week int) ([]models.TransactionSummary, error)
}
