package interfaces

import "context"

// CleanupStats reports what a cleanup pass removed
type CleanupStats struct {
	DeletedSummaries    int      `json:"deleted_summaries"`
	DeletedTransactions int      `json:"deleted_transactions"`
	DeletedMatchups     int      `json:"deleted_matchups"`
	Errors              []string `json:"errors,omitempty"`
}

// MaintenanceService owns periodic storage upkeep
type MaintenanceService interface {
	// Cleanup deletes entities past the retention window and compacts
	// the store. Partial failures are collected, not fatal.
	Cleanup(ctx context.Context) (*CleanupStats, error)

	// HealthCheck verifies storage connectivity and reports basic counts
	HealthCheck(ctx context.Context) error
}
