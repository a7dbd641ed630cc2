package interfaces

import (
	"context"

	"github.com/kforero17/aicommissioner/internal/models"
)

// SyncService pulls fresh league data from providers into local storage
type SyncService interface {
	// RegisterLeague fetches a league from its platform for the first time
	// and stores it along with rosters, users, and the current week's data
	RegisterLeague(ctx context.Context, platform models.Platform, externalID string) (*models.League, error)

	// SyncLeague refreshes one league's rosters, matchups, transactions,
	// and users for the current week
	SyncLeague(ctx context.Context, leagueID string) error

	// SyncWeek refreshes matchups and transactions for a specific week
	SyncWeek(ctx context.Context, leagueID string, week int) error

	// SyncAllLeagues refreshes every in-season league
	SyncAllLeagues(ctx context.Context) error
}
