package interfaces

import (
	"context"

	"github.com/kforero17/aicommissioner/internal/models"
)

// ProviderClient fetches league data from a fantasy platform and returns it
// normalized into storage models. Implementations own pagination, field
// mapping, and rate limiting; callers only see clean entities.
type ProviderClient interface {
	// Platform identifies which provider this client talks to
	Platform() models.Platform

	// FetchLeague retrieves league metadata including the current week
	FetchLeague(ctx context.Context, externalID string) (*models.League, error)

	// FetchRosters retrieves all rosters with season records
	FetchRosters(ctx context.Context, league *models.League) ([]*models.Roster, error)

	// FetchMatchups retrieves all matchups for one week
	FetchMatchups(ctx context.Context, league *models.League, week int) ([]*models.Matchup, error)

	// FetchTransactions retrieves all transactions for one week
	FetchTransactions(ctx context.Context, league *models.League, week int) ([]*models.Transaction, error)

	// FetchUsers retrieves the platform accounts belonging to the league
	FetchUsers(ctx context.Context, league *models.League) ([]*models.User, error)
}
