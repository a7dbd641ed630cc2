package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/kforero17/aicommissioner/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist. Callers
// that need to distinguish a missing entity from a storage failure should
// test with errors.Is.
var ErrNotFound = errors.New("not found")

// LeagueStorage - interface for league persistence
type LeagueStorage interface {
	SaveLeague(ctx context.Context, league *models.League) error
	GetLeague(ctx context.Context, id string) (*models.League, error)
	GetLeaguesByPlatform(ctx context.Context, platform models.Platform) ([]*models.League, error)
	ListLeagues(ctx context.Context) ([]*models.League, error)
	ListRecapLeagues(ctx context.Context) ([]*models.League, error) // in-season leagues with any recap flag enabled
	DeleteLeague(ctx context.Context, id string) error
	CountLeagues(ctx context.Context) (int, error)
}

// RosterStorage - interface for roster persistence
type RosterStorage interface {
	SaveRoster(ctx context.Context, roster *models.Roster) error
	SaveRosters(ctx context.Context, rosters []*models.Roster) error
	GetRoster(ctx context.Context, leagueID string, rosterID int) (*models.Roster, error)
	GetRostersByLeague(ctx context.Context, leagueID string) ([]*models.Roster, error) // ordered by roster ID
	UpdatePreviousRanks(ctx context.Context, leagueID string, ranks map[int]int) error
	DeleteRostersByLeague(ctx context.Context, leagueID string) error
	CountRosters(ctx context.Context) (int, error)
}

// MatchupStorage - interface for matchup persistence
type MatchupStorage interface {
	SaveMatchup(ctx context.Context, matchup *models.Matchup) error
	SaveMatchups(ctx context.Context, matchups []*models.Matchup) error
	GetMatchupsByWeek(ctx context.Context, leagueID string, week int) ([]*models.Matchup, error)
	DeleteMatchupsByLeague(ctx context.Context, leagueID string) error
	DeleteMatchupsOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	CountMatchups(ctx context.Context) (int, error)
}

// TransactionStorage - interface for transaction persistence
type TransactionStorage interface {
	SaveTransaction(ctx context.Context, transaction *models.Transaction) error
	SaveTransactions(ctx context.Context, transactions []*models.Transaction) error
	GetTransactionsByWeek(ctx context.Context, leagueID string, week int) ([]*models.Transaction, error)
	GetTransactionsByLeague(ctx context.Context, leagueID string) ([]*models.Transaction, error)
	DeleteTransactionsByLeague(ctx context.Context, leagueID string) error
	DeleteTransactionsOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	CountTransactions(ctx context.Context) (int, error)
}

// UserStorage - interface for platform user persistence
type UserStorage interface {
	SaveUser(ctx context.Context, user *models.User) error
	SaveUsers(ctx context.Context, users []*models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
}

// SummaryStorage - interface for generated weekly summary persistence
type SummaryStorage interface {
	SaveSummary(ctx context.Context, summary *models.WeeklySummary) error
	GetSummary(ctx context.Context, leagueID string, week int) (*models.WeeklySummary, error)
	GetSummariesByLeague(ctx context.Context, leagueID string, limit int) ([]*models.WeeklySummary, error)
	GetLatestSummary(ctx context.Context, leagueID string) (*models.WeeklySummary, error)
	DeleteSummariesOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	CountSummaries(ctx context.Context) (int, error)
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	LeagueStorage() LeagueStorage
	RosterStorage() RosterStorage
	MatchupStorage() MatchupStorage
	TransactionStorage() TransactionStorage
	UserStorage() UserStorage
	SummaryStorage() SummaryStorage
	KVStorage() KeyValueStorage

	// RunGC triggers a value-log garbage collection cycle on the
	// underlying store. Safe to call while the store is in use.
	RunGC() error

	// LoadVariablesFromFiles loads key/value pairs from TOML files in a
	// directory into the KV store. Missing directories are skipped.
	LoadVariablesFromFiles(ctx context.Context, dirPath string) error

	// LoadEnvFile loads KEY=value pairs from a .env file into the KV
	// store. Values from .env take precedence over TOML variables.
	LoadEnvFile(ctx context.Context, filePath string) error

	DB() interface{}
	Close() error
}
