package badger

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db          *BadgerDB
	league      interfaces.LeagueStorage
	roster      interfaces.RosterStorage
	matchup     interfaces.MatchupStorage
	transaction interfaces.TransactionStorage
	user        interfaces.UserStorage
	summary     interfaces.SummaryStorage
	kv          interfaces.KeyValueStorage
	logger      arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:          db,
		league:      NewLeagueStorage(db, logger),
		roster:      NewRosterStorage(db, logger),
		matchup:     NewMatchupStorage(db, logger),
		transaction: NewTransactionStorage(db, logger),
		user:        NewUserStorage(db, logger),
		summary:     NewSummaryStorage(db, logger),
		kv:          NewKVStorage(db, logger),
		logger:      logger,
	}

	manager.seedDefaultKVValues()

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// seedDefaultKVValues inserts default KV pairs that are missing. Existing
// values are never overwritten, so operator edits survive restarts.
func (m *Manager) seedDefaultKVValues() {
	ctx := context.Background()
	for _, def := range common.GetDefaultKVValues() {
		if _, err := m.kv.Get(ctx, def.Key); err == nil {
			continue
		}
		if err := m.kv.Set(ctx, def.Key, def.Value, def.Description); err != nil {
			m.logger.Warn().Err(err).Str("key", def.Key).Msg("Failed to seed default KV value")
		}
	}
}

// LeagueStorage returns the League storage interface
func (m *Manager) LeagueStorage() interfaces.LeagueStorage {
	return m.league
}

// RosterStorage returns the Roster storage interface
func (m *Manager) RosterStorage() interfaces.RosterStorage {
	return m.roster
}

// MatchupStorage returns the Matchup storage interface
func (m *Manager) MatchupStorage() interfaces.MatchupStorage {
	return m.matchup
}

// TransactionStorage returns the Transaction storage interface
func (m *Manager) TransactionStorage() interfaces.TransactionStorage {
	return m.transaction
}

// UserStorage returns the User storage interface
func (m *Manager) UserStorage() interfaces.UserStorage {
	return m.user
}

// SummaryStorage returns the Summary storage interface
func (m *Manager) SummaryStorage() interfaces.SummaryStorage {
	return m.summary
}

// KVStorage returns the KeyValue storage interface
func (m *Manager) KVStorage() interfaces.KeyValueStorage {
	return m.kv
}

// RunGC triggers value-log garbage collection on the underlying store
func (m *Manager) RunGC() error {
	if m.db != nil {
		return m.db.RunGC()
	}
	return nil
}

// DB returns the underlying database connection
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.Store()
	}
	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
