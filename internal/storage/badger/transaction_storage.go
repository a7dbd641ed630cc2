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

// TransactionStorage implements the TransactionStorage interface for Badger
type TransactionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTransactionStorage creates a new TransactionStorage instance
func NewTransactionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TransactionStorage {
	return &TransactionStorage{
		db:     db,
		logger: logger,
	}
}

func (s *TransactionStorage) SaveTransaction(ctx context.Context, transaction *models.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}

	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(transaction.ID, transaction); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (s *TransactionStorage) SaveTransactions(ctx context.Context, transactions []*models.Transaction) error {
	for _, transaction := range transactions {
		if err := s.SaveTransaction(ctx, transaction); err != nil {
			return err
		}
	}
	return nil
}

// GetTransactionsByWeek returns transactions in creation order so digests
// and tie-breaks are deterministic across runs.
func (s *TransactionStorage) GetTransactionsByWeek(ctx context.Context, leagueID string, week int) ([]*models.Transaction, error) {
	var transactions []models.Transaction
	query := badgerhold.Where("LeagueID").Eq(leagueID).And("Week").Eq(week).SortBy("CreatedAt")
	if err := s.db.Store().Find(&transactions, query); err != nil {
		return nil, fmt.Errorf("failed to get transactions by week: %w", err)
	}

	result := make([]*models.Transaction, len(transactions))
	for i := range transactions {
		result[i] = &transactions[i]
	}
	return result, nil
}

func (s *TransactionStorage) GetTransactionsByLeague(ctx context.Context, leagueID string) ([]*models.Transaction, error) {
	var transactions []models.Transaction
	query := badgerhold.Where("LeagueID").Eq(leagueID).SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&transactions, query); err != nil {
		return nil, fmt.Errorf("failed to get transactions by league: %w", err)
	}

	result := make([]*models.Transaction, len(transactions))
	for i := range transactions {
		result[i] = &transactions[i]
	}
	return result, nil
}

func (s *TransactionStorage) DeleteTransactionsByLeague(ctx context.Context, leagueID string) error {
	query := badgerhold.Where("LeagueID").Eq(leagueID)
	if err := s.db.Store().DeleteMatching(&models.Transaction{}, query); err != nil {
		return fmt.Errorf("failed to delete transactions by league: %w", err)
	}
	return nil
}

func (s *TransactionStorage) DeleteTransactionsOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := badgerhold.Where("CreatedAt").Lt(cutoff)

	count, err := s.db.Store().Count(&models.Transaction{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count old transactions: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.Transaction{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete old transactions: %w", err)
	}
	return int(count), nil
}

func (s *TransactionStorage) CountTransactions(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Transaction{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return int(count), nil
}
