package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// UnknownPlayer is the placeholder used when a player reference cannot be
// resolved to a display name
const UnknownPlayer = "Unknown Player"

// TransactionType represents the kind of roster move a transaction records
type TransactionType string

// TransactionType constants
const (
	TransactionTypeAdd       TransactionType = "add"
	TransactionTypeDrop      TransactionType = "drop"
	TransactionTypeTrade     TransactionType = "trade"
	TransactionTypeWaiver    TransactionType = "waiver"
	TransactionTypeFreeAgent TransactionType = "free_agent"
)

// IsValidTransactionType checks if a given TransactionType is one of the valid constants
func IsValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTypeAdd, TransactionTypeDrop, TransactionTypeTrade,
		TransactionTypeWaiver, TransactionTypeFreeAgent:
		return true
	default:
		return false
	}
}

// TransactionStatus represents transaction processing status on the platform
type TransactionStatus string

// TransactionStatus constants
const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusComplete  TransactionStatus = "complete"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction represents a single roster move (add, drop, trade, waiver
// claim) ingested from a platform. Player payloads are stored raw because
// platforms disagree on their shape; DecodePlayerNames resolves them.
type Transaction struct {
	// Identity: ID is "{leagueID}:{externalID}"
	ID         string `json:"id"`
	LeagueID   string `json:"league_id" badgerhold:"index"`
	ExternalID string `json:"external_id"`
	Week       int    `json:"week" badgerhold:"index"`

	// Move
	Type                 TransactionType   `json:"type"`
	Status               TransactionStatus `json:"status"`
	RosterID             int               `json:"roster_id"`
	TradePartnerRosterID *int              `json:"trade_partner_roster_id,omitempty"`

	// Player payloads as received from the platform
	PlayersAdded   json.RawMessage `json:"players_added,omitempty"`
	PlayersDropped json.RawMessage `json:"players_dropped,omitempty"`

	// Waiver details
	FAABBid        *int `json:"faab_bid,omitempty"`
	WaiverPriority *int `json:"waiver_priority,omitempty"`

	// Timestamps
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TransactionKey builds the composite transaction key
func TransactionKey(leagueID, externalID string) string {
	return fmt.Sprintf("%s:%s", leagueID, externalID)
}

// Validate checks the transaction is well-formed enough to store
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return errors.New("transaction ID is required")
	}
	if t.LeagueID == "" {
		return errors.New("transaction league ID is required")
	}
	if t.ExternalID == "" {
		return errors.New("transaction external ID is required")
	}
	return nil
}

// DecodePlayerNames resolves a raw platform player-list payload into display
// names. Each entry may be an object carrying "name" (or "full_name") or a
// bare string; anything else resolves to "Unknown Player". A payload that
// cannot be parsed at all resolves to a single "Unknown Player" entry rather
// than failing the transaction.
func DecodePlayerNames(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []string{UnknownPlayer}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, decodePlayerName(entry))
	}
	return names
}

func decodePlayerName(raw json.RawMessage) string {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if name, ok := obj["name"].(string); ok {
			return name
		}
		if name, ok := obj["full_name"].(string); ok {
			return name
		}
		return UnknownPlayer
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	return UnknownPlayer
}
