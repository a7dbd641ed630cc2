package summary

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kforero17/aicommissioner/internal/models"
)

// buildTransactionSummaries digests raw transactions into display summaries.
// A transaction whose roster is missing entirely still produces a summary
// with placeholder names; an empty name on a known roster passes through
// untouched.
func buildTransactionSummaries(transactions []*models.Transaction, rosters map[int]*models.Roster) []models.TransactionSummary {
	summaries := make([]models.TransactionSummary, 0, len(transactions))

	for _, tx := range transactions {
		teamName := fmt.Sprintf("Team %d", tx.RosterID)
		ownerName := "Unknown"
		if roster, ok := rosters[tx.RosterID]; ok {
			teamName = roster.TeamName
			ownerName = roster.OwnerName
		}

		added := models.DecodePlayerNames(tx.PlayersAdded)
		dropped := models.DecodePlayerNames(tx.PlayersDropped)

		summary := models.TransactionSummary{
			Type:           tx.Type,
			TeamName:       teamName,
			OwnerName:      ownerName,
			PlayersAdded:   added,
			PlayersDropped: dropped,
			Notes:          transactionNotes(tx.Type, added, dropped, tx.FAABBid),
		}
		if tx.FAABBid != nil {
			bid := *tx.FAABBid
			summary.FAABSpent = &bid
		}

		summaries = append(summaries, summary)
	}

	return summaries
}

// transactionNotes renders the one-line description for a transaction. Each
// type has a fixed template; unrecognized types fall through to a generic
// "+added -dropped" form.
func transactionNotes(txType models.TransactionType, added, dropped []string, bid *int) string {
	addedList := strings.Join(added, ", ")
	droppedList := strings.Join(dropped, ", ")

	switch txType {
	case models.TransactionTypeTrade:
		return fmt.Sprintf("Traded %s for %s", droppedList, addedList)
	case models.TransactionTypeWaiver:
		bidText := ""
		if bid != nil && *bid > 0 {
			bidText = fmt.Sprintf(" for $%d", *bid)
		}
		return fmt.Sprintf("Picked up %s%s, dropped %s", addedList, bidText, droppedList)
	case models.TransactionTypeAdd:
		return fmt.Sprintf("Added %s", addedList)
	case models.TransactionTypeDrop:
		return fmt.Sprintf("Dropped %s", droppedList)
	default:
		return fmt.Sprintf("%s: +%s -%s", titleCase(string(txType)), addedList, droppedList)
	}
}

// titleCase uppercases the first letter of every run of letters and
// lowercases the rest, so "free_agent" renders as "Free_Agent". Word
// boundaries are any non-letter rune.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
