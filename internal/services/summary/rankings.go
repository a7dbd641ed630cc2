package summary

import (
	"fmt"
	"sort"

	"github.com/kforero17/aicommissioner/internal/models"
)

// buildPowerRankings scores and ranks every roster. The sort is stable, so
// equal power scores keep the incoming roster enumeration order; that order
// is the only tie-break. Ranks are dense and 1-based.
//
// Movement compares each new rank against the roster's stored previous rank.
// A roster with no previous rank moves 0 by definition, so new rosters never
// show up as climbers or fallers.
func buildPowerRankings(rosters []*models.Roster) []models.PowerRankingEntry {
	rankings := make([]models.PowerRankingEntry, 0, len(rosters))

	for _, roster := range rosters {
		entry := models.PowerRankingEntry{
			RosterID:      roster.RosterID,
			TeamName:      roster.DisplayName(),
			OwnerName:     ownerOrUnknown(roster),
			Record:        formatRecord(roster),
			PointsFor:     roster.PointsFor,
			PointsAgainst: roster.PointsAgainst,
			PowerScore:    roster.PointsFor + roster.WinPct()*100,
			Trend:         models.TrendSame,
		}
		if roster.PowerRankPrevious > 0 {
			prev := roster.PowerRankPrevious
			entry.PreviousRank = &prev
		}
		rankings = append(rankings, entry)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].PowerScore > rankings[j].PowerScore
	})

	for i := range rankings {
		newRank := i + 1
		oldRank := newRank
		if rankings[i].PreviousRank != nil {
			oldRank = *rankings[i].PreviousRank
		}

		rankings[i].Rank = newRank
		rankings[i].Movement = oldRank - newRank

		switch {
		case rankings[i].Movement > 0:
			rankings[i].Trend = models.TrendUp
		case rankings[i].Movement < 0:
			rankings[i].Trend = models.TrendDown
		default:
			rankings[i].Trend = models.TrendSame
		}
	}

	return rankings
}

// formatRecord renders "W-L", appending the ties segment only when nonzero
func formatRecord(roster *models.Roster) string {
	record := fmt.Sprintf("%d-%d", roster.Wins, roster.Losses)
	if roster.Ties > 0 {
		record += fmt.Sprintf("-%d", roster.Ties)
	}
	return record
}
