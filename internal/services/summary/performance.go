package summary

import (
	"math"

	"github.com/kforero17/aicommissioner/internal/models"
)

// rostersByID indexes rosters by their platform roster id
func rostersByID(rosters []*models.Roster) map[int]*models.Roster {
	byID := make(map[int]*models.Roster, len(rosters))
	for _, r := range rosters {
		byID[r.RosterID] = r
	}
	return byID
}

// ownerOrUnknown returns the roster's owner name, falling back to a
// placeholder when the platform never provided one
func ownerOrUnknown(r *models.Roster) string {
	if r.OwnerName != "" {
		return r.OwnerName
	}
	return "Unknown"
}

// buildPerformances emits two performance records per two-team matchup, one
// per side, each using the opposite side as the opponent. Bye matchups and
// matchups referencing rosters absent from the roster set produce nothing.
func buildPerformances(matchups []*models.Matchup, rosters map[int]*models.Roster) []models.PerformanceRecord {
	var performances []models.PerformanceRecord

	for _, matchup := range matchups {
		if matchup.Team2RosterID == nil {
			continue
		}

		team1, ok1 := rosters[matchup.Team1RosterID]
		team2, ok2 := rosters[*matchup.Team2RosterID]
		if !ok1 || !ok2 {
			continue
		}

		margin := math.Abs(matchup.Team1Points - matchup.Team2Points)

		performances = append(performances, models.PerformanceRecord{
			RosterID:        matchup.Team1RosterID,
			TeamName:        team1.DisplayName(),
			OwnerName:       ownerOrUnknown(team1),
			PointsScored:    matchup.Team1Points,
			PointsProjected: matchup.Team1Projected,
			Win:             matchup.WinnerRosterID != nil && *matchup.WinnerRosterID == matchup.Team1RosterID,
			OpponentName:    team2.DisplayName(),
			OpponentPoints:  matchup.Team2Points,
			Margin:          margin,
		})

		performances = append(performances, models.PerformanceRecord{
			RosterID:        *matchup.Team2RosterID,
			TeamName:        team2.DisplayName(),
			OwnerName:       ownerOrUnknown(team2),
			PointsScored:    matchup.Team2Points,
			PointsProjected: matchup.Team2Projected,
			Win:             matchup.WinnerRosterID != nil && *matchup.WinnerRosterID == *matchup.Team2RosterID,
			OpponentName:    team1.DisplayName(),
			OpponentPoints:  matchup.Team1Points,
			Margin:          margin,
		})
	}

	return performances
}
