package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/kforero17/aicommissioner/internal/models"
)

// formatLeagues formats the league list as markdown
func formatLeagues(leagues []*models.League) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Registered Leagues (%d)\n\n", len(leagues)))

	if len(leagues) == 0 {
		sb.WriteString("No leagues registered.\n")
		return sb.String()
	}

	for i, league := range leagues {
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, league.Name))
		sb.WriteString(fmt.Sprintf("**ID:** %s\n", league.ID))
		sb.WriteString(fmt.Sprintf("**Platform:** %s\n", league.Platform))
		sb.WriteString(fmt.Sprintf("**Season:** %s, week %d of %d (%s)\n", league.Season, league.CurrentWeek, league.TotalWeeks, league.Status))
		sb.WriteString(fmt.Sprintf("**Teams:** %d, scoring %s\n", league.NumTeams, league.ScoringType))

		recaps := []string{}
		if league.PowerRankingsEnabled {
			recaps = append(recaps, "power rankings")
		}
		if league.WaiverRecapEnabled {
			recaps = append(recaps, "waiver recap")
		}
		if len(recaps) == 0 {
			recaps = append(recaps, "none")
		}
		sb.WriteString(fmt.Sprintf("**Recaps:** %s\n", strings.Join(recaps, ", ")))

		if league.LastSyncedAt != nil {
			sb.WriteString(fmt.Sprintf("**Last synced:** %s\n", league.LastSyncedAt.Format(time.RFC3339)))
		} else {
			sb.WriteString("**Last synced:** never\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatSummary formats the full weekly digest as markdown
func formatSummary(s *models.WeeklySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s - Week %d (%s)\n\n", s.LeagueName, s.Week, s.Season))

	sb.WriteString("## Week at a Glance\n\n")
	sb.WriteString(fmt.Sprintf("- **Average score:** %.2f\n", s.AverageScore))
	sb.WriteString(fmt.Sprintf("- **Total points:** %.2f\n", s.TotalPoints))
	sb.WriteString(fmt.Sprintf("- **High score:** %s with %.2f\n", s.HighestScorer.TeamName, s.HighestScorer.PointsScored))
	sb.WriteString(fmt.Sprintf("- **Low score:** %s with %.2f\n", s.LowestScorer.TeamName, s.LowestScorer.PointsScored))
	sb.WriteString(fmt.Sprintf("- **Biggest blowout:** %s over %s by %.2f\n",
		s.BiggestBlowout.Winner.TeamName, s.BiggestBlowout.Loser.TeamName, s.BiggestBlowout.Winner.Margin))
	sb.WriteString(fmt.Sprintf("- **Closest matchup:** %s over %s by %.2f\n\n",
		s.ClosestMatchup.Winner.TeamName, s.ClosestMatchup.Loser.TeamName, s.ClosestMatchup.Winner.Margin))

	sb.WriteString("## Results\n\n")
	for _, m := range s.Performances {
		if !m.Win {
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s %.2f def. %s %.2f\n", m.TeamName, m.PointsScored, m.OpponentName, m.OpponentPoints))
	}
	sb.WriteString("\n")

	sb.WriteString(powerRankingsSection(s))
	sb.WriteString(transactionsSection(s))

	if len(s.PlayoffPicture) > 0 {
		sb.WriteString("## Playoff Picture\n\n")
		for i, team := range s.PlayoffPicture {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, team))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("_Generated %s_\n", s.GeneratedAt.Format(time.RFC3339)))
	return sb.String()
}

// formatPowerRankings formats just the rankings block as markdown
func formatPowerRankings(s *models.WeeklySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s Power Rankings - Week %d\n\n", s.LeagueName, s.Week))
	sb.WriteString(powerRankingsSection(s))
	return sb.String()
}

// formatTransactionRecap formats just the transaction block as markdown
func formatTransactionRecap(s *models.WeeklySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s Transactions - Week %d\n\n", s.LeagueName, s.Week))
	sb.WriteString(transactionsSection(s))
	return sb.String()
}

func powerRankingsSection(s *models.WeeklySummary) string {
	var sb strings.Builder
	sb.WriteString("## Power Rankings\n\n")

	if len(s.PowerRankings) == 0 {
		sb.WriteString("No rankings computed for this week.\n\n")
		return sb.String()
	}

	for _, entry := range s.PowerRankings {
		sb.WriteString(fmt.Sprintf("%d. **%s** (%s) - %.2f PF, power score %.2f%s\n",
			entry.Rank, entry.TeamName, entry.Record, entry.PointsFor, entry.PowerScore, movementLabel(entry)))
	}
	sb.WriteString("\n")

	if s.BiggestClimber != nil && s.BiggestClimber.Movement > 0 {
		sb.WriteString(fmt.Sprintf("**Biggest climber:** %s (up %d)\n", s.BiggestClimber.TeamName, s.BiggestClimber.Movement))
	}
	if s.BiggestFall != nil && s.BiggestFall.Movement < 0 {
		sb.WriteString(fmt.Sprintf("**Biggest fall:** %s (down %d)\n", s.BiggestFall.TeamName, -s.BiggestFall.Movement))
	}
	sb.WriteString("\n")

	return sb.String()
}

func transactionsSection(s *models.WeeklySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Transactions (%d)\n\n", len(s.Transactions)))

	if len(s.Transactions) == 0 {
		sb.WriteString("A quiet week on the wire.\n\n")
		return sb.String()
	}

	for _, t := range s.Transactions {
		sb.WriteString(fmt.Sprintf("- **%s** (%s)", t.TeamName, t.Type))
		if len(t.PlayersAdded) > 0 {
			sb.WriteString(fmt.Sprintf(" added %s", strings.Join(t.PlayersAdded, ", ")))
		}
		if len(t.PlayersDropped) > 0 {
			sb.WriteString(fmt.Sprintf(" dropped %s", strings.Join(t.PlayersDropped, ", ")))
		}
		if t.FAABSpent != nil {
			sb.WriteString(fmt.Sprintf(" for $%d FAAB", *t.FAABSpent))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("**Total FAAB spent:** $%d\n", s.TotalFAABSpent))
	if s.MostActiveTrader != nil {
		sb.WriteString(fmt.Sprintf("**Most active:** %s\n", *s.MostActiveTrader))
	}
	sb.WriteString("\n")

	return sb.String()
}

// movementLabel renders rank movement as an inline suffix
func movementLabel(entry models.PowerRankingEntry) string {
	switch {
	case entry.Movement > 0:
		return fmt.Sprintf(" (up %d)", entry.Movement)
	case entry.Movement < 0:
		return fmt.Sprintf(" (down %d)", -entry.Movement)
	default:
		return ""
	}
}
