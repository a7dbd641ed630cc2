package render

import (
	"fmt"
	"strings"

	"github.com/kforero17/aicommissioner/internal/models"
)

// renderStandardStyle is the clean default recap format
func renderStandardStyle(summary *models.WeeklySummary) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("📊 %s - Week %d Recap", summary.LeagueName, summary.Week))
	lines = append(lines, strings.Repeat("=", 40))
	lines = append(lines, "")

	lines = append(lines, "🏆 WEEKLY HIGHLIGHTS")
	lines = append(lines, fmt.Sprintf("• High Score: %s (%.1f pts)", summary.HighestScorer.TeamName, summary.HighestScorer.PointsScored))
	lines = append(lines, fmt.Sprintf("• Low Score: %s (%.1f pts)", summary.LowestScorer.TeamName, summary.LowestScorer.PointsScored))
	lines = append(lines, fmt.Sprintf("• Biggest Blowout: %s over %s by %.1f", summary.BiggestBlowout.Winner.TeamName, summary.BiggestBlowout.Loser.TeamName, summary.BiggestBlowout.Winner.Margin))
	lines = append(lines, fmt.Sprintf("• Closest Game: %s vs %s (%.1f pt margin)", summary.ClosestMatchup.Winner.TeamName, summary.ClosestMatchup.Loser.TeamName, summary.ClosestMatchup.Winner.Margin))
	lines = append(lines, "")

	lines = append(lines, "📈 POWER RANKINGS")
	for i, team := range topRankings(summary.PowerRankings, 5) {
		lines = append(lines, fmt.Sprintf("%d. %s (%s) %s", i+1, team.TeamName, team.Record, formatMovement(team.Movement)))
	}
	if summary.BiggestClimber != nil {
		lines = append(lines, fmt.Sprintf("📈 Biggest Climber: %s (+%d)", summary.BiggestClimber.TeamName, summary.BiggestClimber.Movement))
	}
	if summary.BiggestFall != nil {
		lines = append(lines, fmt.Sprintf("📉 Biggest Fall: %s (%d)", summary.BiggestFall.TeamName, summary.BiggestFall.Movement))
	}
	lines = append(lines, "")

	if len(summary.Transactions) > 0 {
		lines = append(lines, "💰 WAIVER WIRE ACTIVITY")
		lines = append(lines, fmt.Sprintf("• Total FAAB Spent: $%d", summary.TotalFAABSpent))
		if summary.MostActiveTrader != nil && *summary.MostActiveTrader != "" {
			lines = append(lines, fmt.Sprintf("• Most Active: %s", *summary.MostActiveTrader))
		}
		for _, trans := range topTransactions(summary.Transactions, 3) {
			lines = append(lines, fmt.Sprintf("• %s: %s", trans.OwnerName, trans.Notes))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "📊 LEAGUE STATS")
	lines = append(lines, fmt.Sprintf("• League Average: %.1f pts", summary.AverageScore))
	lines = append(lines, fmt.Sprintf("• Total Points: %.1f", summary.TotalPoints))
	lines = append(lines, "")

	lines = append(lines, "🏈 PLAYOFF PICTURE")
	for i, team := range summary.PlayoffPicture {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, team))
	}

	return strings.Join(lines, "\n")
}

// renderEmojiStyle is the emoji-heavy group chat format
func renderEmojiStyle(summary *models.WeeklySummary) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("🏈 %s Week %d 🏈", summary.LeagueName, summary.Week))
	lines = append(lines, "🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥")
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("👑 WEEK %d CHAMPION", summary.Week))
	lines = append(lines, fmt.Sprintf("%s 💪 %.1f pts", summary.HighestScorer.TeamName, summary.HighestScorer.PointsScored))
	lines = append(lines, "")

	lines = append(lines, "💩 TOILET BOWL WINNER")
	lines = append(lines, fmt.Sprintf("%s 😢 %.1f pts", summary.LowestScorer.TeamName, summary.LowestScorer.PointsScored))
	lines = append(lines, "")

	lines = append(lines, "💀 BIGGEST MASSACRE")
	lines = append(lines, fmt.Sprintf("%s destroyed %s", summary.BiggestBlowout.Winner.TeamName, summary.BiggestBlowout.Loser.TeamName))
	lines = append(lines, fmt.Sprintf("Margin: %.1f pts 💥", summary.BiggestBlowout.Winner.Margin))
	lines = append(lines, "")

	lines = append(lines, "👑 POWER RANKINGS 👑")
	for i, team := range topRankings(summary.PowerRankings, 5) {
		movementEmoji := "➡️"
		if team.Movement > 0 {
			movementEmoji = "📈"
		} else if team.Movement < 0 {
			movementEmoji = "📉"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s", rankEmoji(i), team.TeamName, team.Record, movementEmoji))
	}
	lines = append(lines, "")

	if len(summary.Transactions) > 0 {
		lines = append(lines, "💰 WAIVER WIRE MADNESS 💰")
		lines = append(lines, fmt.Sprintf("Total FAAB: $%d 💸", summary.TotalFAABSpent))
		for _, trans := range topTransactions(summary.Transactions, 3) {
			if trans.FAABSpent != nil && *trans.FAABSpent > 50 {
				lines = append(lines, fmt.Sprintf("🤑 %s: %s", trans.OwnerName, trans.Notes))
			} else {
				lines = append(lines, fmt.Sprintf("💰 %s: %s", trans.OwnerName, trans.Notes))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// renderFormalStyle is the professional report format. Unlike the other
// styles it prints the full rankings table, not just the top five.
func renderFormalStyle(summary *models.WeeklySummary) string {
	var lines []string

	lines = append(lines, summary.LeagueName)
	lines = append(lines, fmt.Sprintf("Week %d Fantasy Football Report", summary.Week))
	lines = append(lines, fmt.Sprintf("Season %s", summary.Season))
	lines = append(lines, strings.Repeat("-", 50))
	lines = append(lines, "")

	lines = append(lines, "EXECUTIVE SUMMARY")
	lines = append(lines, fmt.Sprintf("The %s completed Week %d of the %s season.", summary.LeagueName, summary.Week, summary.Season))
	lines = append(lines, fmt.Sprintf("League average scoring was %.1f points per team.", summary.AverageScore))
	lines = append(lines, fmt.Sprintf("Total league points scored: %.1f", summary.TotalPoints))
	lines = append(lines, "")

	lines = append(lines, "WEEKLY PERFORMANCE ANALYSIS")
	lines = append(lines, fmt.Sprintf("Highest Scoring Team: %s (%.1f points)", summary.HighestScorer.TeamName, summary.HighestScorer.PointsScored))
	lines = append(lines, fmt.Sprintf("Lowest Scoring Team: %s (%.1f points)", summary.LowestScorer.TeamName, summary.LowestScorer.PointsScored))
	lines = append(lines, fmt.Sprintf("Most Dominant Victory: %s defeated %s by %.1f points", summary.BiggestBlowout.Winner.TeamName, summary.BiggestBlowout.Loser.TeamName, summary.BiggestBlowout.Winner.Margin))
	lines = append(lines, "")

	lines = append(lines, "CURRENT STANDINGS AND POWER RANKINGS")
	for i, team := range summary.PowerRankings {
		lines = append(lines, fmt.Sprintf("%d. %s - Record: %s, Points For: %.1f", i+1, team.TeamName, team.Record, team.PointsFor))
	}
	lines = append(lines, "")

	if len(summary.Transactions) > 0 {
		lines = append(lines, "ROSTER TRANSACTION SUMMARY")
		lines = append(lines, fmt.Sprintf("Total Free Agent Acquisition Budget Spent: $%d", summary.TotalFAABSpent))
		lines = append(lines, fmt.Sprintf("Number of Transactions: %d", len(summary.Transactions)))
		if summary.MostActiveTrader != nil && *summary.MostActiveTrader != "" {
			lines = append(lines, fmt.Sprintf("Most Active Manager: %s", *summary.MostActiveTrader))
		}
	}

	return strings.Join(lines, "\n")
}

// renderCasualStyle is the conversational owner-name-centric format
func renderCasualStyle(summary *models.WeeklySummary) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Yo %s! Week %d is in the books 📚", summary.LeagueName, summary.Week))
	lines = append(lines, "")

	lines = append(lines, "Here's what went down...")
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("🔥 %s went OFF this week!", summary.HighestScorer.OwnerName))
	lines = append(lines, fmt.Sprintf("Their squad %s put up %.1f points. Absolutely unreal.", summary.HighestScorer.TeamName, summary.HighestScorer.PointsScored))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("😬 Meanwhile, %s had a rough week...", summary.LowestScorer.OwnerName))
	lines = append(lines, fmt.Sprintf("%s only managed %.1f points. Ouch.", summary.LowestScorer.TeamName, summary.LowestScorer.PointsScored))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("💀 %s absolutely DESTROYED %s", summary.BiggestBlowout.Winner.OwnerName, summary.BiggestBlowout.Loser.OwnerName))
	lines = append(lines, fmt.Sprintf("We're talking a %.1f point beatdown. Someone call 911.", summary.BiggestBlowout.Winner.Margin))
	lines = append(lines, "")

	lines = append(lines, "Current power rankings (don't @ me):")
	for i, team := range topRankings(summary.PowerRankings, 5) {
		movement := ""
		if team.Movement > 0 {
			movement = fmt.Sprintf(" (up %d)", team.Movement)
		} else if team.Movement < 0 {
			movement = fmt.Sprintf(" (down %d)", -team.Movement)
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s%s", i+1, team.TeamName, team.Record, movement))
	}
	lines = append(lines, "")

	if len(summary.Transactions) > 0 {
		lines = append(lines, "Waiver wire was BUSY this week:")
		lines = append(lines, fmt.Sprintf("Y'all spent $%d total on free agents 💸", summary.TotalFAABSpent))
		for _, trans := range topTransactions(summary.Transactions, 3) {
			lines = append(lines, fmt.Sprintf("• %s", trans.Notes))
		}
	}

	return strings.Join(lines, "\n")
}

// formatMovement renders power ranking movement as (↑n), (↓n), or (→)
func formatMovement(movement int) string {
	switch {
	case movement > 0:
		return fmt.Sprintf("(↑%d)", movement)
	case movement < 0:
		return fmt.Sprintf("(↓%d)", -movement)
	default:
		return "(→)"
	}
}

// rankEmoji returns the medal or keycap emoji for a zero-based rank index
func rankEmoji(i int) string {
	medals := []string{"🥇", "🥈", "🥉", "4️⃣", "5️⃣"}
	if i < len(medals) {
		return medals[i]
	}
	return fmt.Sprintf("%d️⃣", i+1)
}

func topRankings(rankings []models.PowerRankingEntry, n int) []models.PowerRankingEntry {
	if len(rankings) < n {
		return rankings
	}
	return rankings[:n]
}

func topTransactions(transactions []models.TransactionSummary, n int) []models.TransactionSummary {
	if len(transactions) < n {
		return transactions
	}
	return transactions[:n]
}
