package llm

import (
	"strings"
	"testing"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

func promptFixture() *models.WeeklySummary {
	mostActive := "Bob"
	return &models.WeeklySummary{
		LeagueID:   "sleeper:991",
		LeagueName: "Dynasty Degens",
		Week:       3,
		Season:     "2025",
		HighestScorer: models.PerformanceRecord{
			TeamName: "Gridiron Gang", OwnerName: "Alice", PointsScored: 120.5,
		},
		LowestScorer: models.PerformanceRecord{
			TeamName: "Waiver Wizards", OwnerName: "Bob", PointsScored: 95.4,
		},
		BiggestBlowout: models.MatchupResult{
			Winner: models.PerformanceRecord{TeamName: "Gridiron Gang", Margin: 25.1},
			Loser:  models.PerformanceRecord{TeamName: "Waiver Wizards"},
		},
		ClosestMatchup: models.MatchupResult{
			Winner: models.PerformanceRecord{TeamName: "Bench Warmers", Margin: 2.0},
			Loser:  models.PerformanceRecord{TeamName: "Team 4"},
		},
		PowerRankings: []models.PowerRankingEntry{
			{Rank: 1, TeamName: "Gridiron Gang", Record: "3-0"},
			{Rank: 2, TeamName: "Waiver Wizards", Record: "2-1"},
			{Rank: 3, TeamName: "Bench Warmers", Record: "1-2"},
			{Rank: 4, TeamName: "Team 4", Record: "0-3"},
			{Rank: 5, TeamName: "Fifth Wheel", Record: "0-3"},
			{Rank: 6, TeamName: "Sixth Sense", Record: "0-3"},
		},
		TotalFAABSpent:   23,
		MostActiveTrader: &mostActive,
	}
}

func TestPersonaInstruction(t *testing.T) {
	tests := []struct {
		persona  interfaces.Persona
		expected string
	}{
		{interfaces.PersonaWitty, "Rewrite this fantasy football recap with wit, humor, and clever observations. Use puns, jokes, and playful roasting of teams. Keep it fun and entertaining."},
		{interfaces.PersonaProfessional, "Rewrite this fantasy football recap in a professional sports journalism style. Use proper analysis, statistics, and formal language."},
		{interfaces.PersonaRoastmaster, "Rewrite this fantasy football recap with savage roasts and trash talk. Really go after the losing teams and bad performances. Be brutal but funny."},
		{interfaces.PersonaHype, "Rewrite this fantasy football recap with maximum energy and excitement. Use lots of caps, exclamation points, and hype up everything. Make it feel like a sports center highlight reel."},
		{interfaces.PersonaAnalyst, "Rewrite this fantasy football recap with deep fantasy analysis and insights. Focus on trends, predictions, and strategic observations."},
		{interfaces.Persona("pirate"), defaultInstruction},
		{interfaces.Persona(""), defaultInstruction},
	}

	for _, tt := range tests {
		t.Run(string(tt.persona), func(t *testing.T) {
			if got := personaInstruction(tt.persona); got != tt.expected {
				t.Errorf("personaInstruction(%q) = %q, want %q", tt.persona, got, tt.expected)
			}
		})
	}
}

func TestBuildRecapPrompt(t *testing.T) {
	baseText := "📊 Dynasty Degens - Week 3 Recap"

	prompt, err := buildRecapPrompt(promptFixture(), baseText, interfaces.PersonaWitty)
	if err != nil {
		t.Fatalf("buildRecapPrompt() error = %v", err)
	}

	for _, want := range []string{
		personaInstructions[interfaces.PersonaWitty],
		"Keep the same factual information but make it more engaging. The recap should be 200-400 words and formatted for a group chat message.",
		"Facts that must stay accurate:",
		"league: Dynasty Degens",
		"week: 3",
		"high_score: Gridiron Gang 120.5 pts",
		"low_score: Waiver Wizards 95.4 pts",
		"biggest_blowout: Gridiron Gang over Waiver Wizards by 25.1",
		"closest_game: Bench Warmers over Team 4 by 2.0",
		"- Gridiron Gang (3-0)",
		"total_faab_spent: 23",
		"most_active: Bob",
		"Original recap:\n" + baseText,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\n--- got ---\n%s", want, prompt)
		}
	}

	if !strings.HasSuffix(prompt, "Rewritten recap:\n") {
		t.Errorf("prompt should end with the completion cue, got tail %q", prompt[len(prompt)-30:])
	}
}

// TestBuildRecapPromptFactLimits verifies the fact block caps the standings
// at five teams and omits the trader line when nobody traded
func TestBuildRecapPromptFactLimits(t *testing.T) {
	summary := promptFixture()
	summary.MostActiveTrader = nil

	prompt, err := buildRecapPrompt(summary, "base", interfaces.PersonaAnalyst)
	if err != nil {
		t.Fatalf("buildRecapPrompt() error = %v", err)
	}

	if !strings.Contains(prompt, "- Fifth Wheel (0-3)") {
		t.Error("fifth-ranked team should be listed")
	}
	if strings.Contains(prompt, "Sixth Sense") {
		t.Error("fact block should stop at five teams")
	}
	if strings.Contains(prompt, "most_active") {
		t.Error("most_active should be omitted when no trader is set")
	}
}

func TestBuildWaiverPrompt(t *testing.T) {
	baseText := "💰 Dynasty Degens - Week 3 Waiver Report"

	prompt := buildWaiverPrompt(baseText, interfaces.PersonaRoastmaster)

	for _, want := range []string{
		"Rewrite this fantasy football waiver wire report with a roastmaster personality.",
		"Focus on the transactions, FAAB spending, and waiver wire strategy.",
		"Make it entertaining and engaging for a group chat.",
		"Keep it 200-300 words.",
		"Original report:\n" + baseText,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("waiver prompt missing %q", want)
		}
	}

	if !strings.HasSuffix(prompt, "Rewritten report:\n") {
		t.Errorf("waiver prompt should end with the completion cue")
	}
}
