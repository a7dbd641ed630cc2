package llm

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// systemPrompt frames every rewrite request regardless of persona.
const systemPrompt = "You are a fantasy football expert who writes engaging recaps for league group chats."

// personaInstructions maps each persona to its rewrite instruction. Unknown
// personas fall back to a neutral engaging style.
var personaInstructions = map[interfaces.Persona]string{
	interfaces.PersonaWitty:        "Rewrite this fantasy football recap with wit, humor, and clever observations. Use puns, jokes, and playful roasting of teams. Keep it fun and entertaining.",
	interfaces.PersonaProfessional: "Rewrite this fantasy football recap in a professional sports journalism style. Use proper analysis, statistics, and formal language.",
	interfaces.PersonaRoastmaster:  "Rewrite this fantasy football recap with savage roasts and trash talk. Really go after the losing teams and bad performances. Be brutal but funny.",
	interfaces.PersonaHype:         "Rewrite this fantasy football recap with maximum energy and excitement. Use lots of caps, exclamation points, and hype up everything. Make it feel like a sports center highlight reel.",
	interfaces.PersonaAnalyst:      "Rewrite this fantasy football recap with deep fantasy analysis and insights. Focus on trends, predictions, and strategic observations.",
}

const defaultInstruction = "Rewrite this fantasy football recap in an engaging, entertaining style."

func personaInstruction(persona interfaces.Persona) string {
	if instruction, ok := personaInstructions[persona]; ok {
		return instruction
	}
	return defaultInstruction
}

// promptFacts is the structured fact block embedded in rewrite prompts.
// Models paraphrase more faithfully when the numbers they must keep are
// listed separately from the prose they are allowed to reshape.
type promptFacts struct {
	League         string   `yaml:"league"`
	Week           int      `yaml:"week"`
	HighScore      string   `yaml:"high_score"`
	LowScore       string   `yaml:"low_score"`
	BiggestBlowout string   `yaml:"biggest_blowout"`
	ClosestGame    string   `yaml:"closest_game"`
	TopTeams       []string `yaml:"top_teams,omitempty"`
	TotalFAABSpent int      `yaml:"total_faab_spent"`
	MostActive     string   `yaml:"most_active,omitempty"`
}

func factsFromSummary(summary *models.WeeklySummary) promptFacts {
	facts := promptFacts{
		League:         summary.LeagueName,
		Week:           summary.Week,
		HighScore:      fmt.Sprintf("%s %.1f pts", summary.HighestScorer.TeamName, summary.HighestScorer.PointsScored),
		LowScore:       fmt.Sprintf("%s %.1f pts", summary.LowestScorer.TeamName, summary.LowestScorer.PointsScored),
		BiggestBlowout: fmt.Sprintf("%s over %s by %.1f", summary.BiggestBlowout.Winner.TeamName, summary.BiggestBlowout.Loser.TeamName, summary.BiggestBlowout.Winner.Margin),
		ClosestGame:    fmt.Sprintf("%s over %s by %.1f", summary.ClosestMatchup.Winner.TeamName, summary.ClosestMatchup.Loser.TeamName, summary.ClosestMatchup.Winner.Margin),
		TotalFAABSpent: summary.TotalFAABSpent,
	}

	for i, team := range summary.PowerRankings {
		if i >= 5 {
			break
		}
		facts.TopTeams = append(facts.TopTeams, fmt.Sprintf("%s (%s)", team.TeamName, team.Record))
	}

	if summary.MostActiveTrader != nil {
		facts.MostActive = *summary.MostActiveTrader
	}

	return facts
}

// buildRecapPrompt assembles the full-recap rewrite prompt: persona
// instruction, fact block, and the deterministic text to paraphrase.
func buildRecapPrompt(summary *models.WeeklySummary, baseText string, persona interfaces.Persona) (string, error) {
	factsYAML, err := yaml.Marshal(factsFromSummary(summary))
	if err != nil {
		return "", fmt.Errorf("failed to marshal recap facts: %w", err)
	}

	return fmt.Sprintf(`
%s

Keep the same factual information but make it more engaging. The recap should be 200-400 words and formatted for a group chat message.

Facts that must stay accurate:
%s
Original recap:
%s

Rewritten recap:
`, personaInstruction(persona), strings.TrimRight(string(factsYAML), "\n"), baseText), nil
}

// buildWaiverPrompt assembles the waiver-report rewrite prompt. It steers
// toward transactions and FAAB strategy instead of the full recap arc.
func buildWaiverPrompt(baseText string, persona interfaces.Persona) string {
	return fmt.Sprintf(`
Rewrite this fantasy football waiver wire report with a %s personality.
Focus on the transactions, FAAB spending, and waiver wire strategy.
Make it entertaining and engaging for a group chat.
Keep it 200-300 words.

Original report:
%s

Rewritten report:
`, persona, baseText)
}
