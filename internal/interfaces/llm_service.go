package interfaces

import (
	"context"

	"github.com/kforero17/aicommissioner/internal/models"
)

// Persona selects the voice an LLM rewrite uses
type Persona string

const (
	PersonaWitty        Persona = "witty"
	PersonaProfessional Persona = "professional"
	PersonaRoastmaster  Persona = "roastmaster"
	PersonaHype         Persona = "hype"
	PersonaAnalyst      Persona = "analyst"
)

// IsValidPersona checks if a given Persona is one of the valid constants
func IsValidPersona(p Persona) bool {
	switch p {
	case PersonaWitty, PersonaProfessional, PersonaRoastmaster, PersonaHype, PersonaAnalyst:
		return true
	default:
		return false
	}
}

// RecapWriter rewrites a deterministic recap with an LLM. It is a cosmetic
// decorator: the deterministic text must already be complete and valid, and
// callers fall back to it whenever rewriting fails. Implementations exist
// for Anthropic Claude and Google Gemini.
type RecapWriter interface {
	// Rewrite paraphrases recap text in the given persona's voice. The
	// summary provides the facts the rewrite must preserve.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - text: Deterministic recap text to rewrite
	//   - summary: Source summary backing the recap
	//   - persona: Voice to write in
	//
	// Returns:
	//   - string: Rewritten recap
	//   - error: Error if the provider call fails; callers should fall
	//     back to the original text
	Rewrite(ctx context.Context, text string, summary *models.WeeklySummary, persona Persona) (string, error)

	// RewriteWaiver paraphrases a waiver-focused report in the given
	// persona's voice. The prompt steers toward transactions, FAAB
	// spending, and waiver strategy rather than the full recap arc.
	RewriteWaiver(ctx context.Context, text string, persona Persona) (string, error)

	// HealthCheck verifies the provider is reachable and authenticated
	HealthCheck(ctx context.Context) error

	// Provider returns the provider name ("claude" or "gemini")
	Provider() string

	// Close releases provider resources
	Close() error
}
