package interfaces

import (
	"github.com/kforero17/aicommissioner/internal/models"
)

// RenderStyle selects one of the deterministic recap templates
type RenderStyle string

const (
	RenderStyleStandard RenderStyle = "standard"
	RenderStyleEmoji    RenderStyle = "emoji"
	RenderStyleFormal   RenderStyle = "formal"
	RenderStyleCasual   RenderStyle = "casual"
)

// IsValidRenderStyle checks if a given RenderStyle is one of the valid constants
func IsValidRenderStyle(s RenderStyle) bool {
	switch s {
	case RenderStyleStandard, RenderStyleEmoji, RenderStyleFormal, RenderStyleCasual:
		return true
	default:
		return false
	}
}

// RenderService turns a weekly summary into publishable text. Rendering is
// deterministic and free; LLM paraphrasing is layered on top by callers
// that want it.
type RenderService interface {
	// RenderRecap renders the full weekly recap in the given style.
	// Unknown styles fall back to standard.
	RenderRecap(summary *models.WeeklySummary, style RenderStyle) string

	// RenderWaiverRecap renders the transaction-focused waiver report
	RenderWaiverRecap(summary *models.WeeklySummary) string

	// RenderHTML converts rendered recap text to an HTML document body
	// suitable for email delivery
	RenderHTML(text string) (string, error)
}
