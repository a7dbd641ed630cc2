package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// NewRecapWriter creates the recap writer for the configured provider.
// Callers should only construct a writer when LLM paraphrasing is enabled;
// a missing API key for the selected provider is an error, not a silent
// fallback.
func NewRecapWriter(cfg *common.Config, logger arbor.ILogger) (interfaces.RecapWriter, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = common.LLMProviderClaude
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing recap writer")

	switch provider {
	case common.LLMProviderClaude:
		return NewClaudeWriter(&cfg.Claude, logger)
	case common.LLMProviderGemini:
		return NewGeminiWriter(&cfg.Gemini, logger)
	default:
		return nil, fmt.Errorf("invalid LLM provider '%s': must be 'claude' or 'gemini'", provider)
	}
}
