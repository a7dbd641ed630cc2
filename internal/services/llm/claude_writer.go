package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// ClaudeWriter implements the RecapWriter interface using the Anthropic
// Claude API.
type ClaudeWriter struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    anthropic.Client
	timeout   time.Duration
	maxTokens int
}

// NewClaudeWriter creates a new Claude recap writer.
//
// Parameters:
//   - claudeConfig: Claude configuration with API key and model settings
//   - logger: Structured logger for service operations
//
// Returns:
//   - *ClaudeWriter: Initialized writer ready for use
//   - error: nil on success, error with details on failure
func NewClaudeWriter(claudeConfig *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeWriter, error) {
	if claudeConfig.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for the Claude writer (set via ANTHROPIC_API_KEY, AICOMMISSIONER_CLAUDE_API_KEY, or claude.api_key in config)")
	}

	if claudeConfig.Model == "" {
		claudeConfig.Model = "claude-3-5-haiku-20241022"
	}

	timeout, err := time.ParseDuration(claudeConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", claudeConfig.Timeout, err)
	}

	maxTokens := claudeConfig.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	client := anthropic.NewClient(
		option.WithAPIKey(claudeConfig.APIKey),
	)

	writer := &ClaudeWriter{
		config:    claudeConfig,
		logger:    logger,
		client:    client,
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", claudeConfig.Model).
		Dur("timeout", timeout).
		Float32("temperature", claudeConfig.Temperature).
		Int("max_tokens", maxTokens).
		Msg("Claude recap writer initialized successfully")

	return writer, nil
}

// Rewrite paraphrases recap text in the given persona's voice
func (w *ClaudeWriter) Rewrite(ctx context.Context, text string, summary *models.WeeklySummary, persona interfaces.Persona) (string, error) {
	prompt, err := buildRecapPrompt(summary, text, persona)
	if err != nil {
		return "", err
	}
	return w.complete(ctx, prompt, string(persona), "recap")
}

// RewriteWaiver paraphrases a waiver-focused report in the given persona's voice
func (w *ClaudeWriter) RewriteWaiver(ctx context.Context, text string, persona interfaces.Persona) (string, error) {
	return w.complete(ctx, buildWaiverPrompt(text, persona), string(persona), "waiver")
}

func (w *ClaudeWriter) complete(ctx context.Context, prompt, persona, kind string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	startTime := time.Now()
	w.logger.Debug().
		Str("persona", persona).
		Str("kind", kind).
		Int("prompt_length", len(prompt)).
		Msg("Starting Claude rewrite")

	response, err := w.generateCompletion(timeoutCtx, prompt)
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("persona", persona).
			Str("kind", kind).
			Msg("Claude rewrite failed")
		return "", fmt.Errorf("rewrite failed: %w", err)
	}

	w.logger.Debug().
		Str("persona", persona).
		Str("kind", kind).
		Int("response_length", len(response)).
		Dur("duration", time.Since(startTime)).
		Msg("Claude rewrite completed successfully")

	return response, nil
}

// HealthCheck verifies the Claude writer is operational and can handle requests
func (w *ClaudeWriter) HealthCheck(ctx context.Context) error {
	w.logger.Debug().Msg("Running Claude recap writer health check")

	healthCheckCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	response, err := w.generateCompletion(healthCheckCtx, "ping")
	if err != nil {
		return fmt.Errorf("Claude probe failed: %w", err)
	}

	if len(strings.TrimSpace(response)) == 0 {
		return fmt.Errorf("Claude probe returned empty response")
	}

	w.logger.Debug().
		Str("model", w.config.Model).
		Msg("Claude recap writer health check passed")

	return nil
}

// Provider returns the provider name
func (w *ClaudeWriter) Provider() string {
	return string(common.LLMProviderClaude)
}

// Close releases resources and performs cleanup operations
func (w *ClaudeWriter) Close() error {
	w.logger.Debug().Msg("Closing Claude recap writer")
	// Claude client doesn't require explicit cleanup
	return nil
}

// generateCompletion encapsulates the Claude API call.
//
// Parameters:
//   - ctx: Context for timeout and cancellation
//   - prompt: Prompt to complete
//
// Returns:
//   - string: Generated response text, whitespace-trimmed
//   - error: nil on success, error on failure
func (w *ClaudeWriter) generateCompletion(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(w.config.Model),
		MaxTokens: int64(w.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
	}

	if w.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(w.config.Temperature))
	}

	var resp *anthropic.Message
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = w.client.Messages.New(ctx, params)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * 2 * time.Second
		if IsRateLimitError(apiErr) {
			backoff = retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		}

		w.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Claude API call")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return "", fmt.Errorf("Claude API call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}

	return strings.TrimSpace(response.String()), nil
}
