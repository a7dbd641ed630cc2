package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// GeminiWriter implements the RecapWriter interface using the Google
// Gemini API.
type GeminiWriter struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiWriter creates a new Gemini recap writer.
//
// Parameters:
//   - geminiConfig: Gemini configuration with API key and model settings
//   - logger: Structured logger for service operations
//
// Returns:
//   - *GeminiWriter: Initialized writer ready for use
//   - error: nil on success, error with details on failure
func NewGeminiWriter(geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*GeminiWriter, error) {
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("Google API key is required for the Gemini writer (set via GEMINI_API_KEY, AICOMMISSIONER_GEMINI_API_KEY, or gemini.api_key in config)")
	}

	if geminiConfig.Model == "" {
		geminiConfig.Model = "gemini-2.0-flash"
	}

	timeout, err := time.ParseDuration(geminiConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", geminiConfig.Timeout, err)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	writer := &GeminiWriter{
		config:  geminiConfig,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}

	logger.Debug().
		Str("model", geminiConfig.Model).
		Dur("timeout", timeout).
		Float32("temperature", geminiConfig.Temperature).
		Msg("Gemini recap writer initialized successfully")

	return writer, nil
}

// Rewrite paraphrases recap text in the given persona's voice
func (w *GeminiWriter) Rewrite(ctx context.Context, text string, summary *models.WeeklySummary, persona interfaces.Persona) (string, error) {
	prompt, err := buildRecapPrompt(summary, text, persona)
	if err != nil {
		return "", err
	}
	return w.complete(ctx, prompt, string(persona), "recap")
}

// RewriteWaiver paraphrases a waiver-focused report in the given persona's voice
func (w *GeminiWriter) RewriteWaiver(ctx context.Context, text string, persona interfaces.Persona) (string, error) {
	return w.complete(ctx, buildWaiverPrompt(text, persona), string(persona), "waiver")
}

func (w *GeminiWriter) complete(ctx context.Context, prompt, persona, kind string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	startTime := time.Now()
	w.logger.Debug().
		Str("persona", persona).
		Str("kind", kind).
		Int("prompt_length", len(prompt)).
		Msg("Starting Gemini rewrite")

	response, err := w.generateCompletion(timeoutCtx, prompt)
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("persona", persona).
			Str("kind", kind).
			Msg("Gemini rewrite failed")
		return "", fmt.Errorf("rewrite failed: %w", err)
	}

	w.logger.Debug().
		Str("persona", persona).
		Str("kind", kind).
		Int("response_length", len(response)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini rewrite completed successfully")

	return response, nil
}

// HealthCheck verifies the Gemini writer is operational and can handle requests
func (w *GeminiWriter) HealthCheck(ctx context.Context) error {
	w.logger.Debug().Msg("Running Gemini recap writer health check")

	if w.client == nil {
		return fmt.Errorf("genai client is not initialized")
	}

	healthCheckCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	response, err := w.generateCompletion(healthCheckCtx, "ping")
	if err != nil {
		return fmt.Errorf("Gemini probe failed: %w", err)
	}

	if len(strings.TrimSpace(response)) == 0 {
		return fmt.Errorf("Gemini probe returned empty response")
	}

	w.logger.Debug().
		Str("model", w.config.Model).
		Msg("Gemini recap writer health check passed")

	return nil
}

// Provider returns the provider name
func (w *GeminiWriter) Provider() string {
	return string(common.LLMProviderGemini)
}

// Close releases resources and performs cleanup operations
func (w *GeminiWriter) Close() error {
	w.logger.Debug().Msg("Closing Gemini recap writer")

	// genai.Client doesn't require explicit Close
	w.client = nil

	return nil
}

// generateCompletion encapsulates the Gemini API call with rate limit
// retries.
//
// Parameters:
//   - ctx: Context for timeout and cancellation
//   - prompt: Prompt to complete
//
// Returns:
//   - string: Generated response text, whitespace-trimmed
//   - error: nil on success, error on failure
func (w *GeminiWriter) generateCompletion(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		},
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(w.config.Temperature),
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	var resp *genai.GenerateContentResponse
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = w.client.Models.GenerateContent(ctx, w.config.Model, contents, config)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(apiErr) {
			apiDelay := ExtractRetryDelay(apiErr)
			backoff = retryConfig.CalculateBackoff(attempt, apiDelay)
		} else {
			backoff = time.Duration(attempt+1) * 2 * time.Second
		}

		w.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Gemini API call")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return "", fmt.Errorf("Gemini API call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return "", fmt.Errorf("empty text in Gemini response")
	}

	return strings.TrimSpace(responseText), nil
}
