// Package publish delivers recap text to league chat channels.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/httpclient"
	"github.com/kforero17/aicommissioner/internal/interfaces"
)

const (
	// DefaultBaseURL is the base URL for the GroupMe bot API.
	DefaultBaseURL = "https://api.groupme.com/v3"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is how many times a failed post is retried.
	DefaultMaxRetries = 3

	// DefaultRateLimit spaces consecutive bot posts half a second apart
	// so multi-part recaps arrive in order.
	DefaultRateLimit = 2

	// DefaultRateBurst is the burst size for the post rate limiter.
	DefaultRateBurst = 1

	// maxMessageLength is the hard cap GroupMe enforces on bot posts.
	maxMessageLength = 1000

	// splitLength is the per-part target when splitting long recaps.
	// It leaves room for the "(i/n) " part prefix.
	splitLength = 950

	// retryBaseDelay is the wait before the first retry. It doubles on
	// each attempt after that.
	retryBaseDelay = time.Second
)

// botPost is the request body for the bot post endpoint.
type botPost struct {
	BotID string `json:"bot_id"`
	Text  string `json:"text"`
}

// GroupMePublisher posts recap text through the GroupMe bot API.
type GroupMePublisher struct {
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	http       *httpclient.RateLimitedClient
	logger     arbor.ILogger
	timeout    time.Duration
	perSecond  float64
	burst      int
}

var _ interfaces.ChatPublisher = (*GroupMePublisher)(nil)

// GroupMeOption configures the GroupMePublisher.
type GroupMeOption func(*GroupMePublisher)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) GroupMeOption {
	return func(p *GroupMePublisher) {
		p.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) GroupMeOption {
	return func(p *GroupMePublisher) {
		p.logger = logger
	}
}

// WithTimeout sets a custom HTTP timeout.
func WithTimeout(timeout time.Duration) GroupMeOption {
	return func(p *GroupMePublisher) {
		p.timeout = timeout
	}
}

// WithMaxRetries sets how many times a failed post is retried.
func WithMaxRetries(n int) GroupMeOption {
	return func(p *GroupMePublisher) {
		p.maxRetries = n
	}
}

// WithRetryDelay sets the wait before the first retry.
func WithRetryDelay(d time.Duration) GroupMeOption {
	return func(p *GroupMePublisher) {
		p.retryDelay = d
	}
}

// WithRateLimit sets a custom post rate limit.
func WithRateLimit(perSecond float64, burst int) GroupMeOption {
	return func(p *GroupMePublisher) {
		p.perSecond = perSecond
		p.burst = burst
	}
}

// NewGroupMePublisher creates a publisher for the GroupMe bot API.
func NewGroupMePublisher(opts ...GroupMeOption) *GroupMePublisher {
	p := &GroupMePublisher{
		baseURL:    DefaultBaseURL,
		maxRetries: DefaultMaxRetries,
		retryDelay: retryBaseDelay,
		timeout:    DefaultTimeout,
		perSecond:  DefaultRateLimit,
		burst:      DefaultRateBurst,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.http = httpclient.NewRateLimitedClient(p.timeout, p.perSecond, p.burst)
	return p
}

// PublishText sends text to the given bot. Messages over the GroupMe
// limit are split at line boundaries and posted as numbered parts.
func (p *GroupMePublisher) PublishText(ctx context.Context, botID string, text string) error {
	if botID == "" {
		return fmt.Errorf("bot id is required")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message text is required")
	}

	parts := splitMessage(text)
	for i, part := range parts {
		if len(parts) > 1 {
			part = fmt.Sprintf("(%d/%d) %s", i+1, len(parts), part)
		}
		if err := p.postWithRetry(ctx, botID, part); err != nil {
			if len(parts) > 1 {
				return fmt.Errorf("part %d of %d: %w", i+1, len(parts), err)
			}
			return err
		}
	}

	if p.logger != nil {
		p.logger.Info().
			Str("bot_id", botID).
			Int("parts", len(parts)).
			Msg("Recap posted to GroupMe")
	}
	return nil
}

// HealthCheck verifies the GroupMe API answers. Posting needs a bot id,
// so the check is reachability only.
func (p *GroupMePublisher) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("groupme unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return nil
}

// postWithRetry posts one message, retrying transient failures with
// doubling delays.
func (p *GroupMePublisher) postWithRetry(ctx context.Context, botID, text string) error {
	delay := p.retryDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			if p.logger != nil {
				p.logger.Warn().
					Err(lastErr).
					Int("attempt", attempt).
					Dur("delay", delay).
					Msg("GroupMe post failed, retrying")
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if err := p.post(ctx, botID, text); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("post failed after %d attempts: %w", p.maxRetries+1, lastErr)
}

// post performs a single bot post. The endpoint answers 202 on success.
func (p *GroupMePublisher) post(ctx context.Context, botID, text string) error {
	payload, err := json.Marshal(botPost{BotID: botID, Text: truncateRunes(text, maxMessageLength)})
	if err != nil {
		return fmt.Errorf("failed to encode bot post: %w", err)
	}

	reqURL := p.baseURL + "/bots/post"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		return &httpclient.StatusError{StatusCode: resp.StatusCode, URL: reqURL}
	}
	return nil
}

// splitMessage breaks text into parts that fit a single GroupMe post.
// Splits happen at line boundaries so rankings and bullet lists stay
// intact.
func splitMessage(text string) []string {
	if utf8.RuneCountInString(text) <= maxMessageLength {
		return []string{text}
	}

	var (
		parts   []string
		current strings.Builder
		length  int
	)

	for _, line := range strings.Split(text, "\n") {
		lineLen := utf8.RuneCountInString(line) + 1
		if length+lineLen > splitLength && current.Len() > 0 {
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
			length = 0
		}
		current.WriteString(line)
		current.WriteString("\n")
		length += lineLen
	}

	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}

// truncateRunes caps s at limit runes. GroupMe counts characters, not
// bytes, and recap text is full of emoji.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
