package llm

import (
	"errors"
	"testing"
	"time"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "http 429", err: errors.New("Error 429, Message: too many requests"), expected: true},
		{name: "resource exhausted", err: errors.New("Status: RESOURCE_EXHAUSTED"), expected: true},
		{name: "quota message", err: errors.New("quota exceeded for model"), expected: true},
		{name: "unrelated error", err: errors.New("connection refused"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimitError(tt.err); got != tt.expected {
				t.Errorf("IsRateLimitError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected time.Duration
	}{
		{
			name:     "api suggested delay",
			err:      errors.New("Error 429, Message: ... Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED"),
			expected: 45387 * time.Millisecond,
		},
		{
			name:     "retryDelay field",
			err:      errors.New("retryDelay: 30s"),
			expected: 30 * time.Second,
		},
		{
			name:     "no delay in message",
			err:      errors.New("Error 429"),
			expected: 0,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRetryDelay(tt.err)
			if got.Round(time.Millisecond) != tt.expected {
				t.Errorf("ExtractRetryDelay() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	config := NewDefaultRetryConfig()

	tests := []struct {
		name     string
		attempt  int
		apiDelay time.Duration
		expected time.Duration
	}{
		{name: "first retry uses initial backoff", attempt: 0, apiDelay: 0, expected: 45 * time.Second},
		{name: "second retry multiplies", attempt: 1, apiDelay: 0, expected: 67500 * time.Millisecond},
		{name: "capped at max backoff", attempt: 3, apiDelay: 0, expected: 90 * time.Second},
		{name: "api delay plus buffer", attempt: 0, apiDelay: 10 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := config.CalculateBackoff(tt.attempt, tt.apiDelay); got != tt.expected {
				t.Errorf("CalculateBackoff(%d, %v) = %v, want %v", tt.attempt, tt.apiDelay, got, tt.expected)
			}
		})
	}
}
