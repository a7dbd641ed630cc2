package interfaces

import "context"

// ChatPublisher delivers recap text to a group chat. Implementations own
// message-length limits and retry behavior.
type ChatPublisher interface {
	// PublishText sends text to the given bot, splitting messages that
	// exceed the platform limit
	PublishText(ctx context.Context, botID string, text string) error

	// HealthCheck verifies the chat platform is reachable
	HealthCheck(ctx context.Context) error
}

// MailPublisher delivers recap email to league members
type MailPublisher interface {
	// SendRecap sends a recap to the given recipients. The body is
	// markdown-ish recap text; implementations build both plain-text and
	// HTML parts from it.
	SendRecap(ctx context.Context, to []string, subject string, text string) error

	// IsConfigured reports whether SMTP settings are present
	IsConfigured(ctx context.Context) bool
}
