// -----------------------------------------------------------------------
// Mailer Service - SMTP recap delivery using commissioner credentials
// Credentials are stored in KeyValue storage with smtp_ prefix
// -----------------------------------------------------------------------

package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// Config holds SMTP configuration loaded from KeyValue storage
type Config struct {
	Host     string `json:"smtp_host"`
	Port     int    `json:"smtp_port"`
	Username string `json:"smtp_username"`
	Password string `json:"smtp_password"`
	From     string `json:"smtp_from"`
	FromName string `json:"smtp_from_name"`
	UseTLS   bool   `json:"smtp_use_tls"`
}

// Attachment represents an email attachment
type Attachment struct {
	Filename    string // Filename for the attachment
	ContentType string // MIME type (e.g., "application/pdf")
	Content     []byte // Raw content bytes
}

// Service sends recap email using the commissioner's SMTP credentials
type Service struct {
	kvStorage interfaces.KeyValueStorage
	renderer  interfaces.RenderService
	logger    arbor.ILogger
}

var _ interfaces.MailPublisher = (*Service)(nil)

// NewService creates a new mailer service
// Uses KeyValue storage for SMTP credentials so they survive restarts
func NewService(kvStorage interfaces.KeyValueStorage, renderer interfaces.RenderService, logger arbor.ILogger) *Service {
	return &Service{
		kvStorage: kvStorage,
		renderer:  renderer,
		logger:    logger,
	}
}

// GetConfig retrieves SMTP configuration from KeyValue storage. A missing
// from address falls back to the username.
func (s *Service) GetConfig(ctx context.Context) (*Config, error) {
	config := &Config{
		Port:     587,  // Default SMTP port
		UseTLS:   true, // Default to TLS
		FromName: "AI Commissioner",
	}

	pairs, err := s.kvStorage.ListByPrefix(ctx, "smtp_")
	if err != nil {
		return nil, fmt.Errorf("failed to load mail config: %w", err)
	}

	for _, pair := range pairs {
		switch pair.Key {
		case "smtp_host":
			config.Host = pair.Value
		case "smtp_port":
			if port, err := strconv.Atoi(pair.Value); err == nil {
				config.Port = port
			}
		case "smtp_username":
			config.Username = pair.Value
		case "smtp_password":
			config.Password = pair.Value
		case "smtp_from":
			if pair.Value != "" {
				config.From = pair.Value
			}
		case "smtp_from_name":
			if pair.Value != "" {
				config.FromName = pair.Value
			}
		case "smtp_use_tls":
			if pair.Value != "" {
				config.UseTLS = strings.ToLower(pair.Value) == "true" || pair.Value == "1"
			}
		}
	}

	if config.From == "" {
		config.From = config.Username
	}

	return config, nil
}

// SetConfig saves SMTP configuration to KeyValue storage
func (s *Service) SetConfig(ctx context.Context, config *Config) error {
	if err := s.kvStorage.Set(ctx, "smtp_host", config.Host, "SMTP server hostname"); err != nil {
		return fmt.Errorf("failed to set smtp_host: %w", err)
	}

	if err := s.kvStorage.Set(ctx, "smtp_port", strconv.Itoa(config.Port), "SMTP server port"); err != nil {
		return fmt.Errorf("failed to set smtp_port: %w", err)
	}

	if err := s.kvStorage.Set(ctx, "smtp_username", config.Username, "SMTP username (email address)"); err != nil {
		return fmt.Errorf("failed to set smtp_username: %w", err)
	}

	if err := s.kvStorage.Set(ctx, "smtp_password", config.Password, "SMTP password or app password"); err != nil {
		return fmt.Errorf("failed to set smtp_password: %w", err)
	}

	if err := s.kvStorage.Set(ctx, "smtp_from", config.From, "From email address"); err != nil {
		return fmt.Errorf("failed to set smtp_from: %w", err)
	}

	if err := s.kvStorage.Set(ctx, "smtp_from_name", config.FromName, "From display name"); err != nil {
		return fmt.Errorf("failed to set smtp_from_name: %w", err)
	}

	tlsStr := "false"
	if config.UseTLS {
		tlsStr = "true"
	}
	if err := s.kvStorage.Set(ctx, "smtp_use_tls", tlsStr, "Use TLS encryption"); err != nil {
		return fmt.Errorf("failed to set smtp_use_tls: %w", err)
	}

	s.logger.Info().
		Str("host", config.Host).
		Int("port", config.Port).
		Str("from", config.From).
		Msg("Mail configuration saved")

	return nil
}

// IsConfigured checks if SMTP is configured with minimum required settings
func (s *Service) IsConfigured(ctx context.Context) bool {
	config, err := s.GetConfig(ctx)
	if err != nil {
		return false
	}

	return config.Host != "" && config.Username != "" && config.Password != "" && config.From != ""
}

// SendRecap sends recap text to the given recipients as a
// multipart/alternative message with plain text and HTML parts
func (s *Service) SendRecap(ctx context.Context, to []string, subject string, text string) error {
	return s.send(ctx, to, subject, text, nil)
}

// SendRecapWithAttachment sends a recap with a file attached, used for
// weekly and season PDF reports
func (s *Service) SendRecapWithAttachment(ctx context.Context, to []string, subject string, text string, attachment *Attachment) error {
	return s.send(ctx, to, subject, text, attachment)
}

func (s *Service) send(ctx context.Context, to []string, subject, text string, attachment *Attachment) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	if subject == "" {
		return fmt.Errorf("subject is required")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("recap text is required")
	}

	config, err := s.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to get mail config: %w", err)
	}

	if config.Host == "" {
		return fmt.Errorf("SMTP host not configured")
	}

	if config.Username == "" || config.Password == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}

	if config.From == "" {
		return fmt.Errorf("from email not configured")
	}

	htmlBody := ""
	if s.renderer != nil {
		html, err := s.renderer.RenderHTML(text)
		if err != nil {
			s.logger.Warn().Err(err).Msg("HTML render failed, sending plain text only")
		} else {
			htmlBody = html
		}
	}

	msg, err := composeMessage(config, to, subject, text, htmlBody, attachment)
	if err != nil {
		return err
	}

	if err := s.deliver(config, to, msg); err != nil {
		return err
	}

	s.logger.Info().
		Int("recipients", len(to)).
		Str("subject", subject).
		Msg("Recap email sent")

	return nil
}

// SendTestEmail sends a test email to verify configuration
func (s *Service) SendTestEmail(ctx context.Context, to string) error {
	subject := "AI Commissioner Test Email"
	body := "This is a test email from AI Commissioner to verify your SMTP configuration is working correctly."

	if err := s.SendRecap(ctx, []string{to}, subject, body); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("Failed to send test email")
		return err
	}

	s.logger.Info().Str("to", to).Msg("Test email sent successfully")
	return nil
}

// composeMessage builds the MIME message: a multipart/alternative body
// with plain text and HTML parts, plus an optional attachment
func composeMessage(config *Config, to []string, subject, textBody, htmlBody string, attachment *Attachment) ([]byte, error) {
	var buf bytes.Buffer

	from := []*mail.Address{{Name: config.FromName, Address: config.From}}
	toList := make([]*mail.Address, 0, len(to))
	for _, addr := range to {
		toList = append(toList, &mail.Address{Address: addr})
	}

	var header mail.Header
	header.SetDate(time.Now().UTC())
	header.SetAddressList("From", from)
	header.SetAddressList("To", toList)
	header.SetSubject(subject)

	mw, err := mail.CreateWriter(&buf, header)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail writer: %w", err)
	}

	inline, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("failed to create inline part: %w", err)
	}

	var textHeader mail.InlineHeader
	textHeader.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	tw, err := inline.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	io.WriteString(tw, textBody)
	tw.Close()

	if htmlBody != "" {
		var htmlHeader mail.InlineHeader
		htmlHeader.SetContentType("text/html", map[string]string{"charset": "utf-8"})
		hw, err := inline.CreatePart(htmlHeader)
		if err != nil {
			return nil, fmt.Errorf("failed to create html part: %w", err)
		}
		io.WriteString(hw, htmlBody)
		hw.Close()
	}
	inline.Close()

	if attachment != nil {
		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		var attHeader mail.AttachmentHeader
		attHeader.SetContentType(contentType, nil)
		attHeader.SetFilename(attachment.Filename)
		aw, err := mw.CreateAttachment(attHeader)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment: %w", err)
		}
		aw.Write(attachment.Content)
		aw.Close()
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *Service) deliver(config *Config, to []string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)

	if config.UseTLS {
		// TLS connection (Gmail, etc.)
		return s.sendWithTLS(addr, auth, config.From, to, msg)
	}

	// Plain SMTP
	return smtp.SendMail(addr, auth, config.From, to, msg)
}

// sendWithTLS sends email using TLS connection (required for Gmail)
func (s *Service) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host := strings.Split(addr, ":")[0]

	// Connect to SMTP server
	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: host,
	})
	if err != nil {
		// Fallback to STARTTLS if direct TLS fails
		return s.sendWithSTARTTLS(addr, auth, from, to, msg)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return s.transmit(client, auth, from, to, msg)
}

// sendWithSTARTTLS sends email using STARTTLS upgrade
func (s *Service) sendWithSTARTTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host := strings.Split(addr, ":")[0]

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	// Upgrade to TLS
	tlsConfig := &tls.Config{
		ServerName: host,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return s.transmit(client, auth, from, to, msg)
}

// transmit runs the SMTP conversation on an established client
func (s *Service) transmit(client *smtp.Client, auth smtp.Auth, from string, to []string, msg []byte) error {
	// Authenticate
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	// Set sender and recipients
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set mail from: %w", err)
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set mail recipient: %w", err)
		}
	}

	// Write message
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
