package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// Service renders weekly summaries into publishable text. Rendering is
// deterministic and costs nothing; LLM paraphrasing is layered on top by the
// recap service when a league asks for it.
type Service struct {
	markdown goldmark.Markdown
	logger   arbor.ILogger
}

// NewService creates a new render service
func NewService(logger arbor.ILogger) interfaces.RenderService {
	return &Service{
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
			),
		),
		logger: logger,
	}
}

// RenderRecap renders the full weekly recap in the given style. Unknown
// styles fall back to standard.
func (s *Service) RenderRecap(summary *models.WeeklySummary, style interfaces.RenderStyle) string {
	switch style {
	case interfaces.RenderStyleEmoji:
		return renderEmojiStyle(summary)
	case interfaces.RenderStyleFormal:
		return renderFormalStyle(summary)
	case interfaces.RenderStyleCasual:
		return renderCasualStyle(summary)
	default:
		return renderStandardStyle(summary)
	}
}

// RenderWaiverRecap renders the transaction-focused waiver report
func (s *Service) RenderWaiverRecap(summary *models.WeeklySummary) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("💰 %s - Week %d Waiver Report", summary.LeagueName, summary.Week))
	lines = append(lines, strings.Repeat("=", 45))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("💸 Total FAAB Spent: $%d", summary.TotalFAABSpent))
	lines = append(lines, fmt.Sprintf("📊 Total Transactions: %d", len(summary.Transactions)))
	if summary.MostActiveTrader != nil && *summary.MostActiveTrader != "" {
		lines = append(lines, fmt.Sprintf("🔥 Most Active: %s", *summary.MostActiveTrader))
	}
	lines = append(lines, "")

	var bigSpenders []models.TransactionSummary
	for _, t := range summary.Transactions {
		if t.FAABSpent != nil && *t.FAABSpent >= 20 {
			bigSpenders = append(bigSpenders, t)
		}
	}
	if len(bigSpenders) > 0 {
		lines = append(lines, "💰 BIG SPENDERS")
		for _, t := range bigSpenders {
			lines = append(lines, fmt.Sprintf("• %s: $%d on %s", t.OwnerName, *t.FAABSpent, strings.Join(t.PlayersAdded, ", ")))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "📋 ALL WAIVER ACTIVITY")
	for _, t := range summary.Transactions {
		faabText := ""
		if t.FAABSpent != nil && *t.FAABSpent > 0 {
			faabText = fmt.Sprintf(" ($%d)", *t.FAABSpent)
		}
		lines = append(lines, fmt.Sprintf("• %s: %s%s", t.OwnerName, t.Notes, faabText))
	}
	lines = append(lines, "")

	switch {
	case summary.TotalFAABSpent > 100:
		lines = append(lines, "🔥 Hot waiver wire this week! Lots of movement.")
	case summary.TotalFAABSpent > 50:
		lines = append(lines, "📈 Decent waiver activity. Some teams making moves.")
	default:
		lines = append(lines, "😴 Pretty quiet on the waiver wire this week.")
	}

	return strings.Join(lines, "\n")
}

// RenderHTML converts recap text to a styled HTML document for email
// delivery. Hard wraps keep the recap's line structure; GFM covers any
// markdown an LLM rewrite slipped in.
func (s *Service) RenderHTML(text string) (string, error) {
	text = stripOuterCodeFences(text)

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		s.logger.Error().Err(err).Int("input_len", len(text)).Msg("Failed to convert recap text to HTML")
		return "", fmt.Errorf("failed to convert recap to HTML: %w", err)
	}

	return wrapInEmailTemplate(buf.String()), nil
}

// stripOuterCodeFences removes a markdown code fence wrapping the entire
// content. LLMs often wrap their whole response in ```...``` even when asked
// not to.
func stripOuterCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	firstNewline := strings.Index(content, "\n")
	if firstNewline == -1 {
		return content
	}

	trimmedEnd := strings.TrimRight(content, " \t\n\r")
	if strings.HasSuffix(trimmedEnd, "```") {
		lastFenceStart := strings.LastIndex(trimmedEnd, "\n```")
		if lastFenceStart == -1 {
			lastFenceStart = len(trimmedEnd) - 3
		}
		return strings.TrimSpace(content[firstNewline+1 : lastFenceStart])
	}

	// Unclosed fence, strip the opening line and any trailing stray backticks
	inner := strings.TrimSpace(content[firstNewline+1:])
	inner = strings.TrimRight(inner, "`")
	return strings.TrimSpace(inner)
}

func wrapInEmailTemplate(content string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
      line-height: 1.6;
      color: #333;
      max-width: 700px;
      margin: 0 auto;
      padding: 20px;
      background-color: #f9f9f9;
    }
    .content {
      background-color: #fff;
      padding: 30px;
      border-radius: 8px;
      box-shadow: 0 1px 3px rgba(0,0,0,0.1);
    }
    h1 { color: #1a1a1a; font-size: 24px; margin-top: 0; border-bottom: 2px solid #eee; padding-bottom: 10px; }
    h2 { color: #2a2a2a; font-size: 20px; margin-top: 24px; }
    p { margin: 12px 0; }
    ul, ol { padding-left: 24px; margin: 12px 0; }
    li { margin: 6px 0; }
    strong { color: #1a1a1a; }
    table { border-collapse: collapse; width: 100%; margin: 16px 0; }
    th, td { border: 1px solid #ddd; padding: 8px 12px; text-align: left; }
    th { background: #f4f4f4; font-weight: 600; }
    hr { border: none; border-top: 1px solid #eee; margin: 24px 0; }
    .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #888; }
  </style>
</head>
<body>
  <div class="content">
    ` + content + `
  </div>
  <div class="footer">
    <p>This recap was automatically generated by AI Commissioner.</p>
  </div>
</body>
</html>`
}
