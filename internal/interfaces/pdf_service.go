package interfaces

import (
	"context"

	"github.com/kforero17/aicommissioner/internal/models"
)

// PDFService handles PDF generation from various formats
type PDFService interface {
	// ConvertMarkdownToPDF converts markdown content to a PDF byte slice
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)
}

// ExportService builds downloadable PDF reports
type ExportService interface {
	// BuildWeeklyReport renders one stored summary as a PDF report
	BuildWeeklyReport(ctx context.Context, summary *models.WeeklySummary) ([]byte, error)

	// ExportSeasonReport merges the stored weekly summaries for a league
	// into a single PDF report, most recent weeks last. An empty weeks
	// slice means every stored week.
	ExportSeasonReport(ctx context.Context, leagueID string, weeks []int) ([]byte, error)
}
