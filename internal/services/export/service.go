// Package export builds downloadable PDF reports from stored weekly
// summaries.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// Service implements interfaces.ExportService
type Service struct {
	storage interfaces.StorageManager
	pdf     interfaces.PDFService
	logger  arbor.ILogger
	tempDir string
}

var _ interfaces.ExportService = (*Service)(nil)

// NewService creates a new export service
func NewService(storage interfaces.StorageManager, pdfService interfaces.PDFService, logger arbor.ILogger) *Service {
	// Temp directory for pdfcpu merge processing
	tempDir := filepath.Join(os.TempDir(), "aicommissioner-export")
	os.MkdirAll(tempDir, 0755)

	return &Service{
		storage: storage,
		pdf:     pdfService,
		logger:  logger,
		tempDir: tempDir,
	}
}

// BuildWeeklyReport renders one stored summary as a PDF report
func (s *Service) BuildWeeklyReport(ctx context.Context, summary *models.WeeklySummary) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("summary is required")
	}

	title := fmt.Sprintf("%s - Week %d Report", summary.LeagueName, summary.Week)
	return s.pdf.ConvertMarkdownToPDF(weeklyReportMarkdown(summary), title)
}

// ExportSeasonReport merges the stored weekly summaries for a league into
// a single PDF, earliest week first. An empty weeks slice means every
// stored week.
func (s *Service) ExportSeasonReport(ctx context.Context, leagueID string, weeks []int) ([]byte, error) {
	league, err := s.storage.LeagueStorage().GetLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load league %s: %w", leagueID, err)
	}

	if len(weeks) == 0 {
		weeks, err = s.storedWeeks(ctx, leagueID)
		if err != nil {
			return nil, err
		}
	}
	sort.Ints(weeks)

	workDir, err := os.MkdirTemp(s.tempDir, "season-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	var inFiles []string
	for _, week := range weeks {
		summary, err := s.storage.SummaryStorage().GetSummary(ctx, leagueID, week)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				s.logger.Warn().
					Str("league_id", leagueID).
					Int("week", week).
					Msg("No stored summary for week, skipping in season report")
				continue
			}
			return nil, fmt.Errorf("failed to load summary for week %d: %w", week, err)
		}

		pdfBytes, err := s.BuildWeeklyReport(ctx, summary)
		if err != nil {
			return nil, fmt.Errorf("failed to build report for week %d: %w", week, err)
		}

		weekFile := filepath.Join(workDir, fmt.Sprintf("week_%03d.pdf", week))
		if err := os.WriteFile(weekFile, pdfBytes, 0644); err != nil {
			return nil, fmt.Errorf("failed to write week %d report: %w", week, err)
		}
		inFiles = append(inFiles, weekFile)
	}

	if len(inFiles) == 0 {
		return nil, fmt.Errorf("no stored summaries for league %s", leagueID)
	}

	outFile := filepath.Join(workDir, "season.pdf")
	conf := model.NewDefaultConfiguration()
	if err := api.MergeCreateFile(inFiles, outFile, false, conf); err != nil {
		return nil, fmt.Errorf("failed to merge weekly reports: %w", err)
	}

	// Validate the merge before handing the file out
	pdfCtx, err := api.ReadContextFile(outFile)
	if err != nil {
		return nil, fmt.Errorf("merged report is not readable: %w", err)
	}

	merged, err := os.ReadFile(outFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read merged report: %w", err)
	}

	s.logger.Info().
		Str("league_id", leagueID).
		Str("league_name", league.Name).
		Int("weeks", len(inFiles)).
		Int("pages", pdfCtx.PageCount).
		Int("pdf_size", len(merged)).
		Msg("Season report exported")

	return merged, nil
}

// storedWeeks lists the weeks with a stored summary, ascending
func (s *Service) storedWeeks(ctx context.Context, leagueID string) ([]int, error) {
	summaries, err := s.storage.SummaryStorage().GetSummariesByLeague(ctx, leagueID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries for %s: %w", leagueID, err)
	}

	weeks := make([]int, 0, len(summaries))
	for _, summary := range summaries {
		weeks = append(weeks, summary.Week)
	}
	sort.Ints(weeks)
	return weeks, nil
}

// weeklyReportMarkdown lays a summary out as a printable report. The tone
// stays plain; chat styling belongs to the render service.
func weeklyReportMarkdown(summary *models.WeeklySummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s - Week %d Report\n\n", summary.LeagueName, summary.Week)
	if summary.Season != "" {
		fmt.Fprintf(&b, "Season %s, generated %s\n\n", summary.Season, summary.GeneratedAt.Format("January 2, 2006"))
	}

	if len(summary.PowerRankings) > 0 {
		b.WriteString("## Power Rankings\n\n")
		b.WriteString("| Rank | Team | Owner | Record | PF | Power | Moved |\n")
		b.WriteString("|------|------|-------|--------|----|-------|-------|\n")
		for _, entry := range summary.PowerRankings {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %.1f | %.1f | %s |\n",
				entry.Rank, entry.TeamName, entry.OwnerName, entry.Record,
				entry.PointsFor, entry.PowerScore, movementCell(entry.Movement))
		}
		b.WriteString("\n")
	}

	if len(summary.Performances) > 0 {
		b.WriteString("## Results\n\n")
		b.WriteString("| Team | Score | Opponent | Opp Score | Result |\n")
		b.WriteString("|------|-------|----------|-----------|--------|\n")
		for _, p := range summary.Performances {
			fmt.Fprintf(&b, "| %s | %.2f | %s | %.2f | %s |\n",
				p.TeamName, p.PointsScored, p.OpponentName, p.OpponentPoints, resultCell(&p))
		}
		b.WriteString("\n")

		b.WriteString("## Highlights\n\n")
		fmt.Fprintf(&b, "- Highest scorer: %s (%.2f)\n", summary.HighestScorer.TeamName, summary.HighestScorer.PointsScored)
		fmt.Fprintf(&b, "- Lowest scorer: %s (%.2f)\n", summary.LowestScorer.TeamName, summary.LowestScorer.PointsScored)
		fmt.Fprintf(&b, "- Biggest blowout: %s over %s by %.2f\n",
			summary.BiggestBlowout.Winner.TeamName, summary.BiggestBlowout.Loser.TeamName,
			summary.BiggestBlowout.Winner.PointsScored-summary.BiggestBlowout.Loser.PointsScored)
		fmt.Fprintf(&b, "- Closest matchup: %s over %s by %.2f\n",
			summary.ClosestMatchup.Winner.TeamName, summary.ClosestMatchup.Loser.TeamName,
			summary.ClosestMatchup.Winner.PointsScored-summary.ClosestMatchup.Loser.PointsScored)
		fmt.Fprintf(&b, "- League average: %.2f over %d teams\n", summary.AverageScore, len(summary.Performances))
		b.WriteString("\n")
	}

	b.WriteString("## Transactions\n\n")
	if len(summary.Transactions) == 0 {
		b.WriteString("No transaction activity this week.\n\n")
	} else {
		for _, t := range summary.Transactions {
			if t.FAABSpent != nil && *t.FAABSpent > 0 {
				fmt.Fprintf(&b, "- %s: %s ($%d)\n", t.OwnerName, t.Notes, *t.FAABSpent)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", t.OwnerName, t.Notes)
			}
		}
		fmt.Fprintf(&b, "\nTotal FAAB spent: $%d\n\n", summary.TotalFAABSpent)
	}

	if len(summary.PlayoffPicture) > 0 {
		b.WriteString("## Playoff Picture\n\n")
		for i, team := range summary.PlayoffPicture {
			fmt.Fprintf(&b, "%d. %s\n", i+1, team)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func movementCell(movement int) string {
	if movement == 0 {
		return "-"
	}
	return fmt.Sprintf("%+d", movement)
}

func resultCell(p *models.PerformanceRecord) string {
	switch {
	case p.Win:
		return "W"
	case p.PointsScored == p.OpponentPoints:
		return "T"
	default:
		return "L"
	}
}
