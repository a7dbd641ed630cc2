package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
	"github.com/kforero17/aicommissioner/internal/services/export"
)

// SummaryHandler handles HTTP requests for stored weekly summaries
type SummaryHandler struct {
	storage       interfaces.StorageManager
	exportService *export.Service
	logger        arbor.ILogger
}

// NewSummaryHandler creates a new SummaryHandler. exportService may be nil,
// in which case PDF report requests return 503.
func NewSummaryHandler(storage interfaces.StorageManager, exportService *export.Service, logger arbor.ILogger) *SummaryHandler {
	return &SummaryHandler{
		storage:       storage,
		exportService: exportService,
		logger:        logger,
	}
}

// ListSummariesHandler handles GET /api/leagues/{id}/summaries. Summaries
// come back newest week first; ?limit caps the count (default 20).
func (h *SummaryHandler) ListSummariesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := extractIDFromPath(r.URL.Path, "/api/leagues/")
	id = strings.TrimSuffix(id, "/summaries")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "League ID is required")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	summaries, err := h.storage.SummaryStorage().GetSummariesByLeague(r.Context(), id, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("league_id", id).Msg("Failed to list summaries")
		WriteError(w, http.StatusInternalServerError, "Failed to list summaries")
		return
	}

	if summaries == nil {
		summaries = []*models.WeeklySummary{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"league_id": id,
		"count":     len(summaries),
		"summaries": summaries,
	})
}

// GetSummaryHandler handles GET /api/summaries/{id} where the ID is
// "{leagueID}:{week}", e.g. "sleeper:991:10".
func (h *SummaryHandler) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := extractIDFromPath(r.URL.Path, "/api/summaries/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Summary ID is required")
		return
	}

	leagueID, week, err := parseSummaryID(id)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.storage.SummaryStorage().GetSummary(r.Context(), leagueID, week)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Summary not found")
			return
		}
		h.logger.Error().Err(err).Str("summary_id", id).Msg("Failed to get summary")
		WriteError(w, http.StatusInternalServerError, "Failed to get summary")
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// SummaryReportHandler handles GET /api/summaries/{id}/report.pdf and
// responds with the rendered weekly report.
func (h *SummaryHandler) SummaryReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if h.exportService == nil {
		WriteError(w, http.StatusServiceUnavailable, "PDF export is not configured")
		return
	}

	id := extractIDFromPath(r.URL.Path, "/api/summaries/")
	id = strings.TrimSuffix(id, "/report.pdf")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Summary ID is required")
		return
	}

	leagueID, week, err := parseSummaryID(id)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.storage.SummaryStorage().GetSummary(r.Context(), leagueID, week)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Summary not found")
			return
		}
		h.logger.Error().Err(err).Str("summary_id", id).Msg("Failed to get summary for report")
		WriteError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	pdf, err := h.exportService.BuildWeeklyReport(r.Context(), summary)
	if err != nil {
		h.logger.Error().Err(err).Str("summary_id", id).Msg("Failed to build weekly report")
		WriteError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", reportFilename(summary)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// parseSummaryID splits "{leagueID}:{week}" on the last colon. League IDs
// themselves contain a colon ("sleeper:991"), so only the final segment is
// the week.
func parseSummaryID(id string) (string, int, error) {
	idx := strings.LastIndex(id, ":")
	if idx <= 0 || idx == len(id)-1 {
		return "", 0, fmt.Errorf("invalid summary ID '%s': expected {league_id}:{week}", id)
	}
	week, err := strconv.Atoi(id[idx+1:])
	if err != nil || week <= 0 {
		return "", 0, fmt.Errorf("invalid week in summary ID '%s'", id)
	}
	return id[:idx], week, nil
}

func reportFilename(summary *models.WeeklySummary) string {
	name := strings.ReplaceAll(summary.LeagueName, " ", "_")
	if name == "" {
		name = strings.ReplaceAll(summary.LeagueID, ":", "_")
	}
	return fmt.Sprintf("%s_week_%d.pdf", name, summary.Week)
}
