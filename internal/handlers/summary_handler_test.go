package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
	"github.com/kforero17/aicommissioner/internal/services/export"
	"github.com/kforero17/aicommissioner/internal/services/pdf"
)

func seedTestSummary(t *testing.T, manager interfaces.StorageManager, leagueID string, week int) {
	t.Helper()
	summary := &models.WeeklySummary{
		LeagueID:    leagueID,
		LeagueName:  "Dynasty Degens",
		Week:        week,
		Season:      "2025",
		GeneratedAt: time.Now(),
	}
	if err := manager.SummaryStorage().SaveSummary(context.Background(), summary); err != nil {
		t.Fatalf("Failed to save summary: %v", err)
	}
}

func TestListSummariesHandler(t *testing.T) {
	manager := newTestStorage(t)
	seedTestSummary(t, manager, "sleeper:991", 8)
	seedTestSummary(t, manager, "sleeper:991", 9)
	seedTestSummary(t, manager, "sleeper:991", 10)
	handler := NewSummaryHandler(manager, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/leagues/sleeper:991/summaries", nil)
	rec := httptest.NewRecorder()

	handler.ListSummariesHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["league_id"] != "sleeper:991" {
		t.Errorf("Expected league_id sleeper:991, got %v", response["league_id"])
	}
	if int(response["count"].(float64)) != 3 {
		t.Errorf("Expected count 3, got %v", response["count"])
	}

	summaries := response["summaries"].([]interface{})
	if len(summaries) != 3 {
		t.Fatalf("Expected 3 summaries, got %d", len(summaries))
	}

	// Newest week first
	weeks := make([]int, 0, len(summaries))
	for _, s := range summaries {
		entry := s.(map[string]interface{})
		weeks = append(weeks, int(entry["week"].(float64)))
	}
	if weeks[0] != 10 || weeks[1] != 9 || weeks[2] != 8 {
		t.Errorf("Expected weeks [10 9 8], got %v", weeks)
	}
}

func TestListSummariesHandler_Limit(t *testing.T) {
	manager := newTestStorage(t)
	seedTestSummary(t, manager, "sleeper:991", 8)
	seedTestSummary(t, manager, "sleeper:991", 9)
	seedTestSummary(t, manager, "sleeper:991", 10)
	handler := NewSummaryHandler(manager, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/leagues/sleeper:991/summaries?limit=2", nil)
	rec := httptest.NewRecorder()

	handler.ListSummariesHandler(rec, req)

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if int(response["count"].(float64)) != 2 {
		t.Errorf("Expected count 2, got %v", response["count"])
	}

	summaries := response["summaries"].([]interface{})
	first := summaries[0].(map[string]interface{})
	if int(first["week"].(float64)) != 10 {
		t.Errorf("Expected newest week 10 first, got %v", first["week"])
	}
}

func TestListSummariesHandler_Empty(t *testing.T) {
	manager := newTestStorage(t)
	handler := NewSummaryHandler(manager, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/leagues/sleeper:991/summaries", nil)
	rec := httptest.NewRecorder()

	handler.ListSummariesHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if int(response["count"].(float64)) != 0 {
		t.Errorf("Expected count 0, got %v", response["count"])
	}

	summaries, ok := response["summaries"].([]interface{})
	if !ok {
		t.Fatalf("Expected summaries array, got %T", response["summaries"])
	}
	if len(summaries) != 0 {
		t.Errorf("Expected empty summaries array, got %d entries", len(summaries))
	}
}

func TestGetSummaryHandler(t *testing.T) {
	manager := newTestStorage(t)
	seedTestSummary(t, manager, "sleeper:991", 10)
	handler := NewSummaryHandler(manager, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/summaries/sleeper:991:10", nil)
	rec := httptest.NewRecorder()

	handler.GetSummaryHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var summary models.WeeklySummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if summary.LeagueID != "sleeper:991" {
		t.Errorf("Expected league sleeper:991, got %s", summary.LeagueID)
	}
	if summary.Week != 10 {
		t.Errorf("Expected week 10, got %d", summary.Week)
	}
}

func TestGetSummaryHandler_NotFound(t *testing.T) {
	manager := newTestStorage(t)
	handler := NewSummaryHandler(manager, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/summaries/sleeper:991:12", nil)
	rec := httptest.NewRecorder()

	handler.GetSummaryHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if response["error"] != "Summary not found" {
		t.Errorf("Expected error 'Summary not found', got %v", response["error"])
	}
}

func TestGetSummaryHandler_InvalidID(t *testing.T) {
	manager := newTestStorage(t)
	handler := NewSummaryHandler(manager, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/summaries/sleeper:991:abc", nil)
	rec := httptest.NewRecorder()

	handler.GetSummaryHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	errMsg, _ := response["error"].(string)
	if !strings.Contains(errMsg, "invalid week in summary ID") {
		t.Errorf("Expected invalid week error, got %v", response["error"])
	}
}

func TestParseSummaryID(t *testing.T) {
	tests := []struct {
		id         string
		wantLeague string
		wantWeek   int
		wantErr    bool
	}{
		{"sleeper:991:10", "sleeper:991", 10, false},
		{"yahoo:44212:1", "yahoo:44212", 1, false},
		// The last colon separates the week, so a two-part ID still parses
		{"sleeper:991", "sleeper", 991, false},
		{"nocolon", "", 0, true},
		{":10", "", 0, true},
		{"sleeper:991:", "", 0, true},
		{"sleeper:991:abc", "", 0, true},
		{"sleeper:991:0", "", 0, true},
		{"sleeper:991:-2", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			league, week, err := parseSummaryID(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got league=%q week=%d", tt.id, league, week)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tt.id, err)
			}
			if league != tt.wantLeague {
				t.Errorf("Expected league %q, got %q", tt.wantLeague, league)
			}
			if week != tt.wantWeek {
				t.Errorf("Expected week %d, got %d", tt.wantWeek, week)
			}
		})
	}
}

func TestSummaryReportHandler(t *testing.T) {
	manager := newTestStorage(t)
	seedTestSummary(t, manager, "sleeper:991", 10)
	logger := arbor.NewLogger()
	exportService := export.NewService(manager, pdf.NewService(logger), logger)
	handler := NewSummaryHandler(manager, exportService, logger)

	req := httptest.NewRequest("GET", "/api/summaries/sleeper:991:10/report.pdf", nil)
	rec := httptest.NewRecorder()

	handler.SummaryReportHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected Content-Type application/pdf, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Dynasty_Degens_week_10.pdf") {
		t.Errorf("Expected filename in Content-Disposition, got %s", cd)
	}
	body := rec.Body.Bytes()
	if !strings.HasPrefix(string(body), "%PDF") {
		t.Error("Expected PDF output")
	}
	if cl := rec.Header().Get("Content-Length"); cl != strconv.Itoa(len(body)) {
		t.Errorf("Expected Content-Length %d, got %s", len(body), cl)
	}
}

func TestSummaryReportHandler_NotConfigured(t *testing.T) {
	manager := newTestStorage(t)
	seedTestSummary(t, manager, "sleeper:991", 10)
	handler := NewSummaryHandler(manager, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/summaries/sleeper:991:10/report.pdf", nil)
	rec := httptest.NewRecorder()

	handler.SummaryReportHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if response["error"] != "PDF export is not configured" {
		t.Errorf("Expected not configured error, got %v", response["error"])
	}
}

func TestSummaryReportHandler_NotFound(t *testing.T) {
	manager := newTestStorage(t)
	logger := arbor.NewLogger()
	exportService := export.NewService(manager, pdf.NewService(logger), logger)
	handler := NewSummaryHandler(manager, exportService, logger)

	req := httptest.NewRequest("GET", "/api/summaries/sleeper:991:12/report.pdf", nil)
	rec := httptest.NewRecorder()

	handler.SummaryReportHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestReportFilename(t *testing.T) {
	named := &models.WeeklySummary{LeagueID: "sleeper:991", LeagueName: "Dynasty Degens", Week: 10}
	if got := reportFilename(named); got != "Dynasty_Degens_week_10.pdf" {
		t.Errorf("Expected Dynasty_Degens_week_10.pdf, got %s", got)
	}

	unnamed := &models.WeeklySummary{LeagueID: "sleeper:991", Week: 3}
	if got := reportFilename(unnamed); got != "sleeper_991_week_3.pdf" {
		t.Errorf("Expected sleeper_991_week_3.pdf, got %s", got)
	}
}
