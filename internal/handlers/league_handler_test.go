package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
	"github.com/kforero17/aicommissioner/internal/storage/badger"
)

// newTestStorage opens a real store in a temp directory
func newTestStorage(t *testing.T) interfaces.StorageManager {
	t.Helper()
	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create storage manager: %v", err)
	}
	t.Cleanup(func() { manager.Close() })
	return manager
}

// mockSyncService implements interfaces.SyncService for testing
type mockSyncService struct {
	registerLeagueFunc func(ctx context.Context, platform models.Platform, externalID string) (*models.League, error)
	syncLeagueFunc     func(ctx context.Context, leagueID string) error
	syncWeekFunc       func(ctx context.Context, leagueID string, week int) error
	syncAllLeaguesFunc func(ctx context.Context) error
}

func (m *mockSyncService) RegisterLeague(ctx context.Context, platform models.Platform, externalID string) (*models.League, error) {
	if m.registerLeagueFunc != nil {
		return m.registerLeagueFunc(ctx, platform, externalID)
	}
	return nil, nil
}

func (m *mockSyncService) SyncLeague(ctx context.Context, leagueID string) error {
	if m.syncLeagueFunc != nil {
		return m.syncLeagueFunc(ctx, leagueID)
	}
	return nil
}

func (m *mockSyncService) SyncWeek(ctx context.Context, leagueID string, week int) error {
	if m.syncWeekFunc != nil {
		return m.syncWeekFunc(ctx, leagueID, week)
	}
	return nil
}

func (m *mockSyncService) SyncAllLeagues(ctx context.Context) error {
	if m.syncAllLeaguesFunc != nil {
		return m.syncAllLeaguesFunc(ctx)
	}
	return nil
}

func seedTestLeague(t *testing.T, manager interfaces.StorageManager, id string) *models.League {
	t.Helper()
	parts := strings.SplitN(id, ":", 2)
	league := &models.League{
		ID:          id,
		Platform:    models.Platform(parts[0]),
		ExternalID:  parts[1],
		Name:        "Dynasty Degens",
		Season:      "2025",
		CurrentWeek: 10,
		TotalWeeks:  17,
		NumTeams:    10,
		Status:      models.LeagueStatusInSeason,
	}
	if err := manager.LeagueStorage().SaveLeague(context.Background(), league); err != nil {
		t.Fatalf("Failed to save league: %v", err)
	}
	return league
}

func TestListLeaguesHandler_Empty(t *testing.T) {
	manager := newTestStorage(t)
	handler := NewLeagueHandler(manager, &mockSyncService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/leagues", nil)
	rec := httptest.NewRecorder()

	handler.ListLeaguesHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	// An empty store returns a JSON array, not null
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("Expected empty JSON array, got %s", body)
	}
}

func TestListLeaguesHandler_ReturnsLeagues(t *testing.T) {
	manager := newTestStorage(t)
	seedTestLeague(t, manager, "sleeper:991")
	seedTestLeague(t, manager, "yahoo:44212")
	handler := NewLeagueHandler(manager, &mockSyncService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/leagues", nil)
	rec := httptest.NewRecorder()

	handler.ListLeaguesHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var leagues []*models.League
	if err := json.NewDecoder(rec.Body).Decode(&leagues); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(leagues) != 2 {
		t.Fatalf("Expected 2 leagues, got %d", len(leagues))
	}

	ids := map[string]bool{}
	for _, league := range leagues {
		ids[league.ID] = true
	}
	if !ids["sleeper:991"] || !ids["yahoo:44212"] {
		t.Errorf("Expected both seeded leagues in response, got %v", ids)
	}
}

func TestRegisterLeagueHandler_Success(t *testing.T) {
	manager := newTestStorage(t)

	var capturedPlatform models.Platform
	var capturedExternalID string
	syncService := &mockSyncService{
		registerLeagueFunc: func(ctx context.Context, platform models.Platform, externalID string) (*models.League, error) {
			capturedPlatform = platform
			capturedExternalID = externalID
			return &models.League{
				ID:         "sleeper:991",
				Platform:   models.PlatformSleeper,
				ExternalID: "991",
				Name:       "Dynasty Degens",
				Season:     "2025",
			}, nil
		},
	}

	handler := NewLeagueHandler(manager, syncService, arbor.NewLogger())
	body := strings.NewReader(`{"platform":"sleeper","external_id":"991"}`)
	req := httptest.NewRequest("POST", "/api/leagues", body)
	rec := httptest.NewRecorder()

	handler.RegisterLeagueHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}
	if capturedPlatform != models.PlatformSleeper {
		t.Errorf("Expected platform sleeper, got %s", capturedPlatform)
	}
	if capturedExternalID != "991" {
		t.Errorf("Expected external ID 991, got %s", capturedExternalID)
	}

	var league models.League
	if err := json.NewDecoder(rec.Body).Decode(&league); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if league.ID != "sleeper:991" {
		t.Errorf("Expected league ID sleeper:991, got %s", league.ID)
	}
}

func TestRegisterLeagueHandler_InvalidBody(t *testing.T) {
	manager := newTestStorage(t)
	handler := NewLeagueHandler(manager, &mockSyncService{}, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/leagues", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.RegisterLeagueHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["error"] != "Invalid request body" {
		t.Errorf("Expected error 'Invalid request body', got %v", response["error"])
	}
}

func TestRegisterLeagueHandler_InvalidPlatform(t *testing.T) {
	manager := newTestStorage(t)
	syncService := &mockSyncService{
		registerLeagueFunc: func(ctx context.Context, platform models.Platform, externalID string) (*models.League, error) {
			return nil, &mockError{msg: "invalid platform: espn (must be one of: sleeper, yahoo)"}
		},
	}

	handler := NewLeagueHandler(manager, syncService, arbor.NewLogger())
	body := strings.NewReader(`{"platform":"espn","external_id":"991"}`)
	req := httptest.NewRequest("POST", "/api/leagues", body)
	rec := httptest.NewRecorder()

	handler.RegisterLeagueHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if response["error"] != "invalid platform: espn (must be one of: sleeper, yahoo)" {
		t.Errorf("Expected validation error passed through, got %v", response["error"])
	}
}

func TestRegisterLeagueHandler_FetchFailure(t *testing.T) {
	manager := newTestStorage(t)
	syncService := &mockSyncService{
		registerLeagueFunc: func(ctx context.Context, platform models.Platform, externalID string) (*models.League, error) {
			return nil, &mockError{msg: "failed to fetch league 991 from sleeper: connection refused"}
		},
	}

	handler := NewLeagueHandler(manager, syncService, arbor.NewLogger())
	body := strings.NewReader(`{"platform":"sleeper","external_id":"991"}`)
	req := httptest.NewRequest("POST", "/api/leagues", body)
	rec := httptest.NewRecorder()

	handler.RegisterLeagueHandler(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", rec.Code)
	}
}

func TestRegisterLeagueHandler_ServiceError(t *testing.T) {
	manager := newTestStorage(t)
	syncService := &mockSyncService{
		registerLeagueFunc: func(ctx context.Context, platform models.Platform, externalID string) (*models.League, error) {
			return nil, &mockError{msg: "storage write failed"}
		},
	}

	handler := NewLeagueHandler(manager, syncService, arbor.NewLogger())
	body := strings.NewReader(`{"platform":"sleeper","external_id":"991"}`)
	req := httptest.NewRequest("POST", "/api/leagues", body)
	rec := httptest.NewRecorder()

	handler.RegisterLeagueHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if response["error"] != "Failed to register league" {
		t.Errorf("Expected generic error message, got %v", response["error"])
	}
}

func TestGetLeagueHandler(t *testing.T) {
	manager := newTestStorage(t)
	seedTestLeague(t, manager, "sleeper:991")
	handler := NewLeagueHandler(manager, &mockSyncService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/leagues/sleeper:991", nil)
	rec := httptest.NewRecorder()

	handler.GetLeagueHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var league models.League
	if err := json.NewDecoder(rec.Body).Decode(&league); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if league.ID != "sleeper:991" {
		t.Errorf("Expected league ID sleeper:991, got %s", league.ID)
	}
	if league.Name != "Dynasty Degens" {
		t.Errorf("Expected league name Dynasty Degens, got %s", league.Name)
	}
}

func TestGetLeagueHandler_NotFound(t *testing.T) {
	manager := newTestStorage(t)
	handler := NewLeagueHandler(manager, &mockSyncService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/leagues/sleeper:404", nil)
	rec := httptest.NewRecorder()

	handler.GetLeagueHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if response["error"] != "League not found" {
		t.Errorf("Expected error 'League not found', got %v", response["error"])
	}
}

func TestDeleteLeagueHandler_CascadesToLeagueData(t *testing.T) {
	manager := newTestStorage(t)
	ctx := context.Background()
	seedTestLeague(t, manager, "sleeper:991")

	roster := &models.Roster{
		ID:       models.RosterKey("sleeper:991", 1),
		LeagueID: "sleeper:991",
		RosterID: 1,
		TeamName: "Waiver Warriors",
	}
	if err := manager.RosterStorage().SaveRoster(ctx, roster); err != nil {
		t.Fatalf("Failed to save roster: %v", err)
	}
	matchup := &models.Matchup{
		ID:            models.MatchupKey("sleeper:991", 10, 1),
		LeagueID:      "sleeper:991",
		Week:          10,
		MatchupID:     1,
		Team1RosterID: 1,
	}
	if err := manager.MatchupStorage().SaveMatchup(ctx, matchup); err != nil {
		t.Fatalf("Failed to save matchup: %v", err)
	}
	tx := &models.Transaction{
		ID:         models.TransactionKey("sleeper:991", "tx-1"),
		LeagueID:   "sleeper:991",
		ExternalID: "tx-1",
		Week:       10,
		Type:       models.TransactionTypeWaiver,
		Status:     models.TransactionStatusComplete,
		RosterID:   1,
		CreatedAt:  time.Now(),
	}
	if err := manager.TransactionStorage().SaveTransaction(ctx, tx); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	handler := NewLeagueHandler(manager, &mockSyncService{}, arbor.NewLogger())
	req := httptest.NewRequest("DELETE", "/api/leagues/sleeper:991", nil)
	rec := httptest.NewRecorder()

	handler.DeleteLeagueHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if response["status"] != "success" {
		t.Errorf("Expected status 'success', got %v", response["status"])
	}

	counts := []struct {
		name  string
		count func() (int, error)
	}{
		{"leagues", func() (int, error) { return manager.LeagueStorage().CountLeagues(ctx) }},
		{"rosters", func() (int, error) { return manager.RosterStorage().CountRosters(ctx) }},
		{"matchups", func() (int, error) { return manager.MatchupStorage().CountMatchups(ctx) }},
		{"transactions", func() (int, error) { return manager.TransactionStorage().CountTransactions(ctx) }},
	}
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			t.Fatalf("Failed to count %s: %v", c.name, err)
		}
		if n != 0 {
			t.Errorf("Expected 0 %s after delete, got %d", c.name, n)
		}
	}
}

func TestDeleteLeagueHandler_NotFound(t *testing.T) {
	manager := newTestStorage(t)
	handler := NewLeagueHandler(manager, &mockSyncService{}, arbor.NewLogger())

	req := httptest.NewRequest("DELETE", "/api/leagues/sleeper:404", nil)
	rec := httptest.NewRecorder()

	handler.DeleteLeagueHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestSyncLeagueHandler(t *testing.T) {
	manager := newTestStorage(t)
	seedTestLeague(t, manager, "sleeper:991")

	var syncCalls int64
	var capturedID atomic.Value
	syncService := &mockSyncService{
		syncLeagueFunc: func(ctx context.Context, leagueID string) error {
			capturedID.Store(leagueID)
			atomic.AddInt64(&syncCalls, 1)
			return nil
		},
	}

	handler := NewLeagueHandler(manager, syncService, arbor.NewLogger())
	req := httptest.NewRequest("POST", "/api/leagues/sleeper:991/sync", nil)
	rec := httptest.NewRecorder()

	handler.SyncLeagueHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if response["status"] != "started" {
		t.Errorf("Expected status 'started', got %v", response["status"])
	}
	if response["message"] != "League sync started" {
		t.Errorf("Expected message 'League sync started', got %v", response["message"])
	}

	// The sync runs in the background, poll for it
	deadline := time.Now().Add(5 * time.Second)
	for atomic.LoadInt64(&syncCalls) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if atomic.LoadInt64(&syncCalls) != 1 {
		t.Fatal("Expected background sync to be invoked")
	}
	if got := capturedID.Load(); got != "sleeper:991" {
		t.Errorf("Expected sync for sleeper:991, got %v", got)
	}
}

func TestSyncLeagueHandler_NotFound(t *testing.T) {
	manager := newTestStorage(t)

	var syncCalls int64
	syncService := &mockSyncService{
		syncLeagueFunc: func(ctx context.Context, leagueID string) error {
			atomic.AddInt64(&syncCalls, 1)
			return nil
		},
	}

	handler := NewLeagueHandler(manager, syncService, arbor.NewLogger())
	req := httptest.NewRequest("POST", "/api/leagues/sleeper:404/sync", nil)
	rec := httptest.NewRecorder()

	handler.SyncLeagueHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
	if atomic.LoadInt64(&syncCalls) != 0 {
		t.Error("Expected no sync for unknown league")
	}
}

// mockError implements error interface for testing
type mockError struct {
	msg string
}

func (e *mockError) Error() string {
	return e.msg
}
