package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/services/status"
)

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	statusService *status.Service
	storage       interfaces.StorageManager
	logger        arbor.ILogger
	startTime     time.Time
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(statusService *status.Service, storage interfaces.StorageManager, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
		storage:       storage,
		logger:        logger,
		startTime:     time.Now(),
	}
}

// GetStatusHandler handles GET /api/status. Count failures degrade to -1
// for the affected entity instead of failing the whole status response.
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	result := h.statusService.GetStatus()
	result["uptime"] = time.Since(h.startTime).Round(time.Second).String()
	result["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	result["counts"] = h.collectCounts(r)

	WriteJSON(w, http.StatusOK, result)
}

func (h *StatusHandler) collectCounts(r *http.Request) map[string]int {
	ctx := r.Context()
	counts := map[string]int{}

	entities := []struct {
		name  string
		count func() (int, error)
	}{
		{"leagues", func() (int, error) { return h.storage.LeagueStorage().CountLeagues(ctx) }},
		{"rosters", func() (int, error) { return h.storage.RosterStorage().CountRosters(ctx) }},
		{"matchups", func() (int, error) { return h.storage.MatchupStorage().CountMatchups(ctx) }},
		{"transactions", func() (int, error) { return h.storage.TransactionStorage().CountTransactions(ctx) }},
		{"users", func() (int, error) { return h.storage.UserStorage().CountUsers(ctx) }},
		{"summaries", func() (int, error) { return h.storage.SummaryStorage().CountSummaries(ctx) }},
	}

	for _, entity := range entities {
		n, err := entity.count()
		if err != nil {
			h.logger.Warn().Err(err).Str("entity", entity.name).Msg("Failed to count entities for status")
			n = -1
		}
		counts[entity.name] = n
	}
	return counts
}
