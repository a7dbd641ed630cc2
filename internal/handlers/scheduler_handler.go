package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// SchedulerHandler handles HTTP requests for scheduled job management
type SchedulerHandler struct {
	schedulerService interfaces.SchedulerService
	logger           arbor.ILogger
}

// NewSchedulerHandler creates a new SchedulerHandler
func NewSchedulerHandler(schedulerService interfaces.SchedulerService, logger arbor.ILogger) *SchedulerHandler {
	return &SchedulerHandler{
		schedulerService: schedulerService,
		logger:           logger,
	}
}

// ListJobsHandler handles GET /api/scheduler/jobs
func (h *SchedulerHandler) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	statuses := h.schedulerService.GetAllJobStatuses()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"running": h.schedulerService.IsRunning(),
		"count":   len(statuses),
		"jobs":    statuses,
	})
}

// TriggerJobHandler handles POST /api/scheduler/jobs/{name}/trigger. The job
// runs in the background; poll GET /api/scheduler/jobs for the outcome.
func (h *SchedulerHandler) TriggerJobHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	name := extractIDFromPath(r.URL.Path, "/api/scheduler/jobs/")
	name = strings.TrimSuffix(name, "/trigger")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "Job name is required")
		return
	}

	if err := h.schedulerService.TriggerJob(name); err != nil {
		switch {
		case strings.Contains(err.Error(), "not found"):
			WriteError(w, http.StatusNotFound, err.Error())
		case strings.Contains(err.Error(), "already running"):
			WriteError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error().Err(err).Str("job_name", name).Msg("Failed to trigger job")
			WriteError(w, http.StatusInternalServerError, "Failed to trigger job")
		}
		return
	}

	WriteStarted(w, "Job "+name+" triggered")
}
