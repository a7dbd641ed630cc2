package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// RecapHandler handles HTTP requests for on-demand recap generation
type RecapHandler struct {
	recapService interfaces.RecapService
	logger       arbor.ILogger
}

// NewRecapHandler creates a new RecapHandler
func NewRecapHandler(recapService interfaces.RecapService, logger arbor.ILogger) *RecapHandler {
	return &RecapHandler{
		recapService: recapService,
		logger:       logger,
	}
}

// GenerateRecapHandler handles POST /api/leagues/{id}/recap. With
// publish=false the recap text comes back in the response for preview; with
// publish=true generation and delivery run in the background and the caller
// gets a started acknowledgement.
func (h *RecapHandler) GenerateRecapHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	id := extractIDFromPath(r.URL.Path, "/api/leagues/")
	id = strings.TrimSuffix(id, "/recap")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "League ID is required")
		return
	}

	var req interfaces.RecapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode request body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Type == "" {
		req.Type = interfaces.RecapTypePowerRankings
	}
	if req.Type != interfaces.RecapTypePowerRankings && req.Type != interfaces.RecapTypeWaiver {
		WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid recap type '%s': must be 'power_rankings' or 'waiver'", req.Type))
		return
	}

	if req.Publish {
		common.SafeGo(h.logger, "recapPublish", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := h.recapService.GenerateRecap(ctx, id, req); err != nil {
				h.logger.Error().Err(err).
					Str("league_id", id).
					Str("recap_type", string(req.Type)).
					Msg("Background recap failed")
			}
		})

		if req.Type == interfaces.RecapTypeWaiver {
			WriteStarted(w, "Waiver recap started")
		} else {
			WriteStarted(w, "Power rankings recap started")
		}
		return
	}

	text, err := h.recapService.GenerateRecap(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "League not found")
			return
		}
		h.logger.Error().Err(err).
			Str("league_id", id).
			Str("recap_type", string(req.Type)).
			Msg("Failed to generate recap")
		WriteError(w, http.StatusInternalServerError, "Failed to generate recap")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"league_id": id,
		"type":      string(req.Type),
		"text":      text,
	})
}
