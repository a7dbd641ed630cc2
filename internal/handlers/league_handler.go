package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// LeagueHandler handles HTTP requests for league management
type LeagueHandler struct {
	storage     interfaces.StorageManager
	syncService interfaces.SyncService
	logger      arbor.ILogger
}

// NewLeagueHandler creates a new LeagueHandler
func NewLeagueHandler(storage interfaces.StorageManager, syncService interfaces.SyncService, logger arbor.ILogger) *LeagueHandler {
	return &LeagueHandler{
		storage:     storage,
		syncService: syncService,
		logger:      logger,
	}
}

// RegisterLeagueRequest is the body for POST /api/leagues
type RegisterLeagueRequest struct {
	Platform   string `json:"platform"`
	ExternalID string `json:"external_id"`
}

// ListLeaguesHandler handles GET /api/leagues
func (h *LeagueHandler) ListLeaguesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	leagues, err := h.storage.LeagueStorage().ListLeagues(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list leagues")
		WriteError(w, http.StatusInternalServerError, "Failed to list leagues")
		return
	}

	if leagues == nil {
		leagues = []*models.League{}
	}

	WriteJSON(w, http.StatusOK, leagues)
}

// RegisterLeagueHandler handles POST /api/leagues. Registration fetches the
// league from its platform, stores it, and runs the initial sync before
// responding, so a successful response means the league is queryable.
func (h *LeagueHandler) RegisterLeagueHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req RegisterLeagueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode request body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	league, err := h.syncService.RegisterLeague(r.Context(), models.Platform(req.Platform), req.ExternalID)
	if err != nil {
		h.logger.Error().Err(err).
			Str("platform", req.Platform).
			Str("external_id", req.ExternalID).
			Msg("Failed to register league")
		switch {
		case strings.Contains(err.Error(), "invalid platform"),
			strings.Contains(err.Error(), "required"):
			WriteError(w, http.StatusBadRequest, err.Error())
		case strings.Contains(err.Error(), "failed to fetch league"):
			WriteError(w, http.StatusBadGateway, err.Error())
		default:
			WriteError(w, http.StatusInternalServerError, "Failed to register league")
		}
		return
	}

	WriteJSON(w, http.StatusCreated, league)
}

// GetLeagueHandler handles GET /api/leagues/{id}
func (h *LeagueHandler) GetLeagueHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := extractIDFromPath(r.URL.Path, "/api/leagues/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "League ID is required")
		return
	}

	league, err := h.storage.LeagueStorage().GetLeague(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "League not found")
			return
		}
		h.logger.Error().Err(err).Str("league_id", id).Msg("Failed to get league")
		WriteError(w, http.StatusInternalServerError, "Failed to get league")
		return
	}

	WriteJSON(w, http.StatusOK, league)
}

// DeleteLeagueHandler handles DELETE /api/leagues/{id}. Rosters, matchups,
// and transactions for the league are removed with it; stored summaries age
// out through retention cleanup.
func (h *LeagueHandler) DeleteLeagueHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	id := extractIDFromPath(r.URL.Path, "/api/leagues/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "League ID is required")
		return
	}

	ctx := r.Context()
	if _, err := h.storage.LeagueStorage().GetLeague(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "League not found")
			return
		}
		h.logger.Error().Err(err).Str("league_id", id).Msg("Failed to load league for deletion")
		WriteError(w, http.StatusInternalServerError, "Failed to delete league")
		return
	}

	if err := h.storage.RosterStorage().DeleteRostersByLeague(ctx, id); err != nil {
		h.logger.Warn().Err(err).Str("league_id", id).Msg("Failed to delete league rosters")
	}
	if err := h.storage.MatchupStorage().DeleteMatchupsByLeague(ctx, id); err != nil {
		h.logger.Warn().Err(err).Str("league_id", id).Msg("Failed to delete league matchups")
	}
	if err := h.storage.TransactionStorage().DeleteTransactionsByLeague(ctx, id); err != nil {
		h.logger.Warn().Err(err).Str("league_id", id).Msg("Failed to delete league transactions")
	}

	if err := h.storage.LeagueStorage().DeleteLeague(ctx, id); err != nil {
		h.logger.Error().Err(err).Str("league_id", id).Msg("Failed to delete league")
		WriteError(w, http.StatusInternalServerError, "Failed to delete league")
		return
	}

	h.logger.Info().Str("league_id", id).Msg("League deleted")
	WriteSuccess(w, "League deleted successfully")
}

// SyncLeagueHandler handles POST /api/leagues/{id}/sync. The sync runs in
// the background; progress is visible through sync events on the WebSocket.
func (h *LeagueHandler) SyncLeagueHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	id := extractIDFromPath(r.URL.Path, "/api/leagues/")
	id = strings.TrimSuffix(id, "/sync")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "League ID is required")
		return
	}

	if _, err := h.storage.LeagueStorage().GetLeague(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "League not found")
			return
		}
		h.logger.Error().Err(err).Str("league_id", id).Msg("Failed to load league for sync")
		WriteError(w, http.StatusInternalServerError, "Failed to start sync")
		return
	}

	common.SafeGo(h.logger, "leagueSync", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := h.syncService.SyncLeague(ctx, id); err != nil {
			h.logger.Error().Err(err).Str("league_id", id).Msg("Background league sync failed")
		}
	})

	WriteStarted(w, "League sync started")
}
