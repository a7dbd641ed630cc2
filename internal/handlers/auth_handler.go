package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/services/ingest/yahoo"
)

// stateTTL bounds how long an issued OAuth state stays valid.
const stateTTL = 10 * time.Minute

// AuthHandler handles the Yahoo OAuth flow. The service holds a single
// Yahoo connection; completing the flow again replaces the stored token.
type AuthHandler struct {
	cfg      *common.YahooConfig
	oauthCfg *oauth2.Config
	tokens   *yahoo.TokenStore
	logger   arbor.ILogger

	mu          sync.Mutex
	state       string
	stateIssued time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *common.YahooConfig, tokens *yahoo.TokenStore, logger arbor.ILogger) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		oauthCfg: yahoo.OAuthConfig(cfg),
		tokens:   tokens,
		logger:   logger,
	}
}

// YahooLoginHandler handles GET /api/auth/yahoo/login and redirects the
// browser to Yahoo's consent page.
func (h *AuthHandler) YahooLoginHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if h.cfg.ClientID == "" || h.cfg.ClientSecret == "" {
		WriteError(w, http.StatusNotImplemented, "Yahoo OAuth not configured")
		return
	}

	state, err := newOAuthState()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate OAuth state")
		WriteError(w, http.StatusInternalServerError, "Failed to start OAuth flow")
		return
	}

	h.mu.Lock()
	h.state = state
	h.stateIssued = time.Now()
	h.mu.Unlock()

	h.logger.Info().Msg("Starting Yahoo OAuth flow")
	http.Redirect(w, r, h.oauthCfg.AuthCodeURL(state), http.StatusFound)
}

// YahooCallbackHandler handles GET /api/auth/yahoo/callback. On success the
// exchanged token is persisted and every later Yahoo API call refreshes
// through it.
func (h *AuthHandler) YahooCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query()
	if oauthErr := query.Get("error"); oauthErr != "" {
		h.logger.Warn().Str("oauth_error", oauthErr).Msg("Yahoo OAuth flow denied")
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("OAuth error: %s", oauthErr))
		return
	}

	code := query.Get("code")
	if code == "" {
		WriteError(w, http.StatusBadRequest, "Authorization code is required")
		return
	}

	if !h.consumeState(query.Get("state")) {
		WriteError(w, http.StatusBadRequest, "Invalid or expired OAuth state")
		return
	}

	if _, err := h.tokens.Exchange(r.Context(), h.oauthCfg, code); err != nil {
		h.logger.Error().Err(err).Msg("Failed to exchange Yahoo authorization code")
		WriteError(w, http.StatusBadGateway, "Failed to exchange authorization code")
		return
	}

	h.logger.Info().Msg("Yahoo account connected")
	WriteSuccess(w, "Yahoo account connected")
}

// YahooStatusHandler handles GET /api/auth/yahoo and reports whether a
// token is stored.
func (h *AuthHandler) YahooStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	connected := true
	if _, err := h.tokens.Load(r.Context()); err != nil {
		if !errors.Is(err, yahoo.ErrNoToken) {
			h.logger.Error().Err(err).Msg("Failed to read stored Yahoo token")
			WriteError(w, http.StatusInternalServerError, "Failed to read token status")
			return
		}
		connected = false
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"connected": connected,
	})
}

// consumeState validates the callback state and clears it. Each issued
// state is good for one callback.
func (h *AuthHandler) consumeState(state string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if state == "" || h.state == "" || state != h.state {
		return false
	}
	if time.Since(h.stateIssued) > stateTTL {
		return false
	}
	h.state = ""
	return true
}

func newOAuthState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
