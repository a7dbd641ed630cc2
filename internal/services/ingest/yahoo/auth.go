package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
)

const (
	// TokenKey is the key/value store entry holding the OAuth token JSON.
	TokenKey = "yahoo_oauth_token"

	authURL  = "https://api.login.yahoo.com/oauth2/request_auth"
	tokenURL = "https://api.login.yahoo.com/oauth2/get_token"
)

// ErrNoToken is returned when the OAuth flow has never been completed.
var ErrNoToken = errors.New("no Yahoo token stored, complete the OAuth flow first")

// OAuthConfig builds the oauth2 configuration for the Yahoo Fantasy API.
func OAuthConfig(cfg *common.YahooConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"fspt-r"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}

// TokenStore persists OAuth tokens in the key/value store so refreshed
// tokens survive restarts.
type TokenStore struct {
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger
}

// NewTokenStore creates a token store backed by the key/value storage.
func NewTokenStore(kv interfaces.KeyValueStorage, logger arbor.ILogger) *TokenStore {
	return &TokenStore{
		kv:     kv,
		logger: logger,
	}
}

// Load retrieves the stored token. Returns ErrNoToken when the OAuth flow
// has never been completed.
func (s *TokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	raw, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read stored Yahoo token: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("failed to decode stored Yahoo token: %w", err)
	}
	return &tok, nil
}

// Save stores the token as JSON.
func (s *TokenStore) Save(ctx context.Context, tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode Yahoo token: %w", err)
	}
	if err := s.kv.Set(ctx, TokenKey, string(raw), "Yahoo Fantasy OAuth token"); err != nil {
		return fmt.Errorf("failed to store Yahoo token: %w", err)
	}
	return nil
}

// Exchange trades an authorization code for a token and persists it.
func (s *TokenStore) Exchange(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange Yahoo authorization code: %w", err)
	}
	if err := s.Save(ctx, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// TokenSource returns a token source that refreshes expired tokens through
// the OAuth endpoint and writes every refreshed token back to the store.
func (s *TokenStore) TokenSource(ctx context.Context, cfg *oauth2.Config) (oauth2.TokenSource, error) {
	tok, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &persistingSource{
		ctx:   ctx,
		src:   cfg.TokenSource(ctx, tok),
		store: s,
		last:  tok,
	}, nil
}

// persistingSource wraps a refreshing token source and saves tokens the
// upstream source mints.
type persistingSource struct {
	ctx   context.Context
	src   oauth2.TokenSource
	store *TokenStore

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		if err := s.store.Save(s.ctx, tok); err != nil {
			if s.store.logger != nil {
				s.store.logger.Warn().Err(err).Msg("Failed to persist refreshed Yahoo token")
			}
		}
		s.last = tok
	}
	return tok, nil
}
