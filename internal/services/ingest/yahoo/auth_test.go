package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// fakeKV is an in-memory KeyValueStorage for token persistence tests.
type fakeKV struct {
	values map[string]string
	sets   int
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) GetPair(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	v, err := f.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &interfaces.KeyValuePair{Key: key, Value: v}, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value, description string) error {
	f.values[key] = value
	f.sets++
	return nil
}

func (f *fakeKV) Upsert(ctx context.Context, key, value, description string) (bool, error) {
	_, existed := f.values[key]
	f.values[key] = value
	f.sets++
	return !existed, nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	if _, ok := f.values[key]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(f.values, key)
	return nil
}

func (f *fakeKV) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	var out []interfaces.KeyValuePair
	for k, v := range f.values {
		out = append(out, interfaces.KeyValuePair{Key: k, Value: v})
	}
	return out, nil
}

func (f *fakeKV) GetAll(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out, nil
}

func (f *fakeKV) ListByPrefix(ctx context.Context, prefix string) ([]interfaces.KeyValuePair, error) {
	var out []interfaces.KeyValuePair
	for k, v := range f.values {
		if strings.HasPrefix(k, prefix) {
			out = append(out, interfaces.KeyValuePair{Key: k, Value: v})
		}
	}
	return out, nil
}

func TestOAuthConfig(t *testing.T) {
	cfg := OAuthConfig(&common.YahooConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "oob",
	})

	if cfg.ClientID != "client" || cfg.ClientSecret != "secret" {
		t.Errorf("credentials not carried over: %s/%s", cfg.ClientID, cfg.ClientSecret)
	}
	if cfg.Endpoint.AuthURL != authURL {
		t.Errorf("unexpected auth URL %s", cfg.Endpoint.AuthURL)
	}
	if cfg.Endpoint.TokenURL != tokenURL {
		t.Errorf("unexpected token URL %s", cfg.Endpoint.TokenURL)
	}
	if len(cfg.Scopes) != 1 || cfg.Scopes[0] != "fspt-r" {
		t.Errorf("expected fantasy read scope, got %v", cfg.Scopes)
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store := NewTokenStore(newFakeKV(), nil)
	ctx := context.Background()

	tok := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}
	if err := store.Save(ctx, tok); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
		t.Errorf("token fields not preserved: %+v", loaded)
	}
	if !loaded.Expiry.Equal(tok.Expiry) {
		t.Errorf("expected expiry %v, got %v", tok.Expiry, loaded.Expiry)
	}
}

func TestTokenStoreLoadMissing(t *testing.T) {
	store := NewTokenStore(newFakeKV(), nil)

	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestTokenStoreLoadCorrupt(t *testing.T) {
	kv := newFakeKV()
	kv.values[TokenKey] = "not json"
	store := NewTokenStore(kv, nil)

	if _, err := store.Load(context.Background()); err == nil {
		t.Error("expected error for corrupt token")
	}
}

type staticSource struct {
	tok *oauth2.Token
}

func (s *staticSource) Token() (*oauth2.Token, error) {
	return s.tok, nil
}

func TestPersistingSourceSavesNewTokens(t *testing.T) {
	kv := newFakeKV()
	store := NewTokenStore(kv, nil)
	upstream := &staticSource{tok: &oauth2.Token{AccessToken: "first"}}
	src := &persistingSource{ctx: context.Background(), src: upstream, store: store}

	if _, err := src.Token(); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if kv.sets != 1 {
		t.Fatalf("expected first token to be saved, got %d writes", kv.sets)
	}

	// Same token again does not rewrite
	if _, err := src.Token(); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if kv.sets != 1 {
		t.Errorf("expected no rewrite for unchanged token, got %d writes", kv.sets)
	}

	upstream.tok = &oauth2.Token{AccessToken: "second"}
	if _, err := src.Token(); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if kv.sets != 2 {
		t.Errorf("expected refreshed token to be saved, got %d writes", kv.sets)
	}
	if !strings.Contains(kv.values[TokenKey], "second") {
		t.Errorf("stored token not updated: %s", kv.values[TokenKey])
	}
}

func TestTokenSourceRefreshesExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh","refresh_token":"r2","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	kv := newFakeKV()
	store := NewTokenStore(kv, nil)
	ctx := context.Background()

	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(-time.Hour),
	}
	if err := store.Save(ctx, expired); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: srv.URL + "/token"},
	}
	src, err := store.TokenSource(ctx, cfg)
	if err != nil {
		t.Fatalf("TokenSource failed: %v", err)
	}

	tok, err := src.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken != "fresh" {
		t.Errorf("expected refreshed access token, got %s", tok.AccessToken)
	}
	if !strings.Contains(kv.values[TokenKey], "fresh") {
		t.Errorf("refreshed token not persisted: %s", kv.values[TokenKey])
	}
}

func TestTokenSourceWithoutStoredToken(t *testing.T) {
	store := NewTokenStore(newFakeKV(), nil)

	_, err := store.TokenSource(context.Background(), &oauth2.Config{})
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}
