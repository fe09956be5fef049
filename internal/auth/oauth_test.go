package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chatgate/chatgate/internal/auth/models"
	"github.com/chatgate/chatgate/internal/auth/session"
	"github.com/chatgate/chatgate/internal/auth/tokenshelf"
	"github.com/chatgate/chatgate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// mockProvider implements providers.Provider for testing
type mockProvider struct{}

func (m *mockProvider) GetAuthURL(state, redirectURI string) string {
	return "mock-url"
}

func (m *mockProvider) ExchangeCode(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	return &oauth2.Token{}, nil
}

func (m *mockProvider) ValidateToken(ctx context.Context, token *oauth2.Token) (*models.UserInfo, error) {
	return &models.UserInfo{}, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "localhost", Port: 8080},
		Session: config.SessionConfig{Secret: "test-secret", TTL: time.Hour},
	}
	sessions := session.NewManager(&cfg.Session)
	service, err := NewService(cfg, &mockProvider{}, sessions, tokenshelf.New())
	require.NoError(t, err)
	return service
}

func TestNewService(t *testing.T) {
	service := newTestService(t)
	assert.NotNil(t, service.handler)
	assert.NotNil(t, service.GetProvider())
	assert.NotNil(t, service.Shelf())
}

func TestRegisterRoutes(t *testing.T) {
	service := newTestService(t)
	mux := http.NewServeMux()
	service.RegisterRoutes(mux)

	routes := []string{
		"/auth/google",
		"/auth/google/callback",
		"/auth/status",
	}
	for _, route := range routes {
		r, _ := http.NewRequest("GET", route, nil)
		h, pattern := mux.Handler(r)
		if pattern == "" || h == nil {
			t.Errorf("route %s not registered", route)
		}
	}
}

func TestStatusRouteRequiresSession(t *testing.T) {
	service := newTestService(t)
	mux := http.NewServeMux()
	service.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrapWithCORS(t *testing.T) {
	service := newTestService(t)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	})
	wrapped := service.WrapWithCORS(h)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	wrapped.ServeHTTP(rec, req)
	if rec.Code != 204 {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
}
