package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chatgate/chatgate/internal/auth/models"
	"github.com/chatgate/chatgate/internal/auth/session"
	"github.com/chatgate/chatgate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(&config.SessionConfig{Secret: "test-secret", TTL: time.Hour})
}

func TestAuthenticateMissingCredential(t *testing.T) {
	sessions := newTestSessions(t)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	Authenticate(sessions)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "handler must not run without a credential")
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "unauthenticated")
	assert.Contains(t, rec.Body.String(), "unauthenticated")
}

func TestAuthenticateInvalidCredential(t *testing.T) {
	sessions := newTestSessions(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid credential")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	Authenticate(sessions)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateValidCredential(t *testing.T) {
	sessions := newTestSessions(t)
	credential, err := sessions.Issue(&models.UserInfo{ID: "sub-1", Email: "a@b.c", Name: "A"})
	require.NoError(t, err)

	var got *AuthInfo
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := FromContext(r.Context())
		require.True(t, ok)
		got = info
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Authorization", "Bearer "+credential)
	Authenticate(sessions)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "sub-1", got.UserID)
	assert.Equal(t, "a@b.c", got.Email)
}

func TestCORSWithOrigins(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		wantHeader string
		wantCred   string
	}{
		{
			name:       "no allow list falls back to wildcard",
			allowed:    nil,
			origin:     "https://anywhere.example",
			wantHeader: "*",
		},
		{
			name:       "allowed origin echoed",
			allowed:    []string{"http://localhost:3000"},
			origin:     "http://localhost:3000",
			wantHeader: "http://localhost:3000",
			wantCred:   "true",
		},
		{
			name:       "unknown origin not echoed",
			allowed:    []string{"http://localhost:3000"},
			origin:     "https://evil.example",
			wantHeader: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			CORSWithOrigins(tt.allowed)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantHeader, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCred, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	CORSWithOrigins(nil)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
