package session

import (
	"testing"
	"time"

	"github.com/chatgate/chatgate/internal/auth/models"
	"github.com/chatgate/chatgate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = &models.UserInfo{
	ID:    "sub-123",
	Email: "user@example.com",
	Name:  "Test User",
}

func TestIssueAndParse(t *testing.T) {
	mgr := NewManager(&config.SessionConfig{Secret: "test-secret", TTL: time.Hour})

	credential, err := mgr.Issue(testUser)
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	claims, err := mgr.Parse(credential)
	require.NoError(t, err)
	assert.Equal(t, "sub-123", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "Test User", claims.Name)
	assert.NotEmpty(t, claims.ID)
}

func TestParseExpired(t *testing.T) {
	mgr := NewManager(&config.SessionConfig{Secret: "test-secret", TTL: time.Millisecond})

	credential, err := mgr.Issue(testUser)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = mgr.Parse(credential)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseRejectsGarbage(t *testing.T) {
	mgr := NewManager(&config.SessionConfig{Secret: "test-secret", TTL: time.Hour})

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := mgr.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewManager(&config.SessionConfig{Secret: "secret-a", TTL: time.Hour})
	verifier := NewManager(&config.SessionConfig{Secret: "secret-b", TTL: time.Hour})

	credential, err := issuer.Issue(testUser)
	require.NoError(t, err)

	_, err = verifier.Parse(credential)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestGeneratedSecret(t *testing.T) {
	// No configured secret: each manager gets its own
	a := NewManager(&config.SessionConfig{TTL: time.Hour})
	b := NewManager(&config.SessionConfig{TTL: time.Hour})

	credential, err := a.Issue(testUser)
	require.NoError(t, err)

	_, err = a.Parse(credential)
	assert.NoError(t, err)
	_, err = b.Parse(credential)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
