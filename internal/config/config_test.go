package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "test-client-secret")
	t.Setenv("CEREBRAS_API_KEY", "test-api-key")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-client-id", cfg.Google.ClientID)
	assert.Equal(t, "test-client-secret", cfg.Google.ClientSecret)
	assert.Equal(t, "test-api-key", cfg.Cerebras.APIKey)

	// Defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "https://api.cerebras.ai/v1", cfg.Cerebras.BaseURL)
	assert.Equal(t, "llama3.1-8b", cfg.Cerebras.Model)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestLoadMissingSecrets(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{name: "missing client id", omit: "GOOGLE_CLIENT_ID"},
		{name: "missing client secret", omit: "GOOGLE_CLIENT_SECRET"},
		{name: "missing api key", omit: "CEREBRAS_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.omit, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.omit)
		})
	}
}

func TestLoadPortFromPlatformEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadPrefixedOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHATGATE_CEREBRAS_MODEL", "llama3.1-70b")
	t.Setenv("CHATGATE_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "llama3.1-70b", cfg.Cerebras.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
