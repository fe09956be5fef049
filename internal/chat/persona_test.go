package chat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectIntent(t *testing.T) {
	persona := DefaultPersona()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "gmail keyword", message: "Summarize my latest email", want: "gmail"},
		{name: "gmail case insensitive", message: "Check my GMAIL inbox", want: "gmail"},
		{name: "calendar keyword", message: "What meetings do I have today?", want: "calendar"},
		{name: "drive keyword", message: "Find the budget document", want: "drive"},
		{name: "no match", message: "Tell me a joke", want: ""},
		{name: "first rule wins", message: "email me the meeting notes", want: "gmail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, persona.DetectIntent(tt.message))
		})
	}
}

func TestLoadPersonaDefaults(t *testing.T) {
	persona, err := LoadPersona("")
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultPersona(), persona); diff != "" {
		t.Errorf("persona mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPersonaMissingFileKeepsDefaults(t *testing.T) {
	persona, err := LoadPersona(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPersona().SystemPrompt, persona.SystemPrompt)
}

func TestLoadPersonaOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	content := `
system_prompt: You are a terse assistant.
max_tokens: 128
intents:
  - name: support
    keywords: [refund, invoice]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	persona, err := LoadPersona(path)
	require.NoError(t, err)

	assert.Equal(t, "You are a terse assistant.", persona.SystemPrompt)
	assert.Equal(t, 128, persona.MaxTokens)
	assert.Equal(t, "support", persona.DetectIntent("I need a refund"))
	assert.Equal(t, "", persona.DetectIntent("check my email"), "overlay replaces the intent rules")
}

func TestLoadPersonaRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte("system_prompt: [unclosed"), 0o600))

	_, err := LoadPersona(path)
	assert.Error(t, err)
}
