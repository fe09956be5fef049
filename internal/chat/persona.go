package chat

import (
	"os"
	"strings"

	"github.com/chatgate/chatgate/internal/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Persona controls the assistant's system prompt, sampling parameters and
// the keyword rules used to tag replies with an intent. It ships with
// defaults and can be overridden from a YAML file.
type Persona struct {
	SystemPrompt string       `yaml:"system_prompt"`
	MaxTokens    int          `yaml:"max_tokens"`
	Temperature  float32      `yaml:"temperature"`
	Intents      []IntentRule `yaml:"intents"`
}

// IntentRule tags a message with Name when any of its keywords appears
type IntentRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultPersona returns the built-in assistant persona
func DefaultPersona() *Persona {
	return &Persona{
		SystemPrompt: "You are a helpful assistant that can access Google services like Gmail, Calendar, and Drive. Analyze user requests and provide helpful responses.",
		MaxTokens:    500,
		Temperature:  0.7,
		Intents: []IntentRule{
			{Name: "gmail", Keywords: []string{"email", "mail", "gmail"}},
			{Name: "calendar", Keywords: []string{"calendar", "schedule", "meeting"}},
			{Name: "drive", Keywords: []string{"drive", "file", "document"}},
		},
	}
}

// LoadPersona returns the default persona overlaid with the YAML file at
// filePath. An empty path or a missing file keeps the defaults.
func LoadPersona(filePath string) (*Persona, error) {
	persona := DefaultPersona()

	if filePath == "" {
		logger.Info("No persona file provided")
		return persona, nil
	}

	logger.Info("Loading persona from file", zap.String("file", filePath))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		logger.Warn("Persona file not found, using defaults")
		return persona, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, persona); err != nil {
		return nil, err
	}

	return persona, nil
}

// DetectIntent returns the name of the first intent rule with a keyword
// present in the message, or "" when none matches. Matching is
// case-insensitive, first rule wins.
func (p *Persona) DetectIntent(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range p.Intents {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Name
			}
		}
	}
	return ""
}
