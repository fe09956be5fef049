package chat

import (
	"github.com/chatgate/chatgate/internal/config"
	"go.uber.org/fx"
)

// Module provides the chat proxy dependencies
var Module = fx.Module("chat",
	fx.Provide(
		func(cfg *config.Config) *config.CerebrasConfig { return &cfg.Cerebras },
		func(cfg *config.Config) (*Persona, error) { return LoadPersona(cfg.PersonaFile) },
		NewService,
		NewHandler,
		NewWSHandler,
	),
)
