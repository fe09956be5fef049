package auth

import (
	"fmt"
	"net/http"

	"github.com/chatgate/chatgate/internal/auth/constants"
	"github.com/chatgate/chatgate/internal/auth/handlers"
	"github.com/chatgate/chatgate/internal/auth/middleware"
	"github.com/chatgate/chatgate/internal/auth/providers"
	"github.com/chatgate/chatgate/internal/auth/session"
	"github.com/chatgate/chatgate/internal/auth/tokenshelf"
	"github.com/chatgate/chatgate/internal/config"
	"go.uber.org/fx"
)

// Service represents the login service
type Service struct {
	config       *config.ServerConfig
	authProvider providers.Provider
	sessions     *session.Manager
	shelf        *tokenshelf.Shelf
	handler      *handlers.Handler
}

// NewService creates a new login service
func NewService(cfg *config.Config, provider providers.Provider, sessions *session.Manager, shelf *tokenshelf.Shelf) (*Service, error) {
	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		port := cfg.Server.Port
		if port == 0 {
			port = constants.DefaultPort
		}
		baseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, port)
	}

	handler := handlers.NewHandler(baseURL, provider, sessions, shelf)

	return &Service{
		config:       &cfg.Server,
		authProvider: provider,
		sessions:     sessions,
		shelf:        shelf,
		handler:      handler,
	}, nil
}

// RegisterRoutes registers all login-related routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/google", s.handler.HandleLogin)
	mux.HandleFunc("/auth/google/callback", s.handler.HandleCallback)
	mux.Handle("/auth/status", s.Authenticate()(http.HandlerFunc(s.handler.HandleStatus)))
}

// WrapWithCORS wraps the mux with the CORS middleware
func (s *Service) WrapWithCORS(handler http.Handler) http.Handler {
	return middleware.CORSWithOrigins(s.config.AllowOrigins)(handler)
}

// Authenticate returns the session authentication middleware
func (s *Service) Authenticate() func(http.Handler) http.Handler {
	return middleware.Authenticate(s.sessions)
}

// Shelf returns the server-side Google token shelf
func (s *Service) Shelf() *tokenshelf.Shelf {
	return s.shelf
}

// GetProvider returns the configured auth provider
func (s *Service) GetProvider() providers.Provider {
	return s.authProvider
}

// Module provides the login service dependencies
var Module = fx.Module("auth",
	fx.Provide(
		func(cfg *config.Config) *config.GoogleConfig { return &cfg.Google },
		func(cfg *config.Config) *config.SessionConfig { return &cfg.Session },
		fx.Annotate(
			providers.NewGoogleProvider,
			fx.As(new(providers.Provider)),
		),
		session.NewManager,
		tokenshelf.New,
		NewService,
	),
)
