package providers

import (
	"context"

	"github.com/chatgate/chatgate/internal/auth/models"
	"golang.org/x/oauth2"
)

// Provider defines the interface an identity provider must implement
type Provider interface {
	// GetAuthURL returns the authorization URL the frontend redirects the
	// user to. The redirect URI is passed through so loop-back and
	// preview-deployment flows keep working.
	GetAuthURL(state, redirectURI string) string

	// ExchangeCode exchanges an authorization code for tokens
	ExchangeCode(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)

	// ValidateToken validates the token response and returns the verified
	// identity it carries
	ValidateToken(ctx context.Context, token *oauth2.Token) (*models.UserInfo, error)
}
