package constants

const (
	// DefaultPort is the default port for the server
	DefaultPort = 8000

	// TokenType for Bearer authentication
	TokenType = "Bearer"

	// AuthHeaderName is the name of the Authorization header
	AuthHeaderName = "Authorization"

	// AuthHeaderPrefix is the prefix for the Authorization header value
	AuthHeaderPrefix = "Bearer "

	// TokenQueryParam is the query parameter name for token
	TokenQueryParam = "token"

	// CallbackPath is appended to the base URL to form the registered
	// redirect URI when the frontend does not supply one
	CallbackPath = "/auth/google/callback"
)

// DefaultScopes are requested from Google when the configuration does not
// override them. The read-only Workspace scopes back the /google/* routes.
var DefaultScopes = []string{
	"openid",
	"profile",
	"email",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/drive.readonly",
}

// GoogleServices are the Workspace services reachable once a user has
// connected their account
var GoogleServices = []string{"gmail", "calendar", "drive"}
