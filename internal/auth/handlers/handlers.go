package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatgate/chatgate/internal/auth/constants"
	"github.com/chatgate/chatgate/internal/auth/middleware"
	"github.com/chatgate/chatgate/internal/auth/providers"
	"github.com/chatgate/chatgate/internal/auth/session"
	"github.com/chatgate/chatgate/internal/auth/tokenshelf"
	"github.com/chatgate/chatgate/internal/logger"
	"github.com/chatgate/chatgate/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Handler handles the login-flow HTTP requests
type Handler struct {
	baseURL      string
	authProvider providers.Provider
	sessions     *session.Manager
	shelf        *tokenshelf.Shelf
}

// NewHandler creates a new Handler instance
func NewHandler(baseURL string, provider providers.Provider, sessions *session.Manager, shelf *tokenshelf.Shelf) *Handler {
	return &Handler{
		baseURL:      baseURL,
		authProvider: provider,
		sessions:     sessions,
		shelf:        shelf,
	}
}

// HandleLogin handles GET /auth/google. It returns the Google consent URL
// the frontend should redirect the user to.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	redirectURI := r.URL.Query().Get("redirect_uri")
	if redirectURI == "" {
		redirectURI = h.baseURL + constants.CallbackPath
	}

	authURL := h.authProvider.GetAuthURL(uuid.NewString(), redirectURI)
	utils.WriteJSON(w, map[string]string{"auth_url": authURL})
}

// HandleCallback handles POST /auth/google/callback. The frontend posts the
// authorization code it received from Google together with the redirect URI
// it used; a successful exchange returns the session credential.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		utils.WriteError(w, "invalid_request", "Code is required", http.StatusBadRequest)
		return
	}
	if req.RedirectURI == "" {
		req.RedirectURI = h.baseURL + constants.CallbackPath
	}

	token, err := h.authProvider.ExchangeCode(r.Context(), req.Code, req.RedirectURI)
	if err != nil {
		logger.Error("Failed to exchange code", zap.Error(err))
		status, code := classifyExchangeError(err)
		utils.WriteError(w, code, "Authorization code exchange failed", status)
		return
	}

	user, err := h.authProvider.ValidateToken(r.Context(), token)
	if err != nil {
		logger.Error("Failed to validate token", zap.Error(err))
		utils.WriteError(w, "auth_exchange_error", "Identity validation failed", http.StatusBadRequest)
		return
	}

	credential, err := h.sessions.Issue(user)
	if err != nil {
		logger.Error("Failed to issue session credential", zap.Error(err))
		utils.WriteError(w, "internal_error", "Failed to issue credential", http.StatusInternalServerError)
		return
	}

	// The Google tokens stay server-side for the Workspace routes.
	h.shelf.Put(user.ID, token)

	logger.Info("User logged in", zap.String("subject", user.ID))

	utils.WriteJSON(w, map[string]interface{}{
		"credential": credential,
		"user":       user,
	})
}

// HandleStatus handles GET /auth/status. It reports whether the caller's
// session still has Google tokens attached.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	info, ok := middleware.FromContext(r.Context())
	if !ok {
		utils.WriteError(w, "unauthenticated", "Authentication required", http.StatusUnauthorized)
		return
	}

	connected := h.shelf.Has(info.UserID)
	services := []string{}
	if connected {
		services = constants.GoogleServices
	}

	utils.WriteJSON(w, map[string]interface{}{
		"connected": connected,
		"services":  services,
	})
}

// classifyExchangeError separates "Google rejected the code" from "Google is
// unreachable or broken". A rejected code is the caller's problem and is
// never retried.
func classifyExchangeError(err error) (int, string) {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= http.StatusInternalServerError {
			return http.StatusBadGateway, "upstream_unavailable"
		}
		return http.StatusBadRequest, "auth_exchange_error"
	}
	return http.StatusBadGateway, "upstream_unavailable"
}
