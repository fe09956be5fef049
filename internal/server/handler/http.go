// Package handler assembles the HTTP surface of the gateway.
package handler

import (
	"net/http"

	"github.com/chatgate/chatgate/internal/auth"
	"github.com/chatgate/chatgate/internal/chat"
	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/google"
	"github.com/chatgate/chatgate/internal/logger"
	"github.com/chatgate/chatgate/internal/utils"
)

// Handler manages HTTP request routing and the middleware stack.
type Handler struct {
	auth   *auth.Service
	chat   *chat.Handler
	chatWS *chat.WSHandler
	google *google.Handler
}

// NewHandler creates a new HTTP handler
func NewHandler(auth *auth.Service, chatHandler *chat.Handler, chatWS *chat.WSHandler, googleHandler *google.Handler) *Handler {
	return &Handler{
		auth:   auth,
		chat:   chatHandler,
		chatWS: chatWS,
		google: googleHandler,
	}
}

// CreateHTTPHandler builds the full route table. Login routes are public;
// everything that spends the upstream API key or touches Google tokens sits
// behind the session middleware.
func (h *Handler) CreateHTTPHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/healthz", h.handleHealth)

	h.auth.RegisterRoutes(mux)
	logger.Info("Registered login routes")

	authenticate := h.auth.Authenticate()
	mux.Handle("/chat", authenticate(http.HandlerFunc(h.chat.HandleChat)))
	mux.Handle("/chat/ws", authenticate(http.HandlerFunc(h.chatWS.HandleChat)))
	mux.Handle("/google/gmail", authenticate(http.HandlerFunc(h.google.HandleGmail)))
	logger.Info("Enabled authentication for proxy routes")

	return h.auth.WrapWithCORS(mux)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	utils.WriteJSON(w, map[string]string{
		"message": "chatgate is running",
		"version": config.GetVersionInfo(),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]interface{}{
		"status":   "healthy",
		"services": []string{"cerebras", "google-oauth"},
	})
}
