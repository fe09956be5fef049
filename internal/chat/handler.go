package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatgate/chatgate/internal/auth/middleware"
	"github.com/chatgate/chatgate/internal/logger"
	"github.com/chatgate/chatgate/internal/utils"
	"go.uber.org/zap"
)

// Request is a single chat turn from the frontend
type Request struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// Response wraps the relayed model output
type Response struct {
	Response string `json:"response"`
	Intent   string `json:"intent,omitempty"`
}

// Handler handles chat HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleChat handles POST /chat. The caller is already authenticated by the
// session middleware; the payload is forwarded with the server-held key.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		utils.WriteError(w, "invalid_request", "Message is required", http.StatusBadRequest)
		return
	}

	if info, ok := middleware.FromContext(r.Context()); ok {
		logger.Debug("Chat turn", zap.String("subject", info.UserID))
	}

	reply, err := h.service.Complete(r.Context(), req.Message)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	utils.WriteJSON(w, Response{
		Response: reply,
		Intent:   h.service.Persona().DetectIntent(req.Message),
	})
}

// writeUpstreamError maps a service error onto the wire. An UpstreamError
// propagates the upstream status; anything else is a 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		status := upstreamErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		utils.WriteError(w, "upstream_error", upstreamErr.Message, status)
		return
	}
	utils.WriteError(w, "upstream_unavailable", "Inference endpoint unavailable", http.StatusBadGateway)
}
