package google

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/chatgate/chatgate/internal/auth/middleware"
	"github.com/chatgate/chatgate/internal/logger"
	"github.com/chatgate/chatgate/internal/utils"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultListLimit = 10

// Handler handles the Workspace HTTP routes
type Handler struct {
	gmail *GmailService
}

func NewHandler(gmail *GmailService) *Handler {
	return &Handler{gmail: gmail}
}

// HandleGmail handles GET /google/gmail. It lists recent message headers
// for the authenticated caller.
func (h *Handler) HandleGmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	info, ok := middleware.FromContext(r.Context())
	if !ok {
		utils.WriteError(w, "unauthenticated", "Authentication required", http.StatusUnauthorized)
		return
	}

	limit := int64(defaultListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			utils.WriteError(w, "invalid_request", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	emails, err := h.gmail.RecentMessages(r.Context(), info.UserID, limit)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			utils.WriteError(w, "unauthenticated", "Google account not connected", http.StatusUnauthorized)
			return
		}
		logger.Error("Gmail listing failed", zap.Error(err))
		utils.WriteError(w, "upstream_error", "Gmail access failed", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{"emails": emails})
}

// Module provides the Workspace route dependencies
var Module = fx.Module("google",
	fx.Provide(
		NewGmailService,
		NewHandler,
	),
)
