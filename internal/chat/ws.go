package chat

import (
	"errors"
	"net/http"
	"time"

	"github.com/chatgate/chatgate/internal/logger"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsReadLimit    = 64 * 1024
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// wsRequest is a chat turn sent over the socket
type wsRequest struct {
	Message string `json:"message"`
}

// wsChunk is one incremental piece of the reply
type wsChunk struct {
	Delta  string `json:"delta,omitempty"`
	Done   bool   `json:"done,omitempty"`
	Intent string `json:"intent,omitempty"`
	Error  string `json:"error,omitempty"`
}

// WSHandler streams chat replies over a WebSocket for clients that want
// incremental output instead of the whole reply at once.
type WSHandler struct {
	service  *Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *Service) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			// CORS is enforced at login time; the socket itself carries the
			// session credential.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleChat handles GET /chat/ws. Each text message from the client is one
// chat turn; the reply arrives as delta chunks followed by a done marker.
func (h *WSHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debug("Failed to close WebSocket", zap.Error(err))
		}
	}()

	conn.SetReadLimit(wsReadLimit)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		if req.Message == "" {
			if err := h.writeChunk(conn, wsChunk{Error: "message is required"}); err != nil {
				return
			}
			continue
		}

		err := h.service.Stream(r.Context(), req.Message, func(delta string) error {
			if delta == "" {
				return nil
			}
			return h.writeChunk(conn, wsChunk{Delta: delta})
		})
		if err != nil {
			logger.Error("Streamed chat turn failed", zap.Error(err))
			if err := h.writeChunk(conn, wsChunk{Error: streamErrorMessage(err)}); err != nil {
				return
			}
			continue
		}

		if err := h.writeChunk(conn, wsChunk{
			Done:   true,
			Intent: h.service.Persona().DetectIntent(req.Message),
		}); err != nil {
			return
		}
	}
}

func (h *WSHandler) writeChunk(conn *websocket.Conn, chunk wsChunk) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(chunk)
}

func streamErrorMessage(err error) string {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Message
	}
	return "inference endpoint unavailable"
}
