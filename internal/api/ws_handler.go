package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/phrazzld/sift-api/internal/api/shared"
	"github.com/phrazzld/sift-api/internal/ws"
)

// Subscriptions is the registry surface the websocket handler needs.
type Subscriptions interface {
	Subscribe(requestID string, conn ws.Conn)
	Unsubscribe(requestID string, conn ws.Conn)
}

// WebSocketHandler upgrades connections and ties their lifetime to a
// request subscription.
type WebSocketHandler struct {
	registry Subscriptions
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler. Cross-origin
// upgrades are allowed; the request ID in the path is the only access
// control, matching the submission response that disclosed it.
func NewWebSocketHandler(registry Subscriptions, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With("component", "ws_handler"),
	}
}

// Subscribe handles GET /ws/{request_id} requests. The connection stays
// subscribed until the peer closes it or the read loop fails.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "request_id")
	if requestID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing request_id")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Warn("websocket upgrade failed", "request_id", requestID, "error", err)
		return
	}

	h.registry.Subscribe(requestID, conn)
	defer func() {
		h.registry.Unsubscribe(requestID, conn)
		_ = conn.Close()
	}()

	// Inbound messages are ignored; the read loop exists to detect the
	// peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket closed unexpectedly", "request_id", requestID, "error", err)
			}
			return
		}
	}
}
