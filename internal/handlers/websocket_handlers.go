package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

type WebSocketHandler struct {
	logger        *slog.Logger
	alertsManager *AlertsManager
}

func NewWebSocketHandler(logger *slog.Logger, alertsManager *AlertsManager) *WebSocketHandler {
	return &WebSocketHandler{
		logger:        logger,
		alertsManager: alertsManager,
	}
}

func (h *WebSocketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/alerts", h.HandleConnection)
}

// HandleConnection subscribes the client to the fraud alert feed and keeps
// the connection open until the peer goes away.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.alertsManager.Upgrade(w, r)
	if err != nil {
		h.logger.Error("Error upgrading connection", "error", err)
		return
	}

	h.logger.Info("New fraud alert subscriber", "remote", conn.RemoteAddr())
	h.alertsManager.AddSubscriber(conn)

	for {
		if _, _, readErr := conn.ReadMessage(); readErr != nil {
			h.logger.Info("Fraud alert subscriber disconnected", "remote", conn.RemoteAddr(), "error", readErr)
			h.alertsManager.RemoveSubscriber(conn)
			conn.Close()
			break
		}
	}
}
