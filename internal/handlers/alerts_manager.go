package handlers

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/finbridge/paybridge/internal/entities"
)

// alertSubscriber pairs a connection with the mutex that serializes its
// writes; gorilla/websocket forbids concurrent writers on one connection.
type alertSubscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *alertSubscriber) writeJSON(payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(payload)
}

// AlertsManager upgrades connections and fans flagged transform results
// out to every subscribed client. A client that cannot keep up is dropped
// rather than allowed to block the broadcast.
type AlertsManager struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[*websocket.Conn]*alertSubscriber
}

func NewAlertsManager(logger *slog.Logger) *AlertsManager {
	return &AlertsManager{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subscribers: make(map[*websocket.Conn]*alertSubscriber),
	}
}

func (m *AlertsManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return m.upgrader.Upgrade(w, r, nil)
}

func (m *AlertsManager) AddSubscriber(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers[conn] = &alertSubscriber{conn: conn}
}

func (m *AlertsManager) RemoveSubscriber(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, conn)
}

// SubscriberCount reports how many clients are connected.
func (m *AlertsManager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}

// PublishAlert sends a flagged result to every subscriber. Safe to call
// from any number of request goroutines at once: each connection's writes
// go through its own mutex. Results that are not flagged are ignored so
// the channel stays an alert feed.
func (m *AlertsManager) PublishAlert(result *entities.TransformResult) {
	if result == nil || !result.Fraud.Flagged {
		return
	}

	payload := map[string]any{
		"type":           "fraud_alert",
		"transaction_id": result.Transaction.TransactionID,
		"source_format":  result.Transaction.SourceFormat,
		"amount":         result.Transaction.Amount.StringFixed(2),
		"currency":       result.Transaction.Currency,
		"fraud":          result.Fraud,
	}

	m.mu.RLock()
	subs := make([]*alertSubscriber, 0, len(m.subscribers))
	for _, sub := range m.subscribers {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.writeJSON(payload); err != nil {
			m.logger.Error("Failed to deliver fraud alert, dropping subscriber", "error", err)
			sub.conn.Close()
			m.RemoveSubscriber(sub.conn)
		}
	}
}
