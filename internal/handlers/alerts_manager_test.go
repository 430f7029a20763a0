package handlers

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialAlerts(t *testing.T, manager *AlertsManager) (*websocket.Conn, func()) {
	t.Helper()

	router := mux.NewRouter()
	NewWebSocketHandler(testLogger(), manager).RegisterRoutes(router)
	srv := httptest.NewServer(router)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/alerts"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	// The subscription is registered by the server goroutine after the
	// upgrade completes.
	require.Eventually(t, func() bool {
		return manager.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestPublishAlertDeliversToSubscriber(t *testing.T) {
	manager := NewAlertsManager(testLogger())
	conn, cleanup := dialAlerts(t, manager)
	defer cleanup()

	manager.PublishAlert(sampleResult(true))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var payload map[string]any
	require.NoError(t, conn.ReadJSON(&payload))
	assert.Equal(t, "fraud_alert", payload["type"])
	assert.Equal(t, "TRX123456", payload["transaction_id"])
}

func TestPublishAlertIgnoresUnflaggedResults(t *testing.T) {
	manager := NewAlertsManager(testLogger())
	conn, cleanup := dialAlerts(t, manager)
	defer cleanup()

	manager.PublishAlert(sampleResult(false))
	manager.PublishAlert(nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var payload map[string]any
	assert.Error(t, conn.ReadJSON(&payload))
}

func TestPublishAlertConcurrentPublishers(t *testing.T) {
	manager := NewAlertsManager(testLogger())
	conn, cleanup := dialAlerts(t, manager)
	defer cleanup()

	// Simultaneous flagged transforms all broadcast from their own request
	// goroutines; every alert must arrive intact on the one connection.
	const publishers = 16
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.PublishAlert(sampleResult(true))
		}()
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for received := 0; received < publishers; received++ {
		var payload map[string]any
		require.NoError(t, conn.ReadJSON(&payload))
		assert.Equal(t, "fraud_alert", payload["type"])
	}
	wg.Wait()

	assert.Equal(t, 1, manager.SubscriberCount())
}
