package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
)

// connEntry pairs a live connection with its write lock. Gorilla
// connections allow only one concurrent writer, and every push to a user
// funnels through this one connection.
type connEntry struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub is the connection registry: it maps a user to at most one live
// websocket connection. It is used for delivery only, never for
// persistence decisions.
type Hub struct {
	conns map[string]*connEntry
	info  map[string]ConnInfo
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*connEntry),
		info:  make(map[string]ConnInfo),
	}
}

// Register binds a connection to a user. A previous connection for the same
// user is closed and replaced; single-device only.
func (h *Hub) Register(userID string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	prev := h.conns[userID]
	h.conns[userID] = &connEntry{conn: conn}
	h.info[userID] = info
	h.mu.Unlock()

	if prev != nil && prev.conn != conn {
		prev.conn.Close()
	}
}

// Unregister removes the user's connection if it is still the given one.
// A connection replaced by a newer Register is left alone.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if entry, ok := h.conns[userID]; ok && entry.conn == conn {
		delete(h.conns, userID)
		delete(h.info, userID)
	}
}

// Connection returns the user's live connection handle, or false when the
// user is offline.
func (h *Hub) Connection(userID string) (*websocket.Conn, bool) {
	entry, ok := h.entry(userID)
	if !ok {
		return nil, false
	}
	return entry.conn, true
}

// Connected reports whether the user currently has a live connection.
func (h *Hub) Connected(userID string) bool {
	_, ok := h.entry(userID)
	return ok
}

func (h *Hub) entry(userID string) (*connEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	entry, ok := h.conns[userID]
	return entry, ok
}

// Emit writes one event to the user's live connection. It returns
// (false, nil) when the user is offline. Writes to one connection are
// serialized through the entry's lock; concurrent sends to the same
// recipient queue up rather than corrupt the stream. A failed write closes
// and deregisters the connection.
func (h *Hub) Emit(userID string, event models.MessageEvent) (bool, error) {
	entry, ok := h.entry(userID)
	if !ok {
		return false, nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return false, err
	}

	entry.mu.Lock()
	err = entry.conn.WriteMessage(websocket.TextMessage, payload)
	entry.mu.Unlock()
	if err != nil {
		log.Printf("websocket write error: %v", err)
		entry.conn.Close()
		h.Unregister(userID, entry.conn)
		h.publishWSError(userID, err)
		return false, err
	}
	return true, nil
}

func (h *Hub) publishWSError(userID string, err error) {
	h.mu.RLock()
	info, ok := h.info[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.CorrelationHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.messages", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent("ws_error")
}
