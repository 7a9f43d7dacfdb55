package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Session event types pushed to open tabs
const (
	EventSignedOut      = "signed_out"
	EventProfileUpdated = "profile_updated"
)

const writeWait = 5 * time.Second

// SessionEvent is a WebSocket message describing an auth-state change
type SessionEvent struct {
	Type      string `json:"type"`
	Username  string `json:"username,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// SessionHub tracks the WebSocket connections of signed-in users so that
// auth-state changes reach every open tab of that user.
type SessionHub struct {
	mu          sync.Mutex
	connections map[string]map[*websocket.Conn]struct{}
}

// NewSessionHub creates a new session hub
func NewSessionHub() *SessionHub {
	return &SessionHub{
		connections: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// Register subscribes conn to userID's events and returns the function that
// unsubscribes and closes it.
func (h *SessionHub) Register(userID string, conn *websocket.Conn) func() {
	h.mu.Lock()
	conns, ok := h.connections[userID]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.connections[userID] = conns
	}
	conns[conn] = struct{}{}
	h.mu.Unlock()

	log.Debug().Str("user_id", userID).Msg("Session connection registered")

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			h.remove(userID, conn)
			h.mu.Unlock()
			log.Debug().Str("user_id", userID).Msg("Session connection unregistered")
		})
	}
}

// remove must be called with h.mu held
func (h *SessionHub) remove(userID string, conn *websocket.Conn) {
	conns, ok := h.connections[userID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		conn.Close()
		delete(conns, conn)
	}
	if len(conns) == 0 {
		delete(h.connections, userID)
	}
}

// Count returns the number of open connections for userID
func (h *SessionHub) Count(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections[userID])
}

// SendToUser writes event to every connection of userID. Connections that
// fail to accept the write are dropped. A user with no connections is not an error.
func (h *SessionHub) SendToUser(userID string, event SessionEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var failed int
	for conn := range h.connections[userID] {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Dropping session connection")
			h.remove(userID, conn)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to deliver %s to %d connection(s)", event.Type, failed)
	}
	return nil
}

// NotifySignedOut tells every tab of userID that the session ended
func (h *SessionHub) NotifySignedOut(userID string) error {
	return h.SendToUser(userID, SessionEvent{Type: EventSignedOut})
}

// NotifyProfileUpdated tells every tab of userID that the profile changed
func (h *SessionHub) NotifyProfileUpdated(userID, username string) error {
	return h.SendToUser(userID, SessionEvent{Type: EventProfileUpdated, Username: username})
}

// CloseAll closes every connection, used on shutdown
func (h *SessionHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, conns := range h.connections {
		for conn := range conns {
			conn.Close()
		}
		delete(h.connections, userID)
	}
}
