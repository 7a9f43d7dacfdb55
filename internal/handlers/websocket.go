package handlers

import (
	"net/http"
	"net/url"
	"time"

	"instafeed/internal/services"
	"instafeed/internal/session"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WebSocketHandler streams session events to signed-in tabs
type WebSocketHandler struct {
	hub      *services.SessionHub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler. Cross-origin
// upgrades are accepted only from allowedOrigins ("*" allows any).
func NewWebSocketHandler(hub *services.SessionHub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err == nil && u.Host == r.Host {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// SessionEvents handles GET /ws/session
func (h *WebSocketHandler) SessionEvents(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if !sess.IsAuthenticated() {
		respondError(w, "not signed in", http.StatusUnauthorized)
		return
	}
	userID := sess.UserID()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to upgrade WebSocket connection")
		return
	}

	unregister := h.hub.Register(userID, conn)
	defer unregister()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := make(chan struct{})
	defer close(stop)
	go h.keepAlive(conn, stop)

	// Clients only listen; reading drives pong handling and close detection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			return
		}
	}
}

func (h *WebSocketHandler) keepAlive(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}
