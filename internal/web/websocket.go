package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for simplicity
	},
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		s.logger.Error("WebSocket connection missing session_id")
		return
	}

	// Subscribe to session updates
	updates := s.sessions.Subscribe(sessionID)
	defer s.sessions.Unsubscribe(sessionID, updates)

	// Send initial session state
	sess, err := s.sessions.Get(sessionID)
	if err == nil {
		data, _ := json.Marshal(s.sessionToResponse(sess))
		conn.WriteMessage(websocket.TextMessage, data)
	}

	// Listen for updates and send to client
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case sess, ok := <-updates:
			if !ok {
				return
			}

			data, err := json.Marshal(s.sessionToResponse(sess))
			if err != nil {
				s.logger.Error("Failed to marshal session: %v", err)
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Error("Failed to write WebSocket message: %v", err)
				return
			}

			// Close connection once the session reaches a final state
			if sess.Status.Terminal() {
				return
			}

		case <-ticker.C:
			// Send ping to keep connection alive
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
