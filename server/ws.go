package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds one snapshot write to a slow client.
	writeWait = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard may be opened from another host on the LAN.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS upgrades the connection and streams snapshots from the hub
// until the client disconnects. Each client gets its own hub observer, so
// a stalled connection is dropped by the hub without touching the others.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id, ch := s.hub.Register()
	s.logger.Info("websocket client connected", "id", id, "remote", r.RemoteAddr)

	// Reader pump. The dashboard never sends data; this exists to observe
	// the close handshake and tear the observer down promptly.
	go func() {
		defer s.hub.Unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		s.hub.Unregister(id)
		_ = conn.Close()
		s.logger.Info("websocket client disconnected", "id", id)
	}()

	for snap := range ch {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(snap); err != nil {
			s.logger.Debug("websocket write failed", "id", id, "error", err)
			return
		}
	}

	// Channel closed: the hub dropped this observer. Tell the client why.
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"))
}
