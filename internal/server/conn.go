package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades requests on /ws and gives each connection its own session.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		s := r.Open()
		log.Printf("Session %d connected from %s", s.ID(), req.RemoteAddr)

		go s.Run()
		go writePump(conn, s)

		readPump(conn, s)

		r.Remove(s.ID())
		log.Printf("Session %d disconnected", s.ID())
	})
}

// readPump reads client frames and hands them to the session.
func readPump(conn *websocket.Conn, s *Session) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error for session %d: %v", s.ID(), err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if err := s.HandleMessage(message); err != nil {
			log.Printf("session %d: %v", s.ID(), err)
		}
	}
}

// writePump sends session frames to the websocket and keeps it alive.
func writePump(conn *websocket.Conn, s *Session) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case f := <-s.Out():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(f.Type, f.Data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
