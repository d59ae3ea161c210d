package netclient

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/hersh/gotris/internal/game"
	"github.com/hersh/gotris/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 16384
)

// ConnectedMsg is sent when the server assigns the session id.
type ConnectedMsg struct {
	SessionID uint64
}

// SnapshotMsg carries the latest state of the remote round.
type SnapshotMsg struct {
	Snapshot game.Snapshot
}

// EventMsg carries one event emitted by the remote round.
type EventMsg struct {
	Event protocol.EventPayload
}

// ServerErrorMsg reports a message the server rejected.
type ServerErrorMsg struct {
	Message string
}

// DisconnectedMsg is sent when the WebSocket connection is lost.
type DisconnectedMsg struct {
	Err error
}

// Client manages the WebSocket connection to the game server.
type Client struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	sendCh  chan []byte
	program *tea.Program
	done    chan struct{}
	closed  bool
}

// New creates a Client connected to the given server URL.
func New(serverURL string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverURL, err)
	}

	c := &Client{
		conn:   conn,
		sendCh: make(chan []byte, 256),
		done:   make(chan struct{}),
	}

	return c, nil
}

// SetProgram sets the bubbletea program so the client can send messages to it.
func (c *Client) SetProgram(p *tea.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.program = p
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Send marshals and sends an envelope to the server.
func (c *Client) Send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("client marshal error: %v", err)
		return
	}
	select {
	case c.sendCh <- data:
	default:
		log.Printf("client send channel full, dropping message")
	}
}

// SendCommand sends a command for the remote round.
func (c *Client) SendCommand(cmd protocol.Command, key protocol.KeyPhase) {
	c.Send(protocol.NewCommand(cmd, key))
}

// Close shuts down the client connection. The write pump sends the close
// frame and releases the socket.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

func (c *Client) deliver(msg tea.Msg) {
	c.mu.Lock()
	p := c.program
	c.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// readPump reads messages from the WebSocket and sends them to the bubbletea program.
func (c *Client) readPump() {
	var readErr error
	defer func() {
		c.deliver(DisconnectedMsg{Err: readErr})
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("readPump error: %v", err)
				readErr = err
			}
			return
		}

		msg, err := Translate(msgType, message)
		if err != nil {
			log.Printf("client decode error: %v", err)
			continue
		}
		if msg != nil {
			c.deliver(msg)
		}
	}
}

// Translate turns one server frame into the tea.Msg the TUI understands.
// Frames of unknown type yield a nil message.
func Translate(msgType int, data []byte) (tea.Msg, error) {
	if msgType == websocket.BinaryMessage {
		snap, err := protocol.DecodeSnapshot(data)
		if err != nil {
			return nil, err
		}
		return SnapshotMsg{Snapshot: snap}, nil
	}

	in, err := protocol.Decode(data)
	if err != nil {
		return nil, err
	}
	switch in.Type {
	case protocol.MsgAssignID:
		var payload protocol.AssignIDPayload
		if err := in.Decode(&payload); err != nil {
			return nil, err
		}
		return ConnectedMsg{SessionID: payload.SessionID}, nil
	case protocol.MsgEvent:
		var payload protocol.EventPayload
		if err := in.Decode(&payload); err != nil {
			return nil, err
		}
		return EventMsg{Event: payload}, nil
	case protocol.MsgError:
		var payload protocol.ErrorPayload
		if err := in.Decode(&payload); err != nil {
			return nil, err
		}
		return ServerErrorMsg{Message: payload.Message}, nil
	}
	return nil, nil
}

// writePump writes messages from sendCh to the WebSocket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
