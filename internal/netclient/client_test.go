package netclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/gotris/internal/game"
	"github.com/hersh/gotris/internal/protocol"
)

func TestTranslateSnapshotFrame(t *testing.T) {
	r := game.NewRound(game.WithRandomizer(game.NewSequenceRandomizer(game.KindZ)))
	r.Start()
	data, err := protocol.EncodeSnapshot(r.Snapshot())
	require.NoError(t, err)

	msg, err := Translate(websocket.BinaryMessage, data)
	require.NoError(t, err)
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok)
	assert.Equal(t, game.KindZ, snap.Snapshot.Piece)
}

func TestTranslateTextFrames(t *testing.T) {
	tests := []struct {
		name string
		env  protocol.Envelope
		want interface{}
	}{
		{
			name: "assign id",
			env:  protocol.Envelope{Type: protocol.MsgAssignID, Payload: protocol.AssignIDPayload{SessionID: 7}},
			want: ConnectedMsg{SessionID: 7},
		},
		{
			name: "event",
			env: protocol.Envelope{Type: protocol.MsgEvent, Payload: protocol.EventPayload{
				Kind: "speed_changed", Speed: 3,
			}},
			want: EventMsg{Event: protocol.EventPayload{Kind: "speed_changed", Speed: 3}},
		},
		{
			name: "error",
			env:  protocol.Envelope{Type: protocol.MsgError, Payload: protocol.ErrorPayload{Message: "nope"}},
			want: ServerErrorMsg{Message: "nope"},
		},
		{
			name: "unknown type",
			env:  protocol.Envelope{Type: "lobby_update", Payload: struct{}{}},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.env)
			require.NoError(t, err)

			msg, err := Translate(websocket.TextMessage, data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestTranslateRejectsCorruptFrames(t *testing.T) {
	_, err := Translate(websocket.BinaryMessage, []byte{0xc1})
	assert.Error(t, err)

	_, err = Translate(websocket.TextMessage, []byte("{"))
	assert.Error(t, err)
}

func TestClientSendsCommandsThenClosesCleanly(t *testing.T) {
	received := make(chan []byte, 1)
	closed := make(chan error, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, data, err := conn.ReadMessage()
		if err != nil {
			closed <- err
			return
		}
		received <- data
		_, _, err = conn.ReadMessage()
		closed <- err
	}))
	defer srv.Close()

	c, err := New("ws" + strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	c.Start()

	c.SendCommand(protocol.CmdMoveLeft, protocol.KeyPress)
	select {
	case data := <-received:
		in, err := protocol.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, protocol.MsgCommand, in.Type)
		var cmd protocol.CommandPayload
		require.NoError(t, in.Decode(&cmd))
		assert.Equal(t, protocol.CommandPayload{Command: protocol.CmdMoveLeft, Key: protocol.KeyPress}, cmd)
	case <-time.After(2 * time.Second):
		t.Fatal("command never arrived")
	}

	c.Close()
	c.Close()
	select {
	case err := <-closed:
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no close frame")
	}
}
