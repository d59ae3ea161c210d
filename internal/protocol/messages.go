package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hersh/gotris/internal/game"
)

// MessageType identifies the kind of JSON message sent over the wire.
// Snapshots travel separately as binary frames, see snapshot.go.
type MessageType string

const (
	// Server -> Client messages
	MsgAssignID MessageType = "assign_id"
	MsgEvent    MessageType = "event"
	MsgError    MessageType = "error"

	// Client -> Server messages
	MsgCommand MessageType = "command"
)

// ErrUnknownCommand is returned for command names the server does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Envelope is the top-level wire format for all JSON messages.
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// Incoming is an Envelope whose payload has not been decoded yet.
type Incoming struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode parses the envelope of a JSON text frame.
func Decode(raw []byte) (Incoming, error) {
	var in Incoming
	if err := json.Unmarshal(raw, &in); err != nil {
		return Incoming{}, fmt.Errorf("decode envelope: %w", err)
	}
	return in, nil
}

// Decode unmarshals the payload into target.
func (in Incoming) Decode(target interface{}) error {
	if err := json.Unmarshal(in.Payload, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", in.Type, err)
	}
	return nil
}

// --- Server -> Client payloads ---

// AssignIDPayload is sent when a client first connects.
type AssignIDPayload struct {
	SessionID uint64 `json:"session_id"`
}

// ErrorPayload reports a rejected client message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// EventPayload mirrors a game.Event. Only the fields relevant to Kind are set.
type EventPayload struct {
	Kind  string   `json:"kind"`
	Piece string   `json:"piece,omitempty"`
	Cells [][2]int `json:"cells,omitempty"`
	Rows  []int    `json:"rows,omitempty"`
	Speed int      `json:"speed,omitempty"`
	Score int      `json:"score,omitempty"`
	Grid  []int    `json:"grid,omitempty"`
}

func NewEventPayload(e game.Event) EventPayload {
	p := EventPayload{Kind: e.Kind.String()}
	switch e.Kind {
	case game.EventPieceSpawned, game.EventPieceMoved, game.EventPieceRotated:
		p.Piece = e.Piece.String()
	case game.EventPieceLocked:
		p.Piece = e.Piece.String()
		p.Cells = cellPairs(e.Cells[:])
	case game.EventRowsCleared:
		p.Rows = e.Rows
		p.Cells = cellPairs(e.Freed)
	case game.EventSpeedChanged:
		p.Speed = e.Speed
	case game.EventTopScoreBeaten:
		p.Score = e.Score
	case game.EventGameOver:
		p.Score = e.Score
		p.Grid = e.Grid
	}
	return p
}

func cellPairs(cells []game.Cell) [][2]int {
	out := make([][2]int, len(cells))
	for i, c := range cells {
		out[i] = [2]int{c.Row, c.Col}
	}
	return out
}

// --- Client -> Server payloads ---

// Command names a Round operation a client may request.
type Command string

const (
	CmdStart       Command = "start"
	CmdPause       Command = "pause"
	CmdResume      Command = "resume"
	CmdToggle      Command = "toggle"
	CmdMoveLeft    Command = "move_left"
	CmdMoveRight   Command = "move_right"
	CmdMoveDown    Command = "move_down"
	CmdRotate      Command = "rotate"
	CmdHardDrop    Command = "hard_drop"
	CmdChangeSpeed Command = "change_speed"
)

var commands = map[Command]bool{
	CmdStart:       true,
	CmdPause:       true,
	CmdResume:      true,
	CmdToggle:      true,
	CmdMoveLeft:    true,
	CmdMoveRight:   true,
	CmdMoveDown:    true,
	CmdRotate:      true,
	CmdHardDrop:    true,
	CmdChangeSpeed: true,
}

// Repeats reports whether holding the command repeats it.
func (c Command) Repeats() bool {
	switch c {
	case CmdMoveLeft, CmdMoveRight, CmdMoveDown:
		return true
	}
	return false
}

// KeyPhase says whether a command is a single tap or the start or end of a
// hold.
type KeyPhase string

const (
	KeyTap     KeyPhase = ""
	KeyPress   KeyPhase = "press"
	KeyRelease KeyPhase = "release"
)

// CommandPayload asks the server to apply a command to the session's round.
type CommandPayload struct {
	Command Command  `json:"command"`
	Key     KeyPhase `json:"key,omitempty"`
}

// Validate checks the command name and key phase.
func (p CommandPayload) Validate() error {
	if !commands[p.Command] {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, p.Command)
	}
	switch p.Key {
	case KeyTap, KeyPress, KeyRelease:
	default:
		return fmt.Errorf("command %s: bad key phase %q", p.Command, p.Key)
	}
	return nil
}

// NewCommand wraps a command in an envelope.
func NewCommand(cmd Command, key KeyPhase) Envelope {
	return Envelope{Type: MsgCommand, Payload: CommandPayload{Command: cmd, Key: key}}
}
