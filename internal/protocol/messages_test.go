package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/gotris/internal/game"
)

func TestCommandEnvelopeDecodes(t *testing.T) {
	raw, err := json.Marshal(NewCommand(CmdMoveLeft, KeyPress))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"command","payload":{"command":"move_left","key":"press"}}`, string(raw))

	in, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, MsgCommand, in.Type)

	var cmd CommandPayload
	require.NoError(t, in.Decode(&cmd))
	assert.NoError(t, cmd.Validate())
	assert.Equal(t, CommandPayload{Command: CmdMoveLeft, Key: KeyPress}, cmd)
}

func TestTapOmitsKeyPhase(t *testing.T) {
	raw, err := json.Marshal(NewCommand(CmdHardDrop, KeyTap))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"command","payload":{"command":"hard_drop"}}`, string(raw))
}

func TestValidateRejectsUnknownCommand(t *testing.T) {
	err := CommandPayload{Command: "hold"}.Validate()
	assert.ErrorIs(t, err, ErrUnknownCommand)

	err = CommandPayload{Command: CmdRotate, Key: "tap"}.Validate()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownCommand)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestRepeatingCommands(t *testing.T) {
	assert.True(t, CmdMoveLeft.Repeats())
	assert.True(t, CmdMoveRight.Repeats())
	assert.True(t, CmdMoveDown.Repeats())
	assert.False(t, CmdRotate.Repeats())
	assert.False(t, CmdHardDrop.Repeats())
	assert.False(t, CmdToggle.Repeats())
}

func TestEventPayloadCarriesRelevantFields(t *testing.T) {
	locked := NewEventPayload(game.Event{
		Kind:  game.EventPieceLocked,
		Piece: game.KindI,
		Cells: [4]game.Cell{{Row: 0, Col: 3}, {Row: 0, Col: 4}, {Row: 0, Col: 5}, {Row: 0, Col: 6}},
	})
	assert.Equal(t, "piece_locked", locked.Kind)
	assert.Equal(t, "I", locked.Piece)
	assert.Equal(t, [][2]int{{0, 3}, {0, 4}, {0, 5}, {0, 6}}, locked.Cells)

	cleared := NewEventPayload(game.Event{
		Kind:  game.EventRowsCleared,
		Rows:  []int{0, 2},
		Freed: []game.Cell{{Row: 0, Col: 0}},
	})
	assert.Equal(t, []int{0, 2}, cleared.Rows)
	assert.Equal(t, [][2]int{{0, 0}}, cleared.Cells)
	assert.Empty(t, cleared.Piece)

	over := NewEventPayload(game.Event{Kind: game.EventGameOver, Score: 70, Grid: []int{1, 0}})
	assert.Equal(t, EventPayload{Kind: "game_over", Score: 70, Grid: []int{1, 0}}, over)
}
