package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/hersh/gotris/internal/game"
)

func TestSnapshotSurvivesTheWire(t *testing.T) {
	r := game.NewRound(game.WithRandomizer(game.NewSequenceRandomizer(game.KindT, game.KindS)))
	r.SetTopScore(120)
	r.Start()
	r.MoveLeft()
	want := r.Snapshot()

	data, err := EncodeSnapshot(want)
	require.NoError(t, err)
	got, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, game.StateRunning, got.State)
	assert.Equal(t, 120, got.Ledger.TopScore)
}

func TestIdleSnapshotHasNoPiece(t *testing.T) {
	data, err := EncodeSnapshot(game.NewRound().Snapshot())
	require.NoError(t, err)

	got, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.False(t, got.HasPiece)
	assert.Len(t, got.Grid, game.BoardRows*game.BoardCols)
}

func TestDecodeSnapshotRejectsShortGrid(t *testing.T) {
	data, err := msgpack.Marshal(&SnapshotFrame{Rows: 20, Cols: 10, Grid: make([]int8, 5)})
	require.NoError(t, err)

	_, err = DecodeSnapshot(data)
	assert.ErrorContains(t, err, "grid of 5 cells")
}

func TestDecodeSnapshotRejectsMalformedPiece(t *testing.T) {
	data, err := msgpack.Marshal(&SnapshotFrame{
		Rows: 1, Cols: 1, Grid: []int8{0},
		HasPiece: true, Piece: 2, Cells: [][2]int{{0, 0}},
	})
	require.NoError(t, err)

	_, err = DecodeSnapshot(data)
	assert.Error(t, err)
}
