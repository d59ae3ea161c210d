package protocol

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hersh/gotris/internal/game"
)

// SnapshotFrame is the binary form of a game.Snapshot. Keys are kept short
// since a frame goes out after every change.
type SnapshotFrame struct {
	State    int      `msgpack:"st"`
	Rows     int      `msgpack:"r"`
	Cols     int      `msgpack:"c"`
	Grid     []int8   `msgpack:"g"`
	HasPiece bool     `msgpack:"hp"`
	Piece    int      `msgpack:"p"`
	Cells    [][2]int `msgpack:"pc"`
	Ghost    [][2]int `msgpack:"gh"`
	Next     int      `msgpack:"n"`
	Clears   int      `msgpack:"cl"`
	Speed    int      `msgpack:"sp"`
	Score    int      `msgpack:"sc"`
	TopScore int      `msgpack:"ts"`
}

// EncodeSnapshot packs s into a binary frame.
func EncodeSnapshot(s game.Snapshot) ([]byte, error) {
	f := SnapshotFrame{
		State:    int(s.State),
		Rows:     s.Rows,
		Cols:     s.Cols,
		Grid:     make([]int8, len(s.Grid)),
		HasPiece: s.HasPiece,
		Piece:    int(s.Piece),
		Next:     int(s.Next),
		Clears:   s.Ledger.Clears,
		Speed:    s.Ledger.Speed,
		Score:    s.Ledger.Score,
		TopScore: s.Ledger.TopScore,
	}
	for i, tag := range s.Grid {
		f.Grid[i] = int8(tag)
	}
	if s.HasPiece {
		f.Cells = cellPairs(s.Cells[:])
		f.Ghost = cellPairs(s.Ghost[:])
	}
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot unpacks a binary frame. Frames that would make a renderer
// index outside the grid are rejected.
func DecodeSnapshot(data []byte) (game.Snapshot, error) {
	var f SnapshotFrame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if f.Rows <= 0 || f.Cols <= 0 || len(f.Grid) != f.Rows*f.Cols {
		return game.Snapshot{}, fmt.Errorf("decode snapshot: grid of %d cells for %dx%d", len(f.Grid), f.Rows, f.Cols)
	}
	if !game.Kind(f.Next).Valid() {
		return game.Snapshot{}, fmt.Errorf("decode snapshot: bad next kind %d", f.Next)
	}

	s := game.Snapshot{
		State: game.State(f.State),
		Rows:  f.Rows,
		Cols:  f.Cols,
		Grid:  make([]int, len(f.Grid)),
		Next:  game.Kind(f.Next),
		Ledger: game.LedgerSnapshot{
			Clears:   f.Clears,
			Speed:    f.Speed,
			Score:    f.Score,
			TopScore: f.TopScore,
		},
	}
	for i, tag := range f.Grid {
		s.Grid[i] = int(tag)
	}
	if f.HasPiece {
		if !game.Kind(f.Piece).Valid() || len(f.Cells) != 4 || len(f.Ghost) != 4 {
			return game.Snapshot{}, fmt.Errorf("decode snapshot: malformed piece")
		}
		s.HasPiece = true
		s.Piece = game.Kind(f.Piece)
		for i := 0; i < 4; i++ {
			s.Cells[i] = game.Cell{Row: f.Cells[i][0], Col: f.Cells[i][1]}
			s.Ghost[i] = game.Cell{Row: f.Ghost[i][0], Col: f.Ghost[i][1]}
		}
	}
	return s, nil
}
