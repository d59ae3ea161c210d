package game

// Snapshot is a copy of everything a renderer needs. It shares no memory with
// the Round it came from.
type Snapshot struct {
	State State
	Rows  int
	Cols  int
	// Grid holds Rows*Cols color tags, row-major with row 0 (the bottom) first.
	Grid []int

	HasPiece bool
	Piece    Kind
	Cells    [4]Cell
	Ghost    [4]Cell

	Next   Kind
	Ledger LedgerSnapshot
}

// TagAt returns the color tag rendered at (row, col): the active piece if it
// covers the cell, otherwise the grid.
func (s Snapshot) TagAt(row, col int) int {
	if s.HasPiece {
		for _, c := range s.Cells {
			if c.Row == row && c.Col == col {
				return ShapeOf(s.Piece).Color
			}
		}
	}
	return s.Grid[row*s.Cols+col]
}

// GhostAt reports whether the drop target of the active piece covers (row, col).
func (s Snapshot) GhostAt(row, col int) bool {
	if !s.HasPiece {
		return false
	}
	for _, c := range s.Ghost {
		if c.Row == row && c.Col == col {
			return true
		}
	}
	return false
}
