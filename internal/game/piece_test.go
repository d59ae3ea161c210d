package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawn(t *testing.T, g *Grid, k Kind) *Piece {
	t.Helper()
	p, ok := Spawn(g, k)
	require.True(t, ok, "spawn %s", k)
	return p
}

func TestSpawnCells(t *testing.T) {
	tests := []struct {
		kind Kind
		want [4]Cell
	}{
		{KindO, [4]Cell{{18, 4}, {18, 5}, {19, 4}, {19, 5}}},
		{KindI, [4]Cell{{19, 3}, {19, 4}, {19, 5}, {19, 6}}},
		{KindT, [4]Cell{{18, 4}, {19, 3}, {19, 4}, {19, 5}}},
		{KindS, [4]Cell{{18, 3}, {18, 4}, {19, 4}, {19, 5}}},
		{KindZ, [4]Cell{{18, 4}, {18, 5}, {19, 3}, {19, 4}}},
		{KindJ, [4]Cell{{18, 3}, {18, 4}, {18, 5}, {19, 3}}},
		{KindL, [4]Cell{{18, 3}, {18, 4}, {18, 5}, {19, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := spawn(t, NewGrid(BoardRows, BoardCols), tt.kind)
			assert.Equal(t, tt.want, p.Cells())
			assert.Equal(t, tt.kind, p.Kind())
		})
	}
}

func TestSpawnBlocked(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	occupy(g, Cell{19, 3})

	p, ok := Spawn(g, KindT)
	assert.False(t, ok)
	assert.Nil(t, p)

	// O spawns in columns 4 and 5 only, so it still fits.
	_, ok = Spawn(g, KindO)
	assert.True(t, ok)
}

func TestShapeTemplateNeedsFourOffsets(t *testing.T) {
	assert.Panics(t, func() {
		newShape(KindT, 3, 5, []Offset{{0, 0}, {0, 1}, {0, 2}}, rotateT)
	})
}

func TestMoveLeftRightReversible(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	for _, k := range Kinds {
		p := spawn(t, g, k)
		start := p.Cells()

		require.True(t, p.MoveLeft())
		require.True(t, p.MoveRight())
		assert.Equal(t, start, p.Cells(), "%s left then right", k)

		require.True(t, p.MoveRight())
		require.True(t, p.MoveLeft())
		assert.Equal(t, start, p.Cells(), "%s right then left", k)
	}
}

func TestMoveStopsAtWalls(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	p := spawn(t, g, KindI)

	for i := 0; i < 3; i++ {
		require.True(t, p.MoveLeft())
	}
	atWall := p.Cells()
	assert.False(t, p.MoveLeft())
	assert.Equal(t, atWall, p.Cells())
	assert.Equal(t, 0, p.Cells()[0].Col)

	for i := 0; i < 6; i++ {
		require.True(t, p.MoveRight())
	}
	assert.False(t, p.MoveRight())
	assert.Equal(t, 9, p.Cells()[3].Col)
}

func TestMoveBlockedByLandedCells(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	occupy(g, Cell{19, 2})
	p := spawn(t, g, KindI)
	start := p.Cells()

	assert.False(t, p.MoveLeft())
	assert.Equal(t, start, p.Cells())
}

func TestMoveDownUntilFloor(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	p := spawn(t, g, KindO)

	moves := 0
	for p.MoveDown() {
		moves++
	}
	assert.Equal(t, 18, moves)
	assert.Equal(t, [4]Cell{{0, 4}, {0, 5}, {1, 4}, {1, 5}}, p.Cells())
}

func TestMoveDownStopsOnStack(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	occupy(g, Cell{5, 4})
	p := spawn(t, g, KindO)

	for p.MoveDown() {
	}
	assert.Equal(t, 6, p.Cells()[0].Row)
}

func TestDropCommitsRestingCells(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	occupy(g, Cell{3, 3})
	p := spawn(t, g, KindI)

	target := p.DropTarget()
	assert.Equal(t, [4]Cell{{19, 3}, {19, 4}, {19, 5}, {19, 6}}, p.Cells(), "DropTarget does not move the piece")

	fell := p.Drop()
	assert.Equal(t, 15, fell)
	assert.Equal(t, target, p.Cells())
	assert.Equal(t, [4]Cell{{4, 3}, {4, 4}, {4, 5}, {4, 6}}, p.Cells())
	assert.False(t, p.MoveDown())
}

func TestRotationCycles(t *testing.T) {
	tests := []struct {
		kind  Kind
		cycle int
	}{
		{KindI, 2},
		{KindS, 2},
		{KindZ, 2},
		{KindT, 4},
		{KindJ, 4},
		{KindL, 4},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			g := NewGrid(BoardRows, BoardCols)
			p := spawn(t, g, tt.kind)
			// Leave room above the spawn row for the upright orientations.
			require.True(t, p.MoveDown())
			require.True(t, p.MoveDown())
			start := p.Cells()

			seen := map[[4]Cell]bool{start: true}
			for i := 1; i < tt.cycle; i++ {
				require.True(t, p.Rotate(), "rotation %d", i)
				assert.False(t, seen[p.Cells()], "orientation %d repeats early", i)
				seen[p.Cells()] = true
			}
			require.True(t, p.Rotate())
			assert.Equal(t, start, p.Cells())
		})
	}
}

func TestRotateO(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	p := spawn(t, g, KindO)
	p.MoveDown()
	start := p.Cells()

	assert.False(t, p.Rotate())
	assert.Equal(t, start, p.Cells())
}

func TestRotateRejectedOutOfBounds(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	p := spawn(t, g, KindI)
	start := p.Cells()

	// Upright I would reach row 20.
	assert.False(t, p.Rotate())
	assert.Equal(t, start, p.Cells())
}

func TestRotateRejectedByLandedCell(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	p := spawn(t, g, KindT)
	require.True(t, p.MoveDown())
	require.True(t, p.MoveDown())
	start := p.Cells()
	occupy(g, Cell{start[2].Row + 1, start[2].Col})

	assert.False(t, p.Rotate())
	assert.Equal(t, start, p.Cells())
}

func TestRotateUnknownArrangementIsNoop(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	cells := [4]Cell{{5, 1}, {6, 2}, {7, 3}, {8, 4}}
	p := &Piece{kind: KindT, cells: cells, grid: g}

	assert.False(t, p.Rotate())
	assert.Equal(t, cells, p.Cells())
}

func TestRotationKeepsCellsDistinct(t *testing.T) {
	for _, k := range Kinds {
		g := NewGrid(BoardRows, BoardCols)
		p := spawn(t, g, k)
		p.MoveDown()
		p.MoveDown()
		for i := 0; i < 4; i++ {
			p.Rotate()
			seen := map[Cell]bool{}
			for _, c := range p.Cells() {
				assert.False(t, seen[c], "%s has duplicate cell %v", k, c)
				seen[c] = true
			}
		}
	}
}
