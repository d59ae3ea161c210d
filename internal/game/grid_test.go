package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTag = 8

// occupy marks cells as landed without going through Land.
func occupy(g *Grid, cells ...Cell) {
	for _, c := range cells {
		g.tags[g.index(c.Row, c.Col)] = testTag
		if c.Row > g.top {
			g.top = c.Row
		}
	}
}

// fillRowExcept occupies a whole row but the given columns.
func fillRowExcept(g *Grid, row int, skip ...int) {
	for col := 0; col < g.Cols(); col++ {
		keep := true
		for _, s := range skip {
			if s == col {
				keep = false
			}
		}
		if keep {
			occupy(g, Cell{row, col})
		}
	}
}

func countOccupied(g *Grid) int {
	n := 0
	for _, tag := range g.Cells() {
		if tag != 0 {
			n++
		}
	}
	return n
}

func TestNewGridIsEmpty(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)

	assert.Equal(t, 20, g.Rows())
	assert.Equal(t, 10, g.Cols())
	assert.Equal(t, 0, g.Top())
	assert.Zero(t, countOccupied(g))
}

func TestOccupiedOutOfBoundsPanics(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)

	assert.PanicsWithValue(t, OutOfBoundsError{Row: 20, Col: 0, Rows: 20, Cols: 10}, func() {
		g.Occupied(20, 0)
	})
	assert.Panics(t, func() { g.Occupied(0, -1) })
	assert.Panics(t, func() { g.Occupied(-1, 3) })
	assert.Panics(t, func() { g.Occupied(5, 10) })
	assert.NotPanics(t, func() { g.Occupied(19, 9) })
}

func TestLandMarksCellsAndRaisesTop(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)

	res := g.Land([4]Cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, 6)

	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.FullRows)
	assert.Equal(t, 3, g.Top())
	for row := 0; row < 4; row++ {
		assert.True(t, g.Occupied(row, 0))
		assert.Equal(t, 6, g.Tag(row, 0))
	}
	assert.False(t, g.Occupied(0, 1))
}

func TestLandReportsFullRowsAscending(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	fillRowExcept(g, 0, 9)
	fillRowExcept(g, 1, 8, 9)
	fillRowExcept(g, 2, 9)

	res := g.Land([4]Cell{{3, 9}, {2, 9}, {1, 9}, {0, 9}}, 6)

	assert.Equal(t, 2, res.Count)
	assert.Equal(t, []int{0, 2}, res.FullRows)
}

func TestLandOnlyScansTouchedRows(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	// A full row the incoming piece never touches is not reported.
	fillRowExcept(g, 5)

	res := g.Land([4]Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, 3)

	assert.Equal(t, 0, res.Count)
}

func TestCompactRowReturnsFreedCells(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	occupy(g, Cell{4, 1}, Cell{4, 7}, Cell{5, 7})

	freed := g.CompactRow(4)

	assert.Equal(t, []Cell{{4, 1}, {4, 7}}, freed)
	assert.False(t, g.Occupied(4, 1))
	assert.True(t, g.Occupied(5, 7))
}

func TestShiftDownMovesRowsAboveAndLowersTop(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	occupy(g, Cell{2, 0}, Cell{3, 4}, Cell{4, 9})
	g.CompactRow(2)

	g.ShiftDown(2)

	assert.Equal(t, 3, g.Top())
	assert.True(t, g.Occupied(2, 4))
	assert.True(t, g.Occupied(3, 9))
	assert.False(t, g.Occupied(4, 9))
	assert.Equal(t, 2, countOccupied(g))
}

func TestShiftDownAtTopOnlyLowersTop(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	fillRowExcept(g, 6)
	g.CompactRow(6)

	g.ShiftDown(6)

	assert.Equal(t, 5, g.Top())
	assert.Zero(t, countOccupied(g))
}

func TestClearRowsProcessesHighestFirst(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	fillRowExcept(g, 3, 9)
	fillRowExcept(g, 5, 9)
	occupy(g, Cell{4, 2}, Cell{6, 7}, Cell{7, 0})
	before := countOccupied(g)

	res := g.Land([4]Cell{{3, 9}, {4, 9}, {5, 9}, {6, 9}}, 6)
	require.Equal(t, []int{3, 5}, res.FullRows)

	freed := g.ClearRows(res.FullRows)

	require.Len(t, freed, 20)
	assert.Equal(t, 5, freed[0].Row, "row 5 is compacted before row 3")
	assert.Equal(t, 3, freed[len(freed)-1].Row)

	// Former row 4 now sits at row 3, former rows 6 and 7 moved down by two.
	assert.True(t, g.Occupied(3, 2))
	assert.Equal(t, 6, g.Tag(3, 9))
	assert.True(t, g.Occupied(4, 7))
	assert.Equal(t, 6, g.Tag(4, 9))
	assert.True(t, g.Occupied(5, 0))
	for col := 0; col < g.Cols(); col++ {
		assert.False(t, g.Occupied(6, col))
		assert.False(t, g.Occupied(7, col))
	}
	assert.Equal(t, 5, g.Top())
	assert.Equal(t, before+4-20, countOccupied(g), "no cell is duplicated")
}

func TestFillRowAndReset(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	occupy(g, Cell{0, 3})

	g.FillRow(0, testTag)
	g.FillRow(1, testTag)

	assert.Equal(t, 20, countOccupied(g))
	assert.Equal(t, 1, g.Top())

	g.Reset()
	assert.Zero(t, countOccupied(g))
	assert.Equal(t, 0, g.Top())
}

func TestGridFromCellsRoundTrip(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	occupy(g, Cell{0, 0}, Cell{3, 9})

	cells := g.Cells()
	rebuilt := GridFromCells(BoardRows, BoardCols, cells)
	assert.Equal(t, cells, rebuilt.Cells())
	assert.Equal(t, 3, rebuilt.Top())

	cells[0] = 0
	assert.True(t, rebuilt.Occupied(0, 0), "the cells are copied")

	assert.Panics(t, func() { GridFromCells(2, 2, []int{1}) })
}

func TestCellsIsACopy(t *testing.T) {
	g := NewGrid(BoardRows, BoardCols)
	cells := g.Cells()
	cells[0] = 5

	assert.False(t, g.Occupied(0, 0))
}
