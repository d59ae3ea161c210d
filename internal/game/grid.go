package game

import (
	"fmt"
	"sort"
)

const (
	BoardRows = 20
	BoardCols = 10
)

// Cell is a (row, col) coordinate. Row 0 is the bottom of the well.
type Cell struct {
	Row, Col int
}

// OutOfBoundsError is the panic value raised when the grid is queried outside
// its extent. Pieces validate their cells before touching the grid, so seeing
// one of these means a bug in the caller.
type OutOfBoundsError struct {
	Row, Col   int
	Rows, Cols int
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("cell (%d,%d) outside %dx%d grid", e.Row, e.Col, e.Rows, e.Cols)
}

// LandResult reports the full rows produced by landing a piece.
type LandResult struct {
	Count    int
	FullRows []int // ascending
}

// Grid is the occupancy model of the well. A tag of 0 means empty, any other
// value is the color tag of the piece that left the cell behind.
type Grid struct {
	rows, cols int
	tags       []int
	top        int
}

func NewGrid(rows, cols int) *Grid {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("invalid grid size %dx%d", rows, cols))
	}
	return &Grid{
		rows: rows,
		cols: cols,
		tags: make([]int, rows*cols),
	}
}

// GridFromCells rebuilds a grid from a flat row-major slice of color tags, row
// 0 first, as returned by Cells. The slice is copied.
func GridFromCells(rows, cols int, cells []int) *Grid {
	g := NewGrid(rows, cols)
	if len(cells) != rows*cols {
		panic(fmt.Sprintf("%d cells for a %dx%d grid", len(cells), rows, cols))
	}
	copy(g.tags, cells)
	for i, tag := range cells {
		if tag != 0 && i/cols > g.top {
			g.top = i / cols
		}
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Top is the highest row that has held a landed cell since the last reset.
func (g *Grid) Top() int { return g.top }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) index(row, col int) int {
	if !g.InBounds(row, col) {
		panic(OutOfBoundsError{Row: row, Col: col, Rows: g.rows, Cols: g.cols})
	}
	return row*g.cols + col
}

// Occupied reports whether a landed cell sits at (row, col).
func (g *Grid) Occupied(row, col int) bool {
	return g.tags[g.index(row, col)] != 0
}

// Tag returns the color tag at (row, col), 0 when empty.
func (g *Grid) Tag(row, col int) int {
	return g.tags[g.index(row, col)]
}

// Free reports whether every cell is inside the grid and unoccupied.
func (g *Grid) Free(cells []Cell) bool {
	for _, c := range cells {
		if !g.InBounds(c.Row, c.Col) || g.tags[c.Row*g.cols+c.Col] != 0 {
			return false
		}
	}
	return true
}

// Land marks the piece cells occupied and returns the full rows among the
// rows the piece touched. Rows elsewhere cannot have changed, so they are not
// scanned.
func (g *Grid) Land(cells [4]Cell, tag int) LandResult {
	if tag == 0 {
		panic("landing with empty color tag")
	}
	touched := make(map[int]struct{}, 4)
	for _, c := range cells {
		g.tags[g.index(c.Row, c.Col)] = tag
		touched[c.Row] = struct{}{}
		if c.Row > g.top {
			g.top = c.Row
		}
	}

	var full []int
	for row := range touched {
		if g.rowFull(row) {
			full = append(full, row)
		}
	}
	sort.Ints(full)
	return LandResult{Count: len(full), FullRows: full}
}

func (g *Grid) rowFull(row int) bool {
	base := row * g.cols
	for col := 0; col < g.cols; col++ {
		if g.tags[base+col] == 0 {
			return false
		}
	}
	return true
}

// CompactRow empties a row and returns the cells it released.
func (g *Grid) CompactRow(row int) []Cell {
	var freed []Cell
	for col := 0; col < g.cols; col++ {
		i := g.index(row, col)
		if g.tags[i] != 0 {
			g.tags[i] = 0
			freed = append(freed, Cell{Row: row, Col: col})
		}
	}
	return freed
}

// ShiftDown moves rows row+1..Top down by one after row has been compacted,
// then lowers Top.
func (g *Grid) ShiftDown(row int) {
	g.index(row, 0)
	if row < g.top {
		copy(g.tags[row*g.cols:g.top*g.cols], g.tags[(row+1)*g.cols:(g.top+1)*g.cols])
		clear(g.tags[g.top*g.cols : (g.top+1)*g.cols])
	}
	if g.top > 0 {
		g.top--
	}
}

// ClearRows compacts the given full rows. They are handled from the highest
// down so the indices of rows still pending stay valid. The freed cells are
// returned in the coordinates they had when they were removed.
func (g *Grid) ClearRows(fullRows []int) []Cell {
	pending := append([]int(nil), fullRows...)
	sort.Ints(pending)

	var freed []Cell
	for i := len(pending) - 1; i >= 0; i-- {
		row := pending[i]
		freed = append(freed, g.CompactRow(row)...)
		g.ShiftDown(row)
	}
	return freed
}

// FillRow occupies every empty cell of a row with tag.
func (g *Grid) FillRow(row, tag int) {
	for col := 0; col < g.cols; col++ {
		i := g.index(row, col)
		if g.tags[i] == 0 {
			g.tags[i] = tag
		}
	}
	if row > g.top {
		g.top = row
	}
}

// Reset empties the grid.
func (g *Grid) Reset() {
	clear(g.tags)
	g.top = 0
}

// Cells returns a copy of the grid as a flat row-major slice of color tags,
// row 0 first.
func (g *Grid) Cells() []int {
	out := make([]int, len(g.tags))
	copy(out, g.tags)
	return out
}
