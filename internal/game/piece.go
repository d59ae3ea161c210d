package game

// Piece is the falling piece. Its four cells are kept in template order
// because the rotation rules read the arrangement positionally.
type Piece struct {
	kind  Kind
	cells [4]Cell
	grid  *Grid
}

// Spawn places a new piece of kind k at the spawn anchor. ok is false when
// any spawn cell is already occupied, which ends the round.
func Spawn(grid *Grid, k Kind) (p *Piece, ok bool) {
	cells := ShapeOf(k).SpawnCells(grid.Rows(), grid.Cols())
	if !grid.Free(cells[:]) {
		return nil, false
	}
	return &Piece{kind: k, cells: cells, grid: grid}, true
}

func (p *Piece) Kind() Kind { return p.kind }

// Cells returns the piece's absolute cells.
func (p *Piece) Cells() [4]Cell { return p.cells }

// Color returns the tag the piece leaves in the grid when it locks.
func (p *Piece) Color() int { return ShapeOf(p.kind).Color }

func (p *Piece) translated(dRow, dCol int) [4]Cell {
	var out [4]Cell
	for i, c := range p.cells {
		out[i] = Cell{Row: c.Row + dRow, Col: c.Col + dCol}
	}
	return out
}

// try commits the candidate cells when they are free.
func (p *Piece) try(next [4]Cell) bool {
	if !p.grid.Free(next[:]) {
		return false
	}
	p.cells = next
	return true
}

func (p *Piece) MoveLeft() bool  { return p.try(p.translated(0, -1)) }
func (p *Piece) MoveRight() bool { return p.try(p.translated(0, 1)) }

// MoveDown moves the piece one row toward row 0. A false result means the
// piece is resting and should be locked.
func (p *Piece) MoveDown() bool { return p.try(p.translated(-1, 0)) }

// Rotate moves the piece to its next orientation if the target cells are free.
// Shapes without a next orientation (O, or an arrangement the rules do not
// recognize) stay as they are.
func (p *Piece) Rotate() bool {
	next, ok := ShapeOf(p.kind).Rotate(p.cells)
	if !ok {
		return false
	}
	return p.try(next)
}

// DropTarget returns the cells the piece would rest on if dropped now.
func (p *Piece) DropTarget() [4]Cell {
	cells := p.cells
	for {
		var next [4]Cell
		for i, c := range cells {
			next[i] = Cell{Row: c.Row - 1, Col: c.Col}
		}
		if !p.grid.Free(next[:]) {
			return cells
		}
		cells = next
	}
}

// Drop moves the piece straight to its resting cells in one commit and
// reports how many rows it fell.
func (p *Piece) Drop() int {
	target := p.DropTarget()
	fell := p.cells[0].Row - target[0].Row
	p.cells = target
	return fell
}
