package game

import "fmt"

// Kind identifies one of the seven piece shapes.
type Kind int

const (
	KindO Kind = iota
	KindI
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// Kinds lists every shape in catalog order.
var Kinds = []Kind{KindO, KindI, KindT, KindS, KindZ, KindJ, KindL}

func (k Kind) String() string {
	switch k {
	case KindO:
		return "O"
	case KindI:
		return "I"
	case KindT:
		return "T"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k names a catalog shape.
func (k Kind) Valid() bool {
	return k >= KindO && k <= KindL
}

// Offset is a (dRow, dCol) displacement from the spawn anchor.
type Offset struct {
	DRow, DCol int
}

// rotateFunc computes the next orientation from the four ordered cells of a
// piece. ok is false when the arrangement is not one the shape knows.
type rotateFunc func(c [4]Cell) (next [4]Cell, ok bool)

// Shape is the constant data of a kind.
type Shape struct {
	Kind    Kind
	Width   int
	Offsets [4]Offset
	Color   int
	rotate  rotateFunc
}

func newShape(kind Kind, width, color int, offsets []Offset, rotate rotateFunc) Shape {
	if len(offsets) != 4 {
		panic(fmt.Sprintf("shape %s: expecting 4 offsets, got %d", kind, len(offsets)))
	}
	s := Shape{Kind: kind, Width: width, Color: color, rotate: rotate}
	copy(s.Offsets[:], offsets)
	return s
}

var shapes = [...]Shape{
	KindO: newShape(KindO, 2, 3, []Offset{{-1, 0}, {-1, 1}, {0, 0}, {0, 1}}, rotateO),
	KindI: newShape(KindI, 4, 6, []Offset{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, rotateI),
	KindT: newShape(KindT, 3, 5, []Offset{{-1, 1}, {0, 0}, {0, 1}, {0, 2}}, rotateT),
	KindS: newShape(KindS, 3, 2, []Offset{{-1, 0}, {-1, 1}, {0, 1}, {0, 2}}, rotateS),
	KindZ: newShape(KindZ, 3, 1, []Offset{{-1, 1}, {-1, 2}, {0, 0}, {0, 1}}, rotateZ),
	KindJ: newShape(KindJ, 3, 4, []Offset{{-1, 0}, {-1, 1}, {-1, 2}, {0, 0}}, rotateJ),
	KindL: newShape(KindL, 3, 7, []Offset{{-1, 0}, {-1, 1}, {-1, 2}, {0, 2}}, rotateL),
}

// ShapeOf returns the catalog entry for k.
func ShapeOf(k Kind) Shape {
	if !k.Valid() {
		panic(fmt.Sprintf("unknown piece kind %d", int(k)))
	}
	return shapes[k]
}

// Anchor returns the spawn anchor of the shape in a rows x cols grid: the top
// row, horizontally centered by the shape's width.
func (s Shape) Anchor(rows, cols int) Cell {
	return Cell{Row: rows - 1, Col: (cols - s.Width) / 2}
}

// SpawnCells places the offsets at the anchor.
func (s Shape) SpawnCells(rows, cols int) [4]Cell {
	a := s.Anchor(rows, cols)
	var out [4]Cell
	for i, o := range s.Offsets {
		out[i] = Cell{Row: a.Row + o.DRow, Col: a.Col + o.DCol}
	}
	return out
}

// Rotate returns the candidate cells for the next orientation. The result is
// not validated against any grid.
func (s Shape) Rotate(cells [4]Cell) ([4]Cell, bool) {
	return s.rotate(cells)
}

func at(row, col int) Cell { return Cell{Row: row, Col: col} }

func rotateO(c [4]Cell) ([4]Cell, bool) {
	return c, false
}

func rotateI(c [4]Cell) ([4]Cell, bool) {
	if c[0].Row == c[1].Row {
		return [4]Cell{
			at(c[1].Row-2, c[1].Col),
			at(c[1].Row-1, c[1].Col),
			at(c[1].Row, c[1].Col),
			at(c[1].Row+1, c[1].Col),
		}, true
	}
	return [4]Cell{
		at(c[2].Row, c[1].Col-1),
		at(c[2].Row, c[1].Col),
		at(c[2].Row, c[1].Col+1),
		at(c[2].Row, c[1].Col+2),
	}, true
}

func rotateT(c [4]Cell) ([4]Cell, bool) {
	switch {
	case c[0].Row+1 == c[1].Row && c[1].Row == c[2].Row && c[2].Row == c[3].Row:
		// pointing down
		return [4]Cell{c[0], c[1], c[2], at(c[2].Row+1, c[2].Col)}, true
	case c[0].Col == c[2].Col && c[2].Col == c[3].Col && c[1].Col == c[0].Col-1:
		// pointing left
		return [4]Cell{c[1], c[2], at(c[2].Row, c[2].Col+1), c[3]}, true
	case c[0].Row == c[1].Row && c[1].Row == c[2].Row && c[3].Row == c[0].Row+1:
		// pointing up
		return [4]Cell{at(c[1].Row-1, c[1].Col), c[1], c[2], c[3]}, true
	case c[0].Col == c[1].Col && c[1].Col == c[3].Col && c[2].Row == c[1].Row:
		// pointing right
		return [4]Cell{c[0], at(c[1].Row, c[1].Col-1), c[1], c[2]}, true
	}
	return c, false
}

func rotateS(c [4]Cell) ([4]Cell, bool) {
	if c[0].Row == c[1].Row {
		return [4]Cell{
			at(c[1].Row-1, c[1].Col),
			c[0],
			c[1],
			at(c[0].Row+1, c[0].Col),
		}, true
	}
	return [4]Cell{
		c[1],
		c[2],
		at(c[2].Row+1, c[2].Col),
		at(c[2].Row+1, c[2].Col+1),
	}, true
}

func rotateZ(c [4]Cell) ([4]Cell, bool) {
	if c[0].Row == c[1].Row {
		return [4]Cell{
			at(c[0].Row-1, c[0].Col),
			c[0],
			c[1],
			at(c[1].Row+1, c[1].Col),
		}, true
	}
	return [4]Cell{
		c[1],
		c[2],
		at(c[1].Row+1, c[1].Col-1),
		at(c[1].Row+1, c[1].Col),
	}, true
}

func rotateJ(c [4]Cell) ([4]Cell, bool) {
	switch {
	case c[0].Row == c[1].Row && c[1].Row == c[2].Row && c[2].Row+1 == c[3].Row:
		// pointing right
		return [4]Cell{c[0], c[3], at(c[3].Row+1, c[3].Col), at(c[3].Row+1, c[3].Col+1)}, true
	case c[0].Col == c[1].Col && c[1].Col == c[2].Col && c[2].Col+1 == c[3].Col && c[2].Row == c[3].Row:
		// pointing down
		return [4]Cell{at(c[3].Row-1, c[3].Col+1), c[2], c[3], at(c[3].Row, c[3].Col+1)}, true
	case c[0].Row+1 == c[1].Row && c[1].Row == c[2].Row && c[2].Row == c[3].Row:
		// pointing left
		return [4]Cell{at(c[0].Row-1, c[0].Col-1), at(c[0].Row-1, c[0].Col), c[3], c[0]}, true
	case c[0].Row == c[1].Row && c[0].Col+1 == c[1].Col && c[1].Col == c[2].Col && c[2].Col == c[3].Col:
		// pointing up
		return [4]Cell{at(c[0].Row, c[0].Col-1), c[0], c[1], at(c[0].Row+1, c[0].Col-1)}, true
	}
	return c, false
}

func rotateL(c [4]Cell) ([4]Cell, bool) {
	switch {
	case c[0].Row == c[1].Row && c[1].Row == c[2].Row && c[2].Row+1 == c[3].Row:
		// pointing left
		return [4]Cell{c[0], c[1], at(c[0].Row+1, c[0].Col), at(c[0].Row+2, c[0].Col)}, true
	case c[0].Col == c[2].Col && c[2].Col == c[3].Col && c[0].Col+1 == c[1].Col && c[0].Row == c[1].Row:
		// pointing up
		return [4]Cell{c[2], c[3], at(c[3].Row, c[3].Col+1), at(c[3].Row, c[3].Col+2)}, true
	case c[0].Row+1 == c[1].Row && c[1].Row == c[2].Row && c[2].Row == c[3].Row:
		// pointing right
		return [4]Cell{at(c[3].Row-2, c[3].Col), at(c[3].Row-1, c[3].Col), c[2], c[3]}, true
	case c[0].Col == c[1].Col && c[1].Col == c[3].Col && c[2].Row == c[3].Row && c[2].Col+1 == c[3].Col:
		// pointing down
		return [4]Cell{at(c[0].Row, c[0].Col-2), at(c[0].Row, c[0].Col-1), c[0], c[1]}, true
	}
	return c, false
}
