package tetris

// Color is the content of a stack cell. Empty cells are the zero value,
// every other value is the color of the tetromino that was placed there.
type Color int

const (
	Empty Color = iota
	Cyan
	Yellow
	Purple
	Red
	Green
	Blue
	Orange
	// Ghost is only used by the drop preview, it never reaches the stack.
	Ghost
)

type Shape string

const (
	I Shape = "I"
	O Shape = "O"
	T Shape = "T"
	Z Shape = "Z"
	S Shape = "S"
	J Shape = "J"
	L Shape = "L"
)

// Shapes lists the catalogue in draw order.
var Shapes = []Shape{I, O, T, Z, S, J, L}

type shapeDef struct {
	grid  [][]bool
	color Color
}

/*
.	I			O		T			Z			S			J			L

.	O O O O		O O		O O O		O O X		X O O		O O O		O O O
.				O O		X O X		X O O		O O X		X X O		O X X
*/
var catalogue = map[Shape]shapeDef{
	I: {grid: [][]bool{{true, true, true, true}}, color: Cyan},
	O: {grid: [][]bool{{true, true}, {true, true}}, color: Yellow},
	T: {grid: [][]bool{{true, true, true}, {false, true, false}}, color: Purple},
	Z: {grid: [][]bool{{true, true, false}, {false, true, true}}, color: Red},
	S: {grid: [][]bool{{false, true, true}, {true, true, false}}, color: Green},
	J: {grid: [][]bool{{true, true, true}, {false, false, true}}, color: Blue},
	L: {grid: [][]bool{{true, true, true}, {true, false, false}}, color: Orange},
}

// Grid returns a copy of the shape's matrix, the catalogue itself is never handed out.
func (s Shape) Grid() [][]bool {
	def, ok := catalogue[s]
	if !ok {
		return nil
	}
	return copyGrid(def.grid)
}

func (s Shape) Color() Color {
	return catalogue[s].color
}

// Point is an absolute stack coordinate. Row 0 is the top of the well.
type Point struct {
	Col, Row int
}

type Tetromino struct {
	Grid  [][]bool
	X     int // column of the grid's top-left corner
	Y     int // row of the grid's top-left corner
	Shape Shape
	Color Color
}

// spawn places a new tetromino on row 0, centered with the odd column going to the left.
func spawn(s Shape) *Tetromino {
	grid := s.Grid()
	return &Tetromino{
		Grid:  grid,
		X:     Width/2 - len(grid[0])/2,
		Y:     0,
		Shape: s,
		Color: s.Color(),
	}
}

// translate moves the tetromino without validating, callers revert on collision.
func (t *Tetromino) translate(dx, dy int) {
	t.X += dx
	t.Y += dy
}

// rotated returns the grid rotated clockwise: rows reversed, then transposed.
//
//	. 0 1 2			. 0 1
//	0 O O O	  >>	0 X O
//	1 X X O			1 X O
//					2 O O
func (t *Tetromino) rotated() [][]bool {
	rows := len(t.Grid)
	if rows == 0 {
		return nil
	}
	cols := len(t.Grid[0])
	out := make([][]bool, cols)
	for c := range cols {
		out[c] = make([]bool, rows)
		for r := range rows {
			out[c][r] = t.Grid[rows-1-r][c]
		}
	}
	return out
}

// rotate applies the clockwise rotation only if the result is valid on b.
// There are no wall kicks: a blocked rotation leaves the tetromino untouched.
func (t *Tetromino) rotate(b *Board) bool {
	previous := t.Grid
	t.Grid = t.rotated()
	if !b.IsValid(t) {
		t.Grid = previous
		return false
	}
	return true
}

// Cells returns the absolute coordinates of the filled cells in row-major order.
func (t *Tetromino) Cells() []Point {
	var cells []Point
	for ir, r := range t.Grid {
		for ic, c := range r {
			if c {
				cells = append(cells, Point{Col: t.X + ic, Row: t.Y + ir})
			}
		}
	}
	return cells
}

func (t *Tetromino) copy() *Tetromino {
	if t == nil {
		return nil
	}
	return &Tetromino{
		Grid:  copyGrid(t.Grid),
		X:     t.X,
		Y:     t.Y,
		Shape: t.Shape,
		Color: t.Color,
	}
}

func copyGrid(g [][]bool) [][]bool {
	out := make([][]bool, len(g))
	for i := range g {
		out[i] = make([]bool, len(g[i]))
		copy(out[i], g[i])
	}
	return out
}
