package tetris

const (
	Width  = 10
	Height = 20
)

// Board is the playfield. 20 rows x 10 columns.
// Columns are 0 > 9 left to right, rows are 0 > 19 top to bottom.
type Board struct {
	cells [Height][Width]Color
}

func NewBoard() *Board {
	return &Board{}
}

// IsValid reports whether every cell of t is inside the well and on an empty cell.
// Cells above the well (row < 0) are only checked against the side walls so a
// tetromino can spawn partially above the visible grid.
//
//	. 0 1 2 3 4 5 6 7 8 9
//	-1 . . . O . . . . . .	<- only the column is checked
//	0  . . . O O O . . . .
//	1  . . . . . X . . . .
func (b *Board) IsValid(t *Tetromino) bool {
	for _, p := range t.Cells() {
		if p.Col < 0 || p.Col >= Width || p.Row >= Height {
			return false
		}
		if p.Row >= 0 && b.cells[p.Row][p.Col] != Empty {
			return false
		}
	}
	return true
}

// Place copies t into the stack using its color. Cells above the well are skipped.
func (b *Board) Place(t *Tetromino) {
	for _, p := range t.Cells() {
		if p.Row < 0 || p.Row >= Height || p.Col < 0 || p.Col >= Width {
			continue
		}
		b.cells[p.Row][p.Col] = t.Color
	}
}

// ClearFullLines removes every complete row and drops the rows above it.
// Full rows are found before anything moves, so multiple clears are consistent.
func (b *Board) ClearFullLines() int {
	var full [Height]bool
	count := 0
	for r := range Height {
		if b.isFull(r) {
			full[r] = true
			count++
		}
	}
	if count == 0 {
		return 0
	}

	// walk from the bottom and compact the remaining rows downwards.
	var cleared [Height][Width]Color
	dst := Height - 1
	for src := Height - 1; src >= 0; src-- {
		if full[src] {
			continue
		}
		cleared[dst] = b.cells[src]
		dst--
	}
	b.cells = cleared
	return count
}

func (b *Board) isFull(row int) bool {
	for _, c := range b.cells[row] {
		if c == Empty {
			return false
		}
	}
	return true
}

// IsGameOver is true once anything has been placed on the top row.
func (b *Board) IsGameOver() bool {
	for _, c := range b.cells[0] {
		if c != Empty {
			return true
		}
	}
	return false
}

func (b *Board) Reset() {
	b.cells = [Height][Width]Color{}
}

// Cell returns the color at col, row. Out of range coordinates read as Empty.
func (b *Board) Cell(col, row int) Color {
	if col < 0 || col >= Width || row < 0 || row >= Height {
		return Empty
	}
	return b.cells[row][col]
}

// Rows returns a copy of the stack.
func (b *Board) Rows() [Height][Width]Color {
	return b.cells
}
