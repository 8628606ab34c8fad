package tetris

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeCatalogue(t *testing.T) {
	t.Run("grid is a copy of the catalogue", func(t *testing.T) {
		g := T.Grid()
		g[0][0] = false
		assert.True(t, T.Grid()[0][0], "catalogue must not be mutated through Grid()")
	})

	t.Run("every shape has four cells and a color", func(t *testing.T) {
		for _, s := range Shapes {
			var n int
			for _, r := range s.Grid() {
				for _, c := range r {
					if c {
						n++
					}
				}
			}
			assert.Equal(t, 4, n, "shape %s", s)
			assert.NotEqual(t, Empty, s.Color(), "shape %s", s)
		}
	})
}

func TestSpawn(t *testing.T) {
	tests := []struct {
		shape Shape
		wantX int
	}{
		{I, 3},
		{O, 4},
		{T, 4},
		{Z, 4},
		{S, 4},
		{J, 4},
		{L, 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.shape), func(t *testing.T) {
			tm := spawn(tt.shape)
			if tm.X != tt.wantX {
				t.Errorf("wanted X to be %d, got %d", tt.wantX, tm.X)
			}
			if tm.Y != 0 {
				t.Errorf("wanted Y to be 0, got %d", tm.Y)
			}
			if tm.Color != tt.shape.Color() {
				t.Errorf("wanted color %v, got %v", tt.shape.Color(), tm.Color)
			}
		})
	}
}

func TestCells(t *testing.T) {
	//	. 3 4 5 6
	//	0 . O O O
	//	1 . . O .
	tm := spawn(T)
	want := []Point{{4, 0}, {5, 0}, {6, 0}, {5, 1}}
	if got := tm.Cells(); !reflect.DeepEqual(got, want) {
		t.Errorf("wanted %v, got %v", want, got)
	}

	tm.translate(-1, 2)
	want = []Point{{3, 2}, {4, 2}, {5, 2}, {4, 3}}
	if got := tm.Cells(); !reflect.DeepEqual(got, want) {
		t.Errorf("wanted %v, got %v", want, got)
	}
}

func TestIsValid(t *testing.T) {
	//	. 0 1 2 3 4 5 6 7 8 9
	//	0 . . . . O O O . . .
	//	1 . . . . . O . . . .
	//	2 . . . . . X . . . .
	tests := []struct {
		name   string
		dx, dy int
		want   bool
	}{
		{name: "spawn position", want: true},
		{name: "stack collision", dy: 1},
		{name: "left bound", dx: -5},
		{name: "left wall touching", dx: -4, want: true},
		{name: "right bound", dx: 4},
		{name: "right wall touching", dx: 3, want: true},
		{name: "floor", dx: 2, dy: 19},
		{name: "resting on floor", dx: 2, dy: 18, want: true},
		{name: "above the well only checks columns", dy: -5, want: true},
		{name: "above the well out of columns", dx: 4, dy: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBoard()
			b.Fill(Red, Point{5, 2})
			tm := spawn(T)
			tm.translate(tt.dx, tt.dy)
			assert.Equal(t, tt.want, b.IsValid(tm))
		})
	}
}

func TestRotate(t *testing.T) {
	t.Run("rotates clockwise", func(t *testing.T) {
		b := NewBoard()
		tm := spawn(T)
		require.True(t, tm.rotate(b))
		want := [][]bool{
			{false, true},
			{true, true},
			{false, true},
		}
		assert.Equal(t, want, tm.Grid)
		assert.Equal(t, 4, tm.X)
		assert.Equal(t, 0, tm.Y)
	})

	t.Run("four rotations return to the spawn grid", func(t *testing.T) {
		b := NewBoard()
		for _, s := range Shapes {
			tm := spawn(s)
			tm.translate(0, 5)
			for range 4 {
				require.True(t, tm.rotate(b), "shape %s", s)
			}
			assert.Equal(t, s.Grid(), tm.Grid, "shape %s", s)
		}
	})

	t.Run("blocked by the stack is a no-op", func(t *testing.T) {
		b := NewBoard()
		b.Fill(Red, Point{5, 2})
		tm := spawn(T)
		before := tm.copy()
		assert.False(t, tm.rotate(b))
		assert.True(t, reflect.DeepEqual(before, tm))
	})

	t.Run("blocked by the wall doesn't kick", func(t *testing.T) {
		b := NewBoard()
		tm := spawn(I)
		require.True(t, tm.rotate(b))
		tm.translate(6, 0) // vertical I on the right wall
		require.True(t, b.IsValid(tm))
		before := tm.copy()
		assert.False(t, tm.rotate(b))
		assert.True(t, reflect.DeepEqual(before, tm))
	})

	t.Run("blocked by the floor doesn't kick", func(t *testing.T) {
		b := NewBoard()
		tm := spawn(I)
		tm.translate(0, Height-1)
		before := tm.copy()
		assert.False(t, tm.rotate(b))
		assert.True(t, reflect.DeepEqual(before, tm))
	})
}

func TestPlace(t *testing.T) {
	b := NewBoard()
	tm := spawn(J)
	tm.translate(0, 3)
	b.Place(tm)

	want := NewBoard()
	want.Fill(Blue, Point{4, 3}, Point{5, 3}, Point{6, 3}, Point{6, 4})
	assert.Equal(t, want.Rows(), b.Rows())

	t.Run("cells above the well are skipped", func(t *testing.T) {
		b := NewBoard()
		tm := spawn(J)
		tm.translate(0, -1)
		b.Place(tm)
		want := NewBoard()
		want.Fill(Blue, Point{6, 0})
		assert.Equal(t, want.Rows(), b.Rows())
	})
}

// marker fills row with a pattern unique to id that never completes the row.
func marker(b *Board, id, row int) {
	if id < Width {
		b.Fill(Blue, Point{id, row})
		return
	}
	b.Fill(Red, Point{id - Width, row})
}

func fullRow(b *Board, row int) {
	for c := range Width {
		b.Fill(Green, Point{c, row})
	}
}

func TestClearFullLines(t *testing.T) {
	t.Run("no full rows", func(t *testing.T) {
		b := NewBoard()
		for r := range Height {
			marker(b, r, r)
		}
		before := b.Rows()
		assert.Equal(t, 0, b.ClearFullLines())
		assert.Equal(t, before, b.Rows())
	})

	t.Run("rows 2 and 5 full", func(t *testing.T) {
		b := NewBoard()
		for r := range Height {
			if r == 2 || r == 5 {
				fullRow(b, r)
				continue
			}
			marker(b, r, r)
		}
		assert.Equal(t, 2, b.ClearFullLines())

		// rows 0,1 move down two, rows 3,4 move down one, the rest stay.
		want := NewBoard()
		marker(want, 0, 2)
		marker(want, 1, 3)
		marker(want, 3, 4)
		marker(want, 4, 5)
		for r := 6; r < Height; r++ {
			marker(want, r, r)
		}
		assert.Equal(t, want.Rows(), b.Rows())
		assert.Equal(t, [Width]Color{}, b.Rows()[0])
		assert.Equal(t, [Width]Color{}, b.Rows()[1])
	})

	t.Run("adjacent full rows at the bottom", func(t *testing.T) {
		b := NewBoard()
		fullRow(b, 18)
		fullRow(b, 19)
		marker(b, 3, 17)
		marker(b, 12, 16)
		assert.Equal(t, 2, b.ClearFullLines())

		want := NewBoard()
		marker(want, 3, 19)
		marker(want, 12, 18)
		assert.Equal(t, want.Rows(), b.Rows())
	})

	t.Run("every row full clears the board", func(t *testing.T) {
		b := NewBoard()
		for r := range Height {
			fullRow(b, r)
		}
		assert.Equal(t, Height, b.ClearFullLines())
		assert.Equal(t, NewBoard().Rows(), b.Rows())
	})
}

func TestIsGameOver(t *testing.T) {
	b := NewBoard()
	assert.False(t, b.IsGameOver())
	b.Fill(Red, Point{0, 1})
	assert.False(t, b.IsGameOver())
	b.Fill(Red, Point{9, 0})
	assert.True(t, b.IsGameOver())
	b.Reset()
	assert.False(t, b.IsGameOver())
	assert.Equal(t, NewBoard().Rows(), b.Rows())
}

func TestCell(t *testing.T) {
	b := NewBoard()
	b.Fill(Orange, Point{2, 7})
	assert.Equal(t, Orange, b.Cell(2, 7))
	assert.Equal(t, Empty, b.Cell(-1, 7))
	assert.Equal(t, Empty, b.Cell(2, Height))
}
