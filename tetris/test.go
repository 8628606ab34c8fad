package tetris

import (
	"log/slog"
	"slices"
)

// ScriptedRand is a Randomizer that hands out shapes in a fixed order, looping at the end.
type ScriptedRand struct {
	shapes []Shape
	pos    int
}

func NewScriptedRand(shapes ...Shape) *ScriptedRand {
	return &ScriptedRand{shapes: shapes}
}

func (r *ScriptedRand) IntN(n int) int {
	if len(r.shapes) == 0 {
		return 0
	}
	s := r.shapes[r.pos%len(r.shapes)]
	r.pos++
	return slices.Index(Shapes[:n], s)
}

// NewTestSession creates a session whose tetrominoes are all of the given shape.
func NewTestSession(shape Shape) *Session {
	return NewConfigurable(slog.New(slog.DiscardHandler), NewScriptedRand(shape))
}

// Fill sets the given stack cells to c. Used to build test scenarios.
func (b *Board) Fill(c Color, cells ...Point) {
	for _, p := range cells {
		if p.Row < 0 || p.Row >= Height || p.Col < 0 || p.Col >= Width {
			continue
		}
		b.cells[p.Row][p.Col] = c
	}
}
