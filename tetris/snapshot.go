package tetris

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is a detached copy of a session, safe to hand to other goroutines.
type Snapshot struct {
	ID           uuid.UUID
	Stack        [Height][Width]Color
	Tetromino    *Tetromino
	Ghost        *Tetromino
	Next         Shape
	Score        int
	HighScore    int
	Level        int
	LinesClear   int
	FallInterval time.Duration
	GameOver     bool
}

// Read returns a copy of the current session status.
func (s *Session) Read() *Snapshot {
	return &Snapshot{
		ID:           s.id,
		Stack:        s.board.Rows(),
		Tetromino:    s.tetromino.copy(),
		Ghost:        s.Ghost(),
		Next:         s.next,
		Score:        s.score,
		HighScore:    s.highScore,
		Level:        s.level,
		LinesClear:   s.linesClear,
		FallInterval: s.interval,
		GameOver:     s.gameOver,
	}
}

// Frame returns the stack with the falling tetromino drawn on top of it.
func (sn *Snapshot) Frame() [Height][Width]Color {
	frame := sn.Stack
	if sn.Tetromino == nil {
		return frame
	}
	for _, p := range sn.Tetromino.Cells() {
		if p.Row < 0 || p.Row >= Height || p.Col < 0 || p.Col >= Width {
			continue
		}
		frame[p.Row][p.Col] = sn.Tetromino.Color
	}
	return frame
}

// Letter is the single character used for a color in text encodings.
func (c Color) Letter() byte {
	switch c {
	case Cyan:
		return 'I'
	case Yellow:
		return 'O'
	case Purple:
		return 'T'
	case Red:
		return 'Z'
	case Green:
		return 'S'
	case Blue:
		return 'J'
	case Orange:
		return 'L'
	case Ghost:
		return '+'
	default:
		return '.'
	}
}

// Lines encodes the frame as one string per row, '.' for empty cells and
// the shape letter otherwise.
func (sn *Snapshot) Lines() []string {
	frame := sn.Frame()
	lines := make([]string, Height)
	for r, row := range frame {
		b := make([]byte, Width)
		for c, v := range row {
			b[c] = v.Letter()
		}
		lines[r] = string(b)
	}
	return lines
}
