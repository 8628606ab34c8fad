package tetris

import (
	"log/slog"
	"time"
)

type Action string

const (
	MoveLeft  Action = "left"    // Moves the Tetromino one step to the left.
	MoveRight Action = "right"   // Moves the Tetromino one step to the right.
	MoveDown  Action = "down"    // Moves the Tetromino one step down.
	DropDown  Action = "drop"    // Drops the Tetromino down the stack and locks it.
	Rotate    Action = "rotate"  // Rotates the Tetromino clockwise.
	Restart   Action = "restart" // Starts a new game. Only valid after game over.
)

// Action applies a single player command. Blocked moves are silently dropped.
// Once the game is over only Restart is accepted, and Restart is ignored while playing.
func (s *Session) Action(a Action) {
	if s.gameOver {
		if a == Restart {
			s.Restart()
		}
		return
	}

	switch a {
	case MoveLeft:
		s.move(-1, 0)
	case MoveRight:
		s.move(1, 0)
	case MoveDown:
		// a blocked soft drop doesn't lock, only gravity and drop do.
		s.move(0, 1)
	case Rotate:
		s.tetromino.rotate(s.board)
	case DropDown:
		s.drop()
	case Restart:
	default:
		s.logger.Warn("unknown action", slog.String("action", string(a)))
	}
}

// Tick advances the gravity clock. When the accumulated time goes past the
// current fall interval the tetromino falls one row, or locks if it can't.
func (s *Session) Tick(elapsed time.Duration) {
	if s.gameOver {
		return
	}
	s.elapsed += elapsed
	if s.elapsed <= s.interval {
		return
	}
	s.elapsed = 0
	if !s.move(0, 1) {
		s.lock()
	}
}

// move translates the tetromino and reverts it if the new position is invalid.
func (s *Session) move(dx, dy int) bool {
	s.tetromino.translate(dx, dy)
	if !s.board.IsValid(s.tetromino) {
		s.tetromino.translate(-dx, -dy)
		return false
	}
	return true
}

func (s *Session) drop() {
	s.tetromino.translate(0, s.dropDownDelta(s.tetromino))
	s.lock()
}

// dropDownDelta returns how many rows t can fall before hitting the stack or the floor.
func (s *Session) dropDownDelta(t *Tetromino) int {
	test := t.copy()
	var delta int
	for {
		test.translate(0, 1)
		if !s.board.IsValid(test) {
			return delta
		}
		delta++
	}
}

// Ghost returns the drop preview: a copy of the falling tetromino moved
// straight down as far as it goes. Nil once the game is over.
func (s *Session) Ghost() *Tetromino {
	if s.tetromino == nil {
		return nil
	}
	g := s.tetromino.copy()
	g.translate(0, s.dropDownDelta(g))
	g.Color = Ghost
	return g
}
