// Package tetris contains the logic of the game: the stack, the tetrominoes
// and the session that moves them around.
package tetris

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const (
	linesPerLevel   = 10
	pointsPerLine   = 100
	initialInterval = 500 * time.Millisecond
	minInterval     = 100 * time.Millisecond
	intervalStep    = 50 * time.Millisecond
)

// Randomizer draws the next shape index. *rand.Rand satisfies it.
type Randomizer interface {
	IntN(n int) int
}

// Session owns the stack, the falling tetromino and the score. It is not safe
// for concurrent use: a single driver loop applies actions and ticks, and
// hands Read() copies to anything else that needs the state.
type Session struct {
	id        uuid.UUID
	board     *Board
	tetromino *Tetromino
	next      Shape

	score      int
	highScore  int
	level      int
	linesClear int
	interval   time.Duration
	elapsed    time.Duration
	gameOver   bool

	rand   Randomizer
	logger *slog.Logger
}

func New(l *slog.Logger) *Session {
	return NewConfigurable(l, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))) //nolint:gosec
}

func NewConfigurable(l *slog.Logger, r Randomizer) *Session {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		board:  NewBoard(),
		rand:   r,
		logger: l,
	}
	s.reset()
	return s
}

// Restart starts a new game. The high score survives.
func (s *Session) Restart() {
	s.reset()
	s.logger.Info("game restarted", slog.String("id", s.id.String()), slog.Int("high_score", s.highScore))
}

func (s *Session) reset() {
	s.id = uuid.New()
	s.board.Reset()
	s.score = 0
	s.level = 1
	s.linesClear = 0
	s.interval = initialInterval
	s.elapsed = 0
	s.gameOver = false
	s.tetromino = spawn(s.draw())
	s.next = s.draw()
}

func (s *Session) draw() Shape {
	return Shapes[s.rand.IntN(len(Shapes))]
}

// lock fixes the tetromino in the stack and finishes the round: lines, score,
// level and speed are updated and either the next tetromino spawns or the game ends.
func (s *Session) lock() {
	s.board.Place(s.tetromino)
	n := s.board.ClearFullLines()
	s.linesClear += n
	s.score += n * pointsPerLine * s.level
	s.setLevel()
	s.interval = fallInterval(s.level)
	s.elapsed = 0
	s.logger.Debug("tetromino locked",
		slog.String("shape", string(s.tetromino.Shape)),
		slog.Int("lines", n),
		slog.Int("score", s.score),
		slog.Int("level", s.level),
	)

	if s.board.IsGameOver() {
		s.endGame()
		return
	}
	s.tetromino = spawn(s.next)
	s.next = s.draw()
	// the stack can reach row 1 while row 0 is still clear. the new tetromino
	// would overlap it, so that ends the game as well.
	if !s.board.IsValid(s.tetromino) {
		s.endGame()
	}
}

func (s *Session) endGame() {
	s.gameOver = true
	s.tetromino = nil
	if s.score > s.highScore {
		s.highScore = s.score
	}
	s.logger.Info("game over",
		slog.String("id", s.id.String()),
		slog.Int("score", s.score),
		slog.Int("high_score", s.highScore),
		slog.Int("lines", s.linesClear),
	)
}

func (s *Session) setLevel() {
	s.level = s.linesClear/linesPerLevel + 1
}

// fallInterval is max(0.1s, 0.5s - (level-1) * 0.05s), kept in whole
// milliseconds so every level lands on an exact duration.
func fallInterval(level int) time.Duration {
	return max(minInterval, initialInterval-time.Duration(level-1)*intervalStep)
}

func (s *Session) ID() uuid.UUID               { return s.id }
func (s *Session) Score() int                  { return s.score }
func (s *Session) HighScore() int              { return s.highScore }
func (s *Session) Level() int                  { return s.level }
func (s *Session) LinesClear() int             { return s.linesClear }
func (s *Session) FallInterval() time.Duration { return s.interval }
func (s *Session) IsGameOver() bool            { return s.gameOver }
func (s *Session) Next() Shape                 { return s.next }

// Board exposes the stack for reading. Callers must not hold on to it across actions.
func (s *Session) Board() *Board { return s.board }

// Tetromino returns a copy of the falling tetromino, nil once the game is over.
func (s *Session) Tetromino() *Tetromino { return s.tetromino.copy() }
