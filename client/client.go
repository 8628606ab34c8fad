package client

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"termtris/tetris"
	"time"

	"github.com/eiannone/keyboard"
)

const (
	defaultFPS = 60
	kbBuffer   = 20
)

var errKeyboardClosed = errors.New("keyboard events channel closed unexpectedly")

type clientState int

const (
	lobby clientState = iota
	playing
	gameOver
)

// Ticker paces the frame loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time { return t.ticker.C }
func (t *wrappedTicker) Stop()               { t.ticker.Stop() }

type renderer interface {
	lobby()
	game(*tetris.Snapshot)
	gameOver(*tetris.Snapshot)
}

// Publisher receives a copy of the game after every frame.
type Publisher interface {
	Publish(*tetris.Snapshot)
}

type tetrisGame interface {
	Action(tetris.Action)
	Tick(time.Duration)
	IsGameOver() bool
	Read() *tetris.Snapshot
}

type Client struct {
	tetris    tetrisGame
	render    renderer
	publisher Publisher
	logger    *slog.Logger
	kbCh      <-chan keyboard.KeyEvent
	ticker    Ticker
	state     clientState
	last      time.Time
}

type Options struct {
	NoGhost   bool
	FPS       int
	Writer    io.Writer
	Publisher Publisher
}

// New opens the keyboard and prepares the renderer. Close must be called to
// give the terminal back.
func New(l *slog.Logger, t *tetris.Session, o *Options) (*Client, error) {
	var w io.Writer = os.Stdout
	if o.Writer != nil {
		w = o.Writer
	}
	r, err := newRender(w, l, o.NoGhost)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(kbBuffer)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	fps := o.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	return &Client{
		tetris:    t,
		render:    r,
		publisher: o.Publisher,
		logger:    l,
		kbCh:      kb,
		ticker:    newWrappedTicker(time.Second / time.Duration(fps)),
		state:     lobby,
	}, nil
}

func (c *Client) Close() error {
	c.ticker.Stop()
	return keyboard.Close()
}

// Start runs the frame loop until the player quits.
func (c *Client) Start() error {
	c.render.lobby()
	c.last = time.Now()
	for now := range c.ticker.C() {
		quit, err := c.frame(now)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	return nil
}

// frame drains the pending key events, advances gravity by the time since
// the previous frame and redraws.
func (c *Client) frame(now time.Time) (bool, error) {
drain:
	for range kbBuffer {
		select {
		case event, ok := <-c.kbCh:
			if !ok {
				return false, errKeyboardClosed
			}
			if event.Err != nil {
				return false, fmt.Errorf("keysEvents error: %w", event.Err)
			}
			if c.handleKey(event) {
				return true, nil
			}
		default:
			break drain
		}
	}

	elapsed := now.Sub(c.last)
	c.last = now
	if c.state == playing {
		c.tetris.Tick(elapsed)
		if c.tetris.IsGameOver() {
			c.state = gameOver
		}
	}

	switch c.state {
	case playing:
		snap := c.tetris.Read()
		c.render.game(snap)
		c.publish(snap)
	case gameOver:
		snap := c.tetris.Read()
		c.render.gameOver(snap)
		c.publish(snap)
	}
	return false, nil
}

// handleKey applies a single key event and reports whether the player quit.
func (c *Client) handleKey(event keyboard.KeyEvent) bool {
	if event.Key == keyboard.KeyCtrlC {
		return true
	}
	switch c.state {
	case lobby:
		switch {
		case event.Rune == 'p' || event.Key == keyboard.KeySpace:
			c.logger.Info("game started")
			c.state = playing
		case event.Rune == 'q':
			return true
		}
	case playing:
		a, ok := actionFor(event)
		if !ok {
			return false
		}
		c.tetris.Action(a)
		if c.tetris.IsGameOver() {
			c.state = gameOver
		}
	case gameOver:
		switch event.Rune {
		case 'r':
			c.tetris.Action(tetris.Restart)
			c.state = playing
		case 'q':
			return true
		}
	}
	return false
}

func actionFor(event keyboard.KeyEvent) (tetris.Action, bool) {
	switch {
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return tetris.MoveDown, true
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return tetris.MoveLeft, true
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return tetris.MoveRight, true
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'w':
		return tetris.Rotate, true
	case event.Key == keyboard.KeySpace:
		return tetris.DropDown, true
	}
	return "", false
}

func (c *Client) publish(s *tetris.Snapshot) {
	if c.publisher != nil {
		c.publisher.Publish(s)
	}
}
