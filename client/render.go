package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"termtris/tetris"
	"text/template"
	"unicode/utf8"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos    = "\033[H"        // Reset cursor position to 0,0
	clearScreen = "\033[2J\033[H" // Clear the screen and reset the cursor

	sidebarWidth = 24
	boxWidth     = 20
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Color]string{
	tetris.Cyan:   Cyan,
	tetris.Blue:   Blue,
	tetris.Orange: Orange,
	tetris.Yellow: Yellow,
	tetris.Green:  Green,
	tetris.Red:    Red,
	tetris.Purple: Magenta,
}

var controls = []string{
	"←/→  move",
	"↑    rotate",
	"↓    soft drop",
	"spc  drop",
}

type templateData struct {
	Local   *tetris.Snapshot
	NoGhost bool
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	*templateData
}

func newRender(w io.Writer, l *slog.Logger, noGhost bool) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{
		writer:       w,
		logger:       l,
		template:     tmp,
		templateData: &templateData{NoGhost: noGhost},
	}, nil
}

// lobby draws the empty well with the welcome box on top.
func (r *render) lobby() {
	fmt.Fprint(r.writer, clearScreen)
	r.local(nil)
	r.box(
		"Welcome to Tetris",
		"",
		"(p)lay   (q)uit",
	)
}

func (r *render) game(s *tetris.Snapshot) {
	r.local(s)
}

func (r *render) gameOver(s *tetris.Snapshot) {
	r.local(s)
	r.box(
		"Game Over",
		fmt.Sprintf("Final Score: %d", s.Score),
		"(r)estart (q)uit",
	)
}

func (r *render) local(s *tetris.Snapshot) {
	r.templateData.Local = s
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template in local()", slog.String("error", err.Error()))
	}
}

// box prints a framed message over the middle of the well.
func (r *render) box(lines ...string) {
	row := 10
	border := "+" + strings.Repeat("-", boxWidth) + "+"
	fmt.Fprintf(r.writer, "\033[%d;2H%s", row, border)
	for _, l := range lines {
		row++
		fmt.Fprintf(r.writer, "\033[%d;2H|%s|", row, center(l, boxWidth))
	}
	fmt.Fprintf(r.writer, "\033[%d;2H%s", row+1, border)
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"well":    well,
		"sidebar": sidebar,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

func block(c tetris.Color) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[c])
}

func well(t *templateData) [tetris.Height][tetris.Width]string {
	rendered := [tetris.Height][tetris.Width]string{}
	for y := range tetris.Height {
		for x := range tetris.Width {
			rendered[y][x] = "  "
		}
	}
	if t.Local == nil {
		return rendered
	}

	// renders the stack
	for y, row := range t.Local.Stack {
		for x, c := range row {
			if c != tetris.Empty {
				rendered[y][x] = block(c)
			}
		}
	}

	// the ghost goes first so the tetromino covers it where they overlap.
	if !t.NoGhost && t.Local.Ghost != nil {
		for _, p := range t.Local.Ghost.Cells() {
			if inside(p) {
				rendered[p.Row][p.Col] = "[]"
			}
		}
	}
	if t.Local.Tetromino != nil {
		for _, p := range t.Local.Tetromino.Cells() {
			if inside(p) {
				rendered[p.Row][p.Col] = block(t.Local.Tetromino.Color)
			}
		}
	}
	return rendered
}

func sidebar(t *templateData) [tetris.Height]string {
	var side [tetris.Height]string
	if t.Local != nil {
		side[0] = "Next:"
		next := nextPiece(t.Local.Next)
		side[1] = next[0]
		side[2] = next[1]
		side[4] = fmt.Sprintf("Score: %d", t.Local.Score)
		side[5] = fmt.Sprintf("High Score: %d", t.Local.HighScore)
		side[6] = fmt.Sprintf("Level: %d", t.Local.Level)
		side[7] = fmt.Sprintf("Lines: %d", t.Local.LinesClear)
	}
	for i, c := range controls {
		side[tetris.Height-len(controls)+i] = c
	}
	for i := range side {
		side[i] = pad(side[i], sidebarWidth)
	}
	return side
}

func nextPiece(s tetris.Shape) [2]string {
	var rendered [2]string
	grid := s.Grid()
	for i := range rendered {
		row := []string{"  ", "  ", "  ", "  "}
		if i < len(grid) {
			for iv, v := range grid[i] {
				if v {
					row[iv] = block(s.Color())
				}
			}
		}
		rendered[i] = strings.Join(row, "")
	}
	return rendered
}

func inside(p tetris.Point) bool {
	return p.Row >= 0 && p.Row < tetris.Height && p.Col >= 0 && p.Col < tetris.Width
}

// pad fills s with spaces up to w visible characters, ignoring escape sequences.
func pad(s string, w int) string {
	n := visibleLen(s)
	if n >= w {
		return s
	}
	return s + strings.Repeat(" ", w-n)
}

func center(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	left := (w - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-n-left)
}

func visibleLen(s string) int {
	var n int
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			n++
		}
	}
	return n
}
