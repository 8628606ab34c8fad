package spectate

import "termtris/tetris"

// State is the wire form of a snapshot shared by every spectator feed.
type State struct {
	ID           string   `json:"id"`
	Score        int      `json:"score"`
	HighScore    int      `json:"high_score"`
	Level        int      `json:"level"`
	Lines        int      `json:"lines"`
	FallInterval string   `json:"fall_interval"`
	GameOver     bool     `json:"game_over"`
	Next         string   `json:"next"`
	Board        []string `json:"board"`
}

func NewState(s *tetris.Snapshot) State {
	return State{
		ID:           s.ID.String(),
		Score:        s.Score,
		HighScore:    s.HighScore,
		Level:        s.Level,
		Lines:        s.LinesClear,
		FallInterval: s.FallInterval.String(),
		GameOver:     s.GameOver,
		Next:         string(s.Next),
		Board:        s.Lines(),
	}
}
