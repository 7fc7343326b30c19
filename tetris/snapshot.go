package tetris

import "strings"

// PieceView is the renderable description of a piece.
type PieceView struct {
	Shape       string  `json:"shape"`
	Color       Color   `json:"color"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Orientation int     `json:"orientation"`
	Cells       []Point `json:"cells"`
}

// Snapshot is a copy of everything a renderer needs. It shares no memory with
// the game it was taken from.
type Snapshot struct {
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Cells   [][]Color  `json:"cells"`
	Current *PieceView `json:"current,omitempty"`
	Next    *PieceView `json:"next,omitempty"`
	Score   int        `json:"score"`
	Rows    int        `json:"rows"`
	State   State      `json:"state"`
	Delay   float64    `json:"delay"`
}

// Snapshot captures the current game state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Width:   g.board.Width(),
		Height:  g.board.Height(),
		Cells:   g.board.Rows(),
		Current: g.current.view(),
		Next:    g.next.view(),
		Score:   g.score,
		Rows:    g.rows,
		State:   g.state,
		Delay:   g.delay,
	}
}

// String renders the board as text: '#' for locked blocks, '@' for the active
// piece while playing and '.' for empty cells.
func (s Snapshot) String() string {
	active := make(map[Point]bool, 4)
	if s.Current != nil && s.State == Playing {
		for _, p := range s.Current.Cells {
			active[p] = true
		}
	}

	var sb strings.Builder
	sb.Grow((s.Width + 1) * s.Height)
	for y, row := range s.Cells {
		for x, c := range row {
			switch {
			case active[Point{X: x, Y: y}]:
				sb.WriteByte('@')
			case c != "":
				sb.WriteByte('#')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
