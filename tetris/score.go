package tetris

// ScoreRules decides how many points an event is worth.
type ScoreRules interface {
	// AddOnDrop is awarded when a piece locks after a player drop.
	AddOnDrop(totalRows, score int) int
	// AddOnRemovedLines is awarded when lines rows are cleared at once;
	// totalRows already includes them.
	AddOnRemovedLines(lines, totalRows, score int) int
}

// PointRules is the classic rule set: a flat bonus per player drop and
// LineBase * 2^(n-1) for n rows cleared together.
type PointRules struct {
	DropBonus int
	LineBase  int
}

// DefaultScoreRules returns 10 points per drop and 100, 200, 400, 800 for one
// to four rows.
func DefaultScoreRules() PointRules {
	return PointRules{DropBonus: 10, LineBase: 100}
}

func (r PointRules) AddOnDrop(totalRows, score int) int {
	return r.DropBonus
}

func (r PointRules) AddOnRemovedLines(lines, totalRows, score int) int {
	if lines <= 0 {
		return 0
	}
	return r.LineBase << (lines - 1)
}
