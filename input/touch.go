package input

import (
	"math"
	"time"

	"github.com/plus3/blockfall/tetris"
)

// GestureKind says how a Gesture is applied to a game.
type GestureKind int

const (
	// GestureCommand applies Gesture.Command.
	GestureCommand GestureKind = iota
	// GestureStart starts a cancelled game or resumes a paused one.
	GestureStart
	// GestureMoveTo slides the piece to Gesture.Column.
	GestureMoveTo
	// GestureStepDown drops the piece down to Gesture.Row.
	GestureStepDown
)

type Gesture struct {
	Kind    GestureKind
	Command tetris.Command
	Column  int
	Row     int
}

// Apply performs the gesture on g.
func (gs Gesture) Apply(g *tetris.Game) {
	switch gs.Kind {
	case GestureCommand:
		g.Apply(gs.Command)
	case GestureStart:
		g.StartContinue()
	case GestureMoveTo:
		g.MoveTo(gs.Column)
	case GestureStepDown:
		g.StepDownTo(gs.Row)
	}
}

// Touch is the position of one finger in screen pixels.
type Touch struct {
	X, Y float64
}

// Area maps screen pixels to board cells.
type Area struct {
	Left, Top     float64
	Width, Height float64
	Columns, Rows int
}

func (a Area) Column(x float64) int {
	return int(math.Floor((x - a.Left) / (a.Width / float64(a.Columns))))
}

func (a Area) Row(y float64) int {
	return int(math.Floor((y - a.Top) / (a.Height / float64(a.Rows))))
}

// TouchSettings tune the gesture classifier.
type TouchSettings struct {
	// ClickThreshold is the longest press still counted as a tap.
	ClickThreshold time.Duration `yaml:"clickThreshold"`
	// SwipeThreshold is the vertical travel, in pixels, between two move
	// events that counts as a downward swipe.
	SwipeThreshold float64 `yaml:"swipeThreshold"`
	// MoveToTouch moves the piece under the first finger that goes down.
	MoveToTouch bool `yaml:"moveToTouch"`
}

func DefaultTouchSettings() TouchSettings {
	return TouchSettings{
		ClickThreshold: 200 * time.Millisecond,
		SwipeThreshold: 16,
		MoveToTouch:    true,
	}
}

// TouchClassifier turns a stream of touch events into gestures:
//
//   - a tap with one, two or three fingers hard drops, pauses or cancels;
//   - the first finger down starts or resumes the game;
//   - dragging one finger moves the piece under it, and a fast downward
//     swipe steps it down to the finger;
//   - a second finger twisting around the first rotates the piece.
type TouchClassifier struct {
	Settings TouchSettings
	Area     Area

	count int

	tapStart   time.Time
	tapFingers int

	twisting bool
	twistY   float64
	last     *Touch
}

func NewTouchClassifier(settings TouchSettings, area Area) *TouchClassifier {
	return &TouchClassifier{Settings: settings, Area: area}
}

// Down handles fingers touching the screen. touches are all fingers currently
// down, in the order they went down.
func (c *TouchClassifier) Down(touches []Touch, now time.Time) []Gesture {
	prev := c.count
	c.count = len(touches)

	c.tapStart = now
	c.tapFingers = max(c.tapFingers, c.count)

	c.twisting = false
	var out []Gesture
	switch {
	case prev == 0 && c.count == 1:
		c.last = nil
		out = append(out, Gesture{Kind: GestureStart})
		if c.Settings.MoveToTouch {
			out = append(out, c.moveTo(touches[0]))
		}
	case prev == 1 && c.count == 2:
		c.twisting = true
		c.twistY = touches[1].Y
	}
	return out
}

// Move handles fingers moving across the screen.
func (c *TouchClassifier) Move(touches []Touch, now time.Time) []Gesture {
	if len(touches) == 0 {
		return nil
	}

	var out []Gesture
	first := touches[0]
	if len(touches) == 1 && c.last != nil {
		dx, dy := first.X-c.last.X, first.Y-c.last.Y
		if dy > c.Settings.SwipeThreshold && dy*dy > dx*dx {
			out = append(out, Gesture{Kind: GestureStepDown, Row: c.Area.Row(first.Y)})
		}
	}
	c.last = &first

	if c.twisting && c.count == 2 && len(touches) >= 2 {
		second := touches[1]
		cmd := tetris.RotateClockwise
		if (second.X-first.X)*(second.Y-c.twistY) < 0 {
			cmd = tetris.RotateCounterclockwise
		}
		c.twisting = false
		return append(out, Gesture{Kind: GestureCommand, Command: cmd})
	}
	return append(out, c.moveTo(first))
}

// Up handles fingers leaving the screen. touches are the fingers still down.
// A tap is reported once the last finger lifts within the click threshold.
func (c *TouchClassifier) Up(touches []Touch, now time.Time) []Gesture {
	c.count = len(touches)
	if c.count != 0 || c.tapStart.IsZero() {
		return nil
	}

	fingers := c.tapFingers
	elapsed := now.Sub(c.tapStart)
	c.tapStart = time.Time{}
	c.tapFingers = 0
	if elapsed > c.Settings.ClickThreshold {
		return nil
	}

	switch fingers {
	case 1:
		return []Gesture{{Kind: GestureCommand, Command: tetris.HardDrop}}
	case 2:
		return []Gesture{{Kind: GestureCommand, Command: tetris.StartPause}}
	case 3:
		return []Gesture{{Kind: GestureCommand, Command: tetris.Cancel}}
	}
	return nil
}

func (c *TouchClassifier) moveTo(t Touch) Gesture {
	return Gesture{Kind: GestureMoveTo, Column: c.Area.Column(t.X)}
}
