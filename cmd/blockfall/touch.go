package main

import (
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/blockfall/input"
)

// touchTracker turns ebiten touch IDs into the ordered finger lists the
// classifier expects.
type touchTracker struct {
	classifier *input.TouchClassifier
	order      []ebiten.TouchID
	positions  map[ebiten.TouchID]input.Touch
	scratch    []ebiten.TouchID
}

func newTouchTracker(settings input.TouchSettings) *touchTracker {
	return &touchTracker{
		classifier: input.NewTouchClassifier(settings, input.Area{}),
		positions:  make(map[ebiten.TouchID]input.Touch),
	}
}

func (t *touchTracker) fingers() []input.Touch {
	out := make([]input.Touch, len(t.order))
	for i, id := range t.order {
		out[i] = t.positions[id]
	}
	return out
}

func position(id ebiten.TouchID) input.Touch {
	x, y := ebiten.TouchPosition(id)
	return input.Touch{X: float64(x), Y: float64(y)}
}

// update classifies this tick's touch events.
func (t *touchTracker) update(area input.Area, now time.Time, emit func(input.Gesture)) {
	t.classifier.Area = area

	t.scratch = inpututil.AppendJustReleasedTouchIDs(t.scratch[:0])
	if len(t.scratch) > 0 {
		for _, id := range t.scratch {
			delete(t.positions, id)
		}
		t.order = slices.DeleteFunc(t.order, func(id ebiten.TouchID) bool {
			_, ok := t.positions[id]
			return !ok
		})
		for _, g := range t.classifier.Up(t.fingers(), now) {
			emit(g)
		}
	}

	t.scratch = inpututil.AppendJustPressedTouchIDs(t.scratch[:0])
	if len(t.scratch) > 0 {
		for _, id := range t.scratch {
			t.order = append(t.order, id)
			t.positions[id] = position(id)
		}
		for _, g := range t.classifier.Down(t.fingers(), now) {
			emit(g)
		}
	}

	moved := false
	for _, id := range t.order {
		p := position(id)
		if p != t.positions[id] {
			t.positions[id] = p
			moved = true
		}
	}
	if moved {
		for _, g := range t.classifier.Move(t.fingers(), now) {
			emit(g)
		}
	}
}
