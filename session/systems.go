package session

import (
	"cmp"
	"slices"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/tetris"
)

// InputSystem applies the frame's input events to the game in the order they
// were pushed.
type InputSystem struct {
	Inputs ecs.Query[struct{ *InputEvent }]
	Game   ecs.Singleton[GameRef]

	batch []*InputEvent
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	s.batch = s.batch[:0]
	for id, in := range s.Inputs.Iter() {
		s.batch = append(s.batch, in.InputEvent)
		frame.Commands.Delete(id)
	}
	slices.SortFunc(s.batch, func(a, b *InputEvent) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	g := s.Game.Get().Game
	for _, in := range s.batch {
		in.Gesture.Apply(g)
	}
}

// TickSystem advances the game clock.
type TickSystem struct {
	Game  ecs.Singleton[GameRef]
	Clock ecs.Singleton[Clock]
}

func (s *TickSystem) Execute(frame *ecs.UpdateFrame) {
	c := s.Clock.Get()
	c.Frame++
	c.Delta = frame.DeltaTime
	c.Elapsed += frame.DeltaTime

	s.Game.Get().Game.Update(frame.DeltaTime)
}

// EventSystem hands the events queued during the frame to every sink.
type EventSystem struct {
	Events ecs.Singleton[EventQueue]

	sinks []tetris.Listener
}

func (s *EventSystem) Execute(*ecs.UpdateFrame) {
	q := s.Events.Get()
	for _, e := range q.Pending {
		logEvent(e)
		for _, sink := range s.sinks {
			sink(e)
		}
	}
	clear(q.Pending)
	q.Pending = q.Pending[:0]
}

func logEvent(e tetris.Event) {
	l := logger()
	switch e.Kind {
	case tetris.EventLinesCleared:
		l.Info("lines cleared", "lines", e.Lines, "score", e.Score, "rows", e.Rows)
	case tetris.EventGameOver:
		l.Info("game over", "score", e.Score, "rows", e.Rows)
	case tetris.EventStateChanged:
		l.Debug("state changed", "state", e.State.String())
	default:
		l.Debug(e.Kind.String(), "score", e.Score)
	}
}
