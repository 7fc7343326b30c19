package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetris"
)

type recorder struct {
	events []tetris.Event
}

func (r *recorder) listen(e tetris.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []tetris.EventKind {
	var out []tetris.EventKind
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *tetris.Game) {
	t.Helper()
	g := tetris.NewGame(tetris.DefaultConfig(), tetris.WithSeed(5))
	return New(g, opts...), g
}

func TestPushAppliesInOrder(t *testing.T) {
	s, g := newTestSession(t)

	s.Push(tetris.StartPause)
	s.Push(tetris.MoveRight)
	s.Frame(0)

	assert.Equal(t, tetris.Playing, g.State())
	assert.Zero(t, g.QueueLen(), "command queued and performed in the same frame")
}

func TestOneQueuedCommandPerFrame(t *testing.T) {
	s, g := newTestSession(t)
	s.Push(tetris.StartPause)
	s.PushGesture(input.Gesture{Kind: input.GestureMoveTo, Column: 0})
	s.Frame(0)

	x := g.Current().X
	s.Push(tetris.MoveRight)
	s.Push(tetris.MoveRight)
	s.Frame(0)
	assert.Equal(t, x+1, g.Current().X)
	assert.Equal(t, 1, g.QueueLen())

	s.Frame(0)
	assert.Equal(t, x+2, g.Current().X)
	assert.Zero(t, g.QueueLen())
}

func TestInputEntitiesLastOneFrame(t *testing.T) {
	s, _ := newTestSession(t)
	s.Push(tetris.StartPause)
	s.Push(tetris.HardDrop)
	assert.Equal(t, 2, s.StorageStats().TotalEntityCount)

	s.Frame(0)
	assert.Zero(t, s.StorageStats().TotalEntityCount)
}

func TestEventsReachSinks(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestSession(t, WithSink(rec.listen))

	s.Push(tetris.StartPause)
	s.Frame(0)
	assert.Equal(t, []tetris.EventKind{tetris.EventStateChanged}, rec.kinds())

	s.Push(tetris.HardDrop)
	s.Frame(0)
	require.Len(t, rec.events, 2)
	assert.Equal(t, tetris.EventLocked, rec.events[1].Kind)
	assert.Equal(t, tetris.DefaultScoreRules().DropBonus, rec.events[1].Score)
}

func TestGravityThroughFrames(t *testing.T) {
	s, g := newTestSession(t)
	s.Push(tetris.StartPause)
	s.Frame(0)

	y := g.Current().Y
	for range 4 {
		s.Frame(0.25)
	}
	assert.Equal(t, y+1, g.Current().Y, "one gravity step per 0.7s")

	c := s.Clock()
	assert.Equal(t, int64(5), c.Frame)
	assert.InDelta(t, 1.0, c.Elapsed, 1e-9)
	assert.InDelta(t, 0.25, c.Delta, 1e-9)
}

type frameCounter struct {
	Game  ecs.Singleton[GameRef]
	seen  []tetris.State
	delay float64
}

func (f *frameCounter) Execute(*ecs.UpdateFrame) {
	g := f.Game.Get().Game
	f.seen = append(f.seen, g.State())
	f.delay = g.Delay()
}

func TestRegisteredSystemsSeeTheGame(t *testing.T) {
	s, _ := newTestSession(t)
	fc := &frameCounter{}
	s.Register(fc)

	s.Frame(0)
	s.Push(tetris.StartPause)
	s.Frame(0)

	assert.Equal(t, []tetris.State{tetris.Cancelled, tetris.Playing}, fc.seen)
	assert.InDelta(t, 0.7, fc.delay, 1e-9)

	stats := s.Stats()
	assert.Equal(t, 4, stats.SystemCount)
	assert.Equal(t, int64(2), stats.Frames)
	assert.Equal(t, "EventSystem", stats.Systems[3].Name)

	assert.Panics(t, func() { s.Register(&frameCounter{}) })
}

func TestChanged(t *testing.T) {
	s, _ := newTestSession(t)
	_, ok := s.Changed()
	assert.True(t, ok, "a new game starts fully invalidated")
	_, ok = s.Changed()
	assert.False(t, ok)

	s.Push(tetris.StartPause)
	s.Frame(0)
	snap, ok := s.Changed()
	require.True(t, ok)
	assert.Equal(t, tetris.Playing, snap.State)

	_, ok = s.Changed()
	assert.False(t, ok)
}

func TestConcurrentPush(t *testing.T) {
	s, g := newTestSession(t)
	s.Push(tetris.StartPause)
	s.Frame(0)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 25 {
				s.Push(tetris.RotateClockwise)
			}
		}()
	}
	for range 10 {
		s.Frame(0)
	}
	wg.Wait()
	s.Frame(0)

	assert.Zero(t, s.StorageStats().TotalEntityCount)
	assert.Equal(t, tetris.Playing, g.State())
}

type marker struct {
	Name string
}

type markerSystem struct {
	Markers ecs.Query[struct{ *marker }]
	Timings ecs.Singleton[Timings]
	names   []string
	frames  []int64
}

func (m *markerSystem) Execute(*ecs.UpdateFrame) {
	m.names = m.names[:0]
	for _, v := range m.Markers.Iter() {
		m.names = append(m.names, v.marker.Name)
	}
	if st := m.Timings.Get().Stats; st != nil {
		m.frames = append(m.frames, st.Frames)
	}
}

func TestFrontendEntitiesAndTimings(t *testing.T) {
	g := tetris.NewGame(tetris.DefaultConfig(), tetris.WithSeed(5))
	s := New(g, WithComponents(func(r *ecs.ComponentRegistry) {
		ecs.RegisterComponent[marker](r)
	}))
	m := &markerSystem{}
	s.Register(m)
	s.Spawn(marker{Name: "overlay"})

	s.Frame(0)
	s.Frame(0)
	s.Frame(0)

	assert.Equal(t, []string{"overlay"}, m.names)
	assert.Equal(t, []int64{1, 2}, m.frames)
	assert.Equal(t, 1, s.StorageStats().TotalEntityCount, "frontend entities persist")
}
