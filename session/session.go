// Package session runs a tetris game on the ecs scheduler.
//
// Player input is pushed as InputEvent entities. Each Frame runs, in order,
// InputSystem, TickSystem, any systems registered by the frontend, and
// EventSystem, which delivers the frame's engine events to the sinks.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetris"
)

type Option func(*options)

type options struct {
	sinks      []tetris.Listener
	components []func(*ecs.ComponentRegistry)
}

// WithSink delivers engine events to l once per frame.
func WithSink(l tetris.Listener) Option {
	return func(o *options) { o.sinks = append(o.sinks, l) }
}

// WithComponents registers additional component types, such as those of
// frontend entities.
func WithComponents(register func(*ecs.ComponentRegistry)) Option {
	return func(o *options) { o.components = append(o.components, register) }
}

// Session is safe for concurrent use. Systems run with the session lock held.
type Session struct {
	mu sync.Mutex

	game      *tetris.Game
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	events    *EventSystem
	seq       uint64
	sealed    bool
}

func New(game *tetris.Game, opts ...Option) *Session {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[InputEvent](registry)
	for _, register := range o.components {
		register(registry)
	}
	storage := ecs.NewStorage(registry)
	storage.AddSingleton(GameRef{Game: game})
	storage.AddSingleton(Clock{})
	storage.AddSingleton(EventQueue{})
	storage.AddSingleton(Timings{})

	queue := ecs.NewSingleton[EventQueue](storage)
	game.Subscribe(func(e tetris.Event) {
		q := queue.Get()
		q.Pending = append(q.Pending, e)
	})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&InputSystem{})
	scheduler.Register(&TickSystem{})

	return &Session{
		game:      game,
		storage:   storage,
		scheduler: scheduler,
		events:    &EventSystem{sinks: o.sinks},
	}
}

// Register adds a frontend system. Systems run after the game has been
// updated and before events are delivered. Register must be called before the
// first Frame.
func (s *Session) Register(system ecs.System) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		panic("session: Register called after the first Frame")
	}
	s.scheduler.Register(system)
}

// Spawn adds a frontend entity.
func (s *Session) Spawn(components ...any) ecs.EntityId {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Spawn(components...)
}

// AddSingleton adds or replaces a singleton visible to registered systems.
func (s *Session) AddSingleton(value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage.AddSingleton(value)
}

// Push queues a command for the next frame.
func (s *Session) Push(cmd tetris.Command) {
	s.PushGesture(input.Gesture{Kind: input.GestureCommand, Command: cmd})
}

// PushGesture queues a gesture for the next frame.
func (s *Session) PushGesture(g input.Gesture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.storage.Spawn(InputEvent{Gesture: g, Seq: s.seq})
}

// Frame runs one scheduler frame of dt seconds.
func (s *Session) Frame(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sealed {
		s.scheduler.Register(s.events)
		s.sealed = true
	}
	s.scheduler.Once(dt)
	ecs.ReadSingleton[Timings](s.storage).Stats = s.scheduler.GetStats()
}

// Run calls Frame at the given interval until ctx is cancelled.
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Frame(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Snapshot captures the game state.
func (s *Session) Snapshot() tetris.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Changed reports and clears the game's invalidation flags, returning a
// snapshot when anything changed since the last call.
func (s *Session) Changed() (tetris.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.ClearInvalidated() == 0 {
		return tetris.Snapshot{}, false
	}
	return s.game.Snapshot(), true
}

// Do runs fn with the session lock held, for frontends that read the game
// directly.
func (s *Session) Do(fn func(g *tetris.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

func (s *Session) Clock() Clock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *ecs.ReadSingleton[Clock](s.storage)
}

func (s *Session) Stats() *ecs.SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.GetStats()
}

func (s *Session) StorageStats() ecs.StorageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.CollectStats()
}
