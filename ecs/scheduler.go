package ecs

import (
	"context"
	"reflect"
	"time"
)

type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	LastFrame       time.Duration
	Systems         []SystemStats
}

type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// storageBinder is implemented by Query and Singleton.
type storageBinder interface {
	Init(storage *Storage)
}

type queryExecutor interface {
	Execute()
}

type registeredSystem struct {
	system  System
	queries []queryExecutor
	stats   SystemStats
}

// Scheduler runs systems in registration order, one frame at a time.
type Scheduler struct {
	storage   *Storage
	commands  *Commands
	systems   []*registeredSystem
	frames    int64
	lastFrame time.Duration
}

func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage:  storage,
		commands: NewCommands(),
	}
}

func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register appends a system and binds its exported Query and Singleton fields
// to the scheduler's storage.
func (s *Scheduler) Register(system System) {
	rs := &registeredSystem{
		system: system,
		stats: SystemStats{
			Name:        systemName(system),
			MinDuration: time.Duration(1<<63 - 1),
		},
	}

	sv := reflect.ValueOf(system)
	if sv.Kind() == reflect.Pointer {
		sv = sv.Elem()
	}
	if sv.Kind() == reflect.Struct {
		for i := 0; i < sv.NumField(); i++ {
			field := sv.Field(i)
			if !field.CanSet() || field.Kind() != reflect.Struct {
				continue
			}
			binder, ok := field.Addr().Interface().(storageBinder)
			if !ok {
				continue
			}
			binder.Init(s.storage)
			if q, ok := binder.(queryExecutor); ok {
				rs.queries = append(rs.queries, q)
			}
		}
	}

	s.systems = append(s.systems, rs)
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Once runs a single frame: every query is executed, every system runs with
// the same UpdateFrame and the queued commands are flushed.
func (s *Scheduler) Once(dt float64) {
	frameStart := time.Now()

	for _, rs := range s.systems {
		for _, q := range rs.queries {
			q.Execute()
		}
	}

	frame := &UpdateFrame{
		DeltaTime: dt,
		Commands:  s.commands,
		Storage:   s.storage,
	}
	for _, rs := range s.systems {
		start := time.Now()
		rs.system.Execute(frame)
		d := time.Since(start)

		st := &rs.stats
		st.ExecutionCount++
		st.LastDuration = d
		st.TotalDuration += d
		st.MinDuration = min(st.MinDuration, d)
		st.MaxDuration = max(st.MaxDuration, d)
	}

	s.commands.Flush(s.storage)
	s.frames++
	s.lastFrame = time.Since(frameStart)
}

// Run calls Once at the given interval with the measured delta time until ctx
// is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Once(dt)
		}
	}
}

func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		LastFrame:   s.lastFrame,
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, rs := range s.systems {
		st := rs.stats
		if st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		}
		stats.Systems[i] = st
		stats.TotalExecutions += st.ExecutionCount
	}
	return stats
}
