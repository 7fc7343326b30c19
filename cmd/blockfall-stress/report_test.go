package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/tetris"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportCountsEvents(t *testing.T) {
	r := &Report{}
	r.Count(tetris.Event{Kind: tetris.EventLocked})
	r.Count(tetris.Event{Kind: tetris.EventLinesCleared, Lines: 2})
	r.Count(tetris.Event{Kind: tetris.EventGameOver, Score: 140})
	r.Count(tetris.Event{Kind: tetris.EventStateChanged})

	assert.Equal(t, 1, r.Locked)
	assert.Equal(t, 2, r.Lines)
	assert.Equal(t, 1, r.GamesOver)
	assert.Equal(t, 140, r.BestScore)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{Duration: time.Second, Games: 2, Seed: 7}

	for i := range 2 {
		g := tetris.NewGame(tetris.DefaultConfig(), tetris.WithSeed(uint64(i)))
		s := session.New(g, session.WithSink(r.Count))
		s.Do(func(g *tetris.Game) { g.StartContinue() })
		s.Push(tetris.HardDrop)
		s.Frame(1.0 / 60)
		s.Frame(1.0 / 60)
		r.AddSession(s)
	}

	assert.Equal(t, 2, r.Totals.Games)
	assert.Equal(t, 2, r.Locked)
	require.NotEmpty(t, r.Systems)
	for _, sys := range r.Systems {
		assert.EqualValues(t, 4, sys.ExecutionCount, sys.Name)
	}

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "# Blockfall Stress Test Report")
	assert.Contains(t, out, "**Concurrent Games:** 2")
	assert.Contains(t, out, "**Clutter:** off")
	assert.Contains(t, out, "| InputSystem |")
	assert.Contains(t, out, "| EventSystem |")
	assert.NotContains(t, out, "GC Pause")
}
