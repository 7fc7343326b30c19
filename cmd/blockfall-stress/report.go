package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/tetris"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Games    int
	Seed     uint64
	Clutter  tetris.Clutter

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats

	Restarts  int
	Locked    int
	Lines     int
	GamesOver int
	BestScore int
	Totals    tetris.Stats
	Systems   []ecs.SystemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Count is a session sink tallying engine events.
func (r *Report) Count(e tetris.Event) {
	switch e.Kind {
	case tetris.EventLocked:
		r.Locked++
	case tetris.EventLinesCleared:
		r.Lines += e.Lines
	case tetris.EventGameOver:
		r.GamesOver++
		r.BestScore = max(r.BestScore, e.Score)
	}
}

// AddSession folds the game totals and system timings of s into the report.
func (r *Report) AddSession(s *session.Session) {
	s.Do(func(g *tetris.Game) {
		st := g.Stats()
		r.Totals.Games += st.Games
		r.Totals.PiecesLocked += st.PiecesLocked
		r.Totals.PlayerDrops += st.PlayerDrops
		r.Totals.LinesCleared += st.LinesCleared
		r.Totals.PlayTime += st.PlayTime
		r.BestScore = max(r.BestScore, g.Score())
	})

	for _, sys := range s.Stats().Systems {
		i := slices.IndexFunc(r.Systems, func(x ecs.SystemStats) bool { return x.Name == sys.Name })
		if i < 0 {
			r.Systems = append(r.Systems, sys)
			continue
		}
		acc := &r.Systems[i]
		acc.ExecutionCount += sys.ExecutionCount
		acc.TotalDuration += sys.TotalDuration
		acc.MinDuration = min(acc.MinDuration, sys.MinDuration)
		acc.MaxDuration = max(acc.MaxDuration, sys.MaxDuration)
		if acc.ExecutionCount > 0 {
			acc.AvgDuration = acc.TotalDuration / time.Duration(acc.ExecutionCount)
		}
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Concurrent Games:** {{.Games}}
- **Seed:** {{.Seed}}
- **Clutter:** {{if .Clutter.Enabled}}{{pct .Clutter.Level}}{{else}}off{{end}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (all games):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Games
- **Games Started:** {{.Totals.Games}}
- **Restarts:** {{.Restarts}}
- **Games Over:** {{.GamesOver}}
- **Pieces Locked:** {{.Locked}} (player drops: {{.Totals.PlayerDrops}})
- **Lines Cleared:** {{.Lines}}
- **Best Score:** {{.BestScore}}
- **Game Time Played:** {{printf "%.1f" .Totals.PlayTime}} s

## Systems
| System | Runs | Avg | Min | Max |
|--------|------|-----|-----|-----|
{{- range .Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}} ({{mb .MemStatsEnd.TotalAlloc}} MiB)
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"pct": func(level float64) string {
			return fmt.Sprintf("%.0f%%", level*100)
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
