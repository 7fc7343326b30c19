// Command blockfall-stress plays many games at once with random input and
// prints a markdown report of engine and scheduler performance.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/settings"
	"github.com/plus3/blockfall/tetris"
)

// Commands the bot picks from. Rotations and moves are more likely than drops.
var botCommands = []tetris.Command{
	tetris.MoveLeft, tetris.MoveLeft, tetris.MoveRight, tetris.MoveRight,
	tetris.RotateClockwise, tetris.RotateCounterclockwise,
	tetris.SoftDrop, tetris.HardDrop,
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	games := flag.Int("games", 100, "The number of games played at once.")
	seed := flag.Uint64("seed", 1, "Seed for the pieces and the bot input.")
	clutter := flag.Int("clutter", -1, "Clutter percentage for every game; negative keeps the settings value.")
	settingsPath := flag.String("settings", "", "Settings file.")
	dt := flag.Duration("dt", time.Second/60, "Game time advanced per frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	verbose := flag.Bool("verbose", false, "Log game events.")
	flag.Parse()

	if *verbose {
		session.SetLogger(slog.Default())
	}

	s := settings.Default()
	if *settingsPath != "" {
		var err error
		if s, err = settings.Load(*settingsPath); err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
	}
	if *clutter >= 0 {
		s.Clutter.Enabled = true
		s.Clutter.Percent = *clutter
	}
	cfg, err := s.Config()
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	log.Println("Starting blockfall stress test...")

	report := &Report{
		Duration:       *duration,
		Games:          *games,
		Seed:           *seed,
		Clutter:        cfg.Clutter,
		GCPauseMetrics: *gcPauseMetrics,
	}
	bot := rand.New(rand.NewPCG(*seed, *seed+1))

	sessions := make([]*session.Session, *games)
	for i := range sessions {
		g := tetris.NewGame(cfg, tetris.WithSeed(*seed+uint64(i)))
		sessions[i] = session.New(g, session.WithSink(report.Count))
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running %d games for %s...\n", *games, *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	step := dt.Seconds()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		updateStart := time.Now()
		for _, sess := range sessions {
			sess.Do(func(g *tetris.Game) {
				if g.State() != tetris.Playing {
					if g.Stats().Games > 0 {
						report.Restarts++
					}
					g.StartContinue()
				}
			})
			if bot.IntN(4) == 0 {
				sess.Push(botCommands[bot.IntN(len(botCommands))])
			}
			sess.Frame(step)
		}
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		report.TotalUpdates++
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	for _, sess := range sessions {
		report.AddSession(sess)
	}

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}
