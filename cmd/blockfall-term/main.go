// Command blockfall-term plays the game in a terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/render"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/settings"
	"github.com/plus3/blockfall/tetris"
)

type app struct {
	screen  tcell.Screen
	session *session.Session
	keymap  *input.Keymap
	keys    []input.Entry
	palette *render.Palette
	player  *audio.Player
}

func newApp(s settings.Settings, cfg tetris.Config, seed uint64, mute bool) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	a := &app{
		screen:  screen,
		keymap:  s.Keymap(),
		keys:    s.Keys,
		palette: render.DefaultPalette(),
		player:  audio.NewPlayer(0.5),
	}
	if !mute {
		if err := a.player.Init(); err != nil {
			// Non-fatal, the game runs without sound
			log.Printf("Audio initialization failed: %v", err)
		}
	}

	opts := []tetris.Option{}
	if seed != 0 {
		opts = append(opts, tetris.WithSeed(seed))
	}
	a.session = session.New(tetris.NewGame(cfg, opts...), session.WithSink(a.player.OnEvent))
	return a, nil
}

// handleKey returns false when the player quits.
func (a *app) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
		return false
	}
	if ev.Key() == tcell.KeyRune && (ev.Rune() == 'c' || ev.Rune() == 'C') {
		if err := clipboard.WriteAll(a.session.Snapshot().String()); err != nil {
			slog.Warn("copy board", "err", err)
		}
		return true
	}

	// Terminals report no key releases, so every press is a fresh one.
	name, ctrl := keyName(ev)
	if cmd, ok := a.keymap.Lookup(name, ctrl); ok {
		a.session.Push(cmd)
	}
	return true
}

func (a *app) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}

		case now := <-ticker.C:
			a.session.Frame(now.Sub(last).Seconds())
			last = now
			draw(a.screen, a.session.Snapshot(), a.palette, a.keys)
		}
	}
}

func (a *app) cleanup() {
	a.player.Close()
	a.screen.Fini()
}

func main() {
	settingsPath := flag.String("settings", "", "Settings file.")
	clutter := flag.Int("clutter", -1, "Clutter percentage; negative keeps the settings value.")
	seed := flag.Uint64("seed", 0, "Seed for the piece sequence; 0 picks one at random.")
	mute := flag.Bool("mute", false, "Disable sound.")
	fps := flag.Int("fps", 60, "Frames per second.")
	flag.Parse()

	s := settings.Default()
	if *settingsPath != "" {
		var err error
		if s, err = settings.Load(*settingsPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
			os.Exit(1)
		}
	}
	if *clutter >= 0 {
		s.Clutter.Enabled = true
		s.Clutter.Percent = *clutter
	}
	cfg, err := s.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	a, err := newApp(s, cfg, *seed, *mute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.cleanup()

	a.run(time.Second / time.Duration(max(*fps, 1)))
}
