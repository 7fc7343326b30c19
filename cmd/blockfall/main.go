// Command blockfall plays the game in a window.
package main

import (
	"flag"
	"log"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/debugui"
	debugebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/settings"
	"github.com/plus3/blockfall/tetris"
)

const (
	ScreenWidth  = 560
	ScreenHeight = 720
)

func main() {
	settingsPath := flag.String("settings", "", "Settings file.")
	clutter := flag.Int("clutter", -1, "Clutter percentage; negative keeps the settings value.")
	seed := flag.Uint64("seed", 0, "Seed for the piece sequence; 0 picks one at random.")
	debug := flag.Bool("debug", false, "Enable the debug overlay (F1).")
	mute := flag.Bool("mute", false, "Disable sound.")
	verbose := flag.Bool("verbose", false, "Log game events.")
	flag.Parse()

	if *verbose {
		session.SetLogger(slog.Default())
		audio.SetLogger(slog.Default())
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

	player := audio.NewPlayer(0.5)
	if !*mute {
		if err := player.Init(); err != nil {
			// Non-fatal, the game runs without sound
			log.Printf("Audio initialization failed: %v", err)
		}
	}
	defer player.Close()

	var opts []tetris.Option
	if *seed != 0 {
		opts = append(opts, tetris.WithSeed(*seed))
	}
	sessOpts := []session.Option{session.WithSink(player.OnEvent)}
	if *debug {
		sessOpts = append(sessOpts, session.WithComponents(debugui.RegisterComponents))
	}
	sess := session.New(tetris.NewGame(cfg, opts...), sessOpts...)

	var backend *debugebiten.ImguiBackend
	if *debug {
		backend = debugebiten.NewImguiBackend("Blockfall", ScreenWidth, ScreenHeight)
		debugui.Install(sess, false)
	} else {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
		ebiten.SetWindowTitle("Blockfall")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	screen := &ScreenSystem{}
	sess.Register(screen)

	game := NewGame(sess, screen, s.Keymap(), s.Touch)
	game.Imgui = backend

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
