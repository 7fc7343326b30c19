package main

import (
	"fmt"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	debugebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/render"
	"github.com/plus3/blockfall/session"
)

// Game adapts a session to ebiten.Game.
type Game struct {
	Session *session.Session
	Screen  *ScreenSystem
	Palette *render.Palette
	// Imgui is nil unless the debug overlay is enabled.
	Imgui *debugebiten.ImguiBackend

	keyboard *keyboard
	touches  *touchTracker
	layout   Layout
	last     time.Time
}

func NewGame(s *session.Session, screen *ScreenSystem, keymap *input.Keymap, touch input.TouchSettings) *Game {
	snap := s.Snapshot()
	return &Game{
		Session:  s,
		Screen:   screen,
		Palette:  render.DefaultPalette(),
		keyboard: &keyboard{keymap: keymap},
		touches:  newTouchTracker(touch),
		layout:   NewLayout(ScreenWidth, ScreenHeight, snap.Width, snap.Height),
	}
}

func (g *Game) Update() error {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	g.shortcuts()

	captureKeyboard, captureMouse := g.Screen.Capturing()
	if !captureKeyboard {
		g.keyboard.commands(g.Session.PushGesture)
	}
	if !captureMouse {
		g.touches.update(g.layout.Area(), now, g.Session.PushGesture)
	}

	if g.Imgui != nil {
		g.Imgui.Frame(g.Session, dt)
	} else {
		g.Session.Frame(dt)
	}
	return nil
}

// shortcuts handles the frontend keys that are not game commands.
func (g *Game) shortcuts() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		path := fmt.Sprintf("blockfall-%s.png", time.Now().Format("20060102-150405"))
		if err := render.SavePNG(path, g.Session.Snapshot(), 24, g.Palette); err != nil {
			log.Printf("Screenshot failed: %v", err)
			return
		}
		log.Printf("Saved %s", path)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := clipboard.WriteAll(g.Session.Snapshot().String()); err != nil {
			log.Printf("Copy failed: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF1) && g.Imgui != nil:
		g.Screen.ToggleOverlay()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.Screen.Draw(screen, g.layout, g.Palette)
	if g.Imgui != nil {
		g.Imgui.Overlay(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.layout = NewLayout(outsideWidth, outsideHeight, g.layout.Columns, g.layout.Rows)
	if g.Imgui != nil {
		g.Imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
