package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/debugui"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/tetris"
)

func TestLayout(t *testing.T) {
	l := NewLayout(ScreenWidth, ScreenHeight, 10, 20)
	assert.Equal(t, float32(34), l.Cell)
	assert.Equal(t, float32(340), l.Width())
	assert.Equal(t, float32(680), l.Height())

	area := l.Area()
	assert.Equal(t, 0, area.Column(float64(margin)))
	assert.Equal(t, 9, area.Column(float64(margin)+339))
	assert.Equal(t, 19, area.Row(float64(margin)+679))

	narrow := NewLayout(300, 720, 10, 20)
	assert.Equal(t, float32(8), narrow.Cell, "width bound")
}

func TestGhostCells(t *testing.T) {
	g := tetris.NewGame(tetris.DefaultConfig(), tetris.WithSeed(5))
	assert.Nil(t, ghostCells(g), "no piece before the first start")

	g.StartContinue()
	ghost := ghostCells(g)
	require.Len(t, ghost, 4)

	bottom := 0
	for _, p := range ghost {
		bottom = max(bottom, p.Y)
	}
	assert.Equal(t, g.Board().Height()-1, bottom, "ghost rests on the floor")

	g.DropDown(false)
	locked := 0
	for _, p := range ghost {
		if g.Board().Occupied(p.X, p.Y) {
			locked++
		}
	}
	assert.Equal(t, 4, locked, "the piece lands where the ghost was")
}

func TestScreenSystem(t *testing.T) {
	g := tetris.NewGame(tetris.DefaultConfig(), tetris.WithSeed(1))
	s := session.New(g, session.WithComponents(debugui.RegisterComponents))
	s.AddSingleton(debugui.ImguiInputState{WantCaptureKeyboard: true})
	s.AddSingleton(debugui.Overlay{})
	screen := &ScreenSystem{}
	s.Register(screen)

	s.Push(tetris.StartPause)
	s.Frame(0)
	assert.Equal(t, tetris.Playing, screen.view.Snapshot.State)
	assert.Len(t, screen.view.Ghost, 4)
	assert.EqualValues(t, 1, screen.view.Frame)

	keyboard, mouse := screen.Capturing()
	assert.True(t, keyboard)
	assert.False(t, mouse)

	screen.ToggleOverlay()
	s.Frame(0)
	assert.True(t, screen.Overlay.Get().Visible)

	s.Frame(0)
	assert.True(t, screen.Overlay.Get().Visible, "toggles once")
}

func TestScreenSystemWithoutDebug(t *testing.T) {
	s := session.New(tetris.NewGame(tetris.DefaultConfig()))
	screen := &ScreenSystem{}
	s.Register(screen)

	screen.ToggleOverlay()
	assert.NotPanics(t, func() { s.Frame(0) })
	keyboard, mouse := screen.Capturing()
	assert.False(t, keyboard)
	assert.False(t, mouse)
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, input.KeyArrowUp, keyName(ebiten.KeyArrowUp))
	assert.Equal(t, input.KeySpace, keyName(ebiten.KeySpace))
	assert.Equal(t, "x", keyName(ebiten.KeyX))
	assert.Equal(t, "7", keyName(ebiten.Key7))
}

func TestRepeats(t *testing.T) {
	var fired []int
	for d := 0; d <= 20; d++ {
		if repeats(d) {
			fired = append(fired, d)
		}
	}
	assert.Equal(t, []int{1, 12, 15, 18}, fired)
}
