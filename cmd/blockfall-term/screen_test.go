package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/render"
	"github.com/plus3/blockfall/tetris"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 30)
	return screen
}

func TestDrawBoard(t *testing.T) {
	screen := newScreen(t)

	s := tetris.Snapshot{
		Width:  4,
		Height: 3,
		Cells: [][]tetris.Color{
			{"", "", "", ""},
			{"", "", "", ""},
			{"red", "", "", "blue"},
		},
		Score: 42,
		State: tetris.Paused,
	}
	palette := render.DefaultPalette()
	draw(screen, s, palette, input.DefaultKeymap().Entries())

	r, _, style, _ := screen.GetContent(boardLeft, boardTop+2)
	assert.Equal(t, '█', r)
	fg, _, _ := style.Decompose()
	assert.Equal(t, rgb(palette.Color("red")), fg)

	r, _, _, _ = screen.GetContent(boardLeft+1, boardTop+2)
	assert.Equal(t, '█', r, "cells are two columns wide")

	r, _, _, _ = screen.GetContent(boardLeft+2, boardTop+2)
	assert.Equal(t, ' ', r)

	r, _, _, _ = screen.GetContent(boardLeft-1, boardTop-1)
	assert.Equal(t, '┌', r)

	assert.Equal(t, "Score  42", rowText(screen, boardLeft+4*cellWidth+3, boardTop+2, 9))
}

func TestDrawActivePiece(t *testing.T) {
	screen := newScreen(t)

	g := tetris.NewGame(tetris.DefaultConfig(), tetris.WithSeed(3))
	g.StartContinue()
	s := g.Snapshot()
	draw(screen, s, render.DefaultPalette(), nil)

	for _, p := range s.Current.Cells {
		if p.Y < 0 {
			continue
		}
		r, _, _, _ := screen.GetContent(boardLeft+p.X*cellWidth, boardTop+p.Y)
		assert.Equal(t, '█', r, "cell %v", p)
	}

	g.Pause()
	s = g.Snapshot()
	draw(screen, s, render.DefaultPalette(), nil)
	for _, p := range s.Current.Cells {
		if p.Y < 0 {
			continue
		}
		r, _, _, _ := screen.GetContent(boardLeft+p.X*cellWidth, boardTop+p.Y)
		assert.Equal(t, '▒', r, "paused cell %v", p)
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		name string
		ctrl bool
	}{
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), input.KeyEnter, false},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), input.KeyArrowLeft, false},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModCtrl), input.KeyArrowUp, true},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), input.KeySpace, false},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), "x", false},
	}
	for _, tt := range tests {
		name, ctrl := keyName(tt.ev)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.ctrl, ctrl)
	}

	cmd, ok := input.DefaultKeymap().Lookup(keyName(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModCtrl)))
	require.True(t, ok)
	assert.Equal(t, tetris.RotateCounterclockwise, cmd)
}

func rowText(screen tcell.SimulationScreen, x, y, n int) string {
	out := make([]rune, n)
	for i := range n {
		out[i], _, _, _ = screen.GetContent(x+i, y)
	}
	return string(out)
}
