package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/blockfall/debugui"
	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/render"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/tetris"
)

const (
	margin     = 20
	panelWidth = 180
)

var (
	borderColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	ghostColor  = color.RGBA{R: 255, G: 255, B: 255, A: 60}
	shadeColor  = color.RGBA{A: 140}
)

// Layout places the board in a window.
type Layout struct {
	Left, Top float32
	Cell      float32
	Columns   int
	Rows      int
}

func NewLayout(width, height, columns, rows int) Layout {
	cell := min(
		float32(height-2*margin)/float32(rows),
		float32(width-2*margin-panelWidth)/float32(columns),
	)
	return Layout{Left: margin, Top: margin, Cell: max(cell, 1), Columns: columns, Rows: rows}
}

func (l Layout) Width() float32  { return l.Cell * float32(l.Columns) }
func (l Layout) Height() float32 { return l.Cell * float32(l.Rows) }

// Area is the touch area of the board.
func (l Layout) Area() input.Area {
	return input.Area{
		Left: float64(l.Left), Top: float64(l.Top),
		Width: float64(l.Width()), Height: float64(l.Height()),
		Columns: l.Columns, Rows: l.Rows,
	}
}

// ghostCells returns where the falling piece would land, or nil when there
// is no piece in play.
func ghostCells(g *tetris.Game) []tetris.Point {
	p := g.Current()
	if p == nil || g.State() == tetris.Cancelled {
		return nil
	}
	y := p.Y
	for !g.WillCollide(p, p.X, y+1, p.Orientation) {
		y++
	}
	ghost := *p
	ghost.Y = y
	return ghost.Cells()
}

// View is what ScreenSystem captured for the next Draw.
type View struct {
	Snapshot tetris.Snapshot
	Ghost    []tetris.Point
	Stats    tetris.Stats
	Frame    int64
}

// ScreenSystem captures the game for drawing and relays the debug overlay
// state to the frontend. It runs inside the session frame, so it reads the
// game directly.
type ScreenSystem struct {
	Game    ecs.Singleton[session.GameRef]
	Clock   ecs.Singleton[session.Clock]
	Imgui   ecs.Singleton[debugui.ImguiInputState]
	Overlay ecs.Singleton[debugui.Overlay]

	view          View
	toggleOverlay bool
	capture       debugui.ImguiInputState
}

func (s *ScreenSystem) Execute(frame *ecs.UpdateFrame) {
	g := s.Game.Get().Game
	s.view = View{
		Snapshot: g.Snapshot(),
		Ghost:    ghostCells(g),
		Stats:    g.Stats(),
		Frame:    s.Clock.Get().Frame,
	}

	if overlay := s.Overlay.Get(); overlay != nil && s.toggleOverlay {
		overlay.Visible = !overlay.Visible
	}
	s.toggleOverlay = false

	if state := s.Imgui.Get(); state != nil {
		s.capture = *state
	}
}

// ToggleOverlay flips the debug windows on the next frame.
func (s *ScreenSystem) ToggleOverlay() { s.toggleOverlay = true }

// Capturing reports whether the debug UI wanted the keyboard and mouse last
// frame.
func (s *ScreenSystem) Capturing() (keyboard, mouse bool) {
	return s.capture.WantCaptureKeyboard, s.capture.WantCaptureMouse
}

// Draw paints the last captured view.
func (s *ScreenSystem) Draw(screen *ebiten.Image, l Layout, palette *render.Palette) {
	view := s.view
	snap := view.Snapshot
	screen.Fill(palette.Background)

	for x := 1; x < snap.Width; x++ {
		fx := l.Left + float32(x)*l.Cell
		vector.StrokeLine(screen, fx, l.Top, fx, l.Top+l.Height(), 1, palette.Grid, false)
	}
	for y := 1; y < snap.Height; y++ {
		fy := l.Top + float32(y)*l.Cell
		vector.StrokeLine(screen, l.Left, fy, l.Left+l.Width(), fy, 1, palette.Grid, false)
	}
	vector.StrokeRect(screen, l.Left-2, l.Top-2, l.Width()+4, l.Height()+4, 2, borderColor, false)

	if snap.State == tetris.Playing {
		for _, p := range view.Ghost {
			if p.Y >= 0 {
				s.cell(screen, l, p, ghostColor)
			}
		}
	}
	for _, b := range render.Blocks(snap) {
		s.cell(screen, l, b.Point, palette.Color(b.Color))
	}

	textX := int(l.Left+l.Width()) + margin
	textY := int(l.Top)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE\n%d\n\nROWS\n%d\n\nDELAY\n%.2fs", snap.Score, snap.Rows, snap.Delay), textX, textY)

	ebitenutil.DebugPrintAt(screen, "NEXT", textX, textY+130)
	if snap.Next != nil {
		next := Layout{Left: float32(textX), Top: float32(textY + 150), Cell: l.Cell * 0.75}
		c := palette.Color(snap.Next.Color)
		for _, p := range snap.Next.Cells {
			s.cell(screen, next, tetris.Point{X: p.X - snap.Next.X, Y: p.Y - snap.Next.Y}, c)
		}
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("GAMES %d\nLINES %d", view.Stats.Games, view.Stats.LinesCleared), textX, textY+250)

	switch snap.State {
	case tetris.Paused:
		s.banner(screen, l, "PAUSED", "Enter to continue")
	case tetris.Cancelled:
		if view.Stats.Games > 0 {
			s.banner(screen, l, "GAME OVER", "Enter to play again")
		} else {
			s.banner(screen, l, "BLOCKFALL", "Enter to start")
		}
	}
}

func (s *ScreenSystem) cell(screen *ebiten.Image, l Layout, p tetris.Point, c color.Color) {
	x := l.Left + float32(p.X)*l.Cell
	y := l.Top + float32(p.Y)*l.Cell
	vector.DrawFilledRect(screen, x+1, y+1, l.Cell-2, l.Cell-2, c, false)
}

func (s *ScreenSystem) banner(screen *ebiten.Image, l Layout, title, hint string) {
	y := l.Top + l.Height()/2 - 30
	vector.DrawFilledRect(screen, l.Left, y, l.Width(), 60, shadeColor, false)
	ebitenutil.DebugPrintAt(screen, title, int(l.Left)+10, int(y)+12)
	ebitenutil.DebugPrintAt(screen, hint, int(l.Left)+10, int(y)+32)
}
