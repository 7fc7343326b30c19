package main

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/render"
	"github.com/plus3/blockfall/tetris"
)

// Each board cell is two terminal columns wide.
const (
	cellWidth = 2
	boardLeft = 1
	boardTop  = 1
)

var (
	textStyle   = tcell.StyleDefault
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// draw paints the board, its border and the side panel.
func draw(screen tcell.Screen, s tetris.Snapshot, palette *render.Palette, keys []input.Entry) {
	screen.Clear()

	bg := tcell.StyleDefault.Background(rgb(palette.Background))
	right := boardLeft + s.Width*cellWidth
	bottom := boardTop + s.Height
	for y := boardTop; y < bottom; y++ {
		screen.SetContent(boardLeft-1, y, '│', nil, borderStyle)
		screen.SetContent(right, y, '│', nil, borderStyle)
		for x := boardLeft; x < right; x++ {
			screen.SetContent(x, y, ' ', nil, bg)
		}
	}
	for x := boardLeft; x < right; x++ {
		screen.SetContent(x, boardTop-1, '─', nil, borderStyle)
		screen.SetContent(x, bottom, '─', nil, borderStyle)
	}
	screen.SetContent(boardLeft-1, boardTop-1, '┌', nil, borderStyle)
	screen.SetContent(right, boardTop-1, '┐', nil, borderStyle)
	screen.SetContent(boardLeft-1, bottom, '└', nil, borderStyle)
	screen.SetContent(right, bottom, '┘', nil, borderStyle)

	for _, b := range render.Blocks(s) {
		style := tcell.StyleDefault.Foreground(rgb(palette.Color(b.Color)))
		r := '█'
		if b.Active && s.State == tetris.Paused {
			r = '▒'
		}
		x := boardLeft + b.X*cellWidth
		for i := range cellWidth {
			screen.SetContent(x+i, boardTop+b.Y, r, nil, style)
		}
	}

	panel := right + 3
	drawText(screen, panel, boardTop, titleStyle, "BLOCKFALL")
	drawText(screen, panel, boardTop+2, textStyle, fmt.Sprintf("Score  %d", s.Score))
	drawText(screen, panel, boardTop+3, textStyle, fmt.Sprintf("Rows   %d", s.Rows))
	drawText(screen, panel, boardTop+4, textStyle, fmt.Sprintf("State  %s", s.State))

	drawText(screen, panel, boardTop+6, textStyle, "Next")
	if s.Next != nil {
		style := tcell.StyleDefault.Foreground(rgb(palette.Color(s.Next.Color)))
		for _, p := range s.Next.Cells {
			x := panel + (p.X-s.Next.X)*cellWidth
			for i := range cellWidth {
				screen.SetContent(x+i, boardTop+7+p.Y-s.Next.Y, '█', nil, style)
			}
		}
	}

	y := boardTop + 12
	for _, e := range keys {
		key := e.Key
		if e.Ctrl {
			key = "Ctrl+" + key
		}
		drawText(screen, panel, y, borderStyle, fmt.Sprintf("%-14s %s", key, e.Command))
		y++
	}
	drawText(screen, panel, y+1, borderStyle, "c copy board  q quit")

	screen.Show()
}
