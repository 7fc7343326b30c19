package debugui

import (
	"fmt"
	"math"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/tetris"
)

// GameInfo is what the game panel shows, captured once per frame.
type GameInfo struct {
	State   tetris.State
	Score   int
	Rows    int
	Delay   float64
	Queue   int
	Next    string
	Preview []string
	Clutter tetris.Clutter
	Stats   tetris.Stats
}

// CaptureGame reads the panel values from g.
func CaptureGame(g *tetris.Game) GameInfo {
	info := GameInfo{
		State:   g.State(),
		Score:   g.Score(),
		Rows:    g.Rows(),
		Delay:   g.Delay(),
		Queue:   g.QueueLen(),
		Clutter: g.Clutter(),
		Stats:   g.Stats(),
	}
	if next := g.Next(); next != nil {
		info.Next = next.Shape.Name
		info.Preview = preview(next)
	}
	return info
}

// preview draws a piece in its 4x4 box, one string per row.
func preview(p *tetris.Piece) []string {
	var grid [4][4]byte
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}
	for _, c := range p.Shape.Cells(p.Orientation) {
		grid[c.Y][c.X] = '#'
	}
	rows := make([]string, 4)
	for y := range grid {
		rows[y] = string(grid[y][:])
	}
	return rows
}

// GamePanel shows the game state and offers start, pause, cancel and clutter
// controls.
type GamePanel struct {
	Game    ecs.Singleton[session.GameRef]
	Overlay ecs.Singleton[Overlay]

	info    GameInfo
	percent int32
}

func NewGamePanel() *GamePanel {
	return &GamePanel{}
}

func (p *GamePanel) Execute(frame *ecs.UpdateFrame) {
	if !p.Overlay.Get().Visible {
		return
	}
	g := p.Game.Get().Game
	p.info = CaptureGame(g)
	p.percent = int32(math.Round(p.info.Clutter.Level * 100))
	frame.Commands.Defer(func() { p.render(g) })
}

func (p *GamePanel) render(g *tetris.Game) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(280, 280), imgui.CondOnce)
	if !imgui.BeginV("Game", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	info := p.info
	imgui.Text(fmt.Sprintf("State: %s", info.State))
	imgui.Text(fmt.Sprintf("Score: %d", info.Score))
	imgui.Text(fmt.Sprintf("Rows: %d", info.Rows))
	imgui.Text(fmt.Sprintf("Delay: %.3f s", info.Delay))
	imgui.Text(fmt.Sprintf("Queued commands: %d", info.Queue))

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Next: %s", info.Next))
	imgui.Text(strings.Join(info.Preview, "\n"))

	imgui.Separator()
	if imgui.Button("Start/Continue") {
		g.StartContinue()
	}
	imgui.SameLine()
	if imgui.Button("Pause") {
		g.Pause()
	}
	imgui.SameLine()
	if imgui.Button("Cancel") {
		g.Cancel()
	}

	enabled := info.Clutter.Enabled
	percent := p.percent
	changed := imgui.Checkbox("Clutter", &enabled)
	imgui.SameLine()
	imgui.SetNextItemWidth(100)
	changed = imgui.InputInt("%##clutter", &percent) || changed
	if changed {
		level := float64(min(max(percent, 0), int32(tetris.MaxClutterLevel*100))) / 100
		g.SetClutter(tetris.Clutter{Enabled: enabled, Level: level})
	}

	if imgui.TreeNodeStr("Totals") {
		imgui.Text(fmt.Sprintf("Games: %d", info.Stats.Games))
		imgui.Text(fmt.Sprintf("Pieces locked: %d", info.Stats.PiecesLocked))
		imgui.Text(fmt.Sprintf("Player drops: %d", info.Stats.PlayerDrops))
		imgui.Text(fmt.Sprintf("Lines cleared: %d", info.Stats.LinesCleared))
		imgui.Text(fmt.Sprintf("Play time: %.1f s", info.Stats.PlayTime))
		imgui.TreePop()
	}

	imgui.End()
}
