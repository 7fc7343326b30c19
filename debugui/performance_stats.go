package debugui

import (
	"fmt"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/session"
)

// FrameHistory is a ring of frame times in milliseconds.
type FrameHistory struct {
	samples []float32
	index   int
	filled  int
}

func NewFrameHistory(size int) *FrameHistory {
	return &FrameHistory{samples: make([]float32, size)}
}

func (h *FrameHistory) Add(ms float32) {
	h.samples[h.index] = ms
	h.index = (h.index + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

// Ordered returns the recorded samples, oldest first.
func (h *FrameHistory) Ordered() []float32 {
	if h.filled < len(h.samples) {
		return slices.Clone(h.samples[:h.filled])
	}
	return append(slices.Clone(h.samples[h.index:]), h.samples[:h.index]...)
}

func (h *FrameHistory) Average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, v := range h.Ordered() {
		sum += v
	}
	return sum / float32(h.filled)
}

// PerformancePanel shows frame times, storage statistics and per-system
// timings.
type PerformancePanel struct {
	Timings ecs.Singleton[session.Timings]
	Overlay ecs.Singleton[Overlay]

	history *FrameHistory
	latency map[string]*FrameHistory
	storage ecs.StorageStats
	systems []ecs.SystemStats
}

func NewPerformancePanel(historyFrames int) *PerformancePanel {
	return &PerformancePanel{
		history: NewFrameHistory(historyFrames),
		latency: make(map[string]*FrameHistory),
	}
}

func (p *PerformancePanel) Execute(frame *ecs.UpdateFrame) {
	p.history.Add(float32(frame.DeltaTime * 1000))
	if st := p.Timings.Get().Stats; st != nil {
		p.systems = append(p.systems[:0], st.Systems...)
		for _, sys := range st.Systems {
			h, ok := p.latency[sys.Name]
			if !ok {
				h = NewFrameHistory(len(p.history.samples))
				p.latency[sys.Name] = h
			}
			h.Add(float32(sys.LastDuration.Seconds() * 1000))
		}
	}
	if !p.Overlay.Get().Visible {
		return
	}
	p.storage = frame.Storage.CollectStats()
	frame.Commands.Defer(p.render)
}

func (p *PerformancePanel) render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 300), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(380, 360), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entities: %d", p.storage.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", p.storage.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", p.storage.SingletonCount))

	avg := p.history.Average()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	if samples := p.history.Ordered(); len(samples) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))
	}

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range p.systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}
			imgui.EndTable()
		}

		if implot.BeginPlotV("System Latency", imgui.NewVec2(-1, 160), 0) {
			implot.SetupAxesV("Frame", "ms", 0, implot.AxisFlagsAutoFit)
			for _, sys := range p.systems {
				if samples := p.latency[sys.Name].Ordered(); len(samples) > 0 {
					implot.PlotLineFloatPtrInt(sys.Name, &samples[0], int32(len(samples)))
				}
			}
			implot.EndPlot()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, name := range p.storage.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}
