package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/blockfall/ecs"
)

// Archetype table columns.
const (
	columnID = iota
	columnComponents
	columnEntities
)

// sortArchetypes orders rows by a table column.
func sortArchetypes(rows []ecs.ArchetypeStats, column int, ascending bool) {
	slices.SortStableFunc(rows, func(a, b ecs.ArchetypeStats) int {
		var c int
		switch column {
		case columnID:
			c = cmp.Compare(a.ID, b.ID)
		case columnComponents:
			c = cmp.Compare(strings.Join(a.ComponentTypes, ","), strings.Join(b.ComponentTypes, ","))
		default:
			c = cmp.Compare(a.EntityCount, b.EntityCount)
		}
		if !ascending {
			c = -c
		}
		return c
	})
}

// ArchetypePanel lists the session's archetypes: input events, debug items and
// whatever the frontend spawned.
type ArchetypePanel struct {
	Overlay ecs.Singleton[Overlay]

	rows      []ecs.ArchetypeStats
	column    int
	ascending bool
}

func NewArchetypePanel() *ArchetypePanel {
	return &ArchetypePanel{column: columnEntities}
}

func (p *ArchetypePanel) Execute(frame *ecs.UpdateFrame) {
	if !p.Overlay.Get().Visible {
		return
	}
	p.rows = frame.Storage.CollectStats().ArchetypeBreakdown
	sortArchetypes(p.rows, p.column, p.ascending)
	frame.Commands.Defer(p.render)
}

func (p *ArchetypePanel) render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(400, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 200), imgui.CondOnce)
	if !imgui.BeginV("Archetypes", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	most := 0
	for _, row := range p.rows {
		most = max(most, row.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ArchetypeTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		specs := imgui.TableGetSortSpecs()
		if specs.SpecsDirty() && specs.SpecsCount() > 0 {
			spec := specs.Specs()
			p.column = int(spec.ColumnIndex())
			p.ascending = spec.SortDirection() == imgui.SortDirectionAscending
			sortArchetypes(p.rows, p.column, p.ascending)
			specs.SetSpecsDirty(false)
		}

		for _, row := range p.rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", row.ID))
			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.ComponentTypes, ", "))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.EntityCount))

			if most > 0 {
				imgui.SameLine()
				width := float32(row.EntityCount) / float32(most) * 60
				pos := imgui.CursorScreenPos()
				imgui.WindowDrawList().AddRectFilled(pos, imgui.NewVec2(pos.X+width, pos.Y+10),
					imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6)))
			}
		}
		imgui.EndTable()
	}

	imgui.End()
}
