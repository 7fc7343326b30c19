// Package debugui draws Dear ImGui debug windows over a running session.
// Windows are produced by ECS systems and ImguiItem entities; their render
// functions are deferred to the end of the frame, between the backend's
// BeginFrame and EndFrame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/session"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton
// component. Frontends skip game input while ImGui wants it.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay is the singleton switching every debug window on or off.
type Overlay struct {
	Visible bool
}

// ImguiSystem updates the ImguiInputState singleton and defers the render
// function of every ImguiItem.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
	Overlay    ecs.Singleton[Overlay]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	if !i.Overlay.Get().Visible {
		*state = ImguiInputState{}
		return
	}
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for _, item := range i.Items.Iter() {
		frame.Commands.Defer(item.Render)
	}
}

// RegisterComponents registers the debug UI component types. Pass it to
// session.WithComponents.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

// Install adds the debug singletons and systems to s. s must have been created
// with session.WithComponents(RegisterComponents).
func Install(s *session.Session, visible bool) {
	s.AddSingleton(ImguiInputState{})
	s.AddSingleton(Overlay{Visible: visible})
	s.Register(&ImguiSystem{})
	s.Register(NewGamePanel())
	s.Register(NewPerformancePanel(120))
	s.Register(NewArchetypePanel())
}
