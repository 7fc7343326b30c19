package session

import (
	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetris"
)

// InputEvent is an entity holding one player input. Entities live for a
// single frame: InputSystem applies and deletes them.
type InputEvent struct {
	Gesture input.Gesture
	Seq     uint64
}

// GameRef is the singleton holding the game a session drives.
type GameRef struct {
	Game *tetris.Game
}

// Clock is the singleton frame counter.
type Clock struct {
	Frame   int64
	Elapsed float64
	Delta   float64
}

// EventQueue collects engine events between the moment they are emitted and
// the EventSystem run of the same frame.
type EventQueue struct {
	Pending []tetris.Event
}

// Timings is the singleton holding the scheduler statistics as of the end of
// the previous frame.
type Timings struct {
	Stats *ecs.SchedulerStats
}
