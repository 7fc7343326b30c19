package tetris

import "fmt"

// State is the play state of a game.
type State int

const (
	Cancelled State = iota
	Paused
	Playing
)

var stateNames = [...]string{
	Cancelled: "cancelled",
	Paused:    "paused",
	Playing:   "playing",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for i, n := range stateNames {
		if n == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Invalidation flags mark which parts of the game changed since a renderer last
// cleared them.
type Invalidation uint8

const (
	InvalidBoard Invalidation = 1 << iota
	InvalidUpcoming
	InvalidScore
	InvalidRows
	InvalidState

	InvalidAll = InvalidBoard | InvalidUpcoming | InvalidScore | InvalidRows | InvalidState
)

// EventKind identifies an engine event.
type EventKind int

const (
	EventLocked EventKind = iota
	EventLinesCleared
	EventGameOver
	EventStateChanged
)

func (k EventKind) String() string {
	switch k {
	case EventLocked:
		return "locked"
	case EventLinesCleared:
		return "linesCleared"
	case EventGameOver:
		return "gameOver"
	case EventStateChanged:
		return "stateChanged"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is delivered to listeners synchronously, from inside the call that
// caused it.
type Event struct {
	Kind  EventKind
	Lines int
	Score int
	Rows  int
	State State
}

// Listener receives engine events. Listeners must not call back into the game.
type Listener func(Event)

// Stats are cumulative counters over the lifetime of a Game.
type Stats struct {
	Games        int
	PiecesLocked int
	PlayerDrops  int
	LinesCleared int
	PlayTime     float64
}
