package tetris

import "fmt"

// Command is the fixed input vocabulary of the engine. Keyboard maps, touch
// gestures and network clients all translate their raw events into commands.
type Command int

const (
	MoveLeft Command = iota
	MoveRight
	SoftDrop
	HardDrop
	RotateClockwise
	RotateCounterclockwise
	StartPause
	Cancel
)

var commandNames = [...]string{
	MoveLeft:               "moveLeft",
	MoveRight:              "moveRight",
	SoftDrop:               "softDrop",
	HardDrop:               "hardDrop",
	RotateClockwise:        "rotateClockwise",
	RotateCounterclockwise: "rotateCounterclockwise",
	StartPause:             "startPause",
	Cancel:                 "cancel",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// Queued reports whether the command goes through the per-tick action queue.
// Play-state controls are applied immediately instead.
func (c Command) Queued() bool {
	return c >= MoveLeft && c <= RotateCounterclockwise
}

func (c Command) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(commandNames) {
		return nil, fmt.Errorf("unknown command %d", int(c))
	}
	return []byte(commandNames[c]), nil
}

func (c *Command) UnmarshalText(text []byte) error {
	cmd, ok := ParseCommand(string(text))
	if !ok {
		return fmt.Errorf("unknown command %q", text)
	}
	*c = cmd
	return nil
}

// ParseCommand resolves a command by its name, e.g. "hardDrop".
func ParseCommand(name string) (Command, bool) {
	for i, n := range commandNames {
		if n == name {
			return Command(i), true
		}
	}
	return 0, false
}

// Direction of a one-cell translation.
type Direction int

const (
	Left Direction = iota
	Right
	Down
)
