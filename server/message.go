package server

import (
	"fmt"

	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetris"
)

// Message types sent by clients.
const (
	TypeCommand  = "command"
	TypeMoveTo   = "moveTo"
	TypeStepDown = "stepDown"
)

// Message types sent by the server.
const (
	TypeSnapshot = "snapshot"
	TypeError    = "error"
)

// Incoming is a client message, for example
//
//	{"type":"command","command":"moveLeft"}
//	{"type":"moveTo","column":3}
type Incoming struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Column  int    `json:"column,omitempty"`
	Row     int    `json:"row,omitempty"`
}

// Gesture converts the message into the input it stands for.
func (m Incoming) Gesture() (input.Gesture, error) {
	switch m.Type {
	case TypeCommand:
		cmd, ok := tetris.ParseCommand(m.Command)
		if !ok {
			return input.Gesture{}, fmt.Errorf("unknown command %q", m.Command)
		}
		return input.Gesture{Kind: input.GestureCommand, Command: cmd}, nil
	case TypeMoveTo:
		return input.Gesture{Kind: input.GestureMoveTo, Column: m.Column}, nil
	case TypeStepDown:
		return input.Gesture{Kind: input.GestureStepDown, Row: m.Row}, nil
	}
	return input.Gesture{}, fmt.Errorf("unknown message type %q", m.Type)
}

// Outgoing is a server message. Snapshots carry a version that grows by one
// for every change broadcast in the room.
type Outgoing struct {
	Type     string           `json:"type"`
	Version  uint64           `json:"version,omitempty"`
	Snapshot *tetris.Snapshot `json:"snapshot,omitempty"`
	Error    string           `json:"error,omitempty"`
}
