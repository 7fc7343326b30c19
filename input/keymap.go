// Package input translates raw keyboard and touch events into the engine's
// command vocabulary.
package input

import (
	"cmp"
	"slices"

	"github.com/plus3/blockfall/tetris"
)

// Key names shared by every frontend. Frontends convert their native key codes
// to these names before calling into a Keymap.
const (
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowDown  = "ArrowDown"
	KeyArrowUp    = "ArrowUp"
	KeySpace      = "Space"
)

// Binding is a key with an optional Ctrl modifier.
type Binding struct {
	Key  string `yaml:"key"`
	Ctrl bool   `yaml:"ctrl,omitempty"`
}

// Keymap maps key bindings to commands. A Ctrl binding without an explicit
// entry falls back to the plain key.
type Keymap struct {
	bindings map[Binding]tetris.Command
	held     map[string]bool
}

func NewKeymap() *Keymap {
	return &Keymap{
		bindings: make(map[Binding]tetris.Command),
		held:     make(map[string]bool),
	}
}

// DefaultKeymap returns Enter start/pause, Escape cancel, arrows to move and
// soft drop, Up to rotate clockwise, Ctrl+Up to rotate counterclockwise and
// Space to hard drop.
func DefaultKeymap() *Keymap {
	k := NewKeymap()
	k.Bind(Binding{Key: KeyEnter}, tetris.StartPause)
	k.Bind(Binding{Key: KeyEscape}, tetris.Cancel)
	k.Bind(Binding{Key: KeyArrowLeft}, tetris.MoveLeft)
	k.Bind(Binding{Key: KeyArrowRight}, tetris.MoveRight)
	k.Bind(Binding{Key: KeyArrowDown}, tetris.SoftDrop)
	k.Bind(Binding{Key: KeySpace}, tetris.HardDrop)
	k.Bind(Binding{Key: KeyArrowUp}, tetris.RotateClockwise)
	k.Bind(Binding{Key: KeyArrowUp, Ctrl: true}, tetris.RotateCounterclockwise)
	return k
}

func (k *Keymap) Bind(b Binding, cmd tetris.Command) {
	k.bindings[b] = cmd
}

func (k *Keymap) Unbind(b Binding) {
	delete(k.bindings, b)
}

func (k *Keymap) Lookup(key string, ctrl bool) (tetris.Command, bool) {
	if cmd, ok := k.bindings[Binding{Key: key, Ctrl: ctrl}]; ok {
		return cmd, true
	}
	if ctrl {
		cmd, ok := k.bindings[Binding{Key: key}]
		return cmd, ok
	}
	return 0, false
}

// KeyDown resolves a key press. Auto-repeat of a hard-drop key is swallowed
// until the key is released, so holding Space drops a single piece.
func (k *Keymap) KeyDown(key string, ctrl bool) (tetris.Command, bool) {
	cmd, ok := k.Lookup(key, ctrl)
	if !ok {
		return 0, false
	}
	if cmd == tetris.HardDrop {
		if k.held[key] {
			return 0, false
		}
		k.held[key] = true
	}
	return cmd, true
}

func (k *Keymap) KeyUp(key string) {
	delete(k.held, key)
}

// Entry is one row of a keymap listing.
type Entry struct {
	Binding `yaml:",inline"`
	Command tetris.Command `yaml:"command"`
}

// Entries lists the bindings ordered by command, then key.
func (k *Keymap) Entries() []Entry {
	out := make([]Entry, 0, len(k.bindings))
	for b, cmd := range k.bindings {
		out = append(out, Entry{Binding: b, Command: cmd})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(a.Command, b.Command); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		if a.Ctrl == b.Ctrl {
			return 0
		}
		if a.Ctrl {
			return 1
		}
		return -1
	})
	return out
}

// KeymapFrom builds a keymap from a listing.
func KeymapFrom(entries []Entry) *Keymap {
	k := NewKeymap()
	for _, e := range entries {
		k.Bind(e.Binding, e.Command)
	}
	return k
}
