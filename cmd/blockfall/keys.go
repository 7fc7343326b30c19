package main

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/blockfall/input"
)

// Key auto-repeat in ticks.
const (
	repeatDelay    = 12
	repeatInterval = 3
)

var keyNames = map[ebiten.Key]string{
	ebiten.KeyEnter:      input.KeyEnter,
	ebiten.KeyEscape:     input.KeyEscape,
	ebiten.KeyArrowLeft:  input.KeyArrowLeft,
	ebiten.KeyArrowRight: input.KeyArrowRight,
	ebiten.KeyArrowDown:  input.KeyArrowDown,
	ebiten.KeyArrowUp:    input.KeyArrowUp,
	ebiten.KeySpace:      input.KeySpace,
}

// keyName returns the shared name of k. Letters and digits are named by
// their lower case character, as in the settings file.
func keyName(k ebiten.Key) string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	name := k.String()
	if len(name) == 1 {
		return strings.ToLower(name)
	}
	if d, ok := strings.CutPrefix(name, "Digit"); ok {
		return d
	}
	return name
}

// repeats reports whether a key held for d ticks fires this tick.
func repeats(d int) bool {
	return d == 1 || (d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0)
}

// keyboard feeds key presses through a Keymap.
type keyboard struct {
	keymap  *input.Keymap
	pressed []ebiten.Key
}

// commands calls emit for every key that fires this tick and releases keys
// that went up.
func (k *keyboard) commands(emit func(input.Gesture)) {
	for _, key := range inpututil.AppendJustReleasedKeys(nil) {
		k.keymap.KeyUp(keyName(key))
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	k.pressed = inpututil.AppendPressedKeys(k.pressed[:0])
	for _, key := range k.pressed {
		if !repeats(inpututil.KeyPressDuration(key)) {
			continue
		}
		if cmd, ok := k.keymap.KeyDown(keyName(key), ctrl); ok {
			emit(input.Gesture{Kind: input.GestureCommand, Command: cmd})
		}
	}
}
