package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/plus3/blockfall/input"
)

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:  input.KeyEnter,
	tcell.KeyEscape: input.KeyEscape,
	tcell.KeyLeft:   input.KeyArrowLeft,
	tcell.KeyRight:  input.KeyArrowRight,
	tcell.KeyDown:   input.KeyArrowDown,
	tcell.KeyUp:     input.KeyArrowUp,
}

// keyName converts a terminal key event to the shared key names. Printable
// keys are named by their rune, as in the settings file.
func keyName(ev *tcell.EventKey) (name string, ctrl bool) {
	ctrl = ev.Modifiers()&tcell.ModCtrl != 0
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return input.KeySpace, ctrl
		}
		return string(ev.Rune()), ctrl
	}
	return keyNames[ev.Key()], ctrl
}
