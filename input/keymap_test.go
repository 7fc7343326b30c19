package input

import (
	"testing"

	"github.com/plus3/blockfall/tetris"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeymapLookup(t *testing.T) {
	k := DefaultKeymap()
	tests := []struct {
		key  string
		ctrl bool
		want tetris.Command
	}{
		{KeyEnter, false, tetris.StartPause},
		{KeyEscape, false, tetris.Cancel},
		{KeyArrowLeft, false, tetris.MoveLeft},
		{KeyArrowRight, false, tetris.MoveRight},
		{KeyArrowDown, false, tetris.SoftDrop},
		{KeySpace, false, tetris.HardDrop},
		{KeyArrowUp, false, tetris.RotateClockwise},
		{KeyArrowUp, true, tetris.RotateCounterclockwise},
		{KeyArrowLeft, true, tetris.MoveLeft},
	}
	for _, tt := range tests {
		cmd, ok := k.Lookup(tt.key, tt.ctrl)
		assert.True(t, ok, "%s ctrl=%v", tt.key, tt.ctrl)
		assert.Equal(t, tt.want, cmd, "%s ctrl=%v", tt.key, tt.ctrl)
	}

	_, ok := k.Lookup("F5", false)
	assert.False(t, ok)
}

func TestKeyDownSuppressesHardDropRepeat(t *testing.T) {
	k := DefaultKeymap()

	cmd, ok := k.KeyDown(KeySpace, false)
	assert.True(t, ok)
	assert.Equal(t, tetris.HardDrop, cmd)

	_, ok = k.KeyDown(KeySpace, false)
	assert.False(t, ok, "repeat while held")

	cmd, ok = k.KeyDown(KeyArrowLeft, false)
	assert.True(t, ok)
	assert.Equal(t, tetris.MoveLeft, cmd)
	_, ok = k.KeyDown(KeyArrowLeft, false)
	assert.True(t, ok, "movement keys repeat")

	k.KeyUp(KeySpace)
	_, ok = k.KeyDown(KeySpace, false)
	assert.True(t, ok)
}

func TestKeymapEntriesRoundTrip(t *testing.T) {
	k := DefaultKeymap()
	entries := k.Entries()
	assert.Len(t, entries, 8)
	assert.Equal(t, Entry{Binding: Binding{Key: KeyArrowLeft}, Command: tetris.MoveLeft}, entries[0])
	assert.Equal(t, Entry{Binding: Binding{Key: KeyEscape}, Command: tetris.Cancel}, entries[7])

	assert.Equal(t, entries, KeymapFrom(entries).Entries())
}
