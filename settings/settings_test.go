package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesEngineDefaults(t *testing.T) {
	cfg, err := Default().Config()
	require.NoError(t, err)

	want := tetris.DefaultConfig()
	assert.Equal(t, want.Width, cfg.Width)
	assert.Equal(t, want.Height, cfg.Height)
	assert.Equal(t, want.Shapes, cfg.Shapes)
	assert.Equal(t, want.Delays, cfg.Delays)
	assert.Equal(t, tetris.DefaultScoreRules(), cfg.Score)
	assert.Equal(t, tetris.Clutter{Enabled: false, Level: 0.65}, cfg.Clutter)
}

func TestParseOverridesOnlyPresentKeys(t *testing.T) {
	s, err := Parse([]byte(`
board:
  width: 12
clutter:
  enabled: true
  percent: 40
touch:
  clickThreshold: 150ms
`))
	require.NoError(t, err)

	assert.Equal(t, 12, s.Board.Width)
	assert.Equal(t, 20, s.Board.Height)
	assert.True(t, s.Clutter.Enabled)
	assert.Equal(t, 40, s.Clutter.Percent)
	assert.Equal(t, 80, s.Clutter.Max)
	assert.Equal(t, 150*time.Millisecond, s.Touch.ClickThreshold)
	assert.Equal(t, 16.0, s.Touch.SwipeThreshold)
	assert.Len(t, s.Shapes, 7)

	cfg, err := s.Config()
	require.NoError(t, err)
	assert.InDelta(t, 0.4, cfg.Clutter.Level, 1e-9)
}

func TestParseShapesAndKeys(t *testing.T) {
	s, err := Parse([]byte(`
shapes:
  - name: O
    size: 2
    blocks: [0xCC00, "0xCC00", 0xcc00, 52224]
    color: gold
keys:
  - key: KeyA
    command: moveLeft
  - key: ArrowUp
    ctrl: true
    command: rotateCounterclockwise
`))
	require.NoError(t, err)
	require.Len(t, s.Shapes, 1)
	assert.Equal(t, [4]Mask{0xCC00, 0xCC00, 0xCC00, 0xCC00}, s.Shapes[0].Blocks)

	k := s.Keymap()
	cmd, ok := k.Lookup("KeyA", false)
	assert.True(t, ok)
	assert.Equal(t, tetris.MoveLeft, cmd)
	_, ok = k.Lookup(input.KeyArrowLeft, false)
	assert.False(t, ok, "a keys list replaces the defaults")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{"syntax", "board: [", false},
		{"bad mask", "shapes:\n  - {name: O, size: 2, blocks: [zz, 0, 0, 0], color: red}", false},
		{"unknown command", "keys:\n  - {key: KeyA, command: jump}", false},
		{"board too small", "board: {width: 3}", true},
		{"clutter out of range", "clutter: {percent: 95}", true},
		{"shape without colour", "shapes:\n  - {name: O, size: 2, blocks: [0xCC00, 0xCC00, 0xCC00, 0xCC00]}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, Default(), s)
			if tt.invalid {
				assert.ErrorIs(t, err, tetris.ErrInvalidConfig)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockfall.yaml")
	s := Default()
	s.Board.Width = 14
	s.Clutter.Enabled = true
	s.Touch.SwipeThreshold = 24

	require.NoError(t, Save(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "0x0F00")
	assert.Contains(t, string(data), "command: hardDrop")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestClutterLevels(t *testing.T) {
	levels := Default().Clutter.Levels()
	assert.Len(t, levels, 16)
	assert.Equal(t, 5, levels[0])
	assert.Equal(t, 80, levels[len(levels)-1])
	assert.Empty(t, Clutter{Min: 5, Max: 80}.Levels())
}
