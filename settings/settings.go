// Package settings loads and saves the game settings file.
//
// The file is YAML. Only the keys present in the file override the built-in
// defaults, so a file may be as small as
//
//	board:
//	  width: 12
//	clutter:
//	  enabled: true
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetris"
)

type Settings struct {
	Board   Board               `yaml:"board"`
	Delays  Delays              `yaml:"delays"`
	Score   Score               `yaml:"score"`
	Clutter Clutter             `yaml:"clutter"`
	Shapes  []Shape             `yaml:"shapes"`
	Keys    []input.Entry       `yaml:"keys"`
	Touch   input.TouchSettings `yaml:"touch"`
}

type Board struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Delays are in seconds.
type Delays struct {
	Start     float64 `yaml:"start"`
	Decrement float64 `yaml:"decrement"`
	Min       float64 `yaml:"min"`
}

type Score struct {
	DropBonus int `yaml:"dropBonus"`
	LineBase  int `yaml:"lineBase"`
}

// Clutter levels are percentages of the board height. Min, Max and Step
// define the choices offered by frontends.
type Clutter struct {
	Enabled bool `yaml:"enabled"`
	Percent int  `yaml:"percent"`
	Min     int  `yaml:"min"`
	Max     int  `yaml:"max"`
	Step    int  `yaml:"step"`
}

// Levels lists the selectable clutter percentages.
func (c Clutter) Levels() []int {
	var out []int
	for p := c.Min; c.Step > 0 && p <= c.Max; p += c.Step {
		out = append(out, p)
	}
	return out
}

type Shape struct {
	Name   string  `yaml:"name"`
	Size   int     `yaml:"size"`
	Blocks [4]Mask `yaml:"blocks,flow"`
	Color  string  `yaml:"color"`
}

// Mask is an orientation bitmask written as a hex string such as "0x44C0".
type Mask uint16

func (m Mask) MarshalYAML() (any, error) {
	return fmt.Sprintf("0x%04X", uint16(m)), nil
}

func (m *Mask) UnmarshalYAML(node *yaml.Node) error {
	v, err := strconv.ParseUint(node.Value, 0, 16)
	if err != nil {
		return fmt.Errorf("line %d: bad block mask %q: %w", node.Line, node.Value, err)
	}
	*m = Mask(v)
	return nil
}

// Default returns the settings every file is overlaid on.
func Default() Settings {
	cfg := tetris.DefaultConfig()
	rules := tetris.DefaultScoreRules()

	shapes := make([]Shape, len(cfg.Shapes))
	for i, s := range cfg.Shapes {
		shapes[i] = Shape{Name: s.Name, Size: s.Size, Color: string(s.Color)}
		for o, b := range s.Blocks {
			shapes[i].Blocks[o] = Mask(b)
		}
	}

	return Settings{
		Board: Board{Width: cfg.Width, Height: cfg.Height},
		Delays: Delays{
			Start:     cfg.Delays.Start,
			Decrement: cfg.Delays.Decrement,
			Min:       cfg.Delays.Min,
		},
		Score: Score{DropBonus: rules.DropBonus, LineBase: rules.LineBase},
		Clutter: Clutter{
			Enabled: cfg.Clutter.Enabled,
			Percent: 65,
			Min:     5,
			Max:     80,
			Step:    5,
		},
		Shapes: shapes,
		Keys:   input.DefaultKeymap().Entries(),
		Touch:  input.DefaultTouchSettings(),
	}
}

// Config converts the settings into a validated engine configuration.
func (s Settings) Config() (tetris.Config, error) {
	if s.Clutter.Percent < s.Clutter.Min || s.Clutter.Percent > s.Clutter.Max {
		return tetris.Config{}, fmt.Errorf("%w: clutter %d%% outside [%d%%, %d%%]",
			tetris.ErrInvalidConfig, s.Clutter.Percent, s.Clutter.Min, s.Clutter.Max)
	}

	shapes := make([]tetris.Shape, len(s.Shapes))
	for i, sh := range s.Shapes {
		shapes[i] = tetris.Shape{Name: sh.Name, Size: sh.Size, Color: tetris.Color(sh.Color)}
		for o, b := range sh.Blocks {
			shapes[i].Blocks[o] = uint16(b)
		}
	}

	cfg := tetris.Config{
		Width:  s.Board.Width,
		Height: s.Board.Height,
		Shapes: shapes,
		Delays: tetris.Delays{
			Start:     s.Delays.Start,
			Decrement: s.Delays.Decrement,
			Min:       s.Delays.Min,
		},
		Score: tetris.PointRules{DropBonus: s.Score.DropBonus, LineBase: s.Score.LineBase},
		Clutter: tetris.Clutter{
			Enabled: s.Clutter.Enabled,
			Level:   float64(s.Clutter.Percent) / 100,
		},
	}
	if err := cfg.Validate(); err != nil {
		return tetris.Config{}, err
	}
	return cfg, nil
}

// Keymap builds the key bindings.
func (s Settings) Keymap() *input.Keymap {
	return input.KeymapFrom(s.Keys)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	return Parse(data)
}

// Parse overlays YAML data on the defaults and validates the result.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("settings: %w", err)
	}
	if _, err := s.Config(); err != nil {
		return Default(), fmt.Errorf("settings: %w", err)
	}
	return s, nil
}

// Save writes the complete settings to path.
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
