// Package render draws game snapshots to images.
package render

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/plus3/blockfall/tetris"
)

// Palette resolves block colour names to RGBA values. Names are CSS colour
// keywords matched without regard to case, or "#rrggbb" hex strings.
type Palette struct {
	Background color.RGBA
	Grid       color.RGBA
	Fallback   color.RGBA

	overrides map[string]color.RGBA
}

func DefaultPalette() *Palette {
	return &Palette{
		Background: color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff},
		Grid:       color.RGBA{R: 0x28, G: 0x28, B: 0x34, A: 0xff},
		Fallback:   colornames.Grey,
	}
}

// Set overrides the colour drawn for name.
func (p *Palette) Set(name tetris.Color, c color.RGBA) {
	if p.overrides == nil {
		p.overrides = make(map[string]color.RGBA)
	}
	p.overrides[strings.ToLower(string(name))] = c
}

// Color returns the RGBA value for a block colour name.
func (p *Palette) Color(name tetris.Color) color.RGBA {
	key := strings.ToLower(strings.TrimSpace(string(name)))
	if c, ok := p.overrides[key]; ok {
		return c
	}
	if c, ok := colornames.Map[key]; ok {
		return c
	}
	if len(key) == 7 && key[0] == '#' {
		if v, err := strconv.ParseUint(key[1:], 16, 32); err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
		}
	}
	return p.Fallback
}
