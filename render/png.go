package render

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gg"

	"github.com/plus3/blockfall/tetris"
)

// Block is one coloured cell of a composed board.
type Block struct {
	tetris.Point
	Color tetris.Color
	// Active is set for cells of the falling piece.
	Active bool
}

// Blocks lists the filled cells of s, locked blocks first, with the falling
// piece laid over them unless the game is cancelled.
func Blocks(s tetris.Snapshot) []Block {
	out := make([]Block, 0, s.Width*s.Height/2)
	for y, row := range s.Cells {
		for x, c := range row {
			if c != "" {
				out = append(out, Block{Point: tetris.Point{X: x, Y: y}, Color: c})
			}
		}
	}
	if s.Current != nil && s.State != tetris.Cancelled {
		for _, p := range s.Current.Cells {
			if p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height {
				out = append(out, Block{Point: p, Color: s.Current.Color, Active: true})
			}
		}
	}
	return out
}

// WritePNG draws s with cells of cellSize pixels and encodes it to w.
// A nil palette uses DefaultPalette.
func WritePNG(w io.Writer, s tetris.Snapshot, cellSize int, p *Palette) error {
	if cellSize <= 0 {
		return fmt.Errorf("render: cell size %d", cellSize)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New("render: empty snapshot")
	}
	if p == nil {
		p = DefaultPalette()
	}

	dc := gg.NewContext(s.Width*cellSize, s.Height*cellSize)
	defer dc.Close()

	dc.ClearWithColor(gg.FromColor(p.Background))

	size := float64(cellSize)
	dc.SetColor(p.Grid)
	dc.SetLineWidth(1)
	for x := 1; x < s.Width; x++ {
		dc.DrawLine(float64(x)*size, 0, float64(x)*size, float64(s.Height)*size)
	}
	for y := 1; y < s.Height; y++ {
		dc.DrawLine(0, float64(y)*size, float64(s.Width)*size, float64(y)*size)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("render: grid: %w", err)
	}

	for _, b := range Blocks(s) {
		dc.SetColor(p.Color(b.Color))
		dc.DrawRectangle(float64(b.X)*size+1, float64(b.Y)*size+1, size-2, size-2)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("render: block %v: %w", b.Point, err)
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return fmt.Errorf("render: flush: %w", err)
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode: %w", err)
	}
	return nil
}

// SavePNG writes the PNG to path.
func SavePNG(path string, s tetris.Snapshot, cellSize int, p *Palette) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("render: %w", cerr)
		}
	}()
	return WritePNG(f, s, cellSize, p)
}
