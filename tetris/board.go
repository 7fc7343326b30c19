package tetris

// Board is the playfield grid. Cells are stored row-major; an empty Color marks
// an empty cell. Callers check bounds with InBounds before addressing a cell.
type Board struct {
	width  int
	height int
	cells  []Color
}

// NewBoard creates an empty width x height board.
func NewBoard(width, height int) *Board {
	return &Board{
		width:  width,
		height: height,
		cells:  make([]Color, width*height),
	}
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// InBounds reports whether (x, y) addresses a cell of the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Occupied reports whether the cell holds a locked block.
func (b *Board) Occupied(x, y int) bool {
	return b.cells[y*b.width+x] != ""
}

// At returns the colour of a cell.
func (b *Board) At(x, y int) Color {
	return b.cells[y*b.width+x]
}

// Set stores a colour in a cell; the empty Color clears it.
func (b *Board) Set(x, y int, c Color) {
	b.cells[y*b.width+x] = c
}

// Clear empties every cell.
func (b *Board) Clear() {
	clear(b.cells)
}

// RowComplete reports whether every cell of row y is occupied.
func (b *Board) RowComplete(y int) bool {
	for _, c := range b.cells[y*b.width : (y+1)*b.width] {
		if c == "" {
			return false
		}
	}
	return true
}

// RemoveRow deletes row y and shifts every row above it down by one. The top
// row becomes empty.
func (b *Board) RemoveRow(y int) {
	copy(b.cells[b.width:(y+1)*b.width], b.cells[:y*b.width])
	clear(b.cells[:b.width])
}

// RemoveCompleteRows scans from the bottom row up, removing every complete row,
// and returns how many were removed. After a removal the same row index is
// checked again since the content above has shifted into it.
func (b *Board) RemoveCompleteRows() int {
	removed := 0
	for y := b.height - 1; y >= 0; {
		if b.RowComplete(y) {
			b.RemoveRow(y)
			removed++
			continue
		}
		y--
	}
	return removed
}

// Topmost returns the index of the highest row holding a block, or the board
// height when the board is empty.
func (b *Board) Topmost() int {
	for i, c := range b.cells {
		if c != "" {
			return i / b.width
		}
	}
	return b.height
}

// Rows returns a copy of the grid as rows of colours, top row first.
func (b *Board) Rows() [][]Color {
	rows := make([][]Color, b.height)
	for y := range rows {
		rows[y] = make([]Color, b.width)
		copy(rows[y], b.cells[y*b.width:(y+1)*b.width])
	}
	return rows
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := NewBoard(b.width, b.height)
	copy(c.cells, b.cells)
	return c
}
