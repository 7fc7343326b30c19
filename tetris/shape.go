package tetris

// Color names the colour a block is drawn with. Names follow the CSS colour
// keywords ("orange", "lightskyblue"). The empty Color marks an empty cell.
type Color string

// Point is a cell coordinate on the board. X grows to the right and Y grows
// downwards, row 0 being the top row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Shape is an immutable tetromino definition.
//
// Blocks holds one 16-bit occupancy mask per orientation (0 = spawn, 1 = 90°,
// 2 = 180°, 3 = 270°). The bits are read from the most significant one down,
// four per row, so 0x44C0 is
//
//	0100
//	0100
//	1100
//	0000
type Shape struct {
	Name   string
	Size   int
	Blocks [4]uint16
	Color  Color
}

// First visits every occupied cell of the shape at the given orientation,
// translated so the top-left of the 4x4 box sits at (x0, y0). The walk stops as
// soon as fn returns true, and First reports whether that happened.
func (s *Shape) First(x0, y0, orientation int, fn func(x, y int) bool) bool {
	return s.walk(x0, y0, orientation, fn, true)
}

// All visits every occupied cell like First but never stops early.
func (s *Shape) All(x0, y0, orientation int, fn func(x, y int)) {
	s.walk(x0, y0, orientation, func(x, y int) bool {
		fn(x, y)
		return false
	}, false)
}

func (s *Shape) walk(x0, y0, orientation int, fn func(x, y int) bool, stop bool) bool {
	row, col := 0, 0
	blocks := s.Blocks[orientation&3]
	for bit := uint16(0x8000); bit > 0; bit >>= 1 {
		if blocks&bit != 0 {
			if fn(x0+col, y0+row) && stop {
				return true
			}
		}
		col++
		if col == 4 {
			col = 0
			row++
		}
	}
	return false
}

// Cells returns the occupied cells of an orientation relative to the box origin.
func (s *Shape) Cells(orientation int) []Point {
	cells := make([]Point, 0, 4)
	s.All(0, 0, orientation, func(x, y int) {
		cells = append(cells, Point{X: x, Y: y})
	})
	return cells
}

// Offset returns the leftmost occupied column and the topmost occupied row of
// an orientation within its 4x4 box.
func (s *Shape) Offset(orientation int) (left, top int) {
	left, top = 4, 4
	s.All(0, 0, orientation, func(x, y int) {
		left = min(left, x)
		top = min(top, y)
	})
	return left, top
}

// DefaultShapes returns the seven canonical tetrominoes with their classic
// orientation tables and colours.
func DefaultShapes() []Shape {
	return []Shape{
		{Name: "I", Size: 4, Blocks: [4]uint16{0x0F00, 0x2222, 0x00F0, 0x4444}, Color: "orange"},
		{Name: "J", Size: 3, Blocks: [4]uint16{0x0E20, 0x44C0, 0x8E00, 0x6440}, Color: "orchid"},
		{Name: "L", Size: 3, Blocks: [4]uint16{0x0E80, 0xC440, 0x2E00, 0x4460}, Color: "blue"},
		{Name: "O", Size: 2, Blocks: [4]uint16{0xCC00, 0xCC00, 0xCC00, 0xCC00}, Color: "red"},
		{Name: "S", Size: 3, Blocks: [4]uint16{0x06C0, 0x8C40, 0x6C00, 0x4620}, Color: "lightskyblue"},
		{Name: "T", Size: 3, Blocks: [4]uint16{0x0E40, 0x4C40, 0x4E00, 0x4640}, Color: "yellow"},
		{Name: "Z", Size: 3, Blocks: [4]uint16{0x0C60, 0x4C80, 0xC600, 0x2640}, Color: "lawngreen"},
	}
}
