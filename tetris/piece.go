package tetris

// Piece is a tetromino in play: a shape reference plus its position and
// orientation on the board. (X, Y) is the top-left corner of the 4x4 box.
type Piece struct {
	Shape       *Shape
	X, Y        int
	Orientation int
}

// All visits the absolute board coordinates of every block of the piece.
func (p *Piece) All(fn func(x, y int)) {
	p.Shape.All(p.X, p.Y, p.Orientation, fn)
}

// Cells returns the absolute board coordinates of the piece's blocks.
func (p *Piece) Cells() []Point {
	cells := make([]Point, 0, 4)
	p.All(func(x, y int) {
		cells = append(cells, Point{X: x, Y: y})
	})
	return cells
}

func (p *Piece) view() *PieceView {
	if p == nil || p.Shape == nil {
		return nil
	}
	return &PieceView{
		Shape:       p.Shape.Name,
		Color:       p.Shape.Color,
		X:           p.X,
		Y:           p.Y,
		Orientation: p.Orientation,
		Cells:       p.Cells(),
	}
}
