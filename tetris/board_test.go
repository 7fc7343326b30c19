package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fillRow(b *Board, y int, c Color) {
	for x := range b.Width() {
		b.Set(x, y, c)
	}
}

func TestBoardBasics(t *testing.T) {
	b := NewBoard(10, 20)
	assert.Equal(t, 10, b.Width())
	assert.Equal(t, 20, b.Height())
	assert.Equal(t, 20, b.Topmost())

	assert.True(t, b.InBounds(0, 0))
	assert.True(t, b.InBounds(9, 19))
	assert.False(t, b.InBounds(-1, 0))
	assert.False(t, b.InBounds(10, 0))
	assert.False(t, b.InBounds(0, 20))

	b.Set(3, 7, "red")
	assert.True(t, b.Occupied(3, 7))
	assert.Equal(t, Color("red"), b.At(3, 7))
	assert.Equal(t, 7, b.Topmost())

	b.Clear()
	assert.False(t, b.Occupied(3, 7))
}

func TestRemoveCompleteRowsWithoutCompleteRows(t *testing.T) {
	b := NewBoard(5, 6)
	b.Set(0, 5, "red")
	b.Set(4, 2, "blue")
	for x := range 4 {
		b.Set(x, 4, "yellow")
	}
	before := b.Clone()

	assert.Equal(t, 0, b.RemoveCompleteRows())
	assert.Equal(t, before, b)
}

func TestRemoveCompleteRowsShiftsDown(t *testing.T) {
	b := NewBoard(5, 6)
	b.Set(1, 2, "red")
	fillRow(b, 3, "blue")
	b.Set(2, 4, "orange")
	fillRow(b, 5, "blue")

	assert.Equal(t, 2, b.RemoveCompleteRows())
	assert.Equal(t, Color("orange"), b.At(2, 5))
	assert.Equal(t, Color("red"), b.At(1, 4))
	assert.Equal(t, 4, b.Topmost())
}

func TestRemoveCompleteRowsRechecksShiftedRow(t *testing.T) {
	b := NewBoard(5, 6)
	fillRow(b, 2, "blue")
	fillRow(b, 3, "blue")
	fillRow(b, 4, "blue")
	fillRow(b, 5, "blue")
	b.Set(0, 1, "red")

	assert.Equal(t, 4, b.RemoveCompleteRows())
	assert.Equal(t, Color("red"), b.At(0, 5))
	assert.Equal(t, 5, b.Topmost())
}

func TestRemoveCompleteTopRow(t *testing.T) {
	b := NewBoard(5, 5)
	fillRow(b, 0, "blue")
	assert.Equal(t, 1, b.RemoveCompleteRows())
	assert.Equal(t, 5, b.Topmost())
}

func TestRowsIsACopy(t *testing.T) {
	b := NewBoard(5, 5)
	b.Set(1, 1, "red")
	rows := b.Rows()
	rows[1][1] = ""
	assert.True(t, b.Occupied(1, 1))
}
