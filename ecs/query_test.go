package ecs_test

import (
	"testing"

	"github.com/plus3/blockfall/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tintedCell struct {
	*Cell
	*Tint
}

type cellMaybeFalling struct {
	*Cell
	Falling *Falling `ecs:"optional"`
}

func TestViewRequiredComponents(t *testing.T) {
	storage := newTestStorage()
	a := storage.Spawn(Cell{X: 1}, Tint{Name: "red"})
	storage.Spawn(Cell{X: 2})
	storage.Spawn(Tint{Name: "blue"})
	storage.Spawn(Cell{X: 3}, Tint{Name: "green"}, Falling{Speed: 1})

	view := ecs.NewView[tintedCell](storage)

	names := map[string]int{}
	for _, v := range view.Iter() {
		names[v.Tint.Name] = v.Cell.X
	}
	assert.Equal(t, map[string]int{"red": 1, "green": 3}, names)

	got := view.Get(a)
	require.NotNil(t, got)
	got.Cell.Y = 9
	assert.Equal(t, 9, ecs.ReadComponent[Cell](storage, a).Y)
}

func TestViewOptionalComponents(t *testing.T) {
	storage := newTestStorage()
	plain := storage.Spawn(Cell{X: 1})
	moving := storage.Spawn(Cell{X: 2}, Falling{Speed: 0.5})

	view := ecs.NewView[cellMaybeFalling](storage)
	assert.Nil(t, view.Get(plain).Falling)
	require.NotNil(t, view.Get(moving).Falling)
	assert.Equal(t, 0.5, view.Get(moving).Falling.Speed)

	count := 0
	for range view.Iter() {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestViewRejectsBadTypes(t *testing.T) {
	storage := newTestStorage()
	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ C Cell }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			C *Cell `ecs:"sometimes"`
		}](storage)
	})
}

func TestQuery(t *testing.T) {
	storage := newTestStorage()
	storage.Spawn(Cell{X: 1}, Tint{Name: "red"})
	storage.Spawn(Cell{X: 2}, Tint{Name: "blue"})
	storage.Spawn(Cell{X: 3})

	query := ecs.NewQuery[tintedCell](storage)
	assert.Panics(t, func() {
		for range query.Iter() {
		}
	})

	query.Execute()
	assert.Equal(t, 2, query.Len())

	storage.Spawn(Cell{X: 4}, Tint{Name: "green"})
	assert.Equal(t, 2, query.Len(), "results are cached until the next Execute")

	storage.Spawn(Cell{X: 5}, Tint{Name: "gold"}, Falling{})
	query.Execute()
	assert.Equal(t, 4, query.Len(), "new archetypes are picked up")

	seen := map[ecs.EntityId]bool{}
	for id, v := range query.Iter() {
		seen[id] = true
		assert.NotNil(t, v.Tint)
	}
	assert.Len(t, seen, 4)

	sum := 0
	for v := range query.Values() {
		sum += v.Cell.X
	}
	assert.Equal(t, 1+2+4+5, sum)
}
