package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// iface mirrors the runtime layout of an interface value so the data pointer
// of a boxed *T can be read without reflection.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

func dataPointer(v any) unsafe.Pointer {
	return (*iface)(unsafe.Pointer(&v)).data
}

// column is the type-erased storage of one component type inside an archetype.
type column interface {
	append(item any) int
	remove(index int)
	get(index int) any
	has(index int) bool
	len() int
	indices() iter.Seq[int]
}

// ComponentRegistry records the component types a Storage may hold. Each
// Storage owns its registry so independent worlds never share state.
type ComponentRegistry struct {
	columns map[reflect.Type]func() column
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		columns: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent makes T usable as a component. Spawning an entity with an
// unregistered component type panics.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.columns[reflect.TypeFor[T]()] = func() column {
		return &blockColumn[T]{}
	}
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	factory := r.columns[t]
	if factory == nil {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return factory()
}

const blockSize = 64

// blockColumn stores values in fixed blocks so pointers handed out by get stay
// valid while the column grows. Freed slots are reused before new ones.
type blockColumn[T any] struct {
	blocks [][blockSize]T
	filled [][blockSize]bool
	free   []int
	next   int
	count  int
}

func (c *blockColumn[T]) append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	var index int
	if n := len(c.free); n > 0 {
		index = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		index = c.next
		c.next++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, [blockSize]T{})
			c.filled = append(c.filled, [blockSize]bool{})
		}
	}

	c.blocks[index/blockSize][index%blockSize] = value
	c.filled[index/blockSize][index%blockSize] = true
	c.count++
	return index
}

func (c *blockColumn[T]) has(index int) bool {
	if index < 0 || index >= c.next {
		return false
	}
	return c.filled[index/blockSize][index%blockSize]
}

func (c *blockColumn[T]) get(index int) any {
	if !c.has(index) {
		return nil
	}
	return &c.blocks[index/blockSize][index%blockSize]
}

func (c *blockColumn[T]) remove(index int) {
	if !c.has(index) {
		return
	}
	var zero T
	c.blocks[index/blockSize][index%blockSize] = zero
	c.filled[index/blockSize][index%blockSize] = false
	c.free = append(c.free, index)
	c.count--
}

func (c *blockColumn[T]) len() int {
	return c.count
}

func (c *blockColumn[T]) indices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.next; i++ {
			if c.filled[i/blockSize][i%blockSize] && !yield(i) {
				return
			}
		}
	}
}
