package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View reads entities as a struct of component pointers. T must be a struct
// whose fields are pointers to component types; embedded fields are required
// and named fields tagged `ecs:"optional"` are set to nil when missing.
//
//	type falling struct {
//		*Piece
//		Ghost *Outline `ecs:"optional"`
//	}
type View[T any] struct {
	storage  *Storage
	types    []reflect.Type
	optional []bool
	offsets  []uintptr
}

func NewView[T any](storage *Storage) *View[T] {
	st := reflect.TypeFor[T]()
	if st.Kind() != reflect.Struct {
		panic("ecs: view type must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if f.Type.Kind() != reflect.Pointer {
			panic("ecs: view field " + f.Name + " must be a pointer")
		}

		optional := false
		if tag := f.Tag.Get("ecs"); tag != "" && !f.Anonymous {
			if tag != "optional" {
				panic("ecs: invalid tag " + tag + " on view field " + f.Name)
			}
			optional = true
		}

		v.types = append(v.types, f.Type.Elem())
		v.optional = append(v.optional, optional)
		v.offsets = append(v.offsets, f.Offset)
	}
	return v
}

func (v *View[T]) matches(a *Archetype) bool {
	for i, t := range v.types {
		if !v.optional[i] && !a.HasComponent(t) {
			return false
		}
	}
	return true
}

// columnsOf maps each view field to a column of a, or -1 when absent.
func (v *View[T]) columnsOf(a *Archetype) []int {
	cols := make([]int, len(v.types))
	for i, t := range v.types {
		cols[i] = a.column(t)
	}
	return cols
}

func (v *View[T]) fill(dst unsafe.Pointer, a *Archetype, index int, cols []int) bool {
	for i, col := range cols {
		field := unsafe.Add(dst, v.offsets[i])
		var comp any
		if col >= 0 {
			comp = a.columns[col].get(index)
		}
		if comp == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(field) = nil
			continue
		}
		*(*unsafe.Pointer)(field) = dataPointer(comp)
	}
	return true
}

// Get returns the view of one entity, or nil when it lacks a required
// component.
func (v *View[T]) Get(id EntityId) *T {
	a, ok := v.storage.archetypes.Get(id.ArchetypeId())
	if !ok || !v.matches(a) {
		return nil
	}
	var out T
	if !v.fill(unsafe.Pointer(&out), a, int(id.Index()), v.columnsOf(a)) {
		return nil
	}
	return &out
}

// Iter walks every matching entity without caching.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, a := range v.storage.Archetypes() {
			if !v.iterArchetype(a, yield) {
				return
			}
		}
	}
}

func (v *View[T]) iterArchetype(a *Archetype, yield func(EntityId, T) bool) bool {
	if !v.matches(a) || len(a.columns) == 0 {
		return true
	}
	cols := v.columnsOf(a)
	var out T
	for index := range a.columns[0].indices() {
		if !v.fill(unsafe.Pointer(&out), a, index, cols) {
			continue
		}
		if !yield(NewEntityId(a.id, uint32(index)), out) {
			return false
		}
	}
	return true
}
