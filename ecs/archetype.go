package ecs

import (
	"cmp"
	"iter"
	"reflect"
	"slices"
	"unsafe"
)

// Archetype holds every entity that has exactly the same set of component
// types. Types are kept sorted by name; columns[i] stores types[i].
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}
	for i, t := range types {
		a.columns[i] = registry.newColumn(t)
	}
	return a
}

func (a *Archetype) ID() uint32 {
	return a.id
}

func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].len()
}

func (a *Archetype) column(t reflect.Type) int {
	for i, typ := range a.types {
		if typ == t {
			return i
		}
	}
	return -1
}

func (a *Archetype) HasComponent(t reflect.Type) bool {
	return a.column(t) >= 0
}

// spawn appends one value per column. All columns allocate slots in lockstep,
// so the index of any column is the entity index.
func (a *Archetype) spawn(components []any) uint32 {
	index := -1
	for _, comp := range components {
		if i := a.column(componentType(comp)); i >= 0 {
			index = a.columns[i].append(comp)
		}
	}
	return uint32(index)
}

func (a *Archetype) get(index uint32, t reflect.Type) any {
	i := a.column(t)
	if i < 0 {
		return nil
	}
	return a.columns[i].get(int(index))
}

func (a *Archetype) remove(index uint32) bool {
	if len(a.columns) == 0 || !a.columns[0].has(int(index)) {
		return false
	}
	for _, c := range a.columns {
		c.remove(int(index))
	}
	return true
}

// Iter yields the ids of the archetype's live entities.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].indices() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// sortedTypes returns the component types of components ordered by name. It
// panics on kinds that cannot be stored by value.
func sortedTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
			panic("ecs: components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return cmp.Compare(a.String(), b.String())
	})
	return types
}

// archetypeHash is FNV-1a over the runtime type pointers of sorted types.
func archetypeHash(types []reflect.Type) uint32 {
	const prime uint32 = 16777619
	h := uint32(2166136261)
	for _, t := range types {
		p := uintptr(dataPointer(t))
		v := uint32(p)
		if unsafe.Sizeof(p) == 8 {
			v ^= uint32(uint64(p) >> 32)
		}
		h ^= v
		h *= prime
	}
	return h
}
