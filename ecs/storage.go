package ecs

import (
	"cmp"
	"reflect"
	"slices"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage owns every archetype and singleton of one world.
type Storage struct {
	archetypes *intmap.Map[uint32, *Archetype]
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry
}

type singletonEntry struct {
	typ     reflect.Type
	value   any
	dataPtr unsafe.Pointer
}

func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: intmap.New[uint32, *Archetype](16),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Spawn creates an entity from the given component values.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}

	types := sortedTypes(components)
	id := archetypeHash(types)

	archetype, ok := s.archetypes.Get(id)
	if !ok {
		archetype = newArchetype(id, types, s.registry)
		s.archetypes.Put(id, archetype)
	}
	return NewEntityId(id, archetype.spawn(components))
}

// Delete removes the entity and reports whether it existed.
func (s *Storage) Delete(id EntityId) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return false
	}
	return archetype.remove(id.Index())
}

// Alive reports whether id refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	return ok && len(archetype.columns) > 0 && archetype.columns[0].has(int(id.Index()))
}

// GetComponent returns a pointer to the entity's component of type t, or nil.
func (s *Storage) GetComponent(id EntityId, t reflect.Type) any {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return nil
	}
	return archetype.get(id.Index(), t)
}

func (s *Storage) HasComponent(id EntityId, t reflect.Type) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	return ok && archetype.HasComponent(t)
}

// GetArchetype returns the archetype holding exactly the types of components.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	archetype, _ := s.archetypes.Get(archetypeHash(sortedTypes(components)))
	return archetype
}

// Archetypes returns every archetype ordered by id.
func (s *Storage) Archetypes() []*Archetype {
	out := make([]*Archetype, 0, s.archetypes.Len())
	for a := range s.archetypes.Values() {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *Archetype) int {
		return cmp.Compare(a.id, b.id)
	})
	return out
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T component, or nil when it has none.
func ReadComponent[T any](reader ComponentReader, id EntityId) *T {
	c, _ := reader.GetComponent(id, reflect.TypeFor[T]()).(*T)
	return c
}

// AddSingleton stores value as the singleton of its type, replacing any
// previous one. Singletons are not entities and never match a query.
func (s *Storage) AddSingleton(value any) {
	t := componentType(value)
	ptr := reflect.New(t)
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer {
		ptr.Elem().Set(rv.Elem())
	} else {
		ptr.Elem().Set(rv)
	}

	if entry, ok := s.singletons[t]; ok {
		// Keep the address stable for cached Singleton accessors.
		reflect.NewAt(t, entry.dataPtr).Elem().Set(ptr.Elem())
		return
	}
	s.singletons[t] = &singletonEntry{
		typ:     t,
		value:   ptr.Interface(),
		dataPtr: ptr.UnsafePointer(),
	}
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ReadSingleton returns the T singleton, or nil if none was added.
func ReadSingleton[T any](s *Storage) *T {
	entry := s.getSingletonEntry(reflect.TypeFor[T]())
	if entry == nil {
		return nil
	}
	return (*T)(entry.dataPtr)
}
