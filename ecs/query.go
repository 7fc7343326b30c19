package ecs

import "iter"

// Query is a View whose results are collected once per frame. The Scheduler
// executes every bound query before it runs the frame's systems, so all
// systems see the same entity set even while they queue structural changes.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	archetypes     []*Archetype
	archetypeCount int

	ids      []EntityId
	values   []T
	executed bool
}

func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage. The Scheduler calls it for Query fields of
// registered systems.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.archetypes = nil
	q.archetypeCount = -1
	q.executed = false
}

// Execute refreshes the cached results.
func (q *Query[T]) Execute() {
	if n := q.storage.archetypes.Len(); n != q.archetypeCount {
		q.archetypes = q.archetypes[:0]
		for _, a := range q.storage.Archetypes() {
			if q.view.matches(a) {
				q.archetypes = append(q.archetypes, a)
			}
		}
		q.archetypeCount = n
	}

	q.ids = q.ids[:0]
	q.values = q.values[:0]
	for _, a := range q.archetypes {
		q.view.iterArchetype(a, func(id EntityId, v T) bool {
			q.ids = append(q.ids, id)
			q.values = append(q.values, v)
			return true
		})
	}
	q.executed = true
}

// Len returns the number of results of the last Execute.
func (q *Query[T]) Len() int {
	return len(q.ids)
}

// Iter yields the entity ids and views collected by the last Execute. It
// panics if Execute was never called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.executed {
		panic("ecs: Query.Iter called before Query.Execute")
	}
	return func(yield func(EntityId, T) bool) {
		for i := range q.ids {
			if !yield(q.ids[i], q.values[i]) {
				return
			}
		}
	}
}

// Values yields only the views.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.executed {
		panic("ecs: Query.Values called before Query.Execute")
	}
	return func(yield func(T) bool) {
		for _, v := range q.values {
			if !yield(v) {
				return
			}
		}
	}
}
