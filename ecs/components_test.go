package ecs_test

import "github.com/plus3/blockfall/ecs"

type Cell struct {
	X, Y int
}

type Tint struct {
	Name string
}

type Falling struct {
	Speed float64
}

type Score struct {
	Points int
}

func newTestStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Cell](registry)
	ecs.RegisterComponent[Tint](registry)
	ecs.RegisterComponent[Falling](registry)
	ecs.RegisterComponent[int](registry)
	ecs.RegisterComponent[string](registry)
	return ecs.NewStorage(registry)
}
