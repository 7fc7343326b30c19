package ecs_test

import (
	"fmt"

	"github.com/plus3/blockfall/ecs"
)

type KeyPress struct {
	Key string
}

type Typed struct {
	Text string
}

// typingSystem consumes KeyPress entities and appends them to the Typed
// singleton. Deletes are deferred to the end of the frame.
type typingSystem struct {
	Keys   ecs.Query[struct{ *KeyPress }]
	Buffer ecs.Singleton[Typed]
}

func (s *typingSystem) Execute(frame *ecs.UpdateFrame) {
	for id, k := range s.Keys.Iter() {
		s.Buffer.Get().Text += k.Key
		frame.Commands.Delete(id)
	}
}

func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[KeyPress](registry)
	storage := ecs.NewStorage(registry)
	storage.AddSingleton(Typed{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&typingSystem{})

	storage.Spawn(KeyPress{Key: "g"})
	storage.Spawn(KeyPress{Key: "o"})
	scheduler.Once(1.0 / 60)

	fmt.Println(ecs.ReadSingleton[Typed](storage).Text)
	fmt.Println(storage.CollectStats().TotalEntityCount)
	// Output:
	// go
	// 0
}

func ExampleStorage_CollectStats() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[KeyPress](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(KeyPress{Key: "a"})
	storage.Spawn(KeyPress{Key: "b"})
	storage.AddSingleton(Typed{})

	stats := storage.CollectStats()
	for _, a := range stats.ArchetypeBreakdown {
		fmt.Println(a.ComponentTypes, a.EntityCount)
	}
	fmt.Println(stats.SingletonTypes)
	// Output:
	// [ecs_test.KeyPress] 2
	// [ecs_test.Typed]
}
