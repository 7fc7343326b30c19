package ecs

import (
	"slices"
)

// StorageStats is a point-in-time summary of a Storage, used by debug panels
// and reports.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		SingletonCount: len(s.singletons),
	}

	for _, a := range s.Archetypes() {
		names := make([]string, len(a.types))
		for i, t := range a.types {
			names[i] = t.String()
		}
		n := a.Len()
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             a.id,
			ComponentTypes: names,
			EntityCount:    n,
		})
		stats.TotalEntityCount += n
	}
	stats.ArchetypeCount = len(stats.ArchetypeBreakdown)

	for t := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	slices.Sort(stats.SingletonTypes)
	return stats
}
