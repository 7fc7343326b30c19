package ecs

// EntityId packs the archetype id into the upper 32 bits and the slot index
// within that archetype into the lower 32 bits.
type EntityId uint64

func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) Index() uint32 {
	return uint32(e)
}

// System is run once per frame by a Scheduler. Query and Singleton fields of a
// system struct are bound to the scheduler's storage on registration.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame is handed to every system of one Scheduler.Once call.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}
