package behavior

// Priority is a coarse tier, not a fine-grained score. Tiers totally order
// concern classes; ties between chains on the same tier fall back to
// registration order.
type Priority int

const (
	PriorityInactive     Priority = 0
	PriorityIdle         Priority = 1
	PriorityRoutine      Priority = 50
	PriorityPeriodicNeed Priority = 55
	PriorityHazard       Priority = 100
	PriorityEmergency    Priority = 1000
)
