package chains

import (
	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/behavior/tasks"
	"voxelbrain/internal/config"
)

// Wanderer keeps the agent strolling when nothing else wants the body. It
// is always active at the idle tier, so it wins exactly when every other
// chain is quiet.
type Wanderer struct {
	radius int
	pause  float64
}

func NewWanderer(cfg config.Behavior) *Wanderer {
	return &Wanderer{radius: cfg.WanderRadius, pause: cfg.WanderPauseSeconds}
}

func (w *Wanderer) Name() string { return "wander" }

func (w *Wanderer) Priority(ctl *agent.Controller) behavior.Priority {
	return behavior.PriorityIdle
}

func (w *Wanderer) Plan(ctl *agent.Controller) behavior.Task {
	return tasks.NewWander(w.radius, w.pause)
}
