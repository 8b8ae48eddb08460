package chains

import (
	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/behavior/tasks"
	"voxelbrain/internal/config"
)

// Danger flees the nearest hostile inside the danger radius. The plan is
// keyed to the threat's entity id; the same mob shuffling around must not
// restart the retreat, a different mob taking over as nearest must.
type Danger struct {
	radius   float64
	distance float64
}

func NewDanger(cfg config.Behavior) *Danger {
	return &Danger{radius: cfg.DangerRadius, distance: cfg.FleeDistance}
}

func (d *Danger) Name() string { return "danger" }

func (d *Danger) Priority(ctl *agent.Controller) behavior.Priority {
	return behavior.PriorityHazard
}

func (d *Danger) Plan(ctl *agent.Controller) behavior.Task {
	threat, ok := ctl.View().NearestHostile(d.radius)
	if !ok {
		return nil
	}
	return tasks.NewFlee(threat.ID, d.distance)
}
