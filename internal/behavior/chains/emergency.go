package chains

import (
	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/behavior/tasks"
	"voxelbrain/internal/config"
)

// HomeWaypoint is the label the emergency retreat looks up in persistent
// memory. Saving it is up to the user goal queue ("save_waypoint home").
const HomeWaypoint = "home"

// Emergency handles imminent death: critically low HP, or burning and
// drowning with hostiles around. It retreats to the saved home waypoint
// when one exists, otherwise it falls back to fleeing the nearest threat.
type Emergency struct {
	lowHP  int
	radius float64
	flee   float64
}

func NewEmergency(cfg config.Behavior) *Emergency {
	return &Emergency{lowHP: cfg.LowHPThreshold, radius: cfg.DangerRadius, flee: cfg.FleeDistance}
}

func (e *Emergency) Name() string { return "emergency" }

func (e *Emergency) Priority(ctl *agent.Controller) behavior.Priority {
	return behavior.PriorityEmergency
}

func (e *Emergency) Plan(ctl *agent.Controller) behavior.Task {
	view := ctl.View()
	if view.HP > e.lowHP {
		return nil
	}
	if ctl.Memory() != nil {
		if _, ok, err := ctl.Memory().Waypoint(HomeWaypoint); err == nil && ok {
			return tasks.NewGoToWaypoint(HomeWaypoint, 2)
		}
	}
	if threat, ok := view.NearestHostile(e.radius); ok {
		return tasks.NewFlee(threat.ID, e.flee)
	}
	// Hurt with nowhere to go: hold still and regenerate.
	return tasks.NewWait(5)
}
