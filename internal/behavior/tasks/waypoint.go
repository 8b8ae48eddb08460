package tasks

import (
	"fmt"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
)

// GoToWaypoint walks to a position remembered in the agent's memory store.
type GoToWaypoint struct {
	failure
	Label     string
	Tolerance float64

	target    agent.Vec3i
	hasTarget bool
}

func NewGoToWaypoint(name string, tolerance float64) *GoToWaypoint {
	if tolerance <= 0 {
		tolerance = 1.5
	}
	return &GoToWaypoint{Label: name, Tolerance: tolerance}
}

func (t *GoToWaypoint) Name() string { return fmt.Sprintf("waypoint(%s)", t.Label) }

func (t *GoToWaypoint) Start(ctl *agent.Controller) {
	mem := ctl.Memory()
	if mem == nil {
		t.markFailed()
		return
	}
	w, ok, err := mem.Waypoint(t.Label)
	if err != nil || !ok {
		t.markFailed()
		return
	}
	t.target = agent.Vec3i{X: w.X, Y: w.Y, Z: w.Z}
	t.hasTarget = true
}

func (t *GoToWaypoint) OnTick(ctl *agent.Controller) behavior.Task {
	if !t.hasTarget {
		return nil
	}
	return NewMoveTo(t.target, t.Tolerance)
}

func (t *GoToWaypoint) Stop(ctl *agent.Controller, interrupter behavior.Task) {}

func (t *GoToWaypoint) Finished(ctl *agent.Controller) bool {
	if t.failed {
		return true
	}
	return t.hasTarget && ctl.View().Pos.Dist(t.target) <= t.Tolerance
}

func (t *GoToWaypoint) SameAs(other behavior.Task) bool {
	o, ok := other.(*GoToWaypoint)
	return ok && o.Label == t.Label
}

// SaveWaypoint records the agent's current position under a name and
// finishes immediately.
type SaveWaypoint struct {
	failure
	Label string

	saved bool
}

func NewSaveWaypoint(name string) *SaveWaypoint {
	return &SaveWaypoint{Label: name}
}

func (t *SaveWaypoint) Name() string { return fmt.Sprintf("save_waypoint(%s)", t.Label) }

func (t *SaveWaypoint) Start(ctl *agent.Controller) {}

func (t *SaveWaypoint) OnTick(ctl *agent.Controller) behavior.Task {
	if t.saved || t.failed {
		return nil
	}
	mem := ctl.Memory()
	if mem == nil {
		t.markFailed()
		return nil
	}
	pos := ctl.View().Pos
	mem.SaveWaypoint(t.Label, pos.X, pos.Y, pos.Z, ctl.Tick())
	t.saved = true
	return nil
}

func (t *SaveWaypoint) Stop(ctl *agent.Controller, interrupter behavior.Task) {}

func (t *SaveWaypoint) Finished(ctl *agent.Controller) bool {
	return t.saved || t.failed
}

func (t *SaveWaypoint) SameAs(other behavior.Task) bool {
	o, ok := other.(*SaveWaypoint)
	return ok && o.Label == t.Label
}
