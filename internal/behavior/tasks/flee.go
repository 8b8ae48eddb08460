package tasks

import (
	"fmt"
	"math"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
)

// Flee retreats from a threat entity until it is at least Distance away or
// no longer observed. Identity is the threat, not the retreat point: the
// hostile moving a block must not restart the retreat.
//
// Flee declares the safety override so it can displace tasks holding a
// grounded-safety veto; escaping danger outranks a tidy landing.
type Flee struct {
	ThreatID string
	Distance float64

	target    agent.Vec3i
	hasTarget bool
	lastSeen  agent.Vec3i
	seen      bool
}

func NewFlee(threatID string, distance float64) *Flee {
	if distance <= 0 {
		distance = 12
	}
	return &Flee{ThreatID: threatID, Distance: distance}
}

func (t *Flee) Name() string {
	return fmt.Sprintf("flee(%s)", t.ThreatID)
}

func (t *Flee) Start(ctl *agent.Controller) {}

func (t *Flee) OnTick(ctl *agent.Controller) behavior.Task {
	view := ctl.View()

	threat, ok := t.findThreat(view)
	if !ok {
		return nil
	}
	t.lastSeen, t.seen = threat.Pos, true

	if !t.hasTarget {
		t.target = retreatPoint(view.Pos, threat.Pos, t.Distance)
		t.hasTarget = true
	}
	m := NewMoveTo(t.target, 1.5)
	m.TimeoutSeconds = 20
	return m
}

func (t *Flee) findThreat(view *agent.View) (agent.Entity, bool) {
	for _, e := range view.Entities {
		if e.ID == t.ThreatID {
			return e, true
		}
	}
	return agent.Entity{}, false
}

func (t *Flee) Stop(ctl *agent.Controller, interrupter behavior.Task) {}

func (t *Flee) Finished(ctl *agent.Controller) bool {
	threat, ok := t.findThreat(ctl.View())
	if !ok {
		// Threat despawned or left the observation window.
		return true
	}
	return ctl.View().Pos.Dist(threat.Pos) >= t.Distance
}

func (t *Flee) SameAs(other behavior.Task) bool {
	o, ok := other.(*Flee)
	return ok && o.ThreatID == t.ThreatID
}

func (t *Flee) Caps() behavior.Caps { return behavior.CapOverridesSafety }

// retreatPoint extends the threat->agent direction to distance, falling
// back to +X when the two positions coincide.
func retreatPoint(pos, threat agent.Vec3i, distance float64) agent.Vec3i {
	dx := float64(pos.X - threat.X)
	dz := float64(pos.Z - threat.Z)
	norm := math.Hypot(dx, dz)
	if norm == 0 {
		dx, dz, norm = 1, 0, 1
	}
	return agent.Vec3i{
		X: pos.X + int(math.Round(dx/norm*distance)),
		Y: pos.Y,
		Z: pos.Z + int(math.Round(dz/norm*distance)),
	}
}
