package tasks

import (
	"math/rand"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/timers"
)

// Wander strolls to a random nearby point, pauses, then finishes so its
// chain derives the next stroll. The destination is picked once, seeded
// from the start tick, keeping a replay of the same world deterministic.
type Wander struct {
	Radius       int
	PauseSeconds float64

	target    agent.Vec3i
	hasTarget bool
	arrived   bool
	pause     *Wait
	giveUp    timers.Timer
}

func NewWander(radius int, pauseSeconds float64) *Wander {
	if radius <= 0 {
		radius = 10
	}
	if pauseSeconds <= 0 {
		pauseSeconds = 4
	}
	return &Wander{Radius: radius, PauseSeconds: pauseSeconds}
}

func (t *Wander) Name() string { return "wander" }

func (t *Wander) Start(ctl *agent.Controller) {
	r := rand.New(rand.NewSource(int64(ctl.Tick())))
	pos := ctl.View().Pos
	t.target = agent.Vec3i{
		X: pos.X + r.Intn(2*t.Radius+1) - t.Radius,
		Y: pos.Y,
		Z: pos.Z + r.Intn(2*t.Radius+1) - t.Radius,
	}
	t.hasTarget = true
	t.pause = NewWait(t.PauseSeconds)
	t.giveUp = timers.NewTickTimer(ctl, 40)
}

func (t *Wander) OnTick(ctl *agent.Controller) behavior.Task {
	if !t.hasTarget {
		return nil
	}
	if !t.arrived {
		// An unreachable stroll target is not worth fighting for.
		if ctl.View().Pos.Dist(t.target) <= 1.5 || t.giveUp.Elapsed() {
			t.arrived = true
		} else {
			m := NewMoveTo(t.target, 1.5)
			m.TimeoutSeconds = 30
			return m
		}
	}
	return t.pause
}

func (t *Wander) Stop(ctl *agent.Controller, interrupter behavior.Task) {}

func (t *Wander) Finished(ctl *agent.Controller) bool {
	return t.arrived && t.pause.Finished(ctl)
}

// SameAs: every wander is the same intent; the random destination is run
// state.
func (t *Wander) SameAs(other behavior.Task) bool {
	_, ok := other.(*Wander)
	return ok
}
