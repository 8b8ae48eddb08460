package tasks

import (
	"fmt"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/timers"
)

// Wait idles for a fixed interval of simulation time.
type Wait struct {
	Seconds float64

	timer timers.Timer
}

func NewWait(seconds float64) *Wait {
	return &Wait{Seconds: seconds}
}

func (t *Wait) Name() string { return fmt.Sprintf("wait(%.1fs)", t.Seconds) }

func (t *Wait) Start(ctl *agent.Controller) {
	t.timer = timers.NewTickTimer(ctl, t.Seconds)
}

func (t *Wait) OnTick(ctl *agent.Controller) behavior.Task { return nil }

func (t *Wait) Stop(ctl *agent.Controller, interrupter behavior.Task) {}

func (t *Wait) Finished(ctl *agent.Controller) bool {
	return t.timer != nil && t.timer.Elapsed()
}

func (t *Wait) SameAs(other behavior.Task) bool {
	o, ok := other.(*Wait)
	return ok && o.Seconds == t.Seconds
}
