package tasks

import (
	"fmt"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/protocol"
	"voxelbrain/internal/timers"
)

// MoveTo walks the agent to a target position by delegating the actual
// pathing to the server's MOVE_TO task and polling progress. It refuses to
// be replaced while the agent is airborne unless the candidate declares the
// safety-override capability: abandoning movement mid-air leaves the agent
// falling with no one steering.
type MoveTo struct {
	failure
	Target    agent.Vec3i
	Tolerance float64

	// TimeoutSeconds bounds the whole movement; zero means the default.
	TimeoutSeconds float64

	taskID   string
	issued   bool
	timeout  timers.Timer
	airborne bool
}

func NewMoveTo(target agent.Vec3i, tolerance float64) *MoveTo {
	if tolerance <= 0 {
		tolerance = 1.2
	}
	return &MoveTo{Target: target, Tolerance: tolerance}
}

func (t *MoveTo) Name() string {
	return fmt.Sprintf("move_to(%d,%d,%d)", t.Target.X, t.Target.Y, t.Target.Z)
}

func (t *MoveTo) Start(ctl *agent.Controller) {
	t.taskID = fmt.Sprintf("K_move_%d", ctl.Tick())
	secs := t.TimeoutSeconds
	if secs <= 0 {
		secs = defaultMoveTimeoutSeconds
	}
	t.timeout = timers.NewTickTimer(ctl, secs)
}

func (t *MoveTo) OnTick(ctl *agent.Controller) behavior.Task {
	view := ctl.View()
	t.airborne = view.Airborne()

	if !t.issued {
		ctl.Acts().IssueTask(protocol.TaskReq{
			ID:        t.taskID,
			Type:      protocol.TaskMoveTo,
			Target:    t.Target.Arr(),
			Tolerance: t.Tolerance,
		})
		t.issued = true
		return nil
	}

	if r, ok := view.ActionResult(t.taskID); ok && !r.OK {
		if protocol.Retryable(r.Code) {
			// Re-issue next tick under a fresh id; the timeout keeps
			// running so a permanently blocked path still fails.
			t.taskID = fmt.Sprintf("K_move_%d", ctl.Tick())
			t.issued = false
		} else {
			t.markFailed()
		}
		return nil
	}

	if t.timeout.Elapsed() {
		t.markFailed()
	}
	return nil
}

func (t *MoveTo) Stop(ctl *agent.Controller, interrupter behavior.Task) {
	if t.issued && !t.arrived(ctl) {
		ctl.Acts().Cancel(t.taskID)
	}
}

func (t *MoveTo) arrived(ctl *agent.Controller) bool {
	return ctl.View().Pos.Dist(t.Target) <= t.Tolerance
}

func (t *MoveTo) Finished(ctl *agent.Controller) bool {
	return t.failed || t.arrived(ctl)
}

func (t *MoveTo) SameAs(other behavior.Task) bool {
	o, ok := other.(*MoveTo)
	return ok && o.Target == t.Target && o.Tolerance == t.Tolerance
}

// ShouldForce holds the slot while airborne against candidates that do not
// declare the safety override.
func (t *MoveTo) ShouldForce(candidate behavior.Task) bool {
	return t.airborne && !behavior.HasCap(candidate, behavior.CapOverridesSafety)
}
