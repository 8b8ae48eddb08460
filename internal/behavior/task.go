// Package behavior is the tick-driven core of the bot: the task lifecycle
// engine, chains, and the priority scheduler that decides which single
// concern controls actuation each tick.
//
// Tasks compose by nomination: a parent's OnTick returns the child it wants
// running, every tick, rebuilt from fresh state. The engine compares the
// nominee against the child already running (SameAs over construction
// parameters) and only restarts work that actually changed. Start/Stop
// bookkeeping lives entirely in the engine; tasks never drive each other's
// lifecycles.
package behavior

import "voxelbrain/internal/agent"

// Task is one unit of intent. Implementations hold their construction
// parameters plus whatever per-run state they need; the engine owns all
// lifecycle bookkeeping around them.
//
// Hooks never return errors: a task that cannot progress records an
// internal failed state and reports Finished, so its owner replans.
type Task interface {
	// Name identifies the task in logs and traces.
	Name() string

	// Start acquires resources. The engine calls it exactly once before
	// the first OnTick of a run.
	Start(ctl *agent.Controller)

	// OnTick does one tick of work and returns the child task this task
	// wants running, or nil when it acted directly (leaf behavior).
	OnTick(ctl *agent.Controller) Task

	// Stop releases resources. interrupter is the task taking this one's
	// slot, or nil when the task finished or its chain lost control.
	Stop(ctl *agent.Controller, interrupter Task)

	// Finished reports terminal state; the engine stops and discards a
	// finished task after its tick.
	Finished(ctl *agent.Controller) bool

	// SameAs compares construction parameters only, never run state. It
	// must be reflexive and symmetric, and must report false for a task
	// of a different concrete type rather than panic.
	SameAs(other Task) bool
}

// ForceVetoer lets a running task refuse a specific proposed successor
// during its own chain's replanning, e.g. while a transition is physically
// unsafe to abandon. It does not affect cross-chain preemption.
type ForceVetoer interface {
	ShouldForce(candidate Task) bool
}

// Caps is the capability flag set a task may declare.
type Caps uint8

const (
	// CapRequiresGrounded marks work that must not start while airborne.
	CapRequiresGrounded Caps = 1 << iota
	// CapOverridesSafety marks a candidate allowed to displace a task
	// holding a grounded-safety veto.
	CapOverridesSafety
)

// Capable is implemented by tasks that declare capability flags.
type Capable interface {
	Caps() Caps
}

// HasCap reports whether t declares c.
func HasCap(t Task, c Caps) bool {
	cp, ok := t.(Capable)
	return ok && cp.Caps()&c != 0
}

// Failer is implemented by tasks that distinguish "finished because done"
// from "finished because stuck". Owners use it to pick fallbacks.
type Failer interface {
	Failed() bool
}

// Failed reports whether t finished in a failed state.
func Failed(t Task) bool {
	f, ok := t.(Failer)
	return ok && f.Failed()
}
