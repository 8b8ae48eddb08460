package behavior

import "voxelbrain/internal/agent"

type lifecycle int

const (
	stateNotStarted lifecycle = iota
	stateRunning
	stateStopped
)

// node pairs a task with its lifecycle bookkeeping and its exclusively
// owned child. Tasks never see nodes; the engine keeps all state here so a
// task cannot double-start or orphan a child.
type node struct {
	task  Task
	state lifecycle
	child *node
}

func (n *node) ensureStarted(ctl *agent.Controller) {
	if n.state == stateNotStarted {
		n.state = stateRunning
		n.task.Start(ctl)
	}
}

// stop halts the subtree bottom-up. Every running node receives exactly one
// Stop; leaves release actuation before their owners do.
func (n *node) stop(ctl *agent.Controller, interrupter Task) {
	if n.child != nil {
		n.child.stop(ctl, interrupter)
		n.child = nil
	}
	if n.state == stateRunning {
		n.state = stateStopped
		n.task.Stop(ctl, interrupter)
	}
}

// vetoes reports whether any running task in the subtree refuses candidate.
// The veto usually comes from the leaf (the task physically mid-flight),
// but an ancestor may hold one too.
func (n *node) vetoes(candidate Task) bool {
	for m := n; m != nil; m = m.child {
		if m.state != stateRunning {
			continue
		}
		if f, ok := m.task.(ForceVetoer); ok && f.ShouldForce(candidate) {
			return true
		}
	}
	return false
}

// deferred reports whether candidate must wait for the agent to land
// before it may take a slot. Adoption is what is gated; a task adopted on
// the ground keeps running if the agent later leaves it.
func deferred(ctl *agent.Controller, candidate Task) bool {
	return HasCap(candidate, CapRequiresGrounded) && ctl.View().Airborne()
}

// tick drives one scheduling cycle through the subtree rooted at n,
// appending task names to path as it descends.
func (n *node) tick(ctl *agent.Controller, path *[]string) {
	n.ensureStarted(ctl)
	*path = append(*path, n.task.Name())

	candidate := n.task.OnTick(ctl)
	if candidate == nil {
		// Leaf behavior this tick; a lingering child from an earlier
		// plan is no longer wanted.
		if n.child != nil {
			n.child.stop(ctl, nil)
			n.child = nil
		}
		return
	}

	switch {
	case n.child != nil && n.child.task.SameAs(candidate):
		// Continuity: the running instance keeps its progress, the
		// freshly derived candidate is discarded untouched.
	case n.child != nil && n.child.vetoes(candidate):
		// The running subtree refuses the hand-off; keep driving it.
	case deferred(ctl, candidate):
		// Grounded-only work waits for landing; whatever is already
		// running keeps the slot meanwhile.
	default:
		if n.child != nil {
			n.child.stop(ctl, candidate)
		}
		n.child = &node{task: candidate}
	}

	if n.child == nil {
		return
	}
	n.child.tick(ctl, path)

	if n.child.task.Finished(ctl) {
		n.child.stop(ctl, nil)
		n.child = nil
	}
}

// Runner owns one root task tree. Chains hold a Runner rather than a bare
// Task so proposing, ticking, and clearing all route through the same
// continuity rules.
type Runner struct {
	root     *node
	finished Task
}

// Active reports whether a root task is installed.
func (r *Runner) Active() bool { return r.root != nil }

// Current returns the installed root task, nil when idle.
func (r *Runner) Current() Task {
	if r.root == nil {
		return nil
	}
	return r.root.task
}

// Propose offers candidate for the root slot. An equal running root is kept
// untouched; a running subtree may veto the swap; grounded-only candidates
// wait while the agent is airborne; otherwise the old tree is stopped with
// candidate as interrupter and candidate is installed.
func (r *Runner) Propose(ctl *agent.Controller, candidate Task) {
	if candidate == nil {
		r.Clear(ctl)
		return
	}
	if r.root != nil {
		if r.root.task.SameAs(candidate) {
			return
		}
		if r.root.vetoes(candidate) {
			return
		}
	}
	if deferred(ctl, candidate) {
		return
	}
	if r.root != nil {
		r.root.stop(ctl, candidate)
	}
	r.root = &node{task: candidate}
}

// Clear stops and discards the whole tree.
func (r *Runner) Clear(ctl *agent.Controller) {
	if r.root != nil {
		r.root.stop(ctl, nil)
		r.root = nil
	}
}

// Tick drives the tree one cycle and returns the task-name path that ran.
// A finished root is stopped and discarded so the owner replans next tick.
func (r *Runner) Tick(ctl *agent.Controller) []string {
	if r.root == nil {
		return nil
	}
	var path []string
	r.root.tick(ctl, &path)
	if r.root.task.Finished(ctl) {
		r.root.stop(ctl, nil)
		r.finished = r.root.task
		r.root = nil
	}
	return path
}

// TakeFinished returns the most recently retired root task and forgets it.
// Owners that care whether a plan ran to success or failed inspect the
// task here, typically via Failed.
func (r *Runner) TakeFinished() Task {
	t := r.finished
	r.finished = nil
	return t
}
