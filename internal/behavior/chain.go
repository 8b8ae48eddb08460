package behavior

import "voxelbrain/internal/agent"

// Chain is one competing concern registered with the scheduler. Priority is
// recomputed on every call; the world changes every tick, so nothing here
// may be cached across ticks.
type Chain interface {
	Name() string

	// Active reports whether the chain currently has work.
	Active(ctl *agent.Controller) bool

	// Priority is only consulted while Active.
	Priority(ctl *agent.Controller) Priority

	// OnTick drives the chain's task tree for one cycle and returns the
	// task-name path that ran, for tracing.
	OnTick(ctl *agent.Controller) []string

	// OnInterrupt fires when this chain held control and next is about to
	// take over.
	OnInterrupt(ctl *agent.Controller, next Chain)
}

// Planner derives a single-task chain's desired task each tick as a pure
// function of current state, with no memory of prior ticks.
type Planner interface {
	Name() string
	Priority(ctl *agent.Controller) Priority

	// Plan returns the task for this tick, nil when there is nothing to
	// do. It runs at most once per tick; a freshly built equal task is
	// discarded in favor of the running instance.
	Plan(ctl *agent.Controller) Task
}

// PlanObserver is an optional Planner extension. PlanFinished fires once
// for each root task the chain retires, after its Stop, letting the
// planner react to the outcome (see Failed) without the engine growing an
// error channel.
type PlanObserver interface {
	PlanFinished(ctl *agent.Controller, t Task)
}

// SingleTaskChain adapts a Planner into a Chain, supplying the continuity
// rule most behavior modules rely on: replanning from scratch every tick
// must not restart multi-tick work that hasn't actually changed.
type SingleTaskChain struct {
	planner Planner
	runner  Runner

	planned   Task
	plannedAt uint64
	havePlan  bool
}

func NewSingleTaskChain(p Planner) *SingleTaskChain {
	return &SingleTaskChain{planner: p}
}

// planFor memoizes the planner's derivation within a tick so Active and
// OnTick see the same candidate.
func (c *SingleTaskChain) planFor(ctl *agent.Controller) Task {
	if !c.havePlan || c.plannedAt != ctl.Tick() {
		c.planned = c.planner.Plan(ctl)
		c.plannedAt = ctl.Tick()
		c.havePlan = true
	}
	return c.planned
}

func (c *SingleTaskChain) Name() string { return c.planner.Name() }

// Active while the planner wants something, or while a previously planned
// task still needs a cycle to be stopped and cleared.
func (c *SingleTaskChain) Active(ctl *agent.Controller) bool {
	return c.planFor(ctl) != nil || c.runner.Active()
}

func (c *SingleTaskChain) Priority(ctl *agent.Controller) Priority {
	return c.planner.Priority(ctl)
}

func (c *SingleTaskChain) OnTick(ctl *agent.Controller) []string {
	next := c.planFor(ctl)
	if next == nil {
		c.runner.Clear(ctl)
		return nil
	}
	c.runner.Propose(ctl, next)
	path := c.runner.Tick(ctl)
	if done := c.runner.TakeFinished(); done != nil {
		if obs, ok := c.planner.(PlanObserver); ok {
			obs.PlanFinished(ctl, done)
		}
	}
	return path
}

// OnInterrupt hard-stops the running task so actuation state is released
// before the winning chain writes to it.
func (c *SingleTaskChain) OnInterrupt(ctl *agent.Controller, next Chain) {
	c.runner.Clear(ctl)
}

// Current exposes the running root task, nil when idle.
func (c *SingleTaskChain) Current() Task { return c.runner.Current() }
