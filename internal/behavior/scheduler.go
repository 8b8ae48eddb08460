package behavior

import "voxelbrain/internal/agent"

// Scheduler arbitrates which single chain controls the agent each tick.
// Selection is strict priority preemption: the highest-priority active
// chain wins immediately, every tick, with ties broken by registration
// order. Preemption is a hard cut; the displaced chain learns through
// OnInterrupt and its tasks' stop hooks, never by being asked first.
type Scheduler struct {
	chains []Chain
	active Chain
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register appends a chain. Registration order is part of the scheduling
// contract (tie-break), so chains register once, at startup.
func (s *Scheduler) Register(c Chain) {
	s.chains = append(s.chains, c)
}

// TickReport records one arbitration cycle for tracing.
type TickReport struct {
	Tick        uint64
	Winner      string
	Interrupted string
	Chains      []ChainEval
	TaskPath    []string
}

// ChainEval is one chain's evaluation during selection.
type ChainEval struct {
	Name     string
	Active   bool
	Priority Priority
}

// Tick runs one arbitration cycle: evaluate every chain, pick the winner,
// deliver the interrupt if control moved, then drive the winner. With no
// active chain the tick is a no-op.
func (s *Scheduler) Tick(ctl *agent.Controller) TickReport {
	report := TickReport{Tick: ctl.Tick()}

	var winner Chain
	var winnerP Priority
	for _, c := range s.chains {
		active := c.Active(ctl)
		var p Priority
		if active {
			p = c.Priority(ctl)
		}
		report.Chains = append(report.Chains, ChainEval{Name: c.Name(), Active: active, Priority: p})
		// Strictly greater keeps the first-registered chain on ties.
		if active && (winner == nil || p > winnerP) {
			winner, winnerP = c, p
		}
	}

	if winner == nil {
		s.active = nil
		return report
	}

	if s.active != winner {
		if s.active != nil {
			report.Interrupted = s.active.Name()
			s.active.OnInterrupt(ctl, winner)
		}
		s.active = winner
	}

	report.Winner = winner.Name()
	report.TaskPath = winner.OnTick(ctl)
	return report
}

// ActiveChain returns the chain that executed last tick, nil if none.
func (s *Scheduler) ActiveChain() Chain { return s.active }
