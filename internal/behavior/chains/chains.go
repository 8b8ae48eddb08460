// Package chains holds the stock behavior modules registered with the
// scheduler: survival reflexes, periodic upkeep, the user goal queue, and
// idle wandering. Each is a Planner wrapped in a SingleTaskChain, so all
// of them rederive their desired task from current state every tick.
package chains

import (
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/config"
)

// Standard registers the full chain set in a fixed order. Registration
// order is the tie-break between equal priorities, so reflexes go first.
func Standard(sched *behavior.Scheduler, cfg config.Behavior, goals []string) {
	sched.Register(behavior.NewSingleTaskChain(NewEmergency(cfg)))
	sched.Register(behavior.NewSingleTaskChain(NewDanger(cfg)))
	sched.Register(behavior.NewSingleTaskChain(NewFood(cfg)))
	sched.Register(behavior.NewSingleTaskChain(NewUserGoals(goals, cfg)))
	sched.Register(behavior.NewSingleTaskChain(NewWanderer(cfg)))
}
