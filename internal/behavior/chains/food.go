package chains

import (
	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/behavior/tasks"
	"voxelbrain/internal/config"
)

// Food eats when the hunger gauge dips below the configured threshold and
// something edible is in the inventory. Without food the chain stays
// inactive; starving with an empty inventory is the goal queue's problem
// (collect food), not a reflex.
type Food struct {
	threshold int
}

func NewFood(cfg config.Behavior) *Food {
	return &Food{threshold: cfg.HungerThreshold}
}

func (f *Food) Name() string { return "food" }

func (f *Food) Priority(ctl *agent.Controller) behavior.Priority {
	return behavior.PriorityPeriodicNeed
}

func (f *Food) Plan(ctl *agent.Controller) behavior.Task {
	view := ctl.View()
	if view.Hunger >= f.threshold {
		return nil
	}
	cats := ctl.Catalogs()
	if cats == nil || cats.BestFood(view.Inventory()) == "" {
		return nil
	}
	return tasks.NewEat()
}
