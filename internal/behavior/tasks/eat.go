package tasks

import (
	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/timers"
)

// Eat consumes the best food currently in inventory. The EAT instant is
// fire-and-forget: the task watches the next ticks' ACTION_RESULT and the
// hunger gauge instead of awaiting anything inline.
type Eat struct {
	failure

	startHunger int
	pendingRef  string
	retry       timers.Timer
	ate         bool
}

func NewEat() *Eat { return &Eat{} }

func (t *Eat) Name() string { return "eat" }

func (t *Eat) Start(ctl *agent.Controller) {
	t.startHunger = ctl.View().Hunger
	t.retry = timers.NewTickTimer(ctl, 1)
	t.retry.ForceElapsed()
}

func (t *Eat) OnTick(ctl *agent.Controller) behavior.Task {
	view := ctl.View()

	if view.Hunger > t.startHunger {
		t.ate = true
		return nil
	}

	if t.pendingRef != "" {
		if r, ok := view.ActionResult(t.pendingRef); ok {
			t.pendingRef = ""
			if !r.OK {
				t.markFailed()
			}
			return nil
		}
		// Still in flight; poll again next tick.
		return nil
	}

	if !t.retry.Elapsed() {
		return nil
	}

	cats := ctl.Catalogs()
	if cats == nil {
		t.markFailed()
		return nil
	}
	food := cats.BestFood(view.Inventory())
	if food == "" {
		t.markFailed()
		return nil
	}
	t.pendingRef = ctl.Acts().Eat(view.Tick, food)
	t.retry.Reset()
	return nil
}

func (t *Eat) Stop(ctl *agent.Controller, interrupter behavior.Task) {}

func (t *Eat) Finished(ctl *agent.Controller) bool {
	return t.failed || t.ate || ctl.View().Hunger > t.startHunger
}

// SameAs treats every Eat as the same intent; which food gets eaten is run
// state, not identity.
func (t *Eat) SameAs(other behavior.Task) bool {
	_, ok := other.(*Eat)
	return ok
}
