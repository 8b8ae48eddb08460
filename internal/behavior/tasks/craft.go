package tasks

import (
	"fmt"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/protocol"
	"voxelbrain/internal/timers"
)

// Craft produces count batches of a recipe, first collecting any missing
// inputs, then issuing the server CRAFT task and waiting for the output to
// land in inventory.
type Craft struct {
	failure
	RecipeID string
	Count    int

	// TimeoutSeconds bounds the crafting step; zero means the default.
	TimeoutSeconds float64

	taskID  string
	issued  bool
	timeout timers.Timer

	outputItem string
	wantOutput int
}

func NewCraft(recipeID string, count int) *Craft {
	if count <= 0 {
		count = 1
	}
	return &Craft{RecipeID: recipeID, Count: count}
}

func (t *Craft) Name() string {
	return fmt.Sprintf("craft(%s,%d)", t.RecipeID, t.Count)
}

func (t *Craft) Start(ctl *agent.Controller) {
	t.taskID = fmt.Sprintf("K_craft_%d", ctl.Tick())
	secs := t.TimeoutSeconds
	if secs <= 0 {
		secs = 30
	}
	t.timeout = timers.NewTickTimer(ctl, secs)

	cats := ctl.Catalogs()
	if cats == nil {
		t.markFailed()
		return
	}
	rec, ok := cats.Recipes.ByID[t.RecipeID]
	if !ok || len(rec.Outputs) == 0 {
		t.markFailed()
		return
	}
	out := rec.Outputs[0]
	t.outputItem = out.Item
	t.wantOutput = ctl.View().ItemCount(out.Item) + out.Count*t.Count
}

func (t *Craft) OnTick(ctl *agent.Controller) behavior.Task {
	if t.failed {
		return nil
	}
	cats := ctl.Catalogs()

	missing, ok := cats.MissingInputs(t.RecipeID, t.Count, ctl.View().Inventory())
	if !ok {
		t.markFailed()
		return nil
	}
	if len(missing) > 0 {
		// Inputs first; the timeout only gates the craft itself.
		t.timeout.Reset()
		return NewCollect(missing[0].Item, ctl.View().ItemCount(missing[0].Item)+missing[0].Count)
	}

	if !t.issued {
		ctl.Acts().IssueTask(protocol.TaskReq{
			ID:       t.taskID,
			Type:     protocol.TaskCraft,
			RecipeID: t.RecipeID,
			Count:    t.Count,
		})
		t.issued = true
		return nil
	}

	if r, ok := ctl.View().ActionResult(t.taskID); ok && !r.OK {
		if protocol.Retryable(r.Code) {
			t.taskID = fmt.Sprintf("K_craft_%d", ctl.Tick())
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

func (t *Craft) Stop(ctl *agent.Controller, interrupter behavior.Task) {
	if t.issued && !t.crafted(ctl) {
		ctl.Acts().Cancel(t.taskID)
	}
}

func (t *Craft) crafted(ctl *agent.Controller) bool {
	return t.outputItem != "" && ctl.View().ItemCount(t.outputItem) >= t.wantOutput
}

func (t *Craft) Finished(ctl *agent.Controller) bool {
	return t.failed || t.crafted(ctl)
}

func (t *Craft) SameAs(other behavior.Task) bool {
	o, ok := other.(*Craft)
	return ok && o.RecipeID == t.RecipeID && o.Count == t.Count
}
