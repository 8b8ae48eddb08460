package tasks

import (
	"fmt"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
)

// Collect gathers count units of an item by mining the nearest observed
// block that drops it. Every tick it re-derives which block to mine; the
// engine's continuity check keeps the in-progress MineBlock alive while the
// derivation stays the same.
type Collect struct {
	failure
	Item  string
	Count int
}

func NewCollect(item string, count int) *Collect {
	if count <= 0 {
		count = 1
	}
	return &Collect{Item: item, Count: count}
}

func (t *Collect) Name() string {
	return fmt.Sprintf("collect(%s,%d)", t.Item, t.Count)
}

func (t *Collect) Start(ctl *agent.Controller) {}

func (t *Collect) OnTick(ctl *agent.Controller) behavior.Task {
	cats := ctl.Catalogs()
	if cats == nil {
		t.markFailed()
		return nil
	}

	want := map[uint16]bool{}
	for _, blockID := range cats.BlocksDropping(t.Item) {
		if pid, ok := cats.Blocks.Index[blockID]; ok {
			want[pid] = true
		}
	}
	if len(want) == 0 {
		t.markFailed()
		return nil
	}

	pos, ok := ctl.View().NearestBlock(want)
	if !ok {
		// Nothing observed that drops the item; without exploration
		// there is no way to make progress.
		t.markFailed()
		return nil
	}
	return NewMineBlock(pos)
}

func (t *Collect) Stop(ctl *agent.Controller, interrupter behavior.Task) {}

func (t *Collect) Finished(ctl *agent.Controller) bool {
	return t.failed || ctl.View().ItemCount(t.Item) >= t.Count
}

func (t *Collect) SameAs(other behavior.Task) bool {
	o, ok := other.(*Collect)
	return ok && o.Item == t.Item && o.Count == t.Count
}
