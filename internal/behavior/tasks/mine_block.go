package tasks

import (
	"fmt"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/protocol"
)

// reachDistance is how close (straight-line) the agent must stand to work
// a block. The delegated movement's tolerance must stay below it, in the
// same metric, so arriving always means being in reach.
const reachDistance = 4.0

// MineBlock breaks the block at a fixed position: walk into reach, then
// issue the server MINE task and watch the voxel window until the block is
// gone.
type MineBlock struct {
	failure
	Pos agent.Vec3i

	taskID string
	issued bool
}

func NewMineBlock(pos agent.Vec3i) *MineBlock {
	return &MineBlock{Pos: pos}
}

func (t *MineBlock) Name() string {
	return fmt.Sprintf("mine(%d,%d,%d)", t.Pos.X, t.Pos.Y, t.Pos.Z)
}

func (t *MineBlock) Start(ctl *agent.Controller) {
	t.taskID = fmt.Sprintf("K_mine_%d", ctl.Tick())
}

func (t *MineBlock) OnTick(ctl *agent.Controller) behavior.Task {
	view := ctl.View()

	if view.Pos.Dist(t.Pos) > reachDistance {
		return NewMoveTo(t.Pos, reachDistance-1)
	}

	if !t.issued {
		ctl.Acts().IssueTask(protocol.TaskReq{
			ID:       t.taskID,
			Type:     protocol.TaskMine,
			BlockPos: t.Pos.Arr(),
		})
		t.issued = true
		return nil
	}

	if r, ok := view.ActionResult(t.taskID); ok && !r.OK {
		if protocol.Retryable(r.Code) {
			t.taskID = fmt.Sprintf("K_mine_%d", ctl.Tick())
			t.issued = false
		} else {
			t.markFailed()
		}
	}
	return nil
}

func (t *MineBlock) Stop(ctl *agent.Controller, interrupter behavior.Task) {
	if t.issued && !t.mined(ctl) {
		ctl.Acts().Cancel(t.taskID)
	}
}

// mined treats an observed AIR block (palette id 0) as success.
func (t *MineBlock) mined(ctl *agent.Controller) bool {
	id, ok := ctl.View().BlockAt(t.Pos)
	return ok && id == 0
}

func (t *MineBlock) Finished(ctl *agent.Controller) bool {
	return t.failed || t.mined(ctl)
}

func (t *MineBlock) SameAs(other behavior.Task) bool {
	o, ok := other.(*MineBlock)
	return ok && o.Pos == t.Pos
}

// Caps marks mining as grounded work; planners should not schedule it while
// the agent is falling.
func (t *MineBlock) Caps() behavior.Caps { return behavior.CapRequiresGrounded }
