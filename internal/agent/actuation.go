package agent

import (
	"fmt"

	"voxelbrain/internal/protocol"
)

// Acts is the single mutable actuation resource. Exactly one task subtree
// writes to it per tick; the controller flushes it as one ACT message.
type Acts struct {
	instants []protocol.InstantReq
	tasks    []protocol.TaskReq
	cancels  []string
	seen     map[string]bool
}

func newActs() *Acts {
	return &Acts{seen: map[string]bool{}}
}

func (a *Acts) reset() {
	a.instants = a.instants[:0]
	a.tasks = a.tasks[:0]
	a.cancels = a.cancels[:0]
	a.seen = map[string]bool{}
}

// Say queues a chat line.
func (a *Acts) Say(tick uint64, text string) {
	a.instant(protocol.InstantReq{
		ID:      fmt.Sprintf("I_say_%d", tick),
		Type:    protocol.InstantSay,
		Channel: "LOCAL",
		Text:    text,
	})
}

// Eat queues consumption of one unit of item.
func (a *Acts) Eat(tick uint64, item string) string {
	id := fmt.Sprintf("I_eat_%d", tick)
	a.instant(protocol.InstantReq{ID: id, Type: protocol.InstantEat, ItemID: item, Count: 1})
	return id
}

// Equip queues switching the main hand to item.
func (a *Acts) Equip(tick uint64, item string) string {
	id := fmt.Sprintf("I_equip_%d", tick)
	a.instant(protocol.InstantReq{ID: id, Type: protocol.InstantEquip, ItemID: item})
	return id
}

func (a *Acts) instant(req protocol.InstantReq) {
	if a.seen[req.ID] {
		return
	}
	a.seen[req.ID] = true
	a.instants = append(a.instants, req)
}

// IssueTask queues a server task request. Re-issuing the same id within a
// tick is a no-op, so a task hook may call this unconditionally.
func (a *Acts) IssueTask(req protocol.TaskReq) {
	if a.seen[req.ID] {
		return
	}
	a.seen[req.ID] = true
	a.tasks = append(a.tasks, req)
}

// Cancel asks the server to abort an in-flight task.
func (a *Acts) Cancel(taskID string) {
	key := "cancel:" + taskID
	if a.seen[key] {
		return
	}
	a.seen[key] = true
	a.cancels = append(a.cancels, taskID)
}

// Pending reports how much the buffer holds, for tracing.
func (a *Acts) Pending() (instants, tasks int) {
	return len(a.instants), len(a.tasks)
}

// flush drains the buffer into an ActMsg, nil when nothing was queued.
func (a *Acts) flush(tick uint64, agentID string) *protocol.ActMsg {
	if len(a.instants) == 0 && len(a.tasks) == 0 && len(a.cancels) == 0 {
		return nil
	}
	msg := &protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		AgentID:         agentID,
		Instants:        append([]protocol.InstantReq(nil), a.instants...),
		Tasks:           append([]protocol.TaskReq(nil), a.tasks...),
		Cancel:          append([]string(nil), a.cancels...),
	}
	a.reset()
	return msg
}
