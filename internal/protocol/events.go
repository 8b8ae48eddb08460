package protocol

// Event is a loosely typed server event; the accessors below cover the
// shapes the behavior layer cares about.
type Event map[string]interface{}

// Event types the agent reacts to.
const (
	EventActionResult = "ACTION_RESULT"
	EventTaskDone     = "TASK_DONE"
	EventDamage       = "DAMAGE"
)

func (e Event) TypeOf() string {
	t, _ := e["type"].(string)
	return t
}

// ActionResult is the decoded form of an ACTION_RESULT event.
type ActionResult struct {
	Ref     string
	OK      bool
	Code    string
	Message string
}

// AsActionResult decodes the event, reporting false for other event types.
func (e Event) AsActionResult() (ActionResult, bool) {
	if e.TypeOf() != EventActionResult {
		return ActionResult{}, false
	}
	r := ActionResult{}
	r.Ref, _ = e["ref"].(string)
	r.OK, _ = e["ok"].(bool)
	r.Code, _ = e["code"].(string)
	r.Message, _ = e["message"].(string)
	return r, true
}

// TaskDoneID returns the finished task id for TASK_DONE events.
func (e Event) TaskDoneID() (string, bool) {
	if e.TypeOf() != EventTaskDone {
		return "", false
	}
	id, _ := e["task_id"].(string)
	return id, id != ""
}
