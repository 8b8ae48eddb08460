package chains

import (
	"fmt"
	"strconv"
	"strings"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/behavior/tasks"
	"voxelbrain/internal/config"
)

// maxGoalAttempts caps how many failed plans a goal absorbs before it is
// abandoned and the queue moves on.
const maxGoalAttempts = 3

// goalState tracks one queue entry across replans.
type goalState int

const (
	goalPending goalState = iota
	goalDone
	goalFailed
)

type goal struct {
	text  string
	state goalState

	// attempts counts retired plans that ended failed.
	attempts int
	started  bool

	// build derives a fresh candidate task; the runner's continuity rule
	// collapses equal rederivations onto the running instance.
	build func(ctl *agent.Controller) behavior.Task

	// satisfied, when set, decides completion from world state. When nil
	// the goal completes as soon as a plan finishes without failing.
	satisfied func(ctl *agent.Controller) bool
}

// UserGoals works through an ordered queue of user-issued goals at the
// routine tier. Completion is judged from observed state where possible,
// so a goal met by side effects (mobs dropped the item, the user teleported
// the agent) is skipped without running its task at all.
type UserGoals struct {
	goals []goal
	idx   int

	// planned points at the goal the last returned plan serves, so the
	// outcome is charged to the right goal even if the queue has moved on.
	planned *goal
}

// NewUserGoals parses the goal lines, dropping ones it cannot parse. The
// grammar is one directive per line:
//
//	collect ITEM N
//	craft RECIPE_ID N
//	goto X Y Z [TOLERANCE]
//	waypoint NAME
//	save_waypoint NAME
//
// Movement and craft timeouts come from cfg.
func NewUserGoals(lines []string, cfg config.Behavior) *UserGoals {
	u := &UserGoals{}
	for _, line := range lines {
		g, err := parseGoal(line, cfg)
		if err != nil {
			continue
		}
		u.goals = append(u.goals, g)
	}
	return u
}

func parseGoal(line string, cfg config.Behavior) (goal, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return goal{}, fmt.Errorf("empty goal")
	}
	g := goal{text: strings.Join(fields, " ")}

	switch fields[0] {
	case "collect":
		if len(fields) != 3 {
			return goal{}, fmt.Errorf("collect wants ITEM N: %q", line)
		}
		item := fields[1]
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return goal{}, fmt.Errorf("bad collect count: %q", line)
		}
		g.build = func(ctl *agent.Controller) behavior.Task {
			return tasks.NewCollect(item, n)
		}
		g.satisfied = func(ctl *agent.Controller) bool {
			return ctl.View().ItemCount(item) >= n
		}

	case "craft":
		if len(fields) != 3 {
			return goal{}, fmt.Errorf("craft wants RECIPE_ID N: %q", line)
		}
		recipe := fields[1]
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return goal{}, fmt.Errorf("bad craft count: %q", line)
		}
		g.build = func(ctl *agent.Controller) behavior.Task {
			c := tasks.NewCraft(recipe, n)
			c.TimeoutSeconds = cfg.CraftTimeoutSeconds
			return c
		}

	case "goto":
		if len(fields) != 4 && len(fields) != 5 {
			return goal{}, fmt.Errorf("goto wants X Y Z [TOL]: %q", line)
		}
		var pos agent.Vec3i
		var err error
		if pos.X, err = strconv.Atoi(fields[1]); err != nil {
			return goal{}, err
		}
		if pos.Y, err = strconv.Atoi(fields[2]); err != nil {
			return goal{}, err
		}
		if pos.Z, err = strconv.Atoi(fields[3]); err != nil {
			return goal{}, err
		}
		tol := 1.5
		if len(fields) == 5 {
			if tol, err = strconv.ParseFloat(fields[4], 64); err != nil || tol <= 0 {
				return goal{}, fmt.Errorf("bad goto tolerance: %q", line)
			}
		}
		g.build = func(ctl *agent.Controller) behavior.Task {
			m := tasks.NewMoveTo(pos, tol)
			m.TimeoutSeconds = cfg.MoveTimeoutSeconds
			return m
		}
		g.satisfied = func(ctl *agent.Controller) bool {
			return ctl.View().Pos.Dist(pos) <= tol
		}

	case "waypoint":
		if len(fields) != 2 {
			return goal{}, fmt.Errorf("waypoint wants NAME: %q", line)
		}
		name := fields[1]
		g.build = func(ctl *agent.Controller) behavior.Task {
			return tasks.NewGoToWaypoint(name, 2)
		}

	case "save_waypoint":
		if len(fields) != 2 {
			return goal{}, fmt.Errorf("save_waypoint wants NAME: %q", line)
		}
		name := fields[1]
		g.build = func(ctl *agent.Controller) behavior.Task {
			return tasks.NewSaveWaypoint(name)
		}

	default:
		return goal{}, fmt.Errorf("unknown goal %q", fields[0])
	}
	return g, nil
}

func (u *UserGoals) Name() string { return "user_goals" }

func (u *UserGoals) Priority(ctl *agent.Controller) behavior.Priority {
	return behavior.PriorityRoutine
}

// current advances past settled goals and returns the active one, nil when
// the queue is exhausted.
func (u *UserGoals) current(ctl *agent.Controller) *goal {
	for u.idx < len(u.goals) {
		g := &u.goals[u.idx]
		if g.state != goalPending {
			u.idx++
			continue
		}
		if g.satisfied != nil && g.satisfied(ctl) {
			u.finish(ctl, g, goalDone)
			u.idx++
			continue
		}
		return g
	}
	return nil
}

func (u *UserGoals) Plan(ctl *agent.Controller) behavior.Task {
	g := u.current(ctl)
	u.planned = g
	if g == nil {
		return nil
	}
	if !g.started {
		g.started = true
		ctl.Logf("goal start: %s", g.text)
		if mem := ctl.Memory(); mem != nil {
			mem.RecordGoalStart(g.text, ctl.Tick())
		}
	}
	return g.build(ctl)
}

// PlanFinished judges each retired plan. A failed plan burns an attempt; a
// clean finish completes goals that have no state predicate.
func (u *UserGoals) PlanFinished(ctl *agent.Controller, t behavior.Task) {
	g := u.planned
	if g == nil || g.state != goalPending {
		return
	}
	if behavior.Failed(t) {
		g.attempts++
		if g.attempts >= maxGoalAttempts {
			u.finish(ctl, g, goalFailed)
		}
		return
	}
	if g.satisfied == nil {
		u.finish(ctl, g, goalDone)
	}
}

func (u *UserGoals) finish(ctl *agent.Controller, g *goal, state goalState) {
	g.state = state
	status := "DONE"
	if state == goalFailed {
		status = "FAILED"
	}
	ctl.Logf("goal %s: %s", strings.ToLower(status), g.text)
	if g.started {
		if mem := ctl.Memory(); mem != nil {
			mem.RecordGoalEnd(g.text, status, ctl.Tick())
		}
	}
}

// Remaining reports how many goals are still pending, for status logging.
func (u *UserGoals) Remaining() int {
	n := 0
	for _, g := range u.goals {
		if g.state == goalPending {
			n++
		}
	}
	return n
}
