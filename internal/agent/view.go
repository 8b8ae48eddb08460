package agent

import (
	"sort"

	"voxelbrain/internal/protocol"
)

// View is the read-only world picture tasks and chains plan against. It is
// rebuilt from each OBS; blocks accumulate across ticks because the server
// sends voxel deltas.
type View struct {
	Tick uint64

	Pos     Vec3i
	HP      int
	Hunger  int
	Stamina float64
	status  map[string]bool

	Weather   string
	TimeOfDay float64

	inventory map[string]int
	MainHand  string

	Entities []Entity

	blocks      map[Vec3i]uint16
	voxelCenter Vec3i
	voxelRadius int

	serverTasks map[string]protocol.TaskObs
	results     map[string]protocol.ActionResult
	taskDone    map[string]bool
}

// Entity is a nearby observed entity.
type Entity struct {
	ID    string
	Type  string
	Pos   Vec3i
	Tags  []string
	Item  string
	Count int
}

func (e Entity) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func newView() *View {
	return &View{
		status:      map[string]bool{},
		inventory:   map[string]int{},
		blocks:      map[Vec3i]uint16{},
		serverTasks: map[string]protocol.TaskObs{},
		results:     map[string]protocol.ActionResult{},
		taskDone:    map[string]bool{},
	}
}

// apply folds one observation into the view. Per-tick data (entities,
// events, server task list) is replaced; the block map is patched.
func (v *View) apply(obs *protocol.ObsMsg) {
	v.Tick = obs.Tick
	v.Pos = V3(obs.Self.Pos)
	v.HP = obs.Self.HP
	v.Hunger = obs.Self.Hunger
	v.Stamina = obs.Self.Stamina
	v.status = map[string]bool{}
	for _, s := range obs.Self.Status {
		v.status[s] = true
	}

	v.Weather = obs.World.Weather
	v.TimeOfDay = obs.World.TimeOfDay

	v.inventory = make(map[string]int, len(obs.Inventory))
	for _, st := range obs.Inventory {
		v.inventory[st.Item] += st.Count
	}
	v.MainHand = obs.Equipment.MainHand

	v.Entities = v.Entities[:0]
	for _, e := range obs.Entities {
		v.Entities = append(v.Entities, Entity{
			ID: e.ID, Type: e.Type, Pos: V3(e.Pos),
			Tags: e.Tags, Item: e.Item, Count: e.Count,
		})
	}

	if obs.Voxels.Encoding == "DELTA" {
		v.voxelCenter = V3(obs.Voxels.Center)
		v.voxelRadius = obs.Voxels.Radius
		for _, op := range obs.Voxels.Ops {
			v.blocks[v.voxelCenter.Add(V3(op.D))] = op.B
		}
	}

	v.serverTasks = make(map[string]protocol.TaskObs, len(obs.Tasks))
	for _, t := range obs.Tasks {
		v.serverTasks[t.TaskID] = t
	}

	v.results = map[string]protocol.ActionResult{}
	v.taskDone = map[string]bool{}
	for _, ev := range obs.Events {
		if r, ok := ev.AsActionResult(); ok {
			v.results[r.Ref] = r
		}
		if id, ok := ev.TaskDoneID(); ok {
			v.taskDone[id] = true
		}
	}
}

// BlockAt returns the palette id at pos; ok=false means the position has
// never been observed.
func (v *View) BlockAt(pos Vec3i) (uint16, bool) {
	id, ok := v.blocks[pos]
	return id, ok
}

func (v *View) ItemCount(item string) int { return v.inventory[item] }

// Inventory returns a copy of item counts for planning code that wants the
// whole bag.
func (v *View) Inventory() map[string]int {
	out := make(map[string]int, len(v.inventory))
	for k, n := range v.inventory {
		out[k] = n
	}
	return out
}

func (v *View) HasStatus(s string) bool { return v.status[s] }

func (v *View) Airborne() bool { return v.status[protocol.StatusAirborne] }

// ServerTask reports progress of an issued server task; ok=false once the
// server no longer lists it.
func (v *View) ServerTask(id string) (protocol.TaskObs, bool) {
	t, ok := v.serverTasks[id]
	return t, ok
}

// TaskDone reports a TASK_DONE event for id this tick.
func (v *View) TaskDone(id string) bool { return v.taskDone[id] }

// ActionResult reports the ACTION_RESULT for a request ref this tick.
func (v *View) ActionResult(ref string) (protocol.ActionResult, bool) {
	r, ok := v.results[ref]
	return r, ok
}

// Hostiles lists entities tagged HOSTILE, nearest first.
func (v *View) Hostiles() []Entity {
	var out []Entity
	for _, e := range v.Entities {
		if e.HasTag("HOSTILE") {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Pos.DistSq(v.Pos), out[j].Pos.DistSq(v.Pos)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// NearestHostile returns the closest hostile within radius, if any.
func (v *View) NearestHostile(radius float64) (Entity, bool) {
	hs := v.Hostiles()
	if len(hs) == 0 || v.Pos.Dist(hs[0].Pos) > radius {
		return Entity{}, false
	}
	return hs[0], true
}

// NearestBlock scans the observed block map for the nearest position whose
// palette id matches any of want. Deterministic: distance then coordinate
// order breaks ties.
func (v *View) NearestBlock(want map[uint16]bool) (Vec3i, bool) {
	best, found := Vec3i{}, false
	bestD := 0
	keys := make([]Vec3i, 0, len(v.blocks))
	for pos := range v.blocks {
		keys = append(keys, pos)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	for _, pos := range keys {
		if !want[v.blocks[pos]] {
			continue
		}
		d := pos.DistSq(v.Pos)
		if !found || d < bestD {
			best, bestD, found = pos, d, true
		}
	}
	return best, found
}
