package tasks

import (
	"testing"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/catalogs"
	"voxelbrain/internal/protocol"
)

func testCatalogs() *catalogs.Catalogs {
	return &catalogs.Catalogs{
		Blocks: catalogs.BlockCatalog{
			Palette: []string{"AIR", "OAK_LOG", "STONE"},
			Index:   map[string]uint16{"AIR": 0, "OAK_LOG": 1, "STONE": 2},
			Defs: map[string]catalogs.BlockDef{
				"AIR":     {ID: "AIR"},
				"OAK_LOG": {ID: "OAK_LOG", Solid: true, Breakable: true, DropsItem: "LOG"},
				"STONE":   {ID: "STONE", Solid: true, Breakable: true, DropsItem: "COBBLE"},
			},
		},
		Items: catalogs.ItemCatalog{Defs: map[string]catalogs.ItemDef{
			"LOG":    {ID: "LOG", Kind: "MATERIAL"},
			"COBBLE": {ID: "COBBLE", Kind: "MATERIAL"},
			"BREAD":  {ID: "BREAD", Kind: "FOOD", RestoreHunger: 6},
		}},
		Recipes: catalogs.RecipeCatalog{ByID: map[string]catalogs.RecipeDef{
			"R_PLANK": {
				RecipeID: "R_PLANK",
				Inputs:   []catalogs.ItemCount{{Item: "LOG", Count: 1}},
				Outputs:  []catalogs.ItemCount{{Item: "PLANK", Count: 4}},
			},
		}},
	}
}

// obsBuilder assembles observations for task tests.
type obsBuilder struct {
	obs *protocol.ObsMsg
}

func obsAt(tick uint64, pos [3]int) *obsBuilder {
	return &obsBuilder{obs: &protocol.ObsMsg{
		Type: protocol.TypeObs, ProtocolVersion: protocol.Version,
		Tick: tick, AgentID: "A1",
		Self: protocol.SelfObs{Pos: pos, HP: 20, Hunger: 20},
	}}
}

func (b *obsBuilder) hunger(n int) *obsBuilder {
	b.obs.Self.Hunger = n
	return b
}

func (b *obsBuilder) status(s ...string) *obsBuilder {
	b.obs.Self.Status = s
	return b
}

func (b *obsBuilder) inv(item string, n int) *obsBuilder {
	b.obs.Inventory = append(b.obs.Inventory, protocol.ItemStack{Item: item, Count: n})
	return b
}

func (b *obsBuilder) block(d [3]int, id uint16) *obsBuilder {
	b.obs.Voxels.Center = b.obs.Self.Pos
	b.obs.Voxels.Encoding = "DELTA"
	b.obs.Voxels.Ops = append(b.obs.Voxels.Ops, protocol.VoxelDeltaOp{D: d, B: id})
	return b
}

func (b *obsBuilder) entity(id, typ string, pos [3]int, tags ...string) *obsBuilder {
	b.obs.Entities = append(b.obs.Entities, protocol.EntityObs{ID: id, Type: typ, Pos: pos, Tags: tags})
	return b
}

func (b *obsBuilder) result(ref string, ok bool, code string) *obsBuilder {
	b.obs.Events = append(b.obs.Events, protocol.Event{"type": "ACTION_RESULT", "ref": ref, "ok": ok, "code": code})
	return b
}

func newCtl(t *testing.T) *agent.Controller {
	t.Helper()
	return agent.New(agent.Options{
		AgentID:  "A1",
		Params:   protocol.WorldParams{TickRateHz: 5},
		Catalogs: testCatalogs(),
	})
}

func TestMoveTo_IssuesOnceAndFinishesOnArrival(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).obs)

	var r behavior.Runner
	task := NewMoveTo(agent.Vec3i{X: 5, Y: 64, Z: 0}, 1.2)
	r.Propose(ctl, task)
	r.Tick(ctl)

	msg := ctl.FlushActs()
	if msg == nil || len(msg.Tasks) != 1 || msg.Tasks[0].Type != protocol.TaskMoveTo {
		t.Fatalf("expected one MOVE_TO request, got %+v", msg)
	}
	issuedID := msg.Tasks[0].ID

	// Later ticks poll without re-issuing.
	ctl.Observe(obsAt(2, [3]int{2, 64, 0}).obs)
	r.Tick(ctl)
	if msg := ctl.FlushActs(); msg != nil {
		t.Fatalf("no new requests expected while in flight, got %+v", msg)
	}

	// Arrival within tolerance finishes the task; the runner retires it
	// without a cancel (nothing to abort).
	ctl.Observe(obsAt(3, [3]int{5, 64, 1}).obs)
	r.Tick(ctl)
	if r.Active() {
		t.Fatalf("arrived task must be retired")
	}
	if msg := ctl.FlushActs(); msg != nil {
		t.Fatalf("arrival must not cancel %s: %+v", issuedID, msg)
	}
}

func TestMoveTo_CancelsWhenInterrupted(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).obs)

	var r behavior.Runner
	r.Propose(ctl, NewMoveTo(agent.Vec3i{X: 9, Y: 64, Z: 9}, 1.2))
	r.Tick(ctl)
	issued := ctl.FlushActs().Tasks[0].ID

	ctl.Observe(obsAt(2, [3]int{1, 64, 1}).obs)
	r.Clear(ctl)

	msg := ctl.FlushActs()
	if msg == nil || len(msg.Cancel) != 1 || msg.Cancel[0] != issued {
		t.Fatalf("expected cancel of %s, got %+v", issued, msg)
	}
}

func TestMoveTo_RetryableFailureReissues(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).obs)

	var r behavior.Runner
	r.Propose(ctl, NewMoveTo(agent.Vec3i{X: 9, Y: 64, Z: 9}, 1.2))
	r.Tick(ctl)
	first := ctl.FlushActs().Tasks[0].ID

	ctl.Observe(obsAt(2, [3]int{0, 64, 0}).result(first, false, protocol.ErrBlocked).obs)
	r.Tick(ctl)
	ctl.FlushActs()

	ctl.Observe(obsAt(3, [3]int{0, 64, 0}).obs)
	r.Tick(ctl)
	msg := ctl.FlushActs()
	if msg == nil || len(msg.Tasks) != 1 {
		t.Fatalf("expected re-issue after E_BLOCKED, got %+v", msg)
	}
	if msg.Tasks[0].ID == first {
		t.Fatalf("re-issue must use a fresh id")
	}
	if !r.Active() {
		t.Fatalf("transient failure must not finish the task")
	}
}

func TestMoveTo_HardFailureFinishesFailed(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).obs)

	task := NewMoveTo(agent.Vec3i{X: 9, Y: 64, Z: 9}, 1.2)
	var r behavior.Runner
	r.Propose(ctl, task)
	r.Tick(ctl)
	issued := ctl.FlushActs().Tasks[0].ID

	ctl.Observe(obsAt(2, [3]int{0, 64, 0}).result(issued, false, protocol.ErrInvalidTarget).obs)
	r.Tick(ctl)

	if r.Active() {
		t.Fatalf("hard failure must finish the task")
	}
	if !behavior.Failed(task) {
		t.Fatalf("task must carry the failed marker")
	}
}

func TestMoveTo_AirborneVeto(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).status(protocol.StatusAirborne).obs)

	landing := NewMoveTo(agent.Vec3i{X: 3, Y: 64, Z: 0}, 1.2)
	var r behavior.Runner
	r.Propose(ctl, landing)
	r.Tick(ctl)
	ctl.FlushActs()

	// A plain successor is refused mid-air.
	ctl.Observe(obsAt(2, [3]int{1, 64, 0}).status(protocol.StatusAirborne).obs)
	r.Propose(ctl, NewMineBlock(agent.Vec3i{X: 8, Y: 64, Z: 0}))
	if r.Current() != behavior.Task(landing) {
		t.Fatalf("airborne veto ignored")
	}

	// Flee declares the override and goes through.
	flee := NewFlee("M1", 10)
	r.Propose(ctl, flee)
	if r.Current() != behavior.Task(flee) {
		t.Fatalf("override candidate must displace")
	}

	// Grounded again, the veto lapses.
	r.Clear(ctl)
	ctl.Observe(obsAt(3, [3]int{1, 64, 0}).obs)
	landing2 := NewMoveTo(agent.Vec3i{X: 3, Y: 64, Z: 0}, 1.2)
	r.Propose(ctl, landing2)
	r.Tick(ctl)
	ctl.FlushActs()
	ctl.Observe(obsAt(4, [3]int{1, 64, 0}).obs)
	r.Propose(ctl, NewMineBlock(agent.Vec3i{X: 8, Y: 64, Z: 0}))
	if _, ok := r.Current().(*MineBlock); !ok {
		t.Fatalf("grounded task must be replaceable, current=%v", r.Current().Name())
	}
}

func TestMineBlock_WalksIntoReachThenMines(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).block([3]int{10, 0, 0}, 2).obs)

	var r behavior.Runner
	r.Propose(ctl, NewMineBlock(agent.Vec3i{X: 10, Y: 64, Z: 0}))
	path := r.Tick(ctl)

	if len(path) != 2 || path[1] != "move_to(10,64,0)" {
		t.Fatalf("out of reach must delegate movement, path=%v", path)
	}
	msg := ctl.FlushActs()
	if msg == nil || msg.Tasks[0].Type != protocol.TaskMoveTo {
		t.Fatalf("expected MOVE_TO, got %+v", msg)
	}

	// In reach: the movement child is dropped and MINE is issued.
	ctl.Observe(obsAt(2, [3]int{8, 64, 0}).block([3]int{2, 0, 0}, 2).obs)
	path = r.Tick(ctl)
	if len(path) != 1 {
		t.Fatalf("in reach the mine task acts as leaf, path=%v", path)
	}
	msg = ctl.FlushActs()
	var sawMine bool
	for _, tr := range msg.Tasks {
		if tr.Type == protocol.TaskMine {
			sawMine = true
		}
	}
	if !sawMine {
		t.Fatalf("expected MINE request, got %+v", msg)
	}

	// Block turns to air: finished.
	ctl.Observe(obsAt(3, [3]int{8, 64, 0}).block([3]int{2, 0, 0}, 0).obs)
	r.Tick(ctl)
	if r.Active() {
		t.Fatalf("mined block must finish the task")
	}
}

func TestCollect_MinesNearestDroppingBlock(t *testing.T) {
	ctl := newCtl(t)
	obs := obsAt(1, [3]int{0, 64, 0}).
		block([3]int{2, 0, 0}, 1).
		block([3]int{6, 0, 0}, 1).
		block([3]int{1, 0, 0}, 2)
	ctl.Observe(obs.obs)

	var r behavior.Runner
	r.Propose(ctl, NewCollect("LOG", 2))
	path := r.Tick(ctl)

	if len(path) != 2 || path[1] != "mine(2,64,0)" {
		t.Fatalf("expected nearest OAK_LOG mined, path=%v", path)
	}

	// Enough in inventory: finished without further work.
	ctl.Observe(obsAt(2, [3]int{0, 64, 0}).inv("LOG", 2).obs)
	r.Tick(ctl)
	if r.Active() {
		t.Fatalf("satisfied collect must finish")
	}
}

func TestCollect_NoSourceFails(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).obs)

	task := NewCollect("DIAMOND", 1)
	var r behavior.Runner
	r.Propose(ctl, task)
	r.Tick(ctl)

	if r.Active() {
		t.Fatalf("unsourceable item must finish the task")
	}
	if !behavior.Failed(task) {
		t.Fatalf("expected failed marker")
	}
}

func TestCraft_CollectsMissingInputsFirst(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).block([3]int{2, 0, 0}, 1).obs)

	var r behavior.Runner
	r.Propose(ctl, NewCraft("R_PLANK", 1))
	path := r.Tick(ctl)

	if len(path) < 2 || path[1] != "collect(LOG,1)" {
		t.Fatalf("missing input must be collected, path=%v", path)
	}

	// Input present: CRAFT is issued.
	ctl.Observe(obsAt(2, [3]int{0, 64, 0}).inv("LOG", 1).obs)
	r.Tick(ctl)
	msg := ctl.FlushActs()
	var craft *protocol.TaskReq
	for i := range msg.Tasks {
		if msg.Tasks[i].Type == protocol.TaskCraft {
			craft = &msg.Tasks[i]
		}
	}
	if craft == nil || craft.RecipeID != "R_PLANK" {
		t.Fatalf("expected CRAFT request, got %+v", msg)
	}

	// Output lands: finished.
	ctl.Observe(obsAt(3, [3]int{0, 64, 0}).inv("PLANK", 4).obs)
	r.Tick(ctl)
	if r.Active() {
		t.Fatalf("crafted output must finish the task")
	}
}

func TestEat_ConsumesBestFoodAndFinishes(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).hunger(5).inv("BREAD", 2).obs)

	var r behavior.Runner
	r.Propose(ctl, NewEat())
	r.Tick(ctl)

	msg := ctl.FlushActs()
	if msg == nil || len(msg.Instants) != 1 || msg.Instants[0].Type != protocol.InstantEat || msg.Instants[0].ItemID != "BREAD" {
		t.Fatalf("expected EAT BREAD, got %+v", msg)
	}

	// Hunger rises: finished.
	ctl.Observe(obsAt(2, [3]int{0, 64, 0}).hunger(11).inv("BREAD", 1).obs)
	r.Tick(ctl)
	if r.Active() {
		t.Fatalf("restored hunger must finish the task")
	}
}

func TestEat_NoFoodFails(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).hunger(5).obs)

	task := NewEat()
	var r behavior.Runner
	r.Propose(ctl, task)
	r.Tick(ctl)

	if r.Active() || !behavior.Failed(task) {
		t.Fatalf("no food must finish failed")
	}
}

func TestFlee_RetreatsUntilClear(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(1, [3]int{0, 64, 0}).entity("M1", "MOB", [3]int{-3, 64, 0}, "HOSTILE").obs)

	flee := NewFlee("M1", 10)
	var r behavior.Runner
	r.Propose(ctl, flee)
	path := r.Tick(ctl)

	// Retreat extends the threat->agent line: +X here.
	if len(path) != 2 || path[1] != "move_to(10,64,0)" {
		t.Fatalf("path=%v", path)
	}

	// Threat still near: keep going; same retreat target, so the child
	// is not restarted.
	ctl.Observe(obsAt(2, [3]int{4, 64, 0}).entity("M1", "MOB", [3]int{-2, 64, 0}, "HOSTILE").obs)
	r.Tick(ctl)
	if msg := ctl.FlushActs(); msg != nil && len(msg.Tasks) > 1 {
		t.Fatalf("retreat restarted: %+v", msg)
	}

	// Far enough: finished.
	ctl.Observe(obsAt(3, [3]int{9, 64, 0}).entity("M1", "MOB", [3]int{-2, 64, 0}, "HOSTILE").obs)
	r.Tick(ctl)
	if r.Active() {
		t.Fatalf("cleared distance must finish the flee")
	}

	// A despawned threat also finishes.
	flee2 := NewFlee("M2", 10)
	r.Propose(ctl, flee2)
	ctl.Observe(obsAt(4, [3]int{9, 64, 0}).obs)
	r.Tick(ctl)
	if r.Active() {
		t.Fatalf("missing threat must finish the flee")
	}
}

func TestWait_FinishesAfterInterval(t *testing.T) {
	ctl := newCtl(t)
	ctl.Observe(obsAt(10, [3]int{0, 64, 0}).obs)

	var r behavior.Runner
	r.Propose(ctl, NewWait(2)) // 10 ticks at 5Hz
	r.Tick(ctl)
	if !r.Active() {
		t.Fatalf("wait must keep running")
	}

	ctl.Observe(obsAt(19, [3]int{0, 64, 0}).obs)
	r.Tick(ctl)
	if !r.Active() {
		t.Fatalf("9 ticks in, wait must still run")
	}

	ctl.Observe(obsAt(20, [3]int{0, 64, 0}).obs)
	r.Tick(ctl)
	if r.Active() {
		t.Fatalf("elapsed wait must finish")
	}
}

// A block offset like (2,2,1) sits exactly at straight-line distance 3:
// inside mining reach, but far enough that a mismatched reach metric once
// made the task walk toward it forever instead of mining. Reach and the
// delegated movement's arrival must agree.
func TestMineBlock_DiagonalOffsetMinesWithoutWalking(t *testing.T) {
	ctl := newCtl(t)

	var r behavior.Runner
	moveRequests, mineRequests := 0, 0
	for tick := uint64(1); tick <= 20; tick++ {
		ctl.Observe(obsAt(tick, [3]int{0, 64, 0}).block([3]int{2, 2, 1}, 2).obs)
		r.Propose(ctl, NewMineBlock(agent.Vec3i{X: 2, Y: 66, Z: 1}))
		r.Tick(ctl)
		if msg := ctl.FlushActs(); msg != nil {
			for _, tr := range msg.Tasks {
				switch tr.Type {
				case protocol.TaskMoveTo:
					moveRequests++
				case protocol.TaskMine:
					mineRequests++
				}
			}
		}
	}

	if mineRequests != 1 {
		t.Fatalf("MINE issued %d times, want 1", mineRequests)
	}
	if moveRequests != 0 {
		t.Fatalf("in-reach block triggered %d MOVE_TO requests, want 0", moveRequests)
	}
	if !r.Active() {
		t.Fatalf("unfinished mine must still be running")
	}
}

// An unchanged mine derivation across many ticks keeps one task instance
// and one server request alive.
func TestMineContinuityAcrossReplans(t *testing.T) {
	ctl := newCtl(t)

	target := agent.Vec3i{X: 2, Y: 64, Z: 0}
	var r behavior.Runner

	mineRequests := 0
	for tick := uint64(1); tick <= 10; tick++ {
		ctl.Observe(obsAt(tick, [3]int{0, 64, 0}).block([3]int{2, 0, 0}, 2).obs)
		// A replanner derives a fresh-but-equal task every tick.
		r.Propose(ctl, NewMineBlock(target))
		r.Tick(ctl)
		if msg := ctl.FlushActs(); msg != nil {
			for _, tr := range msg.Tasks {
				if tr.Type == protocol.TaskMine {
					mineRequests++
				}
			}
		}
	}

	if mineRequests != 1 {
		t.Fatalf("mine issued %d times across 10 replans, want 1", mineRequests)
	}
	if !r.Active() {
		t.Fatalf("unfinished mine must still be running")
	}
}
