package protocol

// OBS (server -> agent): one observation per tick.
type ObsMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	AgentID         string `json:"agent_id"`

	World     WorldObs     `json:"world"`
	Self      SelfObs      `json:"self"`
	Inventory []ItemStack  `json:"inventory"`
	Equipment EquipmentObs `json:"equipment"`

	Voxels   VoxelsObs   `json:"voxels"`
	Entities []EntityObs `json:"entities"`
	Events   []Event     `json:"events"`
	Tasks    []TaskObs   `json:"tasks"`
}

type WorldObs struct {
	TimeOfDay float64 `json:"time_of_day"` // 0..1
	Weather   string  `json:"weather"`
	Biome     string  `json:"biome"`
}

type SelfObs struct {
	Pos     [3]int   `json:"pos"`
	Yaw     int      `json:"yaw"`
	HP      int      `json:"hp"`
	Hunger  int      `json:"hunger"`
	Stamina float64  `json:"stamina"`
	Status  []string `json:"status"`
}

// Self status flags relevant to behavior safety checks.
const (
	StatusAirborne = "AIRBORNE"
	StatusBurning  = "BURNING"
	StatusDrowning = "DROWNING"
)

type ItemStack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type EquipmentObs struct {
	MainHand string   `json:"main_hand"`
	Armor    []string `json:"armor"`
}

type VoxelsObs struct {
	Center   [3]int         `json:"center"`
	Radius   int            `json:"radius"`
	Encoding string         `json:"encoding"` // "DELTA"
	Ops      []VoxelDeltaOp `json:"ops,omitempty"`
}

type VoxelDeltaOp struct {
	D [3]int `json:"d"` // delta from center (dx,dy,dz)
	B uint16 `json:"b"` // block palette id
}

type EntityObs struct {
	ID   string   `json:"id"`
	Type string   `json:"type"` // "AGENT", "MOB", "ITEM", "CHEST", ...
	Pos  [3]int   `json:"pos"`
	Tags []string `json:"tags,omitempty"`

	// Optional payload for "ITEM" entities.
	Item  string `json:"item,omitempty"`
	Count int    `json:"count,omitempty"`
}

// TaskObs reports progress of a server-executed task the agent issued.
type TaskObs struct {
	TaskID   string  `json:"task_id"`
	Kind     string  `json:"kind"`
	Progress float64 `json:"progress"`
	Target   [3]int  `json:"target,omitempty"`
	EtaTicks int     `json:"eta_ticks,omitempty"`
}

// ACT (agent -> server): everything the agent wants done this tick.
type ActMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Tick            uint64       `json:"tick"`
	AgentID         string       `json:"agent_id"`
	Instants        []InstantReq `json:"instants,omitempty"`
	Tasks           []TaskReq    `json:"tasks,omitempty"`
	Cancel          []string     `json:"cancel,omitempty"`
}

// Instant types the agent issues.
const (
	InstantSay   = "SAY"
	InstantEat   = "EAT"
	InstantEquip = "EQUIP"
)

// InstantReq is a fire-and-forget action that resolves within the tick.
type InstantReq struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	Channel string `json:"channel,omitempty"`
	Text    string `json:"text,omitempty"`

	ItemID string `json:"item_id,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// Task kinds the agent issues; the server runs them over multiple ticks.
const (
	TaskMoveTo = "MOVE_TO"
	TaskMine   = "MINE"
	TaskCraft  = "CRAFT"
	TaskStop   = "STOP"
)

type TaskReq struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	Target    [3]int  `json:"target,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`

	BlockPos [3]int `json:"block_pos,omitempty"`
	RecipeID string `json:"recipe_id,omitempty"`
	Count    int    `json:"count,omitempty"`
}
