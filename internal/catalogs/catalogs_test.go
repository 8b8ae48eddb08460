package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	blocks := `blocks:
  - {id: AIR, solid: false, breakable: false}
  - {id: STONE, solid: true, breakable: true, drops_item: COBBLE}
  - {id: OAK_LOG, solid: true, breakable: true, drops_item: LOG}
  - {id: BEDROCK, solid: true, breakable: false}
`
	items := `items:
  - {id: COBBLE, kind: MATERIAL}
  - {id: LOG, kind: MATERIAL}
  - {id: BREAD, kind: FOOD, restore_hunger: 6}
  - {id: APPLE, kind: FOOD, restore_hunger: 3}
`
	recipes := `recipes:
  - recipe_id: R_PLANK
    station: NONE
    inputs: [{item: LOG, count: 1}]
    outputs: [{item: PLANK, count: 4}]
    time_ticks: 10
`
	for name, body := range map[string]string{"blocks.yaml": blocks, "items.yaml": items, "recipes.yaml": recipes} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad_PaletteDeterministic(t *testing.T) {
	dir := writeCatalogDir(t)
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Blocks.Palette[0] != "AIR" {
		t.Fatalf("AIR must be palette id 0, got %q", c.Blocks.Palette[0])
	}
	if c.Blocks.Index["AIR"] != 0 {
		t.Fatalf("AIR index = %d", c.Blocks.Index["AIR"])
	}
	// Sorted after AIR: BEDROCK, OAK_LOG, STONE.
	want := []string{"AIR", "BEDROCK", "OAK_LOG", "STONE"}
	for i, id := range want {
		if c.Blocks.Palette[i] != id {
			t.Fatalf("palette[%d]=%q want %q", i, c.Blocks.Palette[i], id)
		}
	}
	if c.BlockName(3) != "STONE" {
		t.Fatalf("BlockName(3)=%q", c.BlockName(3))
	}
	if c.BlockName(99) != "" {
		t.Fatalf("out of range id must resolve empty")
	}
}

func TestBlocksDropping(t *testing.T) {
	c, err := Load(writeCatalogDir(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := c.BlocksDropping("COBBLE")
	if len(got) != 1 || got[0] != "STONE" {
		t.Fatalf("BlocksDropping(COBBLE)=%v", got)
	}
	if got := c.BlocksDropping("NOTHING"); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestBestFood(t *testing.T) {
	c, err := Load(writeCatalogDir(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	inv := map[string]int{"BREAD": 1, "APPLE": 5, "COBBLE": 64}
	if got := c.BestFood(inv); got != "BREAD" {
		t.Fatalf("BestFood=%q want BREAD", got)
	}
	if got := c.BestFood(map[string]int{"COBBLE": 3}); got != "" {
		t.Fatalf("no food must yield empty, got %q", got)
	}
}

func TestMissingInputs(t *testing.T) {
	c, err := Load(writeCatalogDir(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	missing, ok := c.MissingInputs("R_PLANK", 2, map[string]int{"LOG": 1})
	if !ok {
		t.Fatalf("recipe should exist")
	}
	if len(missing) != 1 || missing[0].Item != "LOG" || missing[0].Count != 1 {
		t.Fatalf("missing=%v", missing)
	}
	if m, ok := c.MissingInputs("R_PLANK", 1, map[string]int{"LOG": 3}); !ok || len(m) != 0 {
		t.Fatalf("satisfied recipe must report nothing missing, got %v %v", m, ok)
	}
	if _, ok := c.MissingInputs("R_NONE", 1, nil); ok {
		t.Fatalf("unknown recipe must report !ok")
	}
}

func TestLoad_MissingFilesAllowed(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load empty dir: %v", err)
	}
	if len(c.Blocks.Defs) != 0 || len(c.Recipes.ByID) != 0 {
		t.Fatalf("expected empty catalogs")
	}
}
