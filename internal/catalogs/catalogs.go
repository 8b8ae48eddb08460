// Package catalogs holds the static lookup data the behavior layer plans
// against: block definitions, item definitions and recipes. The data ships
// as YAML files next to the bot binary; the server's WELCOME digests are
// the authority on whether the local copy is current.
package catalogs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

type Catalogs struct {
	Blocks  BlockCatalog
	Items   ItemCatalog
	Recipes RecipeCatalog
}

type BlockCatalog struct {
	Palette []string
	Index   map[string]uint16
	Defs    map[string]BlockDef
}

type BlockDef struct {
	ID        string `yaml:"id"`
	Solid     bool   `yaml:"solid"`
	Breakable bool   `yaml:"breakable"`
	DropsItem string `yaml:"drops_item,omitempty"`
}

type ItemCatalog struct {
	Defs map[string]ItemDef
}

type ItemDef struct {
	ID            string `yaml:"id"`
	Kind          string `yaml:"kind"` // "BLOCK","TOOL","MATERIAL","FOOD"
	RestoreHunger int    `yaml:"restore_hunger,omitempty"`
}

type RecipeCatalog struct {
	ByID map[string]RecipeDef
}

type RecipeDef struct {
	RecipeID  string      `yaml:"recipe_id"`
	Station   string      `yaml:"station"`
	Inputs    []ItemCount `yaml:"inputs"`
	Outputs   []ItemCount `yaml:"outputs"`
	TimeTicks int         `yaml:"time_ticks"`
}

type ItemCount struct {
	Item  string `yaml:"item"`
	Count int    `yaml:"count"`
}

type rawFile struct {
	Blocks  []BlockDef  `yaml:"blocks"`
	Items   []ItemDef   `yaml:"items"`
	Recipes []RecipeDef `yaml:"recipes"`
}

// Load reads blocks.yaml, items.yaml and recipes.yaml from dir. Missing
// files are allowed; the corresponding catalog stays empty.
func Load(dir string) (*Catalogs, error) {
	c := &Catalogs{
		Blocks:  BlockCatalog{Index: map[string]uint16{}, Defs: map[string]BlockDef{}},
		Items:   ItemCatalog{Defs: map[string]ItemDef{}},
		Recipes: RecipeCatalog{ByID: map[string]RecipeDef{}},
	}
	for _, name := range []string{"blocks.yaml", "items.yaml", "recipes.yaml"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		var f rawFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c.merge(f)
	}
	c.rebuildPalette()
	return c, nil
}

func (c *Catalogs) merge(f rawFile) {
	for _, b := range f.Blocks {
		c.Blocks.Defs[b.ID] = b
	}
	for _, it := range f.Items {
		c.Items.Defs[it.ID] = it
	}
	for _, r := range f.Recipes {
		c.Recipes.ByID[r.RecipeID] = r
	}
}

// The palette order must be deterministic: block ids are assigned by sorted
// name, with AIR pinned to id 0 to match the wire encoding.
func (c *Catalogs) rebuildPalette() {
	ids := make([]string, 0, len(c.Blocks.Defs))
	for id := range c.Blocks.Defs {
		if id == "AIR" {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	c.Blocks.Palette = append([]string{"AIR"}, ids...)
	c.Blocks.Index = make(map[string]uint16, len(c.Blocks.Palette))
	for i, id := range c.Blocks.Palette {
		c.Blocks.Index[id] = uint16(i)
	}
}

// BlockName resolves a palette id to its block name, "" when out of range.
func (c *Catalogs) BlockName(id uint16) string {
	if int(id) >= len(c.Blocks.Palette) {
		return ""
	}
	return c.Blocks.Palette[id]
}

// BlocksDropping lists block ids whose defs drop the given item, sorted for
// deterministic planning.
func (c *Catalogs) BlocksDropping(item string) []string {
	var out []string
	for id, def := range c.Blocks.Defs {
		if def.Breakable && def.DropsItem == item {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// BestFood returns the edible item in inv restoring the most hunger, or "".
func (c *Catalogs) BestFood(inv map[string]int) string {
	best, bestRestore := "", 0
	ids := make([]string, 0, len(inv))
	for id := range inv {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if inv[id] <= 0 {
			continue
		}
		def, ok := c.Items.Defs[id]
		if !ok || def.Kind != "FOOD" || def.RestoreHunger <= 0 {
			continue
		}
		if def.RestoreHunger > bestRestore {
			best, bestRestore = id, def.RestoreHunger
		}
	}
	return best
}

// MissingInputs reports recipe inputs not covered by inv, scaled by count.
func (c *Catalogs) MissingInputs(recipeID string, count int, inv map[string]int) ([]ItemCount, bool) {
	rec, ok := c.Recipes.ByID[recipeID]
	if !ok {
		return nil, false
	}
	if count <= 0 {
		count = 1
	}
	var missing []ItemCount
	for _, in := range rec.Inputs {
		need := in.Count * count
		if have := inv[in.Item]; have < need {
			missing = append(missing, ItemCount{Item: in.Item, Count: need - have})
		}
	}
	return missing, true
}
