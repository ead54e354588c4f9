package recipe

import (
	"math"
	"sort"
	"strings"
)

// Action is the kind of work a recipe node represents
type Action string

const (
	// ActionMine is a mineable resource that costs Focus
	ActionMine Action = "Mine"

	// ActionGather is a mineable resource that costs no Focus
	ActionGather Action = "Gather"

	// ActionCraft is anything produced from ingredients (or by hand)
	ActionCraft Action = "Craft"
)

// Recipe describes how one material is produced.
//
// Ingredients maps ingredient name to the quantity consumed per craft. Names may
// reference materials that are not (yet) in the graph; that is only an error
// once the recipe is evaluated.
type Recipe struct {
	Name                string
	FocusCost           float64
	TimePerCraftSeconds float64
	IsMineable          bool
	Yield               YieldSpec
	Ingredients         map[string]float64
}

// NewRecipe creates a recipe with a Fixed(1) yield and no ingredients
func NewRecipe(name string) *Recipe {
	return &Recipe{
		Name:        name,
		Yield:       DefaultYield(),
		Ingredients: make(map[string]float64),
	}
}

// Action derives the display action from mineability and focus cost
func (r *Recipe) Action() Action {
	return ActionFor(r.IsMineable, r.FocusCost)
}

// ActionFor derives an action without a recipe (used when the recipe is already resolved
// through a cost policy)
func ActionFor(isMineable bool, focusCost float64) Action {
	if !isMineable {
		return ActionCraft
	}
	if focusCost > 0 {
		return ActionMine
	}
	return ActionGather
}

// IsLeaf returns true if the recipe has no ingredients of its own
func (r *Recipe) IsLeaf() bool {
	return len(r.Ingredients) == 0
}

// EffectiveYield returns the per-action output under the given mode
func (r *Recipe) EffectiveYield(mode YieldMode) float64 {
	return r.Yield.Estimate(mode)
}

// IngredientNames returns ingredient names in a stable (sorted) order
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for name := range r.Ingredients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy
func (r *Recipe) Clone() *Recipe {
	c := *r
	c.Ingredients = make(map[string]float64, len(r.Ingredients))
	for k, v := range r.Ingredients {
		c.Ingredients[k] = v
	}
	c.Yield.outcomes = r.Yield.Outcomes()
	return &c
}

// Validate enforces the invariants upsert relies on
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ErrInvalidRecipe{Reason: "name is required"}
	}
	if math.IsNaN(r.FocusCost) || r.FocusCost < 0 {
		return &ErrInvalidRecipe{Name: r.Name, Reason: "focus cost must be >= 0"}
	}
	if math.IsNaN(r.TimePerCraftSeconds) || r.TimePerCraftSeconds < 0 {
		return &ErrInvalidRecipe{Name: r.Name, Reason: "time per craft must be >= 0"}
	}
	for name, qty := range r.Ingredients {
		if strings.TrimSpace(name) == "" {
			return &ErrInvalidRecipe{Name: r.Name, Reason: "ingredient name is required"}
		}
		if !(qty > 0) {
			return &ErrInvalidRecipe{Name: r.Name, Reason: "ingredient " + name + " quantity must be > 0"}
		}
	}
	return nil
}
