package services

import (
	"sort"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/pkg/utils"
)

// LeafAggregator flattens an evaluation into a checklist of base materials.
//
// Example plan (Burning Powder x1):
//
//	Burning Powder (Craft)
//	└── Charcoal (Craft)
//	    └── Logs (Gather)   <- leaf
//
// Result: one row for Logs with the units summed across every occurrence.
type LeafAggregator struct {
	recipes recipe.Source
	policy  planning.Policy
}

// NewLeafAggregator creates an aggregator with the identity policy
func NewLeafAggregator(recipes recipe.Source) *LeafAggregator {
	return NewLeafAggregatorWithPolicy(recipes, nil)
}

// NewLeafAggregatorWithPolicy creates an aggregator that prices rows with the given policy.
// Use the same policy as the propagator that produced the lines.
func NewLeafAggregatorWithPolicy(recipes recipe.Source, policy planning.Policy) *LeafAggregator {
	if policy == nil {
		policy = planning.IdentityPolicy{}
	}
	return &LeafAggregator{
		recipes: recipes,
		policy:  policy,
	}
}

type leafAccumulator struct {
	units  float64
	yield  float64
	action recipe.Action
	recipe *recipe.Recipe
}

// Aggregate groups leaf lines by material and re-derives crafts on the combined demand.
//
// Crafts are ceiled once per material rather than summed per occurrence, so a row can
// cost less than the lines it came from. Rows sort by Focus descending, then action and
// name ascending.
func (a *LeafAggregator) Aggregate(lines []planning.FocusLine) []planning.LeafRow {
	acc := make(map[string]*leafAccumulator)
	order := make([]string, 0)

	for _, line := range lines {
		r, known := a.recipes.Get(line.Material)
		if known && !r.IsLeaf() {
			continue
		}

		entry, seen := acc[line.Material]
		if !seen {
			entry = &leafAccumulator{action: line.Action}
			if known {
				entry.recipe = r
				entry.action = r.Action()
			}
			acc[line.Material] = entry
			order = append(order, line.Material)
		}

		entry.units += line.UnitsRequested
		if line.EffectiveYield > 0 {
			entry.yield = line.EffectiveYield
		}
	}

	rows := make([]planning.LeafRow, 0, len(order))
	for _, material := range order {
		entry := acc[material]
		crafts := utils.CeilCount(entry.units / utils.MaxFloat(1, entry.yield))

		row := planning.LeafRow{
			Material:       material,
			Action:         entry.action,
			Units:          entry.units,
			EffectiveYield: entry.yield,
			Crafts:         crafts,
		}
		if entry.recipe != nil {
			row.Focus = float64(crafts) * a.policy.FocusCost(entry.recipe)
			row.TimeSeconds = float64(crafts) * a.policy.TimePerCraft(entry.recipe)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Focus != rows[j].Focus {
			return rows[i].Focus > rows[j].Focus
		}
		if rows[i].Action != rows[j].Action {
			return rows[i].Action < rows[j].Action
		}
		return rows[i].Material < rows[j].Material
	})

	return rows
}
