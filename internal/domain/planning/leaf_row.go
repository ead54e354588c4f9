package planning

import "github.com/andrescamacho/focusplanner/internal/domain/recipe"

// LeafRow is one entry of the base-material checklist
type LeafRow struct {
	Material       string
	Action         recipe.Action
	Units          float64
	EffectiveYield float64
	Crafts         int64
	Focus          float64
	TimeSeconds    float64
}

// LeafTotals sums a checklist
func LeafTotals(rows []LeafRow) (focus, timeSeconds float64) {
	for _, row := range rows {
		focus += row.Focus
		timeSeconds += row.TimeSeconds
	}
	return focus, timeSeconds
}
