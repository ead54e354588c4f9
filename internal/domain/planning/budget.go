package planning

import "github.com/andrescamacho/focusplanner/internal/domain/recipe"

// BudgetResult is the outcome of a max-craftable search
type BudgetResult struct {
	Target   string
	Mode     recipe.YieldMode
	Budget   float64
	Quantity int64

	// Unbounded is set when one unit costs no Focus. Quantity is 0 in that case
	// because "infinite" has no integer representation.
	Unbounded bool

	// FocusUsed is the total cost of Quantity units (0 when Quantity is 0)
	FocusUsed float64

	// Evaluations counts full graph evaluations performed by the search
	Evaluations int
}

// Remaining returns budget left after crafting Quantity
func (r *BudgetResult) Remaining() float64 {
	return r.Budget - r.FocusUsed
}
