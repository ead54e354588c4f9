package services

import (
	"math"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// DefaultSearchCeiling bounds the doubling phase of the budget search
const DefaultSearchCeiling int64 = 1_000_000_000

// BudgetOptimizer finds the largest quantity of a target that fits a Focus budget.
// It relies on total Focus being non-decreasing in quantity, which holds because craft
// counts are ceilings of demand.
type BudgetOptimizer struct {
	propagator *CostPropagator
	ceiling    int64
}

// NewBudgetOptimizer creates an optimizer. A ceiling <= 0 uses DefaultSearchCeiling.
func NewBudgetOptimizer(propagator *CostPropagator, ceiling int64) *BudgetOptimizer {
	if ceiling <= 0 {
		ceiling = DefaultSearchCeiling
	}
	return &BudgetOptimizer{
		propagator: propagator,
		ceiling:    ceiling,
	}
}

// Ceiling returns the search ceiling
func (o *BudgetOptimizer) Ceiling() int64 {
	return o.ceiling
}

// MaxCraftable returns the largest integer quantity whose total Focus is within budget.
// A chain whose single unit costs nothing returns 0 (see Optimize for the Unbounded flag).
func (o *BudgetOptimizer) MaxCraftable(target string, budget float64, mode recipe.YieldMode) (int64, error) {
	result, err := o.Optimize(target, budget, mode)
	if err != nil {
		return 0, err
	}
	return result.Quantity, nil
}

// Optimize runs the search and reports the chosen quantity with its cost.
//
// Algorithm:
// 1. Price one unit; a free chain stops here as Unbounded
// 2. Double hi from 1 until it is unaffordable or reaches the ceiling
// 3. Binary search [0, hi] with an upward-biased midpoint so lo == hi terminates
func (o *BudgetOptimizer) Optimize(target string, budget float64, mode recipe.YieldMode) (*planning.BudgetResult, error) {
	if math.IsNaN(budget) {
		return nil, &planning.ErrInvalidQuantity{Quantity: budget}
	}

	result := &planning.BudgetResult{
		Target: target,
		Mode:   mode,
		Budget: budget,
	}

	costs := make(map[int64]float64)
	cost := func(q int64) (float64, error) {
		if c, ok := costs[q]; ok {
			return c, nil
		}
		result.Evaluations++
		plan, err := o.propagator.Evaluate(target, float64(q), mode)
		if err != nil {
			return 0, err
		}
		costs[q] = plan.TotalFocus
		return plan.TotalFocus, nil
	}

	unitCost, err := cost(1)
	if err != nil {
		return nil, err
	}
	if unitCost <= 0 {
		result.Unbounded = true
		return result, nil
	}

	hi := int64(1)
	for hi < o.ceiling {
		c, err := cost(hi)
		if err != nil {
			return nil, err
		}
		if c > budget {
			break
		}
		hi *= 2
		if hi > o.ceiling {
			hi = o.ceiling
		}
	}

	lo := int64(0)
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		c, err := cost(mid)
		if err != nil {
			return nil, err
		}
		if c <= budget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	result.Quantity = lo
	if lo > 0 {
		result.FocusUsed = costs[lo]
	}
	return result, nil
}
