package services

import (
	"math"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/pkg/utils"
)

// yieldEpsilon keeps a tiny positive yield from dividing by zero
const yieldEpsilon = 1e-9

// CostPropagator walks the ingredient graph from a target and turns unit demand into
// craft counts, Focus and time for every node.
//
// It is a pure function of the recipe source and its inputs. Callers sharing a graph with
// an editor should hand it a snapshot.
type CostPropagator struct {
	recipes recipe.Source
	policy  planning.Policy
}

// NewCostPropagator creates a propagator with the identity policy
func NewCostPropagator(recipes recipe.Source) *CostPropagator {
	return NewCostPropagatorWithPolicy(recipes, nil)
}

// NewCostPropagatorWithPolicy creates a propagator that applies profile adjustments
func NewCostPropagatorWithPolicy(recipes recipe.Source, policy planning.Policy) *CostPropagator {
	if policy == nil {
		policy = planning.IdentityPolicy{}
	}
	return &CostPropagator{
		recipes: recipes,
		policy:  policy,
	}
}

// Policy returns the cost policy in use
func (p *CostPropagator) Policy() planning.Policy {
	return p.policy
}

// evaluation carries the per-call state: the in-progress stack and emitted lines
type evaluation struct {
	mode    recipe.YieldMode
	stack   []string
	onStack map[string]bool
	lines   []planning.FocusLine
}

// Evaluate computes the Focus needed to produce units of target under mode.
//
// The in-progress stack (not a visited set) is what makes diamonds legal: a material is
// freed when its branch returns, so it may be required again elsewhere. Only a material
// that is still on the stack is a cycle. Cycles are reported even for zero units.
func (p *CostPropagator) Evaluate(target string, units float64, mode recipe.YieldMode) (*planning.Plan, error) {
	if math.IsNaN(units) || math.IsInf(units, 0) || units < 0 {
		return nil, &planning.ErrInvalidQuantity{Quantity: units}
	}
	if mode == "" {
		mode = recipe.YieldModeSafe
	}
	parsed, err := recipe.ParseYieldMode(string(mode))
	if err != nil {
		return nil, &planning.ErrInvalidYieldMode{Mode: string(mode), Err: err}
	}
	mode = parsed

	ev := &evaluation{
		mode:    mode,
		onStack: make(map[string]bool),
	}

	total, err := p.visit(ev, target, units, 0)
	if err != nil {
		return nil, err
	}

	return &planning.Plan{
		Target:         target,
		Mode:           mode,
		UnitsRequested: units,
		TotalFocus:     total,
		Lines:          ev.lines,
	}, nil
}

// visit emits the node's line, recurses into ingredients and returns the subtree's Focus.
// Time is not threaded through here; Plan.TotalTimeSeconds sums it over the lines.
func (p *CostPropagator) visit(ev *evaluation, name string, units float64, level int) (float64, error) {
	r, ok := p.recipes.Get(name)
	if !ok {
		return 0, &recipe.ErrUnknownMaterial{Name: name}
	}

	if ev.onStack[name] {
		path := make([]string, 0, len(ev.stack)+1)
		path = append(path, ev.stack...)
		path = append(path, name)
		return 0, &recipe.ErrCycleDetected{Material: name, Path: path}
	}

	ev.onStack[name] = true
	ev.stack = append(ev.stack, name)
	defer func() {
		ev.stack = ev.stack[:len(ev.stack)-1]
		ev.onStack[name] = false
	}()

	yield := p.policy.Yield(r, r.EffectiveYield(ev.mode))
	if units > 0 && yield <= 0 {
		return 0, &recipe.ErrZeroEffectiveYield{Material: name, Mode: ev.mode}
	}

	crafts := utils.CeilCount(units / utils.MaxFloat(yield, yieldEpsilon))
	focus := float64(crafts) * p.policy.FocusCost(r)

	ev.lines = append(ev.lines, planning.FocusLine{
		Level:           level,
		Action:          r.Action(),
		Material:        name,
		Crafts:          crafts,
		EffectiveYield:  yield,
		UnitsRequested:  units,
		FocusUsed:       focus,
		TimeUsedSeconds: float64(crafts) * p.policy.TimePerCraft(r),
	})

	total := focus
	for _, ingredient := range r.IngredientNames() {
		demand := r.Ingredients[ingredient] * float64(crafts)
		sub, err := p.visit(ev, ingredient, demand, level+1)
		if err != nil {
			return 0, err
		}
		total += sub
	}

	return total, nil
}
