package planning

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// PlanRunKind distinguishes what was computed
type PlanRunKind string

const (
	// PlanRunEvaluate is a cost evaluation for a requested quantity
	PlanRunEvaluate PlanRunKind = "EVALUATE"

	// PlanRunBudget is a max-craftable search under a Focus budget
	PlanRunBudget PlanRunKind = "BUDGET"
)

// PlanRun is a history entry of one computation
type PlanRun struct {
	ID               string
	Kind             PlanRunKind
	Target           string
	Mode             recipe.YieldMode
	Quantity         float64
	Budget           float64
	TotalFocus       float64
	TotalTimeSeconds float64
	LineCount        int
	CreatedAt        time.Time
}

// NewEvaluateRun records an evaluated plan
func NewEvaluateRun(plan *Plan, now time.Time) *PlanRun {
	return &PlanRun{
		ID:               uuid.NewString(),
		Kind:             PlanRunEvaluate,
		Target:           plan.Target,
		Mode:             plan.Mode,
		Quantity:         plan.UnitsRequested,
		TotalFocus:       plan.TotalFocus,
		TotalTimeSeconds: plan.TotalTimeSeconds(),
		LineCount:        len(plan.Lines),
		CreatedAt:        now,
	}
}

// NewBudgetRun records a budget search
func NewBudgetRun(result *BudgetResult, now time.Time) *PlanRun {
	return &PlanRun{
		ID:         uuid.NewString(),
		Kind:       PlanRunBudget,
		Target:     result.Target,
		Mode:       result.Mode,
		Quantity:   float64(result.Quantity),
		Budget:     result.Budget,
		TotalFocus: result.FocusUsed,
		CreatedAt:  now,
	}
}
