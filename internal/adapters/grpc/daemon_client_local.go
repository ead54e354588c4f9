package grpc

import (
	"context"
	"fmt"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// PlannerClientLocal implements planning.Planner in-process through the mediator,
// so commands work the same with or without a running daemon
type PlannerClientLocal struct {
	mediator mediator.Mediator
}

// NewPlannerClientLocal creates an in-process planner
func NewPlannerClientLocal(med mediator.Mediator) *PlannerClientLocal {
	return &PlannerClientLocal{mediator: med}
}

// Evaluate prices units of target
func (c *PlannerClientLocal) Evaluate(ctx context.Context, target string, units float64, mode recipe.YieldMode) (*planning.Plan, error) {
	response, err := c.mediator.Send(ctx, &planningQueries.EvaluatePlanQuery{Target: target, Units: units, Mode: mode})
	if err != nil {
		return nil, err
	}

	resp, ok := response.(*planningQueries.EvaluatePlanResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", response)
	}
	return resp.Plan, nil
}

// MaxCraftable runs the budget search
func (c *PlannerClientLocal) MaxCraftable(ctx context.Context, target string, budget float64, mode recipe.YieldMode) (*planning.BudgetResult, error) {
	response, err := c.mediator.Send(ctx, &planningQueries.MaxCraftableQuery{Target: target, Budget: budget, Mode: mode})
	if err != nil {
		return nil, err
	}

	resp, ok := response.(*planningQueries.MaxCraftableResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", response)
	}
	return resp.Result, nil
}

// Checklist evaluates target and aggregates its leaves
func (c *PlannerClientLocal) Checklist(ctx context.Context, target string, units float64, mode recipe.YieldMode) (*planning.Plan, []planning.LeafRow, error) {
	response, err := c.mediator.Send(ctx, &planningQueries.LeafChecklistQuery{Target: target, Units: units, Mode: mode})
	if err != nil {
		return nil, nil, err
	}

	resp, ok := response.(*planningQueries.LeafChecklistResponse)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected response type %T", response)
	}
	return resp.Plan, resp.Rows, nil
}
