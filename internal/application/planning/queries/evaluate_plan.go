package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/focusplanner/internal/application/logging"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/application/planning/services"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// EvaluatePlanQuery prices a requested quantity of a target
type EvaluatePlanQuery struct {
	Target string
	Units  float64
	Mode   recipe.YieldMode // empty uses the configured default
}

// EvaluatePlanResponse carries the evaluated plan
type EvaluatePlanResponse struct {
	Plan *planning.Plan
}

// EvaluatePlanHandler handles EvaluatePlanQuery
type EvaluatePlanHandler struct {
	graphs  recipes.GraphProvider
	options Options
}

// NewEvaluatePlanHandler creates a new EvaluatePlanHandler
func NewEvaluatePlanHandler(graphs recipes.GraphProvider, options Options) *EvaluatePlanHandler {
	return &EvaluatePlanHandler{graphs: graphs, options: options}
}

// Handle evaluates the target against a snapshot of the book
func (h *EvaluatePlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*EvaluatePlanQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *EvaluatePlanQuery")
	}

	propagator := services.NewCostPropagatorWithPolicy(h.graphs.Snapshot(), h.options.Policy)
	plan, err := propagator.Evaluate(query.Target, query.Units, h.options.mode(query.Mode))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s: %w", query.Target, err)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelDebug, "plan evaluated", map[string]interface{}{
		"target": plan.Target,
		"units":  plan.UnitsRequested,
		"mode":   string(plan.Mode),
		"focus":  plan.TotalFocus,
		"lines":  len(plan.Lines),
	})

	return &EvaluatePlanResponse{Plan: plan}, nil
}
