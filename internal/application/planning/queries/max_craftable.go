package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/application/planning/services"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// MaxCraftableQuery finds the largest quantity of a target a Focus budget covers
type MaxCraftableQuery struct {
	Target string
	Budget float64
	Mode   recipe.YieldMode
}

// MaxCraftableResponse carries the search result
type MaxCraftableResponse struct {
	Result *planning.BudgetResult
}

// MaxCraftableHandler handles MaxCraftableQuery
type MaxCraftableHandler struct {
	graphs  recipes.GraphProvider
	options Options
}

// NewMaxCraftableHandler creates a new MaxCraftableHandler
func NewMaxCraftableHandler(graphs recipes.GraphProvider, options Options) *MaxCraftableHandler {
	return &MaxCraftableHandler{graphs: graphs, options: options}
}

// Handle runs the budget search on one snapshot so every probe sees the same graph
func (h *MaxCraftableHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*MaxCraftableQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *MaxCraftableQuery")
	}

	propagator := services.NewCostPropagatorWithPolicy(h.graphs.Snapshot(), h.options.Policy)
	optimizer := services.NewBudgetOptimizer(propagator, h.options.SearchCeiling)

	result, err := optimizer.Optimize(query.Target, query.Budget, h.options.mode(query.Mode))
	if err != nil {
		return nil, fmt.Errorf("failed to search budget for %s: %w", query.Target, err)
	}

	return &MaxCraftableResponse{Result: result}, nil
}
