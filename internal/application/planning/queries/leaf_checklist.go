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

// LeafChecklistQuery evaluates a target and flattens it into base materials
type LeafChecklistQuery struct {
	Target string
	Units  float64
	Mode   recipe.YieldMode
}

// LeafChecklistResponse carries the plan and its leaf rows
type LeafChecklistResponse struct {
	Plan *planning.Plan
	Rows []planning.LeafRow
}

// LeafChecklistHandler handles LeafChecklistQuery
type LeafChecklistHandler struct {
	graphs  recipes.GraphProvider
	options Options
}

// NewLeafChecklistHandler creates a new LeafChecklistHandler
func NewLeafChecklistHandler(graphs recipes.GraphProvider, options Options) *LeafChecklistHandler {
	return &LeafChecklistHandler{graphs: graphs, options: options}
}

// Handle evaluates and aggregates against the same snapshot and policy
func (h *LeafChecklistHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*LeafChecklistQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *LeafChecklistQuery")
	}

	graph := h.graphs.Snapshot()
	propagator := services.NewCostPropagatorWithPolicy(graph, h.options.Policy)

	plan, err := propagator.Evaluate(query.Target, query.Units, h.options.mode(query.Mode))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s: %w", query.Target, err)
	}

	rows := services.NewLeafAggregatorWithPolicy(graph, propagator.Policy()).Aggregate(plan.Lines)

	return &LeafChecklistResponse{Plan: plan, Rows: rows}, nil
}
