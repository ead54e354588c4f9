package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
)

// ListPlanRunsQuery lists recent plan history
type ListPlanRunsQuery struct {
	Target string
	Limit  int
}

// ListPlanRunsResponse holds runs newest first
type ListPlanRunsResponse struct {
	Runs []*planning.PlanRun
}

// ListPlanRunsHandler handles ListPlanRunsQuery
type ListPlanRunsHandler struct {
	runs planning.PlanRunRepository
}

// NewListPlanRunsHandler creates a new ListPlanRunsHandler
func NewListPlanRunsHandler(runs planning.PlanRunRepository) *ListPlanRunsHandler {
	return &ListPlanRunsHandler{runs: runs}
}

// Handle executes the query
func (h *ListPlanRunsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListPlanRunsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPlanRunsQuery")
	}

	runs, err := h.runs.FindRecent(ctx, query.Target, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan history: %w", err)
	}

	return &ListPlanRunsResponse{Runs: runs}, nil
}
