package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
)

// RecordPlanRunCommand stores a history entry for an evaluation or a budget search.
// Exactly one of Plan and Budget is set.
type RecordPlanRunCommand struct {
	Plan   *planning.Plan
	Budget *planning.BudgetResult
}

// RecordPlanRunResponse carries the stored run
type RecordPlanRunResponse struct {
	Run *planning.PlanRun
}

// RecordPlanRunHandler handles RecordPlanRunCommand
type RecordPlanRunHandler struct {
	runs  planning.PlanRunRepository
	clock func() time.Time
}

// NewRecordPlanRunHandler creates a new RecordPlanRunHandler
func NewRecordPlanRunHandler(runs planning.PlanRunRepository) *RecordPlanRunHandler {
	return &RecordPlanRunHandler{runs: runs, clock: time.Now}
}

// Handle executes the command
func (h *RecordPlanRunHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RecordPlanRunCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RecordPlanRunCommand")
	}

	var run *planning.PlanRun
	switch {
	case cmd.Plan != nil && cmd.Budget == nil:
		run = planning.NewEvaluateRun(cmd.Plan, h.clock())
	case cmd.Budget != nil && cmd.Plan == nil:
		run = planning.NewBudgetRun(cmd.Budget, h.clock())
	default:
		return nil, fmt.Errorf("exactly one of plan or budget result is required")
	}

	if err := h.runs.Add(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record plan run: %w", err)
	}

	return &RecordPlanRunResponse{Run: run}, nil
}
