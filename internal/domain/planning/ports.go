package planning

import (
	"context"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// PlanRunRepository defines the persistence interface for plan history
type PlanRunRepository interface {
	// Add stores a run
	Add(ctx context.Context, run *PlanRun) error

	// FindRecent returns the newest runs first, optionally filtered by target
	FindRecent(ctx context.Context, target string, limit int) ([]*PlanRun, error)
}

// Planner answers plan questions, either in-process or through the planner daemon.
// An empty mode means the configured default.
type Planner interface {
	Evaluate(ctx context.Context, target string, units float64, mode recipe.YieldMode) (*Plan, error)
	MaxCraftable(ctx context.Context, target string, budget float64, mode recipe.YieldMode) (*BudgetResult, error)
	Checklist(ctx context.Context, target string, units float64, mode recipe.YieldMode) (*Plan, []LeafRow, error)
}
