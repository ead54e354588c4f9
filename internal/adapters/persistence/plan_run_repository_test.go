package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/adapters/persistence"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/test/helpers"
)

func TestPlanRunRepository_FindRecentNewestFirst(t *testing.T) {
	// Arrange
	repo := persistence.NewGormPlanRunRepository(helpers.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	first := planning.NewEvaluateRun(&planning.Plan{Target: "Charcoal", Mode: recipe.YieldModeSafe, UnitsRequested: 1}, base)
	second := planning.NewBudgetRun(&planning.BudgetResult{Target: "Burning Powder", Mode: recipe.YieldModeSafe, Budget: 100, Quantity: 75, FocusUsed: 100}, base.Add(time.Minute))
	third := planning.NewEvaluateRun(&planning.Plan{Target: "Charcoal", Mode: recipe.YieldModeAverage, UnitsRequested: 3}, base.Add(2*time.Minute))

	for _, run := range []*planning.PlanRun{first, second, third} {
		require.NoError(t, repo.Add(ctx, run))
	}

	// Act
	all, err := repo.FindRecent(ctx, "", 0)
	require.NoError(t, err)
	charcoal, err := repo.FindRecent(ctx, "Charcoal", 1)
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, planning.PlanRunBudget, all[1].Kind)
	assert.Equal(t, 75.0, all[1].Quantity)

	require.Len(t, charcoal, 1)
	assert.Equal(t, third.ID, charcoal[0].ID)
	assert.Equal(t, recipe.YieldModeAverage, charcoal[0].Mode)
}
