package setup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/focusplanner/internal/application/setup"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
)

func TestPlannerOptions_DefaultsToIdentityPolicy(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Planner.DefaultMode = "avg"

	options := setup.PlannerOptions(cfg)

	assert.Equal(t, recipe.YieldModeAverage, options.DefaultMode)
	assert.Equal(t, int64(1_000_000_000), options.SearchCeiling)
	assert.IsType(t, planning.IdentityPolicy{}, options.Policy)
}

func TestPlannerOptions_ProfileBecomesPolicy(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Planner.DefaultMode = "sideways"
	cfg.Profile.FocusCostMultiplier = 0.5

	options := setup.PlannerOptions(cfg)

	assert.Equal(t, recipe.YieldModeSafe, options.DefaultMode)
	policy, ok := options.Policy.(planning.ProfilePolicy)
	assert.True(t, ok)
	assert.Equal(t, 0.5, policy.FocusCostMultiplier)
}
