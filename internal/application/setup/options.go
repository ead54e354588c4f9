package setup

import (
	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
)

// PlannerOptions converts config into engine options.
// An unparsable default mode falls back to safe; an identity profile uses raw recipe numbers.
func PlannerOptions(cfg *config.Config) planningQueries.Options {
	mode, err := recipe.ParseYieldMode(cfg.Planner.DefaultMode)
	if err != nil {
		mode = recipe.YieldModeSafe
	}

	var policy planning.Policy = planning.IdentityPolicy{}
	if profile := cfg.Profile.Policy(); !profile.IsIdentity() {
		policy = profile
	}

	return planningQueries.Options{
		DefaultMode:   mode,
		SearchCeiling: cfg.Planner.SearchCeiling,
		Policy:        policy,
	}
}
