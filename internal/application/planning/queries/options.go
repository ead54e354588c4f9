package queries

import (
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// Options are the engine settings shared by every planning handler
type Options struct {
	DefaultMode   recipe.YieldMode
	SearchCeiling int64
	Policy        planning.Policy
}

func (o Options) mode(requested recipe.YieldMode) recipe.YieldMode {
	if requested != "" {
		return requested
	}
	if o.DefaultMode != "" {
		return o.DefaultMode
	}
	return recipe.YieldModeSafe
}
