package config

import (
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
)

// PlannerConfig holds engine defaults
type PlannerConfig struct {
	// Yield mode used when a command does not pass one: safe, average, optimistic
	DefaultMode string `mapstructure:"default_mode" validate:"required,yieldmode"`

	// Upper bound for the max-craftable search
	SearchCeiling int64 `mapstructure:"search_ceiling" validate:"min=1"`

	// Recipe file imported by the daemon on start when the book is empty
	RecipeFile string `mapstructure:"recipe_file"`
}

// ProfileConfig holds player bonuses applied on top of recipe numbers.
// Zero multipliers mean "unchanged".
type ProfileConfig struct {
	FocusCostMultiplier float64            `mapstructure:"focus_cost_multiplier" validate:"min=0"`
	TimeMultiplier      float64            `mapstructure:"time_multiplier" validate:"min=0"`
	YieldBonusPercent   float64            `mapstructure:"yield_bonus_percent" validate:"min=-100"`
	MaterialYieldBonus  map[string]float64 `mapstructure:"material_yield_bonus"`
}

// Policy converts the profile into the engine's cost policy
func (p ProfileConfig) Policy() planning.ProfilePolicy {
	var bonuses map[string]float64
	if len(p.MaterialYieldBonus) > 0 {
		bonuses = make(map[string]float64, len(p.MaterialYieldBonus))
		for name, bonus := range p.MaterialYieldBonus {
			bonuses[name] = bonus
		}
	}
	return planning.ProfilePolicy{
		FocusCostMultiplier:       p.FocusCostMultiplier,
		TimeMultiplier:            p.TimeMultiplier,
		YieldBonusPercent:         p.YieldBonusPercent,
		MaterialYieldBonusPercent: bonuses,
	}
}
