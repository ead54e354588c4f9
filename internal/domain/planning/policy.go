package planning

import (
	"math"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// Policy adjusts raw recipe numbers before they enter cost accounting.
// It is how player profile bonuses reach the engine without forking it.
type Policy interface {
	FocusCost(r *recipe.Recipe) float64
	TimePerCraft(r *recipe.Recipe) float64
	Yield(r *recipe.Recipe, base float64) float64
}

// IdentityPolicy uses recipe numbers unchanged
type IdentityPolicy struct{}

func (IdentityPolicy) FocusCost(r *recipe.Recipe) float64            { return r.FocusCost }
func (IdentityPolicy) TimePerCraft(r *recipe.Recipe) float64         { return r.TimePerCraftSeconds }
func (IdentityPolicy) Yield(_ *recipe.Recipe, base float64) float64 { return base }

// ProfilePolicy applies profile multipliers.
//
// Multipliers of 0 are treated as "unset" (1.0). Yield bonuses are percentages added on
// top of the base yield: 10 means +10%. A material-specific bonus replaces the global one.
type ProfilePolicy struct {
	FocusCostMultiplier       float64
	TimeMultiplier            float64
	YieldBonusPercent         float64
	MaterialYieldBonusPercent map[string]float64
}

// FocusCost scales the recipe's focus cost
func (p ProfilePolicy) FocusCost(r *recipe.Recipe) float64 {
	return nonNegative(r.FocusCost * multiplier(p.FocusCostMultiplier))
}

// TimePerCraft scales the recipe's craft time
func (p ProfilePolicy) TimePerCraft(r *recipe.Recipe) float64 {
	return nonNegative(r.TimePerCraftSeconds * multiplier(p.TimeMultiplier))
}

// Yield applies the material or global yield bonus
func (p ProfilePolicy) Yield(r *recipe.Recipe, base float64) float64 {
	bonus := p.YieldBonusPercent
	if specific, ok := p.MaterialYieldBonusPercent[r.Name]; ok {
		bonus = specific
	}
	return nonNegative(base * (1 + bonus/100))
}

// IsIdentity reports whether the profile changes nothing
func (p ProfilePolicy) IsIdentity() bool {
	if multiplier(p.FocusCostMultiplier) != 1 || multiplier(p.TimeMultiplier) != 1 || p.YieldBonusPercent != 0 {
		return false
	}
	for _, bonus := range p.MaterialYieldBonusPercent {
		if bonus != 0 {
			return false
		}
	}
	return true
}

func multiplier(m float64) float64 {
	if m == 0 || math.IsNaN(m) {
		return 1
	}
	return m
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
