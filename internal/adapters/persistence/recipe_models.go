package persistence

import (
	"time"
)

// RecipeModel represents the recipes table.
// Yield columns are nullable; exactly one representation is written, named by yield_type.
type RecipeModel struct {
	Name                string    `gorm:"column:name;primaryKey"`
	FocusCost           float64   `gorm:"column:focus_cost;not null;default:0"`
	TimePerCraftSeconds float64   `gorm:"column:time_per_craft_seconds;not null;default:0"`
	IsMineable          bool      `gorm:"column:is_mineable;not null;default:false"`
	YieldType           string    `gorm:"column:yield_type;not null"`
	YieldFixed          *float64  `gorm:"column:yield_fixed"`
	YieldMin            *float64  `gorm:"column:yield_min"`
	YieldMax            *float64  `gorm:"column:yield_max"`
	MinChance           *float64  `gorm:"column:min_chance"`
	MaxChance           *float64  `gorm:"column:max_chance"`
	YieldOutcomes       string    `gorm:"column:yield_outcomes;type:text"` // JSON object as text
	Ingredients         string    `gorm:"column:ingredients;type:text"`    // JSON object as text
	UpdatedAt           time.Time `gorm:"column:updated_at;not null"`
}

func (RecipeModel) TableName() string {
	return "recipes"
}

// PlanRunModel represents the plan_runs table
type PlanRunModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	Kind             string    `gorm:"column:kind;not null"`
	Target           string    `gorm:"column:target;not null;index"`
	Mode             string    `gorm:"column:mode;not null"`
	Quantity         float64   `gorm:"column:quantity;not null"`
	Budget           float64   `gorm:"column:budget;not null;default:0"`
	TotalFocus       float64   `gorm:"column:total_focus;not null"`
	TotalTimeSeconds float64   `gorm:"column:total_time_seconds;not null;default:0"`
	LineCount        int       `gorm:"column:line_count;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;index"`
}

func (PlanRunModel) TableName() string {
	return "plan_runs"
}
