package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// GormPlanRunRepository implements planning.PlanRunRepository using GORM
type GormPlanRunRepository struct {
	db *gorm.DB
}

// NewGormPlanRunRepository creates a new GORM plan history repository
func NewGormPlanRunRepository(db *gorm.DB) *GormPlanRunRepository {
	return &GormPlanRunRepository{db: db}
}

// Add stores a run
func (r *GormPlanRunRepository) Add(ctx context.Context, run *planning.PlanRun) error {
	model := &PlanRunModel{
		ID:               run.ID,
		Kind:             string(run.Kind),
		Target:           run.Target,
		Mode:             string(run.Mode),
		Quantity:         run.Quantity,
		Budget:           run.Budget,
		TotalFocus:       run.TotalFocus,
		TotalTimeSeconds: run.TotalTimeSeconds,
		LineCount:        run.LineCount,
		CreatedAt:        run.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add plan run: %w", err)
	}
	return nil
}

// FindRecent returns newest runs first. An empty target matches every run; limit <= 0 means 20.
func (r *GormPlanRunRepository) FindRecent(ctx context.Context, target string, limit int) ([]*planning.PlanRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if target != "" {
		query = query.Where("target = ?", target)
	}

	var models []PlanRunModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list plan runs: %w", err)
	}

	runs := make([]*planning.PlanRun, 0, len(models))
	for _, m := range models {
		runs = append(runs, &planning.PlanRun{
			ID:               m.ID,
			Kind:             planning.PlanRunKind(m.Kind),
			Target:           m.Target,
			Mode:             recipe.YieldMode(m.Mode),
			Quantity:         m.Quantity,
			Budget:           m.Budget,
			TotalFocus:       m.TotalFocus,
			TotalTimeSeconds: m.TotalTimeSeconds,
			LineCount:        m.LineCount,
			CreatedAt:        m.CreatedAt,
		})
	}
	return runs, nil
}
