package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// GormRecipeRepository implements recipe.RecipeRepository using GORM
type GormRecipeRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormRecipeRepository creates a new GORM recipe repository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db, now: time.Now}
}

// Save inserts or replaces a recipe by name
func (r *GormRecipeRepository) Save(ctx context.Context, rec *recipe.Recipe) error {
	model, err := r.recipeToModel(rec)
	if err != nil {
		return fmt.Errorf("failed to convert recipe to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", rec.Name, err)
	}
	return nil
}

// Rename moves oldName to rec.Name in one transaction
func (r *GormRecipeRepository) Rename(ctx context.Context, oldName string, rec *recipe.Recipe) error {
	model, err := r.recipeToModel(rec)
	if err != nil {
		return fmt.Errorf("failed to convert recipe to model: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if oldName != "" && oldName != rec.Name {
			if err := tx.Where("name = ?", oldName).Delete(&RecipeModel{}).Error; err != nil {
				return fmt.Errorf("failed to remove recipe %s: %w", oldName, err)
			}
		}
		if err := tx.Save(model).Error; err != nil {
			return fmt.Errorf("failed to save recipe %s: %w", rec.Name, err)
		}
		return nil
	})
}

// FindByName retrieves a single recipe
func (r *GormRecipeRepository) FindByName(ctx context.Context, name string) (*recipe.Recipe, error) {
	var model RecipeModel
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &recipe.ErrUnknownMaterial{Name: name}
		}
		return nil, fmt.Errorf("failed to find recipe: %w", result.Error)
	}

	rec, err := r.modelToRecord(&model)
	if err != nil {
		return nil, err
	}
	return recipe.Normalize(rec)
}

// FindAll returns every stored recipe ordered by name
func (r *GormRecipeRepository) FindAll(ctx context.Context) ([]recipe.Record, error) {
	var models []RecipeModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	records := make([]recipe.Record, 0, len(models))
	for i := range models {
		rec, err := r.modelToRecord(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReplaceAll swaps the whole book inside one transaction
func (r *GormRecipeRepository) ReplaceAll(ctx context.Context, recipes []*recipe.Recipe) error {
	models := make([]*RecipeModel, 0, len(recipes))
	for _, rec := range recipes {
		model, err := r.recipeToModel(rec)
		if err != nil {
			return fmt.Errorf("failed to convert recipe %s: %w", rec.Name, err)
		}
		models = append(models, model)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&RecipeModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipes: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(models, 100).Error; err != nil {
			return fmt.Errorf("failed to insert recipes: %w", err)
		}
		return nil
	})
}

// Delete removes a recipe by name. Deleting a missing recipe is not an error.
func (r *GormRecipeRepository) Delete(ctx context.Context, name string) error {
	if err := r.db.WithContext(ctx).Where("name = ?", name).Delete(&RecipeModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", name, err)
	}
	return nil
}

func (r *GormRecipeRepository) recipeToModel(rec *recipe.Recipe) (*RecipeModel, error) {
	record := recipe.ToRecord(rec)

	model := &RecipeModel{
		Name:                record.Name,
		FocusCost:           record.FocusCost,
		TimePerCraftSeconds: record.TimePerCraftSeconds,
		IsMineable:          record.IsMineable,
		YieldType:           record.YieldType,
		YieldFixed:          record.Yield,
		YieldMin:            record.YieldMin,
		YieldMax:            record.YieldMax,
		MinChance:           record.MinChance,
		MaxChance:           record.MaxChance,
		YieldOutcomes:       "{}",
		Ingredients:         "{}",
		UpdatedAt:           r.now(),
	}

	if len(record.YieldOutcomes) > 0 {
		data, err := json.Marshal(record.YieldOutcomes)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal yield outcomes: %w", err)
		}
		model.YieldOutcomes = string(data)
	}
	if len(record.Ingredients) > 0 {
		data, err := json.Marshal(record.Ingredients)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ingredients: %w", err)
		}
		model.Ingredients = string(data)
	}

	return model, nil
}

func (r *GormRecipeRepository) modelToRecord(model *RecipeModel) (recipe.Record, error) {
	rec := recipe.Record{
		Name:                model.Name,
		FocusCost:           model.FocusCost,
		TimePerCraftSeconds: model.TimePerCraftSeconds,
		IsMineable:          model.IsMineable,
		YieldType:           model.YieldType,
		Yield:               model.YieldFixed,
		YieldMin:            model.YieldMin,
		YieldMax:            model.YieldMax,
		MinChance:           model.MinChance,
		MaxChance:           model.MaxChance,
	}

	if model.YieldOutcomes != "" && model.YieldOutcomes != "{}" {
		if err := json.Unmarshal([]byte(model.YieldOutcomes), &rec.YieldOutcomes); err != nil {
			return rec, fmt.Errorf("failed to parse yield outcomes of %s: %w", model.Name, err)
		}
	}
	if model.Ingredients != "" && model.Ingredients != "{}" {
		if err := json.Unmarshal([]byte(model.Ingredients), &rec.Ingredients); err != nil {
			return rec, fmt.Errorf("failed to parse ingredients of %s: %w", model.Name, err)
		}
	}

	return rec, nil
}
