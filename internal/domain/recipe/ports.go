package recipe

import "context"

// RecipeRepository defines the persistence interface for the recipe book
type RecipeRepository interface {
	// Save inserts or replaces a recipe by name
	Save(ctx context.Context, r *Recipe) error

	// Rename moves a stored recipe to a new name and replaces its contents
	Rename(ctx context.Context, oldName string, r *Recipe) error

	// FindByName retrieves a single recipe
	FindByName(ctx context.Context, name string) (*Recipe, error)

	// FindAll retrieves every stored recipe as boundary records
	FindAll(ctx context.Context) ([]Record, error)

	// ReplaceAll atomically swaps the stored recipe book
	ReplaceAll(ctx context.Context, recipes []*Recipe) error

	// Delete removes a recipe by name
	Delete(ctx context.Context, name string) error
}
