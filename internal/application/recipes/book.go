package recipes

import (
	"context"
	"fmt"

	"github.com/andrescamacho/focusplanner/internal/application/logging"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// GraphProvider hands out a stable graph for one evaluation
type GraphProvider interface {
	Snapshot() *recipe.Graph
}

// Book keeps the in-memory recipe graph and its repository in step.
// Writes go to the repository first and reach the graph only when they succeed.
// A nil repository gives a purely in-memory book.
type Book struct {
	graph *recipe.Graph
	repo  recipe.RecipeRepository
}

// NewBook creates an empty book backed by repo
func NewBook(repo recipe.RecipeRepository) *Book {
	return &Book{
		graph: recipe.NewGraph(),
		repo:  repo,
	}
}

// NewBookFromGraph wraps an existing graph
func NewBookFromGraph(graph *recipe.Graph, repo recipe.RecipeRepository) *Book {
	return &Book{graph: graph, repo: repo}
}

// Graph returns the live graph
func (b *Book) Graph() *recipe.Graph {
	return b.graph
}

// Snapshot returns a deep copy safe to evaluate while the book is edited
func (b *Book) Snapshot() *recipe.Graph {
	return b.graph.Snapshot()
}

// Load replaces the graph with the repository contents
func (b *Book) Load(ctx context.Context) (recipe.LoadResult, error) {
	if b.repo == nil {
		return recipe.LoadResult{Loaded: b.graph.Len()}, nil
	}

	records, err := b.repo.FindAll(ctx)
	if err != nil {
		return recipe.LoadResult{}, fmt.Errorf("failed to load recipe book: %w", err)
	}

	result := b.graph.Load(records)
	logDropped(ctx, result)
	return result, nil
}

// Import loads records into the book. With replace the book becomes exactly the
// valid records; otherwise records are merged by name over the current contents.
func (b *Book) Import(ctx context.Context, records []recipe.Record, replace bool) (recipe.LoadResult, error) {
	merged := records
	if !replace {
		merged = mergeRecords(b.graph.Records(), records)
	}

	staged := recipe.NewGraph()
	result := staged.Load(merged)
	logDropped(ctx, result)

	if b.repo != nil {
		if err := b.repo.ReplaceAll(ctx, staged.Recipes()); err != nil {
			return recipe.LoadResult{}, fmt.Errorf("failed to persist imported recipes: %w", err)
		}
	}

	b.graph.Load(staged.Records())
	return result, nil
}

// Upsert validates and stores a recipe, renaming oldName when it differs
func (b *Book) Upsert(ctx context.Context, r *recipe.Recipe, oldName string) (string, error) {
	// dry run against a copy so the repository never sees a rejected edit
	if _, err := b.graph.Snapshot().Upsert(r, oldName); err != nil {
		return "", err
	}

	if b.repo != nil {
		var err error
		if oldName != "" && oldName != r.Name {
			err = b.repo.Rename(ctx, oldName, r)
		} else {
			err = b.repo.Save(ctx, r)
		}
		if err != nil {
			return "", fmt.Errorf("failed to persist recipe: %w", err)
		}
	}

	return b.graph.Upsert(r, oldName)
}

// Remove deletes a recipe. It reports false when the name was not in the book.
func (b *Book) Remove(ctx context.Context, name string) (bool, error) {
	if _, ok := b.graph.Get(name); !ok {
		return false, nil
	}

	if b.repo != nil {
		if err := b.repo.Delete(ctx, name); err != nil {
			return false, fmt.Errorf("failed to delete recipe: %w", err)
		}
	}

	return b.graph.Remove(name), nil
}

func mergeRecords(current, incoming []recipe.Record) []recipe.Record {
	byName := make(map[string]int, len(current))
	merged := make([]recipe.Record, 0, len(current)+len(incoming))
	for _, rec := range current {
		byName[rec.Name] = len(merged)
		merged = append(merged, rec)
	}
	for _, rec := range incoming {
		if idx, ok := byName[rec.Name]; ok {
			merged[idx] = rec
			continue
		}
		byName[rec.Name] = len(merged)
		merged = append(merged, rec)
	}
	return merged
}

func logDropped(ctx context.Context, result recipe.LoadResult) {
	logger := logging.LoggerFromContext(ctx)
	for _, err := range result.Dropped {
		logger.Log(logging.LevelWarn, "recipe record dropped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
