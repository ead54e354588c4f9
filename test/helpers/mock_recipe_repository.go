package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// MockRecipeRepository is an in-memory recipe.RecipeRepository with failure injection
type MockRecipeRepository struct {
	mu      sync.Mutex
	recipes map[string]*recipe.Recipe
	err     error
	writes  int
}

// NewMockRecipeRepository creates an empty mock repository
func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{recipes: make(map[string]*recipe.Recipe)}
}

// Seed stores records directly, bypassing failure injection
func (m *MockRecipeRepository) Seed(records ...recipe.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		if r, err := recipe.Normalize(rec); err == nil {
			m.recipes[r.Name] = r
		}
	}
}

// FailWith makes every following call return err (nil clears it)
func (m *MockRecipeRepository) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Writes counts successful mutating calls
func (m *MockRecipeRepository) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Stored returns the stored names
func (m *MockRecipeRepository) Stored() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.recipes))
	for name := range m.recipes {
		names = append(names, name)
	}
	return names
}

func (m *MockRecipeRepository) Save(ctx context.Context, r *recipe.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recipes[r.Name] = r.Clone()
	m.writes++
	return nil
}

func (m *MockRecipeRepository) Rename(ctx context.Context, oldName string, r *recipe.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.recipes, oldName)
	m.recipes[r.Name] = r.Clone()
	m.writes++
	return nil
}

func (m *MockRecipeRepository) FindByName(ctx context.Context, name string) (*recipe.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.recipes[name]
	if !ok {
		return nil, &recipe.ErrUnknownMaterial{Name: name}
	}
	return r.Clone(), nil
}

func (m *MockRecipeRepository) FindAll(ctx context.Context) ([]recipe.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	records := make([]recipe.Record, 0, len(m.recipes))
	for _, r := range m.recipes {
		records = append(records, recipe.ToRecord(r))
	}
	recipe.SortRecords(records)
	return records, nil
}

func (m *MockRecipeRepository) ReplaceAll(ctx context.Context, recipes []*recipe.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recipes = make(map[string]*recipe.Recipe, len(recipes))
	for _, r := range recipes {
		m.recipes[r.Name] = r.Clone()
	}
	m.writes++
	return nil
}

func (m *MockRecipeRepository) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.recipes, name)
	m.writes++
	return nil
}
