package recipe

import (
	"sort"
	"sync"
)

// Source is the read side of a recipe graph, all the evaluator needs
type Source interface {
	Get(name string) (*Recipe, bool)
}

// LoadResult reports what a bulk load kept and what it dropped
type LoadResult struct {
	Loaded  int
	Dropped []error
}

// Graph is the in-memory recipe store keyed by unique, case-sensitive name.
//
// It does not check for cycles or dangling ingredient references: drafts may be
// orphaned or temporarily cyclic while being edited. Those problems surface when a
// target is evaluated.
type Graph struct {
	mu      sync.RWMutex
	recipes map[string]*Recipe
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{recipes: make(map[string]*Recipe)}
}

// NewGraphFromRecipes creates a graph holding copies of the given recipes.
// Later entries replace earlier ones with the same name.
func NewGraphFromRecipes(recipes []*Recipe) *Graph {
	g := NewGraph()
	for _, r := range recipes {
		if r == nil || r.Name == "" {
			continue
		}
		g.recipes[r.Name] = r.Clone()
	}
	return g
}

// Load normalizes every record and replaces the whole store in one step.
// Records that fail normalization are dropped and reported, not fatal.
func (g *Graph) Load(records []Record) LoadResult {
	next := make(map[string]*Recipe, len(records))
	result := LoadResult{}

	for _, rec := range records {
		r, err := Normalize(rec)
		if err != nil {
			result.Dropped = append(result.Dropped, err)
			continue
		}
		next[r.Name] = r
	}
	result.Loaded = len(next)

	g.mu.Lock()
	g.recipes = next
	g.mu.Unlock()

	return result
}

// Get returns a copy of the named recipe
func (g *Graph) Get(name string) (*Recipe, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.recipes[name]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Upsert inserts or replaces a recipe and returns its name.
// When oldName is set and differs from the recipe's name, the old entry is removed
// (rename). Renaming onto a different existing recipe is rejected.
func (g *Graph) Upsert(r *Recipe, oldName string) (string, error) {
	if r == nil {
		return "", &ErrInvalidRecipe{Reason: "recipe is required"}
	}
	if err := r.Validate(); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	renaming := oldName != "" && oldName != r.Name
	if renaming {
		if _, exists := g.recipes[r.Name]; exists {
			return "", &ErrInvalidRecipe{Name: r.Name, Reason: "name already in use by another recipe"}
		}
		delete(g.recipes, oldName)
	}

	g.recipes[r.Name] = r.Clone()
	return r.Name, nil
}

// Remove deletes a recipe. Returns false if it did not exist.
func (g *Graph) Remove(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.recipes[name]; !ok {
		return false
	}
	delete(g.recipes, name)
	return true
}

// Len returns the number of recipes
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.recipes)
}

// Names returns all recipe names sorted
func (g *Graph) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.recipes))
	for name := range g.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recipes returns copies of all recipes sorted by name
func (g *Graph) Recipes() []*Recipe {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Recipe, 0, len(g.recipes))
	for _, r := range g.recipes {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Records exports the graph in boundary shape, sorted by name
func (g *Graph) Records() []Record {
	recipes := g.Recipes()
	records := make([]Record, 0, len(recipes))
	for _, r := range recipes {
		records = append(records, ToRecord(r))
	}
	return records
}

// Snapshot returns an independent deep copy for evaluations that must not observe
// concurrent edits
func (g *Graph) Snapshot() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := &Graph{recipes: make(map[string]*Recipe, len(g.recipes))}
	for name, r := range g.recipes {
		snap.recipes[name] = r.Clone()
	}
	return snap
}

// MissingIngredients lists ingredient references with no recipe, keyed by the recipe using them
func (g *Graph) MissingIngredients() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	missing := make(map[string][]string)
	for name, r := range g.recipes {
		for _, ingredient := range r.IngredientNames() {
			if _, ok := g.recipes[ingredient]; !ok {
				missing[name] = append(missing[name], ingredient)
			}
		}
	}
	return missing
}
