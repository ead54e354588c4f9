package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// ListRecipesQuery lists the book, optionally filtered by a case-insensitive name substring
type ListRecipesQuery struct {
	Filter string
}

// RecipeSummary is one row of the listing
type RecipeSummary struct {
	Name        string
	Action      recipe.Action
	FocusCost   float64
	Yield       string
	Ingredients int
	Missing     []string
}

// ListRecipesResponse holds the listing sorted by name
type ListRecipesResponse struct {
	Recipes []RecipeSummary
}

// ListRecipesHandler handles ListRecipesQuery
type ListRecipesHandler struct {
	graphs recipes.GraphProvider
}

// NewListRecipesHandler creates a new ListRecipesHandler
func NewListRecipesHandler(graphs recipes.GraphProvider) *ListRecipesHandler {
	return &ListRecipesHandler{graphs: graphs}
}

// Handle executes the query
func (h *ListRecipesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListRecipesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListRecipesQuery")
	}

	graph := h.graphs.Snapshot()
	missing := graph.MissingIngredients()
	filter := strings.ToLower(strings.TrimSpace(query.Filter))

	summaries := make([]RecipeSummary, 0, graph.Len())
	for _, r := range graph.Recipes() {
		if filter != "" && !strings.Contains(strings.ToLower(r.Name), filter) {
			continue
		}
		summaries = append(summaries, RecipeSummary{
			Name:        r.Name,
			Action:      r.Action(),
			FocusCost:   r.FocusCost,
			Yield:       r.Yield.String(),
			Ingredients: len(r.Ingredients),
			Missing:     missing[r.Name],
		})
	}

	return &ListRecipesResponse{Recipes: summaries}, nil
}
