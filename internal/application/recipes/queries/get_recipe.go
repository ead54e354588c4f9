package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// GetRecipeQuery fetches one recipe
type GetRecipeQuery struct {
	Name string
}

// GetRecipeResponse carries the recipe and the names of recipes that use it
type GetRecipeResponse struct {
	Recipe *recipe.Recipe
	UsedBy []string
}

// GetRecipeHandler handles GetRecipeQuery
type GetRecipeHandler struct {
	graphs recipes.GraphProvider
}

// NewGetRecipeHandler creates a new GetRecipeHandler
func NewGetRecipeHandler(graphs recipes.GraphProvider) *GetRecipeHandler {
	return &GetRecipeHandler{graphs: graphs}
}

// Handle executes the query
func (h *GetRecipeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetRecipeQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRecipeQuery")
	}

	graph := h.graphs.Snapshot()
	r, found := graph.Get(query.Name)
	if !found {
		return nil, &recipe.ErrUnknownMaterial{Name: query.Name}
	}

	var usedBy []string
	for _, other := range graph.Recipes() {
		if _, uses := other.Ingredients[query.Name]; uses {
			usedBy = append(usedBy, other.Name)
		}
	}

	return &GetRecipeResponse{Recipe: r, UsedBy: usedBy}, nil
}
