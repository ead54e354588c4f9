package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// RemoveRecipeCommand deletes a recipe by name
type RemoveRecipeCommand struct {
	Name string
}

// RemoveRecipeResponse lists recipes that still reference the removed one
type RemoveRecipeResponse struct {
	Name         string
	ReferencedBy []string
}

// RemoveRecipeHandler handles RemoveRecipeCommand
type RemoveRecipeHandler struct {
	book *recipes.Book
}

// NewRemoveRecipeHandler creates a new RemoveRecipeHandler
func NewRemoveRecipeHandler(book *recipes.Book) *RemoveRecipeHandler {
	return &RemoveRecipeHandler{book: book}
}

// Handle removes the recipe. References are reported, not rewritten.
func (h *RemoveRecipeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RemoveRecipeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RemoveRecipeCommand")
	}

	removed, err := h.book.Remove(ctx, cmd.Name)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, &recipe.ErrUnknownMaterial{Name: cmd.Name}
	}

	var referencedBy []string
	for owner, missing := range h.book.Graph().MissingIngredients() {
		for _, name := range missing {
			if name == cmd.Name {
				referencedBy = append(referencedBy, owner)
			}
		}
	}
	sort.Strings(referencedBy)

	return &RemoveRecipeResponse{Name: cmd.Name, ReferencedBy: referencedBy}, nil
}
