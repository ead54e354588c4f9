package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// UpsertRecipeCommand creates, replaces or renames one recipe
type UpsertRecipeCommand struct {
	Record  recipe.Record
	OldName string
}

// UpsertRecipeResponse carries the stored name
type UpsertRecipeResponse struct {
	Name    string
	Renamed bool
}

// UpsertRecipeHandler handles UpsertRecipeCommand
type UpsertRecipeHandler struct {
	book *recipes.Book
}

// NewUpsertRecipeHandler creates a new UpsertRecipeHandler
func NewUpsertRecipeHandler(book *recipes.Book) *UpsertRecipeHandler {
	return &UpsertRecipeHandler{book: book}
}

// Handle validates the record strictly, then writes it through the book
func (h *UpsertRecipeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*UpsertRecipeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpsertRecipeCommand")
	}

	if err := recipe.ValidateRecord(cmd.Record); err != nil {
		return nil, err
	}

	r, err := recipe.Normalize(cmd.Record)
	if err != nil {
		return nil, err
	}

	name, err := h.book.Upsert(ctx, r, cmd.OldName)
	if err != nil {
		return nil, err
	}

	return &UpsertRecipeResponse{
		Name:    name,
		Renamed: cmd.OldName != "" && cmd.OldName != name,
	}, nil
}
