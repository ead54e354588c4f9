package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/focusplanner/internal/application/logging"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// ImportRecipesCommand loads a batch of boundary records into the book
type ImportRecipesCommand struct {
	Records []recipe.Record
	Replace bool // replace the whole book instead of merging by name
	Source  string
}

// ImportRecipesResponse reports what was kept and dropped
type ImportRecipesResponse struct {
	Loaded  int
	Dropped []string
	Missing map[string][]string // recipe -> ingredients with no recipe
}

// ImportRecipesHandler handles ImportRecipesCommand
type ImportRecipesHandler struct {
	book *recipes.Book
}

// NewImportRecipesHandler creates a new ImportRecipesHandler
func NewImportRecipesHandler(book *recipes.Book) *ImportRecipesHandler {
	return &ImportRecipesHandler{book: book}
}

// Handle executes the import
func (h *ImportRecipesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportRecipesCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportRecipesCommand")
	}

	result, err := h.book.Import(ctx, cmd.Records, cmd.Replace)
	if err != nil {
		return nil, err
	}

	dropped := make([]string, 0, len(result.Dropped))
	for _, e := range result.Dropped {
		dropped = append(dropped, e.Error())
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "recipes imported", map[string]interface{}{
		"source":  cmd.Source,
		"loaded":  result.Loaded,
		"dropped": len(dropped),
		"replace": cmd.Replace,
	})

	return &ImportRecipesResponse{
		Loaded:  result.Loaded,
		Dropped: dropped,
		Missing: h.book.Graph().MissingIngredients(),
	}, nil
}
