package setup

import (
	"reflect"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	planningCommands "github.com/andrescamacho/focusplanner/internal/application/planning/commands"
	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	recipeCommands "github.com/andrescamacho/focusplanner/internal/application/recipes/commands"
	recipeQueries "github.com/andrescamacho/focusplanner/internal/application/recipes/queries"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	book    *recipes.Book
	graphs  recipes.GraphProvider
	runs    planning.PlanRunRepository
	options planningQueries.Options
}

// NewHandlerRegistry creates a registry. graphs defaults to the book; the daemon passes
// its own snapshot holder so reloads do not race with in-flight evaluations.
// runs may be nil when plan history is not persisted.
func NewHandlerRegistry(
	book *recipes.Book,
	graphs recipes.GraphProvider,
	runs planning.PlanRunRepository,
	options planningQueries.Options,
) *HandlerRegistry {
	if graphs == nil {
		graphs = book
	}
	return &HandlerRegistry{
		book:    book,
		graphs:  graphs,
		runs:    runs,
		options: options,
	}
}

// RegisterRecipeHandlers registers recipe book commands and queries:
//   - ImportRecipesCommand, UpsertRecipeCommand, RemoveRecipeCommand
//   - ListRecipesQuery, GetRecipeQuery
func (r *HandlerRegistry) RegisterRecipeHandlers(m mediator.Mediator) error {
	registrations := []struct {
		request mediator.Request
		handler mediator.RequestHandler
	}{
		{&recipeCommands.ImportRecipesCommand{}, recipeCommands.NewImportRecipesHandler(r.book)},
		{&recipeCommands.UpsertRecipeCommand{}, recipeCommands.NewUpsertRecipeHandler(r.book)},
		{&recipeCommands.RemoveRecipeCommand{}, recipeCommands.NewRemoveRecipeHandler(r.book)},
		{&recipeQueries.ListRecipesQuery{}, recipeQueries.NewListRecipesHandler(r.graphs)},
		{&recipeQueries.GetRecipeQuery{}, recipeQueries.NewGetRecipeHandler(r.graphs)},
	}

	for _, reg := range registrations {
		if err := m.Register(reflect.TypeOf(reg.request), reg.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPlanningHandlers registers the engine queries and, when a history
// repository is configured, the plan history handlers
func (r *HandlerRegistry) RegisterPlanningHandlers(m mediator.Mediator) error {
	if err := mediator.RegisterHandler[*planningQueries.EvaluatePlanQuery](m,
		planningQueries.NewEvaluatePlanHandler(r.graphs, r.options)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*planningQueries.MaxCraftableQuery](m,
		planningQueries.NewMaxCraftableHandler(r.graphs, r.options)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*planningQueries.LeafChecklistQuery](m,
		planningQueries.NewLeafChecklistHandler(r.graphs, r.options)); err != nil {
		return err
	}

	if r.runs == nil {
		return nil
	}

	if err := mediator.RegisterHandler[*planningQueries.ListPlanRunsQuery](m,
		planningQueries.NewListPlanRunsHandler(r.runs)); err != nil {
		return err
	}
	return mediator.RegisterHandler[*planningCommands.RecordPlanRunCommand](m,
		planningCommands.NewRecordPlanRunHandler(r.runs))
}

// CreateConfiguredMediator creates a mediator with every handler registered and the
// given middlewares installed outermost first
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()

	for _, mw := range middlewares {
		m.RegisterMiddleware(mw)
	}

	if err := r.RegisterRecipeHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterPlanningHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
