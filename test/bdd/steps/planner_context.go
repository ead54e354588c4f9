package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/focusplanner/internal/adapters/persistence"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/application/setup"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/test/helpers"
)

// plannerContext is the state shared by every planner scenario
type plannerContext struct {
	ctx      context.Context
	book     *recipes.Book
	mediator mediator.Mediator

	plan   *planning.Plan
	budget *planning.BudgetResult
	rows   []planning.LeafRow
	err    error

	// lastBudget and lastMode remember the most recent search for property checks
	lastBudget float64
	lastMode   recipe.YieldMode

	imported *importOutcome
}

type importOutcome struct {
	loaded  int
	dropped []string
	missing map[string][]string
}

func (pc *plannerContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	pc.ctx = context.Background()
	pc.book = recipes.NewBook(persistence.NewGormRecipeRepository(helpers.SharedTestDB))
	registry := setup.NewHandlerRegistry(
		pc.book,
		nil,
		persistence.NewGormPlanRunRepository(helpers.SharedTestDB),
		planningQueries.Options{
			DefaultMode:   recipe.YieldModeSafe,
			SearchCeiling: 1_000_000_000,
			Policy:        planning.IdentityPolicy{},
		},
	)

	med, err := registry.CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	pc.mediator = med

	pc.plan = nil
	pc.budget = nil
	pc.rows = nil
	pc.err = nil
	pc.lastBudget = 0
	pc.lastMode = ""
	pc.imported = nil
	return nil
}

// evaluate runs an evaluation through the mediator without touching scenario state
func (pc *plannerContext) evaluate(target string, units float64, mode recipe.YieldMode) (*planning.Plan, error) {
	response, err := pc.mediator.Send(pc.ctx, &planningQueries.EvaluatePlanQuery{
		Target: target,
		Units:  units,
		Mode:   mode,
	})
	if err != nil {
		return nil, err
	}
	return response.(*planningQueries.EvaluatePlanResponse).Plan, nil
}

// InitializePlannerScenario registers every planner step definition
func InitializePlannerScenario(sc *godog.ScenarioContext) {
	pc := &plannerContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		return ctx, pc.reset()
	})

	registerRecipeBookSteps(sc, pc)
	registerYieldSteps(sc, pc)
	registerPlanningSteps(sc, pc)
	registerPropertySteps(sc, pc)
}

// Table helpers

// tableRows converts a table with a header row into one map per data row
func tableRows(table *godog.Table) []map[string]string {
	if len(table.Rows) == 0 {
		return nil
	}

	header := table.Rows[0].Cells
	rows := make([]map[string]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		rows = append(rows, rowValues(header, row))
	}
	return rows
}

func rowValues(header []*messages.PickleTableCell, row *messages.PickleTableRow) map[string]string {
	values := make(map[string]string, len(header))
	for i, cell := range row.Cells {
		if i < len(header) {
			values[strings.TrimSpace(header[i].Value)] = strings.TrimSpace(cell.Value)
		}
	}
	return values
}

func parseNumber(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

// parseMode accepts an empty string for "the configured default"
func parseMode(value string) (recipe.YieldMode, error) {
	if value == "" {
		return "", nil
	}
	return recipe.ParseYieldMode(value)
}

// parseIngredients parses "Charcoal:1, Logs:28"
func parseIngredients(value string) (map[string]float64, error) {
	if strings.TrimSpace(value) == "" || value == "-" {
		return nil, nil
	}

	ingredients := make(map[string]float64)
	for _, part := range strings.Split(value, ",") {
		name, qty, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid ingredient %q: expected NAME:QTY", part)
		}
		quantity, err := strconv.ParseFloat(strings.TrimSpace(qty), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ingredient quantity %q: %w", part, err)
		}
		ingredients[strings.TrimSpace(name)] = quantity
	}
	return ingredients, nil
}

func floatsEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
