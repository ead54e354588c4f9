package steps

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	recipeCommands "github.com/andrescamacho/focusplanner/internal/application/recipes/commands"
	recipeQueries "github.com/andrescamacho/focusplanner/internal/application/recipes/queries"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

func registerRecipeBookSteps(sc *godog.ScenarioContext, pc *plannerContext) {
	// Setup steps
	sc.Step(`^the recipe book contains:$`, pc.theRecipeBookContains)
	sc.Step(`^a mineable recipe "([^"]*)" costing (\d+(?:\.\d+)?) focus with yield outcomes:$`, pc.aMineableRecipeWithYieldOutcomes)
	sc.Step(`^a mineable recipe "([^"]*)" costing (\d+(?:\.\d+)?) focus with yield range (\d+(?:\.\d+)?) to (\d+(?:\.\d+)?)$`, pc.aMineableRecipeWithYieldRange)

	// Action steps
	sc.Step(`^I import the records:$`, pc.iImportTheRecords)
	sc.Step(`^I rename "([^"]*)" to "([^"]*)"$`, pc.iRename)
	sc.Step(`^I remove the recipe "([^"]*)"$`, pc.iRemoveTheRecipe)
	sc.Step(`^I save the recipe "([^"]*)" with focus cost (-?\d+(?:\.\d+)?)$`, pc.iSaveTheRecipeWithFocusCost)

	// Assertion steps
	sc.Step(`^the recipe book should contain (\d+) recipes?$`, pc.theRecipeBookShouldContain)
	sc.Step(`^the recipe "([^"]*)" should exist$`, pc.theRecipeShouldExist)
	sc.Step(`^the recipe "([^"]*)" should not exist$`, pc.theRecipeShouldNotExist)
	sc.Step(`^(\d+) records? should have been dropped$`, pc.recordsShouldHaveBeenDropped)
	sc.Step(`^"([^"]*)" should be reported as missing for "([^"]*)"$`, pc.shouldBeReportedAsMissing)
	sc.Step(`^"([^"]*)" should still need "([^"]*)"$`, pc.shouldStillNeed)
	sc.Step(`^the recipe "([^"]*)" should be a (Mine|Gather|Craft) action$`, pc.theRecipeShouldBeAction)
	sc.Step(`^the edit should be rejected as an invalid recipe$`, pc.theEditShouldBeRejected)
}

// theRecipeBookContains imports a table with columns
// name | focus | time | mineable | yield | ingredients
func (pc *plannerContext) theRecipeBookContains(table *godog.Table) error {
	records, err := recordsFromTable(table)
	if err != nil {
		return err
	}
	return pc.importRecords(records, true)
}

func (pc *plannerContext) iImportTheRecords(table *godog.Table) error {
	records, err := recordsFromTable(table)
	if err != nil {
		return err
	}
	pc.err = pc.importRecords(records, false)
	return nil
}

func (pc *plannerContext) importRecords(records []recipe.Record, replace bool) error {
	response, err := pc.mediator.Send(pc.ctx, &recipeCommands.ImportRecipesCommand{
		Records: records,
		Replace: replace,
		Source:  "feature",
	})
	if err != nil {
		return err
	}

	result := response.(*recipeCommands.ImportRecipesResponse)
	pc.imported = &importOutcome{
		loaded:  result.Loaded,
		dropped: result.Dropped,
		missing: result.Missing,
	}
	return nil
}

func recordsFromTable(table *godog.Table) ([]recipe.Record, error) {
	var records []recipe.Record
	for _, row := range tableRows(table) {
		record := recipe.Record{Name: row["name"]}

		var err error
		if record.FocusCost, err = parseNumber(row["focus"]); err != nil {
			return nil, fmt.Errorf("invalid focus for %s: %w", record.Name, err)
		}
		if record.TimePerCraftSeconds, err = parseNumber(row["time"]); err != nil {
			return nil, fmt.Errorf("invalid time for %s: %w", record.Name, err)
		}
		record.IsMineable = row["mineable"] == "yes" || row["mineable"] == "true"

		if value := row["yield"]; value != "" && value != "-" {
			yield, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid yield for %s: %w", record.Name, err)
			}
			record.Yield = &yield
		}

		if record.Ingredients, err = parseIngredients(row["ingredients"]); err != nil {
			return nil, err
		}

		records = append(records, record)
	}
	return records, nil
}

// aMineableRecipeWithYieldOutcomes adds a leaf with columns quantity | weight
func (pc *plannerContext) aMineableRecipeWithYieldOutcomes(name string, focus float64, table *godog.Table) error {
	outcomes := make(map[string]float64)
	for _, row := range tableRows(table) {
		weight, err := strconv.ParseFloat(row["weight"], 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q: %w", row["weight"], err)
		}
		outcomes[row["quantity"]] = weight
	}

	return pc.upsert(recipe.Record{
		Name:          name,
		FocusCost:     focus,
		IsMineable:    true,
		YieldOutcomes: outcomes,
	}, "")
}

func (pc *plannerContext) aMineableRecipeWithYieldRange(name string, focus, low, high float64) error {
	return pc.upsert(recipe.Record{
		Name:       name,
		FocusCost:  focus,
		IsMineable: true,
		YieldMin:   &low,
		YieldMax:   &high,
	}, "")
}

func (pc *plannerContext) upsert(record recipe.Record, oldName string) error {
	_, err := pc.mediator.Send(pc.ctx, &recipeCommands.UpsertRecipeCommand{
		Record:  record,
		OldName: oldName,
	})
	return err
}

func (pc *plannerContext) iRename(oldName, newName string) error {
	current, err := pc.getRecipe(oldName)
	if err != nil {
		return err
	}

	record := recipe.ToRecord(current)
	record.Name = newName
	pc.err = pc.upsert(record, oldName)
	return nil
}

func (pc *plannerContext) iRemoveTheRecipe(name string) error {
	_, pc.err = pc.mediator.Send(pc.ctx, &recipeCommands.RemoveRecipeCommand{Name: name})
	return nil
}

func (pc *plannerContext) iSaveTheRecipeWithFocusCost(name string, focus float64) error {
	pc.err = pc.upsert(recipe.Record{Name: name, FocusCost: focus}, "")
	return nil
}

func (pc *plannerContext) getRecipe(name string) (*recipe.Recipe, error) {
	response, err := pc.mediator.Send(pc.ctx, &recipeQueries.GetRecipeQuery{Name: name})
	if err != nil {
		return nil, err
	}
	return response.(*recipeQueries.GetRecipeResponse).Recipe, nil
}

func (pc *plannerContext) theRecipeBookShouldContain(expected int) error {
	response, err := pc.mediator.Send(pc.ctx, &recipeQueries.ListRecipesQuery{})
	if err != nil {
		return err
	}

	recipes := response.(*recipeQueries.ListRecipesResponse).Recipes
	if len(recipes) != expected {
		names := make([]string, 0, len(recipes))
		for _, r := range recipes {
			names = append(names, r.Name)
		}
		return fmt.Errorf("expected %d recipes, got %d: %s", expected, len(recipes), strings.Join(names, ", "))
	}

	// The persisted book must agree with the in-memory graph
	stored, err := pc.book.Load(pc.ctx)
	if err != nil {
		return err
	}
	if stored.Loaded != expected {
		return fmt.Errorf("expected %d stored recipes, got %d", expected, stored.Loaded)
	}
	return nil
}

func (pc *plannerContext) theRecipeShouldExist(name string) error {
	if _, err := pc.getRecipe(name); err != nil {
		return fmt.Errorf("expected recipe %s to exist: %w", name, err)
	}
	return nil
}

func (pc *plannerContext) theRecipeShouldNotExist(name string) error {
	_, err := pc.getRecipe(name)
	var unknown *recipe.ErrUnknownMaterial
	if !errors.As(err, &unknown) {
		return fmt.Errorf("expected recipe %s to be absent, got error %v", name, err)
	}
	return nil
}

func (pc *plannerContext) recordsShouldHaveBeenDropped(expected int) error {
	if pc.imported == nil {
		return fmt.Errorf("no import was performed")
	}
	if len(pc.imported.dropped) != expected {
		return fmt.Errorf("expected %d dropped records, got %d: %v", expected, len(pc.imported.dropped), pc.imported.dropped)
	}
	return nil
}

func (pc *plannerContext) shouldBeReportedAsMissing(ingredient, owner string) error {
	if pc.imported == nil {
		return fmt.Errorf("no import was performed")
	}
	missing := pc.imported.missing[owner]
	sort.Strings(missing)
	for _, name := range missing {
		if name == ingredient {
			return nil
		}
	}
	return fmt.Errorf("expected %s to be missing for %s, got %v", ingredient, owner, missing)
}

func (pc *plannerContext) shouldStillNeed(owner, ingredient string) error {
	r, err := pc.getRecipe(owner)
	if err != nil {
		return err
	}
	if _, ok := r.Ingredients[ingredient]; !ok {
		return fmt.Errorf("expected %s to still need %s, ingredients are %v", owner, ingredient, r.IngredientNames())
	}
	return nil
}

func (pc *plannerContext) theRecipeShouldBeAction(name, action string) error {
	r, err := pc.getRecipe(name)
	if err != nil {
		return err
	}
	if string(r.Action()) != action {
		return fmt.Errorf("expected %s to be %s, got %s", name, action, r.Action())
	}
	return nil
}

func (pc *plannerContext) theEditShouldBeRejected() error {
	var invalid *recipe.ErrInvalidRecipe
	if !errors.As(pc.err, &invalid) {
		return fmt.Errorf("expected an invalid recipe error, got %v", pc.err)
	}
	return nil
}
