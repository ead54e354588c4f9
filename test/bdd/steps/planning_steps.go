package steps

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

func registerPlanningSteps(sc *godog.ScenarioContext, pc *plannerContext) {
	// Action steps
	sc.Step(`^I evaluate (-?\d+(?:\.\d+)?) units? of "([^"]*)"$`, pc.iEvaluateUnitsOf)
	sc.Step(`^I evaluate (-?\d+(?:\.\d+)?) units? of "([^"]*)" in (\w+) mode$`, pc.iEvaluateUnitsOfInMode)
	sc.Step(`^I search the max craftable "([^"]*)" with a budget of (-?\d+(?:\.\d+)?) focus$`, pc.iSearchMaxCraftable)
	sc.Step(`^I search the max craftable "([^"]*)" with a budget of (-?\d+(?:\.\d+)?) focus in (\w+) mode$`, pc.iSearchMaxCraftableInMode)
	sc.Step(`^I build the checklist for (-?\d+(?:\.\d+)?) units? of "([^"]*)"$`, pc.iBuildTheChecklist)

	// Plan assertions
	sc.Step(`^the total focus should be (-?\d+(?:\.\d+)?)$`, pc.theTotalFocusShouldBe)
	sc.Step(`^the total time should be (-?\d+(?:\.\d+)?) seconds$`, pc.theTotalTimeShouldBe)
	sc.Step(`^the plan should have (\d+) lines?$`, pc.thePlanShouldHaveLineCount)
	sc.Step(`^the plan should have lines:$`, pc.thePlanShouldHaveLines)
	sc.Step(`^the plan mode should be (\w+)$`, pc.thePlanModeShouldBe)

	// Error assertions
	sc.Step(`^the evaluation should fail with an unknown material "([^"]*)"$`, pc.shouldFailWithUnknownMaterial)
	sc.Step(`^the evaluation should fail with a cycle through "([^"]*)"$`, pc.shouldFailWithCycle)
	sc.Step(`^the evaluation should fail with zero effective yield for "([^"]*)"$`, pc.shouldFailWithZeroYield)
	sc.Step(`^the evaluation should fail with an invalid quantity$`, pc.shouldFailWithInvalidQuantity)
	sc.Step(`^the evaluation should succeed$`, pc.theEvaluationShouldSucceed)

	// Budget assertions
	sc.Step(`^the craftable quantity should be (\d+)$`, pc.theCraftableQuantityShouldBe)
	sc.Step(`^the search should report an unbounded quantity$`, pc.theSearchShouldBeUnbounded)
	sc.Step(`^the focus used should be (-?\d+(?:\.\d+)?)$`, pc.theFocusUsedShouldBe)

	// Checklist assertions
	sc.Step(`^the checklist should contain:$`, pc.theChecklistShouldContain)
	sc.Step(`^the checklist should be empty$`, pc.theChecklistShouldBeEmpty)
}

func (pc *plannerContext) iEvaluateUnitsOf(units float64, target string) error {
	return pc.iEvaluateUnitsOfInMode(units, target, "")
}

func (pc *plannerContext) iEvaluateUnitsOfInMode(units float64, target, modeName string) error {
	mode, err := parseMode(modeName)
	if err != nil {
		return err
	}
	pc.plan, pc.err = pc.evaluate(target, units, mode)
	return nil
}

func (pc *plannerContext) iSearchMaxCraftable(target string, budget float64) error {
	return pc.iSearchMaxCraftableInMode(target, budget, "")
}

func (pc *plannerContext) iSearchMaxCraftableInMode(target string, budget float64, modeName string) error {
	mode, err := parseMode(modeName)
	if err != nil {
		return err
	}

	pc.lastBudget = budget
	pc.lastMode = mode

	response, err := pc.mediator.Send(pc.ctx, &planningQueries.MaxCraftableQuery{
		Target: target,
		Budget: budget,
		Mode:   mode,
	})
	if err != nil {
		pc.budget, pc.err = nil, err
		return nil
	}
	pc.budget = response.(*planningQueries.MaxCraftableResponse).Result
	pc.err = nil
	return nil
}

func (pc *plannerContext) iBuildTheChecklist(units float64, target string) error {
	response, err := pc.mediator.Send(pc.ctx, &planningQueries.LeafChecklistQuery{
		Target: target,
		Units:  units,
	})
	if err != nil {
		pc.rows, pc.err = nil, err
		return nil
	}

	result := response.(*planningQueries.LeafChecklistResponse)
	pc.plan = result.Plan
	pc.rows = result.Rows
	pc.err = nil
	return nil
}

func (pc *plannerContext) requirePlan() error {
	if pc.err != nil {
		return fmt.Errorf("evaluation failed: %w", pc.err)
	}
	if pc.plan == nil {
		return fmt.Errorf("no plan was evaluated")
	}
	return nil
}

func (pc *plannerContext) theTotalFocusShouldBe(expected float64) error {
	if err := pc.requirePlan(); err != nil {
		return err
	}
	if !floatsEqual(pc.plan.TotalFocus, expected) {
		return fmt.Errorf("expected total focus %v, got %v", expected, pc.plan.TotalFocus)
	}
	return nil
}

func (pc *plannerContext) theTotalTimeShouldBe(expected float64) error {
	if err := pc.requirePlan(); err != nil {
		return err
	}
	if actual := pc.plan.TotalTimeSeconds(); !floatsEqual(actual, expected) {
		return fmt.Errorf("expected total time %vs, got %vs", expected, actual)
	}
	return nil
}

func (pc *plannerContext) thePlanShouldHaveLineCount(expected int) error {
	if err := pc.requirePlan(); err != nil {
		return err
	}
	if len(pc.plan.Lines) != expected {
		return fmt.Errorf("expected %d lines, got %d", expected, len(pc.plan.Lines))
	}
	return nil
}

// thePlanShouldHaveLines compares the plan in order against a table with columns
// level | material | action | crafts, plus optional units | focus
func (pc *plannerContext) thePlanShouldHaveLines(table *godog.Table) error {
	if err := pc.requirePlan(); err != nil {
		return err
	}

	expected := tableRows(table)
	if len(expected) != len(pc.plan.Lines) {
		return fmt.Errorf("expected %d lines, got %d: %s", len(expected), len(pc.plan.Lines), describeLines(pc.plan.Lines))
	}

	for i, row := range expected {
		line := pc.plan.Lines[i]

		level, err := strconv.Atoi(row["level"])
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", row["level"], err)
		}
		crafts, err := strconv.ParseInt(row["crafts"], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid crafts %q: %w", row["crafts"], err)
		}

		if line.Level != level || line.Material != row["material"] ||
			string(line.Action) != row["action"] || line.Crafts != crafts {
			return fmt.Errorf("line %d: expected %d %s %s x%d, got %d %s %s x%d",
				i, level, row["material"], row["action"], crafts,
				line.Level, line.Material, line.Action, line.Crafts)
		}

		if value, ok := row["units"]; ok && value != "" {
			units, err := parseNumber(value)
			if err != nil {
				return err
			}
			if !floatsEqual(line.UnitsRequested, units) {
				return fmt.Errorf("line %d (%s): expected %v units, got %v", i, line.Material, units, line.UnitsRequested)
			}
		}
		if value, ok := row["focus"]; ok && value != "" {
			focus, err := parseNumber(value)
			if err != nil {
				return err
			}
			if !floatsEqual(line.FocusUsed, focus) {
				return fmt.Errorf("line %d (%s): expected %v focus, got %v", i, line.Material, focus, line.FocusUsed)
			}
		}
	}
	return nil
}

func describeLines(lines []planning.FocusLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("[%d %s %s x%d]", line.Level, line.Material, line.Action, line.Crafts))
	}
	return strings.Join(parts, " ")
}

func (pc *plannerContext) thePlanModeShouldBe(modeName string) error {
	if err := pc.requirePlan(); err != nil {
		return err
	}
	mode, err := recipe.ParseYieldMode(modeName)
	if err != nil {
		return err
	}
	if pc.plan.Mode != mode {
		return fmt.Errorf("expected mode %s, got %s", mode, pc.plan.Mode)
	}
	return nil
}

func (pc *plannerContext) shouldFailWithUnknownMaterial(name string) error {
	var unknown *recipe.ErrUnknownMaterial
	if !errors.As(pc.err, &unknown) {
		return fmt.Errorf("expected unknown material error, got %v", pc.err)
	}
	if unknown.Name != name {
		return fmt.Errorf("expected unknown material %s, got %s", name, unknown.Name)
	}
	return nil
}

// shouldFailWithCycle accepts the material or a path such as "A -> B -> A"
func (pc *plannerContext) shouldFailWithCycle(expected string) error {
	var cycle *recipe.ErrCycleDetected
	if !errors.As(pc.err, &cycle) {
		return fmt.Errorf("expected cycle error, got %v", pc.err)
	}

	if strings.Contains(expected, "->") {
		path := strings.Join(cycle.Path, " -> ")
		if path != expected {
			return fmt.Errorf("expected cycle path %s, got %s", expected, path)
		}
		return nil
	}

	if cycle.Material != expected {
		return fmt.Errorf("expected cycle at %s, got %s", expected, cycle.Material)
	}
	return nil
}

func (pc *plannerContext) shouldFailWithZeroYield(name string) error {
	var zero *recipe.ErrZeroEffectiveYield
	if !errors.As(pc.err, &zero) {
		return fmt.Errorf("expected zero effective yield error, got %v", pc.err)
	}
	if zero.Material != name {
		return fmt.Errorf("expected zero yield on %s, got %s", name, zero.Material)
	}
	return nil
}

func (pc *plannerContext) shouldFailWithInvalidQuantity() error {
	var invalid *planning.ErrInvalidQuantity
	if !errors.As(pc.err, &invalid) {
		return fmt.Errorf("expected invalid quantity error, got %v", pc.err)
	}
	return nil
}

func (pc *plannerContext) theEvaluationShouldSucceed() error {
	if pc.err != nil {
		return fmt.Errorf("expected success, got %w", pc.err)
	}
	return nil
}

func (pc *plannerContext) requireBudget() error {
	if pc.err != nil {
		return fmt.Errorf("search failed: %w", pc.err)
	}
	if pc.budget == nil {
		return fmt.Errorf("no search was run")
	}
	return nil
}

func (pc *plannerContext) theCraftableQuantityShouldBe(expected int64) error {
	if err := pc.requireBudget(); err != nil {
		return err
	}
	if pc.budget.Quantity != expected {
		return fmt.Errorf("expected %d craftable, got %d (focus used %v)", expected, pc.budget.Quantity, pc.budget.FocusUsed)
	}
	return nil
}

func (pc *plannerContext) theSearchShouldBeUnbounded() error {
	if err := pc.requireBudget(); err != nil {
		return err
	}
	if !pc.budget.Unbounded {
		return fmt.Errorf("expected an unbounded result, got quantity %d", pc.budget.Quantity)
	}
	return nil
}

func (pc *plannerContext) theFocusUsedShouldBe(expected float64) error {
	if err := pc.requireBudget(); err != nil {
		return err
	}
	if !floatsEqual(pc.budget.FocusUsed, expected) {
		return fmt.Errorf("expected %v focus used, got %v", expected, pc.budget.FocusUsed)
	}
	return nil
}

// theChecklistShouldContain compares rows in order against a table with columns
// material | action | units | crafts | focus
func (pc *plannerContext) theChecklistShouldContain(table *godog.Table) error {
	if pc.err != nil {
		return fmt.Errorf("checklist failed: %w", pc.err)
	}

	expected := tableRows(table)
	if len(expected) != len(pc.rows) {
		return fmt.Errorf("expected %d checklist rows, got %d: %+v", len(expected), len(pc.rows), pc.rows)
	}

	for i, row := range expected {
		actual := pc.rows[i]
		if actual.Material != row["material"] || string(actual.Action) != row["action"] {
			return fmt.Errorf("row %d: expected %s %s, got %s %s", i, row["material"], row["action"], actual.Material, actual.Action)
		}

		units, err := parseNumber(row["units"])
		if err != nil {
			return err
		}
		crafts, err := strconv.ParseInt(row["crafts"], 10, 64)
		if err != nil {
			return err
		}
		focus, err := parseNumber(row["focus"])
		if err != nil {
			return err
		}

		if !floatsEqual(actual.Units, units) || actual.Crafts != crafts || !floatsEqual(actual.Focus, focus) {
			return fmt.Errorf("row %d (%s): expected units=%v crafts=%d focus=%v, got units=%v crafts=%d focus=%v",
				i, actual.Material, units, crafts, focus, actual.Units, actual.Crafts, actual.Focus)
		}
	}
	return nil
}

func (pc *plannerContext) theChecklistShouldBeEmpty() error {
	if pc.err != nil {
		return fmt.Errorf("checklist failed: %w", pc.err)
	}
	if len(pc.rows) != 0 {
		return fmt.Errorf("expected an empty checklist, got %+v", pc.rows)
	}
	return nil
}
