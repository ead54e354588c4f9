package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

func registerYieldSteps(sc *godog.ScenarioContext, pc *plannerContext) {
	sc.Step(`^the effective yield of "([^"]*)" in (\w+) mode should be (-?\d+(?:\.\d+)?)$`, pc.theEffectiveYieldShouldBe)
	sc.Step(`^the effective yields of "([^"]*)" should be:$`, pc.theEffectiveYieldsShouldBe)
	sc.Step(`^"([^"]*)" should have a (FIXED|RANGE|OUTCOMES) yield$`, pc.shouldHaveYieldKind)
}

func (pc *plannerContext) theEffectiveYieldShouldBe(name, modeName string, expected float64) error {
	mode, err := recipe.ParseYieldMode(modeName)
	if err != nil {
		return err
	}

	r, err := pc.getRecipe(name)
	if err != nil {
		return err
	}

	actual := r.EffectiveYield(mode)
	if !floatsEqual(actual, expected) {
		return fmt.Errorf("expected %s yield of %s to be %v, got %v", mode, name, expected, actual)
	}
	return nil
}

// theEffectiveYieldsShouldBe checks a table with columns mode | yield
func (pc *plannerContext) theEffectiveYieldsShouldBe(name string, table *godog.Table) error {
	for _, row := range tableRows(table) {
		expected, err := parseNumber(row["yield"])
		if err != nil {
			return fmt.Errorf("invalid yield %q: %w", row["yield"], err)
		}
		if err := pc.theEffectiveYieldShouldBe(name, row["mode"], expected); err != nil {
			return err
		}
	}
	return nil
}

func (pc *plannerContext) shouldHaveYieldKind(name, kind string) error {
	r, err := pc.getRecipe(name)
	if err != nil {
		return err
	}
	if string(r.Yield.Kind()) != kind {
		return fmt.Errorf("expected %s to have a %s yield, got %s (%s)", name, kind, r.Yield.Kind(), r.Yield)
	}
	return nil
}
