package steps

import (
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

func registerPropertySteps(sc *godog.ScenarioContext, pc *plannerContext) {
	sc.Step(`^total focus for "([^"]*)" should never decrease from (\d+) to (\d+) units in any mode$`, pc.focusShouldBeMonotonic)
	sc.Step(`^safe focus should be at least average focus and average at least optimistic for (\d+) units? of "([^"]*)"$`, pc.focusShouldFollowModeOrder)
	sc.Step(`^the craftable quantity should match a linear scan up to (\d+) units of "([^"]*)"$`, pc.craftableShouldMatchLinearScan)
	sc.Step(`^evaluating 0 units of "([^"]*)" should still detect the cycle$`, pc.zeroUnitsShouldStillDetectCycle)
	sc.Step(`^the checklist focus should not exceed the plan focus$`, pc.checklistFocusShouldNotExceedPlan)
}

func (pc *plannerContext) focusShouldBeMonotonic(target string, from, to int) error {
	for _, mode := range recipe.YieldModes() {
		previous := -1.0
		for q := from; q <= to; q++ {
			plan, err := pc.evaluate(target, float64(q), mode)
			if err != nil {
				return fmt.Errorf("%s at %d units: %w", mode, q, err)
			}
			if plan.TotalFocus < previous {
				return fmt.Errorf("%s focus dropped from %v to %v at %d units", mode, previous, plan.TotalFocus, q)
			}
			previous = plan.TotalFocus
		}
	}
	return nil
}

func (pc *plannerContext) focusShouldFollowModeOrder(units float64, target string) error {
	focus := make(map[recipe.YieldMode]float64, 3)
	for _, mode := range recipe.YieldModes() {
		plan, err := pc.evaluate(target, units, mode)
		if err != nil {
			return fmt.Errorf("%s: %w", mode, err)
		}
		focus[mode] = plan.TotalFocus
	}

	if focus[recipe.YieldModeSafe] < focus[recipe.YieldModeAverage] ||
		focus[recipe.YieldModeAverage] < focus[recipe.YieldModeOptimistic] {
		return fmt.Errorf("expected safe >= average >= optimistic, got %v / %v / %v",
			focus[recipe.YieldModeSafe], focus[recipe.YieldModeAverage], focus[recipe.YieldModeOptimistic])
	}
	return nil
}

// craftableShouldMatchLinearScan prices every quantity up to limit and checks the
// last search found the largest affordable one
func (pc *plannerContext) craftableShouldMatchLinearScan(limit int64, target string) error {
	if err := pc.requireBudget(); err != nil {
		return err
	}

	var best int64
	for q := int64(1); q <= limit; q++ {
		plan, err := pc.evaluate(target, float64(q), pc.lastMode)
		if err != nil {
			return err
		}
		if plan.TotalFocus > pc.lastBudget {
			break
		}
		best = q
	}

	if best == limit {
		return fmt.Errorf("linear scan reached its limit of %d; raise it above the expected answer", limit)
	}
	if pc.budget.Quantity != best {
		return fmt.Errorf("search found %d but a linear scan found %d", pc.budget.Quantity, best)
	}
	return nil
}

func (pc *plannerContext) zeroUnitsShouldStillDetectCycle(target string) error {
	_, err := pc.evaluate(target, 0, recipe.YieldModeSafe)
	var cycle *recipe.ErrCycleDetected
	if !errors.As(err, &cycle) {
		return fmt.Errorf("expected a cycle error at 0 units, got %v", err)
	}
	return nil
}

func (pc *plannerContext) checklistFocusShouldNotExceedPlan() error {
	if err := pc.requirePlan(); err != nil {
		return err
	}

	total := 0.0
	for _, row := range pc.rows {
		total += row.Focus
	}
	if total > pc.plan.TotalFocus+1e-9 {
		return fmt.Errorf("checklist focus %v exceeds plan focus %v", total, pc.plan.TotalFocus)
	}
	return nil
}
