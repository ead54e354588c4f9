package services_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/application/planning/services"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/test/helpers"
)

func TestEvaluate_BurningPowderChain(t *testing.T) {
	// Arrange
	propagator := services.NewCostPropagator(helpers.BurningPowderGraph())

	// Act
	plan, err := propagator.Evaluate("Burning Powder", 1, recipe.YieldModeSafe)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 20.0, plan.TotalFocus)
	require.Len(t, plan.Lines, 3)

	root := plan.Lines[0]
	assert.Equal(t, "Burning Powder", root.Material)
	assert.Equal(t, 0, root.Level)
	assert.Equal(t, recipe.ActionCraft, root.Action)
	assert.Equal(t, int64(1), root.Crafts)
	assert.Equal(t, 20.0, root.FocusUsed)

	charcoal := plan.Lines[1]
	assert.Equal(t, "Charcoal", charcoal.Material)
	assert.Equal(t, 1, charcoal.Level)
	assert.Equal(t, int64(1), charcoal.Crafts)
	assert.Equal(t, 0.0, charcoal.FocusUsed)

	logs := plan.Lines[2]
	assert.Equal(t, "Logs", logs.Material)
	assert.Equal(t, 2, logs.Level)
	assert.Equal(t, recipe.ActionGather, logs.Action)
	assert.Equal(t, 28.0, logs.UnitsRequested)
	assert.Equal(t, int64(28), logs.Crafts)

	assert.Equal(t, 30.0+28*5.0, plan.TotalTimeSeconds())
}

func TestEvaluate_LuckyOreModes(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(helpers.LuckyOreRecord()))

	tests := []struct {
		mode   recipe.YieldMode
		focus  float64
		crafts int64
	}{
		{mode: recipe.YieldModeSafe, focus: 20, crafts: 2},
		{mode: recipe.YieldModeOptimistic, focus: 10, crafts: 1},
		{mode: recipe.YieldModeAverage, focus: 20, crafts: 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			plan, err := propagator.Evaluate("Lucky Ore", 2, tt.mode)

			require.NoError(t, err)
			assert.Equal(t, tt.focus, plan.TotalFocus)
			require.Len(t, plan.Lines, 1)
			assert.Equal(t, tt.crafts, plan.Lines[0].Crafts)
			assert.Equal(t, recipe.ActionMine, plan.Lines[0].Action)
		})
	}
}

func TestEvaluate_DiamondIsNotACycle(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(helpers.DiamondRecords()...))

	plan, err := propagator.Evaluate("Lantern", 1, recipe.YieldModeSafe)

	require.NoError(t, err)
	materials := make([]string, 0, len(plan.Lines))
	for _, line := range plan.Lines {
		materials = append(materials, line.Material)
	}
	assert.Equal(t, []string{"Lantern", "Frame", "Resin", "Wick", "Resin"}, materials)
	assert.Equal(t, 15.0+5+1+2+1, plan.TotalFocus)
}

func TestEvaluate_TotalEqualsSumOfLines(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(helpers.DiamondRecords()...))

	for _, units := range []float64{1, 3, 7, 40} {
		plan, err := propagator.Evaluate("Lantern", units, recipe.YieldModeAverage)
		require.NoError(t, err)

		sum := 0.0
		for _, line := range plan.Lines {
			sum += line.FocusUsed
		}
		assert.InDelta(t, plan.TotalFocus, sum, 1e-9)
	}
}

func TestEvaluate_CycleDetected(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(helpers.CycleRecords()...))

	for _, units := range []float64{1, 0} {
		_, err := propagator.Evaluate("A", units, recipe.YieldModeSafe)

		var cycle *recipe.ErrCycleDetected
		require.True(t, errors.As(err, &cycle), "units %v", units)
		assert.Equal(t, "A", cycle.Material)
		assert.Equal(t, []string{"A", "B", "A"}, cycle.Path)
	}
}

func TestEvaluate_SelfLoopIsACycle(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(recipe.Record{
		Name:        "Seed",
		Ingredients: map[string]float64{"Seed": 1},
	}))

	_, err := propagator.Evaluate("Seed", 1, recipe.YieldModeSafe)

	var cycle *recipe.ErrCycleDetected
	assert.True(t, errors.As(err, &cycle))
}

func TestEvaluate_UnknownMaterial(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(recipe.Record{
		Name:        "Charcoal",
		Ingredients: map[string]float64{"Logs": 28},
	}))

	tests := []string{"Nothing", "Charcoal"}
	for _, target := range tests {
		_, err := propagator.Evaluate(target, 1, recipe.YieldModeSafe)

		var unknown *recipe.ErrUnknownMaterial
		require.True(t, errors.As(err, &unknown), target)
	}
}

func TestEvaluate_ZeroEffectiveYield(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(recipe.Record{
		Name:          "Dud",
		FocusCost:     3,
		YieldOutcomes: map[string]float64{"0": 0.5, "2": 0.5},
	}))

	_, err := propagator.Evaluate("Dud", 1, recipe.YieldModeSafe)
	var zero *recipe.ErrZeroEffectiveYield
	require.True(t, errors.As(err, &zero))
	assert.Equal(t, "Dud", zero.Material)
	assert.Equal(t, recipe.YieldModeSafe, zero.Mode)

	plan, err := propagator.Evaluate("Dud", 1, recipe.YieldModeOptimistic)
	require.NoError(t, err)
	assert.Equal(t, 3.0, plan.TotalFocus)
}

func TestEvaluate_ZeroUnitsCostsNothing(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.BurningPowderGraph())

	plan, err := propagator.Evaluate("Burning Powder", 0, recipe.YieldModeSafe)

	require.NoError(t, err)
	assert.Equal(t, 0.0, plan.TotalFocus)
	for _, line := range plan.Lines {
		assert.Equal(t, int64(0), line.Crafts)
	}
}

func TestEvaluate_InvalidQuantity(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.BurningPowderGraph())

	for _, units := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := propagator.Evaluate("Burning Powder", units, recipe.YieldModeSafe)

		var invalid *planning.ErrInvalidQuantity
		assert.True(t, errors.As(err, &invalid))
	}
}

func TestEvaluate_FractionalDemandRoundsUp(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(
		recipe.Record{Name: "Rope", FocusCost: 4, Ingredients: map[string]float64{"Fiber": 0.5}},
		recipe.Record{Name: "Fiber", FocusCost: 1, IsMineable: true, Yield: helpers.Float(3)},
	))

	plan, err := propagator.Evaluate("Rope", 0.5, recipe.YieldModeSafe)

	require.NoError(t, err)
	assert.Equal(t, int64(1), plan.Lines[0].Crafts)
	assert.Equal(t, 0.5, plan.Lines[1].UnitsRequested)
	assert.Equal(t, int64(1), plan.Lines[1].Crafts)
	assert.Equal(t, 5.0, plan.TotalFocus)
}

func TestEvaluate_NearIntegerYieldStillCoversDemand(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(
		recipe.Record{Name: "Shard", FocusCost: 1, IsMineable: true, Yield: helpers.Float(2.9999999999)},
	))

	plan, err := propagator.Evaluate("Shard", 3, recipe.YieldModeSafe)

	require.NoError(t, err)
	assert.Equal(t, int64(2), plan.Lines[0].Crafts)
	assert.GreaterOrEqual(t, float64(plan.Lines[0].Crafts)*plan.Lines[0].EffectiveYield, 3.0)
}

func TestEvaluate_UnknownModeIsRejected(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.BurningPowderGraph())

	_, err := propagator.Evaluate("Burning Powder", 1, recipe.YieldMode("BOGUS"))

	var invalid *planning.ErrInvalidYieldMode
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "BOGUS", invalid.Mode)
}

func TestEvaluate_ModeAliasIsCanonicalized(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(helpers.LuckyOreRecord()))

	plan, err := propagator.Evaluate("Lucky Ore", 1, recipe.YieldMode("avg"))

	require.NoError(t, err)
	assert.Equal(t, recipe.YieldModeAverage, plan.Mode)
}

func TestEvaluate_MonotoneInQuantity(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(helpers.DiamondRecords()...))

	previous := 0.0
	for q := 0; q <= 60; q++ {
		plan, err := propagator.Evaluate("Lantern", float64(q), recipe.YieldModeSafe)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, plan.TotalFocus, previous, "q=%d", q)
		previous = plan.TotalFocus
	}
}

func TestEvaluate_ModeOrdering(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(
		recipe.Record{Name: "Ingot", FocusCost: 6, YieldMin: helpers.Float(1), YieldMax: helpers.Float(4), Ingredients: map[string]float64{"Lucky Ore": 3}},
		helpers.LuckyOreRecord(),
	))

	for _, units := range []float64{1, 5, 17} {
		safe, err := propagator.Evaluate("Ingot", units, recipe.YieldModeSafe)
		require.NoError(t, err)
		avg, err := propagator.Evaluate("Ingot", units, recipe.YieldModeAverage)
		require.NoError(t, err)
		opt, err := propagator.Evaluate("Ingot", units, recipe.YieldModeOptimistic)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, safe.TotalFocus, avg.TotalFocus)
		assert.GreaterOrEqual(t, avg.TotalFocus, opt.TotalFocus)
	}
}

func TestEvaluate_EmptyModeDefaultsToSafe(t *testing.T) {
	propagator := services.NewCostPropagator(helpers.GraphOf(helpers.LuckyOreRecord()))

	plan, err := propagator.Evaluate("Lucky Ore", 2, "")

	require.NoError(t, err)
	assert.Equal(t, recipe.YieldModeSafe, plan.Mode)
	assert.Equal(t, 20.0, plan.TotalFocus)
}

func TestEvaluate_ProfilePolicyAdjustsCostAndYield(t *testing.T) {
	policy := planning.ProfilePolicy{
		FocusCostMultiplier: 0.5,
		YieldBonusPercent:   50,
	}
	propagator := services.NewCostPropagatorWithPolicy(helpers.GraphOf(helpers.LuckyOreRecord()), policy)

	plan, err := propagator.Evaluate("Lucky Ore", 3, recipe.YieldModeSafe)

	require.NoError(t, err)
	// safe yield 1 * 1.5 = 1.5 -> 2 crafts at 5 focus
	assert.Equal(t, int64(2), plan.Lines[0].Crafts)
	assert.Equal(t, 1.5, plan.Lines[0].EffectiveYield)
	assert.Equal(t, 10.0, plan.TotalFocus)
}

func TestEvaluate_DoesNotMutateGraph(t *testing.T) {
	graph := helpers.BurningPowderGraph()
	before := graph.Records()

	_, err := services.NewCostPropagator(graph).Evaluate("Burning Powder", 30, recipe.YieldModeAverage)

	require.NoError(t, err)
	assert.Equal(t, before, graph.Records())
}
