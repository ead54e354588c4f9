package recipe_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

func TestNormalize_DefaultsToFixedOne(t *testing.T) {
	r, err := recipe.Normalize(recipe.Record{Name: "Stick"})

	require.NoError(t, err)
	assert.Equal(t, recipe.YieldKindFixed, r.Yield.Kind())
	assert.Equal(t, 1.0, r.Yield.Fixed())
	assert.True(t, r.IsLeaf())
}

func TestNormalize_MissingNameIsInvalid(t *testing.T) {
	_, err := recipe.Normalize(recipe.Record{Name: "   ", FocusCost: 3})

	var invalid *recipe.ErrInvalidRecipe
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Reason, "name")
}

func TestNormalize_OutcomesWinOverRangeAndFixed(t *testing.T) {
	r, err := recipe.Normalize(recipe.Record{
		Name:          "Gem",
		Yield:         ptr(5),
		YieldMin:      ptr(1),
		YieldMax:      ptr(2),
		YieldOutcomes: map[string]float64{"1": 0.5, "3": 0.5},
	})

	require.NoError(t, err)
	assert.Equal(t, recipe.YieldKindOutcomes, r.Yield.Kind())
	assert.Equal(t, 3.0, r.Yield.Estimate(recipe.YieldModeOptimistic))
}

func TestNormalize_ExplicitYieldTypeSelectsVariant(t *testing.T) {
	r, err := recipe.Normalize(recipe.Record{
		Name:          "Gem",
		YieldType:     "fixed",
		Yield:         ptr(5),
		YieldOutcomes: map[string]float64{"1": 1},
	})

	require.NoError(t, err)
	assert.Equal(t, recipe.YieldKindFixed, r.Yield.Kind())
	assert.Equal(t, 5.0, r.Yield.Estimate(recipe.YieldModeSafe))
}

func TestNormalize_RangeMirrorsMissingSide(t *testing.T) {
	r, err := recipe.Normalize(recipe.Record{Name: "Clay", YieldMax: ptr(4)})

	require.NoError(t, err)
	assert.Equal(t, recipe.YieldKindRange, r.Yield.Kind())
	min, max := r.Yield.Range()
	assert.Equal(t, 4.0, min)
	assert.Equal(t, 4.0, max)
	assert.Equal(t, 4.0, r.Yield.Estimate(recipe.YieldModeAverage))
}

func TestNormalize_CoercesNegativeNumbersAndDropsBadIngredients(t *testing.T) {
	r, err := recipe.Normalize(recipe.Record{
		Name:                "Plank",
		FocusCost:           -5,
		TimePerCraftSeconds: -1,
		Ingredients:         map[string]float64{"Logs": 2, "Nails": 0, " ": 3},
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, r.FocusCost)
	assert.Equal(t, 0.0, r.TimePerCraftSeconds)
	assert.Equal(t, map[string]float64{"Logs": 2}, r.Ingredients)
}

func TestNormalize_OutOfRangeChanceKeepsAverageWithinBounds(t *testing.T) {
	r, err := recipe.Normalize(recipe.Record{
		Name:       "Ore",
		IsMineable: true,
		YieldMin:   ptr(2),
		YieldMax:   ptr(6),
		MinChance:  ptr(150),
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, r.EffectiveYield(recipe.YieldModeSafe))
	assert.InDelta(t, 2.0, r.EffectiveYield(recipe.YieldModeAverage), 1e-9)
	assert.Equal(t, 6.0, r.EffectiveYield(recipe.YieldModeOptimistic))
}

func TestValidateRecord_RejectsNegativeCost(t *testing.T) {
	err := recipe.ValidateRecord(recipe.Record{Name: "Plank", FocusCost: -1})

	var invalid *recipe.ErrInvalidRecipe
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "Plank", invalid.Name)
	assert.Contains(t, invalid.Reason, "FocusCost")
}

func TestValidateRecord_RejectsNonPositiveIngredientQuantity(t *testing.T) {
	err := recipe.ValidateRecord(recipe.Record{Name: "Plank", Ingredients: map[string]float64{"Logs": 0}})

	assert.Error(t, err)
}

func TestValidateRecord_RejectsBadOutcomeKey(t *testing.T) {
	err := recipe.ValidateRecord(recipe.Record{Name: "Gem", YieldOutcomes: map[string]float64{"lots": 1}})

	assert.Error(t, err)
}

func TestValidateRecord_RejectsChanceAboveOneHundred(t *testing.T) {
	err := recipe.ValidateRecord(recipe.Record{
		Name:      "Ore",
		YieldMin:  ptr(2),
		YieldMax:  ptr(6),
		MinChance: ptr(150),
	})

	var invalid *recipe.ErrInvalidRecipe
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Reason, "MinChance")
}

func TestValidateRecord_AcceptsCompleteRecord(t *testing.T) {
	err := recipe.ValidateRecord(recipe.Record{
		Name:        "Plank",
		FocusCost:   2,
		YieldMin:    ptr(1),
		YieldMax:    ptr(3),
		Ingredients: map[string]float64{"Logs": 2},
	})

	assert.NoError(t, err)
}

func TestToRecord_EmitsExactlyOneYieldRepresentation(t *testing.T) {
	r := recipe.NewRecipe("Gem")
	r.Yield = recipe.OutcomeYield(map[float64]float64{1: 3, 2: 1})

	rec := recipe.ToRecord(r)

	assert.Nil(t, rec.Yield)
	assert.Nil(t, rec.YieldMin)
	assert.Nil(t, rec.YieldMax)
	assert.Equal(t, "outcomes", rec.YieldType)
	assert.InDelta(t, 0.75, rec.YieldOutcomes["1"], 1e-9)
	assert.InDelta(t, 0.25, rec.YieldOutcomes["2"], 1e-9)

	back, err := recipe.Normalize(rec)
	require.NoError(t, err)
	assert.InDelta(t, r.Yield.Estimate(recipe.YieldModeAverage), back.Yield.Estimate(recipe.YieldModeAverage), 1e-9)
}

func TestAction_DerivedFromMineableAndCost(t *testing.T) {
	assert.Equal(t, recipe.ActionMine, recipe.ActionFor(true, 5))
	assert.Equal(t, recipe.ActionGather, recipe.ActionFor(true, 0))
	assert.Equal(t, recipe.ActionCraft, recipe.ActionFor(false, 5))
	assert.Equal(t, recipe.ActionCraft, recipe.ActionFor(false, 0))
}
