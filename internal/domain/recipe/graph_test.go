package recipe_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

func TestGraph_LoadReplacesStoreAndDropsInvalidRecords(t *testing.T) {
	// Arrange
	g := recipe.NewGraph()
	g.Load([]recipe.Record{{Name: "Old"}})

	// Act
	result := g.Load([]recipe.Record{
		{Name: "Logs"},
		{Name: ""},
		{Name: "Charcoal", Ingredients: map[string]float64{"Logs": 28}},
	})

	// Assert
	assert.Equal(t, 2, result.Loaded)
	assert.Len(t, result.Dropped, 1)
	assert.Equal(t, []string{"Charcoal", "Logs"}, g.Names())
	_, ok := g.Get("Old")
	assert.False(t, ok)
}

func TestGraph_LoadKeepsDanglingReferences(t *testing.T) {
	g := recipe.NewGraph()
	result := g.Load([]recipe.Record{{Name: "Charcoal", Ingredients: map[string]float64{"Logs": 28}}})

	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, map[string][]string{"Charcoal": {"Logs"}}, g.MissingIngredients())
}

func TestGraph_GetReturnsCopy(t *testing.T) {
	g := recipe.NewGraph()
	g.Load([]recipe.Record{{Name: "Charcoal", Ingredients: map[string]float64{"Logs": 28}}})

	r, ok := g.Get("Charcoal")
	require.True(t, ok)
	r.Ingredients["Logs"] = 1

	again, _ := g.Get("Charcoal")
	assert.Equal(t, 28.0, again.Ingredients["Logs"])
}

func TestGraph_UpsertInsertsAndReplaces(t *testing.T) {
	g := recipe.NewGraph()
	r := recipe.NewRecipe("Plank")
	r.FocusCost = 2

	name, err := g.Upsert(r, "")
	require.NoError(t, err)
	assert.Equal(t, "Plank", name)

	r.FocusCost = 4
	_, err = g.Upsert(r, "Plank")
	require.NoError(t, err)

	stored, _ := g.Get("Plank")
	assert.Equal(t, 4.0, stored.FocusCost)
	assert.Equal(t, 1, g.Len())
}

func TestGraph_UpsertRenames(t *testing.T) {
	g := recipe.NewGraph()
	_, err := g.Upsert(recipe.NewRecipe("Plank"), "")
	require.NoError(t, err)

	name, err := g.Upsert(recipe.NewRecipe("Board"), "Plank")

	require.NoError(t, err)
	assert.Equal(t, "Board", name)
	assert.Equal(t, []string{"Board"}, g.Names())
}

func TestGraph_UpsertRejectsRenameOntoExistingRecipe(t *testing.T) {
	g := recipe.NewGraph()
	g.Load([]recipe.Record{{Name: "Plank"}, {Name: "Board"}})

	_, err := g.Upsert(recipe.NewRecipe("Board"), "Plank")

	var invalid *recipe.ErrInvalidRecipe
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"Board", "Plank"}, g.Names())
}

func TestGraph_UpsertRejectsInvalidRecipe(t *testing.T) {
	g := recipe.NewGraph()
	r := recipe.NewRecipe("Plank")
	r.Ingredients["Logs"] = -1

	_, err := g.Upsert(r, "")

	var invalid *recipe.ErrInvalidRecipe
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, 0, g.Len())
}

func TestGraph_Remove(t *testing.T) {
	g := recipe.NewGraph()
	g.Load([]recipe.Record{{Name: "Plank"}})

	assert.True(t, g.Remove("Plank"))
	assert.False(t, g.Remove("Plank"))
	assert.Equal(t, 0, g.Len())
}

func TestGraph_SnapshotIsIndependent(t *testing.T) {
	g := recipe.NewGraph()
	g.Load([]recipe.Record{{Name: "Plank"}})

	snap := g.Snapshot()
	g.Remove("Plank")

	_, ok := snap.Get("Plank")
	assert.True(t, ok)
}

func TestGraph_RecordsRoundTrip(t *testing.T) {
	g := recipe.NewGraph()
	g.Load([]recipe.Record{
		{Name: "Ore", IsMineable: true, FocusCost: 3, YieldMin: ptr(1), YieldMax: ptr(3)},
		{Name: "Bar", Ingredients: map[string]float64{"Ore": 2}},
	})

	again := recipe.NewGraph()
	result := again.Load(g.Records())

	assert.Equal(t, 2, result.Loaded)
	ore, ok := again.Get("Ore")
	require.True(t, ok)
	assert.Equal(t, recipe.ActionMine, ore.Action())
	assert.Equal(t, 2.0, ore.EffectiveYield(recipe.YieldModeAverage))
}
