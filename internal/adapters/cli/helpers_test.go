package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0s"},
		{-4, "0s"},
		{45, "45s"},
		{170, "2m 50s"},
		{11110, "3h 05m 10s"},
		{59.6, "1m 00s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.seconds))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "20", formatNumber(20))
	assert.Equal(t, "1.5", formatNumber(1.5))
	assert.Equal(t, "0.33", formatNumber(1.0/3))
	assert.Equal(t, "-2", formatNumber(-2))
}

func TestParseQuantities(t *testing.T) {
	values, err := parseQuantities([]string{"Logs=28", " Iron Ore = 2.5", "a=b=3"}, "ingredient")

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Logs": 28, "Iron Ore": 2.5, "a=b": 3}, values)
}

func TestParseQuantities_Invalid(t *testing.T) {
	for _, value := range []string{"Logs", "=3", "Logs=", "Logs=many"} {
		_, err := parseQuantities([]string{value}, "ingredient")
		assert.Error(t, err, value)
	}

	values, err := parseQuantities(nil, "outcome")
	require.NoError(t, err)
	assert.Nil(t, values)
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://planner:****@db:5432/focus", maskPassword("postgres://planner:secret@db:5432/focus"))
	assert.Equal(t, "postgres://planner@db/focus", maskPassword("postgres://planner@db/focus"))
	assert.Equal(t, "focusplanner.db", maskPassword("focusplanner.db"))
}

func TestResolveMode_FlagWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	mode, err := resolveMode("max")
	require.NoError(t, err)
	assert.Equal(t, recipe.YieldModeOptimistic, mode)

	mode, err = resolveMode("")
	require.NoError(t, err)
	assert.Equal(t, recipe.YieldMode(""), mode)

	_, err = resolveMode("sideways")
	assert.Error(t, err)
}

func TestResolveTarget_RequiresOne(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	target, err := resolveTarget([]string{"Charcoal"})
	require.NoError(t, err)
	assert.Equal(t, "Charcoal", target)

	_, err = resolveTarget(nil)
	assert.Error(t, err)
}

func TestWriteChecklistCSV(t *testing.T) {
	rows := []planning.LeafRow{
		{Material: "Logs", Action: recipe.ActionGather, Units: 28, EffectiveYield: 1, Crafts: 28, Focus: 0, TimeSeconds: 140},
		{Material: "Lucky Ore", Action: recipe.ActionMine, Units: 2, EffectiveYield: 1.4, Crafts: 2, Focus: 20, TimeSeconds: 0},
	}
	var buf bytes.Buffer

	require.NoError(t, WriteChecklistCSV(&buf, rows))

	assert.Equal(t,
		"material,action,units,yield,crafts,focus,time_seconds\n"+
			"Logs,Gather,28,1,28,0,140\n"+
			"Lucky Ore,Mine,2,1.4,2,20,0\n",
		buf.String())
}

func TestWriteChecklistTable_IncludesTotals(t *testing.T) {
	rows := []planning.LeafRow{
		{Material: "Logs", Action: recipe.ActionGather, Units: 28, EffectiveYield: 1, Crafts: 28, TimeSeconds: 140},
		{Material: "Lucky Ore", Action: recipe.ActionMine, Units: 2, EffectiveYield: 1, Crafts: 2, Focus: 20},
	}
	var buf bytes.Buffer

	require.NoError(t, WriteChecklistTable(&buf, rows))

	output := buf.String()
	assert.Contains(t, output, "MATERIAL")
	assert.Contains(t, output, "Lucky Ore")
	assert.Regexp(t, `TOTAL\s+20\s+2m 20s`, output)
}

func TestWriteChecklistTable_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteChecklistTable(&buf, nil))

	assert.Equal(t, "No base materials\n", buf.String())
}
