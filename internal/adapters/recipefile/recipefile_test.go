package recipefile_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/adapters/recipefile"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/test/helpers"
)

func TestDecode_JSONLayouts(t *testing.T) {
	tests := map[string]string{
		"list":    `[{"name":"Charcoal","focusCost":0,"yield":10,"ingredients":{"Logs":28}}]`,
		"wrapped": `{"recipes":[{"name":"Charcoal","yield":10,"ingredients":{"Logs":28}}]}`,
		"keyed":   `{"Charcoal":{"yield":10,"ingredients":{"Logs":28}}}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			records, err := recipefile.Decode(strings.NewReader(body), recipefile.FormatJSON)

			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "Charcoal", records[0].Name)
			require.NotNil(t, records[0].Yield)
			assert.Equal(t, 10.0, *records[0].Yield)
			assert.Equal(t, 28.0, records[0].Ingredients["Logs"])
		})
	}
}

func TestDecode_YAMLLayouts(t *testing.T) {
	tests := map[string]string{
		"list": `
- name: Lucky Ore
  focusCost: 10
  isMineable: true
  yieldOutcomes: {"1": 0.7, "2": 0.2, "3": 0.1}
`,
		"wrapped": `
recipes:
  - name: Lucky Ore
    focusCost: 10
    isMineable: true
    yieldOutcomes: {"1": 0.7, "2": 0.2, "3": 0.1}
`,
		"keyed": `
Lucky Ore:
  focusCost: 10
  isMineable: true
  yieldOutcomes: {"1": 0.7, "2": 0.2, "3": 0.1}
`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			records, err := recipefile.Decode(strings.NewReader(body), recipefile.FormatYAML)

			require.NoError(t, err)
			require.Len(t, records, 1)
			r, err := recipe.Normalize(records[0])
			require.NoError(t, err)
			assert.Equal(t, "Lucky Ore", r.Name)
			assert.Equal(t, recipe.ActionMine, r.Action())
			assert.InDelta(t, 1.4, r.EffectiveYield(recipe.YieldModeAverage), 1e-9)
		})
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	records, err := recipefile.Decode(strings.NewReader("  \n"), recipefile.FormatJSON)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := recipefile.Decode(strings.NewReader(`[{"name": 3}]`), recipefile.FormatJSON)
	assert.Error(t, err)

	_, err = recipefile.Decode(strings.NewReader("just a string"), recipefile.FormatYAML)
	assert.Error(t, err)
}

func TestWriteAndReadFile_RoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "book"+ext)
			graph := helpers.GraphOf(append(helpers.DiamondRecords(), helpers.LuckyOreRecord())...)

			require.NoError(t, recipefile.WriteFile(path, graph.Records()))
			records, err := recipefile.ReadFile(path)
			require.NoError(t, err)

			reloaded := helpers.GraphOf(records...)
			assert.Equal(t, graph.Names(), reloaded.Names())
			for _, name := range graph.Names() {
				want, _ := graph.Get(name)
				got, _ := reloaded.Get(name)
				for _, mode := range recipe.YieldModes() {
					assert.InDelta(t, want.EffectiveYield(mode), got.EffectiveYield(mode), 1e-9, "%s %s", name, mode)
				}
				assert.Equal(t, want.Ingredients, got.Ingredients)
			}
		})
	}
}

func TestFormatFromPath_RejectsUnknownExtension(t *testing.T) {
	_, err := recipefile.FormatFromPath("book.csv")

	assert.Error(t, err)
}
