package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/adapters/recipefile"
	"github.com/andrescamacho/focusplanner/test/helpers"
)

// cliEnv is a throwaway home directory with a SQLite-backed config
type cliEnv struct {
	dir        string
	configFile string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	configFile := filepath.Join(dir, "config.yaml")
	contents := fmt.Sprintf(`database:
  type: sqlite
  path: %s
logging:
  level: error
  format: text
  output: stderr
daemon:
  pid_file: %s
`, filepath.Join(dir, "planner.db"), filepath.Join(dir, "daemon.pid"))
	require.NoError(t, os.WriteFile(configFile, []byte(contents), 0644))

	return &cliEnv{dir: dir, configFile: configFile}
}

// run executes the root command and returns everything it printed
func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.configFile}, args...))

	err := root.Execute()
	return out.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	output, err := e.run(t, args...)
	require.NoError(t, err, output)
	return output
}

func (e *cliEnv) importBurningPowder(t *testing.T) {
	t.Helper()
	path := filepath.Join(e.dir, "recipes.yaml")
	require.NoError(t, recipefile.WriteFile(path, helpers.BurningPowderRecords()))
	output := e.mustRun(t, "recipe", "import", path)
	require.Contains(t, output, "3 in book")
}

func TestCLI_EvaluateBurningPowder(t *testing.T) {
	env := newCLIEnv(t)
	env.importBurningPowder(t)

	output := env.mustRun(t, "plan", "evaluate", "Burning Powder", "--units", "15")

	assert.Contains(t, output, "15 x Burning Powder (SAFE)")
	assert.Contains(t, output, "Burning Powder [Craft] 15 units: 1 x 15, 20 focus")
	assert.Contains(t, output, "└── Charcoal [Craft]")
	assert.Contains(t, output, "    └── Logs [Gather] 28 units: 28 x 1, 2m 20s")
	assert.Contains(t, output, "Total focus: 20")
	assert.Contains(t, output, "Total time:  2m 50s")
}

func TestCLI_MaxCraftableAndHistory(t *testing.T) {
	env := newCLIEnv(t)
	env.importBurningPowder(t)

	output := env.mustRun(t, "plan", "max", "Burning Powder", "--budget", "100")
	assert.Contains(t, output, "Craftable:   75 units")
	assert.Contains(t, output, "Focus used:  100")
	assert.Contains(t, output, "Remaining:   0")

	env.mustRun(t, "plan", "evaluate", "Burning Powder", "--units", "15")

	history := env.mustRun(t, "plan", "history")
	assert.Contains(t, history, "BUDGET")
	assert.Contains(t, history, "EVALUATE")
}

func TestCLI_ChecklistCSV(t *testing.T) {
	env := newCLIEnv(t)
	env.importBurningPowder(t)
	csvPath := filepath.Join(env.dir, "leaves.csv")

	output := env.mustRun(t, "plan", "checklist", "Burning Powder", "--units", "15", "--csv", csvPath)
	assert.Contains(t, output, "Wrote 1 materials")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "material,action,units,yield,crafts,focus,time_seconds\nLogs,Gather,28,1,28,0,140\n", string(data))
}

func TestCLI_RecipeEditing(t *testing.T) {
	env := newCLIEnv(t)
	env.importBurningPowder(t)

	output := env.mustRun(t, "recipe", "set", "Lucky Ore", "--mineable", "--cost", "10",
		"--outcome", "1=70", "--outcome", "2=20", "--outcome", "3=10")
	assert.Contains(t, output, "Saved recipe Lucky Ore")

	optimistic := env.mustRun(t, "plan", "evaluate", "Lucky Ore", "--units", "2", "--mode", "optimistic")
	assert.Contains(t, optimistic, "Total focus: 10")

	safe := env.mustRun(t, "plan", "evaluate", "Lucky Ore", "--units", "2", "--mode", "safe")
	assert.Contains(t, safe, "Total focus: 20")

	show := env.mustRun(t, "recipe", "show", "Charcoal")
	assert.Contains(t, show, "28 x Logs")
	assert.Contains(t, show, "Used by:         Burning Powder")

	list := env.mustRun(t, "recipe", "list", "--filter", "ore")
	assert.Contains(t, list, "Lucky Ore")
	assert.NotContains(t, list, "Charcoal")

	removed := env.mustRun(t, "recipe", "rm", "Charcoal")
	assert.Contains(t, removed, "Still used by: Burning Powder")

	_, err := env.run(t, "plan", "evaluate", "Burning Powder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Charcoal")
}

func TestCLI_ExportRoundTrip(t *testing.T) {
	env := newCLIEnv(t)
	env.importBurningPowder(t)
	exportPath := filepath.Join(env.dir, "export.json")

	output := env.mustRun(t, "recipe", "export", exportPath)
	assert.Contains(t, output, "Exported 3 recipes")

	records, err := recipefile.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestCLI_DefaultTargetAndMode(t *testing.T) {
	env := newCLIEnv(t)
	env.importBurningPowder(t)

	env.mustRun(t, "config", "set-target", "Burning Powder")
	env.mustRun(t, "config", "set-mode", "avg")

	output := env.mustRun(t, "plan", "evaluate", "--units", "15")
	assert.Contains(t, output, "15 x Burning Powder (AVERAGE)")

	show := env.mustRun(t, "config", "show")
	assert.Contains(t, show, "Default Target:   Burning Powder")
	assert.Contains(t, show, "Type:             sqlite")

	env.mustRun(t, "config", "clear")
	_, err := env.run(t, "plan", "evaluate")
	assert.Error(t, err)
}

func TestCLI_DaemonStatusNotRunning(t *testing.T) {
	env := newCLIEnv(t)

	output := env.mustRun(t, "daemon", "status")

	assert.Contains(t, output, "not running")
}

func TestCLI_InvalidModeIsRejected(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "plan", "evaluate", "Burning Powder", "--mode", "sideways")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown yield mode")
}
