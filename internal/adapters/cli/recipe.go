package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/focusplanner/internal/adapters/recipefile"
	"github.com/andrescamacho/focusplanner/internal/application/recipes/commands"
	"github.com/andrescamacho/focusplanner/internal/application/recipes/queries"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// NewRecipeCommand creates the recipe command with subcommands
func NewRecipeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Manage the recipe book",
		Long: `Manage the recipe book used by the planner.

Recipes describe how a material is produced: its Focus cost per craft, time per
craft, yield and the ingredients consumed. Recipes can be imported from and
exported to JSON or YAML files, or edited one at a time.

Examples:
  focusplanner recipe import recipes.yaml
  focusplanner recipe list --filter powder
  focusplanner recipe show "Burning Powder"
  focusplanner recipe set Charcoal --time 30 --yield 10 --ingredient Logs=28
  focusplanner recipe rm Charcoal`,
	}

	// Add subcommands
	cmd.AddCommand(newRecipeImportCommand())
	cmd.AddCommand(newRecipeExportCommand())
	cmd.AddCommand(newRecipeListCommand())
	cmd.AddCommand(newRecipeShowCommand())
	cmd.AddCommand(newRecipeSetCommand())
	cmd.AddCommand(newRecipeRemoveCommand())

	return cmd
}

// newRecipeImportCommand creates the recipe import subcommand
func newRecipeImportCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import recipes from a JSON or YAML file",
		Long: `Import recipes from a file. The format follows the file extension
(.json, .yaml or .yml).

Imported recipes are merged into the book by name. With --replace the book is
replaced by the file contents. Malformed entries are skipped and reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := recipefile.ReadFile(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				response, err := a.mediator.Send(ctx, &commands.ImportRecipesCommand{
					Records: records,
					Replace: replace,
					Source:  args[0],
				})
				if err != nil {
					return fmt.Errorf("failed to import recipes: %w", err)
				}

				printImportResult(cmd, response.(*commands.ImportRecipesResponse))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the whole recipe book instead of merging")

	return cmd
}

// printImportResult renders an import summary
func printImportResult(cmd *cobra.Command, result *commands.ImportRecipesResponse) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "✓ Imported recipes: %d in book\n", result.Loaded)

	if len(result.Dropped) > 0 {
		fmt.Fprintf(out, "\nSkipped %d malformed entries:\n", len(result.Dropped))
		for _, reason := range result.Dropped {
			fmt.Fprintf(out, "  - %s\n", reason)
		}
	}

	if len(result.Missing) > 0 {
		fmt.Fprintln(out, "\nIngredients without a recipe:")
		owners := make([]string, 0, len(result.Missing))
		for owner := range result.Missing {
			owners = append(owners, owner)
		}
		sort.Strings(owners)
		for _, owner := range owners {
			fmt.Fprintf(out, "  %s: %s\n", owner, strings.Join(result.Missing[owner], ", "))
		}
	}
}

// newRecipeExportCommand creates the recipe export subcommand
func newRecipeExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export the recipe book to a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				records := a.book.Graph().Records()
				if err := recipefile.WriteFile(args[0], records); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d recipes to %s\n", len(records), args[0])
				return nil
			})
		},
	}

	return cmd
}

// newRecipeListCommand creates the recipe list subcommand
func newRecipeListCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				response, err := a.mediator.Send(ctx, &queries.ListRecipesQuery{Filter: filter})
				if err != nil {
					return fmt.Errorf("failed to list recipes: %w", err)
				}

				printRecipeTable(cmd, response.(*queries.ListRecipesResponse).Recipes)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only show recipes whose name contains this text")

	return cmd
}

// printRecipeTable renders recipe summaries as a table
func printRecipeTable(cmd *cobra.Command, summaries []queries.RecipeSummary) {
	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No recipes found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tACTION\tFOCUS\tYIELD\tINGREDIENTS\tMISSING")
	for _, s := range summaries {
		missing := "-"
		if len(s.Missing) > 0 {
			missing = strings.Join(s.Missing, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.Name, s.Action, formatNumber(s.FocusCost), s.Yield, s.Ingredients, missing)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d recipes\n", len(summaries))
}

// newRecipeShowCommand creates the recipe show subcommand
func newRecipeShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				response, err := a.mediator.Send(ctx, &queries.GetRecipeQuery{Name: args[0]})
				if err != nil {
					return err
				}

				result := response.(*queries.GetRecipeResponse)
				printRecipeDetails(cmd, result.Recipe, result.UsedBy)
				return nil
			})
		},
	}

	return cmd
}

// printRecipeDetails renders one recipe
func printRecipeDetails(cmd *cobra.Command, r *recipe.Recipe, usedBy []string) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Recipe:          %s\n", r.Name)
	fmt.Fprintf(out, "Action:          %s\n", r.Action())
	fmt.Fprintf(out, "Focus per craft: %s\n", formatNumber(r.FocusCost))
	fmt.Fprintf(out, "Time per craft:  %s\n", formatDuration(r.TimePerCraftSeconds))
	fmt.Fprintf(out, "Yield:           %s\n", r.Yield)
	for _, mode := range recipe.YieldModes() {
		fmt.Fprintf(out, "  %-10s     %s per craft\n", mode, formatNumber(r.EffectiveYield(mode)))
	}

	if len(r.Ingredients) == 0 {
		fmt.Fprintln(out, "Ingredients:     (none)")
	} else {
		fmt.Fprintln(out, "Ingredients:")
		for _, name := range r.IngredientNames() {
			fmt.Fprintf(out, "  %s x %s\n", formatNumber(r.Ingredients[name]), name)
		}
	}

	if len(usedBy) > 0 {
		fmt.Fprintf(out, "Used by:         %s\n", strings.Join(usedBy, ", "))
	}
}

// newRecipeSetCommand creates the recipe set subcommand
func newRecipeSetCommand() *cobra.Command {
	var (
		focusCost   float64
		timeSeconds float64
		mineable    bool
		yieldType   string
		yield       float64
		yieldMin    float64
		yieldMax    float64
		minChance   float64
		maxChance   float64
		outcomes    []string
		ingredients []string
		renameFrom  string
	)

	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Create or replace a recipe",
		Long: `Create or replace a recipe. The whole recipe is written, so pass every field
you want to keep.

Yield can be fixed (--yield), a range (--yield-min/--yield-max with optional
--min-chance/--max-chance) or weighted outcomes (--outcome QTY=WEIGHT, repeatable).
With no yield flags the recipe yields 1 per craft.

Use --rename-from to rename an existing recipe. Recipes that referenced the old
name keep referencing it.

Examples:
  focusplanner recipe set Logs --mineable --time 5
  focusplanner recipe set Charcoal --time 30 --yield 10 --ingredient Logs=28
  focusplanner recipe set "Lucky Ore" --mineable --cost 10 --outcome 1=70 --outcome 2=20 --outcome 3=10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomeWeights, err := parseQuantities(outcomes, "outcome")
			if err != nil {
				return err
			}
			ingredientQuantities, err := parseQuantities(ingredients, "ingredient")
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			record := recipe.Record{
				Name:                args[0],
				FocusCost:           focusCost,
				TimePerCraftSeconds: timeSeconds,
				IsMineable:          mineable,
				YieldType:           yieldType,
				YieldOutcomes:       outcomeWeights,
				Ingredients:         ingredientQuantities,
			}
			if flags.Changed("yield") {
				record.Yield = &yield
			}
			if flags.Changed("yield-min") {
				record.YieldMin = &yieldMin
			}
			if flags.Changed("yield-max") {
				record.YieldMax = &yieldMax
			}
			if flags.Changed("min-chance") {
				record.MinChance = &minChance
			}
			if flags.Changed("max-chance") {
				record.MaxChance = &maxChance
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				response, err := a.mediator.Send(ctx, &commands.UpsertRecipeCommand{
					Record:  record,
					OldName: renameFrom,
				})
				if err != nil {
					return err
				}

				result := response.(*commands.UpsertRecipeResponse)
				if result.Renamed {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Renamed %s to %s\n", renameFrom, result.Name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved recipe %s\n", result.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&focusCost, "cost", 0, "Focus spent per craft")
	cmd.Flags().Float64Var(&timeSeconds, "time", 0, "Seconds per craft")
	cmd.Flags().BoolVar(&mineable, "mineable", false, "Material is mined or gathered rather than crafted")
	cmd.Flags().StringVar(&yieldType, "yield-type", "", "Force the yield variant (fixed, range, outcomes)")
	cmd.Flags().Float64Var(&yield, "yield", 1, "Fixed units produced per craft")
	cmd.Flags().Float64Var(&yieldMin, "yield-min", 0, "Minimum units per craft")
	cmd.Flags().Float64Var(&yieldMax, "yield-max", 0, "Maximum units per craft")
	cmd.Flags().Float64Var(&minChance, "min-chance", 0, "Chance of the minimum yield (0-1 or percent)")
	cmd.Flags().Float64Var(&maxChance, "max-chance", 0, "Chance of the maximum yield (0-1 or percent)")
	cmd.Flags().StringArrayVar(&outcomes, "outcome", nil, "Weighted outcome QTY=WEIGHT (repeatable)")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, "Ingredient NAME=QTY per craft (repeatable)")
	cmd.Flags().StringVar(&renameFrom, "rename-from", "", "Existing recipe name to rename")

	return cmd
}

// newRecipeRemoveCommand creates the recipe rm subcommand
func newRecipeRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Remove a recipe",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				response, err := a.mediator.Send(ctx, &commands.RemoveRecipeCommand{Name: args[0]})
				if err != nil {
					return err
				}

				result := response.(*commands.RemoveRecipeResponse)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "✓ Removed recipe %s\n", result.Name)
				if len(result.ReferencedBy) > 0 {
					fmt.Fprintf(out, "⚠️  Still used by: %s\n", strings.Join(result.ReferencedBy, ", "))
					fmt.Fprintln(out, "   Plans for these recipes will fail until it is restored.")
				}
				return nil
			})
		},
	}

	return cmd
}
