package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	planningCommands "github.com/andrescamacho/focusplanner/internal/application/planning/commands"
	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
)

// NewPlanCommand creates the plan command with subcommands
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Price crafting targets in Focus",
		Long: `Evaluate what a crafting target costs in Focus, how many units a Focus budget
buys and which base materials a plan consumes.

The target defaults to the one saved with 'focusplanner config set-target'.
--mode selects how random yields are estimated:
  safe        - assume the worst outcome (default)
  average     - use the expected value
  optimistic  - assume the best outcome

Examples:
  focusplanner plan evaluate "Burning Powder" --units 15
  focusplanner plan max "Burning Powder" --budget 100
  focusplanner plan checklist "Burning Powder" --units 150 --csv leaves.csv
  focusplanner plan history --limit 5`,
	}

	// Add subcommands
	cmd.AddCommand(newPlanEvaluateCommand())
	cmd.AddCommand(newPlanMaxCommand())
	cmd.AddCommand(newPlanChecklistCommand())
	cmd.AddCommand(newPlanHistoryCommand())

	return cmd
}

// newPlanEvaluateCommand creates the plan evaluate subcommand
func newPlanEvaluateCommand() *cobra.Command {
	var (
		units  float64
		mode   string
		format string
		colors bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate [TARGET]",
		Short: "Compute the Focus cost of crafting a quantity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveTarget(args)
			if err != nil {
				return err
			}
			yieldMode, err := resolveMode(mode)
			if err != nil {
				return err
			}
			if format != "tree" && format != "json" && format != "compact" {
				return fmt.Errorf("invalid --format %q: expected tree, compact or json", format)
			}

			return withPlanner(cmd.Context(), func(ctx context.Context, session *plannerSession) error {
				plan, err := session.planner.Evaluate(ctx, target, units, yieldMode)
				if err != nil {
					return err
				}
				session.record(ctx, &planningCommands.RecordPlanRunCommand{Plan: plan})

				return printPlan(cmd, plan, format, colors)
			})
		},
	}

	cmd.Flags().Float64VarP(&units, "units", "u", 1, "Units of the target to craft")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Yield estimate: safe, average or optimistic")
	cmd.Flags().StringVar(&format, "format", "tree", "Output format: tree, compact or json")
	cmd.Flags().BoolVar(&colors, "color", false, "Colorize actions in tree output")

	return cmd
}

// printPlan renders an evaluated plan
func printPlan(cmd *cobra.Command, plan *planning.Plan, format string, colors bool) error {
	out := cmd.OutOrStdout()
	formatter := NewTreeFormatter(colors, colors)

	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(plan)
	case "compact":
		fmt.Fprintln(out, formatter.FormatCompactTree(plan))
	default:
		fmt.Fprintf(out, "%s x %s (%s)\n\n", formatNumber(plan.UnitsRequested), plan.Target, plan.Mode)
		fmt.Fprint(out, formatter.FormatTree(plan))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Total focus: %s\n", formatNumber(plan.TotalFocus))
		fmt.Fprintf(out, "Total time:  %s\n", formatDuration(plan.TotalTimeSeconds()))
		if verbose {
			fmt.Fprintln(out, formatter.FormatTreeSummary(plan))
		}
	}
	return nil
}

// newPlanMaxCommand creates the plan max subcommand
func newPlanMaxCommand() *cobra.Command {
	var (
		budget float64
		mode   string
	)

	cmd := &cobra.Command{
		Use:   "max [TARGET]",
		Short: "Find the most units a Focus budget can craft",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveTarget(args)
			if err != nil {
				return err
			}
			yieldMode, err := resolveMode(mode)
			if err != nil {
				return err
			}

			return withPlanner(cmd.Context(), func(ctx context.Context, session *plannerSession) error {
				result, err := session.planner.MaxCraftable(ctx, target, budget, yieldMode)
				if err != nil {
					return err
				}
				session.record(ctx, &planningCommands.RecordPlanRunCommand{Budget: result})

				printBudgetResult(cmd, result)
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&budget, "budget", "b", 0, "Focus available [required]")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Yield estimate: safe, average or optimistic")
	cmd.MarkFlagRequired("budget")

	return cmd
}

// printBudgetResult renders a max-craftable answer
func printBudgetResult(cmd *cobra.Command, result *planning.BudgetResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Target:      %s (%s)\n", result.Target, result.Mode)
	fmt.Fprintf(out, "Budget:      %s focus\n", formatNumber(result.Budget))
	if result.Unbounded {
		fmt.Fprintln(out, "Craftable:   unlimited (one unit costs no focus)")
		return
	}
	fmt.Fprintf(out, "Craftable:   %d units\n", result.Quantity)
	fmt.Fprintf(out, "Focus used:  %s\n", formatNumber(result.FocusUsed))
	fmt.Fprintf(out, "Remaining:   %s\n", formatNumber(result.Remaining()))
	if verbose {
		fmt.Fprintf(out, "Evaluations: %d\n", result.Evaluations)
	}
}

// newPlanChecklistCommand creates the plan checklist subcommand
func newPlanChecklistCommand() *cobra.Command {
	var (
		units   float64
		mode    string
		csvPath string
	)

	cmd := &cobra.Command{
		Use:   "checklist [TARGET]",
		Short: "List the base materials a plan consumes",
		Long: `List every base material (a recipe without ingredients) a plan needs, with
the units, crafts, Focus and time each one takes. Materials reached through
several branches are merged into one row.

Use --csv to write the checklist to a file instead of printing a table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveTarget(args)
			if err != nil {
				return err
			}
			yieldMode, err := resolveMode(mode)
			if err != nil {
				return err
			}

			return withPlanner(cmd.Context(), func(ctx context.Context, session *plannerSession) error {
				plan, rows, err := session.planner.Checklist(ctx, target, units, yieldMode)
				if err != nil {
					return err
				}

				if csvPath == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s x %s (%s)\n\n",
						formatNumber(plan.UnitsRequested), plan.Target, plan.Mode)
					return WriteChecklistTable(cmd.OutOrStdout(), rows)
				}

				file, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", csvPath, err)
				}
				defer file.Close()

				if err := WriteChecklistCSV(file, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d materials to %s\n", len(rows), csvPath)
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&units, "units", "u", 1, "Units of the target to craft")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Yield estimate: safe, average or optimistic")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write the checklist to this CSV file")

	return cmd
}

// newPlanHistoryCommand creates the plan history subcommand
func newPlanHistoryCommand() *cobra.Command {
	var (
		target string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent plan computations",
		Long: `Show recent evaluations and budget searches stored in the local database.
Runs answered by the daemon are stored in the daemon's database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				response, err := a.mediator.Send(ctx, &planningQueries.ListPlanRunsQuery{
					Target: target,
					Limit:  limit,
				})
				if err != nil {
					return fmt.Errorf("failed to list plan history: %w", err)
				}

				printPlanRuns(cmd, response.(*planningQueries.ListPlanRunsResponse).Runs)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Only show runs for this target")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}

// printPlanRuns renders plan history as a table
func printPlanRuns(cmd *cobra.Command, runs []*planning.PlanRun) {
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No plan history")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tKIND\tTARGET\tMODE\tQUANTITY\tBUDGET\tFOCUS\tTIME")
	for _, run := range runs {
		budget := "-"
		if run.Kind == planning.PlanRunBudget {
			budget = formatNumber(run.Budget)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Kind,
			run.Target,
			run.Mode,
			formatNumber(run.Quantity),
			budget,
			formatNumber(run.TotalFocus),
			formatDuration(run.TotalTimeSeconds),
		)
	}
	w.Flush()
}
