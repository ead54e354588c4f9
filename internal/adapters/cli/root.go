package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	useDaemon  bool
	daemonAddr string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "focusplanner",
		Short: "Focus planner - price crafting chains in Focus",
		Long: `Focus planner computes how much Focus a crafting target costs, how many
units a Focus budget buys and which base materials a plan consumes.

Recipes live in a local recipe book (SQLite or PostgreSQL). Plan commands run
in-process by default; pass --daemon to ask a running focusplanner-daemon.

Examples:
  focusplanner recipe import recipes.yaml
  focusplanner plan evaluate "Burning Powder" --units 15
  focusplanner plan max "Burning Powder" --budget 100 --mode average
  focusplanner plan checklist "Burning Powder" --units 150 --csv leaves.csv
  focusplanner config set-mode optimistic`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./config.yaml, ./configs, /etc/focusplanner)")
	rootCmd.PersistentFlags().BoolVar(&useDaemon, "daemon", false,
		"Send plan commands to the planner daemon instead of computing locally")
	rootCmd.PersistentFlags().StringVar(&daemonAddr, "daemon-addr", getDefaultDaemonAddr(),
		"Planner daemon address (host:port or unix:///path); empty uses daemon.address from config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewRecipeCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewDaemonCommand())

	return rootCmd
}

// getDefaultDaemonAddr returns the daemon address override from the environment
func getDefaultDaemonAddr() string {
	return os.Getenv("FOCUSPLANNER_DAEMON")
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
