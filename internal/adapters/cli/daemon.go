package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/focusplanner/internal/infrastructure/pidfile"
)

// NewDaemonCommand creates the daemon command with subcommands
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Inspect and control the planner daemon",
		Long: `Inspect and control a running focusplanner-daemon.

The daemon keeps the recipe book in memory and answers plan commands sent
with --daemon. Start it with the focusplanner-daemon binary.

Examples:
  focusplanner daemon status
  focusplanner daemon reload`,
	}

	// Add subcommands
	cmd.AddCommand(newDaemonStatusCommand())
	cmd.AddCommand(newDaemonReloadCommand())

	return cmd
}

// newDaemonStatusCommand creates the daemon status subcommand
func newDaemonStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the daemon is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pid, err := pidfile.New(cfg.Daemon.PIDFile).RunningPID()
			if errors.Is(err, pidfile.ErrNotRunning) {
				fmt.Fprintln(out, "Daemon:  not running")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Daemon:  running")
			fmt.Fprintf(out, "PID:     %d\n", pid)
			fmt.Fprintf(out, "Address: %s\n", cfg.Daemon.Address)
			return nil
		},
	}

	return cmd
}

// newDaemonReloadCommand creates the daemon reload subcommand
func newDaemonReloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Make the daemon re-read the recipe book from the database",
		Long: `Make the daemon re-read the recipe book. Run this after editing recipes
with the local CLI so daemon answers use the new numbers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			loaded, dropped, err := client.Reload(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to reload daemon: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Daemon reloaded %d recipes\n", loaded)
			if len(dropped) > 0 {
				fmt.Fprintf(out, "Skipped %d malformed entries:\n  - %s\n", len(dropped), strings.Join(dropped, "\n  - "))
			}
			return nil
		},
	}

	return cmd
}
