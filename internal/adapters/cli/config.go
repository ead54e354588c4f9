package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage focus planner configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (FP_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default yield mode and target) are stored in
~/.focusplanner/config.json

Examples:
  focusplanner config show
  focusplanner config set-mode average
  focusplanner config set-target "Burning Powder"
  focusplanner config clear`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetModeCommand())
	cmd.AddCommand(newConfigSetTargetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the current configuration settings.

Shows both system configuration and user preferences.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Load system config
			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			// Load user config
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			printConfig(cmd, cfg, userCfg, userConfigHandler.GetConfigPath())
			return nil
		},
	}

	return cmd
}

// printConfig renders system and user configuration
func printConfig(cmd *cobra.Command, cfg *config.Config, userCfg *config.UserConfig, userPath string) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Focus Planner Configuration")
	fmt.Fprintln(out, "===========================")

	fmt.Fprintln(out, "User Preferences:")
	fmt.Fprintf(out, "  Config file:      %s\n", userPath)
	fmt.Fprintf(out, "  Default Mode:     %s\n", valueOrUnset(userCfg.DefaultMode))
	fmt.Fprintf(out, "  Default Target:   %s\n", valueOrUnset(userCfg.DefaultTarget))

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
	}
	fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

	fmt.Fprintln(out, "\nPlanner:")
	fmt.Fprintf(out, "  Default Mode:     %s\n", cfg.Planner.DefaultMode)
	fmt.Fprintf(out, "  Search Ceiling:   %d\n", cfg.Planner.SearchCeiling)
	fmt.Fprintf(out, "  Recipe File:      %s\n", valueOrUnset(cfg.Planner.RecipeFile))

	policy := cfg.Profile.Policy()
	fmt.Fprintln(out, "\nProfile:")
	if policy.IsIdentity() {
		fmt.Fprintln(out, "  (no bonuses)")
	} else {
		fmt.Fprintf(out, "  Focus Cost:       x%s\n", formatNumber(multiplierOrOne(cfg.Profile.FocusCostMultiplier)))
		fmt.Fprintf(out, "  Craft Time:       x%s\n", formatNumber(multiplierOrOne(cfg.Profile.TimeMultiplier)))
		fmt.Fprintf(out, "  Yield Bonus:      %s%%\n", formatNumber(cfg.Profile.YieldBonusPercent))
		for _, name := range sortedKeys(cfg.Profile.MaterialYieldBonus) {
			fmt.Fprintf(out, "    %s: %s%%\n", name, formatNumber(cfg.Profile.MaterialYieldBonus[name]))
		}
	}

	fmt.Fprintln(out, "\nDaemon:")
	fmt.Fprintf(out, "  Address:          %s\n", cfg.Daemon.Address)
	fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)
	fmt.Fprintf(out, "  Shutdown Timeout: %s\n", cfg.Daemon.ShutdownTimeout)
	fmt.Fprintf(out, "  Rate Limit:       %d req/s (burst: %d)\n",
		cfg.Daemon.RateLimit.Requests, cfg.Daemon.RateLimit.Burst)

	fmt.Fprintln(out, "\nMetrics:")
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  Endpoint:         http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	} else {
		fmt.Fprintln(out, "  (disabled)")
	}

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)
}

func valueOrUnset(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(not set)"
	}
	return v
}

func multiplierOrOne(m float64) float64 {
	if m == 0 {
		return 1
	}
	return m
}

// newConfigSetModeCommand creates the config set-mode subcommand
func newConfigSetModeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-mode MODE",
		Short: "Set the default yield mode",
		Long: `Set the yield mode plan commands use when --mode is not given.

Modes: safe, average, optimistic (min, avg and max are accepted too).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.SetDefaultMode(args[0]); err != nil {
				return fmt.Errorf("failed to set default mode: %w", err)
			}

			userCfg, err := userConfigHandler.Load()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default mode set successfully")
			fmt.Fprintf(cmd.OutOrStdout(), "  Mode: %s\n", userCfg.DefaultMode)
			return nil
		},
	}

	return cmd
}

// newConfigSetTargetCommand creates the config set-target subcommand
func newConfigSetTargetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-target TARGET",
		Short: "Set the default plan target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.SetDefaultTarget(args[0]); err != nil {
				return fmt.Errorf("failed to set default target: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default target set successfully")
			fmt.Fprintf(cmd.OutOrStdout(), "  Target: %s\n", args[0])
			fmt.Fprintln(cmd.OutOrStdout(), "\nPlan commands will now use this target when none is given.")
			return nil
		},
	}

	return cmd
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear user preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.Clear(); err != nil {
				return fmt.Errorf("failed to clear user config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ User preferences cleared")
			return nil
		},
	}

	return cmd
}
