package cli

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
)

// loadUserConfig reads CLI preferences, treating a broken file as empty
func loadUserConfig() *config.UserConfig {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return &config.UserConfig{}
	}
	userCfg, err := handler.Load()
	if err != nil {
		return &config.UserConfig{}
	}
	return userCfg
}

// resolveTarget picks the target from args, falling back to the user default
// Priority: positional argument > user config default
func resolveTarget(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	if target := loadUserConfig().DefaultTarget; target != "" {
		return target, nil
	}
	return "", fmt.Errorf("no target specified: pass one, or set a default with 'focusplanner config set-target'")
}

// resolveMode parses --mode, falling back to the user default.
// An empty result means the planner's configured default applies.
func resolveMode(flag string) (recipe.YieldMode, error) {
	if flag != "" {
		return recipe.ParseYieldMode(flag)
	}
	if mode := loadUserConfig().DefaultMode; mode != "" {
		return recipe.ParseYieldMode(mode)
	}
	return "", nil
}

// parseQuantities parses repeated NAME=QTY flags
func parseQuantities(values []string, flagName string) (map[string]float64, error) {
	if len(values) == 0 {
		return nil, nil
	}

	result := make(map[string]float64, len(values))
	for _, value := range values {
		idx := strings.LastIndex(value, "=")
		if idx <= 0 || idx == len(value)-1 {
			return nil, fmt.Errorf("invalid --%s %q: expected NAME=QUANTITY", flagName, value)
		}

		name := strings.TrimSpace(value[:idx])
		qty, err := strconv.ParseFloat(strings.TrimSpace(value[idx+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q: %w", flagName, value, err)
		}
		result[name] = qty
	}
	return result, nil
}

// formatDuration renders seconds as "45s", "2m 50s" or "3h 05m 10s"
func formatDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) {
		return "0s"
	}

	d := time.Duration(math.Round(seconds)) * time.Second
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	secs := int((d % time.Minute) / time.Second)

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %02ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// formatNumber prints whole numbers without decimals and everything else with two
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strings.TrimRight(strings.TrimRight(strconv.FormatFloat(v, 'f', 2, 64), "0"), ".")
}

// sortedKeys returns map keys in ascending order
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// maskPassword hides the password of a postgres URL for display
func maskPassword(url string) string {
	schemeEnd := strings.Index(url, "://")
	at := strings.LastIndex(url, "@")
	if schemeEnd < 0 || at < schemeEnd {
		return url
	}

	credentials := url[schemeEnd+3 : at]
	colon := strings.Index(credentials, ":")
	if colon < 0 {
		return url
	}
	return url[:schemeEnd+3] + credentials[:colon] + ":****" + url[at:]
}
