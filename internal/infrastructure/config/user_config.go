package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// UserConfig represents CLI preferences stored in ~/.focusplanner/config.json.
// Profile multipliers never live here; they belong to the main config.
type UserConfig struct {
	// Yield mode used when --mode is not given
	DefaultMode string `json:"default_mode,omitempty"`

	// Target used when plan commands are run without one
	DefaultTarget string `json:"default_target,omitempty"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler rooted at the user's home directory
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".focusplanner"))
}

// NewUserConfigHandlerAt creates a handler storing config.json under dir
func NewUserConfigHandlerAt(dir string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &UserConfigHandler{
		configPath: filepath.Join(dir, "config.json"),
	}, nil
}

// Load reads the user config from disk
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return &config, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetDefaultMode stores the default yield mode after checking it parses
func (h *UserConfigHandler) SetDefaultMode(mode string) error {
	parsed, err := recipe.ParseYieldMode(mode)
	if err != nil {
		return err
	}

	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultMode = strings.ToLower(string(parsed))
	return h.Save(config)
}

// SetDefaultTarget stores the default plan target
func (h *UserConfigHandler) SetDefaultTarget(target string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultTarget = strings.TrimSpace(target)
	return h.Save(config)
}

// Clear removes every stored preference
func (h *UserConfigHandler) Clear() error {
	return h.Save(&UserConfig{})
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
