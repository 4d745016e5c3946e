package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds the dizin.yaml configuration.
type Config struct {
	// Relaxed suppresses mandatory reference errors while linking.
	Relaxed bool `yaml:"relaxed"`
	// Schemas lists schema files loaded before any files given on the
	// command line.
	Schemas []string `yaml:"schemas"`
}

// loadConfig loads .env, the configuration file and environment
// overrides, in that order. A missing dizin.yaml is not an error.
// Priority (highest to lowest): CLI flags > environment > dizin.yaml.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if path == "" {
		path = "dizin.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No project config, continue with defaults.
	default:
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if v := os.Getenv("DIZIN_RELAXED"); v != "" {
		relaxed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DIZIN_RELAXED value %q: %w", v, err)
		}
		cfg.Relaxed = relaxed
	}

	if cmd.Flags().Changed("relaxed") {
		cfg.Relaxed, _ = cmd.Flags().GetBool("relaxed")
	}

	return cfg, nil
}
