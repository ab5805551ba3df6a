package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/pulsewatch"
	"github.com/jpalmerr/pulsewatch/config"
)

// validateCmd validates a config file without starting the watcher.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a PulseWatch configuration file without polling.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  pulsewatch validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = pulsewatch.DefaultBaseURL + " (default)"
	}
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "(discarded)"
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Base URL:      %s\n", baseURL)
	fmt.Printf("  Port:          %d\n", cfg.Port)
	fmt.Printf("  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Printf("  Timeout:       %s\n", cfg.Timeout.Duration())
	fmt.Printf("  Log capacity:  %d\n", cfg.LogCapacity)
	fmt.Printf("  Headers:       %d\n", len(cfg.Headers))
	fmt.Printf("  Watch log:     %s\n", logFile)

	return nil
}
