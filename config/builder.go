package config

import (
	"log/slog"
	"sort"

	"github.com/jpalmerr/pulsewatch"
)

// BuildOptions converts parsed configuration into SDK options.
//
// Fields left empty fall back to the SDK defaults. The logger is passed
// through unchanged so callers decide where logs go.
func BuildOptions(cfg *Config, logger *slog.Logger) []pulsewatch.Option {
	opts := []pulsewatch.Option{
		pulsewatch.WithPort(cfg.Port),
		pulsewatch.WithPollingInterval(cfg.PollInterval.Duration()),
		pulsewatch.WithLogCapacity(cfg.LogCapacity),
	}

	if cfg.Title != "" {
		opts = append(opts, pulsewatch.WithTitle(cfg.Title))
	}

	if cfg.BaseURL != "" {
		opts = append(opts, pulsewatch.WithBaseURL(cfg.BaseURL))
	}

	if cfg.StatusPath != "" {
		opts = append(opts, pulsewatch.WithStatusPath(cfg.StatusPath))
	}

	if cfg.TriggerPath != "" {
		opts = append(opts, pulsewatch.WithTriggerPath(cfg.TriggerPath))
	}

	if cfg.Timeout != 0 {
		opts = append(opts, pulsewatch.WithTimeout(cfg.Timeout.Duration()))
	}

	if len(cfg.Headers) > 0 {
		opts = append(opts, pulsewatch.WithHeaders(mapToKeyValuePairs(cfg.Headers)...))
	}

	if logger != nil {
		opts = append(opts, pulsewatch.WithLogger(logger))
	}

	return opts
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
