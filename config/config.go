// Package config provides YAML configuration parsing for PulseWatch.
//
// This package enables running PulseWatch as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Consciousness Research
//	port: 8080
//	base_url: ${RESEARCH_URL:-http://localhost:8787}
//	poll_interval: 3s
//	timeout: 5s
//	log_capacity: 50
//
//	headers:
//	  Authorization: Bearer ${RESEARCH_TOKEN}
//
//	log_level: info
//	log_file: /tmp/pulsewatch.log
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// minPollInterval prevents accidental hammering of the backend.
	minPollInterval = 100 * time.Millisecond

	defaultPort         = 8080
	defaultPollInterval = 3 * time.Second
	defaultTimeout      = 10 * time.Second
	defaultLogCapacity  = 50
	maxLogCapacity      = 1000
)

// Config is the root configuration structure for PulseWatch.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "PulseWatch" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port used by "serve". Defaults to 8080.
	Port int `yaml:"port"`

	// BaseURL is the research backend root.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	// Defaults to the SDK's built-in backend when empty.
	BaseURL string `yaml:"base_url"`

	// StatusPath overrides the polled path ("/status").
	StatusPath string `yaml:"status_path"`

	// TriggerPath overrides the trigger path ("/trigger-research").
	TriggerPath string `yaml:"trigger_path"`

	// PollInterval is the time between status fetches.
	// Accepts duration strings like "3s", "500ms". Defaults to 3s.
	PollInterval Duration `yaml:"poll_interval"`

	// Timeout is the per-request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// LogCapacity is the number of event log entries kept. Defaults to 50.
	LogCapacity int `yaml:"log_capacity"`

	// Headers are custom HTTP headers sent with each backend request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`

	// LogLevel is one of debug, info, warn or error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// LogFile receives operational logs in "watch" mode, where the
	// terminal is owned by the UI. Empty discards them.
	LogFile string `yaml:"log_file"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return submatches[3]
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in BaseURL and Header values.
// Defaults are applied for Port, PollInterval, Timeout and LogCapacity.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(defaultPollInterval)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = Duration(defaultTimeout)
	}
	if cfg.LogCapacity == 0 {
		cfg.LogCapacity = defaultLogCapacity
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	if c.Timeout.Duration() < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", c.Timeout.Duration())
	}

	if c.LogCapacity < 1 || c.LogCapacity > maxLogCapacity {
		return fmt.Errorf("log_capacity must be between 1 and %d, got %d", maxLogCapacity, c.LogCapacity)
	}

	if c.BaseURL != "" {
		expanded, err := expandEnvVars(c.BaseURL)
		if err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
		c.BaseURL = expanded

		parsedURL, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		if parsedURL.Scheme == "" {
			return fmt.Errorf("base_url must have a scheme (http:// or https://)")
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("base_url scheme must be http or https, got %q", parsedURL.Scheme)
		}
	}

	for name, path := range map[string]string{"status_path": c.StatusPath, "trigger_path": c.TriggerPath} {
		if path != "" && !strings.HasPrefix(path, "/") {
			return fmt.Errorf("%s must start with /, got %q", name, path)
		}
	}

	for k, v := range c.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("headers[%s]: %w", k, err)
		}
		c.Headers[k] = expanded
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel converts a level name to a slog.Level.
// The empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q (expected debug, info, warn or error)", s)
	}
}
