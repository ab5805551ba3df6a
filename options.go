package pulsewatch

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// wConfig holds mutable state during Watcher construction.
type wConfig struct {
	title           string
	baseURL         string
	statusPath      string
	triggerPath     string
	pollingInterval time.Duration
	timeout         time.Duration
	headers         map[string]string
	logCapacity     int
	port            int
	logger          *slog.Logger
	timer           Timer
	stateCallbacks  []func(State)
}

// Option is a function that configures a [Watcher] during construction.
//
// Option implements the functional options pattern. Options return an
// error if validation fails, and [New] returns the first such error.
type Option func(*wConfig) error

// WithBaseURL sets the backend root URL. The status and trigger paths are
// joined onto it.
//
// Defaults to [DefaultBaseURL].
//
// Returns an error if the URL is not an absolute http or https URL.
func WithBaseURL(rawURL string) Option {
	return func(cfg *wConfig) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base URL must use http or https, got %q", rawURL)
		}
		if u.Host == "" {
			return fmt.Errorf("base URL has no host: %q", rawURL)
		}
		cfg.baseURL = rawURL
		return nil
	}
}

// WithStatusPath overrides the path polled for status ("/status").
func WithStatusPath(path string) Option {
	return func(cfg *wConfig) error {
		if path == "" {
			return errors.New("status path cannot be empty")
		}
		cfg.statusPath = path
		return nil
	}
}

// WithTriggerPath overrides the path that starts a research cycle
// ("/trigger-research").
func WithTriggerPath(path string) Option {
	return func(cfg *wConfig) error {
		if path == "" {
			return errors.New("trigger path cannot be empty")
		}
		cfg.triggerPath = path
		return nil
	}
}

// WithPollingInterval sets the time between status fetches.
// Defaults to 3 seconds.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *wConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithTimeout sets the per-request HTTP timeout. Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *wConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithHeaders adds HTTP headers sent with every backend request.
//
// Headers are specified as alternating key-value pairs:
//
//	pulsewatch.WithHeaders("Authorization", "Bearer token", "X-Client", "pulsewatch")
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) Option {
	return func(cfg *wConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithLogCapacity sets how many event log entries are retained.
// Defaults to 50.
//
// Returns an error if n is outside 1..1000.
func WithLogCapacity(n int) Option {
	return func(cfg *wConfig) error {
		if n < 1 || n > maxLogCapacity {
			return fmt.Errorf("log capacity must be between 1 and %d, got %d", maxLogCapacity, n)
		}
		cfg.logCapacity = n
		return nil
	}
}

// WithPort sets the HTTP port used by [Watcher.Serve]. Defaults to 8080.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *wConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard title. Defaults to "PulseWatch".
func WithTitle(title string) Option {
	return func(cfg *wConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *wConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithTimer replaces the ticker that drives polling.
//
// Tests pass a [ManualTimer] to fire poll ticks on demand.
//
// Returns an error if the timer is nil.
func WithTimer(t Timer) Option {
	return func(cfg *wConfig) error {
		if t == nil {
			return errors.New("timer cannot be nil")
		}
		cfg.timer = t
		return nil
	}
}

// WithStateCallback registers a function called after every state change:
// each log entry, snapshot update and error.
//
// Multiple callbacks run in registration order. Callbacks run on the
// goroutine that made the change and must not block. Panics are recovered
// and logged.
//
// Example:
//
//	w, err := pulsewatch.New(
//	    pulsewatch.WithStateCallback(func(s pulsewatch.State) {
//	        if s.Error != "" {
//	            log.Printf("backend error: %s", s.Error)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithStateCallback(cb func(State)) Option {
	return func(cfg *wConfig) error {
		if cb == nil {
			return nil
		}
		cfg.stateCallbacks = append(cfg.stateCallbacks, cb)
		return nil
	}
}
