package pulsewatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pulsewatch/dashboard"
	"github.com/jpalmerr/pulsewatch/internal/poller"
	"github.com/jpalmerr/pulsewatch/internal/server"
	"github.com/jpalmerr/pulsewatch/internal/store"
)

const (
	// DefaultBaseURL is the research backend polled when no base URL is configured.
	DefaultBaseURL = "https://ai-consciousness-researcher.arashparnia.workers.dev"

	defaultPollingInterval = poller.DefaultInterval
	defaultTimeout         = 10 * time.Second
	defaultPort            = 8080
	maxLogCapacity         = 1000
)

// Timer schedules the recurring poll. See [WithTimer].
type Timer = poller.Timer

// TimerHandle cancels a schedule created by a [Timer].
type TimerHandle = poller.TimerHandle

// ManualTimer is a [Timer] that fires only when told to.
type ManualTimer = poller.ManualTimer

// NewManualTimer returns a [ManualTimer] with no schedules.
func NewManualTimer() *ManualTimer {
	return poller.NewManualTimer()
}

// Watcher keeps a local view of the research backend's status.
//
// Watcher polls the backend once immediately and then at a fixed interval,
// records every attempt and outcome in a bounded event log, and can ask the
// backend to start a new research cycle. It is created using [New] with
// functional options.
//
// The typical lifecycle is:
//
//	w, err := pulsewatch.New(pulsewatch.WithBaseURL("http://localhost:8787"))
//	if err != nil {
//	    slog.Error("failed to create watcher", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	w.Serve(ctx) // blocks until context cancelled
//
// Embedders that render the state themselves call [Watcher.Start] and read
// [Watcher.State] or [Watcher.Subscribe] instead of Serve.
type Watcher struct {
	title           string
	baseURL         string
	pollingInterval time.Duration
	port            int
	logger          *slog.Logger
	stateCallbacks  []func(State)

	store   *store.MemoryStore
	backend *poller.HTTPBackend
	poller  *poller.StatusPoller
}

// New creates a new [Watcher] with the given options.
//
// Defaults:
//   - Base URL: [DefaultBaseURL]
//   - Polling interval: 3 seconds
//   - Request timeout: 10 seconds
//   - Log capacity: 50 entries
//   - Port: 8080
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Watcher, error) {
	cfg := &wConfig{
		baseURL:         DefaultBaseURL,
		pollingInterval: defaultPollingInterval,
		timeout:         defaultTimeout,
		headers:         make(map[string]string),
		logCapacity:     store.DefaultLogCapacity,
		port:            defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		title:           cfg.title,
		baseURL:         cfg.baseURL,
		pollingInterval: cfg.pollingInterval,
		port:            cfg.port,
		logger:          logger,
		stateCallbacks:  cfg.stateCallbacks,
		store:           store.NewMemoryStore(cfg.logCapacity),
	}

	client := poller.NewClient(cfg.baseURL, cfg.headers, cfg.timeout)
	w.backend = poller.NewHTTPBackend(client, cfg.statusPath, cfg.triggerPath)

	p, err := poller.New(poller.Config{
		Backend:  w.backend,
		Store:    w.store,
		Interval: cfg.pollingInterval,
		Timer:    cfg.timer,
		Logger:   logger,
		OnUpdate: w.dispatchState,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create poller: %w", err)
	}
	w.poller = p

	return w, nil
}

// Start issues an immediate fetch and then polls at the configured interval.
//
// Start is non-blocking and idempotent. Cancelling ctx stops polling, as
// does [Watcher.Stop]. A Watcher cannot be restarted once stopped.
func (w *Watcher) Start(ctx context.Context) {
	w.poller.Start(ctx)
}

// Stop cancels the polling timer. No fetch starts after Stop returns, but
// fetches already in flight still complete and update the state.
func (w *Watcher) Stop() {
	w.poller.Stop()
}

// Wait blocks until all in-flight fetches have completed.
func (w *Watcher) Wait() {
	w.poller.Wait()
}

// Close stops polling, waits for in-flight fetches and releases idle
// backend connections.
func (w *Watcher) Close() {
	w.poller.Stop()
	w.poller.Wait()
	w.backend.Close()
}

// Trigger asks the backend to start a new research cycle.
//
// It returns false without contacting the backend if the last known status
// is active. Otherwise it blocks until the request completes and returns
// true; the outcome, success or failure, is recorded in the event log.
func (w *Watcher) Trigger(ctx context.Context) bool {
	return w.poller.TriggerAction(ctx)
}

// State returns a copy of the current state.
func (w *Watcher) State() State {
	return stateFromStore(w.store.Get())
}

// Subscribe returns a channel that receives the state after each change,
// and a function that ends the subscription and closes the channel.
//
// The channel holds at most one pending state. A slow reader never blocks
// the watcher; it skips intermediate states and sees the latest one.
func (w *Watcher) Subscribe() (<-chan State, func()) {
	src := w.store.Subscribe()
	out := make(chan State, 1)

	go func() {
		defer close(out)
		for st := range src {
			s := stateFromStore(st)
			select {
			case out <- s:
			default:
				// replace the pending state with the newer one
				select {
				case <-out:
				default:
				}
				out <- s
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() { w.store.Unsubscribe(src) })
	}
}

// Serve polls the backend and serves the dashboard until ctx is cancelled.
//
// During execution:
//
//   - The HTTP server listens on the configured port
//   - The backend is polled immediately, then at the configured interval
//   - The dashboard is available at http://localhost:<port>
//
// On cancellation Serve stops polling, waits for in-flight fetches and
// shuts the server down before returning.
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails to start.
func (w *Watcher) Serve(ctx context.Context) error {
	w.logger.Info("pulsewatch starting", "base_url", w.baseURL)
	w.logger.Info("polling configured", "interval", w.pollingInterval.String())
	w.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", w.port))

	if ctx.Err() != nil {
		return nil
	}

	httpServer := server.NewServer(w.store, w.Trigger, w.port, dashboard.Assets, w.title, w.logger)
	done, err := httpServer.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	w.Start(ctx)

	<-ctx.Done()
	w.Close()
	<-done
	w.logger.Info("pulsewatch stopped")
	return nil
}

// BaseURL returns the configured backend root URL.
func (w *Watcher) BaseURL() string {
	return w.baseURL
}

// Port returns the configured HTTP port for the dashboard server.
func (w *Watcher) Port() int {
	return w.port
}

// PollingInterval returns the configured interval between fetches.
func (w *Watcher) PollingInterval() time.Duration {
	return w.pollingInterval
}

// Title returns the configured dashboard title, which may be empty.
func (w *Watcher) Title() string {
	return w.title
}

// dispatchState fans a store change out to the registered callbacks.
func (w *Watcher) dispatchState(st store.State) {
	if len(w.stateCallbacks) == 0 {
		return
	}
	public := stateFromStore(st)
	for _, cb := range w.stateCallbacks {
		invokeCallbackSafe(cb, public, w.logger)
	}
}

// invokeCallbackSafe calls a state callback with panic recovery.
// Panics are logged with a correlation ID but do not propagate.
func invokeCallbackSafe(cb func(State), state State, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("state callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(state)
}
