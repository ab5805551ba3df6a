// Package mockbackend is an in-memory research backend for demos and tests.
//
// It serves GET /status and POST /trigger-research. A trigger moves the
// backend from idle to active; the cycle walks through a fixed list of
// research steps and returns to idle when it finishes.
package mockbackend

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const defaultCycle = 30 * time.Second

// researchSteps are reported as current_action while a cycle runs.
var researchSteps = []string{
	"Searching literature",
	"Reading papers",
	"Running experiments",
	"Synthesising findings",
	"Writing report",
}

// Backend simulates the research backend.
type Backend struct {
	mu          sync.Mutex
	status      string
	action      string
	updated     time.Time
	startedAt   time.Time
	activeUntil time.Time

	cycle    time.Duration
	failRate float64
	now      func() time.Time
	logger   *slog.Logger
	mux      *http.ServeMux
}

// Option configures a [Backend].
type Option func(*Backend)

// WithCycle sets how long a research cycle stays active. Defaults to 30s.
func WithCycle(d time.Duration) Option {
	return func(b *Backend) {
		if d > 0 {
			b.cycle = d
		}
	}
}

// WithFailureRate makes that fraction of status requests fail, half with
// HTTP 503 and half with "success": false.
func WithFailureRate(rate float64) Option {
	return func(b *Backend) {
		b.failRate = rate
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// WithLogger sets the logger for state changes.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

// New creates an idle [Backend].
func New(opts ...Option) *Backend {
	b := &Backend{
		cycle:  defaultCycle,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.status = "idle"
	b.action = "none"
	b.updated = b.now()

	b.mux = http.NewServeMux()
	b.mux.HandleFunc("GET /status", b.handleStatus)
	b.mux.HandleFunc("POST /trigger-research", b.handleTrigger)
	return b
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

// Status returns the current status and action.
func (b *Backend) Status() (status, action string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advanceLocked()
	return b.status, b.action
}

// advanceLocked moves an active cycle forward to the current time.
func (b *Backend) advanceLocked() {
	if b.status != "active" {
		return
	}

	now := b.now()
	if !now.Before(b.activeUntil) {
		b.status = "idle"
		b.action = "none"
		b.updated = now
		b.logger.Info("research cycle finished")
		return
	}

	step := int(now.Sub(b.startedAt) * time.Duration(len(researchSteps)) / b.cycle)
	if action := researchSteps[step]; action != b.action {
		b.action = action
		b.updated = now
		b.logger.Info("research step", "action", action)
	}
}

func (b *Backend) handleStatus(w http.ResponseWriter, r *http.Request) {
	if b.failRate > 0 && rand.Float64() < b.failRate {
		if rand.Intn(2) == 0 {
			http.Error(w, "backend overloaded", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "simulated failure"})
		return
	}

	b.mu.Lock()
	b.advanceLocked()
	data := map[string]any{
		"status":         b.status,
		"current_action": b.action,
		"last_updated":   b.updated.UTC().Format(time.RFC3339),
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (b *Backend) handleTrigger(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.advanceLocked()
	if b.status == "active" {
		b.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": "research already active"})
		return
	}

	now := b.now()
	b.status = "active"
	b.action = researchSteps[0]
	b.startedAt = now
	b.activeUntil = now.Add(b.cycle)
	b.updated = now
	b.mu.Unlock()

	b.logger.Info("research cycle started", "duration", b.cycle.String())
	writeJSON(w, http.StatusAccepted, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
