package poller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pulsewatch/internal/store"
)

const (
	// DefaultInterval is the time between status polls.
	DefaultInterval = 3 * time.Second

	// DefaultStatusPath is the backend path polled for status.
	DefaultStatusPath = "/status"

	// DefaultTriggerPath is the backend path that starts a research cycle.
	DefaultTriggerPath = "/trigger-research"

	// actionErrorMessage is the user-visible error after a failed trigger.
	actionErrorMessage = "Failed to trigger research"
)

// FetchResult is the outcome of one status fetch.
// Err is nil on success, in which case Snapshot is fully populated.
type FetchResult struct {
	Snapshot store.Snapshot
	Err      error
}

// Config holds the collaborators of a [StatusPoller].
type Config struct {
	// Backend is the remote status/trigger API. Required.
	Backend Backend

	// Store receives every state change. Required.
	Store store.Store

	// Interval between polls. Defaults to [DefaultInterval].
	Interval time.Duration

	// Timer schedules the recurring poll. Defaults to [TickerTimer].
	Timer Timer

	// Logger for operational events. Defaults to a discarding logger.
	Logger *slog.Logger

	// OnUpdate, if set, is called after every state change the poller makes.
	// Panics are recovered and logged.
	OnUpdate func(store.State)

	// Now returns the current time for log timestamps. Defaults to time.Now.
	Now func() time.Time
}

// StatusPoller keeps a best-effort local view of the backend's status.
//
// It polls immediately on [StatusPoller.Start] and then once per interval.
// Each poll runs on its own goroutine: a slow response never delays the next
// tick, overlapping requests are allowed, and whichever response resolves
// last wins. Failures are recorded in the store and never returned.
//
// All lifecycle methods (Start, Stop, Wait) are safe for concurrent use.
type StatusPoller struct {
	backend  Backend
	store    store.Store
	interval time.Duration
	timer    Timer
	logger   *slog.Logger
	onUpdate func(store.State)
	now      func() time.Time

	mu        sync.Mutex
	started   bool
	stopped   bool
	handle    TimerHandle
	stopWatch func() bool
	inflight  sync.WaitGroup
}

// New creates a [StatusPoller]. It returns an error if Backend or Store is nil.
func New(cfg Config) (*StatusPoller, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	p := &StatusPoller{
		backend:  cfg.Backend,
		store:    cfg.Store,
		interval: cfg.Interval,
		timer:    cfg.Timer,
		logger:   cfg.Logger,
		onUpdate: cfg.OnUpdate,
		now:      cfg.Now,
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	if p.timer == nil {
		p.timer = TickerTimer{}
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Start issues an immediate fetch and schedules one fetch per interval.
//
// Start is non-blocking. Requests inherit ctx, so cancelling it aborts
// in-flight requests and also stops the poller. If ctx is nil,
// context.Background() is used.
//
// Start is idempotent; subsequent calls after the first are no-ops.
// If Stop was called before Start, Start is a no-op. If ctx is already
// cancelled, Start stops the poller without fetching.
func (p *StatusPoller) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		p.Stop()
		return
	}

	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.handle = p.timer.Schedule(p.interval, func() { p.dispatch(ctx) })
	p.stopWatch = context.AfterFunc(ctx, p.Stop)
	p.mu.Unlock()

	p.logger.Info("poller started", "interval", p.interval.String())
	p.dispatch(ctx)
}

// Stop cancels the recurring timer.
//
// No new fetch is issued once Stop returns. Requests already in flight are
// not cancelled; their results are still recorded. Use [StatusPoller.Wait]
// to block until they finish.
//
// Stop is idempotent and safe to call before Start.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	handle := p.handle
	stopWatch := p.stopWatch
	p.mu.Unlock()

	if stopWatch != nil {
		stopWatch()
	}
	if handle != nil {
		handle.Cancel()
	}
	p.logger.Info("poller stopped")
}

// Wait blocks until every dispatched fetch has completed.
// Call it after Stop; otherwise new ticks may keep it waiting.
func (p *StatusPoller) Wait() {
	p.inflight.Wait()
}

// State returns a copy of the current store state.
func (p *StatusPoller) State() store.State {
	return p.store.Get()
}

// dispatch runs one poll on its own goroutine unless the poller is stopped.
func (p *StatusPoller) dispatch(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.inflight.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.inflight.Done()
		p.poll(ctx)
	}()
}

// poll performs a single fetch and records its outcome.
func (p *StatusPoller) poll(ctx context.Context) {
	p.appendLog(store.LogInfo, "Fetching status...")

	start := p.now()
	snapshot, err := p.backend.FetchStatus(ctx)
	p.logger.Debug("status fetch returned", "latency_ms", p.now().Sub(start).Milliseconds())

	p.HandleFetchResult(FetchResult{Snapshot: snapshot, Err: err})
}

// HandleFetchResult records the outcome of a fetch.
//
// On success the snapshot is replaced, a success entry is logged and the
// error is cleared. On failure an error entry is logged and the error is set;
// the previous snapshot, if any, is kept.
func (p *StatusPoller) HandleFetchResult(res FetchResult) {
	if res.Err != nil {
		msg := res.Err.Error()
		state := p.store.RecordFailure(msg, p.newEntry(store.LogError, "Error: "+msg))
		p.logger.Warn("status fetch failed", "error", msg)
		p.notify(state)
		return
	}

	snapshot := res.Snapshot
	snapshot.Status = NormalizeStatus(snapshot.Status)
	state := p.store.RecordSuccess(snapshot, p.newEntry(store.LogSuccess, "Status updated: "+snapshot.Status))
	p.logger.Debug("status updated",
		"status", snapshot.Status,
		"current_action", snapshot.CurrentAction,
		"last_updated", snapshot.LastUpdated,
	)
	p.notify(state)
}

// TriggerAction asks the backend to start a new research cycle.
//
// It returns false, without sending a request or logging, when the current
// status is "active". Otherwise it logs the attempt, performs the request
// and logs the outcome, returning true. A failure sets the error state but is
// never returned. The snapshot is not modified; the next poll observes the
// effect. TriggerAction blocks until the request completes.
func (p *StatusPoller) TriggerAction(ctx context.Context) bool {
	if current := p.store.Get().Snapshot; current != nil && current.Status == store.StatusActive {
		p.logger.Debug("trigger skipped", "reason", "research already active")
		return false
	}

	p.appendLog(store.LogInfo, "Triggering new research cycle...")

	if err := p.backend.TriggerResearch(ctx); err != nil {
		state := p.store.RecordFailure(actionErrorMessage,
			p.newEntry(store.LogError, "Failed to trigger research: "+err.Error()))
		p.logger.Warn("trigger failed", "error", err.Error())
		p.notify(state)
		return true
	}

	p.appendLog(store.LogSuccess, "Research cycle triggered")
	p.logger.Info("research cycle triggered")
	return true
}

func (p *StatusPoller) appendLog(typ, msg string) {
	p.notify(p.store.AppendLog(p.newEntry(typ, msg)))
}

func (p *StatusPoller) newEntry(typ, msg string) store.LogEntry {
	return store.LogEntry{
		ID:        uuid.NewString(),
		Message:   msg,
		Type:      typ,
		Timestamp: p.now(),
	}
}

// notify calls OnUpdate with panic recovery.
// If the callback panics, the stack is logged with a correlation ID.
func (p *StatusPoller) notify(state store.State) {
	if p.onUpdate == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("update callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	p.onUpdate(state)
}
