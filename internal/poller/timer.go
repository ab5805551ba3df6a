package poller

import (
	"sync"
	"time"
)

// Timer schedules a function to run repeatedly at a fixed interval.
type Timer interface {
	// Schedule starts invoking fn every interval until the returned
	// handle is cancelled. The first invocation happens after one interval.
	Schedule(interval time.Duration, fn func()) TimerHandle
}

// TimerHandle cancels a scheduled task.
type TimerHandle interface {
	// Cancel stops the task. After Cancel returns, fn is not invoked again.
	// Cancel is idempotent.
	Cancel()
}

// TickerTimer is a [Timer] backed by [time.Ticker].
type TickerTimer struct{}

// Schedule runs fn from a dedicated goroutine on every tick.
// fn must not block; long work belongs in its own goroutine.
func (TickerTimer) Schedule(interval time.Duration, fn func()) TimerHandle {
	h := &tickerHandle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(h.done)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				// a tick and a stop can be ready together; stop wins
				select {
				case <-h.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return h
}

type tickerHandle struct {
	once sync.Once
	stop chan struct{}
	done chan struct{}
}

// Cancel stops the ticker goroutine and waits for it to exit.
func (h *tickerHandle) Cancel() {
	h.once.Do(func() { close(h.stop) })
	<-h.done
}

// ManualTimer is a [Timer] that only fires when told to. It drives
// deterministic tick sequences in tests and simulations.
type ManualTimer struct {
	mu    sync.Mutex
	tasks []*manualHandle
}

// NewManualTimer creates an idle [ManualTimer].
func NewManualTimer() *ManualTimer {
	return &ManualTimer{}
}

// Schedule registers fn. The interval is recorded but otherwise ignored.
func (m *ManualTimer) Schedule(interval time.Duration, fn func()) TimerHandle {
	h := &manualHandle{interval: interval, fn: fn}
	m.mu.Lock()
	m.tasks = append(m.tasks, h)
	m.mu.Unlock()
	return h
}

// Fire invokes every live task once, synchronously.
func (m *ManualTimer) Fire() {
	m.mu.Lock()
	tasks := make([]*manualHandle, len(m.tasks))
	copy(tasks, m.tasks)
	m.mu.Unlock()

	for _, h := range tasks {
		h.run()
	}
}

// Active reports how many scheduled tasks have not been cancelled.
func (m *ManualTimer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, h := range m.tasks {
		if !h.isCancelled() {
			n++
		}
	}
	return n
}

// Intervals returns the interval of every task ever scheduled.
func (m *ManualTimer) Intervals() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]time.Duration, len(m.tasks))
	for i, h := range m.tasks {
		out[i] = h.interval
	}
	return out
}

type manualHandle struct {
	mu        sync.Mutex
	interval  time.Duration
	fn        func()
	cancelled bool
}

func (h *manualHandle) run() {
	h.mu.Lock()
	cancelled := h.cancelled
	h.mu.Unlock()
	if !cancelled {
		h.fn()
	}
}

func (h *manualHandle) isCancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// Cancel marks the task so later Fire calls skip it.
func (h *manualHandle) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
}
