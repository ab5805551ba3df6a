package store

import (
	"sync"
)

// MemoryStore is an in-memory implementation of [Store].
//
// MemoryStore provides thread-safe storage with a publish-subscribe mechanism
// for real-time updates. It holds at most one snapshot, one error message and
// a bounded [LogBuffer].
//
// Subscribers receive updates via buffered channels (buffer size 100). Updates
// are sent non-blocking; if a subscriber's buffer is full, the update is dropped
// for that subscriber to prevent blocking the entire system. Each state is
// published before the mutation's lock is released, so subscribers see states
// in the order they were applied.
type MemoryStore struct {
	mu          sync.RWMutex
	snapshot    *Snapshot
	errMsg      *string
	logs        *LogBuffer
	subscribers map[chan State]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory [Store] whose log keeps at most
// logCapacity entries.
//
// The store is immediately ready for use. No cleanup is required when done.
func NewMemoryStore(logCapacity int) *MemoryStore {
	return &MemoryStore{
		logs:        NewLogBuffer(logCapacity),
		subscribers: make(map[chan State]struct{}),
	}
}

// RecordSuccess replaces the snapshot, appends entry and clears the error.
func (m *MemoryStore) RecordSuccess(snapshot Snapshot, entry LogEntry) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = &snapshot
	m.errMsg = nil
	m.logs.Push(entry)
	state := m.stateLocked()
	m.notifySubscribers(state)
	return state
}

// RecordFailure sets the error message and appends entry.
// A previously stored snapshot is kept as-is.
func (m *MemoryStore) RecordFailure(message string, entry LogEntry) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errMsg = &message
	m.logs.Push(entry)
	state := m.stateLocked()
	m.notifySubscribers(state)
	return state
}

// AppendLog appends entry to the log.
func (m *MemoryStore) AppendLog(entry LogEntry) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logs.Push(entry)
	state := m.stateLocked()
	m.notifySubscribers(state)
	return state
}

// Get returns a snapshot of the current state.
//
// The returned value is a copy; modifications do not affect the store.
func (m *MemoryStore) Get() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stateLocked()
}

// stateLocked copies the current state. Caller must hold mu.
func (m *MemoryStore) stateLocked() State {
	state := State{Logs: m.logs.Entries()}
	if m.snapshot != nil {
		snap := *m.snapshot
		state.Snapshot = &snap
	}
	if m.errMsg != nil {
		msg := *m.errMsg
		state.Error = &msg
	}
	return state
}

// Subscribe creates a new subscription and returns a channel for receiving updates.
//
// The returned channel has a buffer of 100 messages. If the buffer fills
// (slow consumer), new updates are dropped for this subscriber.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan State {
	ch := make(chan State, 100)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// After calling Unsubscribe, the channel will be closed and no further
// updates will be sent. Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan State) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the state to all active subscribers. Caller must hold mu.
//
// This is non-blocking: if a subscriber's channel buffer is full, the message
// is dropped for that subscriber rather than blocking the update path.
func (m *MemoryStore) notifySubscribers(state State) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- state:
		default:
			// subscriber is slow, drop the message
		}
	}
}
