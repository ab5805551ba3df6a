package store

import "time"

// Status values reported by the research backend.
const (
	StatusActive  = "active"
	StatusIdle    = "idle"
	StatusError   = "error"
	StatusUnknown = "unknown"
)

// Log entry types.
const (
	LogInfo    = "info"
	LogSuccess = "success"
	LogError   = "error"
)

// Snapshot is the storage representation of the backend's status object.
//
// A Snapshot is replaced wholesale on every successful fetch; fields are
// never merged with a previous value.
type Snapshot struct {
	// Status is one of "active", "idle", "error" or "unknown".
	Status string `json:"status"`

	// CurrentAction describes what the backend is doing right now.
	CurrentAction string `json:"current_action"`

	// LastUpdated is the backend's own timestamp for this snapshot.
	LastUpdated time.Time `json:"last_updated"`
}

// LogEntry is a single immutable line in the client-side event log.
type LogEntry struct {
	// ID is a unique identifier, used by renderers as a stable key.
	ID string `json:"id"`

	// Message is the human-readable log text.
	Message string `json:"message"`

	// Type is one of "info", "success" or "error".
	Type string `json:"type"`

	// Timestamp is when the entry was created.
	Timestamp time.Time `json:"timestamp"`
}

// State is a point-in-time copy of everything a renderer needs.
//
// Snapshot is nil until the first successful fetch. Error is nil when the
// last outcome was a success. Logs are ordered newest first.
type State struct {
	Snapshot *Snapshot  `json:"snapshot"`
	Error    *string    `json:"error"`
	Logs     []LogEntry `json:"logs"`
}

// Store defines the interface for holding poller state and publishing changes.
//
// Store implementations must be safe for concurrent access. Every mutation
// is applied atomically and then published to subscribers as a full [State].
type Store interface {
	// RecordSuccess replaces the snapshot, appends entry and clears the error.
	// It returns the state as of this mutation.
	RecordSuccess(snapshot Snapshot, entry LogEntry) State

	// RecordFailure sets the error message and appends entry.
	// The snapshot is left untouched. It returns the state as of this mutation.
	RecordFailure(message string, entry LogEntry) State

	// AppendLog appends entry without touching snapshot or error.
	// It returns the state as of this mutation.
	AppendLog(entry LogEntry) State

	// Get returns a copy of the current state.
	Get() State

	// Subscribe returns a channel that receives the state after each mutation.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan State

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan State)
}
