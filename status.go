package pulsewatch

import (
	"time"

	"github.com/jpalmerr/pulsewatch/internal/store"
)

// Status is the research backend's reported state.
//
// Status is a string type holding one of [StatusActive], [StatusIdle],
// [StatusError] or [StatusUnknown]. Any other value reported by the backend
// is normalised to [StatusUnknown] before it reaches a [Snapshot].
type Status string

const (
	// StatusActive indicates a research cycle is running.
	// Triggering is suppressed while the backend is active.
	StatusActive Status = store.StatusActive

	// StatusIdle indicates the backend is waiting for work.
	StatusIdle Status = store.StatusIdle

	// StatusError indicates the backend reported a failure of its own.
	StatusError Status = store.StatusError

	// StatusUnknown indicates the backend reported a status PulseWatch does not recognise.
	StatusUnknown Status = store.StatusUnknown
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// LogType classifies a [LogEntry].
type LogType string

const (
	LogInfo    LogType = store.LogInfo
	LogSuccess LogType = store.LogSuccess
	LogError   LogType = store.LogError
)

// String returns the string representation of the log type.
func (t LogType) String() string {
	return string(t)
}

// Snapshot is the last status object successfully fetched from the backend.
type Snapshot struct {
	// Status is the normalised backend status.
	Status Status

	// CurrentAction describes what the backend is doing.
	CurrentAction string

	// LastUpdated is the backend's own timestamp for the snapshot.
	LastUpdated time.Time
}

// LogEntry is one line of the client-side event log.
type LogEntry struct {
	// ID is unique per entry and stable for the life of the process.
	ID string

	// Message is the human-readable text, e.g. "Status updated: idle".
	Message string

	// Type is info, success or error.
	Type LogType

	// Timestamp is when the entry was recorded.
	Timestamp time.Time
}

// State is a point-in-time copy of a [Watcher]'s view of the backend.
//
// State values are independent copies; modifying one never affects the
// Watcher or other subscribers.
type State struct {
	// Snapshot is nil until the first successful fetch. After that it is
	// never cleared: a failed fetch keeps the last known value.
	Snapshot *Snapshot

	// Error is the last failure message, or empty after a success.
	Error string

	// Logs holds at most the configured log capacity, newest first.
	Logs []LogEntry
}

// Loaded reports whether at least one fetch has succeeded.
func (s State) Loaded() bool {
	return s.Snapshot != nil
}

// Active reports whether the backend is currently running a research cycle.
func (s State) Active() bool {
	return s.Snapshot != nil && s.Snapshot.Status == StatusActive
}

// stateFromStore converts the internal read model to the public type.
func stateFromStore(st store.State) State {
	out := State{
		Logs: make([]LogEntry, len(st.Logs)),
	}
	if st.Snapshot != nil {
		out.Snapshot = &Snapshot{
			Status:        Status(st.Snapshot.Status),
			CurrentAction: st.Snapshot.CurrentAction,
			LastUpdated:   st.Snapshot.LastUpdated,
		}
	}
	if st.Error != nil {
		out.Error = *st.Error
	}
	for i, e := range st.Logs {
		out.Logs[i] = LogEntry{
			ID:        e.ID,
			Message:   e.Message,
			Type:      LogType(e.Type),
			Timestamp: e.Timestamp,
		}
	}
	return out
}
