package store

// DefaultLogCapacity is the number of log entries kept when no capacity is given.
const DefaultLogCapacity = 50

// LogBuffer is a bounded, newest-first deque of [LogEntry] values.
//
// Push adds to the front; once the buffer is full the oldest entry is
// evicted from the back. Len never exceeds Cap.
//
// LogBuffer is not safe for concurrent use; [MemoryStore] guards it.
type LogBuffer struct {
	entries []LogEntry // ring storage, len == capacity
	head    int        // index of the newest entry
	size    int
}

// NewLogBuffer creates a LogBuffer holding at most capacity entries.
// A capacity below 1 falls back to [DefaultLogCapacity].
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity < 1 {
		capacity = DefaultLogCapacity
	}
	return &LogBuffer{
		entries: make([]LogEntry, capacity),
		head:    -1,
	}
}

// Push adds entry as the newest element, evicting the oldest when full.
func (b *LogBuffer) Push(entry LogEntry) {
	b.head = (b.head + 1) % len(b.entries)
	b.entries[b.head] = entry
	if b.size < len(b.entries) {
		b.size++
	}
}

// Entries returns a copy of the buffered entries, newest first.
func (b *LogBuffer) Entries() []LogEntry {
	out := make([]LogEntry, b.size)
	n := len(b.entries)
	for i := 0; i < b.size; i++ {
		out[i] = b.entries[(b.head-i+n)%n]
	}
	return out
}

// Len returns the number of buffered entries.
func (b *LogBuffer) Len() int {
	return b.size
}

// Cap returns the maximum number of entries the buffer holds.
func (b *LogBuffer) Cap() int {
	return len(b.entries)
}
