// Package store provides storage and pub/sub functionality for poller state.
//
// This package is internal to PulseWatch and holds the locally observed view
// of the research backend: the latest status snapshot, the last error message
// and a bounded, newest-first event log. It implements a publish-subscribe
// pattern for real-time updates to connected dashboards.
//
// The main components are:
//
//   - [Store]: Interface defining mutation and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [LogBuffer]: Fixed-capacity deque that evicts the oldest entry
//   - [State]: Copy of snapshot, error and log handed to renderers
//
// The store is designed for concurrent access with proper synchronization.
// Subscribers receive updates via channels with non-blocking sends (slow
// subscribers will miss updates rather than block the system).
//
// Users of the pulsewatch library should not need to interact with this
// package directly. Storage is managed internally by the poller.
package store
