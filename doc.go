// Package pulsewatch keeps a live, best-effort view of a remote research
// backend and lets an operator start a new research cycle.
//
// A [Watcher] polls the backend's status endpoint at a fixed interval,
// keeps the last good [Snapshot] across failures, and records every attempt
// and outcome in a bounded, newest-first event log. Failures never stop
// polling; they surface as [State.Error] and an error log entry.
//
// # Quick Start
//
//	w, _ := pulsewatch.New(pulsewatch.WithBaseURL("http://localhost:8787"))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	w.Serve(ctx) // dashboard on :8080, blocks until ctx is cancelled
//
// # Configuration
//
// Watcher uses the functional options pattern:
//
//	w, err := pulsewatch.New(
//	    pulsewatch.WithBaseURL("https://research.example.com"),
//	    pulsewatch.WithPollingInterval(5 * time.Second),
//	    pulsewatch.WithTimeout(2 * time.Second),
//	    pulsewatch.WithHeaders("Authorization", "Bearer token"),
//	    pulsewatch.WithPort(9090),
//	)
//
// # Backend Contract
//
// The backend exposes two endpoints:
//
//   - GET /status returns {"success": true, "data": {"status", "current_action", "last_updated"}}
//   - POST /trigger-research starts a cycle; the response body is ignored
//
// A non-2xx response, an unparseable body, "success": false or a missing
// "data" object all count as a failed fetch.
//
// # Architecture
//
// PulseWatch consists of several internal packages (under internal/):
//
//   - internal/poller: Backend client, timer abstraction and the status poller
//   - internal/store: Bounded event log and in-memory state with pub/sub
//   - internal/server: HTTP server with JSON API and Server-Sent Events
//   - internal/tui: Terminal renderer built on Bubble Tea
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package pulsewatch
