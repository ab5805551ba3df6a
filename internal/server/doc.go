// Package server provides the HTTP server for the PulseWatch dashboard and API.
//
// This package is internal to PulseWatch and handles all HTTP concerns:
//
//   - Dashboard serving: Serves the embedded HTML/CSS/JS dashboard at "/"
//   - REST API: JSON state at "/api/status", research trigger at "/api/trigger"
//   - Server-Sent Events: Real-time state updates at "/api/sse"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the pulsewatch library should not need to interact with this
// package directly. The server is started by [pulsewatch.Watcher.Serve].
package server
