// Package poller keeps a local view of the research backend's status.
//
// This package is internal to PulseWatch. It polls the backend's status
// endpoint at a fixed interval, records every attempt and outcome in a
// bounded event log, and exposes a guarded trigger for starting a new
// research cycle.
//
// The main components are:
//
//   - [StatusPoller]: Periodic fetch loop and trigger action
//   - [Backend]: The remote status/trigger API ([HTTPBackend] over HTTP)
//   - [Client]: HTTP client wrapper with timeout and size limits
//   - [Timer]: Cancellable repeating task ([TickerTimer], [ManualTimer])
//
// Users of the pulsewatch library should not need to interact with this
// package directly. Configuration is done through the main pulsewatch package.
package poller
