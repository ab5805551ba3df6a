// Package tui renders a PulseWatch watcher in the terminal using Bubble Tea.
//
// The view mirrors the web dashboard: a status card, the error banner, the
// colour-coded debug log and a trigger key that is disabled while research
// is active.
package tui
