// Package dashboard holds the embedded browser view of a PulseWatch poller.
//
// The page renders the status card, the debug log and the trigger button,
// and keeps itself current from the /api/sse stream. It is compiled into
// the binary so a deployment is a single file.
package dashboard

import "embed"

// Assets is the embedded dashboard filesystem.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Main dashboard page with inline CSS and JavaScript
//
// The "{{.Title}}" marker in index.html is replaced by the server.
//
//go:embed assets/*
var Assets embed.FS
