// Standalone mock research backend for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockbackend
//
// Then in another terminal:
//
//	go run ./cmd/pulsewatch serve -c example/config.yaml
//	go run ./cmd/pulsewatch watch -c example/config.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jpalmerr/pulsewatch/example/mockbackend"
)

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	cycle := flag.Duration("cycle", 30*time.Second, "duration of a research cycle")
	failRate := flag.Float64("fail-rate", 0.1, "fraction of status requests that fail")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fmt.Printf("Mock research backend starting on %s\n", *addr)
	fmt.Println("POST /trigger-research starts a cycle: idle → active → idle")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	backend := mockbackend.New(
		mockbackend.WithCycle(*cycle),
		mockbackend.WithFailureRate(*failRate),
		mockbackend.WithLogger(logger),
	)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           backend,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
