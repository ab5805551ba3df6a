package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/pulsewatch"
	"github.com/jpalmerr/pulsewatch/example/mockbackend"
)

func main() {
	// start the mock research backend (see mockbackend/)
	backend := mockbackend.New(
		mockbackend.WithCycle(20*time.Second),
		mockbackend.WithFailureRate(0.1),
	)
	go func() {
		srv := &http.Server{Addr: ":8787", Handler: backend, ReadHeaderTimeout: 10 * time.Second}
		if err := srv.ListenAndServe(); err != nil {
			slog.Error("mock backend error", "error", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	w, err := pulsewatch.New(
		pulsewatch.WithBaseURL("http://localhost:8787"),
		pulsewatch.WithTitle("Consciousness Research"),
		pulsewatch.WithPollingInterval(2*time.Second),
		pulsewatch.WithPort(8080),
		pulsewatch.WithStateCallback(func(s pulsewatch.State) {
			if s.Snapshot != nil {
				slog.Debug("state", "status", s.Snapshot.Status, "action", s.Snapshot.CurrentAction)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   PulseWatch Demo                                     ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Backend: mock research service on :8787             ║")
	fmt.Println("  ║   • 20s research cycles, 10% flaky status calls       ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Serve(ctx); err != nil {
		slog.Error("pulsewatch error", "error", err)
		os.Exit(1)
	}
}
