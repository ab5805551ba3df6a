package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/pulsewatch"
	"github.com/jpalmerr/pulsewatch/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// serveCmd starts the PulseWatch dashboard server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll the backend and serve the web dashboard",
	Long: `Start the PulseWatch dashboard server.

The server will:
  - Load configuration from the specified YAML file
  - Poll the research backend immediately, then every poll_interval
  - Serve the dashboard UI and JSON/SSE API on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  pulsewatch serve -c config.yaml
  pulsewatch serve --base-url http://localhost:8787`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addConfigFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Level())
	logger.Info("starting server",
		"port", cfg.Port,
		"poll_interval", cfg.PollInterval.Duration().String(),
	)

	w, err := pulsewatch.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Serve(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
