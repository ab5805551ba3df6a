package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/pulsewatch"
	"github.com/jpalmerr/pulsewatch/config"
	"github.com/jpalmerr/pulsewatch/internal/tui"
)

// watchCmd renders the backend status in the terminal.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the backend and render it in the terminal",
	Long: `Poll the research backend and show its status in a terminal UI.

Keys:
  t   start a new research cycle (disabled while research is active)
  q   quit

The terminal is owned by the UI, so operational logs go to log_file
from the config, or nowhere when it is not set.

Example:
  pulsewatch watch -c config.yaml
  pulsewatch watch --base-url http://localhost:8787`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addConfigFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := newFileLogger(cfg.LogFile, cfg.Level())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	w, err := pulsewatch.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w.Start(ctx)
	defer w.Close()

	logger.Info("starting TUI", "base_url", w.BaseURL())
	if err := tui.Run(ctx, w, cfg.Title, w.BaseURL()); err != nil {
		return fmt.Errorf("terminal UI error: %w", err)
	}
	return nil
}
