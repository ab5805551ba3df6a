// Command pulsewatch watches a research backend from the command line.
//
//	pulsewatch serve    -c pulsewatch.yaml   web dashboard on :8080
//	pulsewatch watch    -c pulsewatch.yaml   terminal view
//	pulsewatch validate -c pulsewatch.yaml   check a config and exit
//
// Without -c, serve and watch poll the default backend with default settings.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Overridden at release time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pulsewatch",
	Short: "Live status and event log for a research backend",
	Long: `pulsewatch polls a research backend's status endpoint, keeps a short
event log of every attempt, and can start a new research cycle when the
backend is idle.

Run "serve" for the browser dashboard or "watch" for the terminal view.
Both read the same YAML config:

  base_url: http://localhost:8787
  poll_interval: 3s
  log_capacity: 50`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pulsewatch %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
