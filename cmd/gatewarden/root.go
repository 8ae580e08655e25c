package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "gatewarden",
	Short: "Gatewarden - hierarchical admission control",
	Long: `Gatewarden is an in-process admission-control daemon built on shared,
continuously refilling token budgets organized in a hierarchy
(tenant, then identity+route).

It provides:
  - Token bucket, sliding window log, and fixed window algorithms
  - Hierarchical quota checks with weighted method costs
  - Event-time semantics safe for replaying historical request logs
  - A decision audit trail (in-memory or SQLite)
  - Prometheus metrics and hot-reloadable capacity tables`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
