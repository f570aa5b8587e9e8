package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Relay - multi-provider LLM race orchestrator",
	Long: `Relay fans a prompt out to multiple LLM providers concurrently and
returns the first successful response, normalized into a stable report shape.

It provides:
  - Concurrent provider racing with deterministic tie-breaking
  - Response normalization across vendor payload dialects
  - Provider health aggregation
  - Race record persistence and scheduled pipeline runs`,
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
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
