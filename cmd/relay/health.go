package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"northstar-hq/relay/pkg/cli"
	"northstar-hq/relay/pkg/config"
	"northstar-hq/relay/pkg/telemetry/logging"
)

var healthFlags struct {
	timeout time.Duration
	format  string
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of every configured provider",
	Long: `Check the health of every configured provider concurrently and print
the per-provider status.

Every provider is always checked; one provider being down never skips
the others. The command exits non-zero when no provider is healthy.

Examples:
  # Check all providers
  relay health

  # JSON output for scripting
  relay health --format json`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().DurationVar(&healthFlags.timeout, "timeout", 10*time.Second, "overall health check timeout")
	healthCmd.Flags().StringVarP(&healthFlags.format, "format", "f", "text", "output format: text, json")
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return cli.NewCommandError("health", err)
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if _, err := logging.Setup(loggingConfig(cfg.Telemetry.Logging)); err != nil {
		return cli.NewCommandError("health", err)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return cli.NewCommandError("health", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), healthFlags.timeout)
	defer cancel()

	statuses := a.health.HealthCheckAll(ctx)

	if healthFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, statuses); err != nil {
			return cli.NewCommandError("health", err)
		}
	} else {
		names := make([]string, 0, len(statuses))
		for name := range statuses {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := statuses[name]
			if s.Healthy() {
				fmt.Printf("✓ %-10s healthy (%.0f ms)\n", name, s.LatencyMs)
			} else {
				fmt.Printf("✗ %-10s unhealthy: %s\n", name, s.Error)
			}
		}
	}

	healthy := 0
	for _, s := range statuses {
		if s.Healthy() {
			healthy++
		}
	}
	if healthy == 0 {
		return cli.NewCommandError("health", fmt.Errorf("no healthy providers"))
	}
	return nil
}
