package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"northstar-hq/relay/pkg/cli"
	"northstar-hq/relay/pkg/config"
	"northstar-hq/relay/pkg/providers"
	"northstar-hq/relay/pkg/schedule"
	"northstar-hq/relay/pkg/server"
	"northstar-hq/relay/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay API server",
	Long: `Start the relay API server with the specified configuration.

The server races posted prompts across the configured providers, serves
normalized reports, and exposes health and metrics endpoints.

Examples:
  # Start with default config
  relay run

  # Start with custom config
  relay run --config /etc/relay/config.yaml

  # Override listen address
  relay run --listen 0.0.0.0:8080

  # Validate config without starting the server
  relay run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", true, "reload schedule settings when the config file changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(loggingConfig(cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	a, err := buildApp(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer a.Close()

	fmt.Printf("✓ Providers initialized (%d providers)\n", len(a.providers))
	fmt.Printf("✓ Storage backend: %s\n", cfg.Storage.Backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := startScheduler(ctx, a, cfg.Schedule)
	if scheduler != nil {
		defer scheduler.Stop()
	}

	if runFlags.watch {
		stop, err := config.Watch(cfgFile, logger, func(next *config.Config) {
			// Providers and server bindings are fixed for the process
			// lifetime; only the schedule is safe to swap at runtime.
			if scheduler != nil {
				scheduler.Stop()
			}
			scheduler = startScheduler(ctx, a, next.Schedule)
		})
		if err != nil {
			slog.Warn("config watch disabled", "error", err)
		} else {
			defer stop()
		}
	}

	srv := server.NewServer(cfg.Server, a.orchestrator, a.health, a.normalizer, a.store, a.metricsHandler())

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Server.ListenAddress)
	if a.registry != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// startScheduler starts the periodic pipeline when enabled. Returns nil
// when the schedule is disabled or fails to start.
func startScheduler(ctx context.Context, a *app, cfg config.ScheduleConfig) *schedule.Scheduler {
	if !cfg.Enabled {
		return nil
	}

	pipeline := schedule.NewPipeline(a.orchestrator, a.normalizer, a.store, cfg.Prompt, providers.Options(cfg.Options))
	scheduler := schedule.NewScheduler(pipeline, cfg.Cron)
	if err := scheduler.Start(ctx); err != nil {
		slog.Warn("failed to start scheduler", "error", err)
		return nil
	}
	if next := scheduler.NextRun(); next != nil {
		slog.Info("pipeline scheduler started", "cron", cfg.Cron, "next_run", next)
	}
	return scheduler
}
