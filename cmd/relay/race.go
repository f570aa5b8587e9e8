package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"northstar-hq/relay/pkg/cli"
	"northstar-hq/relay/pkg/config"
	"northstar-hq/relay/pkg/normalize"
	"northstar-hq/relay/pkg/race"
	"northstar-hq/relay/pkg/telemetry/logging"
)

var raceFlags struct {
	deadline time.Duration
	format   string
	model    string
}

var raceCmd = &cobra.Command{
	Use:   "race [prompt]",
	Short: "Race a single prompt across the configured providers",
	Long: `Race a single prompt across the configured providers and print the
normalized report of the winning response.

The command exits non-zero when the race fails (all providers failed,
deadline exceeded, or cancellation).

Examples:
  # Race a prompt with the configured deadline
  relay race "Summarize the Q3 retrospective"

  # Override the deadline
  relay race --deadline 10s "List open risks"

  # JSON output for scripting
  relay race --format json "Summarize the Q3 retrospective"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRace,
}

func init() {
	rootCmd.AddCommand(raceCmd)

	raceCmd.Flags().DurationVar(&raceFlags.deadline, "deadline", 0, "override race deadline")
	raceCmd.Flags().StringVarP(&raceFlags.format, "format", "f", "text", "output format: text, json")
	raceCmd.Flags().StringVar(&raceFlags.model, "model", "", "override the model for every provider")
}

// raceOutput is the printable outcome of a one-shot race.
type raceOutput struct {
	RaceID       string             `json:"raceId"`
	Status       race.Status        `json:"status"`
	Winner       string             `json:"winner,omitempty"`
	RaceTimeMs   float64            `json:"raceTimeMs"`
	Participants []race.Participant `json:"participants"`
	Error        string             `json:"error,omitempty"`
	Report       *normalize.Report  `json:"report,omitempty"`
}

func runRace(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return cli.NewCommandError("race", err)
	}
	if raceFlags.deadline > 0 {
		cfg.Race.Deadline = raceFlags.deadline
	}
	if raceFlags.model != "" {
		for i := range cfg.Providers {
			cfg.Providers[i].Model = raceFlags.model
		}
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(loggingConfig(cfg.Telemetry.Logging)); err != nil {
		return cli.NewCommandError("race", err)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return cli.NewCommandError("race", err)
	}
	defer a.Close()

	ctx := cli.SetupSignalHandler()
	prompt := strings.Join(args, " ")
	result := a.orchestrator.Race(ctx, prompt, nil)

	out := raceOutput{
		RaceID:       result.RaceID,
		Status:       result.Status,
		RaceTimeMs:   result.RaceTimeMs,
		Participants: result.Participants,
		Error:        result.Error,
	}
	if result.Winner != nil {
		out.Winner = string(result.Winner.Provider)
		report := a.normalizer.Normalize(result.Winner.Content, result.Winner.Provider)
		out.Report = &report
	}

	if raceFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, out); err != nil {
			return cli.NewCommandError("race", err)
		}
	} else {
		printRaceText(out)
	}

	if result.Status != race.StatusCompleted {
		return cli.NewCommandError("race", fmt.Errorf("race %s: %s", result.Status, result.Error))
	}
	return nil
}

func printRaceText(out raceOutput) {
	fmt.Printf("Race %s: %s (%.0f ms)\n", out.RaceID, out.Status, out.RaceTimeMs)
	for _, p := range out.Participants {
		if p.State == race.ParticipantCancelled {
			fmt.Printf("  %-10s cancelled\n", p.Response.Provider)
			continue
		}
		outcome := "ok"
		if !p.Response.Success {
			outcome = "failed"
			if p.Response.Err != nil {
				outcome = "failed (" + p.Response.Err.Type + ")"
			}
		}
		fmt.Printf("  %-10s %s in %.0f ms\n", p.Response.Provider, outcome, p.Response.LatencyMs)
	}
	if out.Winner != "" {
		fmt.Printf("\nWinner: %s\n", out.Winner)
	}
	if out.Report != nil {
		fmt.Printf("\nSummary:\n  %s\n", out.Report.Summary)
		if len(out.Report.KeyFindings) > 0 {
			fmt.Println("\nKey findings:")
			for _, f := range out.Report.KeyFindings {
				fmt.Printf("  - %s\n", f)
			}
		}
		if len(out.Report.ActionPlan) > 0 {
			fmt.Println("\nAction plan:")
			for _, a := range out.Report.ActionPlan {
				fmt.Printf("  - %s\n", a)
			}
		}
	}
	if out.Error != "" {
		fmt.Printf("\nError: %s\n", out.Error)
	}
}
