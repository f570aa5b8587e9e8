package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"northstar-hq/relay/pkg/cli"
	"northstar-hq/relay/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate a configuration file without starting anything.

All problems are reported in one pass so a broken file can be fixed in
one edit.

Examples:
  # Validate the default config file
  relay validate

  # Validate a specific file
  relay validate --config /etc/relay/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	names := make([]string, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		names = append(names, p.Name)
	}

	fmt.Println("✓ Configuration valid")
	fmt.Printf("  Providers: %s\n", strings.Join(names, ", "))
	fmt.Printf("  Priority:  %s\n", strings.Join(cfg.Race.Priority, " > "))
	fmt.Printf("  Deadline:  %s\n", cfg.Race.Deadline)
	fmt.Printf("  Storage:   %s\n", cfg.Storage.Backend)
	if cfg.Schedule.Enabled {
		fmt.Printf("  Schedule:  %s\n", cfg.Schedule.Cron)
	}
	return nil
}
