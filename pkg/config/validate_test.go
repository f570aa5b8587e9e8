package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := &Config{
		Providers: []ProviderConfig{
			{Name: "openai", APIKey: "sk-a"},
			{Name: "anthropic", APIKey: "sk-b"},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateCollectsProblems(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "no providers",
			mutate:  func(c *Config) { c.Providers = nil; c.Race.Priority = nil },
			wantSub: "at least one provider",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Providers[0].Name = "mistral" },
			wantSub: `unknown provider "mistral"`,
		},
		{
			name: "duplicate provider",
			mutate: func(c *Config) {
				c.Providers[1].Name = "openai"
				c.Race.Priority = []string{"openai"}
			},
			wantSub: "duplicate provider",
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.Providers[0].APIKey = "" },
			wantSub: "no api_key",
		},
		{
			name:    "negative provider timeout",
			mutate:  func(c *Config) { c.Providers[0].Timeout = -time.Second },
			wantSub: "timeout",
		},
		{
			name:    "non-positive deadline",
			mutate:  func(c *Config) { c.Race.Deadline = 0 },
			wantSub: "race.deadline",
		},
		{
			name:    "negative tie window",
			mutate:  func(c *Config) { c.Race.TieWindow = -time.Millisecond },
			wantSub: "race.tie_window",
		},
		{
			name:    "unknown priority identity",
			mutate:  func(c *Config) { c.Race.Priority = []string{"openai", "claude"} },
			wantSub: `unknown provider "claude"`,
		},
		{
			name:    "duplicate priority identity",
			mutate:  func(c *Config) { c.Race.Priority = []string{"openai", "openai"} },
			wantSub: "duplicate provider",
		},
		{
			name:    "priority names unconfigured provider",
			mutate:  func(c *Config) { c.Race.Priority = []string{"openai", "gemini"} },
			wantSub: "not configured",
		},
		{
			name:    "bad storage backend",
			mutate:  func(c *Config) { c.Storage.Backend = "postgres" },
			wantSub: "storage.backend",
		},
		{
			name:    "negative retention",
			mutate:  func(c *Config) { c.Storage.RetentionDays = -1 },
			wantSub: "retention_days",
		},
		{
			name: "schedule enabled without cron",
			mutate: func(c *Config) {
				c.Schedule.Enabled = true
				c.Schedule.Prompt = "p"
			},
			wantSub: "schedule.cron",
		},
		{
			name: "schedule with invalid cron",
			mutate: func(c *Config) {
				c.Schedule.Enabled = true
				c.Schedule.Cron = "not a cron"
				c.Schedule.Prompt = "p"
			},
			wantSub: "invalid cron expression",
		},
		{
			name: "schedule enabled without prompt",
			mutate: func(c *Config) {
				c.Schedule.Enabled = true
				c.Schedule.Cron = "0 * * * *"
			},
			wantSub: "schedule.prompt",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Telemetry.Logging.Level = "trace" },
			wantSub: "telemetry.logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantSub: "telemetry.logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %T, want *ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestValidateReportsEveryProblemAtOnce(t *testing.T) {
	cfg := validConfig()
	cfg.Providers[0].APIKey = ""
	cfg.Race.Deadline = 0
	cfg.Storage.Backend = "postgres"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	if len(vErr.Errors) != 3 {
		t.Errorf("collected %d problems, want 3: %v", len(vErr.Errors), vErr.Errors)
	}
}
