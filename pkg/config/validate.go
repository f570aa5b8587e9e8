package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"northstar-hq/relay/pkg/providers"
)

// FieldError describes a single invalid configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every invalid field found in one pass so a
// broken config file can be fixed in one edit.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid configuration: " + e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("invalid configuration (%d problems): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Validate checks the configuration after defaults have been applied.
func Validate(cfg *Config) error {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if len(cfg.Providers) == 0 {
		add("providers", "at least one provider must be configured")
	}

	seen := make(map[providers.Identity]bool)
	for i, p := range cfg.Providers {
		field := fmt.Sprintf("providers[%d]", i)
		id, err := providers.ParseIdentity(p.Name)
		if err != nil {
			add(field+".name", "unknown provider %q", p.Name)
			continue
		}
		if seen[id] {
			add(field+".name", "duplicate provider %q", p.Name)
		}
		seen[id] = true
		if p.APIKey == "" && p.APIKeyEnv == "" {
			add(field+".api_key", "provider %q has no api_key and no api_key_env", p.Name)
		}
		if p.Timeout < 0 {
			add(field+".timeout", "must not be negative")
		}
	}

	if cfg.Race.Deadline <= 0 {
		add("race.deadline", "must be positive")
	}
	if cfg.Race.TieWindow < 0 {
		add("race.tie_window", "must not be negative")
	}
	prioritySeen := make(map[providers.Identity]bool)
	for i, name := range cfg.Race.Priority {
		field := fmt.Sprintf("race.priority[%d]", i)
		id, err := providers.ParseIdentity(name)
		if err != nil {
			add(field, "unknown provider %q", name)
			continue
		}
		if prioritySeen[id] {
			add(field, "duplicate provider %q", name)
		}
		prioritySeen[id] = true
		if len(cfg.Providers) > 0 && !seen[id] {
			add(field, "provider %q is not configured", name)
		}
	}

	switch cfg.Storage.Backend {
	case "memory", "sqlite":
	default:
		add("storage.backend", "must be %q or %q, got %q", "memory", "sqlite", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "sqlite" && cfg.Storage.SQLitePath == "" {
		add("storage.sqlite_path", "required when backend is sqlite")
	}
	if cfg.Storage.RetentionDays < 0 {
		add("storage.retention_days", "must not be negative")
	}

	if cfg.Schedule.Enabled {
		if cfg.Schedule.Cron == "" {
			add("schedule.cron", "required when schedule is enabled")
		} else if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
			add("schedule.cron", "invalid cron expression %q: %v", cfg.Schedule.Cron, err)
		}
		if cfg.Schedule.Prompt == "" {
			add("schedule.prompt", "required when schedule is enabled")
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		add("telemetry.logging.level", "must be one of debug, info, warn, error, got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		add("telemetry.logging.format", "must be %q or %q, got %q", "json", "text", cfg.Telemetry.Logging.Format)
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
