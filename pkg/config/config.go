package config

import "time"

// Config is the root configuration for relay.
type Config struct {
	// Server configures the HTTP surface (readiness, metrics, reports).
	Server ServerConfig `yaml:"server"`

	// Providers lists the provider capabilities to race.
	Providers []ProviderConfig `yaml:"providers"`

	// Race configures the orchestrator.
	Race RaceConfig `yaml:"race"`

	// Schedule configures periodic pipeline runs.
	Schedule ScheduleConfig `yaml:"schedule"`

	// Storage configures race record persistence.
	Storage StorageConfig `yaml:"storage"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	ListenAddress   string        `yaml:"listen_address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ProviderConfig configures one provider capability.
type ProviderConfig struct {
	// Name is the provider identity (openai, anthropic, gemini).
	Name string `yaml:"name"`

	// BaseURL overrides the vendor default endpoint.
	BaseURL string `yaml:"base_url"`

	// APIKey is the literal key. Prefer APIKeyEnv in checked-in files.
	APIKey string `yaml:"api_key"`

	// APIKeyEnv names an environment variable holding the key. It is
	// resolved at load time when APIKey is empty.
	APIKeyEnv string `yaml:"api_key_env"`

	// Model is the model requested from this provider.
	Model string `yaml:"model"`

	// Timeout bounds a single request to this provider.
	Timeout time.Duration `yaml:"timeout"`
}

// RaceConfig configures the race orchestrator.
type RaceConfig struct {
	// Deadline is the single absolute bound applied to every provider in
	// a race.
	Deadline time.Duration `yaml:"deadline"`

	// TieWindow is the decision window after the first success; successes
	// inside it are resolved by priority instead of arrival order.
	TieWindow time.Duration `yaml:"tie_window"`

	// Priority is the explicit tie-break order, highest first. Defaults
	// to the provider list order.
	Priority []string `yaml:"priority"`
}

// ScheduleConfig configures periodic pipeline runs.
type ScheduleConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	Prompt  string `yaml:"prompt"`

	// Options is forwarded verbatim to every provider on scheduled runs.
	Options map[string]any `yaml:"options"`
}

// StorageConfig configures race record persistence.
type StorageConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// RetentionDays bounds stored history; 0 keeps everything.
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords bounds the memory backend; 0 means unbounded.
	MaxRecords int `yaml:"max_records"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level     string       `yaml:"level"`
	Format    string       `yaml:"format"`
	AddSource bool         `yaml:"add_source"`
	Redact    RedactConfig `yaml:"redact"`
}

// RedactConfig configures secret redaction in logs.
type RedactConfig struct {
	// Enabled defaults to true; set explicitly to false to disable.
	Enabled *bool `yaml:"enabled"`

	// Patterns adds custom redaction rules on top of the built-ins.
	Patterns []RedactPattern `yaml:"patterns"`
}

// RedactPattern is one custom redaction rule.
type RedactPattern struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// RedactEnabled reports the effective redaction toggle.
func (r RedactConfig) RedactEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// MetricsEnabled reports the effective metrics toggle.
func (m MetricsConfig) MetricsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}
