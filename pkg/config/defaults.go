package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Provider defaults
	DefaultProviderTimeout = 60 * time.Second

	// Race defaults
	DefaultRaceDeadline  = 30 * time.Second
	DefaultRaceTieWindow = 10 * time.Millisecond

	// Storage defaults
	DefaultStorageBackend    = "memory"
	DefaultStorageSQLitePath = "data/relay.db"
	DefaultStorageMaxRecords = 1000

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsNamespace = "relay"
)

// ApplyDefaults fills zero-valued fields with defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	for i := range cfg.Providers {
		if cfg.Providers[i].Timeout == 0 {
			cfg.Providers[i].Timeout = DefaultProviderTimeout
		}
	}

	if cfg.Race.Deadline == 0 {
		cfg.Race.Deadline = DefaultRaceDeadline
	}
	if cfg.Race.TieWindow == 0 {
		cfg.Race.TieWindow = DefaultRaceTieWindow
	}
	if len(cfg.Race.Priority) == 0 {
		// Priority defaults to the configured provider order; the order
		// is still an explicit artifact, it just has one source.
		for _, p := range cfg.Providers {
			cfg.Race.Priority = append(cfg.Race.Priority, p.Name)
		}
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = DefaultStorageSQLitePath
	}
	if cfg.Storage.MaxRecords == 0 {
		cfg.Storage.MaxRecords = DefaultStorageMaxRecords
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
