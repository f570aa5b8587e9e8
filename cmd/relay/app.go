package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"northstar-hq/relay/pkg/config"
	"northstar-hq/relay/pkg/normalize"
	"northstar-hq/relay/pkg/providers"
	"northstar-hq/relay/pkg/providers/anthropic"
	"northstar-hq/relay/pkg/providers/gemini"
	"northstar-hq/relay/pkg/providers/openai"
	"northstar-hq/relay/pkg/race"
	"northstar-hq/relay/pkg/records"
	"northstar-hq/relay/pkg/telemetry/logging"
	"northstar-hq/relay/pkg/telemetry/metrics"
)

// app holds the wired components shared by the run, race and health
// commands.
type app struct {
	cfg          *config.Config
	providers    []providers.Provider
	orchestrator *race.Orchestrator
	health       *race.HealthAggregator
	normalizer   *normalize.Normalizer
	store        records.Store

	registry        *prometheus.Registry
	raceMetrics     *metrics.RaceMetrics
	providerMetrics *metrics.ProviderMetrics
}

// buildApp constructs every component from validated configuration.
func buildApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Telemetry.Metrics.MetricsEnabled() {
		a.registry = prometheus.NewRegistry()
		ns := cfg.Telemetry.Metrics.Namespace
		a.raceMetrics = metrics.NewRaceMetrics(ns, a.registry)
		a.providerMetrics = metrics.NewProviderMetrics(ns, a.registry)
	}

	identities := make([]providers.Identity, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		p, err := buildProvider(pc)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.providers = append(a.providers, p)
		identities = append(identities, p.Identity())
	}

	priority, err := buildPriority(cfg.Race.Priority)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.orchestrator, err = race.New(race.Config{
		Providers: a.providers,
		Priority:  priority,
		Deadline:  cfg.Race.Deadline,
		TieWindow: cfg.Race.TieWindow,
		Metrics:   a.raceMetrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.health = race.NewHealthAggregator(a.providers, a.providerMetrics)
	a.normalizer = normalize.New(identities, a.providerMetrics)

	a.store, err = buildStore(cfg.Storage)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases providers and storage.
func (a *app) Close() {
	for _, p := range a.providers {
		_ = p.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

func (a *app) metricsHandler() http.Handler {
	if a.registry == nil {
		return nil
	}
	return metrics.Handler(a.registry)
}

func buildProvider(pc config.ProviderConfig) (providers.Provider, error) {
	id, err := providers.ParseIdentity(pc.Name)
	if err != nil {
		return nil, err
	}
	providerCfg := providers.Config{
		Identity: id,
		BaseURL:  pc.BaseURL,
		APIKey:   pc.APIKey,
		Model:    pc.Model,
		Timeout:  pc.Timeout,
	}
	switch id {
	case providers.OpenAI:
		return openai.New(providerCfg)
	case providers.Anthropic:
		return anthropic.New(providerCfg)
	case providers.Gemini:
		return gemini.New(providerCfg)
	default:
		return nil, fmt.Errorf("no adapter for provider %q", pc.Name)
	}
}

func buildPriority(names []string) (*providers.Priority, error) {
	if len(names) == 0 {
		return providers.DefaultPriority(), nil
	}
	order := make([]providers.Identity, 0, len(names))
	for _, name := range names {
		id, err := providers.ParseIdentity(name)
		if err != nil {
			return nil, err
		}
		order = append(order, id)
	}
	return providers.NewPriority(order)
}

func buildStore(cfg config.StorageConfig) (records.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return records.NewSQLiteStore(records.SQLiteConfig{Path: cfg.SQLitePath})
	case "memory":
		return records.NewMemoryStore(cfg.MaxRecords), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// loggingConfig converts the file configuration into the logger's own
// config type.
func loggingConfig(cfg config.LoggingConfig) logging.Config {
	patterns := make([]logging.RedactPattern, 0, len(cfg.Redact.Patterns))
	for _, p := range cfg.Redact.Patterns {
		patterns = append(patterns, logging.RedactPattern{
			Name:        p.Name,
			Pattern:     p.Pattern,
			Replacement: p.Replacement,
		})
	}
	return logging.Config{
		Level:          cfg.Level,
		Format:         cfg.Format,
		AddSource:      cfg.AddSource,
		RedactEnabled:  cfg.Redact.RedactEnabled(),
		RedactPatterns: patterns,
	}
}
