// Package metrics exposes Prometheus metrics for the race pipeline:
// race outcomes and durations, per-provider wins and failures, provider
// health, and normalization fallbacks.
//
// Metrics are registered against an explicit *prometheus.Registry so tests
// can use isolated registries, and exposed over HTTP via Handler.
package metrics
