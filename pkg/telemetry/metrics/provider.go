package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks provider health and normalization behaviour.
//
// Metrics:
//   - relay_provider_health: Provider health status (1=healthy, 0=unhealthy)
//   - relay_provider_health_latency_seconds: Health probe latency
//   - relay_normalize_fallbacks_total: Payloads that fell back to raw text
type ProviderMetrics struct {
	health        *prometheus.GaugeVec
	healthLatency *prometheus.HistogramVec
	fallbacks     prometheus.Counter
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(namespace string, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "provider_health",
				Help:      "Provider health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),

		healthLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_health_latency_seconds",
				Help:      "Provider health probe latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		fallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "normalize_fallbacks_total",
				Help:      "Total number of payloads normalized via the raw-text fallback",
			},
		),
	}

	registry.MustRegister(pm.health, pm.healthLatency, pm.fallbacks)

	return pm
}

// UpdateHealth records the outcome of one provider health probe.
func (pm *ProviderMetrics) UpdateHealth(provider string, healthy bool, latencySeconds float64) {
	if pm == nil {
		return
	}
	value := 0.0
	if healthy {
		value = 1.0
	}
	pm.health.WithLabelValues(provider).Set(value)
	pm.healthLatency.WithLabelValues(provider).Observe(latencySeconds)
}

// RecordFallback records a payload that could not be parsed as structured
// data and was normalized as opaque text.
func (pm *ProviderMetrics) RecordFallback() {
	if pm == nil {
		return
	}
	pm.fallbacks.Inc()
}
