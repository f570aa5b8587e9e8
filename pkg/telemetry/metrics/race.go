package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RaceMetrics tracks metrics for race invocations.
//
// Metrics:
//   - relay_races_total: Race count by terminal status
//   - relay_race_wins_total: Wins per provider
//   - relay_race_duration_seconds: Dispatch-to-decision latency
//   - relay_provider_failures_total: Provider failures by error type
type RaceMetrics struct {
	races    *prometheus.CounterVec
	wins     *prometheus.CounterVec
	duration prometheus.Histogram
	failures *prometheus.CounterVec
}

// NewRaceMetrics creates and registers race metrics with the provided registry.
func NewRaceMetrics(namespace string, registry *prometheus.Registry) *RaceMetrics {
	rm := &RaceMetrics{
		races: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "races_total",
				Help:      "Total number of races by terminal status",
			},
			[]string{"status"},
		),

		wins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "race_wins_total",
				Help:      "Total number of race wins per provider",
			},
			[]string{"provider"},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "race_duration_seconds",
				Help:      "Wall-clock time from race dispatch to decision",
				Buckets:   prometheus.DefBuckets,
			},
		),

		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_failures_total",
				Help:      "Total number of provider call failures by error type",
			},
			[]string{"provider", "error_type"},
		),
	}

	registry.MustRegister(rm.races, rm.wins, rm.duration, rm.failures)

	return rm
}

// RecordRace records one finished race. Nil receivers are tolerated so
// metrics stay optional in library use.
func (rm *RaceMetrics) RecordRace(status string, durationSeconds float64) {
	if rm == nil {
		return
	}
	rm.races.WithLabelValues(status).Inc()
	rm.duration.Observe(durationSeconds)
}

// RecordWin records a race win for a provider.
func (rm *RaceMetrics) RecordWin(provider string) {
	if rm == nil {
		return
	}
	rm.wins.WithLabelValues(provider).Inc()
}

// RecordFailure records a provider call failure.
func (rm *RaceMetrics) RecordFailure(provider, errorType string) {
	if rm == nil {
		return
	}
	rm.failures.WithLabelValues(provider, errorType).Inc()
}
