package race

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"northstar-hq/relay/pkg/providers"
	"northstar-hq/relay/pkg/telemetry/metrics"
)

// HealthAggregator fans a health probe out to every configured provider
// concurrently and collects every result. Unlike a race there is no winner
// and no cancellation: the call returns only once every provider has
// settled, and one provider's failure (or panic) never affects the others.
type HealthAggregator struct {
	providers []providers.Provider
	metrics   *metrics.ProviderMetrics
}

// NewHealthAggregator creates a HealthAggregator over the given providers.
// Metrics may be nil.
func NewHealthAggregator(provs []providers.Provider, pm *metrics.ProviderMetrics) *HealthAggregator {
	return &HealthAggregator{
		providers: provs,
		metrics:   pm,
	}
}

// HealthCheckAll probes every provider concurrently and returns a status
// per provider name. A provider whose probe panics is reported unhealthy
// with the panic message; no error ever propagates to the caller.
func (a *HealthAggregator) HealthCheckAll(ctx context.Context) map[string]providers.HealthStatus {
	results := make(map[string]providers.HealthStatus, len(a.providers))
	if len(a.providers) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range a.providers {
		wg.Add(1)
		go func(p providers.Provider) {
			defer wg.Done()
			status := a.checkOne(ctx, p)

			mu.Lock()
			results[p.Identity().String()] = status
			mu.Unlock()
		}(p)
	}

	wg.Wait()

	slog.Debug("health check completed", "providers", len(results))
	return results
}

// checkOne probes a single provider with panic isolation.
func (a *HealthAggregator) checkOne(ctx context.Context, p providers.Provider) (status providers.HealthStatus) {
	id := p.Identity()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("health check panicked",
				"provider", id,
				"panic", r,
			)
			status = providers.HealthStatus{
				Status:    providers.StatusUnhealthy,
				Provider:  id.String(),
				LatencyMs: float64(time.Since(start)) / float64(time.Millisecond),
				Error:     fmt.Sprintf("health check panicked: %v", r),
				CheckedAt: time.Now(),
			}
		}
		a.metrics.UpdateHealth(id.String(), status.Healthy(), time.Since(start).Seconds())
	}()

	status = p.HealthCheck(ctx)
	if status.Provider == "" {
		status.Provider = id.String()
	}
	if status.CheckedAt.IsZero() {
		status.CheckedAt = time.Now()
	}
	return status
}
