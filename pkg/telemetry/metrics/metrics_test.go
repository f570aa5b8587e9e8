package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRaceMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	rm := NewRaceMetrics("relay", registry)

	rm.RecordRace("completed", 0.42)
	rm.RecordRace("completed", 0.17)
	rm.RecordRace("failed", 1.2)
	rm.RecordWin("anthropic")
	rm.RecordFailure("openai", "rate_limit")

	if got := testutil.ToFloat64(rm.races.WithLabelValues("completed")); got != 2 {
		t.Errorf("races{status=completed} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rm.races.WithLabelValues("failed")); got != 1 {
		t.Errorf("races{status=failed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.wins.WithLabelValues("anthropic")); got != 1 {
		t.Errorf("wins{provider=anthropic} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.failures.WithLabelValues("openai", "rate_limit")); got != 1 {
		t.Errorf("failures{openai,rate_limit} = %v, want 1", got)
	}
}

func TestProviderMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	pm := NewProviderMetrics("relay", registry)

	pm.UpdateHealth("gemini", true, 0.05)
	pm.UpdateHealth("openai", false, 0.3)
	pm.RecordFallback()
	pm.RecordFallback()

	if got := testutil.ToFloat64(pm.health.WithLabelValues("gemini")); got != 1 {
		t.Errorf("health{gemini} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(pm.health.WithLabelValues("openai")); got != 0 {
		t.Errorf("health{openai} = %v, want 0", got)
	}
	if got := testutil.ToFloat64(pm.fallbacks); got != 2 {
		t.Errorf("fallbacks = %v, want 2", got)
	}
}

func TestNilReceiversAreNoOps(t *testing.T) {
	var rm *RaceMetrics
	var pm *ProviderMetrics

	rm.RecordRace("completed", 0.1)
	rm.RecordWin("anthropic")
	rm.RecordFailure("openai", "timeout")
	pm.UpdateHealth("gemini", true, 0.01)
	pm.RecordFallback()
}

func TestHandlerExposesRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	rm := NewRaceMetrics("relay", registry)
	rm.RecordRace("completed", 0.1)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler(registry).ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "relay_races_total") {
		t.Errorf("exposition output missing race counter:\n%s", body)
	}
}
