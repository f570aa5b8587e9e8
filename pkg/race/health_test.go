package race

import (
	"context"
	"strings"
	"testing"
	"time"

	"northstar-hq/relay/internal/providertest"
	"northstar-hq/relay/pkg/providers"
)

// panickingChecker is a provider whose health probe panics.
type panickingChecker struct {
	providertest.Mock
}

func (p *panickingChecker) HealthCheck(ctx context.Context) providers.HealthStatus {
	panic("probe exploded")
}

func TestHealthCheckAllEmpty(t *testing.T) {
	a := NewHealthAggregator(nil, nil)

	results := a.HealthCheckAll(context.Background())
	if len(results) != 0 {
		t.Errorf("results = %d entries, want 0", len(results))
	}
}

func TestHealthCheckAllCollectsEveryProvider(t *testing.T) {
	healthy := providertest.NewMock(providers.OpenAI, "")
	unhealthy := providertest.NewMock(providers.Anthropic, "")
	unhealthy.Health = providers.HealthStatus{
		Status:   providers.StatusUnhealthy,
		Provider: string(providers.Anthropic),
		Error:    "connection refused",
	}

	a := NewHealthAggregator([]providers.Provider{healthy, unhealthy}, nil)
	results := a.HealthCheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("results = %d entries, want 2", len(results))
	}
	if !results["openai"].Healthy() {
		t.Errorf("openai = %+v, want healthy", results["openai"])
	}
	if results["anthropic"].Healthy() {
		t.Errorf("anthropic = %+v, want unhealthy", results["anthropic"])
	}
	if results["anthropic"].Error != "connection refused" {
		t.Errorf("anthropic error = %q, want %q", results["anthropic"].Error, "connection refused")
	}
}

func TestHealthCheckAllIsolatesPanics(t *testing.T) {
	bad := &panickingChecker{Mock: providertest.Mock{ID: providers.OpenAI}}
	good := providertest.NewMock(providers.Gemini, "")

	a := NewHealthAggregator([]providers.Provider{bad, good}, nil)
	results := a.HealthCheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("results = %d entries, want 2", len(results))
	}
	if results["openai"].Healthy() {
		t.Error("panicking provider reported healthy")
	}
	if !strings.Contains(results["openai"].Error, "probe exploded") {
		t.Errorf("panicking provider error = %q, want the panic message", results["openai"].Error)
	}
	if !results["gemini"].Healthy() {
		t.Errorf("gemini = %+v, want healthy despite sibling panic", results["gemini"])
	}
}

func TestHealthCheckFillsDefaults(t *testing.T) {
	// An adapter returning a sparse status still yields a fully
	// attributed result.
	sparse := providertest.NewMock(providers.OpenAI, "")
	sparse.Health = providers.HealthStatus{Status: providers.StatusHealthy}

	a := NewHealthAggregator([]providers.Provider{sparse}, nil)
	results := a.HealthCheckAll(context.Background())

	got := results["openai"]
	if got.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", got.Provider, "openai")
	}
	if got.CheckedAt.IsZero() {
		t.Error("CheckedAt not filled")
	}
	if time.Since(got.CheckedAt) > time.Minute {
		t.Errorf("CheckedAt = %s, want recent", got.CheckedAt)
	}
}
