package providers

import "context"

// Provider is the capability implemented once per vendor. Instances are
// long-lived and shared across races; all per-race bookkeeping lives in the
// race orchestrator.
//
// Implementations must respect context cancellation: the orchestrator
// cancels the call context as soon as a race is decided, and a call that
// completes anyway has its result dropped, never merged into an already
// returned race result.
type Provider interface {
	// Identity returns the stable provider identity used for tie-breaking
	// and schema tagging.
	Identity() Identity

	// Generate sends one prompt to the provider and returns its terminal
	// outcome. Ordinary failures (network, non-2xx, malformed payload) are
	// encoded in the Response, never returned as a Go error. The returned
	// Response is never nil.
	Generate(ctx context.Context, prompt string, opts Options) *Response

	// HealthCheck probes the provider with a lightweight request and
	// reports the outcome. Like Generate it never fails with a Go error;
	// a failed probe yields an unhealthy status.
	HealthCheck(ctx context.Context) HealthStatus

	// Close releases underlying resources (HTTP connections). The provider
	// must not be used afterwards.
	Close() error
}
