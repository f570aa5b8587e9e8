package providers

import "time"

// Options is an open mapping of provider-agnostic generation options
// (token budget, sampling temperature, and so on). The race orchestrator
// forwards it verbatim and identically to every provider in a race;
// adapters map the keys they understand into vendor payloads and ignore
// the rest.
type Options map[string]any

// Well-known option keys understood by the built-in adapters.
const (
	OptMaxTokens   = "max_tokens"
	OptTemperature = "temperature"
	OptTopP        = "top_p"
	OptSystem      = "system"
)

// Response is the terminal outcome of one Generate call. Success is true
// exactly when Err is nil. LatencyMs is measured wall-clock from dispatch
// to completion and is populated on failure too (0 when the call never
// started).
type Response struct {
	Provider  Identity       `json:"provider"`
	Model     string         `json:"model"`
	Content   string         `json:"content"`
	Usage     map[string]int `json:"usage,omitempty"`
	LatencyMs float64        `json:"latency_ms"`
	Success   bool           `json:"success"`
	Err       *CallError     `json:"error,omitempty"`
}

// Failure builds a failed Response carrying a CallError. It keeps the
// Success/Err invariant in one place.
func Failure(id Identity, errType, message string, latencyMs float64) *Response {
	return &Response{
		Provider:  id,
		LatencyMs: latencyMs,
		Success:   false,
		Err: &CallError{
			Provider: id,
			Type:     errType,
			Message:  message,
		},
	}
}

// HealthStatus is the result of a single provider health probe.
type HealthStatus struct {
	Status    string    `json:"status"` // "healthy" or "unhealthy"
	Provider  string    `json:"provider"`
	LatencyMs float64   `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Healthy reports whether the status is healthy.
func (h HealthStatus) Healthy() bool {
	return h.Status == StatusHealthy
}

// Config contains the configuration for a single provider instance.
type Config struct {
	// Identity is the stable provider identity.
	Identity Identity

	// BaseURL is the API endpoint base URL. Adapters fill vendor defaults
	// when empty.
	BaseURL string

	// APIKey is the authentication key.
	APIKey string

	// Model is the default model requested from this provider.
	Model string

	// Timeout bounds a single HTTP request. The race deadline is applied
	// on top of this through the call context.
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains pooled.
	IdleConnTimeout time.Duration
}
