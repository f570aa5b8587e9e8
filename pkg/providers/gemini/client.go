package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"northstar-hq/relay/pkg/providers"
)

// Provider is the Gemini provider adapter.
// It implements providers.Provider against the generateContent API.
type Provider struct {
	*providers.HTTPProvider
}

// New creates a new Gemini provider instance.
func New(config providers.Config) (*Provider, error) {
	if config.Identity == "" {
		config.Identity = providers.Gemini
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Component: string(providers.Gemini),
			Field:     "api_key",
			Message:   "API key is required for Gemini",
		}
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	p := &Provider{HTTPProvider: providers.NewHTTPProvider(config)}

	slog.Info("Gemini provider initialized",
		"provider", config.Identity,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return p, nil
}

// Identity returns the provider identity.
func (p *Provider) Identity() providers.Identity {
	return p.GetConfig().Identity
}

// Generate sends one generateContent request. Failures are encoded in the
// returned response, never raised.
func (p *Provider) Generate(ctx context.Context, prompt string, opts providers.Options) *providers.Response {
	cfg := p.GetConfig()
	start := time.Now()

	// The API key travels in a header rather than the query string so it
	// never shows up in request logs.
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", cfg.BaseURL, cfg.Model)
	headers := map[string]string{
		"x-goog-api-key": cfg.APIKey,
		"Content-Type":   "application/json",
	}

	var genResp generateResponse
	err := p.DoJSONRequest(ctx, "POST", url, buildRequest(prompt, opts), &genResp, headers)
	latency := float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		return providers.FailureFrom(p.Identity(), err, latency)
	}

	resp, err := transformResponse(p.Identity(), cfg.Model, &genResp)
	if err != nil {
		return providers.FailureFrom(p.Identity(), &providers.ParseError{
			Provider: p.Identity(),
			Cause:    err,
		}, latency)
	}
	resp.LatencyMs = latency

	slog.Debug("completion request succeeded",
		"provider", p.Identity(),
		"model", resp.Model,
		"latency_ms", latency,
	)

	return resp
}

// HealthCheck probes the models listing endpoint.
func (p *Provider) HealthCheck(ctx context.Context) providers.HealthStatus {
	cfg := p.GetConfig()
	return p.Probe(ctx, fmt.Sprintf("%s/v1beta/models", cfg.BaseURL), map[string]string{
		"x-goog-api-key": cfg.APIKey,
	})
}
