package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"northstar-hq/relay/pkg/providers"
)

// DefaultVersion is the Anthropic API version sent with every request.
const DefaultVersion = "2023-06-01"

// Provider is the Anthropic provider adapter.
// It implements providers.Provider against the Messages API.
type Provider struct {
	*providers.HTTPProvider
}

// New creates a new Anthropic provider instance.
func New(config providers.Config) (*Provider, error) {
	if config.Identity == "" {
		config.Identity = providers.Anthropic
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com"
	}
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Component: string(providers.Anthropic),
			Field:     "api_key",
			Message:   "API key is required for Anthropic",
		}
	}
	if config.Model == "" {
		config.Model = "claude-3-5-haiku-latest"
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

	slog.Info("Anthropic provider initialized",
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

// Generate sends one messages request. Failures are encoded in the
// returned response, never raised.
func (p *Provider) Generate(ctx context.Context, prompt string, opts providers.Options) *providers.Response {
	cfg := p.GetConfig()
	start := time.Now()

	url := fmt.Sprintf("%s/v1/messages", cfg.BaseURL)
	headers := map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": DefaultVersion,
		"Content-Type":      "application/json",
	}

	var msgResp messagesResponse
	err := p.DoJSONRequest(ctx, "POST", url, buildRequest(cfg.Model, prompt, opts), &msgResp, headers)
	latency := float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		return providers.FailureFrom(p.Identity(), err, latency)
	}

	resp, err := transformResponse(p.Identity(), &msgResp)
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
	return p.Probe(ctx, fmt.Sprintf("%s/v1/models", cfg.BaseURL), map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": DefaultVersion,
	})
}
