package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPProvider is the base implementation for HTTP-based provider adapters.
// It owns the pooled HTTP client and translates transport-level outcomes
// into the error taxonomy. Concrete adapters (openai, anthropic, gemini)
// embed it and implement the Provider interface on top.
type HTTPProvider struct {
	config Config
	client *http.Client
}

// NewHTTPProvider creates the base HTTP provider with connection pooling.
func NewHTTPProvider(config Config) *HTTPProvider {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPProvider{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// GetConfig returns the provider's configuration.
func (p *HTTPProvider) GetConfig() Config {
	return p.config
}

// DoRequest performs a single HTTP request and maps failures into the
// taxonomy. There is no retry here: within a race a failed call is terminal
// for its provider, and retry policy belongs to callers outside the race.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending request to provider",
		"provider", p.config.Identity,
		"method", method,
		"url", url,
	)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TimeoutError{
				Provider: p.config.Identity,
				Timeout:  p.config.Timeout,
			}
		}
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &AuthError{
			Provider: p.config.Identity,
			Message:  string(errorBody),
		}

	case http.StatusTooManyRequests:
		return nil, &RateLimitError{
			Provider:   p.config.Identity,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    string(errorBody),
		}

	default:
		return nil, &HTTPError{
			Provider:   p.config.Identity,
			StatusCode: resp.StatusCode,
			Message:    string(errorBody),
		}
	}
}

// DoJSONRequest performs a JSON request and decodes the response body.
func (p *HTTPProvider) DoJSONRequest(ctx context.Context, method, url string, reqBody, respBody any, headers map[string]string) error {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := p.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Provider: p.config.Identity,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &ParseError{
				Provider: p.config.Identity,
				Cause:    fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// Probe performs a lightweight reachability check against a URL and shapes
// the result as a HealthStatus. Adapters supply their vendor-specific probe
// endpoint and headers.
func (p *HTTPProvider) Probe(ctx context.Context, url string, headers map[string]string) HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := p.DoRequest(checkCtx, http.MethodGet, url, nil, headers)
	latency := float64(time.Since(start)) / float64(time.Millisecond)

	status := HealthStatus{
		Provider:  p.config.Identity.String(),
		LatencyMs: latency,
		CheckedAt: time.Now(),
	}

	if err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
		slog.Debug("health probe failed",
			"provider", p.config.Identity,
			"error", err,
		)
		return status
	}
	resp.Body.Close()

	status.Status = StatusHealthy
	return status
}

// Close releases idle connections.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	slog.Debug("provider closed", "provider", p.config.Identity)
	return nil
}

// parseRetryAfter parses a Retry-After header in either delay-seconds or
// HTTP-date form.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
