package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error taxonomy tags carried in CallError.Type. Tags are stable strings
// so callers and metrics can classify failures without type assertions.
const (
	ErrTypeNetwork     = "network"
	ErrTypeTimeout     = "timeout"
	ErrTypeAuth        = "auth"
	ErrTypeRateLimit   = "rate_limit"
	ErrTypeServerError = "server_error"
	ErrTypeClientError = "client_error"
	ErrTypeParse       = "parse"
	ErrTypePanic       = "panic"
	ErrTypeCancelled   = "cancelled"
)

// CallError describes why a single provider call failed. It is embedded in
// the failed Response rather than returned as a Go error, so a provider
// failure never propagates as an exception out of a race. Messages must
// not carry raw secret material; the logging redactor guards the log
// boundary but adapters keep keys out of messages in the first place.
type CallError struct {
	Provider Identity `json:"provider"`
	Type     string   `json:"error_type"`
	Message  string   `json:"message"`
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("provider %q %s error: %s", e.Provider, e.Type, e.Message)
}

// AuthError reports a rejected API key (HTTP 401 or 403).
type AuthError struct {
	Provider Identity
	Message  string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed: %s", e.Provider, e.Message)
}

// RateLimitError reports an HTTP 429 with the retry-after hint when the
// provider supplied one.
type RateLimitError struct {
	Provider   Identity
	RetryAfter time.Duration
	Message    string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q rate limit exceeded (retry after %s): %s",
			e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("provider %q rate limit exceeded: %s", e.Provider, e.Message)
}

// TimeoutError reports a call that exceeded its deadline.
type TimeoutError struct {
	Provider Identity
	Timeout  time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
}

// HTTPError reports a non-2xx response outside the more specific classes.
type HTTPError struct {
	Provider   Identity
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// ParseError reports a response body the adapter could not decode.
type ParseError struct {
	Provider Identity
	Cause    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ConfigError reports a deployment or programming fault: malformed priority
// order, unknown identity, missing API key. Unlike runtime call failures it
// propagates as a Go error from constructors and is never encoded in a
// race result.
type ConfigError struct {
	Component string
	Field     string
	Message   string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s configuration error for field %q: %s", e.Component, e.Field, e.Message)
}

// Classify maps an adapter error to its taxonomy tag.
func Classify(err error) string {
	var (
		authErr  *AuthError
		rateErr  *RateLimitError
		toErr    *TimeoutError
		httpErr  *HTTPError
		parseErr *ParseError
	)

	switch {
	case errors.As(err, &authErr):
		return ErrTypeAuth
	case errors.As(err, &rateErr):
		return ErrTypeRateLimit
	case errors.As(err, &toErr):
		return ErrTypeTimeout
	case errors.As(err, &parseErr):
		return ErrTypeParse
	case errors.As(err, &httpErr):
		if httpErr.StatusCode >= 500 {
			return ErrTypeServerError
		}
		return ErrTypeClientError
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTypeTimeout
	case errors.Is(err, context.Canceled):
		return ErrTypeCancelled
	default:
		return ErrTypeNetwork
	}
}

// FailureFrom converts an adapter error into a failed Response, classifying
// it through the taxonomy.
func FailureFrom(id Identity, err error, latencyMs float64) *Response {
	return Failure(id, Classify(err), err.Error(), latencyMs)
}
