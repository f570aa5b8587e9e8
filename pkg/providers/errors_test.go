package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth error", &AuthError{Provider: OpenAI, Message: "bad key"}, ErrTypeAuth},
		{"rate limit", &RateLimitError{Provider: OpenAI}, ErrTypeRateLimit},
		{"timeout", &TimeoutError{Provider: OpenAI, Timeout: time.Second}, ErrTypeTimeout},
		{"parse error", &ParseError{Provider: OpenAI, Cause: errors.New("bad json")}, ErrTypeParse},
		{"server error", &HTTPError{Provider: OpenAI, StatusCode: 503}, ErrTypeServerError},
		{"client error", &HTTPError{Provider: OpenAI, StatusCode: 404}, ErrTypeClientError},
		{"deadline exceeded", context.DeadlineExceeded, ErrTypeTimeout},
		{"context cancelled", context.Canceled, ErrTypeCancelled},
		{"wrapped auth error", fmt.Errorf("call failed: %w", &AuthError{Provider: OpenAI}), ErrTypeAuth},
		{"wrapped cancellation", fmt.Errorf("call failed: %w", context.Canceled), ErrTypeCancelled},
		{"anything else", errors.New("connection refused"), ErrTypeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestFailureFrom(t *testing.T) {
	resp := FailureFrom(Anthropic, &HTTPError{Provider: Anthropic, StatusCode: 500, Message: "boom"}, 42)

	if resp.Success {
		t.Error("Success = true for a failure")
	}
	if resp.Provider != Anthropic {
		t.Errorf("Provider = %q", resp.Provider)
	}
	if resp.Err == nil {
		t.Fatal("Err is nil")
	}
	if resp.Err.Type != ErrTypeServerError {
		t.Errorf("Err.Type = %q, want %q", resp.Err.Type, ErrTypeServerError)
	}
	if resp.LatencyMs != 42 {
		t.Errorf("LatencyMs = %v, want 42", resp.LatencyMs)
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &ParseError{Provider: Gemini, Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
}

func TestRateLimitErrorMessage(t *testing.T) {
	withHint := &RateLimitError{Provider: OpenAI, RetryAfter: 30 * time.Second, Message: "slow down"}
	if msg := withHint.Error(); !strings.Contains(msg, "30s") {
		t.Errorf("Error() = %q, want the retry-after hint", msg)
	}

	withoutHint := &RateLimitError{Provider: OpenAI, Message: "slow down"}
	if msg := withoutHint.Error(); strings.Contains(msg, "retry after") {
		t.Errorf("Error() = %q, want no retry-after hint", msg)
	}
}
