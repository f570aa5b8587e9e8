// Package providertest provides a scripted fake provider for tests.
package providertest

import (
	"context"
	"sync"
	"time"

	"northstar-hq/relay/pkg/providers"
)

// Call records one Generate invocation.
type Call struct {
	Prompt  string
	Options providers.Options
}

// Mock is a scripted Provider. Configure Latency and either Content or
// Fail before use; Generate sleeps for Latency (honoring the context)
// and returns the scripted outcome.
type Mock struct {
	ID      providers.Identity
	Latency time.Duration
	Content string
	Fail    *providers.CallError
	Panic   bool
	Health  providers.HealthStatus
	OnClose func()

	mu    sync.Mutex
	calls []Call
}

// NewMock returns a mock that succeeds immediately with content.
func NewMock(id providers.Identity, content string) *Mock {
	return &Mock{ID: id, Content: content}
}

// NewFailing returns a mock that fails immediately with the given error type.
func NewFailing(id providers.Identity, errType, message string) *Mock {
	return &Mock{ID: id, Fail: &providers.CallError{Provider: id, Type: errType, Message: message}}
}

func (m *Mock) Identity() providers.Identity { return m.ID }

func (m *Mock) Generate(ctx context.Context, prompt string, opts providers.Options) *providers.Response {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Prompt: prompt, Options: opts})
	m.mu.Unlock()

	start := time.Now()
	if m.Latency > 0 {
		timer := time.NewTimer(m.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return providers.FailureFrom(m.ID, ctx.Err(), float64(time.Since(start).Milliseconds()))
		}
	}

	if m.Panic {
		panic("scripted panic from " + string(m.ID))
	}
	latency := float64(time.Since(start).Milliseconds())
	if m.Fail != nil {
		return providers.Failure(m.ID, m.Fail.Type, m.Fail.Message, latency)
	}
	return &providers.Response{
		Provider:  m.ID,
		Model:     "mock-model",
		Content:   m.Content,
		Usage:     map[string]int{"total_tokens": len(m.Content)},
		LatencyMs: latency,
		Success:   true,
	}
}

func (m *Mock) HealthCheck(ctx context.Context) providers.HealthStatus {
	if m.Health.Status != "" {
		return m.Health
	}
	return providers.HealthStatus{
		Status:    providers.StatusHealthy,
		Provider:  string(m.ID),
		CheckedAt: time.Now().UTC(),
	}
}

func (m *Mock) Close() error {
	if m.OnClose != nil {
		m.OnClose()
	}
	return nil
}

// Calls returns a copy of the recorded Generate invocations.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}
