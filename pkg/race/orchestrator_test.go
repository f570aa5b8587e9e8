package race

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"northstar-hq/relay/internal/providertest"
	"northstar-hq/relay/pkg/providers"
)

func newTestOrchestrator(t *testing.T, cfg Config) *Orchestrator {
	t.Helper()
	o, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

// sleeper is a provider that ignores context cancellation and settles
// only after its full delay. It stands in for an adapter that cannot be
// interrupted mid-call.
type sleeper struct {
	id    providers.Identity
	delay time.Duration
}

func (s *sleeper) Identity() providers.Identity { return s.id }

func (s *sleeper) Generate(ctx context.Context, prompt string, opts providers.Options) *providers.Response {
	time.Sleep(s.delay)
	return &providers.Response{
		Provider:  s.id,
		Content:   "late content",
		LatencyMs: float64(s.delay.Milliseconds()),
		Success:   true,
	}
}

func (s *sleeper) HealthCheck(ctx context.Context) providers.HealthStatus {
	return providers.HealthStatus{Status: providers.StatusHealthy, Provider: string(s.id)}
}

func (s *sleeper) Close() error { return nil }

func TestNewRejectsDuplicateIdentities(t *testing.T) {
	_, err := New(Config{
		Providers: []providers.Provider{
			providertest.NewMock(providers.OpenAI, "a"),
			providertest.NewMock(providers.OpenAI, "b"),
		},
	})
	if err == nil {
		t.Fatal("New() with duplicate identities should fail")
	}
	var cfgErr *providers.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error = %T, want *providers.ConfigError", err)
	}
}

func TestRaceNoProviders(t *testing.T) {
	o := newTestOrchestrator(t, Config{})

	start := time.Now()
	result := o.Race(context.Background(), "prompt", nil)

	if result.Status != StatusFailed {
		t.Errorf("Status = %q, want %q", result.Status, StatusFailed)
	}
	if result.Winner != nil {
		t.Errorf("Winner = %v, want nil", result.Winner)
	}
	if result.Error != "no providers configured" {
		t.Errorf("Error = %q, want %q", result.Error, "no providers configured")
	}
	if len(result.Participants) != 0 {
		t.Errorf("Participants = %d, want 0", len(result.Participants))
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("empty race took %s, should return without waiting", elapsed)
	}
}

func TestRaceSingleProviderSuccess(t *testing.T) {
	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{providertest.NewMock(providers.OpenAI, "hello")},
	})

	result := o.Race(context.Background(), "prompt", nil)

	if result.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q", result.Status, StatusCompleted)
	}
	if result.Winner == nil {
		t.Fatal("Winner is nil for completed race")
	}
	if result.Winner.Provider != providers.OpenAI {
		t.Errorf("Winner.Provider = %q, want %q", result.Winner.Provider, providers.OpenAI)
	}
	if result.Winner.Content != "hello" {
		t.Errorf("Winner.Content = %q, want %q", result.Winner.Content, "hello")
	}
	if !result.Winner.Success {
		t.Error("Winner.Success = false, want true")
	}
	if result.RaceID == "" {
		t.Error("RaceID is empty")
	}
	if len(result.Participants) != 1 {
		t.Errorf("Participants = %d, want 1", len(result.Participants))
	}
}

func TestRaceFirstSuccessWinsOutsideTieWindow(t *testing.T) {
	// The fastest success wins when no other success lands inside the
	// tie window, even when a higher-priority provider is still running.
	fast := providertest.NewMock(providers.Gemini, "fast")
	fast.Latency = 10 * time.Millisecond
	slow := providertest.NewMock(providers.OpenAI, "slow")
	slow.Latency = 2 * time.Second

	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{slow, fast},
		TieWindow: 50 * time.Millisecond,
	})

	result := o.Race(context.Background(), "prompt", nil)

	if result.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q (error: %s)", result.Status, StatusCompleted, result.Error)
	}
	if result.Winner.Provider != providers.Gemini {
		t.Errorf("Winner.Provider = %q, want %q", result.Winner.Provider, providers.Gemini)
	}

	if len(result.Participants) != 2 {
		t.Fatalf("Participants = %d, want 2", len(result.Participants))
	}
	var cancelled *Participant
	for i := range result.Participants {
		if result.Participants[i].State == ParticipantCancelled {
			cancelled = &result.Participants[i]
		}
	}
	if cancelled == nil {
		t.Fatal("no cancelled participant recorded for the in-flight provider")
	}
	if cancelled.Response.Provider != providers.OpenAI {
		t.Errorf("cancelled participant = %q, want %q", cancelled.Response.Provider, providers.OpenAI)
	}
	if cancelled.Response.Err == nil || cancelled.Response.Err.Type != providers.ErrTypeCancelled {
		t.Errorf("cancelled participant error = %+v, want type %q", cancelled.Response.Err, providers.ErrTypeCancelled)
	}
}

func TestRacePriorityBreaksTies(t *testing.T) {
	// One provider fails and the two remaining successes land inside the
	// tie window; the configured priority picks the winner, not arrival
	// order.
	failing := providertest.NewFailing(providers.OpenAI, providers.ErrTypeServerError, "boom")
	second := providertest.NewMock(providers.Anthropic, "from anthropic")
	second.Latency = 20 * time.Millisecond
	third := providertest.NewMock(providers.Gemini, "from gemini")
	third.Latency = 20 * time.Millisecond

	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{failing, second, third},
		TieWindow: 500 * time.Millisecond,
	})

	result := o.Race(context.Background(), "prompt", nil)

	if result.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q (error: %s)", result.Status, StatusCompleted, result.Error)
	}
	if result.Winner.Provider != providers.Anthropic {
		t.Errorf("Winner.Provider = %q, want %q", result.Winner.Provider, providers.Anthropic)
	}
	if len(result.Participants) != 3 {
		t.Errorf("Participants = %d, want 3", len(result.Participants))
	}
	for _, p := range result.Participants {
		if p.State != ParticipantSettled {
			t.Errorf("participant %q state = %q, want %q", p.Response.Provider, p.State, ParticipantSettled)
		}
	}
}

func TestRaceAllProvidersFail(t *testing.T) {
	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{
			providertest.NewFailing(providers.OpenAI, providers.ErrTypeAuth, "bad key"),
			providertest.NewFailing(providers.Anthropic, providers.ErrTypeRateLimit, "slow down"),
			providertest.NewFailing(providers.Gemini, providers.ErrTypeServerError, "500"),
		},
	})

	result := o.Race(context.Background(), "prompt", nil)

	if result.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", result.Status, StatusFailed)
	}
	if result.Winner != nil {
		t.Errorf("Winner = %v, want nil", result.Winner)
	}
	if result.Error != "all 3 providers failed" {
		t.Errorf("Error = %q, want %q", result.Error, "all 3 providers failed")
	}
	if len(result.Participants) != 3 {
		t.Fatalf("Participants = %d, want 3", len(result.Participants))
	}
	for i, p := range result.Participants {
		if p.ArrivalRank != i+1 {
			t.Errorf("participant %d ArrivalRank = %d, want %d", i, p.ArrivalRank, i+1)
		}
		if p.Response.Err == nil {
			t.Errorf("participant %q has no error", p.Response.Provider)
		}
	}
}

func TestRaceDeadline(t *testing.T) {
	slow := providertest.NewMock(providers.OpenAI, "too late")
	slow.Latency = 5 * time.Second

	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{slow},
		Deadline:  50 * time.Millisecond,
	})

	start := time.Now()
	result := o.Race(context.Background(), "prompt", nil)
	elapsed := time.Since(start)

	if result.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", result.Status, StatusFailed)
	}
	if !strings.Contains(result.Error, "timeout") {
		t.Errorf("Error = %q, want it to mention timeout", result.Error)
	}
	if result.Winner != nil {
		t.Errorf("Winner = %v, want nil", result.Winner)
	}
	if elapsed > time.Second {
		t.Errorf("race took %s, want roughly the 50ms deadline", elapsed)
	}
}

func TestRaceDeadlineWithOpenTieWindow(t *testing.T) {
	// A success that lands just before the deadline still wins even when
	// the deadline cuts the tie window short.
	fast := providertest.NewMock(providers.OpenAI, "made it")
	fast.Latency = 10 * time.Millisecond
	slow := providertest.NewMock(providers.Anthropic, "too late")
	slow.Latency = 5 * time.Second

	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{fast, slow},
		Deadline:  100 * time.Millisecond,
		TieWindow: 10 * time.Second,
	})

	result := o.Race(context.Background(), "prompt", nil)

	if result.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q (error: %s)", result.Status, StatusCompleted, result.Error)
	}
	if result.Winner.Provider != providers.OpenAI {
		t.Errorf("Winner.Provider = %q, want %q", result.Winner.Provider, providers.OpenAI)
	}
}

func TestRaceOptionsForwardedVerbatim(t *testing.T) {
	first := providertest.NewMock(providers.OpenAI, "a")
	second := providertest.NewMock(providers.Anthropic, "b")

	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{first, second},
		TieWindow: 500 * time.Millisecond,
	})

	opts := providers.Options{
		providers.OptMaxTokens:   512,
		providers.OptTemperature: 0.2,
	}
	o.Race(context.Background(), "the prompt", opts)

	for _, m := range []*providertest.Mock{first, second} {
		calls := m.Calls()
		if len(calls) != 1 {
			t.Fatalf("provider %q got %d calls, want 1", m.ID, len(calls))
		}
		if calls[0].Prompt != "the prompt" {
			t.Errorf("provider %q prompt = %q, want %q", m.ID, calls[0].Prompt, "the prompt")
		}
		if got := calls[0].Options[providers.OptMaxTokens]; got != 512 {
			t.Errorf("provider %q max tokens = %v, want 512", m.ID, got)
		}
		if got := calls[0].Options[providers.OptTemperature]; got != 0.2 {
			t.Errorf("provider %q temperature = %v, want 0.2", m.ID, got)
		}
	}
}

func TestRaceCallerCancellation(t *testing.T) {
	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{&sleeper{id: providers.OpenAI, delay: 500 * time.Millisecond}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result := o.Race(ctx, "prompt", nil)

	if result.Status != StatusCancelled {
		t.Fatalf("Status = %q, want %q", result.Status, StatusCancelled)
	}
	if result.Winner != nil {
		t.Errorf("Winner = %v, want nil", result.Winner)
	}
	if !strings.Contains(result.Error, "cancelled") {
		t.Errorf("Error = %q, want it to mention cancellation", result.Error)
	}
}

func TestRacePanickingProviderIsIsolated(t *testing.T) {
	panicking := providertest.NewMock(providers.OpenAI, "")
	panicking.Panic = true
	healthy := providertest.NewMock(providers.Anthropic, "still here")
	healthy.Latency = 20 * time.Millisecond

	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{panicking, healthy},
	})

	result := o.Race(context.Background(), "prompt", nil)

	if result.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q (error: %s)", result.Status, StatusCompleted, result.Error)
	}
	if result.Winner.Provider != providers.Anthropic {
		t.Errorf("Winner.Provider = %q, want %q", result.Winner.Provider, providers.Anthropic)
	}

	var panicked *Participant
	for i := range result.Participants {
		if result.Participants[i].Response.Provider == providers.OpenAI {
			panicked = &result.Participants[i]
		}
	}
	if panicked == nil {
		t.Fatal("panicking provider not recorded as participant")
	}
	if panicked.Response.Err == nil || panicked.Response.Err.Type != providers.ErrTypePanic {
		t.Errorf("panicking participant error = %+v, want type %q", panicked.Response.Err, providers.ErrTypePanic)
	}
}

func TestRaceLateCompletionDoesNotMutateResult(t *testing.T) {
	fast := providertest.NewMock(providers.Anthropic, "winner")
	fast.Latency = 10 * time.Millisecond
	late := &sleeper{id: providers.OpenAI, delay: 150 * time.Millisecond}

	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{fast, late},
		TieWindow: 30 * time.Millisecond,
	})

	result := o.Race(context.Background(), "prompt", nil)

	if result.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q (error: %s)", result.Status, StatusCompleted, result.Error)
	}
	winner := result.Winner.Provider
	participants := len(result.Participants)

	// Let the ignored provider settle after the race has returned.
	time.Sleep(300 * time.Millisecond)

	if result.Winner.Provider != winner {
		t.Errorf("Winner changed after race returned: %q", result.Winner.Provider)
	}
	if len(result.Participants) != participants {
		t.Errorf("Participants changed after race returned: %d, was %d", len(result.Participants), participants)
	}
	if result.Winner.Content != "winner" {
		t.Errorf("Winner.Content = %q, want %q", result.Winner.Content, "winner")
	}
}

func TestRaceConcurrentCalls(t *testing.T) {
	o := newTestOrchestrator(t, Config{
		Providers: []providers.Provider{providertest.NewMock(providers.OpenAI, "ok")},
	})

	done := make(chan *Result, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- o.Race(context.Background(), "prompt", nil)
		}()
	}

	seen := make(map[string]bool, 10)
	for i := 0; i < 10; i++ {
		result := <-done
		if result.Status != StatusCompleted {
			t.Errorf("Status = %q, want %q", result.Status, StatusCompleted)
		}
		if seen[result.RaceID] {
			t.Errorf("duplicate RaceID %q across concurrent races", result.RaceID)
		}
		seen[result.RaceID] = true
	}
}
