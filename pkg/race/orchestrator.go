package race

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"northstar-hq/relay/pkg/providers"
	"northstar-hq/relay/pkg/telemetry/metrics"
)

// Default timing bounds applied when the configuration leaves them zero.
const (
	DefaultDeadline = 30 * time.Second

	// DefaultTieWindow is how long the orchestrator keeps collecting
	// settlement events after the first success before deciding. Successes
	// that land inside the window count as simultaneous and are resolved
	// by identity priority instead of arrival order.
	DefaultTieWindow = 10 * time.Millisecond
)

// Config configures an Orchestrator.
type Config struct {
	// Providers is the ordered provider list raced on every call.
	// Identities must be unique.
	Providers []providers.Provider

	// Priority is the tie-break order. Defaults to providers.DefaultPriority.
	Priority *providers.Priority

	// Deadline is the single absolute bound applied identically to every
	// provider in a race. Defaults to DefaultDeadline.
	Deadline time.Duration

	// TieWindow is the decision window after the first success.
	// Defaults to DefaultTieWindow.
	TieWindow time.Duration

	// Metrics receives race outcomes when non-nil.
	Metrics *metrics.RaceMetrics
}

// Orchestrator runs races. It holds only its configured provider list and
// timing bounds; every race owns its bookkeeping exclusively, so concurrent
// Race calls on one Orchestrator are safe without locking.
type Orchestrator struct {
	providers []providers.Provider
	priority  *providers.Priority
	deadline  time.Duration
	tieWindow time.Duration
	metrics   *metrics.RaceMetrics
}

// New creates an Orchestrator. Duplicate provider identities are a
// configuration fault.
func New(cfg Config) (*Orchestrator, error) {
	seen := make(map[providers.Identity]bool, len(cfg.Providers))
	for _, p := range cfg.Providers {
		if seen[p.Identity()] {
			return nil, &providers.ConfigError{
				Component: "race",
				Field:     "providers",
				Message:   fmt.Sprintf("duplicate provider identity %q", p.Identity()),
			}
		}
		seen[p.Identity()] = true
	}

	priority := cfg.Priority
	if priority == nil {
		priority = providers.DefaultPriority()
	}
	deadline := cfg.Deadline
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	tieWindow := cfg.TieWindow
	if tieWindow <= 0 {
		tieWindow = DefaultTieWindow
	}

	return &Orchestrator{
		providers: cfg.Providers,
		priority:  priority,
		deadline:  deadline,
		tieWindow: tieWindow,
		metrics:   cfg.Metrics,
	}, nil
}

// Providers returns the configured provider list.
func (o *Orchestrator) Providers() []providers.Provider {
	return o.providers
}

// Race dispatches prompt to every configured provider concurrently and
// returns the first usable success, subject to the deadline and the
// priority tie-break. opts is forwarded verbatim and identically to every
// provider. Provider-level failures never surface as errors; the caller
// always receives a Result.
func (o *Orchestrator) Race(ctx context.Context, prompt string, opts providers.Options) *Result {
	start := time.Now()
	res := &Result{
		RaceID:       uuid.NewString(),
		Status:       StatusPending,
		Participants: []Participant{},
	}

	if len(o.providers) == 0 {
		res.Status = StatusFailed
		res.Error = "no providers configured"
		res.RaceTimeMs = elapsedMs(start)
		o.metrics.RecordRace(string(res.Status), time.Since(start).Seconds())
		return res
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	res.Status = StatusRunning

	events := make(chan *providers.Response, len(o.providers))
	for _, p := range o.providers {
		go o.call(raceCtx, p, prompt, opts, events)
	}

	slog.Debug("race dispatched",
		"race_id", res.RaceID,
		"providers", len(o.providers),
		"deadline", o.deadline,
	)

	deadlineTimer := time.NewTimer(o.deadline)
	defer deadlineTimer.Stop()

	settled := make(map[providers.Identity]bool, len(o.providers))
	var successes []providers.Response
	var tieTimer *time.Timer
	var tieC <-chan time.Time

	record := func(resp *providers.Response) {
		settled[resp.Provider] = true
		res.Participants = append(res.Participants, Participant{
			Response:    *resp,
			ArrivalRank: len(res.Participants) + 1,
			State:       ParticipantSettled,
		})
		if resp.Success {
			successes = append(successes, *resp)
		} else {
			o.metrics.RecordFailure(resp.Provider.String(), resp.Err.Type)
			slog.Debug("provider failed",
				"race_id", res.RaceID,
				"provider", resp.Provider,
				"error_type", resp.Err.Type,
			)
		}
	}

	for {
		select {
		case resp := <-events:
			record(resp)

			if len(settled) == len(o.providers) {
				if len(successes) > 0 {
					return o.decide(res, successes, settled, cancel, start)
				}
				return o.exhaust(res, start)
			}
			if len(successes) > 0 && tieC == nil {
				tieTimer = time.NewTimer(o.tieWindow)
				defer tieTimer.Stop()
				tieC = tieTimer.C
			}

		case <-tieC:
			return o.decide(res, successes, settled, cancel, start)

		case <-deadlineTimer.C:
			if len(successes) > 0 {
				// Deadline caught the tie window open; the success stands.
				return o.decide(res, successes, settled, cancel, start)
			}
			cancel()
			res.Status = StatusFailed
			res.Error = fmt.Sprintf("race timeout after %s: no provider succeeded before the deadline", o.deadline)
			res.RaceTimeMs = elapsedMs(start)
			o.metrics.RecordRace(string(res.Status), time.Since(start).Seconds())
			slog.Warn("race timed out",
				"race_id", res.RaceID,
				"settled", len(settled),
				"providers", len(o.providers),
			)
			return res

		case <-ctx.Done():
			cancel()
			if len(successes) > 0 {
				return o.decide(res, successes, settled, cancel, start)
			}
			if len(res.Participants) == 0 {
				res.Status = StatusCancelled
				res.Error = "race cancelled by caller"
			} else {
				res.Status = StatusFailed
				res.Error = "race cancelled by caller before completion"
			}
			res.RaceTimeMs = elapsedMs(start)
			o.metrics.RecordRace(string(res.Status), time.Since(start).Seconds())
			return res
		}
	}
}

// call runs one provider and delivers exactly one settlement event. The
// events channel is buffered to the provider count, so a late completion
// parks in the buffer and is dropped with the channel once the race
// returns; it can never mutate a returned Result.
func (o *Orchestrator) call(ctx context.Context, p providers.Provider, prompt string, opts providers.Options, events chan<- *providers.Response) {
	start := time.Now()
	id := p.Identity()

	defer func() {
		if r := recover(); r != nil {
			// Programming-error-class condition inside an adapter; treat
			// it as a generic provider failure.
			slog.Error("provider panicked",
				"provider", id,
				"panic", r,
			)
			events <- providers.Failure(id, providers.ErrTypePanic,
				fmt.Sprintf("provider panicked: %v", r), elapsedMs(start))
		}
	}()

	resp := p.Generate(ctx, prompt, opts)
	if resp == nil {
		resp = providers.Failure(id, providers.ErrTypeNetwork,
			"provider returned no response", elapsedMs(start))
	}
	if resp.Err != nil {
		resp.Success = false
	}
	if !resp.Success && resp.Err == nil {
		resp.Err = &providers.CallError{
			Provider: id,
			Type:     providers.ErrTypeNetwork,
			Message:  "provider reported failure without detail",
		}
	}
	if resp.LatencyMs == 0 {
		resp.LatencyMs = elapsedMs(start)
	}

	events <- resp
}

// decide picks the winner among settled successes by identity priority,
// signals cancellation to every still-pending call, and seals the result.
func (o *Orchestrator) decide(res *Result, successes []providers.Response, settled map[providers.Identity]bool, cancel context.CancelFunc, start time.Time) *Result {
	winner := successes[0]
	for _, s := range successes[1:] {
		if o.priority.Before(s.Provider, winner.Provider) {
			winner = s
		}
	}

	cancel()

	// Best-effort cancellation attempts, recorded for audit. The race does
	// not wait for acknowledgement.
	for _, p := range o.providers {
		if settled[p.Identity()] {
			continue
		}
		slog.Debug("cancellation signalled to losing provider",
			"race_id", res.RaceID,
			"provider", p.Identity(),
		)
		res.Participants = append(res.Participants, Participant{
			Response: providers.Response{
				Provider: p.Identity(),
				Success:  false,
				Err: &providers.CallError{
					Provider: p.Identity(),
					Type:     providers.ErrTypeCancelled,
					Message:  "cancelled: race already decided",
				},
			},
			State: ParticipantCancelled,
		})
	}

	res.Status = StatusCompleted
	res.Winner = &winner
	res.RaceTimeMs = elapsedMs(start)

	o.metrics.RecordRace(string(res.Status), time.Since(start).Seconds())
	o.metrics.RecordWin(winner.Provider.String())

	slog.Info("race completed",
		"race_id", res.RaceID,
		"winner", winner.Provider,
		"race_time_ms", res.RaceTimeMs,
		"successes", len(successes),
	)

	return res
}

// exhaust seals a race in which every provider settled without a success.
func (o *Orchestrator) exhaust(res *Result, start time.Time) *Result {
	res.Status = StatusFailed
	res.Error = fmt.Sprintf("all %d providers failed", len(o.providers))
	res.RaceTimeMs = elapsedMs(start)

	o.metrics.RecordRace(string(res.Status), time.Since(start).Seconds())

	slog.Warn("race exhausted",
		"race_id", res.RaceID,
		"providers", len(o.providers),
	)

	return res
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
