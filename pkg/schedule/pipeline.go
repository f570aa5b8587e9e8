// Package schedule runs the race-and-normalize pipeline, either on demand
// or on a cron calendar.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"northstar-hq/relay/pkg/normalize"
	"northstar-hq/relay/pkg/providers"
	"northstar-hq/relay/pkg/race"
	"northstar-hq/relay/pkg/records"
)

// Pipeline wires a race orchestrator, normalizer, and record store into
// one invocable unit: race the prompt, normalize the winner's payload,
// store the outcome.
type Pipeline struct {
	orchestrator *race.Orchestrator
	normalizer   *normalize.Normalizer
	store        records.Store
	prompt       string
	opts         providers.Options
}

// NewPipeline creates a Pipeline. The store may be nil, in which case
// outcomes are returned but not persisted.
func NewPipeline(orch *race.Orchestrator, norm *normalize.Normalizer, store records.Store, prompt string, opts providers.Options) *Pipeline {
	return &Pipeline{
		orchestrator: orch,
		normalizer:   norm,
		store:        store,
		prompt:       prompt,
		opts:         opts,
	}
}

// RunOnce executes one pipeline pass and returns the stored record.
// Race failures are not errors: the record carries the failed status and
// no report. Only storage faults surface as errors.
func (p *Pipeline) RunOnce(ctx context.Context) (*records.RaceRecord, error) {
	result := p.orchestrator.Race(ctx, p.prompt, p.opts)

	rec := &records.RaceRecord{
		ID:           result.RaceID,
		Prompt:       p.prompt,
		Status:       string(result.Status),
		RaceTimeMs:   result.RaceTimeMs,
		Participants: len(result.Participants),
		CreatedAt:    time.Now(),
	}

	if result.Winner != nil {
		rec.Winner = result.Winner.Provider.String()
		report := p.normalizer.Normalize(result.Winner.Content, result.Winner.Provider)
		rec.Report = &report
	}

	if p.store != nil {
		if err := p.store.Save(ctx, rec); err != nil {
			return nil, err
		}
	}

	slog.Info("pipeline run completed",
		"race_id", rec.ID,
		"status", rec.Status,
		"winner", rec.Winner,
		"race_time_ms", rec.RaceTimeMs,
	)

	return rec, nil
}
