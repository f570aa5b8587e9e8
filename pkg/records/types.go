package records

import (
	"context"
	"errors"
	"time"

	"northstar-hq/relay/pkg/normalize"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("record not found")

// RaceRecord is one stored race outcome with its normalized report.
type RaceRecord struct {
	// ID is the race identifier.
	ID string `json:"id"`

	// Prompt is the prompt that was raced.
	Prompt string `json:"prompt"`

	// Status is the terminal race status.
	Status string `json:"status"`

	// Winner is the winning provider's canonical name, empty when the
	// race produced no winner.
	Winner string `json:"winner,omitempty"`

	// RaceTimeMs is the dispatch-to-decision span of the race.
	RaceTimeMs float64 `json:"race_time_ms"`

	// Participants is the number of provider outcomes recorded.
	Participants int `json:"participants"`

	// Report is the normalized output, nil when the race failed.
	Report *normalize.Report `json:"report,omitempty"`

	// CreatedAt is when the record was stored.
	CreatedAt time.Time `json:"created_at"`
}

// Store is the interface for race record persistence.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save persists a record. An existing record with the same ID is
	// replaced.
	Save(ctx context.Context, rec *RaceRecord) error

	// Get retrieves a record by race ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*RaceRecord, error)

	// Latest returns the most recently stored record.
	// Returns ErrNotFound when the store is empty.
	Latest(ctx context.Context) (*RaceRecord, error)

	// List returns up to limit records, most recent first.
	List(ctx context.Context, limit int) ([]*RaceRecord, error)

	// Cleanup removes records created before the cutoff and reports how
	// many were deleted.
	Cleanup(ctx context.Context, olderThan time.Time) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
