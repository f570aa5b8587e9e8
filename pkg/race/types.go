package race

import (
	"northstar-hq/relay/pkg/providers"
)

// Status is the lifecycle state of one race. Transitions run strictly
// forward: pending -> running -> one terminal state, no re-entry.
type Status string

const (
	// StatusPending means the race is constructed but not yet dispatched.
	StatusPending Status = "pending"

	// StatusRunning means dispatch is in flight.
	StatusRunning Status = "running"

	// StatusCompleted means a winner was determined.
	StatusCompleted Status = "completed"

	// StatusFailed means no provider produced a usable success before the
	// deadline. Universal failure and deadline expiry both land here,
	// distinguished by the Error text.
	StatusFailed Status = "failed"

	// StatusCancelled means the caller aborted the race before any
	// provider settled. Internal deadline expiry is StatusFailed, not
	// StatusCancelled.
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is a terminal state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Participant states.
const (
	// ParticipantSettled means the provider's call reached its own terminal
	// outcome (success or failure) before the decision.
	ParticipantSettled = "settled"

	// ParticipantCancelled means the provider was still in flight when the
	// race was decided and a best-effort cancellation was signalled. The
	// recorded response is a synthetic cancellation failure.
	ParticipantCancelled = "cancelled"
)

// Participant is the recorded terminal outcome of one provider within one
// race. It is created when the provider's call settles or when the race is
// decided with the call still pending, and is immutable afterwards.
type Participant struct {
	// Response is the provider outcome captured by value at decision time.
	// A call that ignores cancellation and completes later cannot reach it.
	Response providers.Response `json:"response"`

	// ArrivalRank is the 1-based settlement position. Participants that
	// never settled (cancelled in flight) carry rank 0.
	ArrivalRank int `json:"arrival_rank"`

	// State is ParticipantSettled or ParticipantCancelled.
	State string `json:"state"`
}

// Result is the outcome of one race invocation. It is constructed
// exclusively by the orchestrator and never mutated after return.
//
// Invariant: Winner != nil exactly when Status == StatusCompleted.
type Result struct {
	// RaceID uniquely identifies this invocation for audit and storage.
	RaceID string `json:"race_id"`

	// Status is the terminal state of the race.
	Status Status `json:"status"`

	// Winner is the first usable success, subject to the priority
	// tie-break. Nil unless Status is StatusCompleted.
	Winner *providers.Response `json:"winner,omitempty"`

	// Participants lists every provider outcome known at decision time,
	// in settlement order, with cancelled in-flight calls appended last.
	Participants []Participant `json:"participants"`

	// RaceTimeMs is the wall-clock span from dispatch start to decision.
	RaceTimeMs float64 `json:"race_time_ms"`

	// Error describes the failure for non-completed races. A deadline
	// expiry always mentions "timeout".
	Error string `json:"error,omitempty"`
}
