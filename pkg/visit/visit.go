// Package visit defines the lifecycle vocabulary for navigation visits: the
// outcome classification, the event payloads a host subsystem emits, and the
// Subscriber contract consumed by notification sinks.
package visit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a visit ended. Exactly one value applies, and it is
// known only when the finish event is delivered.
type Outcome int

const (
	// OutcomeCompleted means the visit reached its destination normally.
	OutcomeCompleted Outcome = iota
	// OutcomeInterrupted means a newer visit superseded this one before it
	// finished loading.
	OutcomeInterrupted
	// OutcomeCancelled means the caller explicitly aborted the visit.
	OutcomeCancelled
)

// String returns the wire name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ParseOutcome converts a wire name back into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "completed":
		return OutcomeCompleted, nil
	case "interrupted":
		return OutcomeInterrupted, nil
	case "cancelled":
		return OutcomeCancelled, nil
	default:
		return 0, fmt.Errorf("unknown visit outcome %q", s)
	}
}

// MarshalJSON encodes the outcome as its wire name.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes an outcome from its wire name.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Visit is one logical navigation or data-submission request tracked
// end-to-end. The ID and label exist for logging; the notifier itself keys
// nothing off them.
type Visit struct {
	ID        uuid.UUID
	Label     string
	StartedAt time.Time
}

// New creates a Visit stamped with a fresh ID and the current time.
func New(label string) Visit {
	return Visit{
		ID:        uuid.New(),
		Label:     label,
		StartedAt: time.Now(),
	}
}

// StartPayload accompanies a start notification. It carries no data the
// notifier acts on; the visit metadata is for logging only.
type StartPayload struct {
	Visit Visit
}

// ProgressPayload accompanies a progress notification. Percentage is nil
// when the host did not measure one (not all visits transmit a request
// body); subscribers must ignore such events.
type ProgressPayload struct {
	Percentage *float64
}

// FinishPayload accompanies a finish notification and carries the terminal
// outcome classification.
type FinishPayload struct {
	Outcome Outcome
}

// Subscriber receives visit lifecycle notifications in delivery order.
// Implementations may assume handlers are never invoked concurrently: the
// bus (or any other driver) delivers one notification at a time,
// run-to-completion.
type Subscriber interface {
	HandleStart(StartPayload)
	HandleProgress(ProgressPayload)
	HandleFinish(FinishPayload)
}
