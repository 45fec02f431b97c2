package eventstore

import (
	"context"
	"time"
)

// Store persists and retrieves journal events.
type Store interface {
	// Append adds an event. A zero at means now.
	Append(ctx context.Context, e Event) error

	// ByRun retrieves the events of one run in insertion order.
	ByRun(ctx context.Context, runID string) ([]Event, error)

	// Range retrieves events with timestamps in [start, end], in insertion order.
	Range(ctx context.Context, start, end time.Time) ([]Event, error)

	Close() error
}
