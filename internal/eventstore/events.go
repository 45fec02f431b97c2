package eventstore

import (
	"encoding/json"
	"time"

	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
)

// Event types.
const (
	TypeRunStarted   = "RunStarted"
	TypeRunCompleted = "RunCompleted"
	TypeRunFailed    = "RunFailed"
)

// RunStartedData is the payload of a RunStarted event.
type RunStartedData struct {
	SourceDir string `json:"source_dir"`
	Output    string `json:"output"`
	// Trigger is the changed path for watch-triggered runs.
	Trigger string `json:"trigger,omitempty"`
	// Revision is the git revision of the sources, when they are versioned.
	Revision string `json:"revision,omitempty"`
}

// RunCompletedData is the payload of a RunCompleted event.
type RunCompletedData struct {
	Bytes      int              `json:"bytes"`
	Digest     string           `json:"digest"`
	DurationMS int64            `json:"duration_ms"`
	Artifacts  map[string]int64 `json:"artifacts_ms,omitempty"`
}

// RunFailedData is the payload of a RunFailed event.
type RunFailedData struct {
	Category   string   `json:"category,omitempty"`
	Message    string   `json:"message"`
	Missing    []string `json:"missing,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

func newEvent(runID, eventType string, at time.Time, data any) (*BaseEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, ferrors.InternalError("failed to marshal " + eventType + " payload").
			WithCause(err).
			Build()
	}
	return &BaseEvent{
		EventRunID:     runID,
		EventType:      eventType,
		EventTimestamp: at,
		EventPayload:   payload,
	}, nil
}

// NewRunStarted creates a RunStarted event.
func NewRunStarted(runID string, at time.Time, data RunStartedData) (*BaseEvent, error) {
	return newEvent(runID, TypeRunStarted, at, data)
}

// NewRunCompleted creates a RunCompleted event.
func NewRunCompleted(runID string, at time.Time, data RunCompletedData) (*BaseEvent, error) {
	return newEvent(runID, TypeRunCompleted, at, data)
}

// NewRunFailed creates a RunFailed event.
func NewRunFailed(runID string, at time.Time, data RunFailedData) (*BaseEvent, error) {
	return newEvent(runID, TypeRunFailed, at, data)
}

// Decode unmarshals the payload of e into v.
func Decode(e Event, v any) error {
	if err := json.Unmarshal(e.Payload(), v); err != nil {
		return ferrors.InternalError("failed to unmarshal " + e.Type() + " payload").
			WithCause(err).
			Build()
	}
	return nil
}
