package metrics

import "time"

// ResultLabel enumerates per-artifact load results.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// BuildOutcomeLabel enumerates final build outcomes.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess        BuildOutcomeLabel = "success"
	BuildOutcomeMissingSources BuildOutcomeLabel = "missing_sources"
	BuildOutcomeFailed         BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for builds and the watch loop.
type Recorder interface {
	ObserveLoadDuration(artifact string, d time.Duration)
	IncLoadResult(artifact string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	// IncWatchEvent counts change events; triggered is false for events
	// dropped because a build was already running.
	IncWatchEvent(triggered bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveLoadDuration(string, time.Duration) {}
func (NoopRecorder) IncLoadResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)         {}
func (NoopRecorder) IncWatchEvent(bool)                        {}
