// Package eventstore journals build runs in SQLite and folds the journal
// back into per-run summaries for "gall history".
package eventstore

import (
	"context"
	"sort"
	"time"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunSummary is the read model of one run.
type RunSummary struct {
	RunID      string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Output     string
	Trigger    string
	Revision   string
	Bytes      int
	Digest     string
	Category   string
	Message    string
	Missing    []string
}

// Apply folds one event into the summaries keyed by run ID.
func Apply(runs map[string]*RunSummary, e Event) error {
	runID := e.RunID()
	if runID == "" {
		return nil
	}
	s, ok := runs[runID]
	if !ok {
		s = &RunSummary{RunID: runID, Status: StatusRunning, StartedAt: e.Timestamp()}
		runs[runID] = s
	}

	switch e.Type() {
	case TypeRunStarted:
		var d RunStartedData
		if err := Decode(e, &d); err != nil {
			return err
		}
		s.StartedAt = e.Timestamp()
		s.Output = d.Output
		s.Trigger = d.Trigger
		s.Revision = d.Revision
	case TypeRunCompleted:
		var d RunCompletedData
		if err := Decode(e, &d); err != nil {
			return err
		}
		s.Status = StatusCompleted
		s.FinishedAt = e.Timestamp()
		s.Duration = time.Duration(d.DurationMS) * time.Millisecond
		s.Bytes = d.Bytes
		s.Digest = d.Digest
	case TypeRunFailed:
		var d RunFailedData
		if err := Decode(e, &d); err != nil {
			return err
		}
		s.Status = StatusFailed
		s.FinishedAt = e.Timestamp()
		s.Duration = time.Duration(d.DurationMS) * time.Millisecond
		s.Category = d.Category
		s.Message = d.Message
		s.Missing = d.Missing
	}
	return nil
}

// History returns up to limit runs, newest first. A non-positive limit
// returns every run.
func History(ctx context.Context, store Store, limit int) ([]RunSummary, error) {
	events, err := store.Range(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return nil, err
	}

	runs := make(map[string]*RunSummary)
	order := make(map[string]int64)
	for _, e := range events {
		if err := Apply(runs, e); err != nil {
			return nil, err
		}
		if _, seen := order[e.RunID()]; !seen {
			order[e.RunID()] = e.ID()
		}
	}

	out := make([]RunSummary, 0, len(runs))
	for _, s := range runs {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return order[out[i].RunID] > order[out[j].RunID]
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
