package eventstore

import (
	"context"
	"sync"
	"time"

	"git.home.luguber.info/inful/gall/internal/build"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/git"
	"git.home.luguber.info/inful/gall/internal/logfields"
	"git.home.luguber.info/inful/gall/internal/observability"
)

// Journal records build runs into a Store. Write failures are logged and
// never fail the build.
type Journal struct {
	store     Store
	sourceDir string
	output    string

	// The repository is located once; HEAD is read per run.
	openRepo sync.Once
	repo     *git.Repository
}

// NewJournal returns a journal for builds of one project.
func NewJournal(store Store, sourceDir, output string) *Journal {
	return &Journal{store: store, sourceDir: sourceDir, output: output}
}

// Started implements build.Journal.
func (j *Journal) Started(ctx context.Context, runID string, at time.Time) {
	data := RunStartedData{
		SourceDir: j.sourceDir,
		Output:    j.output,
		Trigger:   observability.GetContext(ctx).Trigger,
	}
	data.Revision = j.revision(ctx)
	e, err := NewRunStarted(runID, at, data)
	j.append(ctx, e, err)
}

// revision returns the short HEAD commit of the project repository, or ""
// outside a repository.
func (j *Journal) revision(ctx context.Context) string {
	j.openRepo.Do(func() {
		repo, ok, err := git.Open(j.sourceDir)
		if err != nil {
			observability.DebugContext(ctx, "Cannot open source repository", logfields.Error(err))
			return
		}
		if ok {
			j.repo = repo
		}
	})
	if j.repo == nil {
		return ""
	}
	rev, ok, err := j.repo.Head()
	if err != nil {
		observability.DebugContext(ctx, "Cannot read source revision", logfields.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return rev.String()
}

// Finished implements build.Journal.
func (j *Journal) Finished(ctx context.Context, runID string, at time.Time, d time.Duration, res *build.Result, runErr error) {
	if runErr == nil && res != nil {
		artifacts := make(map[string]int64, len(res.Artifacts))
		for _, a := range res.Artifacts {
			artifacts[a.Name] = a.Duration.Milliseconds()
		}
		e, err := NewRunCompleted(runID, at, RunCompletedData{
			Bytes:      res.Bytes,
			Digest:     res.Digest,
			DurationMS: d.Milliseconds(),
			Artifacts:  artifacts,
		})
		j.append(ctx, e, err)
		return
	}

	data := RunFailedData{DurationMS: d.Milliseconds()}
	if runErr != nil {
		data.Message = runErr.Error()
		if ce, ok := ferrors.AsClassified(runErr); ok {
			data.Category = string(ce.Category())
			data.Message = ce.Message()
		}
		data.Missing = ferrors.MissingNames(runErr)
	}
	e, err := NewRunFailed(runID, at, data)
	j.append(ctx, e, err)
}

func (j *Journal) append(ctx context.Context, e Event, err error) {
	if err == nil {
		err = j.store.Append(context.WithoutCancel(ctx), e)
	}
	if err != nil {
		observability.WarnContext(ctx, "Failed to record build event", logfields.Error(err))
	}
}

var _ build.Journal = (*Journal)(nil)
