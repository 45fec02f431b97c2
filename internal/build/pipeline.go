package build

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"git.home.luguber.info/inful/gall/internal/assets"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/loader"
	"git.home.luguber.info/inful/gall/internal/logfields"
	"git.home.luguber.info/inful/gall/internal/manifest"
	"git.home.luguber.info/inful/gall/internal/metrics"
	"git.home.luguber.info/inful/gall/internal/observability"
	"git.home.luguber.info/inful/gall/internal/render"
)

// Progress receives the user-facing milestones of a run.
type Progress interface {
	Reading()
	Loaded(name string)
	Writing(path string)
}

// Journal records the lifecycle of each run.
type Journal interface {
	Started(ctx context.Context, runID string, at time.Time)
	Finished(ctx context.Context, runID string, at time.Time, d time.Duration, res *Result, err error)
}

type noopJournal struct{}

func (noopJournal) Started(context.Context, string, time.Time) {}
func (noopJournal) Finished(context.Context, string, time.Time, time.Duration, *Result, error) {
}

type noopProgress struct{}

func (noopProgress) Reading()       {}
func (noopProgress) Loaded(string)  {}
func (noopProgress) Writing(string) {}

// Pipeline runs builds for one project. It holds no per-run state and may
// be run repeatedly, though callers are expected to serialize runs.
type Pipeline struct {
	sourceDir  string
	output     string
	sources    fs.FS
	bundle     fs.FS
	bundleDir  string
	bundleName string

	loaders  loader.Set
	renderer render.Renderer
	writer   Writer
	recorder metrics.Recorder
	logger   observability.Logger
	progress Progress
	journal  Journal
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLoaders replaces the loader set.
func WithLoaders(set loader.Set) Option {
	return func(p *Pipeline) { p.loaders = set }
}

// WithRenderer replaces the template engine.
func WithRenderer(r render.Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

// WithWriter replaces the output writer.
func WithWriter(w Writer) Option {
	return func(p *Pipeline) { p.writer = w }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l observability.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithProgress sets the console progress reporter.
func WithProgress(pr Progress) Option {
	return func(p *Pipeline) {
		if pr != nil {
			p.progress = pr
		}
	}
}

// WithJournal sets the run journal.
func WithJournal(j Journal) Option {
	return func(p *Pipeline) {
		if j != nil {
			p.journal = j
		}
	}
}

// WithBundleFile reads the runtime bundle from path instead of the embedded copy.
func WithBundleFile(path string) Option {
	return func(p *Pipeline) {
		if path == "" {
			return
		}
		p.bundleDir = filepath.Dir(path)
		p.bundle = os.DirFS(p.bundleDir)
		p.bundleName = filepath.Base(path)
	}
}

// New returns a pipeline reading from sourceDir and writing to output.
func New(sourceDir, output string, opts ...Option) *Pipeline {
	p := &Pipeline{
		sourceDir:  sourceDir,
		output:     output,
		sources:    os.DirFS(sourceDir),
		bundle:     assets.Bundle(),
		bundleName: manifest.BundleFile,
		renderer:   render.NewTextTemplate(),
		writer:     FileWriter{},
		recorder:   metrics.NoopRecorder{},
		progress:   noopProgress{},
		journal:    noopJournal{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.loaders == nil {
		p.loaders = loader.NewSet(loader.Options{})
	}
	return p
}

type slot struct {
	value    any
	duration time.Duration
}

// Run performs one build.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)
	p.journal.Started(ctx, runID, start)

	res, err := p.run(ctx, runID, start)
	duration := time.Since(start)
	p.recorder.ObserveBuildDuration(duration)
	if res != nil {
		res.Duration = duration
	}
	p.journal.Finished(ctx, runID, time.Now(), duration, res, err)

	switch {
	case err == nil:
		p.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		p.logger.Info(ctx, "Build completed",
			logfields.Output(res.OutputPath),
			logfields.Bytes(res.Bytes),
			logfields.Digest(res.Digest),
			logfields.DurationMS(float64(duration.Microseconds())/1000))
		return res, nil
	case ferrors.HasCategory(err, ferrors.CategoryMissingSources):
		p.recorder.IncBuildOutcome(metrics.BuildOutcomeMissingSources)
		p.logger.Warn(ctx, "Build skipped, sources missing", logfields.Missing(ferrors.MissingNames(err)))
	default:
		p.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		p.logger.Error(ctx, "Build failed", logfields.Error(err))
	}
	return nil, err
}

func (p *Pipeline) run(ctx context.Context, runID string, start time.Time) (*Result, error) {
	if err := p.preflight(); err != nil {
		return nil, err
	}

	p.progress.Reading()
	values, timings, err := p.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	text, _ := values[manifest.TemplateFile].(string)
	rc := RenderContext{Defines: values[manifest.DefinesFile]}
	rc.CSS, _ = values[manifest.StyleFile].(string)
	rc.Script, _ = values[manifest.ScriptFile].(string)
	rc.Story, _ = values[manifest.StoryFile].(string)
	rc.Blotter, _ = values[manifest.BundleFile].(string)

	out, err := p.renderer.Render(manifest.TemplateFile, text, rc.Map())
	if err != nil {
		return nil, ferrors.RenderError(manifest.TemplateFile, err).Build()
	}

	p.progress.Writing(p.output)
	data := []byte(out)
	if err := p.writer.Write(p.output, data); err != nil {
		if _, ok := ferrors.AsClassified(err); ok {
			return nil, err
		}
		return nil, ferrors.WriteError(p.output, err).Build()
	}

	sum := blake3.Sum256(data)
	return &Result{
		RunID:      runID,
		OutputPath: p.output,
		Bytes:      len(data),
		Digest:     hex.EncodeToString(sum[:]),
		Duration:   time.Since(start),
		Artifacts:  timings,
	}, nil
}

// preflight reports every missing required source at once.
func (p *Pipeline) preflight() error {
	var missing []string
	for _, d := range manifest.Required() {
		if _, err := fs.Stat(p.sources, d.Name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, d.Name)
				continue
			}
			return ferrors.RuntimeError(fmt.Sprintf("cannot stat %s", d.Name)).
				WithSeverity(ferrors.SeverityError).
				WithCause(err).
				WithContext(ferrors.ContextArtifact, d.Name).
				Build()
		}
	}
	if len(missing) > 0 {
		return ferrors.MissingSourcesError(missing).
			WithContext(ferrors.ContextPath, p.sourceDir).
			Build()
	}
	return nil
}

// resolve binds d to where this pipeline reads it from. The embedded bundle
// has no path.
func (p *Pipeline) resolve(d manifest.Descriptor) manifest.Artifact {
	if !d.Bundled {
		return d.Resolve(p.sourceDir)
	}
	a := manifest.Artifact{Name: d.Name, Kind: d.Kind}
	if p.bundleDir != "" {
		a.Path = filepath.Join(p.bundleDir, p.bundleName)
	}
	return a
}

// loadAll runs one loader per artifact and joins them. The first error to
// complete cancels the others; every goroutine is awaited either way.
// Progress sees each artifact as its load finishes.
func (p *Pipeline) loadAll(ctx context.Context) (map[string]any, []ArtifactTiming, error) {
	descs := manifest.All()
	artifacts := make([]manifest.Artifact, len(descs))
	slots := make([]slot, len(descs))
	loaders := make([]loader.Loader, len(descs))
	for i, d := range descs {
		l, err := p.loaders.For(d.Kind)
		if err != nil {
			return nil, nil, err
		}
		loaders[i] = l
		artifacts[i] = p.resolve(d)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for i, d := range descs {
		l := loaders[i]
		fsys, name := p.sources, d.Name
		if d.Bundled {
			fsys, name = p.bundle, p.bundleName
		}

		wg.Add(1)
		go func(i int, a manifest.Artifact) {
			defer wg.Done()
			started := time.Now()
			v, err := l.Load(observability.WithArtifact(ctx, a.Name), fsys, name)
			elapsed := time.Since(started)
			p.recorder.ObserveLoadDuration(a.Name, elapsed)
			if err != nil {
				p.recorder.IncLoadResult(a.Name, metrics.ResultFailed)
				if ferrors.HasCategory(err, ferrors.CategoryNotFound) && a.Path != "" {
					err = ferrors.NotFoundError(a.Name, a.Path).WithCause(err).Build()
				}
				once.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			p.recorder.IncLoadResult(a.Name, metrics.ResultSuccess)
			slots[i] = slot{value: v, duration: elapsed}
			p.progress.Loaded(a.Name)
			p.logger.Debug(ctx, "Artifact loaded",
				logfields.Artifact(a.Name),
				logfields.Kind(string(a.Kind)),
				logfields.Path(a.Path),
				logfields.DurationMS(float64(elapsed.Microseconds())/1000))
		}(i, artifacts[i])
	}
	wg.Wait()

	if firstErr != nil {
		return nil, nil, firstErr
	}

	values := make(map[string]any, len(descs))
	timings := make([]ArtifactTiming, len(descs))
	for i, a := range artifacts {
		values[a.Name] = slots[i].value
		timings[i] = ArtifactTiming{Name: a.Name, Path: a.Path, Duration: slots[i].duration}
	}
	return values, timings, nil
}
