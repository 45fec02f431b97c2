package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/gall/internal/build"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/logfields"
	"git.home.luguber.info/inful/gall/internal/metrics"
	"git.home.luguber.info/inful/gall/internal/observability"
)

// State is the rebuild state of a watch session.
type State int32

const (
	Idle State = iota
	Building
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Building:
		return "building"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Builder runs one build.
type Builder interface {
	Run(ctx context.Context) (*build.Result, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context) (*build.Result, error)

// Run implements Builder.
func (f BuilderFunc) Run(ctx context.Context) (*build.Result, error) { return f(ctx) }

// Coordinator owns a watch session.
type Coordinator struct {
	paths   map[string]struct{}
	builder Builder

	state atomic.Int32
	wg    sync.WaitGroup

	logger   observability.Logger
	recorder metrics.Recorder
	onChange func(path string, at time.Time)
	onResult func(*build.Result, error)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the structured logger.
func WithLogger(l observability.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.recorder = r
		}
	}
}

// OnChange is called from the build goroutine before each triggered build.
func OnChange(fn func(path string, at time.Time)) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

// OnResult is called from the build goroutine after each triggered build.
func OnResult(fn func(*build.Result, error)) Option {
	return func(c *Coordinator) { c.onResult = fn }
}

// New creates a coordinator for paths. Nothing is watched until Start.
func New(paths []string, builder Builder, opts ...Option) *Coordinator {
	c := &Coordinator{
		paths:    make(map[string]struct{}, len(paths)),
		builder:  builder,
		recorder: metrics.NoopRecorder{},
	}
	for _, p := range paths {
		c.paths[filepath.Clean(p)] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports whether a build is in flight.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Wait blocks until no triggered build is running.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Notify signals a change to path. It starts a build and returns true when
// the session is idle; otherwise the event is dropped and false is returned.
func (c *Coordinator) Notify(ctx context.Context, path string) bool {
	if !c.state.CompareAndSwap(int32(Idle), int32(Building)) {
		c.recorder.IncWatchEvent(false)
		c.logger.Debug(ctx, "Change ignored, build in progress",
			logfields.Path(path), logfields.State(Building.String()))
		return false
	}
	c.recorder.IncWatchEvent(true)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.state.Store(int32(Idle))

		// Shutdown waits for a running build instead of cancelling it.
		buildCtx := observability.WithTrigger(context.WithoutCancel(ctx), path)
		if c.onChange != nil {
			c.onChange(path, time.Now())
		}
		c.logger.Info(buildCtx, "Change detected, rebuilding", logfields.Path(path))
		res, err := c.builder.Run(buildCtx)
		if err != nil {
			c.logger.Error(buildCtx, "Rebuild failed", logfields.Error(err))
		}
		if c.onResult != nil {
			c.onResult(res, err)
		}
	}()
	return true
}

// Start subscribes to the parent directories of the watched paths and
// forwards qualifying events to Notify until ctx is done. Before returning
// it waits for an in-flight build and releases the subscription.
func (c *Coordinator) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WatchError("cannot create file watcher").WithCause(err).Build()
	}
	defer c.Wait()
	defer func() { _ = w.Close() }()

	for _, dir := range c.dirs() {
		if err := w.Add(dir); err != nil {
			return ferrors.WatchError(fmt.Sprintf("cannot watch %s", dir)).
				WithCause(err).
				WithContext(ferrors.ContextPath, dir).
				Build()
		}
	}
	c.logger.Debug(ctx, "Watching sources", logfields.State(c.State().String()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if c.relevant(ev) {
				c.Notify(ctx, filepath.Clean(ev.Name))
			}
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn(ctx, "File watcher error", logfields.Error(werr))
		}
	}
}

// Rename is reported for the name being moved away; a file moved onto a
// watched name arrives as Create.
const triggerOps = fsnotify.Write | fsnotify.Create

func (c *Coordinator) relevant(ev fsnotify.Event) bool {
	if ev.Op&triggerOps == 0 {
		return false
	}
	_, ok := c.paths[filepath.Clean(ev.Name)]
	return ok
}

func (c *Coordinator) dirs() []string {
	seen := make(map[string]struct{})
	for p := range c.paths {
		seen[filepath.Dir(p)] = struct{}{}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}
