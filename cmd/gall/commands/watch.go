package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/gall/internal/build"
	"git.home.luguber.info/inful/gall/internal/manifest"
	"git.home.luguber.info/inful/gall/internal/observability"
	"git.home.luguber.info/inful/gall/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Initial bool          `help:"Build once before watching"`
	Poll    time.Duration `help:"Poll for changes at this interval instead of using filesystem notifications (e.g. 2s)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.run(ctx, g, root)
}

func (w *WatchCmd) run(ctx context.Context, g *Global, root *CLI) error {
	paths, err := root.paths()
	if err != nil {
		return err
	}
	journal, closeJournal, err := openJournal(paths)
	if err != nil {
		return err
	}
	defer closeJournal()
	sink := newMetricsSink(root.Project)
	pipeline := newPipeline(g, root.Project, paths, sink.recorder, journal)

	report := func(res *build.Result, err error) {
		if err != nil {
			g.Console.Failed(err)
		} else {
			g.Console.Done(res)
		}
		sink.flush(g.Logger)
	}

	// Only changes trigger builds unless asked otherwise.
	if w.Initial {
		report(pipeline.Run(ctx))
	}

	coord := watch.New(manifest.WatchPaths(paths.SourceDir), pipeline,
		watch.WithLogger(observability.New(g.Logger)),
		watch.WithRecorder(sink.recorder),
		watch.OnChange(func(_ string, at time.Time) { g.Console.Changed(at) }),
		watch.OnResult(report),
	)
	g.Console.Watching(root.Project.SourcesDir)
	if w.Poll > 0 {
		return coord.Poll(ctx, w.Poll)
	}
	return coord.Start(ctx)
}
