package commands

import (
	"context"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
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
	defer sink.flush(g.Logger)

	res, err := newPipeline(g, root.Project, paths, sink.recorder, journal).Run(context.Background())
	if err != nil {
		return err
	}
	g.Console.Done(res)
	return nil
}
