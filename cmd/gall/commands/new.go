package commands

import (
	"git.home.luguber.info/inful/gall/internal/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Force bool `short:"f" help:"Replace the contents of an existing sources directory"`
}

func (n *NewCmd) Run(g *Global, root *CLI) error {
	paths, err := root.paths()
	if err != nil {
		return err
	}
	files, err := scaffold.New(paths.SourceDir, n.Force)
	if err != nil {
		return err
	}
	g.Console.Created(root.Project.SourcesDir, files)
	return nil
}
