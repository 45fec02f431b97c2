package commands

import "github.com/alecthomas/kong"

// HelpCmd implements the 'help' command.
type HelpCmd struct {
	Command []string `arg:"" optional:"" help:"Command to show help for"`
}

func (h *HelpCmd) Run(kctx *kong.Context) error {
	ctx, err := kong.Trace(kctx.Kong, h.Command)
	if err != nil {
		return err
	}
	return ctx.PrintUsage(false)
}
