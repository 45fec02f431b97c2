package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/gall/cmd/gall/commands"
	"git.home.luguber.info/inful/gall/internal/console"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/version"
)

func main() {
	cli := &commands.CLI{}
	g := &commands.Global{Console: console.New(os.Stdout)}

	parser, err := commands.NewParser(cli, g, version.String())
	if err != nil {
		panic(err)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"--help"}
	}

	kctx, err := parser.Parse(args)
	adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	if err != nil {
		if _, ok := ferrors.AsClassified(err); ok {
			adapter.HandleError(err)
		}
		parser.FatalIfErrorf(err)
	}
	adapter.HandleError(kctx.Run())
}
