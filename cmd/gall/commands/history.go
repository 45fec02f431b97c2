package commands

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/gall/internal/console"
	"git.home.luguber.info/inful/gall/internal/eventstore"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of builds to show (0 for all)" default:"10"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	paths, err := root.paths()
	if err != nil {
		return err
	}
	if paths.History == "" {
		return ferrors.ConfigError("build history is disabled; set history.file in the project configuration").Build()
	}
	store, err := eventstore.NewSQLiteStore(paths.History)
	if err != nil {
		return ferrors.RuntimeError("cannot open build history").WithCause(err).Build()
	}
	defer func() { _ = store.Close() }()

	runs, err := eventstore.History(context.Background(), store, h.Limit)
	if err != nil {
		return ferrors.RuntimeError("cannot read build history").WithCause(err).Build()
	}

	rows := make([]console.HistoryRow, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, console.HistoryRow{
			RunID:    run.RunID,
			Started:  run.StartedAt,
			Status:   run.Status,
			Duration: run.Duration,
			Detail:   withRevision(historyDetail(run), run.Revision),
		})
	}
	g.Console.History(rows)
	return nil
}

func historyDetail(run eventstore.RunSummary) string {
	switch run.Status {
	case eventstore.StatusCompleted:
		digest := run.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		return run.Output + " " + digest
	case eventstore.StatusFailed:
		if len(run.Missing) > 0 {
			return "missing " + strings.Join(run.Missing, ", ")
		}
		return run.Message
	default:
		return ""
	}
}

func withRevision(detail, revision string) string {
	if revision == "" {
		return detail
	}
	return detail + " @" + revision
}
