// Package console prints the human-facing progress of builds and watch
// sessions. Structured diagnostics go through slog; this is the terse
// status stream a user watches in the terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"git.home.luguber.info/inful/gall/internal/build"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
)

// ChangeTimeLayout formats the timestamp of a detected change.
const ChangeTimeLayout = "Mon Jan 02 2006 15:04:05"

type theme struct {
	heading lipgloss.Style
	item    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	notice  lipgloss.Style
}

func newTheme(r *lipgloss.Renderer) theme {
	return theme{
		heading: r.NewStyle().Bold(true),
		item:    r.NewStyle().Faint(true).PaddingLeft(2),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		notice:  r.NewStyle().Foreground(lipgloss.Color("63")),
	}
}

// Reporter writes status lines. It is safe for concurrent use and
// implements build.Progress.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	theme theme
}

// New returns a reporter writing to w. Colors are only emitted when w is a
// terminal.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w, theme: newTheme(lipgloss.NewRenderer(w))}
}

func (r *Reporter) println(style lipgloss.Style, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, style.Render(fmt.Sprintf(format, args...)))
}

// Reading implements build.Progress.
func (r *Reporter) Reading() {
	r.println(r.theme.heading, "Reading source files:")
}

// Loaded implements build.Progress.
func (r *Reporter) Loaded(name string) {
	r.println(r.theme.item, "%s", name)
}

// Writing implements build.Progress.
func (r *Reporter) Writing(string) {
	r.println(r.theme.heading, "Writing output file...")
}

// Done reports a finished build.
func (r *Reporter) Done(res *build.Result) {
	if res == nil {
		return
	}
	r.println(r.theme.success, "Wrote %s (%d bytes) in %s", res.OutputPath, res.Bytes, res.Duration.Round(time.Millisecond))
}

// Failed reports a build error the way the CLI prints fatal errors.
func (r *Reporter) Failed(err error) {
	if err == nil {
		return
	}
	msg := strings.TrimPrefix(ferrors.NewCLIErrorAdapter(false, nil).FormatError(err), "Error: ")
	// Styling only the headline keeps the tab-indented detail lines intact.
	head, detail, _ := strings.Cut(msg, "\n")
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, r.theme.failure.Render(head))
	if detail != "" {
		_, _ = fmt.Fprintln(r.w, detail)
	}
}

// Changed reports a change that triggered a rebuild.
func (r *Reporter) Changed(at time.Time) {
	r.println(r.theme.notice, "Files changed on %s. Rebuilding...", at.Format(ChangeTimeLayout))
}

// Watching reports the start of a watch session.
func (r *Reporter) Watching(dir string) {
	r.println(r.theme.notice, "Watching %s/ for changes...", strings.TrimSuffix(dir, "/"))
}

// Created reports the files written by "gall new".
func (r *Reporter) Created(dir string, files []string) {
	r.println(r.theme.heading, "Created %s/", strings.TrimSuffix(dir, "/"))
	for _, f := range files {
		r.println(r.theme.item, "%s", f)
	}
}

var _ build.Progress = (*Reporter)(nil)

// HistoryRow is one line of "gall history" output.
type HistoryRow struct {
	RunID    string
	Started  time.Time
	Status   string
	Duration time.Duration
	Detail   string
}

// History prints runs, newest first.
func (r *Reporter) History(rows []HistoryRow) {
	if len(rows) == 0 {
		r.println(r.theme.notice, "No builds recorded.")
		return
	}
	for _, row := range rows {
		style := r.theme.success
		if row.Status != "completed" {
			style = r.theme.failure
		}
		id := row.RunID
		if len(id) > 8 {
			id = id[:8]
		}
		r.mu.Lock()
		_, _ = fmt.Fprintf(r.w, "%s  %s  %s  %6s  %s\n",
			id,
			row.Started.Format(time.DateTime),
			style.Render(fmt.Sprintf("%-9s", row.Status)),
			row.Duration.Round(time.Millisecond),
			row.Detail)
		r.mu.Unlock()
	}
}
