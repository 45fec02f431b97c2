package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gall/internal/build"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
)

func TestBuildProgressLines(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Reading()
	r.Loaded("style.less")
	r.Writing("out.html")
	r.Done(&build.Result{OutputPath: "out.html", Bytes: 42, Duration: 1500 * time.Microsecond})

	assert.Equal(t, "Reading source files:\n  style.less\nWriting output file...\nWrote out.html (42 bytes) in 2ms\n", buf.String())
}

func TestWatchLines(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Watching("sources/")
	r.Changed(time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC))

	assert.Equal(t, "Watching sources/ for changes...\nFiles changed on Wed Mar 04 2026 05:06:07. Rebuilding...\n", buf.String())
}

func TestFailedListsMissingSources(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Failed(ferrors.MissingSourcesError([]string{"script.js", "story.ink.json"}).Build())

	assert.Contains(t, buf.String(), "missing required source files")
	assert.Contains(t, buf.String(), "\n\tscript.js\n\tstory.ink.json")
}

func TestFailedPlainError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Failed(errors.New("boom"))
	assert.Equal(t, "boom\n", buf.String())
}

func TestNilInputsAreIgnored(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.Done(nil)
	r.Failed(nil)
	assert.Empty(t, buf.String())
}

func TestHistoryRows(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.History(nil)
	assert.Equal(t, "No builds recorded.\n", buf.String())

	buf.Reset()
	started := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	r.History([]HistoryRow{
		{RunID: "0123456789abcdef", Started: started, Status: "completed", Duration: 12 * time.Millisecond, Detail: "out.html"},
		{RunID: "short", Started: started, Status: "failed", Detail: "missing"},
	})
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "01234567  2026-05-06 07:08:09  completed    12ms  out.html", lines[0])
	assert.Equal(t, "short  2026-05-06 07:08:09  failed         0s  missing", lines[1])
}
