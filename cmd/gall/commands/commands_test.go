package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gall/internal/console"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/manifest"
)

type harness struct {
	dir    string
	stdout *bytes.Buffer
	logs   *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return &harness{dir: dir, stdout: &bytes.Buffer{}, logs: &bytes.Buffer{}}
}

// parse returns the parsed context along with the CLI and globals it populated.
func (h *harness) parse(t *testing.T, args ...string) (*kong.Context, *CLI, *Global, error) {
	t.Helper()
	cli := &CLI{}
	g := &Global{Console: console.New(h.stdout), LogOutput: h.logs}
	parser, err := NewParser(cli, g, "gall test", kong.Writers(h.stdout, h.stdout), kong.Exit(func(int) {}))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	return kctx, cli, g, err
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	kctx, _, _, err := h.parse(t, args...)
	if err != nil {
		return err
	}
	return kctx.Run()
}

func (h *harness) addStory(t *testing.T) {
	t.Helper()
	path := filepath.Join(h.dir, "sources", manifest.StoryFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"inkVersion":21,"root":[]}`), 0o600))
}

func TestNewThenBuild(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "new"))
	assert.Contains(t, h.stdout.String(), "Created sources/")
	assert.FileExists(t, filepath.Join(h.dir, "sources", manifest.TemplateFile))

	// The scaffold has no compiled story yet.
	err := h.run(t, "build")
	require.Error(t, err)
	assert.Equal(t, []string{manifest.StoryFile}, ferrors.MissingNames(err))
	assert.NoFileExists(t, filepath.Join(h.dir, "out.html"))

	h.addStory(t)
	h.stdout.Reset()
	require.NoError(t, h.run(t, "build"))

	out := h.stdout.String()
	assert.True(t, strings.HasPrefix(out, "Reading source files:\n"), out)
	assert.Contains(t, out, "Writing output file...")
	data, err := os.ReadFile(filepath.Join(h.dir, "out.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"inkVersion":21`)
}

func TestNewRefusesExistingSources(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "new"))

	err := h.run(t, "new")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAlreadyExists))

	require.NoError(t, h.run(t, "new", "--force"))
}

func TestBuildHonoursConfigFile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "gall.toml"), []byte(`
sources_dir = "src"
output = "dist/story.html"

[metrics]
file = "metrics/gall.prom"
`), 0o600))

	require.NoError(t, h.run(t, "new"))
	assert.DirExists(t, filepath.Join(h.dir, "src"))

	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "src", manifest.StoryFile), []byte(`{}`), 0o600))
	require.NoError(t, h.run(t, "build"))

	assert.FileExists(t, filepath.Join(h.dir, "dist", "story.html"))
	metricsOut, err := os.ReadFile(filepath.Join(h.dir, "metrics", "gall.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metricsOut), "gall_build_outcomes_total")
}

func TestInvalidConfigFailsParse(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "gall.yaml"), []byte("bogus_key: 1\n"), 0o600))

	_, _, _, err := h.parse(t, "build")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestVerboseEnablesDebugLogging(t *testing.T) {
	h := newHarness(t)
	_, _, g, err := h.parse(t, "--verbose", "build")
	require.NoError(t, err)
	assert.True(t, g.Logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestHelpCommandPrintsUsage(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "help"))
	out := h.stdout.String()
	assert.Contains(t, out, "Usage: gall")
	for _, cmd := range []string{"new", "build", "watch"} {
		assert.Contains(t, out, cmd)
	}
}

func TestWatchBuildsAndStopsOnCancel(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "new"))
	h.addStory(t)

	_, cli, g, err := h.parse(t, "watch", "--initial")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cli.Watch.run(ctx, g, cli) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(h.dir, "out.html"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchWaitsForChangeBeforeBuilding(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "new"))
	h.addStory(t)

	_, cli, g, err := h.parse(t, "watch", "--poll", "20ms")
	require.NoError(t, err)
	assert.False(t, cli.Watch.Initial)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cli.Watch.run(ctx, g, cli) }()

	assert.Never(t, func() bool {
		_, err := os.Stat(filepath.Join(h.dir, "out.html"))
		return err == nil
	}, 300*time.Millisecond, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, h.stdout.String(), "Watching sources/ for changes...")
	assert.NotContains(t, h.stdout.String(), "Wrote")
}

func TestHistoryRequiresConfiguredJournal(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "history")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestHistoryListsBuilds(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "gall.yaml"), []byte("history:\n  file: .gall/history.db\n"), 0o600))
	require.NoError(t, h.run(t, "new"))

	require.Error(t, h.run(t, "build"))
	h.addStory(t)
	require.NoError(t, h.run(t, "build"))

	h.stdout.Reset()
	require.NoError(t, h.run(t, "history", "-n", "5"))
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "completed")
	assert.Contains(t, lines[1], "failed")
	assert.Contains(t, lines[1], "missing story.ink.json")
}

func TestWatchPollRebuildsOnChange(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "new"))
	h.addStory(t)

	_, cli, g, err := h.parse(t, "watch", "--poll", "20ms")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cli.Watch.Poll)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cli.Watch.run(ctx, g, cli) }()

	script := filepath.Join(h.dir, "sources", manifest.ScriptFile)
	content := "// edit"
	require.Eventually(t, func() bool {
		content += "!"
		_ = os.WriteFile(script, []byte(content), 0o600)
		_, err := os.Stat(filepath.Join(h.dir, "out.html"))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
