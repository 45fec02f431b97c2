package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/gall/internal/build"
	"git.home.luguber.info/inful/gall/internal/config"
	"git.home.luguber.info/inful/gall/internal/console"
	"git.home.luguber.info/inful/gall/internal/eventstore"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/loader"
	"git.home.luguber.info/inful/gall/internal/logfields"
	"git.home.luguber.info/inful/gall/internal/metrics"
	"git.home.luguber.info/inful/gall/internal/observability"
	"git.home.luguber.info/inful/gall/internal/style"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger  *slog.Logger
	Console *console.Reporter
	// LogOutput receives structured logs; nil means stderr.
	LogOutput io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Project configuration file (.yaml or .toml)" default:"${config_file}"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	New     NewCmd     `cmd:"" help:"Create a sources/ directory with a starter project"`
	Build   BuildCmd   `cmd:"" help:"Assemble the sources into the output document"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever a source file changes"`
	History HistoryCmd `cmd:"" help:"List recent builds from the build journal"`
	Help    HelpCmd    `cmd:"" help:"Show help"`

	Project *config.Config `kong:"-"`
}

// Vars are the interpolation variables the CLI definition expects.
func Vars(versionLine string) kong.Vars {
	return kong.Vars{
		"version":     versionLine,
		"config_file": config.DefaultFile,
	}
}

// AfterApply runs after flag parsing; it loads the project configuration
// and installs the default logger once.
func (c *CLI) AfterApply(g *Global) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	c.Project = cfg

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	out := g.LogOutput
	if out == nil {
		out = os.Stderr
	}
	g.Logger = observability.NewLogger(out, level, cfg.Logging.Format.Handler())
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig reads path, falling back to defaults when the default project
// file (in either format) is absent.
func loadConfig(path string) (*config.Config, error) {
	if path != config.DefaultFile {
		return config.Load(path)
	}
	for _, candidate := range []string{config.DefaultFile, "gall.toml"} {
		if _, err := os.Stat(candidate); err == nil {
			return config.Load(candidate)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return config.Default(), nil
}

// paths resolves the project paths against the working directory.
func (c *CLI) paths() (config.Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Paths{}, err
	}
	return c.Project.Resolve(wd), nil
}

// metricsSink wraps the recorder a command builds with and flushes it to the
// configured textfile.
type metricsSink struct {
	recorder metrics.Recorder
	prom     *metrics.PrometheusRecorder
	file     string
}

func newMetricsSink(cfg *config.Config) *metricsSink {
	if cfg.Metrics.File == "" {
		return &metricsSink{recorder: metrics.NoopRecorder{}}
	}
	prom := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	return &metricsSink{recorder: prom, prom: prom, file: cfg.Metrics.File}
}

func (m *metricsSink) flush(logger *slog.Logger) {
	if m.prom == nil {
		return
	}
	if err := m.prom.WriteTextfile(m.file); err != nil {
		logger.Warn("Failed to write metrics textfile", logfields.Path(m.file), logfields.Error(err))
	}
}

// openJournal opens the build journal when history is enabled. The returned
// close function is always safe to call.
func openJournal(paths config.Paths) (build.Journal, func(), error) {
	if paths.History == "" {
		return nil, func() {}, nil
	}
	store, err := eventstore.NewSQLiteStore(paths.History)
	if err != nil {
		return nil, nil, ferrors.RuntimeError("cannot open build history").
			WithSeverity(ferrors.SeverityError).
			WithCause(err).
			WithContext(ferrors.ContextPath, paths.History).
			Build()
	}
	return eventstore.NewJournal(store, paths.SourceDir, paths.Output), func() { _ = store.Close() }, nil
}

func newPipeline(g *Global, cfg *config.Config, paths config.Paths, rec metrics.Recorder, journal build.Journal) *build.Pipeline {
	return build.New(paths.SourceDir, paths.Output,
		build.WithJournal(journal),
		build.WithBundleFile(paths.Bundle),
		build.WithLoaders(loader.NewSet(loader.Options{Style: style.New(cfg.Style.Minify)})),
		build.WithRecorder(rec),
		build.WithLogger(observability.New(g.Logger)),
		build.WithProgress(g.Console),
	)
}

// NewParser builds the kong parser for cli with g bound for every command.
func NewParser(cli *CLI, g *Global, versionLine string, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("gall"),
		kong.Description("Assemble an interactive story project into a single HTML document."),
		kong.UsageOnError(),
		Vars(versionLine),
		kong.Bind(g),
	}
	return kong.New(cli, append(base, opts...)...)
}
