package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultSourcesDir, cfg.SourcesDir)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Empty(t, cfg.Bundle)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.False(t, cfg.Style.Minify)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gall.yaml", `
sources_dir: src
output: dist/story.html
style:
  minify: true
logging:
  level: DEBUG
  format: json
metrics:
  file: metrics.prom
history:
  file: .gall/history.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.SourcesDir)
	assert.Equal(t, "dist/story.html", cfg.Output)
	assert.True(t, cfg.Style.Minify)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, "metrics.prom", cfg.Metrics.File)
	assert.Equal(t, ".gall/history.db", cfg.History.File)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gall.toml", `
output = "book.html"
bundle = "vendor/blotter.js"

[logging]
level = "warning"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSourcesDir, cfg.SourcesDir)
	assert.Equal(t, "book.html", cfg.Output)
	assert.Equal(t, "vendor/blotter.js", cfg.Bundle)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
}

func TestLoadEmptyYAMLUsesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gall.yaml", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownYAMLField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gall.yaml", "outptu: x.html\n")
	_, err := Load(path)
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryConfig, ce.Category())
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gall.ini", "output=x")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gall.yaml"))
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryConfig, ce.Category())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "directory output", mutate: func(c *Config) { c.Output = "dist/" }, wantErr: "must be a file path"},
		{name: "output over source", mutate: func(c *Config) { c.Output = "sources/script.js" }, wantErr: "overwrite a source file"},
		{name: "unrelated file in sources", mutate: func(c *Config) { c.Output = "sources/out.html" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			ce, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, ferrors.CategoryValidation, ce.Category())
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := Default()
	cfg.Bundle = "/opt/blotter.js"
	cfg.History.File = ".gall/history.db"
	paths := cfg.Resolve("/work")
	assert.Equal(t, filepath.Join("/work", "sources"), paths.SourceDir)
	assert.Equal(t, filepath.Join("/work", "out.html"), paths.Output)
	assert.Equal(t, "/opt/blotter.js", paths.Bundle)
	assert.Equal(t, filepath.Join("/work", ".gall", "history.db"), paths.History)

	paths = Default().Resolve("/work")
	assert.Empty(t, paths.Bundle)
	assert.Empty(t, paths.History)
}

func TestLogSettings(t *testing.T) {
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("bogus"))
	_, err := ParseLogLevel("bogus")
	require.Error(t, err)
	lvl, err := ParseLogLevel(" Error ")
	require.NoError(t, err)
	assert.Equal(t, LogLevelError, lvl)
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	assert.Equal(t, "json", string(LogFormatJSON.Handler()))
}
