// Package config loads the optional gall project file.
//
// A project works with no configuration at all; gall.yaml (or gall.toml)
// only overrides defaults. Format is chosen from the file extension.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/manifest"
)

// Defaults.
const (
	DefaultFile       = "gall.yaml"
	DefaultSourcesDir = "sources"
	DefaultOutput     = "out.html"
)

// Config is the project configuration.
type Config struct {
	// SourcesDir holds the project sources, relative to the working directory.
	SourcesDir string `yaml:"sources_dir" toml:"sources_dir"`
	// Output is the assembled document path, relative to the working directory.
	Output string `yaml:"output" toml:"output"`
	// Bundle overrides the embedded runtime bundle with a file on disk.
	Bundle  string        `yaml:"bundle,omitempty" toml:"bundle"`
	Style   StyleConfig   `yaml:"style" toml:"style"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
	History HistoryConfig `yaml:"history" toml:"history"`
}

// StyleConfig controls style sheet processing.
type StyleConfig struct {
	Minify bool `yaml:"minify" toml:"minify"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level" toml:"level"`
	Format LogFormat `yaml:"format" toml:"format"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// File receives Prometheus text exposition output after every build.
	// Empty disables metrics.
	File string `yaml:"file,omitempty" toml:"file"`
}

// HistoryConfig controls the build journal.
type HistoryConfig struct {
	// File is the SQLite journal path. Empty disables the journal.
	File string `yaml:"file,omitempty" toml:"file"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", path)).
				WithContext(ferrors.ContextPath, path).
				Build()
		}
		return nil, ferrors.ConfigError("failed to read config file").WithCause(err).Build()
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, ferrors.ConfigError("failed to decode TOML config").WithCause(err).
				WithContext(ferrors.ContextPath, path).Build()
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, ferrors.ConfigError("failed to decode YAML config").WithCause(err).
				WithContext(ferrors.ContextPath, path).Build()
		}
	default:
		return nil, ferrors.ConfigError(fmt.Sprintf("unsupported config format %q (use .yaml, .yml or .toml)", ext)).
			WithContext(ferrors.ContextPath, path).Build()
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.SourcesDir) == "" {
		c.SourcesDir = DefaultSourcesDir
	}
	if strings.TrimSpace(c.Output) == "" {
		c.Output = DefaultOutput
	}
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
}

// Validate checks the configuration for values no build could succeed with.
func (c *Config) Validate() error {
	if strings.HasSuffix(c.Output, "/") || strings.HasSuffix(c.Output, string(filepath.Separator)) {
		return ferrors.ValidationError(fmt.Sprintf("output must be a file path, got directory %q", c.Output)).Build()
	}
	out := filepath.Clean(c.Output)
	if filepath.Dir(out) == filepath.Clean(c.SourcesDir) {
		if _, clash := manifest.Lookup(filepath.Base(out)); clash {
			return ferrors.ValidationError(fmt.Sprintf("output %q would overwrite a source file", c.Output)).Build()
		}
	}
	return nil
}

// Paths are the absolute locations one build works with.
type Paths struct {
	SourceDir string
	Output    string
	// Bundle is empty when the embedded bundle is used.
	Bundle string
	// History is empty when the journal is disabled.
	History string
}

// Resolve makes the configured paths absolute against workDir.
func (c *Config) Resolve(workDir string) Paths {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(workDir, p)
	}
	return Paths{
		SourceDir: abs(c.SourcesDir),
		Output:    abs(c.Output),
		Bundle:    abs(c.Bundle),
		History:   abs(c.History.File),
	}
}
