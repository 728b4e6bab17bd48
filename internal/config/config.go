package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
)

var (
	// ErrNoInput is returned when no bookmark file was given
	ErrNoInput = errors.New("input bookmark file is required")
	// ErrNoDatabase is returned when a stored snapshot is needed but no database was given
	ErrNoDatabase = errors.New("database path is required")
)

// OutputSuffix is appended to the input path when no output path is set
const OutputSuffix = ".modded.html"

// Config holds application configuration. Environment variables carry the
// BOOKMARKS_ prefix.
type Config struct {
	Input          string        `env:"INPUT"`
	Output         string        `env:"OUTPUT"`
	DBPath         string        `env:"DB_PATH"`
	ToolbarPath    string        `env:"TOOLBAR_PATH"`
	RemovedFolder  string        `env:"REMOVED_FOLDER"`
	SkipLinkCheck  bool          `env:"SKIP_DNS"`
	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT"`
	Preview        bool          `env:"PREVIEW"`
	LogLevel       string        `env:"LOG_LEVEL"`
	ClearDoubles   bool          `env:"CLEAR_DOUBLES"`
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		ToolbarPath:   "/Bookmarks/Bookmarks bar",
		RemovedFolder: "Removed DNS",
		LogLevel:      "info",
	}
}

// WithInput sets the bookmark file to organise
func (c *Config) WithInput(path string) *Config {
	c.Input = path
	return c
}

// WithOutput sets the path the organised bookmarks are written to
func (c *Config) WithOutput(path string) *Config {
	c.Output = path
	return c
}

// WithDBPath sets a database path for the tree snapshot
func (c *Config) WithDBPath(path string) *Config {
	c.DBPath = path
	return c
}

// OutputPath returns the configured output path or the input path with
// OutputSuffix.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return c.Input + OutputSuffix
}

// Load merges defaults, environment variables and command line arguments,
// later sources overriding earlier ones.
func Load(args []string) (*Config, error) {
	envCfg, err := parseEnv()
	if err != nil {
		return nil, err
	}
	flagCfg, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	cfg := NewConfig()
	for _, src := range []*Config{envCfg, flagCfg} {
		if err := mergo.Merge(cfg, src, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.ClearDoubles {
		if c.DBPath == "" {
			return ErrNoDatabase
		}
		return nil
	}
	if c.Input == "" {
		return ErrNoInput
	}
	if c.ResolveTimeout < 0 {
		return fmt.Errorf("resolve timeout must not be negative, got %s", c.ResolveTimeout)
	}
	return nil
}
