// Package config loads the YAML configuration used by the watch command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cohortcal/internal/event"
)

const (
	DefaultDatabase = "cohortcal.db"
	DefaultRefresh  = "*/30 * * * *"
	DefaultLogLevel = "info"
)

// CohortConfig describes one shared scope and where its snapshot comes from.
type CohortConfig struct {
	Program string `yaml:"program" json:"program"`
	Year    int    `yaml:"year" json:"year"`

	// Snapshot is the path of a JSON or ICS snapshot file. Relative paths are
	// resolved against the config file's directory.
	Snapshot string `yaml:"snapshot" json:"snapshot"`

	// Type overrides the event type of ICS snapshots (default study).
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Scope returns the shared scope of the cohort.
func (c CohortConfig) Scope() event.Scope {
	return event.SharedScope(c.Program, c.Year)
}

// Config is the top-level configuration.
type Config struct {
	// Database is the SQLite file path.
	Database string `yaml:"database" json:"database"`

	// Refresh is a standard 5-field cron expression or descriptor
	// (e.g. "@hourly").
	Refresh string `yaml:"refresh" json:"refresh"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Cohorts []CohortConfig `yaml:"cohorts" json:"cohorts"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DefaultDatabase,
		Refresh:  DefaultRefresh,
		LogLevel: DefaultLogLevel,
		Cohorts:  []CohortConfig{},
	}
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Refresh == "" {
		c.Refresh = DefaultRefresh
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Cohorts == nil {
		c.Cohorts = []CohortConfig{}
	}
	for i := range c.Cohorts {
		c.Cohorts[i].Program = strings.TrimSpace(c.Cohorts[i].Program)
		c.Cohorts[i].Snapshot = strings.TrimSpace(c.Cohorts[i].Snapshot)
	}
}

// Validate reports the first problem found in c.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Refresh); err != nil {
		return fmt.Errorf("refresh %q: %w", c.Refresh, err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	seen := make(map[string]int, len(c.Cohorts))
	for i, co := range c.Cohorts {
		if co.Snapshot == "" {
			return fmt.Errorf("cohorts[%d]: snapshot is required", i)
		}
		if err := co.Scope().Validate(); err != nil {
			return fmt.Errorf("cohorts[%d]: %w", i, err)
		}
		if co.Type != "" {
			if _, err := event.ParseType(co.Type); err != nil {
				return fmt.Errorf("cohorts[%d]: %w", i, err)
			}
		}
		key := co.Scope().Key()
		if j, dup := seen[key]; dup {
			return fmt.Errorf("cohorts[%d]: duplicate scope %s (also cohorts[%d])", i, key, j)
		}
		seen[key] = i
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Load loads configuration from the given YAML path.
//
// A missing file yields the default configuration; nothing is written.
// Relative snapshot paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	for i := range cfg.Cohorts {
		if p := cfg.Cohorts[i].Snapshot; p != "" && !filepath.IsAbs(p) {
			cfg.Cohorts[i].Snapshot = filepath.Join(dir, p)
		}
	}

	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file and rename, with 0600
// permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cohortcal-config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
