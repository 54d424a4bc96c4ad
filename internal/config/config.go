// Package config loads and saves the YAML service configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"gopkg.in/yaml.v3"
)

// SourcesConfig lists where each static data file lives. Every entry is a
// local path or an http(s) URL.
type SourcesConfig struct {
	// Conferences is the YAML conference list.
	Conferences string `yaml:"conferences" json:"conferences"`
	// CSRankings is the broad rankings area table (CSV).
	CSRankings string `yaml:"csrankings" json:"csrankings"`
	// Core is the curated area table (CSV).
	Core string `yaml:"core" json:"core"`
	// Acceptance is the optional acceptance statistics table (CSV). Empty
	// disables the join.
	Acceptance string `yaml:"acceptance,omitempty" json:"acceptance,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone in which calendar dates are read before
	// the AoE adjustment (e.g. "America/New_York").
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron-style schedule string (e.g. "0 * * * *") for
	// reloading the data sources.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// CacheDir holds the HTTP fetch cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	Sources SourcesConfig `yaml:"sources" json:"sources"`

	// DefaultDataset seeds the selection when the URL carries none.
	// Supported values:
	//   - "csrankings" (default)
	//   - "core"
	DefaultDataset string `yaml:"default_dataset" json:"default_dataset"`

	// DefaultParentArea is the bucket for area rows without a ParentArea.
	DefaultParentArea string `yaml:"default_parent_area" json:"default_parent_area"`

	// HidePast is the initial state of the hide-past toggle.
	HidePast *bool `yaml:"hide_past,omitempty" json:"hide_past,omitempty"`

	// Sort is the initial sort mode.
	Sort string `yaml:"sort" json:"sort"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen      = "127.0.0.1:8080"
	defaultTimezone    = "America/New_York"
	defaultRefreshCron = "0 * * * *"
	defaultCacheDir    = "/var/lib/csconfs/cache"
	defaultDataset     = "csrankings"
	defaultParentArea  = "Other"
	defaultSort        = "submission_deadline"
	defaultLogLevel    = "info"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	hidePast := true
	return &Config{
		Listen:      defaultListen,
		Timezone:    defaultTimezone,
		RefreshCron: defaultRefreshCron,
		CacheDir:    defaultCacheDir,
		Sources: SourcesConfig{
			Conferences: "data/conferences.yaml",
			CSRankings:  "data/csrankings_conferences.csv",
			Core:        "data/core_conferences.csv",
		},
		DefaultDataset:    defaultDataset,
		DefaultParentArea: defaultParentArea,
		HidePast:          &hidePast,
		Sort:              defaultSort,
		LogLevel:          defaultLogLevel,
		BasicAuth:         nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	switch c.DefaultDataset {
	case "csrankings", "core":
		// ok
	default:
		// Unknown value; fall back to csrankings.
		c.DefaultDataset = defaultDataset
	}
	if c.DefaultParentArea == "" {
		c.DefaultParentArea = defaultParentArea
	}
	if c.HidePast == nil {
		hidePast := true
		c.HidePast = &hidePast
	}
	if c.Sort == "" {
		c.Sort = defaultSort
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate reports settings that Normalize cannot repair.
func (c *Config) Validate() error {
	var errs []error
	if c.Sources.Conferences == "" {
		errs = append(errs, errors.New("sources.conferences is empty"))
	}
	if c.Sources.CSRankings == "" {
		errs = append(errs, errors.New("sources.csrankings is empty"))
	}
	if c.Sources.Core == "" {
		errs = append(errs, errors.New("sources.core is empty"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", c.Timezone, err))
	}
	return errors.Join(errs...)
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// HidePastDefault dereferences HidePast.
func (c *Config) HidePastDefault() bool {
	return c.HidePast == nil || *c.HidePast
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically via
// a temp file + rename, with 0600 permissions.
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
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".csconfs-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
