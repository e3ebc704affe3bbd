// Package config loads the logsync configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/plexsphere/logsync/internal/api"
	"github.com/plexsphere/logsync/internal/eventsync"
	"github.com/plexsphere/logsync/internal/logstore/mysqlstore"
	"github.com/plexsphere/logsync/internal/scheduler"
	"github.com/plexsphere/logsync/internal/syncstatus"
	"github.com/plexsphere/logsync/internal/worker"
)

const (
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultDataDir is the default data directory.
	DefaultDataDir = "/var/lib/logsync"

	// DefaultTablePrefix is the default MySQL table name prefix.
	DefaultTablePrefix = "logsync_"
)

// Store drivers.
const (
	DriverFile  = "file"
	DriverMySQL = "mysql"
)

// StoreConfig selects the pending-entry store backend.
type StoreConfig struct {
	// Driver is "file" or "mysql".
	// Default: "file"
	Driver string `yaml:"driver"`

	// DSN is the go-sql-driver/mysql data source name. Required for "mysql".
	DSN string `yaml:"dsn"`

	// TablePrefix prefixes the per-category MySQL table names.
	// Default: "logsync_"
	TablePrefix string `yaml:"table_prefix"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *StoreConfig) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverFile
	}
	if c.TablePrefix == "" {
		c.TablePrefix = DefaultTablePrefix
	}
}

// Validate checks that the driver is known and its settings are usable.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case DriverFile:
		return nil
	case DriverMySQL:
		if _, err := mysqlstore.ParseDSN(c.DSN); err != nil {
			return fmt.Errorf("config: store: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("config: store: invalid driver %q (must be %q or %q)", c.Driver, DriverFile, DriverMySQL)
	}
}

// Config is the top-level logsync configuration, populated from a YAML file
// via Parse.
type Config struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// DataDir holds the file stores and the sync status file.
	// Default: /var/lib/logsync
	DataDir string `yaml:"data_dir"`

	// InstallationID identifies this installation to the backend (required).
	InstallationID string `yaml:"installation_id"`

	API      api.Config        `yaml:"api"`
	Store    StoreConfig       `yaml:"store"`
	Worker   worker.Config     `yaml:"worker"`
	Events   eventsync.Config  `yaml:"events"`
	Schedule scheduler.Config  `yaml:"schedule"`
	Status   syncstatus.Config `yaml:"status"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	c.API.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Worker.ApplyDefaults()
	c.Events.ApplyDefaults()
	c.Schedule.ApplyDefaults()
	c.Status.ApplyDefaults()
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if c.InstallationID == "" {
		return errors.New("config: installation_id is required")
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Worker.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	if err := c.Schedule.Validate(); err != nil {
		return err
	}
	if err := c.Status.Validate(); err != nil {
		return err
	}
	return nil
}

// Parse reads a YAML configuration file, applies defaults and validates it.
func Parse(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes a YAML configuration file and applies defaults without
// validating, so callers can apply overrides first. Unknown keys are rejected.
// An empty file yields the defaults.
func Read(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}
