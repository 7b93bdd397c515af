// Package config holds the server configuration and how it is loaded.
package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"
)

const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// StoreDriver selects the document store: sqlite or bolt.
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the database file of the selected driver.
	StorePath string `koanf:"store_path"`

	// SessionLifetime bounds how long the active tournament is remembered.
	SessionLifetime time.Duration `koanf:"session_lifetime"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsSaveBuckets overrides the save duration histogram buckets, in
	// seconds. Empty keeps the built-in ones.
	MetricsSaveBuckets []float64 `koanf:"metrics_save_buckets"`
}

var metricNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func New() *Config {
	return &Config{
		Addr:             ":8080",
		LogLevel:         "info",
		StoreDriver:      DriverSQLite,
		StorePath:        "swiss_chess.db",
		SessionLifetime:  12 * time.Hour,
		MetricsNamespace: "swiss",
	}
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.StoreDriver != DriverSQLite && c.StoreDriver != DriverBolt {
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.StorePath == "" {
		return fmt.Errorf("%w: store_path must not be empty", ErrInvalidConfig)
	}
	if c.SessionLifetime <= 0 {
		return fmt.Errorf("%w: session_lifetime must be positive", ErrInvalidConfig)
	}
	if !metricNamespace.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: invalid metrics_namespace %q", ErrInvalidConfig, c.MetricsNamespace)
	}
	if !slices.IsSorted(c.MetricsSaveBuckets) || len(slices.Compact(slices.Clone(c.MetricsSaveBuckets))) != len(c.MetricsSaveBuckets) {
		return fmt.Errorf("%w: metrics_save_buckets must be strictly increasing", ErrInvalidConfig)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}
