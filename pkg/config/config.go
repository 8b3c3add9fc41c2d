// Package config holds the monitor configuration: the duty-cycle
// intervals, beacon expiration, the optional UUID filter and logging.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Config holds the monitor configuration. All durations have defaults
// matching the long-deployed reference values; changing them changes how
// aggressively the radio is duty-cycled.
type Config struct {
	// ScanInterval is the idle gap between scans when no beacon is present.
	ScanInterval time.Duration `json:"scan_interval" default:"20s"`

	// FastScanInterval is the idle gap while at least one beacon is present.
	FastScanInterval time.Duration `json:"fast_scan_interval" default:"5s"`

	// ActiveScanDuration is how long the radio scans each cycle.
	ActiveScanDuration time.Duration `json:"active_scan_duration" default:"5s"`

	// ExpirationInterval is how long a beacon stays present after its last
	// detection.
	ExpirationInterval time.Duration `json:"expiration_interval" default:"60s"`

	// UUIDFilter, when set, discards decoded beacons whose proximity UUID
	// differs. Canonical lowercase hyphenated form.
	UUIDFilter string `json:"uuid_filter"`

	// LogLevel is a logrus level name.
	LogLevel string `json:"log_level" default:"info"`
}

// Default returns the configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// fileConfig is the YAML shape of a config file. Durations are strings in
// Go duration syntax; absent fields keep their defaults.
type fileConfig struct {
	ScanInterval       string `yaml:"scan_interval"`
	FastScanInterval   string `yaml:"fast_scan_interval"`
	ActiveScanDuration string `yaml:"active_scan_duration"`
	ExpirationInterval string `yaml:"expiration_interval"`
	UUIDFilter         string `yaml:"uuid_filter"`
	LogLevel           string `yaml:"log_level"`
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	for _, f := range []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{fc.ScanInterval, &cfg.ScanInterval, "scan_interval"},
		{fc.FastScanInterval, &cfg.FastScanInterval, "fast_scan_interval"},
		{fc.ActiveScanDuration, &cfg.ActiveScanDuration, "active_scan_duration"},
		{fc.ExpirationInterval, &cfg.ExpirationInterval, "expiration_interval"},
	} {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.dst = d
	}
	if fc.UUIDFilter != "" {
		cfg.UUIDFilter = fc.UUIDFilter
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks interval sanity and normalizes the UUID filter.
func (c *Config) Validate() error {
	for _, f := range []struct {
		d   time.Duration
		key string
	}{
		{c.ScanInterval, "scan_interval"},
		{c.FastScanInterval, "fast_scan_interval"},
		{c.ActiveScanDuration, "active_scan_duration"},
		{c.ExpirationInterval, "expiration_interval"},
	} {
		if f.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", f.key, f.d)
		}
	}

	if c.UUIDFilter != "" {
		normalized := strings.ToLower(c.UUIDFilter)
		if !uuidPattern.MatchString(normalized) {
			return fmt.Errorf("uuid_filter %q is not a hyphenated UUID", c.UUIDFilter)
		}
		c.UUIDFilter = normalized
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// NewLogger creates a logger configured from the config.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}
