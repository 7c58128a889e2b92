// Package config provides configuration loading, validation, and hot
// reload.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// CatalogConfig configures the channel information service client.
type CatalogConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DataConfig configures the time-series data-server client.
type DataConfig struct {
	// Hosts maps observatory prefixes to their default data server. The
	// key "*" is the catch-all entry.
	Hosts   map[string]HostConfig `yaml:"hosts"`
	Timeout time.Duration         `yaml:"timeout,omitempty"`
}

// HostConfig is one data-server endpoint.
type HostConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "trace", "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	CHANKIT_CATALOG_URL     - Channel catalog URL (required)
//	CHANKIT_CATALOG_API_KEY - Bearer token for the catalog
//	CHANKIT_CATALOG_TIMEOUT - Catalog request timeout (e.g. "10s")
//	CHANKIT_DATA_TIMEOUT    - Data-server request timeout (e.g. "30s")
//	CHANKIT_LOG_LEVEL       - Log level (default: info)
//	CHANKIT_LOG_FORMAT      - Log format: json or console (default: json)
//	CHANKIT_METRICS_ENABLED - Enable Prometheus metrics (default: false)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies CHANKIT_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHANKIT_CATALOG_URL"); v != "" {
		cfg.Catalog.URL = v
	}
	if v := os.Getenv("CHANKIT_CATALOG_API_KEY"); v != "" {
		cfg.Catalog.APIKey = v
	}
	if v := os.Getenv("CHANKIT_CATALOG_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Catalog.Timeout = d
		}
	}
	if v := os.Getenv("CHANKIT_DATA_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Data.Timeout = d
		}
	}
	if v := os.Getenv("CHANKIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CHANKIT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CHANKIT_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 10 * time.Second
	}
	if cfg.Data.Timeout == 0 {
		cfg.Data.Timeout = 30 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	if cfg.Catalog.URL == "" {
		return fmt.Errorf("catalog.url is required")
	}
	if !strings.HasPrefix(cfg.Catalog.URL, "http://") && !strings.HasPrefix(cfg.Catalog.URL, "https://") {
		return fmt.Errorf("catalog.url must be an http(s) URL, got %q", cfg.Catalog.URL)
	}

	for obs, hp := range cfg.Data.Hosts {
		if hp.Host == "" {
			return fmt.Errorf("data.hosts[%s].host is required", obs)
		}
		if hp.Port < 1 || hp.Port > 65535 {
			return fmt.Errorf("data.hosts[%s].port must be 1-65535, got %s", obs, strconv.Itoa(hp.Port))
		}
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	return nil
}
