// Package config provides configuration loading and validation.
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
	Server      ServerConfig      `yaml:"server"`
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Quota       QuotaConfig       `yaml:"quota"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Database    DatabaseConfig    `yaml:"database"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// UpstreamConfig configures the YouTube Data API client.
type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// QuotaConfig configures the daily quota ledger.
type QuotaConfig struct {
	DailyLimit int64            `yaml:"daily_limit"`
	LedgerPath string           `yaml:"ledger_path"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

// ThresholdsConfig sets the remaining-unit boundaries for the status colors.
type ThresholdsConfig struct {
	Orange int64 `yaml:"orange"`
	Red    int64 `yaml:"red"`
}

// FetchConfig configures upstream fetch pacing.
type FetchConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// CredentialsConfig points at the channel credentials file.
type CredentialsConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig configures the fetch-history database.
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string        `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string        `yaml:"format"` // "json" or "console"
	File   LogFileConfig `yaml:"file,omitempty"`
}

// LogFileConfig enables rotated file logging in addition to stderr.
type LogFileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable /metrics endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
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

	// Environment variable overrides win over the file
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// Useful for container deployments where no config file is mounted.
//
// Environment variables:
//
//	YTPROXY_SERVER_HOST       - Server host (default: 0.0.0.0)
//	YTPROXY_SERVER_PORT       - Server port (default: 8080)
//	YTPROXY_UPSTREAM_BASE_URL - YouTube Data API base URL
//	YTPROXY_QUOTA_DAILY_LIMIT - Daily units per API key (default: 10000)
//	YTPROXY_QUOTA_LEDGER_PATH - Ledger file path (default: quota.json)
//	YTPROXY_CREDENTIALS_PATH  - Credentials file path (default: credentials.json)
//	YTPROXY_DATABASE_ENABLED  - Enable the sqlite fetch history (default: false)
//	YTPROXY_LOG_LEVEL         - Log level: debug, info, warn, error (default: info)
//	YTPROXY_LOG_FORMAT        - Log format: json or console (default: json)
//	YTPROXY_METRICS_ENABLED   - Enable /metrics endpoint (default: true)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment
// variables when the file does not exist.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies YTPROXY_* environment variables to the config.
func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("YTPROXY_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("YTPROXY_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("YTPROXY_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("YTPROXY_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Upstream configuration
	if v := os.Getenv("YTPROXY_UPSTREAM_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("YTPROXY_UPSTREAM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Upstream.Timeout = d
		}
	}

	// Quota configuration
	if v := os.Getenv("YTPROXY_QUOTA_DAILY_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Quota.DailyLimit = n
		}
	}
	if v := os.Getenv("YTPROXY_QUOTA_LEDGER_PATH"); v != "" {
		cfg.Quota.LedgerPath = v
	}
	if v := os.Getenv("YTPROXY_QUOTA_THRESHOLD_ORANGE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Quota.Thresholds.Orange = n
		}
	}
	if v := os.Getenv("YTPROXY_QUOTA_THRESHOLD_RED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Quota.Thresholds.Red = n
		}
	}

	// Fetch configuration
	if v := os.Getenv("YTPROXY_FETCH_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Fetch.Delay = d
		}
	}

	// Credentials configuration
	if v := os.Getenv("YTPROXY_CREDENTIALS_PATH"); v != "" {
		cfg.Credentials.Path = v
	}

	// Database configuration
	if v := os.Getenv("YTPROXY_DATABASE_ENABLED"); v != "" {
		cfg.Database.Enabled = parseBool(v)
	}
	if v := os.Getenv("YTPROXY_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Logging configuration
	if v := os.Getenv("YTPROXY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("YTPROXY_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("YTPROXY_LOG_FILE"); v != "" {
		cfg.Logging.File.Path = v
	}

	// Metrics configuration
	if v := os.Getenv("YTPROXY_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("YTPROXY_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 15 * time.Second
	}

	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = 10000
	}
	if cfg.Quota.LedgerPath == "" {
		cfg.Quota.LedgerPath = "quota.json"
	}
	if cfg.Quota.Thresholds.Orange == 0 {
		cfg.Quota.Thresholds.Orange = 2000
	}
	if cfg.Quota.Thresholds.Red == 0 {
		cfg.Quota.Thresholds.Red = 1000
	}

	if cfg.Fetch.Delay == 0 {
		cfg.Fetch.Delay = 100 * time.Millisecond
	}

	if cfg.Credentials.Path == "" {
		cfg.Credentials.Path = "credentials.json"
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "ytproxy.db"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.File.Path != "" {
		if cfg.Logging.File.MaxSizeMB == 0 {
			cfg.Logging.File.MaxSizeMB = 50
		}
		if cfg.Logging.File.MaxBackups == 0 {
			cfg.Logging.File.MaxBackups = 5
		}
		if cfg.Logging.File.MaxAgeDays == 0 {
			cfg.Logging.File.MaxAgeDays = 14
		}
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	if cfg.Quota.DailyLimit < 0 {
		return fmt.Errorf("quota.daily_limit must not be negative, got %d", cfg.Quota.DailyLimit)
	}
	if cfg.Quota.Thresholds.Red > cfg.Quota.Thresholds.Orange {
		return fmt.Errorf("quota.thresholds.red (%d) must not exceed quota.thresholds.orange (%d)",
			cfg.Quota.Thresholds.Red, cfg.Quota.Thresholds.Orange)
	}

	if cfg.Fetch.Delay < 0 {
		return fmt.Errorf("fetch.delay must not be negative, got %s", cfg.Fetch.Delay)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	return nil
}
