// Package config resolves okrdesk settings from defaults, an optional YAML
// file, a .env file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvConfig     = "OKRDESK_CONFIG"
	EnvAPIURL     = "OKRDESK_API_URL"
	EnvDB         = "OKRDESK_DB"
	EnvTimeoutMs  = "OKRDESK_TIMEOUT_MS"
	EnvMaxRetries = "OKRDESK_MAX_RETRIES"
	EnvLogCalls   = "OKRDESK_LOG_CALLS"
	EnvLogLevel   = "OKRDESK_LOG_LEVEL"
	EnvLogFile    = "OKRDESK_LOG_FILE"
)

// Config holds every setting the client needs.
type Config struct {
	APIURL     string `yaml:"api_url"`
	DBPath     string `yaml:"db"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	MaxRetries int    `yaml:"max_retries"`
	LogCalls   bool   `yaml:"log_calls"`
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
}

// DefaultConfig returns the built-in settings. State and logs live under
// ~/.okrdesk.
func DefaultConfig() Config {
	dir := defaultDir()
	return Config{
		APIURL:     "http://localhost:5000/api",
		DBPath:     filepath.Join(dir, "okrdesk.db"),
		TimeoutMs:  30000,
		MaxRetries: 0,
		LogLevel:   "info",
		LogFile:    filepath.Join(dir, "okrdesk.log"),
	}
}

// DefaultConfigPath is where Load looks for a YAML file when none is named.
func DefaultConfigPath() string {
	return filepath.Join(defaultDir(), "config.yaml")
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".okrdesk"
	}
	return filepath.Join(home, ".okrdesk")
}

// Load builds the configuration. path names the YAML file; when empty,
// OKRDESK_CONFIG and then the default location are tried. A missing file at
// the default location is not an error, a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if v := os.Getenv(EnvConfig); v != "" {
			path, explicit = v, true
		} else {
			path = DefaultConfigPath()
		}
	}
	if err := cfg.mergeFile(path, explicit); err != nil {
		return cfg, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return cfg, err
	}
	cfg.mergeEnv()

	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// loadDotEnv loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvTimeoutMs); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.TimeoutMs = n
		}
	}
	if v := os.Getenv(EnvMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv(EnvLogCalls); v != "" {
		c.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api url must not be empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api url %q must start with http:// or https://", c.APIURL)
	}
	if c.DBPath == "" {
		return errors.New("db path must not be empty")
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must be >= 0, got %d", c.TimeoutMs)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Timeout returns the per-request timeout; zero means none.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
