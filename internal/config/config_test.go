package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at a temp dir so no real
// config or .env leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, k := range []string{EnvConfig, EnvAPIURL, EnvDB, EnvTimeoutMs, EnvMaxRetries, EnvLogCalls, EnvLogLevel, EnvLogFile} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
	assert.Equal(t, 30000, cfg.TimeoutMs)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.False(t, cfg.LogCalls)
	assert.Equal(t, "okrdesk.db", filepath.Base(cfg.DBPath))
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsWhenNothingSet(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
	assert.Equal(t, filepath.Join(dir, ".okrdesk", "okrdesk.db"), cfg.DBPath)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://okr.example.com/api\ntimeout_ms: 5000\nlog_calls: true\n"), 0o600))

	t.Setenv(EnvTimeoutMs, "1500")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://okr.example.com/api", cfg.APIURL)
	assert.Equal(t, 1500, cfg.TimeoutMs, "env overrides the file")
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_retries: 2\n"), 0o600))
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("OKRDESK_API_URL=http://dotenv:1/api\nOKRDESK_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv(EnvAPIURL, "http://shell:2/api")
	// godotenv only skips variables that are present; an empty value counts
	// as present, so unset the one we want .env to fill.
	require.NoError(t, os.Unsetenv(EnvLogLevel))
	t.Cleanup(func() { os.Unsetenv(EnvLogLevel) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://shell:2/api", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [unterminated\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.APIURL = "" }},
		{"no scheme", func(c *Config) { c.APIURL = "localhost:5000" }},
		{"empty db", func(c *Config) { c.DBPath = "" }},
		{"negative timeout", func(c *Config) { c.TimeoutMs = -1 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}
