package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	clearEnv(t, "CONFIG_PATH", "PORT", "ASSETS_DIR", "AIRPORTS_CSV", "MODEL_DIR", "CACHE_ENABLED",
		"SCRAPER_MAX_SESSIONS", "SCRAPER_MAX_ATTEMPTS", "SCRAPER_HEADLESS", "SCRAPER_SESSION_TIMEOUT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "assets/airports.csv", cfg.AirportsCSV)
	assert.Equal(t, "assets/models", cfg.ModelDir)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 2, cfg.Scraper.MaxSessions)
	assert.Equal(t, 3, cfg.Scraper.MaxAttempts)
	assert.True(t, cfg.Scraper.Headless)
	assert.Zero(t, cfg.Scraper.SessionTimeout)
}

func TestLoad_YAMLThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	clearEnv(t, "PORT", "REDIS_TTL", "BASE_URL", "SCRAPER_STEP_TIMEOUT", "SCRAPER_MAX_ATTEMPTS",
		"SCRAPER_SESSION_TIMEOUT")

	path := filepath.Join(dir, "config.yaml")
	body := `
port: "9090"
redis_ttl: 1m
scraper:
  base_url: https://example.test/
  max_sessions: 4
  step_timeout: 3s
  session_timeout: 2m
  selectors:
    submit_button: "button.search"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SCRAPER_MAX_SESSIONS", "6")
	t.Setenv("SCRAPER_SESSION_TIMEOUT", "5m")
	t.Setenv("CACHE_ENABLED", "yes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Minute, cfg.RedisTTL)
	assert.Equal(t, "https://example.test/", cfg.Scraper.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Scraper.StepTimeout)
	assert.Equal(t, 6, cfg.Scraper.MaxSessions)
	assert.Equal(t, 5*time.Minute, cfg.Scraper.SessionTimeout)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, "button.search", cfg.Scraper.Selectors.SubmitButton)
	// untouched by either layer
	assert.Equal(t, 3, cfg.Scraper.MaxAttempts)
	assert.Equal(t, "select[name='date']", cfg.Scraper.Selectors.DateSelect)
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "/does/not/exist.yaml")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SCRAPER_MAX_ATTEMPTS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvDuration_BadValueFallsBack(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, 5*time.Second, getEnvDuration("SOME_TIMEOUT", 5*time.Second))
}
