package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	path := writeConfig(t, `
server:
  port: 9090
upstream:
  base_url: "http://pos.local"
  timeout_seconds: 3
poller:
  enabled: true
  interval_seconds: 5
search:
  debounce_ms: 250
menu:
  - { id: "b1", name: "Coca-cola lata", price: 7.99, category: "Bebidas" }
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://pos.local", cfg.Upstream.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.Poller.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.Debounce)
	require.Len(t, cfg.Menu, 1)
	assert.InDelta(t, 7.99, cfg.Menu[0].Price, 1e-9)

	// untouched sections get defaults
	assert.Equal(t, 2, cfg.WorkerPool.Size)
	assert.Equal(t, 30*time.Minute, cfg.Workflow.SessionTTL)
	assert.Equal(t, 15, cfg.Push.AlertCooldownMinutes)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	t.Setenv(BaseURLEnv, "http://from-env:4000")
	path := writeConfig(t, "upstream:\n  base_url: \"http://pos.local\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:4000", cfg.Upstream.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	cfg := Default()

	assert.Equal(t, "http://localhost:4000", cfg.Upstream.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.Poller.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4000, cfg.Dev.Port)
}
