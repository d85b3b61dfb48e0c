package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pragati.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BackendBaseURL)
	assert.Equal(t, "~/.pragati/sessions", cfg.SessionDir)
	assert.Equal(t, 2*time.Second, cfg.AutosaveDebounce)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(8<<20), cfg.ResponseBodyLimit)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, 256, cfg.TranslationCacheSize)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.EnableCORS)
	assert.False(t, cfg.Server.Debug)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
backend_base_url: http://agri-backend:9000
autosave_debounce: 500ms
default_language: hi
server:
  port: 9090
  debug: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://agri-backend:9000", cfg.BackendBaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.AutosaveDebounce)
	assert.Equal(t, "hi", cfg.DefaultLanguage)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	// Unset keys keep their defaults.
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "backend_base_url: http://from-file:9000\n")
	t.Setenv("PRAGATI_BACKEND_BASE_URL", "http://from-env:9001")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:9001", cfg.BackendBaseURL)
}

func TestLoadRejectsUnknownLanguage(t *testing.T) {
	path := writeConfig(t, "default_language: xx\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_language")
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 70000\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestLoadMissingExplicitFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
