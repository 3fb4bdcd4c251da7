package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresBackendURL(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.yaml")
	content := `
backend:
  base_url: "http://backend:8000"
  timeout: "5s"
site:
  title: "My Instance"
features:
  allow_unlike: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "http://backend:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "My Instance", cfg.Site.Title)
	assert.True(t, cfg.Features.AllowUnlike)
	// Untouched sections keep their defaults.
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)

	timeout, err := cfg.BackendTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  base_url: \"http://from-file\"\n"), 0644))

	t.Setenv("QUILL_BACKEND_URL", "http://from-env")
	t.Setenv("QUILL_LISTEN_ADDR", ":9999")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "http://from-env", cfg.Backend.BaseURL)
	assert.Equal(t, ":9999", cfg.Server.ListenAddr)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("QUILL_BACKEND_URL", "http://backend")

	path := filepath.Join(t.TempDir(), "quill.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  timeout: \"soonish\"\n"), 0644))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestDefaultTimeout(t *testing.T) {
	cfg := Default()
	cfg.Backend.Timeout = ""

	timeout, err := cfg.BackendTimeout()

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}
