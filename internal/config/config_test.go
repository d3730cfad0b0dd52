package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests mutate the process environment, so they do not run in parallel.

func TestLoad_Defaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.env")

	cfg, err := Load(missing)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ".degrees", cfg.DataDir)
	assert.Equal(t, 500*time.Millisecond, cfg.WatchDebounce)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DEGREES_WORKERS", "8")
	t.Setenv("DEGREES_LOG_FORMAT", "json")
	t.Setenv("DEGREES_WATCH_DEBOUNCE", "2s")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEGREES_DATA_DIR=/tmp/degrees-data\nDEGREES_LOG_LEVEL=debug\n"), 0o644))

	// Register cleanup for the variables godotenv is about to set.
	t.Setenv("DEGREES_DATA_DIR", "")
	t.Setenv("DEGREES_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("DEGREES_DATA_DIR"))
	require.NoError(t, os.Unsetenv("DEGREES_LOG_LEVEL"))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/degrees-data", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEGREES_WORKERS=2\n"), 0o644))
	t.Setenv("DEGREES_WORKERS", "6")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("BadWorkers", func(t *testing.T) {
		t.Setenv("DEGREES_WORKERS", "many")
		_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
		assert.Error(t, err)
	})

	t.Run("BadFormat", func(t *testing.T) {
		t.Setenv("DEGREES_LOG_FORMAT", "xml")
		_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
		assert.Error(t, err)
	})

	t.Run("NegativeDebounce", func(t *testing.T) {
		t.Setenv("DEGREES_WATCH_DEBOUNCE", "-1s")
		_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
		assert.Error(t, err)
	})
}
