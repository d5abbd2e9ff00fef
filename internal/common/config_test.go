package common

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("PARSER_NOISE_MARKERS", "SIRET, ACME ,,")
	t.Setenv("COMMERCE_TIMEOUT", "5s")

	cfg := LoadConfig()
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, []string{"SIRET", "ACME"}, cfg.Parser.NoiseMarkers)
	assert.Equal(t, 5*time.Second, cfg.Commerce.Timeout)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
}

func TestLoadConfigFileOverlaysEnv(t *testing.T) {
	t.Setenv("BATCH_WORKERS", "8")
	path := filepath.Join(t.TempDir(), "quotes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
batch:
  workers: 2
commerce:
  base_url: https://shop.example.com
  timeout: 10s
`), 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, "https://shop.example.com", cfg.Commerce.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Commerce.Timeout)
	assert.Equal(t, []string{"SIRET", "RAPIDO"}, cfg.Parser.NoiseMarkers)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, CodeConfig, ErrorCode(err))
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Batch.Workers = 0
	cfg.Commerce.BaseURL = "ftp://shop"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "batch.workers")
	assert.Contains(t, err.Error(), "commerce.base_url")
	assert.Contains(t, err.Error(), "log.level")
}

func TestValidateDatabase(t *testing.T) {
	cfg := LoadConfig()
	cfg.Database.DSN = ""
	cfg.Database.SQLitePath = ""
	require.Error(t, cfg.ValidateDatabase())
	cfg.Database.SQLitePath = ":memory:"
	require.NoError(t, cfg.ValidateDatabase())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
