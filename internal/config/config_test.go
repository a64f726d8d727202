package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9090
database:
  driver: postgres
  postgres_dsn: postgres://localhost/hudori
log:
  level: debug
`), 0o600))

	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/hudori", cfg.Database.PostgresDsn)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", DriverMemory)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 86400*30, cfg.Session.MaxAge)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := Load("")
	assert.ErrorContains(t, err, "PORT must be an integer")
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	require.NoError(t, cfg.Validate())

	cfg.Database.Driver = "mongo"
	assert.ErrorContains(t, cfg.Validate(), "unknown database driver")

	cfg = defaults()
	cfg.Database.Driver = DriverPostgres
	assert.ErrorContains(t, cfg.Validate(), "postgres dsn is required")

	cfg = defaults()
	cfg.Environment = "production"
	assert.ErrorContains(t, cfg.Validate(), "session secret is required")

	cfg = defaults()
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())
}
