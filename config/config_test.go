package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile_Defaults(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "*", cfg.App.CORSOrigin)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, 5*time.Second, cfg.Scheduling.StoreTimeout)
	assert.Equal(t, "UTC", cfg.Scheduling.DefaultTimezone)
}

func TestLoadConfigFile_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("SCHEDULING_STORE_TIMEOUT", "750ms")
	t.Setenv("SCHEDULING_DEFAULT_TIMEZONE", "America/Sao_Paulo")

	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Scheduling.StoreTimeout)
	assert.Equal(t, "America/Sao_Paulo", cfg.Scheduling.DefaultTimezone)
}

func TestLoadConfigFile_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_ENV=production\nJWT_SECRET=file-secret\nJWT_ACCESS_EXPIRY=30m\nREDIS_DB=2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoadConfigFile_InvalidTimezone(t *testing.T) {
	t.Setenv("SCHEDULING_DEFAULT_TIMEZONE", "Mars/Olympus_Mons")

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
