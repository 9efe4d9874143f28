package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8088", cfg.Server.Addr)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "simulated", cfg.Provider.Mode)
	assert.Equal(t, "5m", cfg.Provider.SyncInterval)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
storage:
  backend: postgres
  dsn: postgres://localhost/sleep
provider:
  mode: none
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "none", cfg.Provider.Mode)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SLEEP_SERVER__ADDR", ":7001")
	t.Setenv("SLEEP_LOG__LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Env = "testing"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Storage.Backend = "postgres"
	cfg.Storage.DSN = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Storage.Backend = "redis"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Provider.SyncInterval = "soon"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Env = "production"
	cfg.Auth.RemoteURL = ""
	assert.Error(t, cfg.Validate())
}
