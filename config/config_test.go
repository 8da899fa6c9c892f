package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.Consul.Enabled)
	assert.True(t, cfg.InsecureSecret())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
http_port: 9090
token_ttl: 2h
database:
  driver: mysql
  dsn: "user:pass@tcp(db:3306)/guildhall?parseTime=true"
consul:
  enabled: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("GUILDHALL_JWT_SECRET", "from-env")
	t.Setenv("GUILDHALL_REDIS_ADDR", "redis:6379")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.True(t, cfg.Consul.Enabled)
	assert.Equal(t, "from-env", cfg.JwtSecret)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.False(t, cfg.InsecureSecret())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("GUILDHALL_DATABASE_DRIVER", "postgres")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
