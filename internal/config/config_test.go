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

func TestLoadFromFileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  path: /tmp/health.db
redis:
  enabled: true
  host: cache
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/health.db", cfg.Database.Path)
	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 50051, cfg.GRPC.Port)
	assert.Equal(t, "/graphql", cfg.GraphQL.Path)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.Equal(t, "healthhub", cfg.Redis.KeyPrefix)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "database:\n  host: file-host\n")
	t.Setenv("HEALTHHUB_SERVER__PORT", "9000")
	t.Setenv("RDS_HOST", "rds.example.com")
	t.Setenv("RDS_PASSWORD", "secret")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "rds.example.com", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestValidateConfig(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, "database:\n  driver: mysql\n  host: x\n"))
	assert.ErrorContains(t, err, "unsupported database driver")

	_, err = LoadFrom(writeConfig(t, "database:\n  driver: postgres\n"))
	assert.ErrorContains(t, err, "database host is required")

	_, err = LoadFrom(writeConfig(t, "database:\n  host: x\ngraphql:\n  path: graphql\n"))
	assert.ErrorContains(t, err, "graphql path")
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
