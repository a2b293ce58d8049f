package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.Empty(t, cfg.Auth.Token)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  allowed_origins:
    - https://app.example.com
auth:
  token: sekrit
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset keys keep their defaults")
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sekrit", cfg.Auth.Token)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDatabaseDSN_URLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/matchfit")
	t.Setenv("DB_HOST", "ignored")

	assert.Equal(t, "postgres://u:p@db:5432/matchfit", DatabaseDSN())
}

func TestDatabaseDSN_AssembledFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "matchfit")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_SSLMODE", "")

	assert.Equal(t,
		"host=db.internal port=5433 user=matchfit password=hunter2 dbname=matchfit sslmode=disable",
		DatabaseDSN())
}
