package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadConfigMergesEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server:\n  port: \"8080\"\ndb:\n  host: localhost\n  port: 5432\n")
	writeFile(t, dir, "production.yaml", "db:\n  host: db.internal\n")

	m, err := LoadConfig("production", dir)
	require.NoError(t, err)

	var out struct {
		Server ServerConfig `yaml:"server"`
		DB     DBConfig     `yaml:"db"`
	}
	require.NoError(t, Decode(m, &out))
	assert.Equal(t, "8080", out.Server.Port)
	assert.Equal(t, "db.internal", out.DB.Host)
	assert.Equal(t, 5432, out.DB.Port)
}

func TestLoadConfigSubstitutesSecrets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "jwt:\n  secret: ${JWT_SECRET_VALUE}\n")
	writeFile(t, dir, "secrets.env", "# comment\nJWT_SECRET_VALUE=\"s3cret\"\n")

	m, err := LoadConfig("local", dir)
	require.NoError(t, err)

	var out struct {
		JWT JWTConfig `yaml:"jwt"`
	}
	require.NoError(t, Decode(m, &out))
	assert.Equal(t, "s3cret", out.JWT.Secret)
}

func TestLoadConfigMissingBase(t *testing.T) {
	_, err := LoadConfig("local", t.TempDir())
	assert.Error(t, err)
}

func TestOverrideDBFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_PORT_UNUSED", "x")

	cfg := DBConfig{Host: "localhost", Port: 5432}
	OverrideDBFromEnv(&cfg)
	assert.Equal(t, "pg", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.True(t, cfg.Enabled())
}
