package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, uint64(42), cfg.Seed.Value)
}

func TestLoadFileOverridesAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9000\"\nseed:\n  value: 7\n"), 0o644))
	t.Setenv("SEED", "99")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, uint64(99), cfg.Seed.Value)
}

func TestLoadFileRejectsBadSeedEnv(t *testing.T) {
	t.Setenv("SEED", "forty-two")

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SEED")
}

func TestValidatePostgresNeedsHost(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = StorePostgres
	assert.Error(t, cfg.Validate())

	cfg.DB.Host = "localhost"
	assert.NoError(t, cfg.Validate())
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = "bolt"
	assert.Error(t, cfg.Validate())
}

func TestTokenTTL(t *testing.T) {
	cfg := Default()
	ttl, err := cfg.TokenTTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)

	cfg.JWT.TTL = "soon"
	assert.Error(t, cfg.Validate())
}

func TestLoadLayered(t *testing.T) {
	t.Setenv("CONFIG_ENV", "production")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := LoadLayered(".")
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres", cfg.DB.Host)
	assert.Equal(t, "pw", cfg.DB.Password)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.False(t, cfg.Seed.Enabled)
	assert.Equal(t, 8, cfg.MQ.MaxRetries)
}
