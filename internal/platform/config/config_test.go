package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "42")
	t.Setenv("CFG_TEST_BAD_INT", "forty-two")
	t.Setenv("CFG_TEST_BOOL", "true")

	assert.Equal(t, 42, GetEnvAsInt("CFG_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvAsInt("CFG_TEST_BAD_INT", 1))
	assert.Equal(t, 7, GetEnvAsInt("CFG_TEST_MISSING", 7))
	assert.True(t, GetEnvAsBool("CFG_TEST_BOOL", false))
	assert.Equal(t, 250*time.Millisecond, GetEnvAsMillis("CFG_TEST_MISSING", 250))
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	assert.Equal(t, ":9090", LoadServerConfig("8080").Port)
}

func TestLoadCommerceConfigDefaults(t *testing.T) {
	cfg := LoadCommerceConfig()
	assert.Equal(t, 200*time.Millisecond, cfg.MinLatency)
	assert.Equal(t, time.Second, cfg.MaxLatency)
}

func TestLoadStorageConfig(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	cfg := LoadStorageConfig()
	assert.Equal(t, "redis", cfg.Driver)
	assert.Equal(t, "kv_store", cfg.Table)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CFG_DOTENV_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CFG_DOTENV_VALUE") })

	LoadDotEnv(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "from-file", os.Getenv("CFG_DOTENV_VALUE"))
}
