package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/config"
)

const sample = `
server:
  address: ":9000"
  shutdown_timeout: 5s
log:
  level: debug
  format: text
redis:
  url: redis://localhost:6379/2
  pool_size: 20
middleware:
  global: web
  aliases:
    auth: authenticate
  groups:
    web: [request_id, recover]
    api: [web, "throttle:60,1m"]
  priority: [request_id, recover, authenticate]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(
		config.WithFile(""),
		config.WithEnvFile(""),
		config.WithEnvPrefix("ANVIL_DEFAULTS_TEST_"),
	)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Middleware.Groups)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(
		config.WithFile(filepath.Join(t.TempDir(), "missing.yaml")),
		config.WithEnvFile(filepath.Join(t.TempDir(), "missing.env")),
		config.WithEnvPrefix("ANVIL_MISSING_TEST_"),
	)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(
		config.WithFile(writeFile(t, "config.yaml", sample)),
		config.WithEnvFile(""),
		config.WithEnvPrefix("ANVIL_YAML_TEST_"),
	)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
	assert.Equal(t, 20, cfg.Redis.PoolSize)

	mw := cfg.Middleware
	assert.Equal(t, "web", mw.Global)
	assert.Equal(t, map[string]string{"auth": "authenticate"}, mw.Aliases)
	assert.Equal(t, []string{"request_id", "recover"}, mw.Groups["web"])
	assert.Equal(t, []string{"web", "throttle:60,1m"}, mw.Groups["api"])
	assert.Equal(t, []string{"request_id", "recover", "authenticate"}, mw.Priority)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("ANVIL_ENV_TEST_SERVER__ADDRESS", ":7000")
	t.Setenv("ANVIL_ENV_TEST_LOG__LEVEL", "warn")

	cfg, err := config.Load(
		config.WithFile(writeFile(t, "config.yaml", sample)),
		config.WithEnvFile(""),
		config.WithEnvPrefix("ANVIL_ENV_TEST_"),
	)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_DotEnv(t *testing.T) {
	const key = "ANVIL_DOTENV_TEST_SERVER__ADDRESS"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	envFile := writeFile(t, ".env", key+"=:6000\n")

	cfg, err := config.Load(
		config.WithFile(""),
		config.WithEnvFile(envFile),
		config.WithEnvPrefix("ANVIL_DOTENV_TEST_"),
	)
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Server.Address)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := config.Load(
		config.WithFile(writeFile(t, "config.yaml", "server: [unclosed")),
		config.WithEnvFile(""),
		config.WithEnvPrefix("ANVIL_INVALID_TEST_"),
	)
	require.Error(t, err)
}

func TestLogConfig_Options(t *testing.T) {
	t.Parallel()

	opts := config.LogConfig{Level: "debug", Format: "text"}.Options()
	assert.Equal(t, "text", opts.Format)
	assert.Equal(t, "DEBUG", opts.Level.String())
}
