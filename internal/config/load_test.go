package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets environment variables for the duration of the test.
// Empty values are treated as unset by viper.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// clearedEnv blanks every variable Load consults so the host environment
// cannot leak into assertions.
func clearedEnv() map[string]string {
	return map[string]string{
		"PORT":                     "",
		"APP_ENV":                  "",
		"NODE_ENV":                 "",
		"LOG_LEVEL":                "",
		"RELAY_SERVER_PORT":        "",
		"RELAY_SERVER_ENVIRONMENT": "",
		"RELAY_SERVER_LOG_LEVEL":   "",
	}
}

// TestLoadDefaults verifies that Load sets the expected default values when
// no environment variables are set.
func TestLoadDefaults(t *testing.T) {
	setupEnv(t, clearedEnv())
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, 3000, cfg.Server.Port, "Default server port should be 3000")
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DefaultAPIVersion, cfg.API.Version)
}

// TestLoadFromEnv verifies that Load reads the conventional variables.
func TestLoadFromEnv(t *testing.T) {
	env := clearedEnv()
	env["PORT"] = "9090"
	env["NODE_ENV"] = "production"
	env["LOG_LEVEL"] = "DEBUG"
	setupEnv(t, env)
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, "debug", cfg.Server.LogLevel, "log level should be normalized to lower case")
}

func TestLoadPrefersAppEnvOverNodeEnv(t *testing.T) {
	env := clearedEnv()
	env["APP_ENV"] = "staging"
	env["NODE_ENV"] = "production"
	setupEnv(t, env)
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Server.Environment)
}

func TestLoadFromConfigFile(t *testing.T) {
	setupEnv(t, clearedEnv())
	dir := t.TempDir()
	content := []byte("server:\n  port: 4000\n  shutdown_timeout: 3s\napi:\n  name: Test Gateway\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))
	t.Chdir(dir)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "Test Gateway", cfg.API.Name)
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{name: "port too large", key: "server.port", val: 70000},
		{name: "negative port", key: "server.port", val: -1},
		{name: "unknown log level", key: "server.log_level", val: "verbose"},
		{name: "zero body limit", key: "server.max_body_bytes", val: 0},
		{name: "empty version", key: "api.version", val: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t, clearedEnv())
			t.Chdir(t.TempDir())

			v := viper.New()
			v.Set(tt.key, tt.val)

			cfg, err := LoadFrom(v)

			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
