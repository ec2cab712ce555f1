package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJSON = `{
	"server_url": "http://json-config.com",
	"run_address": "localhost:3001",
	"file_storage_path": "json_profile.json",
	"database_dsn": "json-dsn",
	"request_timeout": "3s"
}`

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	file, err := os.CreateTemp("", "config*.json")
	require.NoError(t, err)
	_, err = file.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	t.Cleanup(func() {
		err := os.Remove(file.Name())
		require.NoError(t, err)
	})
	return file.Name()
}

func TestDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.ServerURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.Args)
}

func TestConfigPriorityJSONOnly(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "http://json-config.com", cfg.ServerURL)
	assert.Equal(t, "localhost:3001", cfg.RunAddr)
	assert.Equal(t, "json_profile.json", cfg.DBFileName)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestConfigPriorityJSONPlusEnv(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)
	t.Setenv("RUN_ADDRESS", "localhost:4000")
	t.Setenv("SERVER_URL", "http://env.com/")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "localhost:4000", cfg.RunAddr) // env overrides json
	assert.Equal(t, "http://env.com", cfg.ServerURL)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN) // from JSON
}

func TestConfigPriorityAllSources(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)
	t.Setenv("RUN_ADDRESS", "localhost:4000")
	t.Setenv("SERVER_URL", "http://env.com")

	cfg, err := New(WithArgs([]string{
		"-a", "localhost:6000",
		"-s", "http://cli.com",
		"fetch", "42",
	}))
	require.NoError(t, err)

	assert.Equal(t, "localhost:6000", cfg.RunAddr) // CLI > ENV > JSON
	assert.Equal(t, "http://cli.com", cfg.ServerURL)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN) // from JSON
	assert.Equal(t, []string{"fetch", "42"}, cfg.Args)
}

func TestConfigEmptyFileFlag(t *testing.T) {
	t.Setenv("FILE_STORAGE_PATH", "env.json")

	cfg, err := New(WithArgs([]string{"-f", "", "show"}))
	require.NoError(t, err)

	assert.Empty(t, cfg.DBFileName)
	assert.Equal(t, []string{"show"}, cfg.Args)
}

func TestConfigEnvOnly(t *testing.T) {
	t.Setenv("SERVER_URL", "http://envonly.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REQUEST_TIMEOUT", "2s")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "http://envonly.com", cfg.ServerURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown log level",
			env:  map[string]string{"LOG_LEVEL": "verbose"},
		},
		{
			name: "server url is not a url",
			env:  map[string]string{"SERVER_URL": "not a url"},
		},
		{
			name: "broken trusted subnet",
			env:  map[string]string{"TRUSTED_SUBNET": "10.0.0.0/99"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := New(WithDisableFlagsParsing(true))
			assert.Error(t, err)
		})
	}
}

func TestConfigBrokenJSON(t *testing.T) {
	jsonPath := writeTempJSON(t, `{"request_timeout": "soon"}`)
	t.Setenv("CONFIG", jsonPath)

	_, err := New(WithDisableFlagsParsing(true))
	assert.Error(t, err)
}
