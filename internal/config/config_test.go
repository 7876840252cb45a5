package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Client.BaseURL)
	assert.Zero(t, cfg.Client.Timeout)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, 10000, cfg.Upload.MaxRows)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: "9090"
  staticDir: ./web
client:
  baseUrl: http://routes.internal:9090
  timeout: 30s
upload:
  maxRows: 50
log:
  format: json
`)

	t.Setenv("ROUTEUPLOAD_PORT", "9191")
	t.Setenv("ROUTEUPLOAD_LOG_LEVEL", "debug")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "9191", cfg.Server.Port, "environment wins over YAML")
	assert.Equal(t, "./web", cfg.Server.StaticDir)
	assert.Equal(t, "http://routes.internal:9090", cfg.Client.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 50, cfg.Upload.MaxRows)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	for _, key := range []string{"ROUTEUPLOAD_MAX_ROWS", "ROUTEUPLOAD_TIMEOUT"} {
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() { _ = os.Unsetenv(key) })
	}

	t.Setenv("ROUTEUPLOAD_HOST", "0.0.0.0")

	path := writeFile(t, ".env", "ROUTEUPLOAD_MAX_ROWS=25\nROUTEUPLOAD_TIMEOUT=2s\nROUTEUPLOAD_HOST=example.invalid\n")

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Upload.MaxRows)
	assert.Equal(t, 2*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, ".env does not override the environment")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port not a number", env: map[string]string{"ROUTEUPLOAD_PORT": "http"}},
		{name: "port out of range", env: map[string]string{"ROUTEUPLOAD_PORT": "70000"}},
		{name: "relative base URL", env: map[string]string{"ROUTEUPLOAD_BASE_URL": "/upload"}},
		{name: "negative timeout", env: map[string]string{"ROUTEUPLOAD_TIMEOUT": "-1s"}},
		{name: "bad duration", env: map[string]string{"ROUTEUPLOAD_TIMEOUT": "soon"}},
		{name: "zero max rows", env: map[string]string{"ROUTEUPLOAD_MAX_ROWS": "0"}},
		{name: "bad max file size", env: map[string]string{"ROUTEUPLOAD_MAX_FILE_SIZE": "big"}},
		{name: "unknown log level", env: map[string]string{"ROUTEUPLOAD_LOG_LEVEL": "loud"}},
		{name: "unknown log format", env: map[string]string{"ROUTEUPLOAD_LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("", "")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "server: [unterminated\n")

	_, err := Load(path, "")
	assert.Error(t, err)
}
