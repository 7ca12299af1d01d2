package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Schema)
	assert.Empty(t, cfg.Level, "empty level means the layout's outermost level")
	assert.Equal(t, "elapsed", cfg.Measure)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.ExportDir)
}

func TestLoadFile(t *testing.T) {
	path := writeYAML(t, `
schema: v3
sheet: Log
level: subtask
export_dir: /tmp/out
logging:
  level: debug
  file: ""
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "v3", cfg.Schema)
	assert.Equal(t, "Log", cfg.Sheet)
	assert.Equal(t, "subtask", cfg.Level)
	assert.Equal(t, "elapsed", cfg.Measure)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeYAML(t, "schema: v3\nmeasure: elapsed\n")
	t.Setenv("WORKLENS_SCHEMA", "v2")
	t.Setenv("WORKLENS_MEASURE", "count")
	t.Setenv("WORKLENS_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "v2", cfg.Schema)
	assert.Equal(t, "count", cfg.Measure)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestConfigPathFromEnv(t *testing.T) {
	path := writeYAML(t, "level: project\n")
	t.Setenv("WORKLENS_CONFIG", path)

	got, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "project", cfg.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"schema", "schema: v9\n"},
		{"level", "level: epic\n"},
		{"measure", "measure: velocity\n"},
		{"log level", "logging:\n  level: loud\n"},
		{"export dir", "export_dir: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeYAML(t, tt.yaml))
			assert.ErrorContains(t, err, "config validation failed")
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeYAML(t, "schema: [v1\n"))
	assert.ErrorContains(t, err, "load config file")
}
