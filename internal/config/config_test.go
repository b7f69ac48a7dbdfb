package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Engine.TickTimeout)
	assert.Equal(t, "oac-tree-jobs", cfg.Engine.RemoteTaskQueue)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_OverlaysYAMLOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "engine:\n  tick_timeout: 500ms\n  remote_task_queue: custom-queue\nlogging:\n  format: json\n  debug: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.TickTimeout)
	assert.Equal(t, "custom-queue", cfg.Engine.RemoteTaskQueue)
	assert.Equal(t, "localhost:7233", cfg.Engine.TemporalHostPort)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Debug)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}
