// Package config loads the ambient configuration every job subsystem
// reads at startup: tick pacing, the Temporal task queue a remote job
// manager serves, and log format — grounded on pkg/config's
// defaults-then-YAML-overlay shape.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig controls the pluggable automation engine backends.
type EngineConfig struct {
	// TickTimeout is the per-tick pacing delay the flow controller applies
	// in WaitingModeSleepFor, passed to runner.Runner.SetTickTimeout.
	TickTimeout time.Duration `yaml:"tick_timeout"`
	// RemoteTaskQueue names the Temporal task queue cmd/jobmanagerd
	// serves RemoteRunner workflows on.
	RemoteTaskQueue string `yaml:"remote_task_queue"`
	// TemporalHostPort is the Temporal frontend address RemoteRunner
	// connects to.
	TemporalHostPort string `yaml:"temporal_host_port"`
	// TemporalNamespace is the Temporal namespace jobs run in.
	TemporalNamespace string `yaml:"temporal_namespace"`
}

// LoggingConfig controls telemetry.Logger output.
type LoggingConfig struct {
	// Format is "text" or "json", matching goa.design/clue/log's
	// formatting options.
	Format string `yaml:"format"`
	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`
}

// Config is the top-level ambient configuration for a job manager
// process (cmd/demo or cmd/jobmanagerd).
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// New returns a Config populated with defaults: a one-second tick
// timeout, the "oac-tree-jobs" task queue, local Temporal defaults, and
// text logging.
func New() *Config {
	return &Config{
		Engine: EngineConfig{
			TickTimeout:       time.Second,
			RemoteTaskQueue:   "oac-tree-jobs",
			TemporalHostPort:  "localhost:7233",
			TemporalNamespace: "default",
		},
		Logging: LoggingConfig{
			Format: "text",
		},
	}
}

// Load returns defaults overlaid with path's YAML content, if path is
// non-empty and the file exists. A missing file at a caller-supplied
// path is an error; an empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := New()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
