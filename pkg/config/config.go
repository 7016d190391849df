// Package config loads meshbox settings from YAML or TOML files, applies
// environment overrides and validates the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvLogLevel overrides Log.Level when set.
const EnvLogLevel = "MESHBOX_LOG_LEVEL"

// Output formats accepted by Output.Format.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
)

// Config is the complete meshbox configuration.
type Config struct {
	// Dimension of meshes whose source does not call (dim ...).
	Dimension int `yaml:"dimension" toml:"dimension"`
	// Ranks is the number of simulated parallel ranks.
	Ranks int `yaml:"ranks" toml:"ranks"`

	Log     LogConfig     `yaml:"log" toml:"log"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Kernel  KernelConfig  `yaml:"kernel" toml:"kernel"`
	Engine  EngineConfig  `yaml:"engine" toml:"engine"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text or json
}

// OutputConfig controls box export.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"`
	Path   string `yaml:"path" toml:"path"` // empty or "-" writes to stdout
}

// KernelConfig controls the solid kernel.
type KernelConfig struct {
	MeshCells int `yaml:"mesh_cells" toml:"mesh_cells"`
}

// EngineConfig controls DSL evaluation.
type EngineConfig struct {
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// MetricsConfig controls the metrics dump written after a build.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dimension: 3,
		Ranks:     1,
		Log:       LogConfig{Level: "info", Format: "text"},
		Output:    OutputConfig{Format: FormatJSON},
		Kernel:    KernelConfig{MeshCells: 100},
		Engine:    EngineConfig{Timeout: "5s"},
	}
}

// Load reads path on top of the defaults, choosing the decoder by file
// extension (.yaml, .yml or .toml), then applies environment overrides.
// An empty path yields the defaults plus overrides. The result is not
// validated; call Validate once CLI overrides are applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config: unsupported file extension %q (want .yaml, .yml or .toml)", ext)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// EvalTimeout parses Engine.Timeout.
func (c *Config) EvalTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: engine.timeout: %w", err)
	}
	return d, nil
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if c.Dimension < 1 || c.Dimension > 3 {
		return fmt.Errorf("config: dimension must be 1, 2 or 3, got %d", c.Dimension)
	}
	if c.Ranks < 1 {
		return fmt.Errorf("config: ranks must be at least 1, got %d", c.Ranks)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("config: log.level must be 'debug', 'info', 'warn', or 'error', got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be 'text' or 'json', got %q", c.Log.Format)
	}

	switch c.Output.Format {
	case FormatJSON, FormatYAML, FormatMsgpack:
	default:
		return fmt.Errorf("config: output.format must be %q, %q or %q, got %q",
			FormatJSON, FormatYAML, FormatMsgpack, c.Output.Format)
	}

	if c.Kernel.MeshCells < 1 {
		return fmt.Errorf("config: kernel.mesh_cells must be positive, got %d", c.Kernel.MeshCells)
	}

	d, err := c.EvalTimeout()
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("config: engine.timeout must be positive, got %s", d)
	}
	return nil
}
