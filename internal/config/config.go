// Package config provides unified configuration loading for alignleap.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nvandessel/alignleap/internal/constants"
	"github.com/nvandessel/alignleap/internal/dynamics"
	"gopkg.in/yaml.v3"
)

// Pressure schedule kinds.
const (
	PressureConstant  = "constant"
	PressureAlternate = "alternate"
	PressureSine      = "sine"
	PressureSquare    = "square"
)

// Config contains all alignleap configuration settings.
type Config struct {
	// Simulation describes the run driven by the CLI.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Params are the engine coefficients. Unspecified keys keep their
	// defaults. They are never validated.
	Params dynamics.Params `json:"params" yaml:"params"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Metrics contains settings for the Prometheus textfile export.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// SimulationConfig configures one simulated run.
type SimulationConfig struct {
	Nodes int     `json:"nodes" yaml:"nodes"`
	Seed  uint64  `json:"seed" yaml:"seed"`
	Steps int     `json:"steps" yaml:"steps"`
	Dt    float64 `json:"dt" yaml:"dt"`

	// Forgetting is the externally supplied F; it lowers the jump threshold.
	Forgetting float64 `json:"forgetting" yaml:"forgetting"`

	Pressure PressureConfig `json:"pressure" yaml:"pressure"`
}

// PressureConfig describes the pressure schedule p(step).
type PressureConfig struct {
	// Kind is one of "constant", "alternate", "sine" or "square".
	Kind      string  `json:"kind" yaml:"kind"`
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	Offset    float64 `json:"offset" yaml:"offset"`

	// Period in steps, used by "sine" and "square".
	Period int `json:"period" yaml:"period"`
}

// LoggingConfig configures alignleap's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `json:"level" yaml:"level"`

	// TraceDir enables the per-step JSONL trace at <dir>/trace.jsonl.
	TraceDir string `json:"trace_dir,omitempty" yaml:"trace_dir,omitempty"`
}

// MetricsConfig configures the metrics export.
type MetricsConfig struct {
	// Textfile is written in Prometheus text exposition format after a run.
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Nodes: 8,
			Seed:  constants.DefaultSeed,
			Steps: 1000,
			Dt:    0.1,
			Pressure: PressureConfig{
				Kind:      PressureAlternate,
				Amplitude: 1.0,
				Period:    50,
			},
		},
		Params: dynamics.DefaultParams(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.alignleap/config.yaml, or "" when the home
// directory cannot be resolved.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".alignleap", "config.yaml")
}

// Load loads configuration from path and environment variables.
// Order: defaults -> path (or ~/.alignleap/config.yaml when present) -> environment variables.
// An explicit path must exist; the default path is optional.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		if p := DefaultPath(); p != "" {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
			}
		}
	}
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file on top of the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the simulation and logging sections. Params are accepted
// as given.
func (c *Config) Validate() error {
	sim := c.Simulation
	if sim.Nodes <= 0 {
		return fmt.Errorf("nodes must be positive, got %d", sim.Nodes)
	}
	if sim.Nodes > constants.MaxNodes {
		return fmt.Errorf("nodes must be at most %d, got %d", constants.MaxNodes, sim.Nodes)
	}
	if sim.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", sim.Steps)
	}
	if math.IsNaN(sim.Dt) || math.IsInf(sim.Dt, 0) {
		return fmt.Errorf("dt must be finite, got %v", sim.Dt)
	}

	switch sim.Pressure.Kind {
	case PressureConstant, PressureAlternate:
	case PressureSine, PressureSquare:
		if sim.Pressure.Period <= 0 {
			return fmt.Errorf("pressure period must be positive for %s, got %d", sim.Pressure.Kind, sim.Pressure.Period)
		}
	default:
		return fmt.Errorf("invalid pressure kind: %s (valid: constant, alternate, sine, square)", sim.Pressure.Kind)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Unparseable numeric values are ignored.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ALIGNLEAP_NODES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Nodes = n
		}
	}
	if v := os.Getenv("ALIGNLEAP_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}
	if v := os.Getenv("ALIGNLEAP_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Steps = n
		}
	}
	if v := os.Getenv("ALIGNLEAP_DT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.Dt = f
		}
	}
	if v := os.Getenv("ALIGNLEAP_PRESSURE"); v != "" {
		config.Simulation.Pressure.Kind = v
	}

	if v := os.Getenv("ALIGNLEAP_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("ALIGNLEAP_TRACE_DIR"); v != "" {
		config.Logging.TraceDir = v
	}
	if v := os.Getenv("ALIGNLEAP_METRICS_FILE"); v != "" {
		config.Metrics.Textfile = v
	}
}
