// YAML config loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// ErrUnknownAgent is returned when the config names an agent outside the circuit.
var ErrUnknownAgent = errors.New("unknown agent")

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// FaultConfig pins the scripted fault. Empty fields are chosen at random.
type FaultConfig struct {
	Target   string  `yaml:"target"`
	Type     string  `yaml:"type"`
	Severity float64 `yaml:"severity"`
}

// GreptimeConfig enables the GreptimeDB health event sink.
type GreptimeConfig struct {
	Endpoint string `yaml:"endpoint"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// SinksConfig lists optional event sinks besides the session log files.
type SinksConfig struct {
	MetricsTextfile string          `yaml:"metrics_textfile"`
	Greptime        *GreptimeConfig `yaml:"greptime"`
}

// AdminConfig configures the read-only HTTP endpoints.
type AdminConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the root configuration of a NeuroCircuit run.
type Config struct {
	LogDir     string        `yaml:"log_dir"`
	UserName   string        `yaml:"user_name"`
	Agents     []string      `yaml:"agents"`
	PhaseDelay time.Duration `yaml:"phase_delay"`
	Color      string        `yaml:"color"`
	Seed       int64         `yaml:"seed"`
	Fault      FaultConfig   `yaml:"fault"`
	Sinks      SinksConfig   `yaml:"sinks"`
	Admin      AdminConfig   `yaml:"admin"`
}

// Default returns a configuration that runs without any file.
func Default() *Config {
	return &Config{
		LogDir:     "neurocircuit_logs",
		UserName:   "User",
		Agents:     telemetry.AgentNames(),
		PhaseDelay: 1500 * time.Millisecond,
		Color:      ColorAuto,
		Fault:      FaultConfig{Severity: 0.7},
		Admin:      AdminConfig{Addr: ":8080"},
	}
}

// Load reads a YAML config, validates it against the CUE schema and overlays
// it on Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := ValidateWithCue(path, data); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("loaded configuration", "path", path, "agents", len(cfg.Agents), "log_dir", cfg.LogDir)
	return cfg, nil
}

// Validate checks constraints the schema cannot express.
func (c *Config) Validate() error {
	if len(c.Agents) == 0 {
		return errors.New("at least one agent is required")
	}
	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if _, ok := telemetry.LookupAgent(a); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAgent, a)
		}
		if seen[a] {
			return fmt.Errorf("duplicate agent %s", a)
		}
		seen[a] = true
	}
	if c.Fault.Target != "" && !seen[c.Fault.Target] {
		return fmt.Errorf("%w: fault target %s is not part of the circuit", ErrUnknownAgent, c.Fault.Target)
	}
	if c.Fault.Severity < 0 || c.Fault.Severity > 1 {
		return fmt.Errorf("fault severity %.2f out of range [0,1]", c.Fault.Severity)
	}
	if c.PhaseDelay < 0 {
		return fmt.Errorf("phase delay must not be negative")
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q", c.Color)
	}
	return nil
}

// LoadDotEnv loads environment variables from the given .env files (or ./.env).
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values from environment variables read via getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("NEUROCIRCUIT_LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if v := getenv("NEUROCIRCUIT_USER"); v != "" {
		c.UserName = v
	}
	if v := getenv("NEUROCIRCUIT_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid NEUROCIRCUIT_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := getenv("NEUROCIRCUIT_PHASE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid NEUROCIRCUIT_PHASE_DELAY: %w", err)
		}
		c.PhaseDelay = d
	}
	if v := getenv("GREPTIMEDB_ENDPOINT"); v != "" {
		if c.Sinks.Greptime == nil {
			c.Sinks.Greptime = &GreptimeConfig{}
		}
		c.Sinks.Greptime.Endpoint = v
	}
	if c.Sinks.Greptime != nil {
		if v := getenv("GREPTIMEDB_DATABASE"); v != "" {
			c.Sinks.Greptime.Database = v
		}
		if v := getenv("GREPTIMEDB_TABLE"); v != "" {
			c.Sinks.Greptime.Table = v
		}
	}
	return nil
}
