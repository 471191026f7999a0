package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neurocircuit.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadConfig_Default(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(cfg.Agents) != 6 {
		t.Errorf("expected 6 default agents, got %d", len(cfg.Agents))
	}
	if cfg.Color != ColorAuto || cfg.LogDir == "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
log_dir: /tmp/nc
user_name: Ada
agents: [CognitiveDetector, NeuralBus, DecisionEngine]
phase_delay: 250ms
color: never
seed: 42
fault:
  target: NeuralBus
  type: latency_spike
  severity: 0.5
sinks:
  metrics_textfile: /tmp/nc/health.prom
  greptime:
    endpoint: localhost
    port: 4001
admin:
  addr: 127.0.0.1:9090
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.UserName != "Ada" || cfg.Seed != 42 || cfg.PhaseDelay != 250*time.Millisecond {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if len(cfg.Agents) != 3 || cfg.Fault.Target != "NeuralBus" || cfg.Fault.Severity != 0.5 {
		t.Errorf("unexpected circuit: %+v", cfg)
	}
	if cfg.Sinks.Greptime == nil || cfg.Sinks.Greptime.Port != 4001 {
		t.Errorf("unexpected greptime sink: %+v", cfg.Sinks.Greptime)
	}
	if cfg.Admin.Addr != "127.0.0.1:9090" {
		t.Errorf("unexpected admin addr %q", cfg.Admin.Addr)
	}
}

func TestLoadConfig_SchemaRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "fleets: []\n",
		"bad fault type":  "fault:\n  type: meteor_strike\n",
		"severity range":  "fault:\n  severity: 1.5\n",
		"unknown agent":   "agents: [CognitiveDetector, Toaster]\n",
		"empty endpoint":  "sinks:\n  greptime:\n    endpoint: \"\"\n",
		"bad color value": "color: rainbow\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidate_UnknownAgent(t *testing.T) {
	cfg := Default()
	cfg.Agents = []string{"CognitiveDetector", "Toaster"}
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownAgent) {
		t.Fatalf("expected ErrUnknownAgent, got %v", err)
	}

	cfg = Default()
	cfg.Agents = []string{"CognitiveDetector"}
	cfg.Fault.Target = "NeuralBus"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownAgent) {
		t.Fatalf("expected ErrUnknownAgent for fault target outside circuit, got %v", err)
	}
}

func TestValidate_Duplicates(t *testing.T) {
	cfg := Default()
	cfg.Agents = []string{"NeuralBus", "NeuralBus"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected duplicate agent error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"NEUROCIRCUIT_LOG_DIR":     "/var/log/nc",
		"NEUROCIRCUIT_USER":        "Grace",
		"NEUROCIRCUIT_SEED":        "7",
		"NEUROCIRCUIT_PHASE_DELAY": "10ms",
		"GREPTIMEDB_ENDPOINT":      "greptime.local",
		"GREPTIMEDB_DATABASE":      "circuit",
		"GREPTIMEDB_TABLE":         "health_events",
	}
	cfg := Default()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.LogDir != "/var/log/nc" || cfg.UserName != "Grace" || cfg.Seed != 7 || cfg.PhaseDelay != 10*time.Millisecond {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
	g := cfg.Sinks.Greptime
	if g == nil || g.Endpoint != "greptime.local" || g.Database != "circuit" || g.Table != "health_events" {
		t.Errorf("unexpected greptime overrides: %+v", g)
	}

	bad := Default()
	if err := bad.ApplyEnv(func(k string) string {
		if k == "NEUROCIRCUIT_SEED" {
			return "abc"
		}
		return ""
	}); err == nil {
		t.Fatalf("expected invalid seed error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("NEUROCIRCUIT_TEST_DOTENV=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEUROCIRCUIT_TEST_DOTENV", "")
	os.Unsetenv("NEUROCIRCUIT_TEST_DOTENV")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("NEUROCIRCUIT_TEST_DOTENV"); got != "loaded" {
		t.Errorf("expected variable from .env, got %q", got)
	}
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}
