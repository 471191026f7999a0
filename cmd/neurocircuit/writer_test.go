package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/config"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/fault"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/sim"
)

func TestNewSinksNone(t *testing.T) {
	sinks, mw, err := newSinks(config.Default())
	if err != nil {
		t.Fatalf("newSinks returned error: %v", err)
	}
	if len(sinks) != 0 || mw != nil {
		t.Fatalf("expected no sinks, got %d", len(sinks))
	}
}

func TestNewSinksMetricsTextfile(t *testing.T) {
	c := config.Default()
	c.Sinks.MetricsTextfile = filepath.Join(t.TempDir(), "health.prom")
	sinks, mw, err := newSinks(c)
	if err != nil {
		t.Fatalf("newSinks returned error: %v", err)
	}
	if len(sinks) != 1 || mw == nil {
		t.Fatalf("expected metrics sink, got %v", sinks)
	}
	if _, ok := sinks[0].(*sim.MetricsWriter); !ok {
		t.Fatalf("expected *sim.MetricsWriter, got %T", sinks[0])
	}
}

func TestNewReplayWriter(t *testing.T) {
	if _, ok := newReplayWriter(true, nil).(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter")
	}
	if _, ok := newReplayWriter(false, []string{"NeuralBus"}).(*sim.ColorStdoutWriter); !ok {
		t.Fatalf("expected *sim.ColorStdoutWriter")
	}
}

func TestSimOptions(t *testing.T) {
	c := config.Default()
	c.Fault = config.FaultConfig{Target: "NeuralBus", Type: "byzantine", Severity: 0.4}
	opts := simOptions(c)
	if opts.Fault.Type != fault.Byzantine || opts.Fault.Target != "NeuralBus" || opts.Fault.Severity != 0.4 {
		t.Fatalf("unexpected fault options %+v", opts.Fault)
	}
	if len(opts.Agents) != 6 || opts.PhaseDelay != c.PhaseDelay {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestDemoRunWritesSession(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = config.Default()
	cfg.LogDir = t.TempDir()
	cfg.PhaseDelay = 0
	cfg.Color = config.ColorNever
	cfg.Seed = 1

	out := &bytes.Buffer{}
	run, err := newDemoRun(cfg, simOptions(cfg), out)
	if err != nil {
		t.Fatalf("newDemoRun: %v", err)
	}
	_, err = run.sim.RunHealthDashboard(context.Background())
	if err := run.finish(err); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !strings.Contains(out.String(), "Session ") {
		t.Fatalf("expected session summary, got %q", out.String())
	}
	matches, _ := filepath.Glob(filepath.Join(cfg.LogDir, "*_dashboard_state.json"))
	if len(matches) != 1 {
		t.Fatalf("expected dashboard snapshot, got %v", matches)
	}
}

func TestLiveLogPath(t *testing.T) {
	got := liveLogPath("logs", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	if got != filepath.Join("logs", "20240501_120000_live_events.jsonl") {
		t.Fatalf("unexpected path %s", got)
	}
}

func TestRootPrintsBanner(t *testing.T) {
	t.Setenv("NEUROCIRCUIT_LOG_DIR", t.TempDir())
	t.Chdir(t.TempDir())
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), "Usage: neurocircuit") {
		t.Fatalf("expected usage banner, got %q", buf.String())
	}
}
