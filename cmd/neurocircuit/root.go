package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/config"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/display"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/logging"
)

var (
	rootConfigPath string
	rootLogDir     string
	rootLogLevel   string
	rootNoColor    bool
	rootSeed       int64
)

// cfg is the effective configuration, set by loadConfig before any subcommand runs.
var cfg *config.Config

const banner = `🧠 NeuroCircuit: multi-agent coordination health demos

Usage: neurocircuit <command> [flags]

  architecture   show the agent architecture
  flow           run the flow coordination demo
  fault          inject a fault and watch the recovery
  health         show the system health dashboard
  test-all       check every agent
  live           run the live dashboard
  replay         replay a session event log
  serve          serve health endpoints over HTTP
  grafana        render the Grafana dashboard
`

var rootCmd = &cobra.Command{
	Use:               "neurocircuit",
	Short:             "NeuroCircuit coordination health toolkit",
	Long:              "NeuroCircuit simulates a six-agent coordination circuit, injects faults and scores the circuit's health.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), banner)
	},
}

// Execute runs the root command until it finishes or a signal arrives.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootConfigPath, "config", "", "Path to NeuroCircuit configuration YAML")
	pf.StringVar(&rootLogDir, "log-dir", "", "Directory for session logs (overrides config)")
	pf.StringVar(&rootLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.BoolVar(&rootNoColor, "no-color", false, "Disable colored output")
	pf.Int64Var(&rootSeed, "seed", 0, "Random seed (0 uses the clock)")

	rootCmd.AddCommand(architectureCmd, flowCmd, faultCmd, healthCmd, testAllCmd)
	rootCmd.AddCommand(liveCmd, replayCmd, serveCmd, grafanaCmd)
}

// loadConfig resolves the configuration from file, .env, environment and
// flags, in that order, and stores a logger in the command context.
func loadConfig(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(rootLogLevel)
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, level)
	slog.SetDefault(log)

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	c, err := config.Load(rootConfigPath)
	if err != nil {
		return err
	}
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	if rootLogDir != "" {
		c.LogDir = rootLogDir
	}
	if rootNoColor {
		c.Color = config.ColorNever
	}
	if cmd.Flags().Changed("seed") {
		c.Seed = rootSeed
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	cmd.SetContext(logging.NewContext(cmd.Context(), log))
	log.Debug("configuration resolved", "log_dir", cfg.LogDir, "agents", cfg.Agents, "seed", cfg.Seed)
	return nil
}

func newRenderer() *display.Renderer {
	return display.NewRenderer(display.NewTheme(display.ColorEnabled(cfg.Color, os.Stdout)))
}
