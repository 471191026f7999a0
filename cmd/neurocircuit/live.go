package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/admin"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/logging"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/sim"
)

var (
	liveTick  time.Duration
	liveAdmin bool
	serveAddr string
	serveTick time.Duration
)

// liveLogPath names the JSONL file of a live run inside the log directory.
func liveLogPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_live_events.jsonl", now.Format("20060102_150405")))
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run the live circuit dashboard",
	Long:  "live cycles the circuit through baseline, fault and recovery phases and renders them in a terminal UI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.FromContext(ctx)

		sinks, mw, err := newSinks(cfg)
		if err != nil {
			return err
		}
		fw, err := sim.NewFileWriter(liveLogPath(cfg.LogDir, time.Now()))
		if err != nil {
			return err
		}
		tui := sim.NewTUIWriter(cfg.Agents)
		writers := sim.NewMultiWriter(append([]sim.EventWriter{tui, fw}, sinks...)...)

		opts := simOptions(cfg)
		opts.TickInterval = liveTick
		s := sim.NewSimulator(opts, newRand(cfg.Seed), nil, nil, nil, nil)
		s.SetLiveWriter(writers)

		if liveAdmin {
			var srv *admin.Server
			if mw != nil {
				srv = admin.NewServer(s, mw.Registry(), writers, log)
			} else {
				srv = admin.NewServer(s, nil, writers, log)
			}
			go func() {
				if err := srv.Start(ctx, cfg.Admin.Addr); err != nil {
					log.Error("admin server failed", "err", err)
				}
			}()
		}

		s.Run(ctx)
		log.Info("live events written", "path", fw.Path())
		return writers.Close()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve circuit health over HTTP",
	Long:  "serve runs the live circuit loop headless and exposes /health, /agents, /comparison and /metrics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.FromContext(ctx)

		sinks, mw, err := newSinks(cfg)
		if err != nil {
			return err
		}
		if mw == nil {
			mw = sim.NewMetricsWriter("")
			sinks = append(sinks, mw)
		}
		writers := sim.NewMultiWriter(sinks...)

		opts := simOptions(cfg)
		opts.TickInterval = serveTick
		s := sim.NewSimulator(opts, newRand(cfg.Seed), nil, nil, nil, nil)
		s.SetLiveWriter(writers)
		go s.Run(ctx)

		addr := cfg.Admin.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		srvErr := admin.NewServer(s, mw.Registry(), writers, log).Start(ctx, addr)
		return errors.Join(srvErr, writers.Close())
	},
}

func init() {
	liveCmd.Flags().DurationVar(&liveTick, "tick", time.Second, "Live tick interval (e.g. 500ms, 2s)")
	liveCmd.Flags().BoolVar(&liveAdmin, "admin", false, "Also serve the admin endpoints")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (overrides admin.addr)")
	serveCmd.Flags().DurationVar(&serveTick, "tick", time.Second, "Live tick interval (e.g. 500ms, 2s)")
}
