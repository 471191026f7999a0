package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/logging"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/sim"
)

var (
	replayInput string
	replaySpeed float64
	replayJSON  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a session event log",
	Long:  "replay feeds events from a JSONL session log to the console and the configured sinks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		sinks, _, err := newSinks(cfg)
		if err != nil {
			return err
		}
		w := sim.NewMultiWriter(append([]sim.EventWriter{newReplayWriter(replayJSON, cfg.Agents)}, sinks...)...)
		n, err := sim.ReplayLogFile(cmd.Context(), replayInput, w, replaySpeed)
		logging.FromContext(cmd.Context()).Info("replay finished", "events", n, "input", replayInput)
		return errors.Join(err, w.Close())
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to a JSONL session event log")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (0 replays without delays)")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Print raw JSON lines instead of colored output")
	replayCmd.MarkFlagRequired("input")
}
