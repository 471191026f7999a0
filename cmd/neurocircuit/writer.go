package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/config"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/fault"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/sim"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// newSinks builds the optional event sinks named in the config. The returned
// metrics writer is nil unless a textfile is configured.
func newSinks(c *config.Config) ([]sim.EventWriter, *sim.MetricsWriter, error) {
	var sinks []sim.EventWriter
	if g := c.Sinks.Greptime; g != nil {
		w, err := sim.NewGreptimeDBWriter(*g)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, w)
	}
	var mw *sim.MetricsWriter
	if c.Sinks.MetricsTextfile != "" {
		mw = sim.NewMetricsWriter(c.Sinks.MetricsTextfile)
		sinks = append(sinks, mw)
	}
	return sinks, mw, nil
}

// newReplayWriter chooses the console writer of a replay.
func newReplayWriter(jsonOut bool, agents []string) sim.EventWriter {
	if jsonOut {
		return sim.NewJSONStdoutWriter()
	}
	infos := make([]telemetry.AgentInfo, 0, len(agents))
	for _, a := range agents {
		if info, ok := telemetry.LookupAgent(a); ok {
			infos = append(infos, info)
		}
	}
	return sim.NewColorStdoutWriter(infos)
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func simOptions(c *config.Config) sim.Options {
	return sim.Options{
		Agents:     c.Agents,
		UserName:   c.UserName,
		PhaseDelay: c.PhaseDelay,
		Fault: fault.Options{
			Target:   c.Fault.Target,
			Type:     fault.Type(c.Fault.Type),
			Severity: c.Fault.Severity,
		},
	}
}

// demoRun bundles the simulator of a scripted demo with its session log.
type demoRun struct {
	sim     *sim.Simulator
	session *sim.SessionLogger
	out     io.Writer
}

func newDemoRun(c *config.Config, opts sim.Options, out io.Writer) (*demoRun, error) {
	sinks, _, err := newSinks(c)
	if err != nil {
		return nil, err
	}
	session, err := sim.NewSessionLogger(c.LogDir, nil, sinks...)
	if err != nil {
		return nil, err
	}
	return &demoRun{
		sim:     sim.NewSimulator(opts, newRand(c.Seed), nil, out, newRenderer(), session),
		session: session,
		out:     out,
	}, nil
}

// finish closes the session and reports where its logs went.
func (r *demoRun) finish(runErr error) error {
	ferr := r.session.Finalize()
	info := r.session.Info()
	fmt.Fprintf(r.out, "\n📁 Session %s logged to %s\n   events: %s\n", info.SessionID, info.LogDir, info.JSONLFile)
	return errors.Join(runErr, ferr)
}
