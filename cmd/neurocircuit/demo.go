package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/fault"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/logging"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/scenario"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/sim"
)

var (
	flowUser      string
	faultTarget   string
	faultType     string
	faultSeverity float64
	faultScenario string
)

var architectureCmd = &cobra.Command{
	Use:   "architecture",
	Short: "Show the agent architecture",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := sim.NewSimulator(simOptions(cfg), newRand(cfg.Seed), nil, cmd.OutOrStdout(), newRenderer(), nil)
		s.RunArchitecture()
		return nil
	},
}

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Run the flow coordination demo",
	Long:  "flow walks the six agent hand-offs that restore a user's flow state.",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := simOptions(cfg)
		switch {
		case cmd.Flags().Changed("user"):
			opts.UserName = flowUser
		case term.IsTerminal(int(os.Stdin.Fd())):
			name, err := promptUser(opts.UserName)
			if err != nil {
				return err
			}
			opts.UserName = name
		}
		run, err := newDemoRun(cfg, opts, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = run.sim.RunFlowDemo(cmd.Context())
		return run.finish(err)
	},
}

// promptUser asks for the name shown in the flow demo.
func promptUser(def string) (string, error) {
	name := def
	prompt := &survey.Input{Message: "Enter your name:", Default: def}
	if err := survey.AskOne(prompt, &name); err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	if name = strings.TrimSpace(name); name == "" {
		name = def
	}
	return name, nil
}

var faultCmd = &cobra.Command{
	Use:   "fault",
	Short: "Inject a fault and watch the circuit recover",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := simOptions(cfg)
		flags := cmd.Flags()
		if flags.Changed("target") {
			opts.Fault.Target = faultTarget
		}
		if flags.Changed("type") {
			t, err := fault.ParseType(faultType)
			if err != nil {
				return err
			}
			opts.Fault.Type = t
		}
		if flags.Changed("severity") {
			if faultSeverity < 0 || faultSeverity > 1 {
				return fmt.Errorf("severity %.2f out of range [0,1]", faultSeverity)
			}
			opts.Fault.Severity = faultSeverity
		}
		if faultScenario != "" {
			sc, err := scenario.Load(faultScenario)
			if err != nil {
				return err
			}
			opts.Scenario = sc
		}

		run, err := newDemoRun(cfg, opts, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		res, err := run.sim.RunFaultInjection(cmd.Context())
		if err == nil {
			logging.FromContext(cmd.Context()).Info("fault recovery complete",
				"fault_id", res.Event.FaultID,
				"recovered", res.Comparison.OverallHealth.RecoverySuccess,
				"resilience", res.Comparison.AnalysisSummary.ResilienceRating)
		}
		return run.finish(err)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show the system health dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newDemoRun(cfg, simOptions(cfg), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = run.sim.RunHealthDashboard(cmd.Context())
		return run.finish(err)
	},
}

var testAllCmd = &cobra.Command{
	Use:   "test-all",
	Short: "Check every agent in the circuit",
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newDemoRun(cfg, simOptions(cfg), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		checks, err := run.sim.RunAgentSuite(cmd.Context())
		if err == nil {
			passed := 0
			for _, c := range checks {
				if c.Passed {
					passed++
				}
			}
			logging.FromContext(cmd.Context()).Info("agent suite finished", "passed", passed, "total", len(checks))
		}
		return run.finish(err)
	},
}

func init() {
	flowCmd.Flags().StringVar(&flowUser, "user", "", "Name of the user whose flow is restored")
	faultCmd.Flags().StringVar(&faultTarget, "target", "", "Agent to inject the fault into (random if empty)")
	faultCmd.Flags().StringVar(&faultType, "type", "", "Fault type: agent_crash, network_partition, memory_corruption, latency_spike, byzantine")
	faultCmd.Flags().Float64Var(&faultSeverity, "severity", 0, "Fault severity between 0 and 1")
	faultCmd.Flags().StringVar(&faultScenario, "scenario", "", "YAML recovery scenario replacing the built-in script")
}
