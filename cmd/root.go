package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/netsim-dev/netsim/sim"
	"github.com/netsim-dev/netsim/sim/netio"
	"github.com/netsim-dev/netsim/sim/report"
	"github.com/netsim-dev/netsim/sim/trace"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional YAML run config

	opts = runOptions{} // CLI flags for `run`
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "netsim",
	Short: "Turn-based simulator for logistics networks of ramps, workers and storehouses",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a network for a number of turns",
	Run: func(cmd *cobra.Command, args []string) {
		o := opts
		if configPath != "" {
			cfg, err := LoadRunConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			applyRunConfig(&o, cfg, cmd.Flags().Changed)
		}
		if err := runSimulation(o, os.Stdout); err != nil {
			var ce *sim.ConsistencyError
			if errors.As(err, &ce) {
				logrus.Fatalf("Refusing to simulate: %v", err)
			}
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// runSimulation loads the network, validates it, runs it and writes turn
// reports, metrics and the trace summary to out.
func runSimulation(o runOptions, out io.Writer) error {
	if o.networkPath == "" {
		return fmt.Errorf("no network description provided (--network)")
	}
	if !trace.IsValidTraceLevel(o.traceLevel) {
		return fmt.Errorf("unknown trace level %q", o.traceLevel)
	}
	notifier, err := newNotifier(o)
	if err != nil {
		return err
	}

	runID := xid.New().String()
	log := logrus.WithField("run", runID)

	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(o.traceLevel)})
	f, err := netio.Load(o.networkPath, sim.FactoryConfig{Seed: o.seed, Trace: st})
	if err != nil {
		return err
	}
	f.Metrics().RunID = runID

	log.Infof("Starting simulation of %s: %d ramps, %d workers, %d storehouses, %d turns, seed=%d",
		o.networkPath, len(f.Ramps()), len(f.Workers()), len(f.Storehouses()), o.turns, o.seed)

	var onTurn sim.TurnFunc
	if notifier != nil {
		onTurn = report.TurnWriter(out, notifier, func(err error) {
			log.Warnf("writing turn report: %v", err)
		})
	}
	if err := sim.Simulate(f, sim.TimeOffset(o.turns), onTurn); err != nil {
		return err
	}

	f.Metrics().Print(out)
	if f.Trace() != nil {
		printTraceSummary(out, trace.Summarize(f.Trace()))
	}
	log.Info("Simulation complete.")
	return nil
}

func newNotifier(o runOptions) (report.Notifier, error) {
	if o.reportInterval < 0 {
		return nil, fmt.Errorf("report interval must be non-negative, got %d", o.reportInterval)
	}
	if len(o.reportTurns) > 0 {
		turns := make([]sim.Time, len(o.reportTurns))
		for i, t := range o.reportTurns {
			turns[i] = sim.Time(t)
		}
		return report.NewSpecificTurnsNotifier(turns...), nil
	}
	if o.reportInterval > 0 {
		n, err := report.NewIntervalNotifier(sim.TimeOffset(o.reportInterval))
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, nil
}

func printTraceSummary(out io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(out, "=== Trace Summary ===")
	fmt.Fprintf(out, "Deliveries           : %d\n", s.TotalDeliveries)
	fmt.Fprintf(out, "Routing Decisions    : %d\n", s.TotalRoutings)
	fmt.Fprintf(out, "Stalled Sends        : %d\n", s.TotalStalls)
	fmt.Fprintf(out, "Unique Targets       : %d\n", s.UniqueTargets)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&opts.networkPath, "network", "", "Network description file (.yaml/.yml for YAML, anything else for text)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run config; explicit flags override it")
	runCmd.Flags().Int64Var(&opts.seed, "seed", sim.DefaultSeed, "Seed for routing decisions")
	runCmd.Flags().Int64Var(&opts.turns, "turns", 10, "Number of turns to simulate")
	runCmd.Flags().Int64Var(&opts.reportInterval, "report-interval", 0, "Print a turn report every N turns, starting at turn 1 (0 = off)")
	runCmd.Flags().Int64SliceVar(&opts.reportTurns, "report-turns", nil, "Comma-separated turns to print a turn report for")
	runCmd.Flags().StringVar(&opts.traceLevel, "trace", "none", "Trace level (none, decisions)")
	runCmd.MarkFlagsMutuallyExclusive("report-interval", "report-turns")

	rootCmd.AddCommand(runCmd)
}
