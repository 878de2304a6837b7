package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nvandessel/alignleap/internal/config"
	"github.com/nvandessel/alignleap/internal/dynamics"
	"github.com/nvandessel/alignleap/internal/logging"
	"github.com/nvandessel/alignleap/internal/metrics"
	"github.com/nvandessel/alignleap/internal/ranking"
	"github.com/nvandessel/alignleap/internal/simulation"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and print step telemetry",
		Long: `Run the configured simulation. Flags override the config file and
environment. Telemetry is printed every --every steps, followed by a summary.
Interrupting the run stops it between two steps and still prints the summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			every, _ := cmd.Flags().GetInt("every")
			watch, _ := cmd.Flags().GetBool("watch")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applySimulationFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			logger := newLogger(cmd, cfg)

			sc, err := buildScenario(cfg, "run")
			if err != nil {
				return err
			}
			sc.DiscardSteps = true
			sc.OnStep = stepPrinter(cmd.OutOrStdout(), every, jsonOut)

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			if watch {
				path, err := watchPath(cmd)
				if err != nil {
					return err
				}
				w, err := config.NewWatcher(path, logger)
				if err != nil {
					return err
				}
				defer w.Close()
				w.Start(ctx)
				sc.BeforeStep = applyReloads(w, logger)
			}

			res, err := execute(ctx, cfg, sc, logger)
			cancelled := errors.Is(err, context.Canceled)
			if err != nil && !cancelled {
				return err
			}
			return printSummary(cmd.OutOrStdout(), res, cancelled, jsonOut)
		},
	}

	addSimulationFlags(cmd)
	cmd.Flags().Int("every", 100, "Print telemetry every N steps (0 = summary only)")
	cmd.Flags().String("trace-dir", "", "Write a JSONL step trace to this directory")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	cmd.Flags().Bool("watch", false, "Reload params from the config file while running")

	return cmd
}

// addSimulationFlags registers the flags shared by run and graph.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int("nodes", 0, "Number of graph nodes")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 = default seed)")
	cmd.Flags().Int("steps", 0, "Number of steps")
	cmd.Flags().Float64("dt", 0, "Step size")
	cmd.Flags().Float64("forgetting", 0, "External forgetting input F")
	cmd.Flags().String("pressure", "", "Pressure schedule: constant, alternate, sine, square")
	cmd.Flags().Float64("amplitude", 0, "Pressure amplitude")
	cmd.Flags().Float64("offset", 0, "Pressure offset")
	cmd.Flags().Int("period", 0, "Pressure period in steps (sine, square)")
}

// applySimulationFlags copies explicitly set flags over the config.
func applySimulationFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	sim := &cfg.Simulation
	if flags.Changed("nodes") {
		sim.Nodes, _ = flags.GetInt("nodes")
	}
	if flags.Changed("seed") {
		sim.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("steps") {
		sim.Steps, _ = flags.GetInt("steps")
	}
	if flags.Changed("dt") {
		sim.Dt, _ = flags.GetFloat64("dt")
	}
	if flags.Changed("forgetting") {
		sim.Forgetting, _ = flags.GetFloat64("forgetting")
	}
	if flags.Changed("pressure") {
		sim.Pressure.Kind, _ = flags.GetString("pressure")
	}
	if flags.Changed("amplitude") {
		sim.Pressure.Amplitude, _ = flags.GetFloat64("amplitude")
	}
	if flags.Changed("offset") {
		sim.Pressure.Offset, _ = flags.GetFloat64("offset")
	}
	if flags.Changed("period") {
		sim.Pressure.Period, _ = flags.GetInt("period")
	}
	if flags.Lookup("trace-dir") != nil && flags.Changed("trace-dir") {
		cfg.Logging.TraceDir, _ = flags.GetString("trace-dir")
	}
	if flags.Lookup("metrics-file") != nil && flags.Changed("metrics-file") {
		cfg.Metrics.Textfile, _ = flags.GetString("metrics-file")
	}
}

// buildScenario translates the simulation section into a Scenario.
func buildScenario(cfg *config.Config, name string) (simulation.Scenario, error) {
	pressure, err := simulation.ScheduleFromConfig(cfg.Simulation.Pressure)
	if err != nil {
		return simulation.Scenario{}, err
	}
	params := cfg.Params
	return simulation.Scenario{
		Name:       name,
		Nodes:      cfg.Simulation.Nodes,
		Seed:       cfg.Simulation.Seed,
		Steps:      cfg.Simulation.Steps,
		Dt:         cfg.Simulation.Dt,
		Params:     &params,
		Forgetting: cfg.Simulation.Forgetting,
		Pressure:   pressure,
	}, nil
}

// execute runs the scenario with the trace and metrics sinks the config asks for.
func execute(ctx context.Context, cfg *config.Config, sc simulation.Scenario, logger *slog.Logger) (simulation.Result, error) {
	trace := logging.NewTraceLogger(cfg.Logging.TraceDir)
	defer trace.Close()
	if cfg.Logging.TraceDir != "" && trace == nil {
		logger.Warn("step trace disabled: cannot open trace file", "dir", cfg.Logging.TraceDir)
	}

	var rec *metrics.Recorder
	if cfg.Metrics.Textfile != "" {
		rec = metrics.NewRecorder()
	}

	res, err := simulation.NewRunner(logger, trace, rec).Run(ctx, sc)
	if werr := rec.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
		return res, werr
	}
	return res, err
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// watchPath returns the config file to watch: --config, else the default
// path when it exists.
func watchPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	if path := config.DefaultPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("--watch requires a config file (use --config)")
}

// applyReloads returns a BeforeStep hook that installs reloaded params and
// forgetting between two steps.
func applyReloads(w *config.Watcher, logger *slog.Logger) func(int, *dynamics.Instance) {
	var applied uint64
	return func(step int, in *dynamics.Instance) {
		next, v := w.Latest()
		if v == applied {
			return
		}
		applied = v
		in.SetParams(next.Params)
		in.SetForgetting(next.Simulation.Forgetting)
		logger.Info("params applied", "step", step, "version", v)
	}
}

// stepLine is one JSON line of run output.
type stepLine struct {
	Step     int     `json:"step"`
	Pressure float64 `json:"pressure"`
	dynamics.Telemetry
}

// stepPrinter prints every n-th record as a table row or a JSON line.
func stepPrinter(w io.Writer, every int, jsonOut bool) func(simulation.StepRecord) {
	if every <= 0 {
		return nil
	}
	enc := json.NewEncoder(w)
	header := false
	return func(rec simulation.StepRecord) {
		if rec.Index%every != 0 {
			return
		}
		if jsonOut {
			enc.Encode(stepLine{Step: rec.Index, Pressure: rec.Pressure, Telemetry: rec.Telemetry})
			return
		}
		if !header {
			fmt.Fprintf(w, "%8s %8s %10s %8s %10s %8s %8s %8s %10s %5s %4s\n",
				"STEP", "P", "HEAT", "THETA", "RATE", "TEMP", "ENTROPY", "J", "KMEAN", "NODE", "JUMP")
			header = true
		}
		t := rec.Telemetry
		jump := ""
		if t.DidJump {
			jump = "*"
		}
		fmt.Fprintf(w, "%8d %8.3f %10.5f %8.4f %10.4g %8.4f %8.4f %8.4f %10.5f %5d %4s\n",
			rec.Index, rec.Pressure, t.Heat, t.Threshold, t.JumpRate, t.Temp, t.Entropy, t.FlowNorm, t.KappaMean, t.Current, jump)
	}
}

// runSummary is the JSON form of the end-of-run summary.
type runSummary struct {
	RunID        string  `json:"run_id"`
	Seed         uint64  `json:"seed"`
	Steps        int     `json:"steps"`
	Jumps        int     `json:"jumps"`
	JumpFraction float64 `json:"jump_fraction"`
	Heat         float64 `json:"heat"`
	KappaMean    float64 `json:"kappa_mean"`
	Current      int     `json:"current"`
	Attractor    int     `json:"attractor"`
	Cancelled    bool    `json:"cancelled,omitempty"`
}

func summarize(res simulation.Result, cancelled bool) runSummary {
	return runSummary{
		RunID:        res.RunID,
		Seed:         res.Seed,
		Steps:        res.Completed,
		Jumps:        res.Jumps,
		JumpFraction: res.JumpFraction(),
		Heat:         res.Final.Heat,
		KappaMean:    res.Last.KappaMean,
		Current:      res.Final.Current,
		Attractor:    ranking.Top(ranking.ComputePageRank(res.Final, ranking.DefaultPageRankConfig())),
		Cancelled:    cancelled,
	}
}

func printSummary(w io.Writer, res simulation.Result, cancelled, jsonOut bool) error {
	s := summarize(res, cancelled)
	if jsonOut {
		return json.NewEncoder(w).Encode(map[string]runSummary{"summary": s})
	}

	status := "completed"
	if cancelled {
		status = "cancelled"
	}
	fmt.Fprintf(w, "\nRun %s %s\n", s.RunID, status)
	fmt.Fprintf(w, "  seed:       %d\n", s.Seed)
	fmt.Fprintf(w, "  steps:      %d\n", s.Steps)
	fmt.Fprintf(w, "  jumps:      %d (%.2f%%)\n", s.Jumps, 100*s.JumpFraction)
	fmt.Fprintf(w, "  heat:       %.6f\n", s.Heat)
	fmt.Fprintf(w, "  kappa mean: %.6f\n", s.KappaMean)
	fmt.Fprintf(w, "  node:       %d\n", s.Current)
	fmt.Fprintf(w, "  attractor:  %d\n", s.Attractor)
	return nil
}
