package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nvandessel/alignleap/internal/dynamics"
	"github.com/nvandessel/alignleap/internal/logging"
	"github.com/nvandessel/alignleap/internal/metrics"
)

// Runner orchestrates simulation runs against a real engine instance.
// The trace logger and metrics recorder are optional; a Runner may execute
// several runs, including concurrently, since each run owns its instance.
type Runner struct {
	logger  *slog.Logger
	trace   *logging.TraceLogger
	metrics *metrics.Recorder
}

// NewRunner creates a runner. A nil logger discards operational output;
// nil trace and metrics disable those sinks.
func NewRunner(logger *slog.Logger, trace *logging.TraceLogger, rec *metrics.Recorder) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{logger: logger, trace: trace, metrics: rec}
}

// Run executes the scenario. Cancellation is checked between steps; on
// cancellation the partial result is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, sc Scenario) (Result, error) {
	in, err := dynamics.New(sc.Nodes, sc.Params, sc.Seed)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	in.SetForgetting(sc.Forgetting)

	pressure := sc.Pressure
	if pressure == nil {
		pressure = Constant(0, 0)
	}

	res := Result{
		RunID: uuid.NewString(),
		Name:  sc.Name,
		Seed:  in.Seed(),
	}
	if !sc.DiscardSteps && sc.Steps > 0 {
		res.Steps = make([]StepRecord, 0, sc.Steps)
	}

	log := r.logger.With("run_id", res.RunID)
	log.Info("run started",
		"scenario", sc.Name,
		"nodes", sc.Nodes,
		"steps", sc.Steps,
		"dt", sc.Dt,
		"seed", res.Seed,
	)

	for i := 0; i < sc.Steps; i++ {
		if err := ctx.Err(); err != nil {
			r.finish(log, in, &res, "run cancelled")
			return res, err
		}

		if sc.BeforeStep != nil {
			sc.BeforeStep(i, in)
		}

		p := pressure(i)
		tel := in.Step(p, sc.Dt)
		rec := StepRecord{Index: i, Pressure: p, Telemetry: tel}

		res.Completed++
		res.Last = tel
		if tel.DidJump {
			res.Jumps++
			log.Debug("jump", "step", i, "to", tel.RewiredTo, "heat", tel.Heat, "entropy", tel.Entropy)
		}
		if log.Enabled(ctx, logging.LevelTrace) {
			log.Log(ctx, logging.LevelTrace, "step", append([]any{"step", i, "pressure", p}, tel.Attrs()...)...)
		}

		r.trace.Log(res.RunID, i, p, tel)
		r.metrics.Observe(tel)
		if !sc.DiscardSteps {
			res.Steps = append(res.Steps, rec)
		}
		if sc.OnStep != nil {
			sc.OnStep(rec)
		}
	}

	r.finish(log, in, &res, "run finished")
	return res, nil
}

func (r *Runner) finish(log *slog.Logger, in *dynamics.Instance, res *Result, msg string) {
	res.Final = in.Snapshot()
	log.Info(msg,
		"completed", res.Completed,
		"jumps", res.Jumps,
		"heat", res.Last.Heat,
		"current", in.Current(),
	)
}

// FormatStepDebug returns a one-line debug string for a step record.
func FormatStepDebug(rec StepRecord) string {
	t := rec.Telemetry
	var b strings.Builder
	fmt.Fprintf(&b, "step %d: p=%.4f E=%.6f theta=%.4f h=%.4f T=%.4f H=%.4f J=%.4f eff=%.4f kmean=%.6f cur=%d",
		rec.Index, rec.Pressure, t.Heat, t.Threshold, t.JumpRate, t.Temp, t.Entropy, t.FlowNorm, t.AlignEff, t.KappaMean, t.Current)
	if t.DidJump {
		fmt.Fprintf(&b, " jump->%d", t.RewiredTo)
	}
	return b.String()
}
