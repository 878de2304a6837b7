package simulation

import (
	"github.com/nvandessel/alignleap/internal/dynamics"
	"github.com/nvandessel/alignleap/internal/graph"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name  string
	Nodes int
	Seed  uint64 // 0 = constants.DefaultSeed
	Steps int
	Dt    float64

	// Params, when nil, selects dynamics.DefaultParams.
	Params *dynamics.Params

	// Forgetting is supplied to the instance before the first step.
	Forgetting float64

	// Pressure, when nil, applies zero pressure.
	Pressure PressureFunc

	// BeforeStep, when non-nil, is called before each step executes. Use it
	// to replace parameters or forgetting between steps.
	BeforeStep func(step int, in *dynamics.Instance)

	// OnStep, when non-nil, is called with each record after the step.
	OnStep func(rec StepRecord)

	// DiscardSteps keeps Result.Steps empty for long runs; aggregates are
	// still collected.
	DiscardSteps bool
}

// StepRecord captures the outcome of a single step.
type StepRecord struct {
	Index     int
	Pressure  float64
	Telemetry dynamics.Telemetry
}

// Result captures all steps and the final graph state.
type Result struct {
	RunID string
	Name  string
	Seed  uint64

	// Completed is the number of steps executed; it is less than
	// Scenario.Steps when the run was cancelled.
	Completed int
	Jumps     int

	Steps []StepRecord
	Last  dynamics.Telemetry
	Final graph.Snapshot
}

// JumpFraction returns Jumps/Completed, or 0 before the first step.
func (r Result) JumpFraction() float64 {
	if r.Completed == 0 {
		return 0
	}
	return float64(r.Jumps) / float64(r.Completed)
}
