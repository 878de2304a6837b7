// Package simulation drives the alignment leap engine through multi-step
// runs and collects their telemetry.
//
// The simulation exercises the real dynamics.Instance with no mocks. A
// Scenario fixes the node count, seed, parameters and a pressure schedule;
// the Runner steps the instance, feeds every Telemetry to the optional trace
// logger and metrics recorder, and returns per-step records plus the final
// graph snapshot for property-based assertions.
//
// Hooks let callers act as the external collaborators of the engine:
// BeforeStep may replace parameters or supply forgetting between steps, and
// OnStep observes each record as it is produced.
//
// Usage:
//
//	func TestBoundedUnderAlternatingPressure(t *testing.T) {
//	    r := simulation.NewRunner(nil, nil, nil)
//	    result, err := r.Run(ctx, simulation.Scenario{
//	        Name:     "alternating",
//	        Nodes:    5,
//	        Steps:    1000,
//	        Dt:       0.1,
//	        Pressure: simulation.Alternate(1, 0),
//	    })
//	    simulation.AssertHeatBounded(t, result, 0, 50)
//	}
package simulation
