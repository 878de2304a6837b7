package simulation

import (
	"math"
	"testing"
)

// AssertHeatBounded asserts that heat stays within [min, max] for every
// recorded step at or after afterStep.
func AssertHeatBounded(t *testing.T, result Result, min, max float64, afterStep int) {
	t.Helper()
	for _, rec := range result.Steps {
		if rec.Index < afterStep {
			continue
		}
		e := rec.Telemetry.Heat
		if math.IsNaN(e) || e < min || e > max {
			t.Errorf("AssertHeatBounded: step %d: heat %.6f not in [%.4f, %.4f]", rec.Index, e, min, max)
			return
		}
	}
}

// AssertKappaFloor asserts that every entry of the final inertia matrix is
// at least kappaMin.
func AssertKappaFloor(t *testing.T, result Result, kappaMin float64) {
	t.Helper()
	for i, k := range result.Final.Kappa {
		if k < kappaMin {
			t.Errorf("AssertKappaFloor: kappa[%d][%d] = %.6f < %.6f", i/result.Final.N, i%result.Final.N, k, kappaMin)
		}
	}
}

// AssertJumpFraction asserts that the share of jump steps lies in [min, max].
func AssertJumpFraction(t *testing.T, result Result, min, max float64) {
	t.Helper()
	f := result.JumpFraction()
	if f < min || f > max {
		t.Errorf("AssertJumpFraction: %d/%d = %.4f not in [%.4f, %.4f]", result.Jumps, result.Completed, f, min, max)
	}
}

// AssertFinite asserts that no recorded telemetry scalar is NaN or infinite.
func AssertFinite(t *testing.T, result Result) {
	t.Helper()
	for _, rec := range result.Steps {
		tel := rec.Telemetry
		for name, v := range map[string]float64{
			"heat":        tel.Heat,
			"theta":       tel.Threshold,
			"jump_rate":   tel.JumpRate,
			"temperature": tel.Temp,
			"entropy":     tel.Entropy,
			"j_norm":      tel.FlowNorm,
			"align_eff":   tel.AlignEff,
			"kappa_mean":  tel.KappaMean,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("AssertFinite: step %d: %s = %v", rec.Index, name, v)
				return
			}
		}
	}
}

// AssertVisitsAtLeast asserts that the agent occupied at least minNodes
// distinct nodes over the recorded steps.
func AssertVisitsAtLeast(t *testing.T, result Result, minNodes int) {
	t.Helper()
	seen := make(map[int]bool)
	for _, rec := range result.Steps {
		seen[rec.Telemetry.Current] = true
	}
	if len(seen) < minNodes {
		t.Errorf("AssertVisitsAtLeast: visited %d distinct nodes (need %d)", len(seen), minNodes)
	}
}
