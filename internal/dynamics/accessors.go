package dynamics

import "github.com/nvandessel/alignleap/internal/graph"

// N returns the node count, or 0 for a nil instance.
func (in *Instance) N() int {
	if in == nil {
		return 0
	}
	return in.state.N()
}

// Params returns a copy of the current parameters.
func (in *Instance) Params() Params {
	if in == nil {
		return Params{}
	}
	return in.params
}

// SetParams replaces the parameters wholesale. No validation is performed.
// Nothing derived from the old parameters is cached, so the next Step uses
// the new values throughout.
func (in *Instance) SetParams(p Params) {
	if in == nil {
		return
	}
	in.params = p
}

// KappaRow copies up to min(N, len(buf)) inertia values of row into buf and
// returns the count copied. An out-of-range row copies nothing and leaves buf
// untouched.
func (in *Instance) KappaRow(row int, buf []float64) int {
	if in == nil {
		return 0
	}
	return copyRow(in.state.Kappa, row, buf)
}

// WeightRow is KappaRow for the rewire-weight matrix w.
func (in *Instance) WeightRow(row int, buf []float64) int {
	if in == nil {
		return 0
	}
	return copyRow(in.state.W, row, buf)
}

// Current returns the agent's node.
func (in *Instance) Current() int {
	if in == nil {
		return 0
	}
	return in.state.Current
}

// Heat returns E.
func (in *Instance) Heat() float64 {
	if in == nil {
		return 0
	}
	return in.state.Heat
}

// Temperature returns the most recently computed T (T0 before the first step).
func (in *Instance) Temperature() float64 {
	if in == nil {
		return 0
	}
	return in.state.Temperature
}

// Forgetting returns F.
func (in *Instance) Forgetting() float64 {
	if in == nil {
		return 0
	}
	return in.state.Forgetting
}

// SetForgetting supplies F, which lowers the jump threshold by A2·F. The
// engine never changes F on its own.
func (in *Instance) SetForgetting(f float64) {
	if in == nil {
		return
	}
	in.state.Forgetting = f
}

// Policy returns a copy of the last computed distribution over nodes.
func (in *Instance) Policy() []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in.state.Policy))
	copy(out, in.state.Policy)
	return out
}

// Seed returns the effective generator seed.
func (in *Instance) Seed() uint64 {
	if in == nil {
		return 0
	}
	return in.rng.Seed()
}

// Snapshot returns a deep copy of the graph state for read-only consumers.
func (in *Instance) Snapshot() graph.Snapshot {
	if in == nil {
		return graph.Snapshot{}
	}
	return in.state.Snapshot()
}

func copyRow(m graph.Matrix, row int, buf []float64) int {
	if row < 0 || row >= m.N() {
		return 0
	}
	return copy(buf, m.Row(row))
}
