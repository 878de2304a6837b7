// Package dynamics implements the per-step update engine of the alignment
// leap model. Pressure drives a flow over every directed edge of a complete
// graph, the flow trains per-edge inertia (kappa), unresolved pressure
// accumulates as heat, and heat above a dynamic threshold makes the tracked
// agent jump to a new node sampled from a softmax over its inertia row.
//
// An Instance is a continuous-state stochastic recurrence, not a finite
// automaton: the only discrete outcome of a step is whether the jump branch
// or the explore-then-greedy branch ran.
//
// An Instance is not safe for concurrent use. Independent instances share no
// state and may be stepped from separate goroutines.
package dynamics

import (
	"fmt"
	"math"

	"github.com/nvandessel/alignleap/internal/constants"
	"github.com/nvandessel/alignleap/internal/graph"
	"github.com/nvandessel/alignleap/internal/rng"
)

// Instance owns one graph state, one parameter set, and one random source.
// A nil *Instance is safe to use: every method is a no-op or returns the zero
// value.
type Instance struct {
	params Params
	state  *graph.State
	rng    *rng.Source

	// Scratch buffers sized at construction so Step never allocates.
	flow   []float64
	logits []float64
	order  []int
}

// New creates an instance with n nodes. A nil params selects DefaultParams.
// A zero seed is replaced by constants.DefaultSeed.
func New(n int, params *Params, seed uint64) (*Instance, error) {
	if n <= 0 {
		return nil, fmt.Errorf("node count must be positive, got %d", n)
	}
	if n > constants.MaxNodes {
		return nil, fmt.Errorf("node count %d exceeds maximum %d", n, constants.MaxNodes)
	}

	p := DefaultParams()
	if params != nil {
		p = *params
	}

	return &Instance{
		params: p,
		state:  graph.NewState(n, p.T0),
		rng:    rng.New(seed),
		flow:   make([]float64, n*n),
		logits: make([]float64, n),
		order:  make([]int, n*n),
	}, nil
}

// Step advances the instance by dt under pressure p and returns the step's
// telemetry. dt is not validated.
func (in *Instance) Step(p, dt float64) Telemetry {
	if in == nil {
		return Telemetry{}
	}
	s := in.state
	prm := in.params
	kappa := s.Kappa.Flat()

	// Alignment flow.
	var sumSq float64
	for i, k := range kappa {
		f := (prm.G0 + prm.G*k) * p
		if prm.EpsNoise > 0 {
			f += prm.EpsNoise * in.rng.Normal()
		}
		in.flow[i] = f
		sumSq += f * f
	}
	flowNorm := math.Sqrt(sumSq)

	// Inertia recurrence.
	for i, f := range in.flow {
		gain := prm.Eta * (p*f - prm.Rho*f*f)
		decay := prm.Lam * (kappa[i] - prm.KappaMin)
		kappa[i] = atLeast(kappa[i]+dt*(gain-decay), prm.KappaMin)
	}

	// Heat recurrence.
	dE := prm.Alpha*math.Max(math.Abs(p)-flowNorm, 0) - prm.BetaE*s.Heat
	s.Heat = atLeast(s.Heat+dt*dE, 0)

	// Threshold, jump rate, temperature.
	kappaMean := s.Kappa.Mean()
	theta := prm.Theta0 + prm.A1*kappaMean - prm.A2*s.Forgetting
	jumpRate := prm.H0 * math.Exp((s.Heat-theta)/math.Max(constants.MinGamma, prm.Gamma))
	s.Temperature = math.Max(constants.MinTemperature, prm.T0+prm.C1*s.Heat-prm.C2*in.entropy())

	// Jump decision.
	var rewiredTo int
	pJump := 1 - math.Exp(-jumpRate*dt)
	didJump := in.rng.Uniform() < pJump
	if didJump {
		rewiredTo = in.jump()
	} else {
		rewiredTo = in.explore(kappaMean)
	}

	var eff float64
	if math.Abs(p) > constants.MinPressure {
		eff = flowNorm / math.Abs(p)
	}

	return Telemetry{
		Heat:      s.Heat,
		Threshold: theta,
		JumpRate:  jumpRate,
		Temp:      s.Temperature,
		Entropy:   in.entropy(),
		FlowNorm:  flowNorm,
		AlignEff:  eff,
		KappaMean: kappaMean,
		Current:   s.Current,
		DidJump:   didJump,
		RewiredTo: rewiredTo,
	}
}

// jump samples the next node from a noisy softmax over the current row,
// strengthens the jumped edge, cools heat, moves the agent, and relaxes the
// highest-flow edges. It returns the selected node.
func (in *Instance) jump() int {
	s := in.state
	prm := in.params
	cur := s.Current

	row := s.Kappa.Row(cur)
	for k := range in.logits {
		l := row[k]
		if k == cur {
			l -= constants.SelfLoopDiscouragement
		}
		in.logits[k] = l + prm.Sigma*in.rng.Normal()
	}
	Softmax(in.logits, s.Temperature, s.Policy)
	s.PolicySet = true

	sel := SampleCategorical(s.Policy, in.rng.Uniform())

	s.W.Add(cur, sel, prm.DeltaW)
	s.Kappa.Set(cur, sel, atLeast(s.Kappa.At(cur, sel)+prm.DeltaKappa, prm.KappaMin))
	s.Heat = atLeast(s.Heat*prm.C0Cool, 0)
	s.Current = sel

	relax(s.Kappa.Flat(), in.flow, prm.QRelax, prm.EpsRelax, prm.KappaMin, in.order)
	return sel
}

// explore applies epsilon exploration on a random edge out of the current
// node, then moves greedily along the strongest edge. It returns the new
// node.
func (in *Instance) explore(kappaMean float64) int {
	s := in.state
	prm := in.params
	n := s.N()
	cur := s.Current

	eps := clip(prm.Eps0+prm.D1*s.Heat-prm.D2*kappaMean, 0, 1)
	if in.rng.Uniform() < eps {
		k := int(math.Floor(in.rng.Uniform() * float64(n)))
		if k >= n {
			k = n - 1
		}
		if k != cur {
			s.W.Add(cur, k, constants.ExploreIncrement)
			s.Kappa.Add(cur, k, constants.ExploreIncrement)
		}
	}

	row := s.Kappa.Row(cur)
	best := cur
	bestv := math.Inf(-1)
	for k, v := range row {
		if k == cur {
			v -= constants.GreedySelfPenalty
		}
		if v > bestv {
			bestv = v
			best = k
		}
	}
	s.Current = best
	return best
}

// entropy returns the normalized entropy of the policy, or 1 before any jump
// has set it.
func (in *Instance) entropy() float64 {
	if !in.state.PolicySet {
		return 1.0
	}
	return NormalizedEntropy(in.state.Policy)
}

// atLeast returns max(lo, x). NaN propagates so corrupted state stays visible.
func atLeast(x, lo float64) float64 {
	if x < lo {
		return lo
	}
	return x
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
