package graph

// State is the mutable graph state of one simulation instance.
//
// Invariants maintained by the step engine:
//   - every Kappa entry is >= the configured inertia floor
//   - Heat >= 0
//   - Policy sums to 1 once a jump has set it
type State struct {
	// Kappa is the alignment inertia per directed edge i→j.
	Kappa Matrix

	// W accumulates rewire and exploration increments. Only ever increases.
	W Matrix

	// Current is the node the agent occupies, in [0, N).
	Current int

	// Heat (E) is accumulated unresolved pressure.
	Heat float64

	// Forgetting (F) is an externally supplied input. The engine reads it
	// but never writes it.
	Forgetting float64

	// Temperature (T) is the most recently computed exploration temperature.
	Temperature float64

	// Policy (pi) is the last categorical distribution over nodes.
	Policy []float64

	// PolicySet reports whether a jump has computed Policy at least once.
	PolicySet bool
}

// NewState creates the initial state for n nodes: zero matrices, agent at
// node 0, zero heat, and a uniform policy. temperature seeds T.
func NewState(n int, temperature float64) *State {
	policy := make([]float64, n)
	for i := range policy {
		policy[i] = 1.0 / float64(n)
	}
	return &State{
		Kappa:       NewMatrix(n),
		W:           NewMatrix(n),
		Temperature: temperature,
		Policy:      policy,
	}
}

// N returns the number of nodes.
func (s *State) N() int {
	return s.Kappa.N()
}

// Snapshot is a deep, read-only copy of a State for collaborators that
// inspect the graph (scoring, rendering) without touching the instance.
type Snapshot struct {
	N           int       `json:"n"`
	Kappa       []float64 `json:"kappa"`
	W           []float64 `json:"w"`
	Current     int       `json:"current"`
	Heat        float64   `json:"heat"`
	Forgetting  float64   `json:"forgetting"`
	Temperature float64   `json:"temperature"`
	Policy      []float64 `json:"policy"`
}

// Snapshot copies the state.
func (s *State) Snapshot() Snapshot {
	policy := make([]float64, len(s.Policy))
	copy(policy, s.Policy)
	return Snapshot{
		N:           s.N(),
		Kappa:       s.Kappa.Clone().Flat(),
		W:           s.W.Clone().Flat(),
		Current:     s.Current,
		Heat:        s.Heat,
		Forgetting:  s.Forgetting,
		Temperature: s.Temperature,
		Policy:      policy,
	}
}

// KappaAt returns kappa for edge i→j from the snapshot.
func (s Snapshot) KappaAt(i, j int) float64 {
	return s.Kappa[i*s.N+j]
}

// WAt returns the rewire weight for edge i→j from the snapshot.
func (s Snapshot) WAt(i, j int) float64 {
	return s.W[i*s.N+j]
}
