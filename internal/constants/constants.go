// Package constants provides named constants used throughout the alignleap codebase.
// This centralizes magic numbers of the step engine so the recurrences read
// as formulas rather than literals.
package constants

// Generator constants
const (
	// DefaultSeed replaces a zero seed so the generator always starts from a
	// valid non-zero state.
	DefaultSeed uint64 = 123456789
)

// Size limits
const (
	// MaxNodes is the largest node count whose N×N buffers can be indexed
	// with 32-bit arithmetic at the language boundary. Larger requests are
	// treated as allocation failures.
	MaxNodes = 46340
)

// Numerical floors
const (
	// MinGamma floors the jump-rate exponential scale divisor.
	MinGamma = 1e-8

	// MinTemperature floors the exploration temperature.
	MinTemperature = 1e-6

	// DegenerateTemperature is the temperature at or below which the policy
	// softmax collapses to a one-hot arg-max.
	DegenerateTemperature = 1e-8

	// EntropyFloor is the probability floor applied before taking logs in
	// the normalized entropy.
	EntropyFloor = 1e-12

	// MinPressure is the |p| below which alignment efficiency reports 0.
	MinPressure = 1e-8
)

// Move selection constants
const (
	// SelfLoopDiscouragement is subtracted from the self-edge logit before
	// the post-jump softmax.
	SelfLoopDiscouragement = 1.0

	// GreedySelfPenalty is subtracted from the self-edge during the greedy
	// move so a tied alternative always wins.
	GreedySelfPenalty = 1e-6

	// ExploreIncrement is added to both w and kappa on an epsilon-exploration
	// edge.
	ExploreIncrement = 0.05
)
