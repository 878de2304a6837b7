package dynamics

import (
	"math"

	"github.com/nvandessel/alignleap/internal/constants"
)

// Softmax writes the temperature-scaled softmax of logits into out, which
// must have the same length.
//
// At or below constants.DegenerateTemperature the result is one-hot at the
// arg-max (lowest index wins ties). Otherwise the max logit is subtracted
// before exponentiating so large logits cannot overflow.
func Softmax(logits []float64, temperature float64, out []float64) {
	n := len(logits)
	if n == 0 {
		return
	}

	if temperature <= constants.DegenerateTemperature {
		arg := argmax(logits)
		for i := range out {
			out[i] = 0
		}
		out[arg] = 1
		return
	}

	maxv := logits[argmax(logits)]
	var sum float64
	for i, l := range logits {
		e := math.Exp((l - maxv) / temperature)
		out[i] = e
		sum += e
	}
	if sum <= 0 {
		sum = 1
	}
	for i := range out {
		out[i] /= sum
	}
}

// SampleCategorical walks the cumulative sum of pi in index order and
// returns the first index whose cumulative mass reaches r. If rounding
// leaves r above the total mass, the last index is returned.
func SampleCategorical(pi []float64, r float64) int {
	var cdf float64
	for k, p := range pi {
		cdf += p
		if r <= cdf {
			return k
		}
	}
	return len(pi) - 1
}

// NormalizedEntropy returns the Shannon entropy of pi divided by ln(len(pi)).
// Probabilities are floored at constants.EntropyFloor before taking logs.
// A single-node distribution has zero maximum entropy and reports 0.
func NormalizedEntropy(pi []float64) float64 {
	n := len(pi)
	if n == 0 {
		return 0
	}
	var h float64
	for _, p := range pi {
		if p <= constants.EntropyFloor {
			p = constants.EntropyFloor
		}
		h -= p * math.Log(p)
	}
	hmax := math.Log(float64(n))
	if hmax <= 0 {
		return 0
	}
	return h / hmax
}

// argmax returns the index of the largest value, lowest index on ties.
func argmax(xs []float64) int {
	arg := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[arg] {
			arg = i
		}
	}
	return arg
}
