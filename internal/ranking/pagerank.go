// Package ranking scores nodes of an inertia graph by how strongly the
// learned edges funnel toward them.
package ranking

import (
	"math"

	"github.com/nvandessel/alignleap/internal/graph"
)

// PageRankConfig holds configuration for PageRank computation.
type PageRankConfig struct {
	// DampingFactor (d) is the probability of following an edge vs. teleporting.
	// Standard value: 0.85.
	DampingFactor float64

	// MaxIterations is the maximum number of power iteration steps. Default: 100.
	MaxIterations int

	// Tolerance is the convergence threshold. Default: 1e-6.
	Tolerance float64

	// IncludeSelfLoops keeps kappa[i][i] as a transition weight.
	IncludeSelfLoops bool
}

// DefaultPageRankConfig returns the default PageRank configuration.
func DefaultPageRankConfig() PageRankConfig {
	return PageRankConfig{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// ComputePageRank calculates kappa-weighted PageRank scores for every node
// of the snapshot. Scores are indexed by node and normalized so the highest
// is 1.
//
// Algorithm: power iteration over the row-normalized inertia matrix
//  1. Initialize all nodes with score = 1/N
//  2. For each iteration:
//     PR(v) = (1-d)/N + d * sum(PR(u) * kappa[u][v] / rowSum(u))
//     Rows with no positive weight spread their score uniformly.
//  3. Converge when max change < Tolerance
//  4. Normalize to [0, 1] range
//
// Negative kappa entries (possible only with a negative kappa_min) count as 0.
func ComputePageRank(snap graph.Snapshot, config PageRankConfig) []float64 {
	n := snap.N
	if n == 0 {
		return []float64{}
	}

	weight := func(u, v int) float64 {
		if u == v && !config.IncludeSelfLoops {
			return 0
		}
		return math.Max(snap.KappaAt(u, v), 0)
	}

	rowSum := make([]float64, n)
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			rowSum[u] += weight(u, v)
		}
	}

	d := config.DampingFactor
	nf := float64(n)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / nf
	}
	next := make([]float64, n)

	for iter := 0; iter < config.MaxIterations; iter++ {
		// Mass held by rows without outgoing weight is spread evenly.
		var dangling float64
		for u := 0; u < n; u++ {
			if rowSum[u] <= 0 {
				dangling += scores[u]
			}
		}

		maxDelta := 0.0
		for v := 0; v < n; v++ {
			sum := dangling / nf
			for u := 0; u < n; u++ {
				if rowSum[u] > 0 {
					sum += scores[u] * weight(u, v) / rowSum[u]
				}
			}
			next[v] = (1.0-d)/nf + d*sum
			maxDelta = math.Max(maxDelta, math.Abs(next[v]-scores[v]))
		}

		scores, next = next, scores

		if maxDelta < config.Tolerance {
			break
		}
	}

	// Normalize to [0, 1] by dividing by max score.
	maxScore := 0.0
	for _, score := range scores {
		maxScore = math.Max(maxScore, score)
	}
	if maxScore > 0 {
		for i := range scores {
			scores[i] /= maxScore
		}
	}

	return scores
}

// Top returns the index of the highest score, lowest index on ties, or -1
// for an empty slice.
func Top(scores []float64) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}
