package dynamics

import (
	"cmp"
	"math"
	"slices"
)

// relaxCount returns how many edges a jump relaxes: round(q·M), at least 1
// and at most M.
func relaxCount(q float64, m int) int {
	x := math.Round(q * float64(m))
	if x >= float64(m) {
		return m
	}
	if !(x >= 1) {
		return 1
	}
	return int(x)
}

// topByMagnitude orders the flat indices of flow by descending |flow| into
// order (len(order) == len(flow)) and returns the first qn. Equal magnitudes
// keep lowest flat index first.
func topByMagnitude(flow []float64, qn int, order []int) []int {
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(math.Abs(flow[b]), math.Abs(flow[a]))
	})
	return order[:qn]
}

// relax lowers kappa by epsRelax on the top-q fraction of edges by |flow|,
// never below kappaMin. order is scratch space the size of flow. It returns
// the relaxed flat indices, a view into order.
func relax(kappa, flow []float64, q, epsRelax, kappaMin float64, order []int) []int {
	if len(flow) == 0 {
		return nil
	}
	selected := topByMagnitude(flow, relaxCount(q, len(flow)), order)
	for _, pos := range selected {
		kappa[pos] = atLeast(kappa[pos]-epsRelax, kappaMin)
	}
	return selected
}
