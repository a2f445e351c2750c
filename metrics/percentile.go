package metrics

import (
	"math"
	"sort"
)

// P95 computes the 95th percentile of samples using the nearest-rank
// method: sort ascending, take the sample at ceil(0.95*n)-1. Returns 0 for
// an empty input. samples is not mutated.
func P95(samples []int64) int64 {
	return percentile(samples, 0.95)
}

func percentile(samples []int64, p float64) int64 {
	n := len(samples)
	if n == 0 {
		return 0
	}

	sorted := make([]int64, n)
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rank := int(math.Ceil(p * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}
