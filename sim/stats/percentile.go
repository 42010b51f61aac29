package stats

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (0..100) of sorted data, linearly
// interpolating between the two closest ranks. data must be sorted ascending
// and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))

	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	if upperIdx >= n {
		return sorted[n-1]
	}
	lowerVal, upperVal := sorted[lowerIdx], sorted[upperIdx]
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}

// sortedCopy returns an ascending copy, leaving the trial order of the
// input intact.
func sortedCopy(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	sort.Float64s(out)
	return out
}
