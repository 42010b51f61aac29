// Package testutil provides shared assertion helpers for the sim test packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertPositiveFinite fails on the first value that is <= 0, NaN or Inf.
func AssertPositiveFinite(t *testing.T, name string, values []float64) {
	t.Helper()
	for i, v := range values {
		if !(v > 0) || math.IsInf(v, 0) {
			t.Errorf("%s[%d] = %v, want positive and finite", name, i, v)
			return
		}
	}
}

// Filled returns a slice of n copies of v.
func Filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
