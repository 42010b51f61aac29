package sim

import (
	"fmt"
	"math"
)

// Production-function exponents. They sum to 1.
const (
	WeightCompute = 0.40
	WeightCapital = 0.25
	WeightTalent  = 0.25
	WeightEnergy  = 0.10

	// pathDependency scales the log of prior progress in the carry-over multiplier.
	pathDependency = 0.1
)

// InitialProgress returns the progress array used as "previous" in year 0.
func InitialProgress(samples int) []float64 {
	return filled(samples, 1.0)
}

// CalculateProgress combines one year's factor arrays into the progress index:
//
//	compute^0.40 * capital^0.25 * talent^0.25 * energy^0.10 * (1 + 0.1*ln(1+prev))
//
// All factor values must be positive and finite. A zero factor would pin
// progress at zero for every later year, so it is reported, not clamped.
func CalculateProgress(compute, capital, talent, energy, prev []float64) ([]float64, error) {
	n := len(compute)
	if len(capital) != n || len(talent) != n || len(energy) != n || len(prev) != n {
		return nil, fmt.Errorf("%w: progress inputs differ in length (compute=%d capital=%d talent=%d energy=%d prev=%d)",
			ErrInvalidParameter, n, len(capital), len(talent), len(energy), len(prev))
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		c, k, t, e, p := compute[i], capital[i], talent[i], energy[i], prev[i]
		if !positiveFinite(c) || !positiveFinite(k) || !positiveFinite(t) || !positiveFinite(e) {
			return nil, fmt.Errorf("%w: trial %d has non-positive factor (compute=%g capital=%g talent=%g energy=%g)",
				ErrNumericDomain, i, c, k, t, e)
		}
		if !(p >= 0) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: trial %d has invalid previous progress %g", ErrNumericDomain, i, p)
		}
		v := math.Pow(c, WeightCompute) *
			math.Pow(k, WeightCapital) *
			math.Pow(t, WeightTalent) *
			math.Pow(e, WeightEnergy)
		v *= 1 + pathDependency*math.Log1p(p)
		if !positiveFinite(v) {
			return nil, fmt.Errorf("%w: trial %d progress evaluated to %g", ErrNumericDomain, i, v)
		}
		out[i] = v
	}
	return out, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
