package sim

import (
	"fmt"
	"math"
)

// Training-capacity constants. Compute inputs are in millions of
// H100-equivalent units; energy inputs are in TWh/yr.
const (
	UtilizationLeader     = 0.40
	UtilizationChallenger = 0.35

	unitsPerCompute  = 1e6     // compute is reported in millions of units
	flopsPerUnit     = 1e15    // effective FLOP/s per H100-equivalent
	secondsPerYear   = 3.15e7
	wattsPerUnitTW   = 350e-12 // 350 W expressed in TW
	hoursPerYear     = 8760
	trainingFraction = 0.4  // share of datacenter energy spent on training
	yotta            = 1e24 // output normalization: yotta-FLOP-years
)

// Utilization returns the sustained hardware utilization for the class.
func (c ActorClass) Utilization() float64 {
	if c == ClassChallenger {
		return UtilizationChallenger
	}
	return UtilizationLeader
}

// TrainingCapacity converts compute and energy arrays into energy-bounded
// training throughput in yotta-FLOP-years per trial.
//
// Theoretical throughput is scaled by min(1, available/required), where
// available is the training share of energy and required is what the fleet
// draws at the class utilization. A trial with zero compute has zero capacity.
func TrainingCapacity(compute, energy []float64, class ActorClass) ([]float64, error) {
	if len(compute) != len(energy) {
		return nil, fmt.Errorf("%w: compute has %d trials, energy has %d", ErrInvalidParameter, len(compute), len(energy))
	}
	util := class.Utilization()

	out := make([]float64, len(compute))
	for i, c := range compute {
		units := c * unitsPerCompute
		theoretical := units * util * flopsPerUnit * secondsPerYear
		required := units * wattsPerUnitTW * util * hoursPerYear
		if required <= 0 {
			out[i] = 0
			continue
		}
		available := energy[i] * trainingFraction
		out[i] = theoretical * math.Min(1, available/required) / yotta
	}
	return out, nil
}
