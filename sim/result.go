package sim

import (
	"fmt"
	"sort"
)

// Quantity names; a series key is "<actor>_<quantity>".
const (
	QuantityProgress         = "progress"
	QuantityTrainingCapacity = "training_capacity"
	QuantityCompute          = "compute"
	QuantityCapital          = "capital"
	QuantityTalent           = "talent"
	QuantityEnergy           = "energy"
	QuantityEnergyAvailable  = "energy_available"
	QuantityEnergyRequired   = "energy_required"
	QuantityTotalGrid        = "total_grid"
)

// SeriesName returns the Run Result key for an (actor, quantity) pair.
func SeriesName(actor, quantity string) string {
	return actor + "_" + quantity
}

// TimeSeries holds one trial array per simulated year, in year order.
type TimeSeries [][]float64

// RunResult is the complete output of one engine run.
type RunResult struct {
	Years   int
	Samples int
	Series  map[string]TimeSeries
}

func newRunResult(years, samples int) *RunResult {
	return &RunResult{
		Years:   years,
		Samples: samples,
		Series:  make(map[string]TimeSeries),
	}
}

// appendYear adds this year's trial array to the named series. Years must be
// appended in order; a gap is a programming error.
func (r *RunResult) appendYear(name string, year int, values []float64) {
	ts := r.Series[name]
	if len(ts) != year {
		panic(fmt.Sprintf("series %q: appending year %d after %d years", name, year, len(ts)))
	}
	r.Series[name] = append(ts, values)
}

// Names returns the series keys in sorted order.
func (r *RunResult) Names() []string {
	names := make([]string, 0, len(r.Series))
	for k := range r.Series {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// FinalYear returns the last year's trial array for the named series, or nil
// if the series is absent or empty.
func (r *RunResult) FinalYear(name string) []float64 {
	ts := r.Series[name]
	if len(ts) == 0 {
		return nil
	}
	return ts[len(ts)-1]
}
