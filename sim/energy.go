package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// Energy model kinds, as written in scenario files.
const (
	EnergySimpleGrowth   = "simple-growth"
	EnergyTwoPhase       = "two-phase"
	EnergyGridSaturation = "grid-saturation"
)

const (
	twoPhaseFloorFraction   = 0.80 // year-0 floor as a fraction of the energy mean
	twoPhaseHardCeiling     = 0.95 // hard cap as a fraction of total generation
	twoPhaseMinGrowth       = 1.01 // year-over-year floor multiplier
	twoPhaseExpansionNoise  = 0.02
	twoPhaseGridLimitNoise  = 0.015
	gridCapacityGrowthNoise = 0.005
)

// EnergyState is one year's energy arrays for one actor. Used is the energy
// consumed by the actor and feeds progress and training capacity. The other
// slices are nil when the model does not produce them.
type EnergyState struct {
	Used      []float64
	Available []float64
	Required  []float64
	TotalGrid []float64
}

// EnergyInput carries everything an EnergyModel may consume for one step.
type EnergyInput struct {
	RNG     *rand.Rand
	Year    int
	Samples int
	Energy  FactorParams
	Compute FactorParams

	// ComputeDraw is this year's compute array for the same actor.
	ComputeDraw []float64

	// Prev is last year's state, nil at year 0.
	Prev *EnergyState
}

// EnergyModel evolves an actor's energy availability year over year.
type EnergyModel interface {
	// Kind returns the scenario-file name of the model.
	Kind() string
	// Validate checks model-specific fields, wrapping ErrInvalidParameter.
	Validate() error
	// Step computes this year's energy state.
	Step(in EnergyInput) (EnergyState, error)
}

// === Simple growth ===

// SimpleGrowthEnergy samples energy like any other factor. When TaperYears is
// positive the base growth rate moves linearly from Energy.GrowthRate to
// TaperTo over TaperYears years and stays there.
type SimpleGrowthEnergy struct {
	TaperTo    float64
	TaperYears int
}

func (SimpleGrowthEnergy) Kind() string { return EnergySimpleGrowth }

func (m SimpleGrowthEnergy) Validate() error {
	if m.TaperYears < 0 {
		return fmt.Errorf("%w: taper_years must be non-negative, got %d", ErrInvalidParameter, m.TaperYears)
	}
	if m.TaperYears > 0 {
		return finiteAbove("taper_to", m.TaperTo, -1)
	}
	return nil
}

func (m SimpleGrowthEnergy) Step(in EnergyInput) (EnergyState, error) {
	used, err := sampleFactor(in.RNG, in.Energy, in.Year, in.Samples, m.growthAt(in.Energy.GrowthRate))
	if err != nil {
		return EnergyState{}, fmt.Errorf("energy: %w", err)
	}
	return EnergyState{Used: used}, nil
}

func (m SimpleGrowthEnergy) growthAt(initial float64) func(int) float64 {
	return func(year int) float64 {
		if m.TaperYears <= 0 {
			return initial
		}
		t := math.Min(1, float64(year)/float64(m.TaperYears))
		return initial*(1-t) + m.TaperTo*t
	}
}

// === Two-phase ===

// TwoPhaseEnergy grows energy at GrowthUnconstrained while a trial's previous
// level is under TotalGeneration*GridThreshold, and at GrowthGrid afterwards.
// Energy never exceeds 95% of total generation and never falls year over year.
type TwoPhaseEnergy struct {
	GrowthUnconstrained float64
	GrowthGrid          float64
	TotalGeneration     float64 // TWh/yr
	GridThreshold       float64 // fraction of total generation
}

func (TwoPhaseEnergy) Kind() string { return EnergyTwoPhase }

func (m TwoPhaseEnergy) Validate() error {
	if err := finiteAbove("growth_unconstrained", m.GrowthUnconstrained, -1); err != nil {
		return err
	}
	if err := finiteAbove("growth_grid", m.GrowthGrid, -1); err != nil {
		return err
	}
	if err := finitePositive("total_generation", m.TotalGeneration); err != nil {
		return err
	}
	return unitInterval("grid_threshold", m.GridThreshold)
}

func (m TwoPhaseEnergy) Step(in EnergyInput) (EnergyState, error) {
	ceiling := twoPhaseHardCeiling * m.TotalGeneration
	available := filled(in.Samples, ceiling)

	if in.Prev == nil {
		if in.Energy.Mean <= 0 || in.Energy.Std <= 0 {
			return EnergyState{}, fmt.Errorf("%w: energy mean and std must be positive", ErrInvalidParameter)
		}
		mu, sigma := LogNormalParams(in.Energy.Mean, in.Energy.Std)
		floor := twoPhaseFloorFraction * in.Energy.Mean
		used := make([]float64, in.Samples)
		for i := range used {
			used[i] = math.Max(math.Exp(mu+sigma*in.RNG.NormFloat64()), floor)
		}
		return EnergyState{Used: used, Available: available}, nil
	}

	if len(in.Prev.Used) != in.Samples {
		return EnergyState{}, fmt.Errorf("%w: previous energy has %d trials, want %d", ErrInvalidParameter, len(in.Prev.Used), in.Samples)
	}
	switchover := m.TotalGeneration * m.GridThreshold
	used := make([]float64, in.Samples)
	for i, prev := range in.Prev.Used {
		var g float64
		if prev < switchover {
			g = m.GrowthUnconstrained + in.RNG.NormFloat64()*twoPhaseExpansionNoise
		} else {
			g = m.GrowthGrid + in.RNG.NormFloat64()*twoPhaseGridLimitNoise
		}
		v := math.Min(prev*(1+g), ceiling)
		used[i] = math.Max(v, twoPhaseMinGrowth*prev)
	}
	return EnergyState{Used: used, Available: available}, nil
}

// === Grid saturation ===

// GridSaturationEnergy derives energy from compute demand. The grid grows
// stochastically, the actor may use at most GridSaturationThreshold of it,
// and each unit of compute needs EnergyPerCompute TWh.
//
// EfficiencyImprovementRate is the fractional annual change in energy per
// unit of compute: negative values mean hardware gets more efficient
// (-0.15 = 15% less energy per unit each year).
type GridSaturationEnergy struct {
	TotalGridEnergy           float64 // TWh/yr at year 0
	GridGrowthRate            float64
	EfficiencyImprovementRate float64
	GridSaturationThreshold   float64
}

func (GridSaturationEnergy) Kind() string { return EnergyGridSaturation }

func (m GridSaturationEnergy) Validate() error {
	if err := finitePositive("total_grid_energy", m.TotalGridEnergy); err != nil {
		return err
	}
	if err := finiteAbove("grid_growth_rate", m.GridGrowthRate, -1); err != nil {
		return err
	}
	if err := finiteAbove("efficiency_improvement_rate", m.EfficiencyImprovementRate, -1); err != nil {
		return err
	}
	return unitInterval("grid_saturation_threshold", m.GridSaturationThreshold)
}

// EnergyPerCompute returns TWh per compute unit in the given year, starting
// from the year-0 ratio energyMean/computeMean.
func (m GridSaturationEnergy) EnergyPerCompute(energyMean, computeMean float64, year int) float64 {
	return energyMean / computeMean * math.Pow(1+m.EfficiencyImprovementRate, float64(year))
}

func (m GridSaturationEnergy) Step(in EnergyInput) (EnergyState, error) {
	if len(in.ComputeDraw) != in.Samples {
		return EnergyState{}, fmt.Errorf("%w: grid-saturation energy needs %d compute trials, got %d", ErrInvalidParameter, in.Samples, len(in.ComputeDraw))
	}
	if in.Compute.Mean <= 0 || in.Energy.Mean <= 0 {
		return EnergyState{}, fmt.Errorf("%w: energy and compute means must be positive", ErrInvalidParameter)
	}
	ratio := m.EnergyPerCompute(in.Energy.Mean, in.Compute.Mean, in.Year)

	st := EnergyState{
		Used:      make([]float64, in.Samples),
		Available: make([]float64, in.Samples),
		Required:  make([]float64, in.Samples),
		TotalGrid: make([]float64, in.Samples),
	}
	for i := 0; i < in.Samples; i++ {
		g := m.GridGrowthRate + in.RNG.NormFloat64()*gridCapacityGrowthNoise
		st.TotalGrid[i] = m.TotalGridEnergy * math.Pow(1+g, float64(in.Year))
		st.Required[i], st.Available[i], st.Used[i] = GridBalance(in.ComputeDraw[i], ratio, st.TotalGrid[i], m.GridSaturationThreshold)
	}
	return st, nil
}

// GridBalance computes one trial's energy balance: the energy compute
// requires, the share of the grid available to the actor, and the energy
// actually used (the smaller of the two).
func GridBalance(compute, twhPerCompute, totalGrid, threshold float64) (required, available, used float64) {
	required = compute * twhPerCompute
	available = totalGrid * threshold
	return required, available, math.Min(required, available)
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
