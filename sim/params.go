package sim

import (
	"fmt"
	"math"
)

// ActorClass selects actor-dependent constants (training utilization rate).
type ActorClass string

const (
	// ClassLeader is the incumbent frontier actor ("US" in the default scenario).
	ClassLeader ActorClass = "leader"
	// ClassChallenger runs at lower hardware utilization ("China").
	ClassChallenger ActorClass = "challenger"
)

// Actor names used in series keys.
const (
	ActorUS    = "us"
	ActorChina = "china"
)

// FactorParams describes one resource factor for one actor.
//
// Units are the factor's natural unit: compute in millions of H100-equivalent
// units, capital in billions USD, talent in thousands of researchers, energy in TWh.
type FactorParams struct {
	Mean       float64 // arithmetic mean at year 0 (must be > 0)
	Std        float64 // trial dispersion at year 0 (must be > 0)
	GrowthRate float64 // fractional annual drift (0.5 = +50%/yr)
	Constraint float64 // ceiling as a fraction of 3x projected mean, in (0,1]
}

// Validate checks the sampler preconditions for a factor block.
func (f FactorParams) Validate(name string) error {
	if err := finitePositive(name+".mean", f.Mean); err != nil {
		return err
	}
	if err := finitePositive(name+".std", f.Std); err != nil {
		return err
	}
	if err := finiteAbove(name+".growth_rate", f.GrowthRate, -1); err != nil {
		return err
	}
	return unitInterval(name+".constraint", f.Constraint)
}

// ActorParams is the immutable parameter set for one actor.
type ActorParams struct {
	Name    string
	Class   ActorClass
	Compute FactorParams
	Capital FactorParams
	Talent  FactorParams
	Energy  FactorParams

	// EnergyModel selects how the energy factor evolves. Required.
	EnergyModel EnergyModel
}

// Validate returns an error wrapping ErrInvalidParameter for the first
// out-of-range field.
func (a ActorParams) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: actor name is empty", ErrInvalidParameter)
	}
	if a.Class != ClassLeader && a.Class != ClassChallenger {
		return fmt.Errorf("%w: %s: unknown actor class %q; valid: leader, challenger", ErrInvalidParameter, a.Name, a.Class)
	}
	for _, f := range []struct {
		name string
		p    FactorParams
	}{
		{"compute", a.Compute},
		{"capital", a.Capital},
		{"talent", a.Talent},
		{"energy", a.Energy},
	} {
		if err := f.p.Validate(f.name); err != nil {
			return fmt.Errorf("%s: %w", a.Name, err)
		}
	}
	if a.EnergyModel == nil {
		return fmt.Errorf("%w: %s: energy model is required", ErrInvalidParameter, a.Name)
	}
	if err := a.EnergyModel.Validate(); err != nil {
		return fmt.Errorf("%s: energy model %s: %w", a.Name, a.EnergyModel.Kind(), err)
	}
	return nil
}

// DefaultUSParams returns the research-based 2024-2025 defaults for the leader.
func DefaultUSParams() ActorParams {
	return ActorParams{
		Name:    ActorUS,
		Class:   ClassLeader,
		Compute: FactorParams{Mean: 3.5, Std: 0.4, GrowthRate: 0.50, Constraint: 0.95},
		Capital: FactorParams{Mean: 109.0, Std: 15.0, GrowthRate: 0.30, Constraint: 0.90},
		Talent:  FactorParams{Mean: 63.0, Std: 5.0, GrowthRate: 0.08, Constraint: 0.85},
		Energy:  FactorParams{Mean: 183.0, Std: 20.0, GrowthRate: 0.15, Constraint: 0.80},
		EnergyModel: GridSaturationEnergy{
			TotalGridEnergy:           4500,
			GridGrowthRate:            0.02,
			EfficiencyImprovementRate: -0.15,
			GridSaturationThreshold:   0.08,
		},
	}
}

// DefaultChinaParams returns the research-based 2024-2025 defaults for the challenger.
func DefaultChinaParams() ActorParams {
	return ActorParams{
		Name:    ActorChina,
		Class:   ClassChallenger,
		Compute: FactorParams{Mean: 0.6, Std: 0.15, GrowthRate: 0.35, Constraint: 0.45},
		Capital: FactorParams{Mean: 98.0, Std: 20.0, GrowthRate: 0.25, Constraint: 0.70},
		Talent:  FactorParams{Mean: 52.0, Std: 6.0, GrowthRate: 0.12, Constraint: 0.75},
		Energy:  FactorParams{Mean: 104.0, Std: 15.0, GrowthRate: 0.20, Constraint: 0.70},
		EnergyModel: GridSaturationEnergy{
			TotalGridEnergy:           8500,
			GridGrowthRate:            0.05,
			EfficiencyImprovementRate: -0.12,
			GridSaturationThreshold:   0.06,
		},
	}
}

func finitePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number, got %f", ErrInvalidParameter, name, v)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %f", ErrInvalidParameter, name, v)
	}
	return nil
}

// finiteAbove rejects rates at or below floor (a growth of -100% or less
// makes (1+g)^year non-positive).
func finiteAbove(name string, v, floor float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number, got %f", ErrInvalidParameter, name, v)
	}
	if v <= floor {
		return fmt.Errorf("%w: %s must be > %g, got %f", ErrInvalidParameter, name, floor, v)
	}
	return nil
}

func unitInterval(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in (0, 1], got %f", ErrInvalidParameter, name, v)
	}
	return nil
}
