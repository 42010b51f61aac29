package scenario

import (
	"fmt"
	"math"

	"github.com/frontier-sim/frontier-sim/sim"
)

// Energy model parameter keys.
const (
	paramTaperTo                   = "taper_to"
	paramTaperYears                = "taper_years"
	paramGrowthUnconstrained       = "growth_unconstrained"
	paramGrowthGrid                = "growth_grid"
	paramTotalGeneration           = "total_generation"
	paramGridThreshold             = "grid_threshold"
	paramTotalGridEnergy           = "total_grid_energy"
	paramGridGrowthRate            = "grid_growth_rate"
	paramEfficiencyImprovementRate = "efficiency_improvement_rate"
	paramGridSaturationThreshold   = "grid_saturation_threshold"
)

var energyParamKeys = map[string][]string{
	sim.EnergySimpleGrowth: {paramTaperTo, paramTaperYears},
	sim.EnergyTwoPhase:     {paramGrowthUnconstrained, paramGrowthGrid, paramTotalGeneration, paramGridThreshold},
	sim.EnergyGridSaturation: {
		paramTotalGridEnergy, paramGridGrowthRate, paramEfficiencyImprovementRate, paramGridSaturationThreshold,
	},
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("%w: energy model requires parameter %q", sim.ErrInvalidParameter, k)
		}
	}
	return nil
}

// rejectUnknown flags keys that belong to no field of the chosen model,
// which usually means a typo or a parameter meant for another model.
func rejectUnknown(kind string, params map[string]float64) error {
	allowed := energyParamKeys[kind]
	for k := range params {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: energy model %s does not take parameter %q; valid: %v", sim.ErrInvalidParameter, kind, k, allowed)
		}
	}
	return nil
}

// NewEnergyModel creates a sim.EnergyModel from its YAML spec.
func NewEnergyModel(spec EnergyModelSpec) (sim.EnergyModel, error) {
	if _, ok := energyParamKeys[spec.Type]; !ok {
		return nil, fmt.Errorf("%w: unknown energy model type %q; valid: %s, %s, %s",
			sim.ErrInvalidParameter, spec.Type, sim.EnergySimpleGrowth, sim.EnergyTwoPhase, sim.EnergyGridSaturation)
	}
	if err := rejectUnknown(spec.Type, spec.Params); err != nil {
		return nil, err
	}

	switch spec.Type {
	case sim.EnergySimpleGrowth:
		// Taper is optional: both keys or neither.
		if len(spec.Params) == 0 {
			return sim.SimpleGrowthEnergy{}, nil
		}
		if err := requireParam(spec.Params, paramTaperTo, paramTaperYears); err != nil {
			return nil, err
		}
		if ty := spec.Params[paramTaperYears]; ty != math.Trunc(ty) || math.IsInf(ty, 0) {
			return nil, fmt.Errorf("%w: %s must be a whole number of years, got %g",
				sim.ErrInvalidParameter, paramTaperYears, ty)
		}
		return sim.SimpleGrowthEnergy{
			TaperTo:    spec.Params[paramTaperTo],
			TaperYears: int(spec.Params[paramTaperYears]),
		}, nil

	case sim.EnergyTwoPhase:
		if err := requireParam(spec.Params, energyParamKeys[sim.EnergyTwoPhase]...); err != nil {
			return nil, err
		}
		return sim.TwoPhaseEnergy{
			GrowthUnconstrained: spec.Params[paramGrowthUnconstrained],
			GrowthGrid:          spec.Params[paramGrowthGrid],
			TotalGeneration:     spec.Params[paramTotalGeneration],
			GridThreshold:       spec.Params[paramGridThreshold],
		}, nil

	default:
		if err := requireParam(spec.Params, energyParamKeys[sim.EnergyGridSaturation]...); err != nil {
			return nil, err
		}
		return sim.GridSaturationEnergy{
			TotalGridEnergy:           spec.Params[paramTotalGridEnergy],
			GridGrowthRate:            spec.Params[paramGridGrowthRate],
			EfficiencyImprovementRate: spec.Params[paramEfficiencyImprovementRate],
			GridSaturationThreshold:   spec.Params[paramGridSaturationThreshold],
		}, nil
	}
}

// EnergyModelToSpec is the inverse of NewEnergyModel.
func EnergyModelToSpec(m sim.EnergyModel) EnergyModelSpec {
	switch v := m.(type) {
	case sim.SimpleGrowthEnergy:
		spec := EnergyModelSpec{Type: sim.EnergySimpleGrowth}
		if v.TaperYears > 0 {
			spec.Params = map[string]float64{paramTaperTo: v.TaperTo, paramTaperYears: float64(v.TaperYears)}
		}
		return spec
	case sim.TwoPhaseEnergy:
		return EnergyModelSpec{Type: sim.EnergyTwoPhase, Params: map[string]float64{
			paramGrowthUnconstrained: v.GrowthUnconstrained,
			paramGrowthGrid:          v.GrowthGrid,
			paramTotalGeneration:     v.TotalGeneration,
			paramGridThreshold:       v.GridThreshold,
		}}
	case sim.GridSaturationEnergy:
		return EnergyModelSpec{Type: sim.EnergyGridSaturation, Params: map[string]float64{
			paramTotalGridEnergy:           v.TotalGridEnergy,
			paramGridGrowthRate:            v.GridGrowthRate,
			paramEfficiencyImprovementRate: v.EfficiencyImprovementRate,
			paramGridSaturationThreshold:   v.GridSaturationThreshold,
		}}
	default:
		return EnergyModelSpec{}
	}
}
