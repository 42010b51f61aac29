package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/frontier-sim/frontier-sim/sim/internal/testutil"
)

func TestGridBalance_DemandUnderCap(t *testing.T) {
	// GIVEN a 200 TWh grid, 50% usable, and 10 units needing 0.1 TWh each
	required, available, used := GridBalance(10, 0.1, 200, 0.5)

	// THEN demand is met in full
	assert.InDelta(t, 1.0, required, 1e-12)
	assert.InDelta(t, 100.0, available, 1e-12)
	assert.InDelta(t, 1.0, used, 1e-12)
}

func TestGridBalance_DemandOverCap(t *testing.T) {
	// GIVEN the same grid but 2000 units of compute
	required, available, used := GridBalance(2000, 0.1, 200, 0.5)

	// THEN usage is capped at the available share
	assert.InDelta(t, 200.0, required, 1e-9)
	assert.InDelta(t, 100.0, available, 1e-12)
	assert.InDelta(t, 100.0, used, 1e-12)
	assert.Less(t, used/required, 1.0)
}

func TestGridSaturation_EfficiencySignContract(t *testing.T) {
	// Negative EfficiencyImprovementRate means less energy per compute unit over time.
	improving := GridSaturationEnergy{EfficiencyImprovementRate: -0.15}
	worsening := GridSaturationEnergy{EfficiencyImprovementRate: 0.05}

	base := improving.EnergyPerCompute(183, 3.5, 0)
	testutil.AssertFloat64Equal(t, "year-0 ratio", 183/3.5, base, 1e-12)

	assert.Less(t, improving.EnergyPerCompute(183, 3.5, 5), base)
	assert.Greater(t, worsening.EnergyPerCompute(183, 3.5, 5), base)
	testutil.AssertFloat64Equal(t, "year-3 ratio", base*0.85*0.85*0.85, improving.EnergyPerCompute(183, 3.5, 3), 1e-12)
}

func TestGridSaturation_NeverExceedsAvailableShare(t *testing.T) {
	// GIVEN the US defaults with a small grid so demand outruns supply
	p := DefaultUSParams()
	model := GridSaturationEnergy{
		TotalGridEnergy:           1500,
		GridGrowthRate:            0.02,
		EfficiencyImprovementRate: -0.05,
		GridSaturationThreshold:   0.1,
	}
	streams := NewPartitionedRNG(NewSimulationKey(5)).ForActor(p.Name)
	capped := 0

	for year := 0; year < 10; year++ {
		compute, err := SampleFactor(streams.Compute, p.Compute, year, 500)
		require.NoError(t, err)
		st, err := model.Step(EnergyInput{
			RNG: streams.Energy, Year: year, Samples: 500,
			Energy: p.Energy, Compute: p.Compute, ComputeDraw: compute,
		})
		require.NoError(t, err)

		ratio := model.EnergyPerCompute(p.Energy.Mean, p.Compute.Mean, year)
		for i := range st.Used {
			// THEN used never exceeds the actor's share of that trial's grid
			assert.LessOrEqual(t, st.Used[i], st.TotalGrid[i]*model.GridSaturationThreshold)
			assert.InDelta(t, st.Available[i], st.TotalGrid[i]*model.GridSaturationThreshold, 1e-9)
			assert.InDelta(t, compute[i]*ratio, st.Required[i], 1e-9)
			if st.Used[i] < st.Required[i] {
				capped++
			}
		}
	}
	// AND the capacity-bound case actually occurs
	assert.Positive(t, capped)
}

func TestGridSaturation_YearZeroGridIsExact(t *testing.T) {
	model := DefaultChinaParams().EnergyModel.(GridSaturationEnergy)
	st, err := model.Step(EnergyInput{
		RNG: rand.New(rand.NewSource(1)), Year: 0, Samples: 3,
		Energy: DefaultChinaParams().Energy, Compute: DefaultChinaParams().Compute,
		ComputeDraw: []float64{0.5, 0.6, 0.7},
	})
	require.NoError(t, err)
	assert.Equal(t, testutil.Filled(3, 8500), st.TotalGrid)
}

func TestGridSaturation_ComputeLengthMismatch(t *testing.T) {
	p := DefaultUSParams()
	_, err := p.EnergyModel.Step(EnergyInput{
		RNG: rand.New(rand.NewSource(1)), Year: 0, Samples: 4,
		Energy: p.Energy, Compute: p.Compute, ComputeDraw: []float64{1, 2},
	})
	assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)
}

func twoPhaseRun(t *testing.T, m TwoPhaseEnergy, energy FactorParams, years, samples int) []EnergyState {
	t.Helper()
	rng := rand.New(rand.NewSource(11))
	var prev *EnergyState
	var out []EnergyState
	for year := 0; year < years; year++ {
		st, err := m.Step(EnergyInput{RNG: rng, Year: year, Samples: samples, Energy: energy, Prev: prev})
		require.NoError(t, err)
		out = append(out, st)
		prev = &out[len(out)-1]
	}
	return out
}

func TestTwoPhase_MonotonicPerTrial(t *testing.T) {
	// GIVEN a grid small enough that trials hit the threshold and the hard ceiling
	m := TwoPhaseEnergy{GrowthUnconstrained: 0.25, GrowthGrid: 0.03, TotalGeneration: 600, GridThreshold: 0.5}
	energy := FactorParams{Mean: 183, Std: 20, GrowthRate: 0.25, Constraint: 1}

	runs := twoPhaseRun(t, m, energy, 12, 400)

	for year := 1; year < len(runs); year++ {
		for i := range runs[year].Used {
			prev, cur := runs[year-1].Used[i], runs[year].Used[i]
			// THEN energy never decreases and grows at least 1%
			if cur < prev*1.01-1e-9 {
				t.Fatalf("year %d trial %d: %v < 1.01*%v", year, i, cur, prev)
			}
			// AND stays under the hard ceiling unless the 1% floor forces it above
			if prev*1.01 <= 0.95*m.TotalGeneration && cur > 0.95*m.TotalGeneration+1e-9 {
				t.Fatalf("year %d trial %d: %v above ceiling", year, i, cur)
			}
		}
	}
}

func TestTwoPhase_YearZeroFloor(t *testing.T) {
	// GIVEN a very wide year-0 distribution
	m := TwoPhaseEnergy{GrowthUnconstrained: 0.2, GrowthGrid: 0.05, TotalGeneration: 5000, GridThreshold: 0.1}
	energy := FactorParams{Mean: 100, Std: 80, GrowthRate: 0.2, Constraint: 1}

	st := twoPhaseRun(t, m, energy, 1, 2000)[0]

	// THEN no trial falls under 80% of the mean
	for _, v := range st.Used {
		assert.GreaterOrEqual(t, v, 80.0)
	}
	assert.Equal(t, testutil.Filled(2000, 0.95*5000), st.Available)
}

func TestTwoPhase_PhaseSwitchOnPreviousLevel(t *testing.T) {
	m := TwoPhaseEnergy{GrowthUnconstrained: 0.5, GrowthGrid: 0.0, TotalGeneration: 10000, GridThreshold: 0.1}
	step := func(prevLevel float64) []float64 {
		prev := &EnergyState{Used: testutil.Filled(1000, prevLevel)}
		st, err := m.Step(EnergyInput{RNG: rand.New(rand.NewSource(2)), Year: 1, Samples: 1000, Prev: prev})
		require.NoError(t, err)
		return st.Used
	}

	// GIVEN trials under the 1000 TWh switchover THEN they grow ~50%
	below := step(500)
	assert.InDelta(t, 750, stat.Mean(below, nil), 5)

	// GIVEN trials over the switchover THEN grid growth (0%) is lifted to the 1% floor
	above := step(2000)
	assert.InDelta(t, 2025, stat.Mean(above, nil), 5)
	for _, v := range above {
		assert.GreaterOrEqual(t, v, 2020.0-1e-9)
	}
}

func TestSimpleGrowth_TaperSchedule(t *testing.T) {
	m := SimpleGrowthEnergy{TaperTo: 0.06, TaperYears: 6}
	g := m.growthAt(0.18)

	assert.InDelta(t, 0.18, g(0), 1e-12)
	assert.InDelta(t, 0.12, g(3), 1e-12)
	assert.InDelta(t, 0.06, g(6), 1e-12)
	assert.InDelta(t, 0.06, g(10), 1e-12)

	flat := SimpleGrowthEnergy{}.growthAt(0.18)
	assert.Equal(t, 0.18, flat(9))
}

func TestSimpleGrowth_MatchesFactorSamplerWithoutTaper(t *testing.T) {
	energy := DefaultUSParams().Energy
	st, err := SimpleGrowthEnergy{}.Step(EnergyInput{RNG: rand.New(rand.NewSource(8)), Year: 4, Samples: 50, Energy: energy})
	require.NoError(t, err)
	want, err := SampleFactor(rand.New(rand.NewSource(8)), energy, 4, 50)
	require.NoError(t, err)

	assert.Equal(t, want, st.Used)
	assert.Nil(t, st.Available)
	assert.Nil(t, st.TotalGrid)
}

func TestEnergyModel_Validate(t *testing.T) {
	tests := []struct {
		name  string
		model EnergyModel
		ok    bool
	}{
		{"grid defaults", DefaultUSParams().EnergyModel, true},
		{"grid zero total", GridSaturationEnergy{TotalGridEnergy: 0, GridSaturationThreshold: 0.5}, false},
		{"grid threshold above one", GridSaturationEnergy{TotalGridEnergy: 100, GridSaturationThreshold: 1.5}, false},
		{"grid efficiency collapse", GridSaturationEnergy{TotalGridEnergy: 100, GridSaturationThreshold: 0.5, EfficiencyImprovementRate: -1}, false},
		{"two-phase ok", TwoPhaseEnergy{GrowthUnconstrained: 0.2, GrowthGrid: 0.05, TotalGeneration: 4500, GridThreshold: 0.08}, true},
		{"two-phase zero threshold", TwoPhaseEnergy{GrowthUnconstrained: 0.2, GrowthGrid: 0.05, TotalGeneration: 4500}, false},
		{"simple no taper", SimpleGrowthEnergy{}, true},
		{"simple negative taper years", SimpleGrowthEnergy{TaperYears: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)
			}
		})
	}
}
