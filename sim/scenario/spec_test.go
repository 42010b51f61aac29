package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontier-sim/frontier-sim/sim"
)

func TestBuiltin_AllPresetsValid(t *testing.T) {
	f, err := Builtin()
	require.NoError(t, err)

	assert.Contains(t, f.Names(), DefaultPreset)
	assert.NoError(t, f.Validate())
}

func TestBuiltin_EvidenceBasedMatchesEngineDefaults(t *testing.T) {
	// GIVEN the evidence-based preset
	f, err := Builtin()
	require.NoError(t, err)
	p, err := f.Preset(DefaultPreset)
	require.NoError(t, err)

	// WHEN converted to engine parameters
	us, china, err := p.ActorParams()
	require.NoError(t, err)

	// THEN they equal the compiled-in defaults
	assert.Equal(t, sim.DefaultUSParams(), us)
	assert.Equal(t, sim.DefaultChinaParams(), china)
}

func TestBuiltin_VariantsSelectedByType(t *testing.T) {
	f, err := Builtin()
	require.NoError(t, err)

	tests := map[string]string{
		"evidence-based": sim.EnergyGridSaturation,
		"two-phase":      sim.EnergyTwoPhase,
		"simple-growth":  sim.EnergySimpleGrowth,
	}
	for preset, kind := range tests {
		p, err := f.Preset(preset)
		require.NoError(t, err)
		us, china, err := p.ActorParams()
		require.NoError(t, err)
		assert.Equal(t, kind, us.EnergyModel.Kind(), preset)
		assert.Equal(t, kind, china.EnergyModel.Kind(), preset)
	}
}

func TestParse_RejectsUnknownField(t *testing.T) {
	// GIVEN a typo'd key ("growth" instead of "growth_rate")
	data := []byte(`
version: "1"
presets:
  p:
    us:
      compute: {mean: 1, std: 0.1, growth: 0.5, constraint: 1}
`)
	_, err := Parse(data)
	assert.Error(t, err)
}

func TestParse_RejectsUnsupportedVersionAndEmpty(t *testing.T) {
	_, err := Parse([]byte("version: \"9\"\npresets: {p: {}}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("version: \"1\"\n"))
	assert.Error(t, err)
}

func TestParse_RejectsNullPreset(t *testing.T) {
	// GIVEN a preset key with no body
	data := []byte("version: \"1\"\npresets:\n  empty:\n")

	// WHEN parsed
	var err error
	assert.NotPanics(t, func() { _, err = Parse(data) })

	// THEN it is reported as an invalid parameter naming the preset
	require.Error(t, err)
	assert.True(t, errors.Is(err, sim.ErrInvalidParameter), "got %v", err)
	assert.Contains(t, err.Error(), "empty")
}

func TestBuiltin_EqualStartingKeepsChinaChallenger(t *testing.T) {
	f, err := Builtin()
	require.NoError(t, err)
	p, err := f.Preset("equal-starting")
	require.NoError(t, err)

	us, china, err := p.ActorParams()
	require.NoError(t, err)

	// Factors match; only utilization class differs.
	assert.Equal(t, us.Compute, china.Compute)
	assert.Equal(t, sim.ClassLeader, us.Class)
	assert.Equal(t, sim.ClassChallenger, china.Class)
}

func TestPreset_Unknown(t *testing.T) {
	f, err := Builtin()
	require.NoError(t, err)
	_, err = f.Preset("does-not-exist")
	assert.Error(t, err)
}

func TestFactorSpec_StdFraction(t *testing.T) {
	got, err := FactorSpec{Mean: 200, StdFraction: 0.1, GrowthRate: 0.2, Constraint: 1}.toParams()
	require.NoError(t, err)
	assert.InDelta(t, 20, got.Std, 1e-12)

	_, err = FactorSpec{Mean: 200, Std: 5, StdFraction: 0.1, Constraint: 1}.toParams()
	assert.Error(t, err)
}

func TestNewEnergyModel_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec EnergyModelSpec
	}{
		{"unknown type", EnergyModelSpec{Type: "fusion"}},
		{"missing param", EnergyModelSpec{Type: sim.EnergyGridSaturation, Params: map[string]float64{"total_grid_energy": 100}}},
		{"param for another model", EnergyModelSpec{Type: sim.EnergyTwoPhase, Params: map[string]float64{
			"growth_unconstrained": 0.2, "growth_grid": 0.05, "total_generation": 4500, "grid_threshold": 0.08,
			"grid_growth_rate": 0.02,
		}}},
		{"half a taper", EnergyModelSpec{Type: sim.EnergySimpleGrowth, Params: map[string]float64{"taper_to": 0.06}}},
		{"fractional taper years", EnergyModelSpec{Type: sim.EnergySimpleGrowth, Params: map[string]float64{"taper_to": 0.06, "taper_years": 2.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEnergyModel(tt.spec)
			assert.True(t, errors.Is(err, sim.ErrInvalidParameter), "got %v", err)
		})
	}
}

func TestEnergyModelToSpec_Inverse(t *testing.T) {
	for _, m := range []sim.EnergyModel{
		sim.SimpleGrowthEnergy{},
		sim.SimpleGrowthEnergy{TaperTo: 0.06, TaperYears: 6},
		sim.TwoPhaseEnergy{GrowthUnconstrained: 0.18, GrowthGrid: 0.06, TotalGeneration: 4500, GridThreshold: 0.08},
		sim.DefaultUSParams().EnergyModel,
	} {
		got, err := NewEnergyModel(EnergyModelToSpec(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestLoad_FileWithInvalidPreset(t *testing.T) {
	// GIVEN a file that parses but has a non-positive mean
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: "1"
presets:
  broken:
    us:
      compute: {mean: 0, std: 0.1, growth_rate: 0.5, constraint: 1}
      capital: {mean: 1, std: 0.1, growth_rate: 0.1, constraint: 1}
      talent: {mean: 1, std: 0.1, growth_rate: 0.1, constraint: 1}
      energy: {mean: 1, std: 0.1, growth_rate: 0.1, constraint: 1}
      energy_model: {type: simple-growth}
    china:
      compute: {mean: 1, std: 0.1, growth_rate: 0.5, constraint: 1}
      capital: {mean: 1, std: 0.1, growth_rate: 0.1, constraint: 1}
      talent: {mean: 1, std: 0.1, growth_rate: 0.1, constraint: 1}
      energy: {mean: 1, std: 0.1, growth_rate: 0.1, constraint: 1}
      energy_model: {type: simple-growth}
`), 0o644))

	f, err := Load(path)
	require.NoError(t, err)

	// THEN validation names the preset and classifies the error
	err = f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.True(t, errors.Is(err, sim.ErrInvalidParameter), "got %v", err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
