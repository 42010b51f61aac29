// Package scenario loads actor parameter sets from YAML scenario files and
// converts them into sim.ActorParams.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/frontier-sim/frontier-sim/sim"
)

// File is the top-level scenario file: a set of named presets.
type File struct {
	Version string             `yaml:"version"`
	Presets map[string]*Preset `yaml:"presets"`
}

// Preset describes one matchup between the two actors.
type Preset struct {
	Description string    `yaml:"description,omitempty"`
	Years       int       `yaml:"years,omitempty"`   // 0 = caller default
	Samples     int       `yaml:"samples,omitempty"` // 0 = caller default
	US          ActorSpec `yaml:"us"`
	China       ActorSpec `yaml:"china"`
}

// ActorSpec is the YAML form of sim.ActorParams.
type ActorSpec struct {
	Class       string          `yaml:"class"`
	Compute     FactorSpec      `yaml:"compute"`
	Capital     FactorSpec      `yaml:"capital"`
	Talent      FactorSpec      `yaml:"talent"`
	Energy      FactorSpec      `yaml:"energy"`
	EnergyModel EnergyModelSpec `yaml:"energy_model"`
}

// FactorSpec is the YAML form of sim.FactorParams. Exactly one of Std and
// StdFraction may be set; StdFraction expresses std as a fraction of mean.
type FactorSpec struct {
	Mean        float64 `yaml:"mean"`
	Std         float64 `yaml:"std,omitempty"`
	StdFraction float64 `yaml:"std_fraction,omitempty"`
	GrowthRate  float64 `yaml:"growth_rate"`
	Constraint  float64 `yaml:"constraint"`
}

// EnergyModelSpec selects an energy model by type and parameterizes it.
type EnergyModelSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// Load reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes scenario YAML with strict field checking.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if f.Version == "" {
		logrus.Warnf("scenario file has no version; assuming %q", currentVersion)
		f.Version = currentVersion
	}
	if f.Version != currentVersion {
		return nil, fmt.Errorf("unsupported scenario version %q; want %q", f.Version, currentVersion)
	}
	if len(f.Presets) == 0 {
		return nil, fmt.Errorf("scenario defines no presets")
	}
	for _, name := range f.Names() {
		if f.Presets[name] == nil {
			return nil, fmt.Errorf("%w: preset %q is empty", sim.ErrInvalidParameter, name)
		}
	}
	return &f, nil
}

const currentVersion = "1"

// Names returns the preset names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Presets))
	for k := range f.Presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Preset returns the named preset.
func (f *File) Preset(name string) (*Preset, error) {
	p, ok := f.Presets[name]
	if !ok || p == nil {
		return nil, fmt.Errorf("unknown preset %q; available: %v", name, f.Names())
	}
	return p, nil
}

// Validate converts every preset and checks it against the engine's
// parameter rules. Errors name the offending preset.
func (f *File) Validate() error {
	for _, name := range f.Names() {
		if _, _, err := f.Presets[name].ActorParams(); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return nil
}

// ActorParams converts the preset to validated engine parameter sets.
func (p *Preset) ActorParams() (us, china sim.ActorParams, err error) {
	if us, err = p.US.toParams(sim.ActorUS, sim.ClassLeader); err != nil {
		return us, china, err
	}
	if china, err = p.China.toParams(sim.ActorChina, sim.ClassChallenger); err != nil {
		return us, china, err
	}
	return us, china, nil
}

func (a ActorSpec) toParams(name string, defaultClass sim.ActorClass) (sim.ActorParams, error) {
	class := defaultClass
	if a.Class != "" {
		class = sim.ActorClass(a.Class)
	}
	model, err := NewEnergyModel(a.EnergyModel)
	if err != nil {
		return sim.ActorParams{}, fmt.Errorf("%s: %w", name, err)
	}
	out := sim.ActorParams{Name: name, Class: class, EnergyModel: model}
	for _, f := range []struct {
		label string
		spec  FactorSpec
		dst   *sim.FactorParams
	}{
		{"compute", a.Compute, &out.Compute},
		{"capital", a.Capital, &out.Capital},
		{"talent", a.Talent, &out.Talent},
		{"energy", a.Energy, &out.Energy},
	} {
		fp, err := f.spec.toParams()
		if err != nil {
			return sim.ActorParams{}, fmt.Errorf("%w: %s.%s: %v", sim.ErrInvalidParameter, name, f.label, err)
		}
		*f.dst = fp
	}
	if err := out.Validate(); err != nil {
		return sim.ActorParams{}, err
	}
	return out, nil
}

func (f FactorSpec) toParams() (sim.FactorParams, error) {
	std := f.Std
	switch {
	case f.Std != 0 && f.StdFraction != 0:
		return sim.FactorParams{}, fmt.Errorf("std and std_fraction are mutually exclusive")
	case f.StdFraction != 0:
		std = f.Mean * f.StdFraction
	}
	return sim.FactorParams{
		Mean:       f.Mean,
		Std:        std,
		GrowthRate: f.GrowthRate,
		Constraint: f.Constraint,
	}, nil
}

// FromActorParams renders engine parameters back into YAML form.
func FromActorParams(p sim.ActorParams) ActorSpec {
	return ActorSpec{
		Class:       string(p.Class),
		Compute:     fromFactor(p.Compute),
		Capital:     fromFactor(p.Capital),
		Talent:      fromFactor(p.Talent),
		Energy:      fromFactor(p.Energy),
		EnergyModel: EnergyModelToSpec(p.EnergyModel),
	}
}

func fromFactor(f sim.FactorParams) FactorSpec {
	return FactorSpec{Mean: f.Mean, Std: f.Std, GrowthRate: f.GrowthRate, Constraint: f.Constraint}
}
