package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frontier-sim/frontier-sim/sim"
	"github.com/frontier-sim/frontier-sim/sim/scenario"
	"github.com/frontier-sim/frontier-sim/sim/stats"
)

// runOptions carries resolved CLI inputs. Zero Years/Samples defer to the
// preset, then to the package defaults.
type runOptions struct {
	ScenarioPath string
	Preset       string
	Years        int
	Samples      int
	Seed         int64
	MaxWork      int64
	IncludeRaw   bool
}

// report is the JSON document printed by `run`.
type report struct {
	Preset   string                         `json:"preset"`
	Seed     int64                          `json:"seed"`
	Years    int                            `json:"years"`
	Samples  int                            `json:"samples"`
	Stats    map[string]stats.SeriesSummary `json:"stats"`
	Metrics  stats.Comparison               `json:"metrics"`
	Raw      map[string]sim.TimeSeries      `json:"raw,omitempty"`
	Duration float64                        `json:"simulation_duration_s"`
}

// loadScenario returns the scenario file named by path, or the builtin
// presets when path is empty.
func loadScenario(path string) (*scenario.File, error) {
	if path == "" {
		return scenario.Builtin()
	}
	return scenario.Load(path)
}

// resolvePreset picks the requested preset; with no name it falls back to
// the default preset, or to the only preset of a single-preset file.
func resolvePreset(f *scenario.File, name string) (string, *scenario.Preset, error) {
	if name == "" {
		name = scenario.DefaultPreset
		if names := f.Names(); len(names) == 1 {
			name = names[0]
		}
	}
	p, err := f.Preset(name)
	return name, p, err
}

func simulate(opts runOptions) (*report, error) {
	f, err := loadScenario(opts.ScenarioPath)
	if err != nil {
		return nil, err
	}
	name, preset, err := resolvePreset(f, opts.Preset)
	if err != nil {
		return nil, err
	}
	us, china, err := preset.ActorParams()
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}

	cfg := sim.SimConfig{
		US:      us,
		China:   china,
		Years:   firstPositive(opts.Years, preset.Years, defaultYears),
		Samples: firstPositive(opts.Samples, preset.Samples, defaultSamples),
		Seed:    opts.Seed,
		MaxWork: opts.MaxWork,
	}
	logrus.Infof("Preset %s: %d years, %d samples, seed %d", name, cfg.Years, cfg.Samples, cfg.Seed)

	start := time.Now()
	s, err := sim.NewSimulator(cfg)
	if err != nil {
		return nil, err
	}
	res, err := s.Run()
	if err != nil {
		return nil, err
	}
	cmp, err := stats.Compare(res, us.Name, china.Name)
	if err != nil {
		return nil, err
	}

	rep := &report{
		Preset:   name,
		Seed:     cfg.Seed,
		Years:    res.Years,
		Samples:  res.Samples,
		Stats:    stats.Summarize(res),
		Metrics:  cmp,
		Duration: time.Since(start).Seconds(),
	}
	if opts.IncludeRaw {
		rep.Raw = res.Series
	}
	return rep, nil
}

func writeReport(w io.Writer, rep *report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
