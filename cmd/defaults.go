package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frontier-sim/frontier-sim/sim"
	"github.com/frontier-sim/frontier-sim/sim/scenario"
)

var engineDefaults bool // Print the engine's compiled-in parameter sets instead of a preset

// defaultsCmd prints a preset (or the engine defaults) as scenario YAML, ready
// to be edited and passed back via --scenario.
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print default parameters as scenario YAML",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := defaultsFile(engineDefaults, scenarioPath, presetName)
		if err != nil {
			logrus.Fatalf("Loading defaults: %v", err)
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			logrus.Fatalf("Encoding defaults: %v", err)
		}
		if err := enc.Close(); err != nil {
			logrus.Fatalf("Encoding defaults: %v", err)
		}
	},
}

// defaultsFile builds a single-preset scenario file from either the engine
// defaults or a named preset.
func defaultsFile(fromEngine bool, path, name string) (*scenario.File, error) {
	if fromEngine {
		return &scenario.File{
			Version: "1",
			Presets: map[string]*scenario.Preset{
				"engine-defaults": {
					Description: "Compiled-in engine defaults",
					US:          scenario.FromActorParams(sim.DefaultUSParams()),
					China:       scenario.FromActorParams(sim.DefaultChinaParams()),
				},
			},
		}, nil
	}
	f, err := loadScenario(path)
	if err != nil {
		return nil, err
	}
	resolved, p, err := resolvePreset(f, name)
	if err != nil {
		return nil, err
	}
	return &scenario.File{Version: f.Version, Presets: map[string]*scenario.Preset{resolved: p}}, nil
}

func init() {
	defaultsCmd.Flags().BoolVar(&engineDefaults, "engine", false, "Print the engine's compiled-in defaults")
}
