package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// validateCmd strict-parses a scenario file and checks every preset against
// the engine's parameter rules without running anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := loadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Loading scenario: %v", err)
		}
		if err := f.Validate(); err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}
		fmt.Printf("OK: %d presets (%v)\n", len(f.Presets), f.Names())
	},
}
