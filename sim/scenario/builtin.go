package scenario

import (
	_ "embed"
	"fmt"
)

// DefaultPreset is the preset used when none is named.
const DefaultPreset = "evidence-based"

//go:embed presets.yaml
var builtinPresets []byte

// Builtin returns the presets compiled into the binary.
func Builtin() (*File, error) {
	f, err := Parse(builtinPresets)
	if err != nil {
		return nil, fmt.Errorf("builtin presets: %w", err)
	}
	return f, nil
}
