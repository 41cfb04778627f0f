package timer

import (
	"encoding/json"
	"fmt"
)

// AppContentReader defines the interface for reading content from the embedded file system.
type AppContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// PresetsFile is the embedded asset holding the built-in presets.
const PresetsFile = "assets/presets.json"

// Preset is a built-in, read-only instruction set.
type Preset struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`

	Instructions []Instruction `json:"-"`
}

// LoadPresets reads the preset definitions and resolves their steps with
// ParseSteps, so presets obey the same authoring rules as user input.
func LoadPresets(reader AppContentReader) ([]Preset, error) {
	data, err := reader.ReadFile(PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}

	var presets []Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("unmarshal presets: %w", err)
	}

	for i := range presets {
		l, err := ParseSteps(presets[i].Steps)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", presets[i].Name, err)
		}
		presets[i].Instructions = l.Instructions()
	}
	return presets, nil
}
