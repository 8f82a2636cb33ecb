package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

// PresetPath returns the preset store that lives next to the config file.
func PresetPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "presets.json")
}

// SavePresets writes the preset store.
func SavePresets(path string, store model.PresetStore) error {
	return WriteFile(path, store)
}

// LoadPresets reads a preset store. If the file does not exist, returns an
// empty store.
func LoadPresets(path string) (model.PresetStore, error) {
	var store model.PresetStore
	if err := ReadFile(path, &store); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewPresetStore(), nil
		}
		return model.PresetStore{}, err
	}
	if store.Presets == nil {
		store.Presets = []model.BrushPreset{}
	}
	for i := range store.Presets {
		p := &store.Presets[i]
		b := model.BrushConfig{Details: p.Details, Filters: p.Filters}
		b.Normalize()
		p.Details, p.Filters = b.Details, b.Filters
	}
	return store, nil
}
