package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

func TestSaveAndLoadPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.json")

	store := model.NewPresetStore()
	b := model.NewBrush(model.TemplateRef{ID: "pine"})
	b.SetDensity(3)
	b.Filters.LayerMask = model.LayerMaskOf(1)
	store.Put(model.NewBrushPreset("Grass", "ground cover", b))

	if err := SavePresets(path, store); err != nil {
		t.Fatalf("SavePresets error: %v", err)
	}

	loaded, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets error: %v", err)
	}
	if len(loaded.Presets) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(loaded.Presets))
	}
	p := loaded.Presets[0]
	if p.Name != "Grass" || p.Details.Density != 3 || p.Filters.LayerMask != model.LayerMaskOf(1) {
		t.Errorf("unexpected preset %+v", p)
	}
}

func TestLoadPresets_NotFound(t *testing.T) {
	store, err := LoadPresets(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if store.Presets == nil || len(store.Presets) != 0 {
		t.Errorf("expected empty store, got %v", store.Presets)
	}
}

func TestLoadPresets_Normalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	data := `{"presets":[{"id":"p1","name":"Wild","details":{"density":100,"min_scale":5,"max_scale":1},"filters":{"max_slope":900}}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	store, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets error: %v", err)
	}
	p := store.Presets[0]
	if p.Details.Density != model.MaxDensity || p.Details.MinScale > p.Details.MaxScale || p.Filters.MaxSlope != model.MaxSlopeLimit {
		t.Errorf("preset not normalized: %+v", p)
	}
}

func TestPresetPath(t *testing.T) {
	got := PresetPath(filepath.Join("a", "b", "config.toml"))
	if got != filepath.Join("a", "b", "presets.json") {
		t.Errorf("unexpected preset path %s", got)
	}
}
