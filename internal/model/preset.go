package model

import (
	"time"

	"github.com/google/uuid"
)

// BrushPreset is a named set of brush details and filters that can be
// applied to any brush, whatever its template.
type BrushPreset struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   string       `json:"created_at" yaml:"created_at"`
	UpdatedAt   string       `json:"updated_at" yaml:"updated_at"`
	Details     BrushDetails `json:"details" yaml:"details"`
	Filters     BrushFilters `json:"filters" yaml:"filters"`
}

// NewBrushPreset captures the details and filters of b.
func NewBrushPreset(name, description string, b *BrushConfig) BrushPreset {
	now := time.Now().UTC().Format(time.RFC3339)
	return BrushPreset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Details:     b.Details,
		Filters:     b.Filters,
	}
}

// ApplyTo pastes the preset onto b. The template and parent of b are kept.
func (p BrushPreset) ApplyTo(b *BrushConfig) {
	b.Details = p.Details
	b.Filters = p.Filters
	b.Normalize()
}

// PresetStore holds the saved brush presets.
type PresetStore struct {
	Presets []BrushPreset `json:"presets" yaml:"presets"`
}

func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []BrushPreset{},
	}
}

// Put adds p, replacing a preset with the same name. The replaced preset
// keeps its ID and creation time.
func (ps *PresetStore) Put(p BrushPreset) {
	if old := ps.FindByName(p.Name); old != nil {
		p.ID, p.CreatedAt = old.ID, old.CreatedAt
		*old = p
		return
	}
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID or name. Returns true if found and removed.
func (ps *PresetStore) Remove(ref string) bool {
	for i, p := range ps.Presets {
		if p.ID == ref || p.Name == ref {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *BrushPreset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name, or nil.
func (ps *PresetStore) FindByName(name string) *BrushPreset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Find looks a preset up by ID, then by name.
func (ps *PresetStore) Find(ref string) *BrushPreset {
	if p := ps.FindByID(ref); p != nil {
		return p
	}
	return ps.FindByName(ref)
}

// Names returns the preset names in store order.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}
