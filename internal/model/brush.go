package model

import (
	"github.com/chewxy/math32"
	"github.com/google/uuid"
)

// Limits for brush parameters. Setters clamp into these ranges.
const (
	MaxDensity     float32 = 30
	MaxBrushRadius float32 = 50
	MinScaleLimit  float32 = 0.001
	MaxScaleLimit  float32 = 50
	MaxSlopeLimit  float32 = 360
)

// LayerMask is a bitset over the 32 surface layers.
type LayerMask uint32

// AllLayers accepts every layer.
const AllLayers = ^LayerMask(0)

// LayerMaskOf returns a mask containing only the given layers.
func LayerMaskOf(layers ...int) LayerMask {
	var m LayerMask
	for _, l := range layers {
		if l >= 0 && l < 32 {
			m |= 1 << uint(l)
		}
	}
	return m
}

// Contains reports whether layer is set in the mask.
func (m LayerMask) Contains(layer int) bool {
	if layer < 0 || layer >= 32 {
		return false
	}
	return m&(1<<uint(layer)) != 0
}

// TemplateRef is an opaque handle to a spawnable object template.
type TemplateRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// InScene marks a template that is a live scene object (cloned on spawn)
	// rather than a stored asset (materialized on spawn).
	InScene bool `json:"in_scene,omitempty" yaml:"in_scene,omitempty"`
}

// IsZero reports whether the reference points at nothing.
func (t TemplateRef) IsZero() bool {
	return t.ID == ""
}

// BrushDetails are the spawn parameters of a brush.
type BrushDetails struct {
	Density             float32 `json:"density" yaml:"density"`
	BrushRadius         float32 `json:"brush_radius" yaml:"brush_radius"`
	MinScale            float32 `json:"min_scale" yaml:"min_scale"`
	MaxScale            float32 `json:"max_scale" yaml:"max_scale"`
	Offset              Vec3    `json:"offset" yaml:"offset"`
	RotOffset           Vec3    `json:"rot_offset" yaml:"rot_offset"` // Euler degrees
	RandomizeX          bool    `json:"randomize_x" yaml:"randomize_x"`
	RandomizeY          bool    `json:"randomize_y" yaml:"randomize_y"`
	RandomizeZ          bool    `json:"randomize_z" yaml:"randomize_z"`
	AllowIntercollision bool    `json:"allow_intercollision" yaml:"allow_intercollision"`
	AlignToSurface      bool    `json:"align_to_surface" yaml:"align_to_surface"`
}

// DefaultDetails returns the spawn parameters of a freshly reset brush.
func DefaultDetails() BrushDetails {
	return BrushDetails{
		Density:     1,
		BrushRadius: 5,
		MinScale:    0.5,
		MaxScale:    1.5,
		RandomizeY:  true,
	}
}

// BrushFilters decide which surface hits a brush may spawn on.
type BrushFilters struct {
	MinSlope         float32   `json:"min_slope" yaml:"min_slope"`
	MaxSlope         float32   `json:"max_slope" yaml:"max_slope"`
	LayerMask        LayerMask `json:"layer_mask" yaml:"layer_mask"`
	TagFilterEnabled bool      `json:"tag_filter_enabled" yaml:"tag_filter_enabled"`
	TagFilter        string    `json:"tag_filter" yaml:"tag_filter"`
}

// DefaultFilters returns filters that accept every hit.
func DefaultFilters() BrushFilters {
	return BrushFilters{
		MinSlope:  0,
		MaxSlope:  MaxSlopeLimit,
		LayerMask: AllLayers,
	}
}

// BrushConfig pairs a template with the rules used to scatter it.
type BrushConfig struct {
	ID       string       `json:"id" yaml:"id"`
	Template TemplateRef  `json:"template" yaml:"template"`
	Details  BrushDetails `json:"details" yaml:"details"`
	Filters  BrushFilters `json:"filters" yaml:"filters"`
	// Parent is the container new instances are attached to; empty for none.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// NewBrush creates a brush for tmpl with default details and filters.
func NewBrush(tmpl TemplateRef) *BrushConfig {
	return &BrushConfig{
		ID:       uuid.New().String()[:8],
		Template: tmpl,
		Details:  DefaultDetails(),
		Filters:  DefaultFilters(),
	}
}

// Name is the display name of the brush, taken from its template.
func (b *BrushConfig) Name() string {
	if b.Template.Name != "" {
		return b.Template.Name
	}
	if b.Template.ID != "" {
		return b.Template.ID
	}
	return "(empty)"
}

// Clone returns an independent copy with a new ID.
func (b *BrushConfig) Clone() *BrushConfig {
	c := *b
	c.ID = uuid.New().String()[:8]
	return &c
}

// clamp limits v to [lo, hi]. NaN becomes lo.
func clamp(v, lo, hi float32) float32 {
	if math32.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetDensity sets the spawn density, clamped to 0..MaxDensity.
func (b *BrushConfig) SetDensity(v float32) {
	b.Details.Density = clamp(v, 0, MaxDensity)
}

// SetBrushRadius sets the brush radius, clamped to 0..MaxBrushRadius.
func (b *BrushConfig) SetBrushRadius(v float32) {
	b.Details.BrushRadius = clamp(v, 0, MaxBrushRadius)
}

// SetMinScale sets the lower scale bound, raising the upper bound if needed.
func (b *BrushConfig) SetMinScale(v float32) {
	b.Details.MinScale = clamp(v, MinScaleLimit, MaxScaleLimit)
	if b.Details.MaxScale < b.Details.MinScale {
		b.Details.MaxScale = b.Details.MinScale
	}
}

// SetMaxScale sets the upper scale bound, lowering the lower bound if needed.
func (b *BrushConfig) SetMaxScale(v float32) {
	b.Details.MaxScale = clamp(v, MinScaleLimit, MaxScaleLimit)
	if b.Details.MinScale > b.Details.MaxScale {
		b.Details.MinScale = b.Details.MaxScale
	}
}

// SetMinSlope sets the lower slope bound, raising the upper bound if needed.
func (b *BrushConfig) SetMinSlope(v float32) {
	b.Filters.MinSlope = clamp(v, 0, MaxSlopeLimit)
	if b.Filters.MaxSlope < b.Filters.MinSlope {
		b.Filters.MaxSlope = b.Filters.MinSlope
	}
}

// SetMaxSlope sets the upper slope bound, lowering the lower bound if needed.
func (b *BrushConfig) SetMaxSlope(v float32) {
	b.Filters.MaxSlope = clamp(v, 0, MaxSlopeLimit)
	if b.Filters.MinSlope > b.Filters.MaxSlope {
		b.Filters.MinSlope = b.Filters.MaxSlope
	}
}

// Normalize re-applies every range rule. It is used on values that did not
// come through the setters, such as loaded or imported brushes.
func (b *BrushConfig) Normalize() {
	b.SetDensity(b.Details.Density)
	b.SetBrushRadius(b.Details.BrushRadius)
	b.Details.MaxScale = clamp(b.Details.MaxScale, MinScaleLimit, MaxScaleLimit)
	b.SetMinScale(b.Details.MinScale)
	b.Filters.MaxSlope = clamp(b.Filters.MaxSlope, 0, MaxSlopeLimit)
	b.SetMinSlope(b.Filters.MinSlope)
}

// PasteDetails copies the spawn parameters of src. A nil src is ignored.
func (b *BrushConfig) PasteDetails(src *BrushConfig) {
	if src == nil {
		return
	}
	b.Details = src.Details
	b.Normalize()
}

// PasteFilters copies the filters of src. A nil src is ignored.
func (b *BrushConfig) PasteFilters(src *BrushConfig) {
	if src == nil {
		return
	}
	b.Filters = src.Filters
	b.Normalize()
}

// ResetDetails restores the default spawn parameters.
func (b *BrushConfig) ResetDetails() {
	b.Details = DefaultDetails()
}

// ResetFilters restores filters that accept every hit.
func (b *BrushConfig) ResetFilters() {
	b.Filters = DefaultFilters()
}
