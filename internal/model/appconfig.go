package model

// PaintSettings control what pointer strokes are allowed to do.
type PaintSettings struct {
	PlacingEnabled bool  `json:"placing_enabled" toml:"placing_enabled"`
	ErasingEnabled bool  `json:"erasing_enabled" toml:"erasing_enabled"`
	Seed           int64 `json:"seed" toml:"seed"` // 0 = seed from the clock
}

// DefaultPaintSettings enables placing and erasing.
func DefaultPaintSettings() PaintSettings {
	return PaintSettings{
		PlacingEnabled: true,
		ErasingEnabled: true,
	}
}

// AppConfig holds application-wide preferences and default brush settings.
type AppConfig struct {
	CollectionDir     string   `json:"collection_dir" toml:"collection_dir"` // empty = ~/.scatterbrush/collections
	LastCollectionID  string   `json:"last_collection_id" toml:"last_collection_id"`
	RecentCollections []string `json:"recent_collections" toml:"recent_collections"`
	LogLevel          string   `json:"log_level" toml:"log_level"` // "debug", "info", "warn", "error"

	Paint PaintSettings `json:"paint" toml:"paint"`

	// Defaults applied to brushes created by the user
	DefaultDensity     float32 `json:"default_density" toml:"default_density"`
	DefaultBrushRadius float32 `json:"default_brush_radius" toml:"default_brush_radius"`
	DefaultMinScale    float32 `json:"default_min_scale" toml:"default_min_scale"`
	DefaultMaxScale    float32 `json:"default_max_scale" toml:"default_max_scale"`
}

// DefaultAppConfig returns an AppConfig populated with defaults matching
// DefaultDetails().
func DefaultAppConfig() AppConfig {
	d := DefaultDetails()
	return AppConfig{
		RecentCollections:  []string{},
		LogLevel:           "warn",
		Paint:              DefaultPaintSettings(),
		DefaultDensity:     d.Density,
		DefaultBrushRadius: d.BrushRadius,
		DefaultMinScale:    d.MinScale,
		DefaultMaxScale:    d.MaxScale,
	}
}

// ApplyToBrush copies the configured defaults into b, through its setters.
func (c AppConfig) ApplyToBrush(b *BrushConfig) {
	b.SetDensity(c.DefaultDensity)
	b.SetBrushRadius(c.DefaultBrushRadius)
	b.SetMaxScale(MaxScaleLimit)
	b.SetMinScale(c.DefaultMinScale)
	b.SetMaxScale(c.DefaultMaxScale)
}

// TouchRecent moves id to the front of the recent collections list, keeping
// at most max entries.
func (c *AppConfig) TouchRecent(id string, max int) {
	out := []string{id}
	for _, r := range c.RecentCollections {
		if r != id {
			out = append(out, r)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	c.RecentCollections = out
	c.LastCollectionID = id
}
