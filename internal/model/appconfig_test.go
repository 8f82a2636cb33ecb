package model

import "testing"

func TestDefaultAppConfigMatchesDefaultDetails(t *testing.T) {
	cfg := DefaultAppConfig()
	d := DefaultDetails()

	if cfg.DefaultDensity != d.Density {
		t.Errorf("Density mismatch: config=%f details=%f", cfg.DefaultDensity, d.Density)
	}
	if cfg.DefaultBrushRadius != d.BrushRadius {
		t.Errorf("BrushRadius mismatch: config=%f details=%f", cfg.DefaultBrushRadius, d.BrushRadius)
	}
	if !cfg.Paint.PlacingEnabled || !cfg.Paint.ErasingEnabled {
		t.Error("placing and erasing should be enabled by default")
	}
	if cfg.RecentCollections == nil {
		t.Error("RecentCollections should not be nil")
	}
}

func TestApplyToBrush(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultDensity = 3
	cfg.DefaultBrushRadius = 80
	cfg.DefaultMinScale = 2
	cfg.DefaultMaxScale = 4

	b := NewBrush(TemplateRef{ID: "rock"})
	cfg.ApplyToBrush(b)

	if b.Details.Density != 3 {
		t.Errorf("expected Density=3, got %f", b.Details.Density)
	}
	if b.Details.BrushRadius != MaxBrushRadius {
		t.Errorf("expected radius clamped to %f, got %f", MaxBrushRadius, b.Details.BrushRadius)
	}
	if b.Details.MinScale != 2 || b.Details.MaxScale != 4 {
		t.Errorf("expected scale 2..4, got %f..%f", b.Details.MinScale, b.Details.MaxScale)
	}
}

func TestTouchRecent(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.TouchRecent("a", 3)
	cfg.TouchRecent("b", 3)
	cfg.TouchRecent("c", 3)
	cfg.TouchRecent("a", 3)
	cfg.TouchRecent("d", 3)

	want := []string{"d", "a", "c"}
	if len(cfg.RecentCollections) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.RecentCollections)
	}
	for i := range want {
		if cfg.RecentCollections[i] != want[i] {
			t.Errorf("recent[%d]: expected %s, got %s", i, want[i], cfg.RecentCollections[i])
		}
	}
	if cfg.LastCollectionID != "d" {
		t.Errorf("expected last collection d, got %s", cfg.LastCollectionID)
	}
}
