package engine

import (
	"testing"

	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSpacingTracker_Boundary(t *testing.T) {
	s := NewSpacingTracker()
	s.Record("a", model.V3(0, 0, 0))

	assert.True(t, s.IsWithinRange(model.V3(2, 0, 0), 4, 2), "exactly radius/density is within range")
	assert.False(t, s.IsWithinRange(model.V3(2.01, 0, 0), 4, 2))
	assert.True(t, s.IsWithinRange(model.V3(0, 0, 4), 4, 1))
}

func TestSpacingTracker_AdjustedRadius(t *testing.T) {
	tests := []struct {
		radius, density, distance float32
		within                    bool
	}{
		{5, 1, 5.0, true},
		{5, 1, 5.0001, false},
		{10, 2, 5.0, true},
		{10, 2, 5.1, false},
	}
	for _, tt := range tests {
		s := NewSpacingTracker()
		s.Record("a", model.V3(0, 0, 0))
		assert.Equal(t, tt.within, s.IsWithinRange(model.V3(tt.distance, 0, 0), tt.radius, tt.density),
			"radius=%v density=%v distance=%v", tt.radius, tt.density, tt.distance)
	}
}

func TestSpacingTracker_NonPositiveDensity(t *testing.T) {
	s := NewSpacingTracker()
	s.Record("a", model.V3(0, 0, 0))

	assert.True(t, s.IsWithinRange(model.V3(3, 0, 0), 3, 0))
	assert.True(t, s.IsWithinRange(model.V3(3, 0, 0), 3, -5))
	assert.False(t, s.IsWithinRange(model.V3(3.5, 0, 0), 3, 0))
}

func TestSpacingTracker_Empty(t *testing.T) {
	s := NewSpacingTracker()
	assert.False(t, s.IsWithinRange(model.V3(0, 0, 0), 50, 1))
}

func TestSpacingTracker_ForgetAndReset(t *testing.T) {
	s := NewSpacingTracker()
	s.Record("a", model.V3(0, 0, 0))
	s.Record("b", model.V3(10, 0, 0))

	s.Forget("a")
	assert.False(t, s.IsWithinRange(model.V3(0, 0, 0), 1, 1))
	assert.Equal(t, 1, s.Len())

	s.Record("b", model.V3(0, 0, 0))
	assert.Equal(t, 1, s.Len(), "recording again replaces the point")
	assert.True(t, s.IsWithinRange(model.V3(0, 0, 0), 1, 1))

	s.Reset()
	assert.Equal(t, 0, s.Len())
	_, ok := s.Point("b")
	assert.False(t, ok)
}
