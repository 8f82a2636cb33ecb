package engine

import "github.com/piwi3910/ScatterBrush/internal/model"

// SpacingTracker remembers where each live instance was placed so new
// placements can keep their distance.
type SpacingTracker struct {
	points map[model.InstanceID]model.Vec3
}

func NewSpacingTracker() *SpacingTracker {
	return &SpacingTracker{points: make(map[model.InstanceID]model.Vec3)}
}

// Record stores the placement point of id, replacing any earlier one.
func (s *SpacingTracker) Record(id model.InstanceID, p model.Vec3) {
	s.points[id] = p
}

func (s *SpacingTracker) Forget(id model.InstanceID) {
	delete(s.points, id)
}

func (s *SpacingTracker) Reset() {
	s.points = make(map[model.InstanceID]model.Vec3)
}

func (s *SpacingTracker) Len() int {
	return len(s.points)
}

// Point returns the recorded placement point of id.
func (s *SpacingTracker) Point(id model.InstanceID) (model.Vec3, bool) {
	p, ok := s.points[id]
	return p, ok
}

// IsWithinRange reports whether any recorded point lies within
// radius/density of p, boundary included. Density at or below zero counts
// as one.
func (s *SpacingTracker) IsWithinRange(p model.Vec3, radius, density float32) bool {
	if density <= 0 {
		density = 1
	}
	limit := radius / density
	for _, q := range s.points {
		if q.DistanceTo(p) <= limit {
			return true
		}
	}
	return false
}
