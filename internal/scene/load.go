package scene

import (
	"fmt"

	"github.com/piwi3910/ScatterBrush/internal/project"
)

// LoadWorld reads a scene description (JSON or YAML) and builds a world.
func LoadWorld(path string) (*World, error) {
	var desc Description
	if err := project.ReadFile(path, &desc); err != nil {
		return nil, err
	}
	for i, s := range desc.Surfaces {
		switch s.Kind {
		case SurfacePlane:
			if s.Normal.IsZero() {
				return nil, fmt.Errorf("surface %d (%s): plane needs a normal", i, s.ID)
			}
		case SurfaceBox:
			if s.Min.X > s.Max.X || s.Min.Y > s.Max.Y || s.Min.Z > s.Max.Z {
				return nil, fmt.Errorf("surface %d (%s): box min exceeds max", i, s.ID)
			}
		default:
			return nil, fmt.Errorf("surface %d (%s): unknown kind %q", i, s.ID, s.Kind)
		}
	}
	return NewWorld(desc), nil
}

// SaveWorld writes the world, spawned instances included.
func SaveWorld(path string, w *World) error {
	return project.WriteFile(path, w.Describe())
}
