// Package export writes painting results to PDF, DXF and Excel files.
package export

import (
	"sort"

	"github.com/piwi3910/ScatterBrush/internal/engine"
	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/piwi3910/ScatterBrush/internal/scene"
)

// PlacementInfo describes one spawned instance.
type PlacementInfo struct {
	ID       model.InstanceID `json:"id"`
	Template string           `json:"template"`
	Name     string           `json:"name"`
	Position model.Vec3       `json:"position"`
	Scale    float32          `json:"scale"`
	Yaw      float32          `json:"yaw"` // degrees about the up axis
	Parent   string           `json:"parent,omitempty"`
}

// Report is everything the exporters render for one painting run.
type Report struct {
	CollectionID   string
	CollectionName string
	Scene          string
	Placements     []PlacementInfo
	Stats          engine.Stats
}

// TemplateCount is the number of placements of one template.
type TemplateCount struct {
	Template string
	Name     string
	Count    int
}

// CollectPlacements returns the instances registered in coll that still
// exist in world, in spawn order.
func CollectPlacements(world *scene.World, coll *model.BrushCollection) []PlacementInfo {
	var out []PlacementInfo
	for _, id := range coll.Spawned() {
		inst, ok := world.Instance(id)
		if !ok {
			continue
		}
		out = append(out, PlacementInfo{
			ID:       inst.ID,
			Template: inst.Template,
			Name:     inst.Name,
			Position: inst.Position,
			Scale:    inst.Scale.X,
			Yaw:      inst.Rotation.Yaw(),
			Parent:   inst.Parent,
		})
	}
	return out
}

// CountByTemplate groups placements by template, most frequent first.
func CountByTemplate(placements []PlacementInfo) []TemplateCount {
	idx := map[string]int{}
	var counts []TemplateCount
	for _, p := range placements {
		i, ok := idx[p.Template]
		if !ok {
			i = len(counts)
			idx[p.Template] = i
			name := p.Name
			if name == "" {
				name = p.Template
			}
			counts = append(counts, TemplateCount{Template: p.Template, Name: name})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	return counts
}

// bounds returns the extent of the placements on the ground (X/Z) plane.
func bounds(placements []PlacementInfo) (minX, minZ, maxX, maxZ float64) {
	for i, p := range placements {
		x, z := float64(p.Position.X), float64(p.Position.Z)
		if i == 0 {
			minX, maxX, minZ, maxZ = x, x, z, z
			continue
		}
		minX, maxX = min(minX, x), max(maxX, x)
		minZ, maxZ = min(minZ, z), max(maxZ, z)
	}
	return minX, minZ, maxX, maxZ
}
