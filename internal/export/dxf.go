package export

import (
	"fmt"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

var layerColors = []color.ColorNumber{
	color.Green, color.Blue, color.Yellow, color.Magenta, color.Cyan, color.Red,
}

// LayerName returns the DXF layer used for a template.
func LayerName(template string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, template)
	if name == "" {
		name = "UNNAMED"
	}
	return "SB_" + strings.ToUpper(name)
}

// ExportDXF writes one layer per template with a POINT and a CIRCLE
// (radius half the scale) per placement. World X/Z map to drawing X/Y and
// world height to drawing Z, matching the stroke importer.
func ExportDXF(path string, placements []PlacementInfo) error {
	if len(placements) == 0 {
		return fmt.Errorf("no placements to export")
	}

	d := dxf.NewDrawing()
	layers := map[string]bool{}
	for _, p := range placements {
		layer := LayerName(p.Template)
		if !layers[layer] {
			col := layerColors[len(layers)%len(layerColors)]
			if _, err := d.AddLayer(layer, col, dxf.DefaultLineType, true); err != nil {
				return fmt.Errorf("failed to add layer %s: %w", layer, err)
			}
			layers[layer] = true
		} else if err := d.ChangeLayer(layer); err != nil {
			return fmt.Errorf("failed to select layer %s: %w", layer, err)
		}

		x, y, z := float64(p.Position.X), float64(p.Position.Z), float64(p.Position.Y)
		if _, err := d.Point(x, y, z); err != nil {
			return fmt.Errorf("failed to write point for %s: %w", p.ID, err)
		}
		if _, err := d.Circle(x, y, z, float64(p.Scale)/2); err != nil {
			return fmt.Errorf("failed to write circle for %s: %w", p.ID, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}
