package importer

import (
	"fmt"
	"math"

	"github.com/piwi3910/ScatterBrush/internal/engine"
	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// StrokeResult holds pointer events traced from a drawing.
type StrokeResult struct {
	Events   []engine.PointerEvent
	Strokes  int
	Errors   []string
	Warnings []string
}

// ImportStrokesDXF turns a DXF plan into painting strokes. The drawing's
// X/Y plane maps onto the world's X/Z plane and every point is cast
// straight down from height. POINT and CIRCLE entities become single
// clicks, LWPOLYLINE and LINE entities become drags along their vertices,
// and ARCs are sampled every 10 degrees.
func ImportStrokesDXF(path string, height float32) StrokeResult {
	result := StrokeResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	skipped := 0
	for _, ent := range entities {
		var pts [][2]float64
		switch e := ent.(type) {
		case *entity.Point:
			pts = [][2]float64{{e.Coord[0], e.Coord[1]}}

		case *entity.Circle:
			pts = [][2]float64{{e.Center[0], e.Center[1]}}

		case *entity.LwPolyline:
			for _, v := range e.Vertices {
				pts = append(pts, [2]float64{v[0], v[1]})
			}
			if len(pts) == 0 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE without vertices")
				continue
			}

		case *entity.Line:
			pts = [][2]float64{{e.Start[0], e.Start[1]}, {e.End[0], e.End[1]}}

		case *entity.Arc:
			pts = arcToPoints(e, 10)

		default:
			skipped++
			continue
		}
		result.Events = append(result.Events, strokeEvents(pts, height)...)
		result.Strokes++
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}
	if result.Strokes == 0 {
		result.Errors = append(result.Errors, "No strokes found in DXF file")
	}
	return result
}

// strokeEvents emits a down, one drag per further vertex and an up on the
// last vertex.
func strokeEvents(path [][2]float64, height float32) []engine.PointerEvent {
	events := make([]engine.PointerEvent, 0, len(path)+1)
	for i, p := range path {
		kind := engine.PointerDrag
		if i == 0 {
			kind = engine.PointerDown
		}
		events = append(events, engine.PointerEvent{
			Kind:   kind,
			Button: engine.ButtonPlace,
			Ray:    downRay(p, height),
		})
	}
	last := path[len(path)-1]
	events = append(events, engine.PointerEvent{
		Kind:   engine.PointerUp,
		Button: engine.ButtonPlace,
		Ray:    downRay(last, height),
	})
	return events
}

func downRay(p [2]float64, height float32) model.Ray {
	return model.Ray{
		Origin:    model.V3(float32(p[0]), height, float32(p[1])),
		Direction: model.V3(0, -1, 0),
	}
}

// arcToPoints samples a DXF ARC, at most step degrees apart.
func arcToPoints(a *entity.Arc, step float64) [][2]float64 {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	start, end := a.Angle[0], a.Angle[1]
	if end < start {
		end += 360
	}
	n := int(math.Ceil((end - start) / step))
	if n < 1 {
		n = 1
	}
	pts := make([][2]float64, n+1)
	for i := 0; i <= n; i++ {
		rad := (start + (end-start)*float64(i)/float64(n)) * math.Pi / 180
		pts[i] = [2]float64{cx + r*math.Cos(rad), cy + r*math.Sin(rad)}
	}
	return pts
}
