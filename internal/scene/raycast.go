package scene

import (
	"github.com/chewxy/math32"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

const rayEpsilon = 1e-6

// rayPlane intersects a ray with the front face of a plane. dir and n must
// be normalized.
func rayPlane(origin, dir, p, n model.Vec3) (float32, bool) {
	denom := n.Dot(dir)
	if denom > -rayEpsilon {
		return 0, false
	}
	t := p.Sub(origin).Dot(n) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

func component(v model.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func axisVec(axis int, sign float32) model.Vec3 {
	switch axis {
	case 0:
		return model.V3(sign, 0, 0)
	case 1:
		return model.V3(0, sign, 0)
	default:
		return model.V3(0, 0, sign)
	}
}

// rayBox intersects a ray with an axis-aligned box using the slab method and
// returns the entry distance and the normal of the entered face.
func rayBox(origin, dir, lo, hi model.Vec3) (float32, model.Vec3, bool) {
	tmin, tmax := math32.Inf(-1), math32.Inf(1)
	var normal model.Vec3
	for axis := 0; axis < 3; axis++ {
		o, d := component(origin, axis), component(dir, axis)
		l, h := component(lo, axis), component(hi, axis)
		if math32.Abs(d) < rayEpsilon {
			if o < l || o > h {
				return 0, model.Vec3{}, false
			}
			continue
		}
		t1, t2 := (l-o)/d, (h-o)/d
		n1, n2 := axisVec(axis, -1), axisVec(axis, 1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n1, n2 = n2, n1
		}
		if t1 > tmin {
			tmin, normal = t1, n1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, model.Vec3{}, false
		}
	}
	if tmin < 0 {
		return 0, model.Vec3{}, false
	}
	return tmin, normal, true
}
