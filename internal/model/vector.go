package model

import "github.com/chewxy/math32"

const epsilon = 1e-6

// Vec3 is a 3D vector in world units.
type Vec3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

var (
	Zero3 = Vec3{}
	One3  = Vec3{X: 1, Y: 1, Z: 1}
	Up    = Vec3{Y: 1}
	// Forward is the local +Z axis.
	Forward = Vec3{Z: 1}
)

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func (a Vec3) MulScalar(s float32) Vec3 {
	return Vec3{X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

func (a Vec3) Dot(b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Length() float32 {
	return math32.Sqrt(a.Dot(a))
}

// DistanceTo returns the Euclidean distance between a and b.
func (a Vec3) DistanceTo(b Vec3) float32 {
	return a.Sub(b).Length()
}

// Normal returns a unit vector in the direction of a, or the zero vector
// when a has no length.
func (a Vec3) Normal() Vec3 {
	l := a.Length()
	if l < epsilon {
		return Vec3{}
	}
	return a.MulScalar(1 / l)
}

// IsZero reports whether every component is zero.
func (a Vec3) IsZero() bool {
	return a == Vec3{}
}

// AngleTo returns the unsigned angle between a and b in degrees, in [0, 180].
func (a Vec3) AngleTo(b Vec3) float32 {
	na, nb := a.Normal(), b.Normal()
	if na.IsZero() || nb.IsZero() {
		return 0
	}
	d := math32.Max(-1, math32.Min(1, na.Dot(nb)))
	return math32.Acos(d) * 180 / math32.Pi
}

// Quat is a rotation quaternion.
type Quat struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
	W float32 `json:"w" yaml:"w"`
}

// Identity is the rotation that leaves vectors unchanged.
var Identity = Quat{W: 1}

// AxisAngle returns the rotation of deg degrees around axis.
func AxisAngle(axis Vec3, deg float32) Quat {
	n := axis.Normal()
	half := deg * math32.Pi / 360
	s := math32.Sin(half)
	return Quat{X: n.X * s, Y: n.Y * s, Z: n.Z * s, W: math32.Cos(half)}
}

// Euler returns the rotation for angles in degrees, applied Z first, then X,
// then Y.
func Euler(deg Vec3) Quat {
	qx := AxisAngle(Vec3{X: 1}, deg.X)
	qy := AxisAngle(Vec3{Y: 1}, deg.Y)
	qz := AxisAngle(Vec3{Z: 1}, deg.Z)
	return qy.Mul(qx).Mul(qz)
}

// FromToRotation returns the shortest rotation that turns from into to.
func FromToRotation(from, to Vec3) Quat {
	f, t := from.Normal(), to.Normal()
	if f.IsZero() || t.IsZero() {
		return Identity
	}
	d := f.Dot(t)
	if d >= 1-epsilon {
		return Identity
	}
	if d <= -1+epsilon {
		axis := f.Cross(Vec3{X: 1})
		if axis.Length() < epsilon {
			axis = f.Cross(Vec3{Y: 1})
		}
		return AxisAngle(axis, 180)
	}
	c := f.Cross(t)
	return Quat{X: c.X, Y: c.Y, Z: c.Z, W: 1 + d}.Normal()
}

// Mul returns the rotation q followed, in q's local frame, by r.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

func (q Quat) Normal() Quat {
	l := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l < epsilon {
		return Identity
	}
	return Quat{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).MulScalar(2)
	return v.Add(t.MulScalar(q.W)).Add(u.Cross(t))
}

// Yaw returns the heading of the rotated forward axis around world up, in
// degrees.
func (q Quat) Yaw() float32 {
	f := q.Rotate(Forward)
	return math32.Atan2(f.X, f.Z) * 180 / math32.Pi
}

// Ray is a half-line starting at Origin.
type Ray struct {
	Origin    Vec3 `json:"origin" yaml:"origin"`
	Direction Vec3 `json:"direction" yaml:"direction"`
}

// At returns the point at distance t along the normalized direction.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Normal().MulScalar(t))
}

// Hit is the result of a successful surface query.
type Hit struct {
	Point    Vec3
	Normal   Vec3
	Distance float32
	// Collider is set when the hit object is a spawned instance.
	Collider InstanceID
	// Surface identifies a static surface, if any.
	Surface string
	Layer   int
	Tag     string
}
