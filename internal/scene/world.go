package scene

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/google/uuid"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

// SurfaceKind is the shape of a static surface.
type SurfaceKind string

const (
	SurfacePlane SurfaceKind = "plane" // one-sided infinite plane through Point facing Normal
	SurfaceBox   SurfaceKind = "box"   // axis-aligned box from Min to Max
)

// Surface is a static collider that brushes can paint on.
type Surface struct {
	ID     string      `json:"id" yaml:"id"`
	Kind   SurfaceKind `json:"kind" yaml:"kind"`
	Point  model.Vec3  `json:"point,omitempty" yaml:"point,omitempty"`
	Normal model.Vec3  `json:"normal,omitempty" yaml:"normal,omitempty"`
	Min    model.Vec3  `json:"min,omitempty" yaml:"min,omitempty"`
	Max    model.Vec3  `json:"max,omitempty" yaml:"max,omitempty"`
	Layer  int         `json:"layer" yaml:"layer"`
	Tag    string      `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Template is a spawnable asset. Size is the full extent of its collider at
// scale one, with the pivot at the centre of the bottom face.
type Template struct {
	ID    string     `json:"id" yaml:"id"`
	Name  string     `json:"name" yaml:"name"`
	Size  model.Vec3 `json:"size" yaml:"size"`
	Layer int        `json:"layer" yaml:"layer"`
	Tag   string     `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Ref returns the template reference brushes use to spawn t.
func (t Template) Ref() model.TemplateRef {
	return model.TemplateRef{ID: t.ID, Name: t.Name}
}

// Instance is a spawned object.
type Instance struct {
	ID       model.InstanceID `json:"id" yaml:"id"`
	Template string           `json:"template" yaml:"template"`
	Name     string           `json:"name" yaml:"name"`
	Size     model.Vec3       `json:"size" yaml:"size"`
	Position model.Vec3       `json:"position" yaml:"position"`
	Rotation model.Quat       `json:"rotation" yaml:"rotation"`
	Scale    model.Vec3       `json:"scale" yaml:"scale"`
	Parent   string           `json:"parent,omitempty" yaml:"parent,omitempty"`
	Layer    int              `json:"layer" yaml:"layer"`
	Tag      string           `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Bounds returns the axis-aligned collider box of the instance.
func (i Instance) Bounds() (model.Vec3, model.Vec3) {
	hx := i.Size.X * i.Scale.X / 2
	hz := i.Size.Z * i.Scale.Z / 2
	h := i.Size.Y * i.Scale.Y
	return model.V3(i.Position.X-hx, i.Position.Y, i.Position.Z-hz),
		model.V3(i.Position.X+hx, i.Position.Y+h, i.Position.Z+hz)
}

// Description is the on-disk form of a world.
type Description struct {
	Name      string     `json:"name" yaml:"name"`
	Surfaces  []Surface  `json:"surfaces" yaml:"surfaces"`
	Templates []Template `json:"templates" yaml:"templates"`
	Instances []Instance `json:"instances,omitempty" yaml:"instances,omitempty"`
}

// World is an in-memory scene of static surfaces and spawned instances. It
// answers surface queries and acts as the instance factory for the engine.
//
// A World is not safe for concurrent use.
type World struct {
	Name string

	surfaces  []Surface
	templates map[string]Template
	instances map[model.InstanceID]*Instance
	order     model.Registry
}

// NewWorld builds a world from a description.
func NewWorld(desc Description) *World {
	w := &World{
		Name:      desc.Name,
		templates: make(map[string]Template),
		instances: make(map[model.InstanceID]*Instance),
	}
	for _, s := range desc.Surfaces {
		w.AddSurface(s)
	}
	for _, t := range desc.Templates {
		w.AddTemplate(t)
	}
	for _, inst := range desc.Instances {
		inst := inst
		if inst.ID == "" {
			inst.ID = newInstanceID()
		}
		if inst.Scale.IsZero() {
			inst.Scale = model.One3
		}
		w.instances[inst.ID] = &inst
		w.order.Add(inst.ID)
	}
	return w
}

func newInstanceID() model.InstanceID {
	return model.InstanceID("inst-" + uuid.New().String()[:8])
}

// AddSurface adds a static surface. Plane normals are normalized.
func (w *World) AddSurface(s Surface) {
	if s.Kind == SurfacePlane {
		s.Normal = s.Normal.Normal()
	}
	w.surfaces = append(w.surfaces, s)
}

func (w *World) AddTemplate(t Template) {
	w.templates[t.ID] = t
}

// Template looks up a template by id.
func (w *World) Template(id string) (Template, bool) {
	t, ok := w.templates[id]
	return t, ok
}

// Templates returns the templates sorted by id.
func (w *World) Templates() []Template {
	out := make([]Template, 0, len(w.templates))
	for _, t := range w.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Instance returns a copy of the instance with the given id.
func (w *World) Instance(id model.InstanceID) (Instance, bool) {
	inst, ok := w.instances[id]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

// Instances returns copies of every instance in spawn order.
func (w *World) Instances() []Instance {
	out := make([]Instance, 0, w.order.Len())
	for _, id := range w.order.IDs() {
		out = append(out, *w.instances[id])
	}
	return out
}

func (w *World) Len() int {
	return w.order.Len()
}

// Describe returns a description of the current world, instances included.
func (w *World) Describe() Description {
	return Description{
		Name:      w.Name,
		Surfaces:  append([]Surface(nil), w.surfaces...),
		Templates: w.Templates(),
		Instances: w.Instances(),
	}
}

// Query returns the nearest surface or instance hit along ray. Rays that
// start inside a collider do not hit it.
func (w *World) Query(ray model.Ray) (model.Hit, bool) {
	dir := ray.Direction.Normal()
	if dir.IsZero() {
		return model.Hit{}, false
	}
	best := model.Hit{Distance: math32.Inf(1)}
	found := false
	consider := func(h model.Hit) {
		if h.Distance < best.Distance {
			best = h
			found = true
		}
	}

	for _, s := range w.surfaces {
		var (
			t  float32
			n  model.Vec3
			ok bool
		)
		switch s.Kind {
		case SurfacePlane:
			t, ok = rayPlane(ray.Origin, dir, s.Point, s.Normal)
			n = s.Normal
		case SurfaceBox:
			t, n, ok = rayBox(ray.Origin, dir, s.Min, s.Max)
		}
		if ok {
			consider(model.Hit{
				Point: ray.Origin.Add(dir.MulScalar(t)), Normal: n, Distance: t,
				Surface: s.ID, Layer: s.Layer, Tag: s.Tag,
			})
		}
	}
	for _, id := range w.order.IDs() {
		inst := w.instances[id]
		lo, hi := inst.Bounds()
		if t, n, ok := rayBox(ray.Origin, dir, lo, hi); ok {
			consider(model.Hit{
				Point: ray.Origin.Add(dir.MulScalar(t)), Normal: n, Distance: t,
				Collider: id, Layer: inst.Layer, Tag: inst.Tag,
			})
		}
	}
	return best, found
}

// Instantiate spawns tmpl. Asset templates are looked up in the catalog;
// scene templates clone the live instance named by tmpl.ID.
func (w *World) Instantiate(tmpl model.TemplateRef, pos model.Vec3, rot model.Quat) (model.InstanceID, error) {
	inst := &Instance{Position: pos, Rotation: rot, Scale: model.One3}
	if tmpl.InScene {
		src, ok := w.instances[model.InstanceID(tmpl.ID)]
		if !ok {
			return "", fmt.Errorf("scene object %q not found", tmpl.ID)
		}
		inst.Template, inst.Name, inst.Size = src.Template, src.Name, src.Size
		inst.Layer, inst.Tag, inst.Scale = src.Layer, src.Tag, src.Scale
	} else {
		t, ok := w.templates[tmpl.ID]
		if !ok {
			return "", fmt.Errorf("template %q not found", tmpl.ID)
		}
		inst.Template, inst.Name, inst.Size = t.ID, t.Name, t.Size
		inst.Layer, inst.Tag = t.Layer, t.Tag
	}
	inst.ID = newInstanceID()
	w.instances[inst.ID] = inst
	w.order.Add(inst.ID)
	return inst.ID, nil
}

func (w *World) Destroy(id model.InstanceID) error {
	if _, ok := w.instances[id]; !ok {
		return fmt.Errorf("instance %q not found", id)
	}
	delete(w.instances, id)
	w.order.Remove(id)
	return nil
}

func (w *World) SetParent(id model.InstanceID, container string) error {
	inst, ok := w.instances[id]
	if !ok {
		return fmt.Errorf("instance %q not found", id)
	}
	inst.Parent = container
	return nil
}

func (w *World) SetTransform(id model.InstanceID, rot model.Quat, scale model.Vec3) error {
	inst, ok := w.instances[id]
	if !ok {
		return fmt.Errorf("instance %q not found", id)
	}
	inst.Rotation = rot
	inst.Scale = scale
	return nil
}

func (w *World) Position(id model.InstanceID) (model.Vec3, bool) {
	inst, ok := w.instances[id]
	if !ok {
		return model.Vec3{}, false
	}
	return inst.Position, true
}
