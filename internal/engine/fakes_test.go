package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

// groundPlane is a y=0 plane that reports a fixed normal, layer and tag.
type groundPlane struct {
	normal   model.Vec3
	layer    int
	tag      string
	collider model.InstanceID
	// fixed, when set, makes every query hit this point
	fixed   *model.Vec3
	queries int
}

func newGround() *groundPlane {
	return &groundPlane{normal: model.Up}
}

func (g *groundPlane) Query(ray model.Ray) (model.Hit, bool) {
	g.queries++
	hit := model.Hit{Normal: g.normal, Layer: g.layer, Tag: g.tag, Collider: g.collider}
	if g.fixed != nil {
		hit.Point = *g.fixed
		return hit, true
	}
	d := ray.Direction.Normal()
	if d.Y >= 0 || ray.Origin.Y <= 0 {
		return model.Hit{}, false
	}
	t := -ray.Origin.Y / d.Y
	hit.Point = ray.Origin.Add(d.MulScalar(t))
	hit.Point.Y = 0
	hit.Distance = t
	return hit, true
}

type fakeInstance struct {
	tmpl   model.TemplateRef
	pos    model.Vec3
	rot    model.Quat
	scale  model.Vec3
	parent string
}

type fakeFactory struct {
	next      int
	instances map[model.InstanceID]*fakeInstance
	destroyed []model.InstanceID
	failNext  bool
}

func newFactory() *fakeFactory {
	return &fakeFactory{instances: make(map[model.InstanceID]*fakeInstance)}
}

func (f *fakeFactory) Instantiate(tmpl model.TemplateRef, pos model.Vec3, rot model.Quat) (model.InstanceID, error) {
	if f.failNext {
		f.failNext = false
		return "", errors.New("template missing")
	}
	f.next++
	id := model.InstanceID(fmt.Sprintf("inst-%d", f.next))
	f.instances[id] = &fakeInstance{tmpl: tmpl, pos: pos, rot: rot, scale: model.One3}
	return id, nil
}

func (f *fakeFactory) add(id model.InstanceID, pos model.Vec3) {
	f.instances[id] = &fakeInstance{pos: pos, rot: model.Identity, scale: model.One3}
}

func (f *fakeFactory) Destroy(id model.InstanceID) error {
	if _, ok := f.instances[id]; !ok {
		return errors.New("no such instance")
	}
	delete(f.instances, id)
	f.destroyed = append(f.destroyed, id)
	return nil
}

func (f *fakeFactory) SetParent(id model.InstanceID, container string) error {
	f.instances[id].parent = container
	return nil
}

func (f *fakeFactory) SetTransform(id model.InstanceID, rot model.Quat, scale model.Vec3) error {
	f.instances[id].rot = rot
	f.instances[id].scale = scale
	return nil
}

func (f *fakeFactory) Position(id model.InstanceID) (model.Vec3, bool) {
	inst, ok := f.instances[id]
	if !ok {
		return model.Vec3{}, false
	}
	return inst.pos, true
}

type labelRecorder struct {
	labels map[model.InstanceID]string
}

func (r *labelRecorder) RecordCreation(id model.InstanceID, label string) {
	if r.labels == nil {
		r.labels = make(map[model.InstanceID]string)
	}
	r.labels[id] = label
}

type strokeJournal struct {
	strokes [][]model.InstanceID
}

func (j *strokeJournal) RecordCreation(id model.InstanceID, label string) {
	if len(j.strokes) == 0 {
		j.BeginStroke()
	}
	last := len(j.strokes) - 1
	j.strokes[last] = append(j.strokes[last], id)
}

func (j *strokeJournal) BeginStroke() {
	j.strokes = append(j.strokes, nil)
}

func (j *strokeJournal) PopStroke() ([]model.InstanceID, bool) {
	if len(j.strokes) == 0 {
		return nil, false
	}
	last := j.strokes[len(j.strokes)-1]
	j.strokes = j.strokes[:len(j.strokes)-1]
	return last, true
}

func testSettings() model.PaintSettings {
	s := model.DefaultPaintSettings()
	s.Seed = 1
	return s
}

func newTestEngine(surface SurfaceQuery, factory InstanceFactory, opts ...Option) *Engine {
	opts = append([]Option{WithRand(rand.New(rand.NewSource(42)))}, opts...)
	return New(testSettings(), surface, factory, opts...)
}

func downRay(x, z float32) model.Ray {
	return model.Ray{Origin: model.V3(x, 100, z), Direction: model.V3(0, -1, 0)}
}

func testBrush(name string) *model.BrushConfig {
	return model.NewBrush(model.TemplateRef{ID: name, Name: name})
}

func vecPtr(v model.Vec3) *model.Vec3 {
	return &v
}
