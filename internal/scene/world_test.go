package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/ScatterBrush/internal/engine"
	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ engine.SurfaceQuery    = (*World)(nil)
	_ engine.InstanceFactory = (*World)(nil)
)

func testWorld() *World {
	return NewWorld(Description{
		Name: "test",
		Surfaces: []Surface{
			{ID: "ground", Kind: SurfacePlane, Point: model.V3(0, 0, 0), Normal: model.V3(0, 2, 0), Layer: 0, Tag: "Ground"},
			{ID: "crate", Kind: SurfaceBox, Min: model.V3(10, 0, 10), Max: model.V3(12, 2, 12), Layer: 3, Tag: "Prop"},
		},
		Templates: []Template{
			{ID: "pine", Name: "Pine", Size: model.V3(1, 4, 1), Layer: 8, Tag: "Tree"},
		},
	})
}

func down(x, z float32) model.Ray {
	return model.Ray{Origin: model.V3(x, 50, z), Direction: model.V3(0, -1, 0)}
}

func TestQuery_Plane(t *testing.T) {
	w := testWorld()
	hit, ok := w.Query(down(3, 4))
	require.True(t, ok)
	assert.Equal(t, model.V3(3, 0, 4), hit.Point)
	assert.Equal(t, model.Up, hit.Normal)
	assert.Equal(t, "ground", hit.Surface)
	assert.Equal(t, "Ground", hit.Tag)
	assert.InDelta(t, 50, hit.Distance, 1e-4)
}

func TestQuery_PlaneBackFaceMisses(t *testing.T) {
	w := testWorld()
	_, ok := w.Query(model.Ray{Origin: model.V3(0, -5, 0), Direction: model.Up})
	assert.False(t, ok)
}

func TestQuery_NearestWins(t *testing.T) {
	w := testWorld()
	hit, ok := w.Query(down(11, 11))
	require.True(t, ok)
	assert.Equal(t, "crate", hit.Surface)
	assert.Equal(t, 3, hit.Layer)
	assert.InDelta(t, 2, hit.Point.Y, 1e-4)
	assert.Equal(t, model.Up, hit.Normal)
}

func TestQuery_BoxSideNormal(t *testing.T) {
	w := testWorld()
	hit, ok := w.Query(model.Ray{Origin: model.V3(0, 1, 11), Direction: model.V3(1, 0, 0)})
	require.True(t, ok)
	assert.Equal(t, model.V3(-1, 0, 0), hit.Normal)
	assert.InDelta(t, 10, hit.Point.X, 1e-4)
}

func TestQuery_OriginInsideBoxIgnoresIt(t *testing.T) {
	w := testWorld()
	hit, ok := w.Query(model.Ray{Origin: model.V3(11, 1, 11), Direction: model.V3(0, -1, 0)})
	require.True(t, ok)
	assert.Equal(t, "ground", hit.Surface)
}

func TestQuery_ZeroDirection(t *testing.T) {
	_, ok := testWorld().Query(model.Ray{Origin: model.V3(0, 5, 0)})
	assert.False(t, ok)
}

func TestInstantiateAndQueryInstance(t *testing.T) {
	w := testWorld()
	id, err := w.Instantiate(model.TemplateRef{ID: "pine"}, model.V3(-5, 0, -5), model.Identity)
	require.NoError(t, err)
	require.NoError(t, w.SetTransform(id, model.Identity, model.V3(2, 2, 2)))
	require.NoError(t, w.SetParent(id, "forest"))

	hit, ok := w.Query(down(-5, -5))
	require.True(t, ok)
	assert.Equal(t, id, hit.Collider)
	assert.Equal(t, "Tree", hit.Tag)
	assert.Equal(t, 8, hit.Layer)
	assert.InDelta(t, 8, hit.Point.Y, 1e-4, "pine is 4 tall at scale 2")

	inst, ok := w.Instance(id)
	require.True(t, ok)
	assert.Equal(t, "forest", inst.Parent)
	assert.Equal(t, "Pine", inst.Name)
}

func TestInstantiateUnknownTemplate(t *testing.T) {
	w := testWorld()
	_, err := w.Instantiate(model.TemplateRef{ID: "oak"}, model.Vec3{}, model.Identity)
	assert.Error(t, err)
	assert.Equal(t, 0, w.Len())
}

func TestInstantiateSceneTemplateClones(t *testing.T) {
	w := testWorld()
	src, err := w.Instantiate(model.TemplateRef{ID: "pine"}, model.V3(1, 0, 1), model.Identity)
	require.NoError(t, err)
	require.NoError(t, w.SetTransform(src, model.Identity, model.V3(3, 3, 3)))

	clone, err := w.Instantiate(model.TemplateRef{ID: string(src), InScene: true}, model.V3(20, 0, 20), model.Identity)
	require.NoError(t, err)
	inst, _ := w.Instance(clone)
	assert.Equal(t, "pine", inst.Template)
	assert.Equal(t, model.V3(3, 3, 3), inst.Scale)

	_, err = w.Instantiate(model.TemplateRef{ID: "nope", InScene: true}, model.Vec3{}, model.Identity)
	assert.Error(t, err)
}

func TestDestroyAndPosition(t *testing.T) {
	w := testWorld()
	a, _ := w.Instantiate(model.TemplateRef{ID: "pine"}, model.V3(1, 0, 0), model.Identity)
	b, _ := w.Instantiate(model.TemplateRef{ID: "pine"}, model.V3(2, 0, 0), model.Identity)

	p, ok := w.Position(b)
	require.True(t, ok)
	assert.Equal(t, model.V3(2, 0, 0), p)

	require.NoError(t, w.Destroy(a))
	assert.Error(t, w.Destroy(a))
	_, ok = w.Position(a)
	assert.False(t, ok)
	require.Len(t, w.Instances(), 1)
	assert.Equal(t, b, w.Instances()[0].ID)
	assert.Error(t, w.SetParent(a, "x"))
	assert.Error(t, w.SetTransform(a, model.Identity, model.One3))
}

func TestWorldWithEngine(t *testing.T) {
	w := testWorld()
	e := engine.New(model.PaintSettings{PlacingEnabled: true, ErasingEnabled: true, Seed: 7}, w, w)
	coll := model.NewBrushCollection("forest")
	pine := model.NewBrush(model.TemplateRef{ID: "pine", Name: "Pine"})
	pine.Filters.TagFilterEnabled = true
	pine.Filters.TagFilter = "Ground"
	coll.Add(pine)
	coll.Select(pine, false)
	s := engine.NewSession(e, coll)

	require.True(t, s.HandleEvent(engine.PointerEvent{Kind: engine.PointerDown, Button: engine.ButtonPlace, Ray: down(-20, -20)}))
	assert.Equal(t, coll.SpawnedCount(), w.Len())
	for _, inst := range w.Instances() {
		assert.Equal(t, float32(0), inst.Position.Y)
		assert.GreaterOrEqual(t, inst.Scale.X, float32(0.5))
		assert.LessOrEqual(t, inst.Scale.X, float32(1.5))
	}

	// pines are tagged Tree, so painting over them is filtered out
	pine.SetBrushRadius(0)
	first := w.Instances()[0]
	top := model.Ray{Origin: first.Position.Add(model.V3(0, 50, 0)), Direction: model.V3(0, -1, 0)}
	assert.False(t, s.HandleEvent(engine.PointerEvent{Kind: engine.PointerDown, Button: engine.ButtonPlace, Ray: top}))

	pine.SetBrushRadius(30)
	require.True(t, s.HandleEvent(engine.PointerEvent{Kind: engine.PointerDown, Button: engine.ButtonRemove, Ray: down(-20, -20)}))
	assert.Equal(t, 0, w.Len())
}

func TestLoadAndSaveWorld(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	yamlDoc := `name: meadow
surfaces:
  - id: ground
    kind: plane
    point: {x: 0, y: 0, z: 0}
    normal: {x: 0, y: 1, z: 0}
    layer: 0
    tag: Ground
templates:
  - id: rock
    name: Rock
    size: {x: 1, y: 1, z: 1}
    layer: 2
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0644))

	w, err := LoadWorld(path)
	require.NoError(t, err)
	assert.Equal(t, "meadow", w.Name)
	_, ok := w.Template("rock")
	assert.True(t, ok)

	_, err = w.Instantiate(model.TemplateRef{ID: "rock"}, model.V3(1, 0, 1), model.Identity)
	require.NoError(t, err)

	out := filepath.Join(dir, "out.json")
	require.NoError(t, SaveWorld(out, w))
	again, err := LoadWorld(out)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Len())
}

func TestLoadWorldRejectsBadSurfaces(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"surfaces":[{"id":"x","kind":"sphere"}]}`), 0644))
	_, err := LoadWorld(bad)
	assert.Error(t, err)

	_, err = LoadWorld(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
