package engine

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

// Engine scatters brush templates onto surfaces and erases what it spawned.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	Settings model.PaintSettings

	surface SurfaceQuery
	factory InstanceFactory
	undo    UndoRecorder
	tracker *SpacingTracker
	rng     *rand.Rand
	log     *slog.Logger
	stats   Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for jitter, rotation and scale.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

func WithUndo(u UndoRecorder) Option {
	return func(e *Engine) { e.undo = u }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTracker shares a spacing tracker with the engine.
func WithTracker(t *SpacingTracker) Option {
	return func(e *Engine) { e.tracker = t }
}

// New creates an engine. Without WithRand the random source is seeded from
// settings.Seed, or from the clock when the seed is zero.
func New(settings model.PaintSettings, surface SurfaceQuery, factory InstanceFactory, opts ...Option) *Engine {
	e := &Engine{
		Settings: settings,
		surface:  surface,
		factory:  factory,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := settings.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}
	if e.tracker == nil {
		e.tracker = NewSpacingTracker()
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Tracker returns the spacing tracker used by the engine.
func (e *Engine) Tracker() *SpacingTracker {
	return e.tracker
}

// Factory returns the instance factory used by the engine.
func (e *Engine) Factory() InstanceFactory {
	return e.factory
}

// SpawnCount is the number of placement attempts a brush makes per event:
// density times radius, rounded half to even, at least one.
func SpawnCount(b *model.BrushConfig) int {
	n := int(math.RoundToEven(float64(b.Details.Density) * float64(b.Details.BrushRadius)))
	if n < 1 {
		return 1
	}
	return n
}

// CreationLabel is the undo label recorded for instances spawned by b.
func CreationLabel(b *model.BrushConfig) string {
	return fmt.Sprintf("Created %s with brush", b.Name())
}

// Place runs a placement pass for every brush along ray. It reports whether
// at least one instance was created.
func (e *Engine) Place(coll *model.BrushCollection, brushes []*model.BrushConfig, ray model.Ray) bool {
	if !e.Settings.PlacingEnabled || coll == nil || len(brushes) == 0 {
		return false
	}
	placed := 0
	for _, b := range brushes {
		if b == nil || b.Template.IsZero() {
			continue
		}
		n := SpawnCount(b)
		for i := 0; i < n; i++ {
			if e.placeOne(coll, b, ray) {
				placed++
			}
		}
	}
	e.log.Debug("place", "brushes", len(brushes), "placed", placed, "tracked", e.tracker.Len())
	return placed > 0
}

func (e *Engine) placeOne(coll *model.BrushCollection, b *model.BrushConfig, ray model.Ray) bool {
	e.stats.Attempts++
	r := b.Details.BrushRadius
	jittered := model.Ray{
		Origin:    ray.Origin.Add(model.V3(e.jitter(r), e.jitter(r), e.jitter(r))),
		Direction: ray.Direction,
	}
	hit, ok := e.surface.Query(jittered)
	if !ok {
		e.stats.Misses++
		return false
	}
	if reason := e.reject(coll, b, hit); reason != rejectNone {
		e.stats.count(reason)
		e.log.Debug("attempt rejected", "brush", b.ID, "reason", reason.String())
		return false
	}

	pos := hit.Point.Add(b.Details.Offset)
	id, err := e.factory.Instantiate(b.Template, pos, model.Identity)
	if err != nil {
		e.stats.FactoryErrors++
		e.log.Warn("instantiate failed", "template", b.Template.ID, "err", err)
		return false
	}
	if b.Parent != "" {
		if err := e.factory.SetParent(id, b.Parent); err != nil {
			e.log.Warn("reparent failed", "instance", id, "parent", b.Parent, "err", err)
		}
	}
	if e.undo != nil {
		e.undo.RecordCreation(id, CreationLabel(b))
	}

	rot := model.Identity
	if b.Details.AlignToSurface {
		rot = model.FromToRotation(model.Up, hit.Normal)
	}
	rot = rot.Mul(model.Euler(e.eulerAngles(b.Details)))
	s := e.scale(b.Details)
	if err := e.factory.SetTransform(id, rot, model.V3(s, s, s)); err != nil {
		e.log.Warn("set transform failed", "instance", id, "err", err)
	}

	coll.Register(id)
	e.tracker.Record(id, hit.Point)
	e.stats.Placed++
	return true
}

type rejectReason int

const (
	rejectNone rejectReason = iota
	rejectSpacing
	rejectIntercollision
	rejectSlope
	rejectLayer
	rejectTag
)

func (r rejectReason) String() string {
	switch r {
	case rejectSpacing:
		return "spacing"
	case rejectIntercollision:
		return "intercollision"
	case rejectSlope:
		return "slope"
	case rejectLayer:
		return "layer"
	case rejectTag:
		return "tag"
	default:
		return "none"
	}
}

// reject applies the placement filters in order and returns the first that
// fails.
func (e *Engine) reject(coll *model.BrushCollection, b *model.BrushConfig, hit model.Hit) rejectReason {
	if e.tracker.IsWithinRange(hit.Point, b.Details.BrushRadius, b.Details.Density) {
		return rejectSpacing
	}
	if !b.Details.AllowIntercollision && hit.Collider != "" && coll.IsRegistered(hit.Collider) {
		return rejectIntercollision
	}
	slope := model.Up.AngleTo(hit.Normal)
	if slope < b.Filters.MinSlope || slope > b.Filters.MaxSlope {
		return rejectSlope
	}
	if !b.Filters.LayerMask.Contains(hit.Layer) {
		return rejectLayer
	}
	if b.Filters.TagFilterEnabled && hit.Tag != b.Filters.TagFilter {
		return rejectTag
	}
	return rejectNone
}

func (e *Engine) jitter(r float32) float32 {
	return (e.rng.Float32()*2 - 1) * r
}

func (e *Engine) eulerAngles(d model.BrushDetails) model.Vec3 {
	rot := d.RotOffset
	if d.RandomizeX {
		rot.X = e.rng.Float32() * 360
	}
	if d.RandomizeY {
		rot.Y = e.rng.Float32() * 360
	}
	if d.RandomizeZ {
		rot.Z = e.rng.Float32() * 360
	}
	return rot
}

func (e *Engine) scale(d model.BrushDetails) float32 {
	return d.MinScale + e.rng.Float32()*(d.MaxScale-d.MinScale)
}

// Remove erases registered instances within each brush's radius of the point
// hit by ray. It reports whether at least one instance was removed.
func (e *Engine) Remove(coll *model.BrushCollection, brushes []*model.BrushConfig, ray model.Ray) bool {
	if !e.Settings.ErasingEnabled || coll == nil || len(brushes) == 0 {
		return false
	}
	removed := 0
	for _, b := range brushes {
		if b == nil {
			continue
		}
		hit, ok := e.surface.Query(ray)
		if !ok {
			continue
		}
		var doomed []model.InstanceID
		for _, id := range coll.Spawned() {
			pos, ok := e.factory.Position(id)
			if !ok {
				e.forget(coll, id)
				e.stats.Pruned++
				continue
			}
			if pos.DistanceTo(hit.Point) < b.Details.BrushRadius {
				doomed = append(doomed, id)
			}
		}
		for _, id := range doomed {
			if err := e.factory.Destroy(id); err != nil {
				e.log.Warn("destroy failed", "instance", id, "err", err)
			}
			e.forget(coll, id)
			e.stats.Removed++
			removed++
		}
	}
	e.log.Debug("remove", "brushes", len(brushes), "removed", removed, "tracked", e.tracker.Len())
	return removed > 0
}

func (e *Engine) forget(coll *model.BrushCollection, id model.InstanceID) {
	e.tracker.Forget(id)
	coll.Unregister(id)
}
