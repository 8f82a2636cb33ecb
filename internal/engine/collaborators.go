package engine

import "github.com/piwi3910/ScatterBrush/internal/model"

// SurfaceQuery casts rays into the world.
type SurfaceQuery interface {
	// Query returns the nearest hit along ray, or false when nothing is hit.
	Query(ray model.Ray) (model.Hit, bool)
}

// InstanceFactory creates and manipulates object instances in the world.
type InstanceFactory interface {
	// Instantiate spawns tmpl at pos with rot. Scene templates are cloned,
	// asset templates are materialized.
	Instantiate(tmpl model.TemplateRef, pos model.Vec3, rot model.Quat) (model.InstanceID, error)
	Destroy(id model.InstanceID) error
	SetParent(id model.InstanceID, container string) error
	SetTransform(id model.InstanceID, rot model.Quat, scale model.Vec3) error
	// Position returns the world position of id, or false if it no longer
	// exists.
	Position(id model.InstanceID) (model.Vec3, bool)
}

// UndoRecorder is told about every instance the engine creates.
type UndoRecorder interface {
	RecordCreation(id model.InstanceID, label string)
}

// Journal is an UndoRecorder that groups creations by pointer stroke.
type Journal interface {
	UndoRecorder
	BeginStroke()
	PopStroke() ([]model.InstanceID, bool)
}
