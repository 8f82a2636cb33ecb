package engine

import (
	"fmt"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

// PointerKind is the phase of a pointer interaction.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerDrag
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerDrag:
		return "drag"
	default:
		return "up"
	}
}

func (k PointerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PointerKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "down":
		*k = PointerDown
	case "drag":
		*k = PointerDrag
	case "up":
		*k = PointerUp
	default:
		return fmt.Errorf("unknown pointer kind %q", text)
	}
	return nil
}

// Pointer buttons understood by a Session.
const (
	ButtonPlace  = 0
	ButtonRemove = 1
)

// PointerEvent is a pointer interaction projected into the world as a ray.
type PointerEvent struct {
	Kind   PointerKind `json:"kind" yaml:"kind"`
	Button int         `json:"button" yaml:"button"`
	Ray    model.Ray   `json:"ray" yaml:"ray"`
}

// Session is the painting context for one open brush window: the engine,
// the active collection and whether input should be handled at all.
//
// A Session is not safe for concurrent use.
type Session struct {
	Active bool
	// Journal, when set, groups created instances by stroke so they can be
	// undone together.
	Journal Journal

	engine *Engine
	coll   *model.BrushCollection
}

// NewSession creates an active session painting with coll.
func NewSession(e *Engine, coll *model.BrushCollection) *Session {
	return &Session{Active: true, engine: e, coll: coll}
}

func (s *Session) Engine() *Engine {
	return s.engine
}

func (s *Session) Collection() *model.BrushCollection {
	return s.coll
}

func (s *Session) SetActive(active bool) {
	s.Active = active
}

// HandleEvent dispatches a pointer event: the place button places with the
// selected brushes, the remove button erases. It reports whether the world
// changed.
func (s *Session) HandleEvent(ev PointerEvent) bool {
	if !s.Active || s.coll == nil {
		return false
	}
	if ev.Kind != PointerDown && ev.Kind != PointerDrag {
		return false
	}
	switch ev.Button {
	case ButtonPlace:
		if ev.Kind == PointerDown && s.Journal != nil {
			s.Journal.BeginStroke()
		}
		return s.engine.Place(s.coll, s.coll.Selected(), ev.Ray)
	case ButtonRemove:
		return s.engine.Remove(s.coll, s.coll.Selected(), ev.Ray)
	default:
		return false
	}
}

// ApplyCached commits every spawned instance. Committed instances can no
// longer be erased and no longer constrain spacing.
func (s *Session) ApplyCached() {
	if s.coll != nil {
		s.coll.ApplyCached()
	}
	s.engine.tracker.Reset()
}

// DeleteSpawned destroys every uncommitted instance and returns how many
// were destroyed.
func (s *Session) DeleteSpawned() int {
	n := 0
	if s.coll != nil {
		n = s.coll.DeleteSpawned(s.engine.factory)
	}
	s.engine.tracker.Reset()
	return n
}

// SwitchCollection makes coll the active collection. Spacing history of the
// previous collection is dropped.
func (s *Session) SwitchCollection(coll *model.BrushCollection) {
	s.coll = coll
	s.engine.tracker.Reset()
}

// UndoLastStroke destroys the instances created by the most recent stroke
// that are still uncommitted, and returns how many were destroyed.
func (s *Session) UndoLastStroke() int {
	if s.Journal == nil || s.coll == nil {
		return 0
	}
	ids, ok := s.Journal.PopStroke()
	if !ok {
		return 0
	}
	n := 0
	for _, id := range ids {
		if !s.coll.IsRegistered(id) {
			continue
		}
		if err := s.engine.factory.Destroy(id); err != nil {
			s.engine.log.Warn("destroy failed", "instance", id, "err", err)
		}
		s.engine.forget(s.coll, id)
		n++
	}
	return n
}
