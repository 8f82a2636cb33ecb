package engine

import (
	"encoding/json"
	"testing"

	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() (*Session, *fakeFactory, *model.BrushCollection) {
	factory := newFactory()
	e := newTestEngine(newGround(), factory)
	coll := model.NewBrushCollection("c")
	b := testBrush("pine")
	coll.Add(b)
	coll.Select(b, false)
	return NewSession(e, coll), factory, coll
}

func TestSession_ButtonDispatch(t *testing.T) {
	s, factory, coll := newTestSession()

	assert.True(t, s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonPlace, Ray: downRay(0, 0)}))
	require.NotZero(t, coll.SpawnedCount())

	assert.False(t, s.HandleEvent(PointerEvent{Kind: PointerDown, Button: 2, Ray: downRay(0, 0)}))
	assert.False(t, s.HandleEvent(PointerEvent{Kind: PointerUp, Button: ButtonPlace, Ray: downRay(0, 0)}))

	coll.Primary().SetBrushRadius(20)
	assert.True(t, s.HandleEvent(PointerEvent{Kind: PointerDrag, Button: ButtonRemove, Ray: downRay(0, 0)}))
	assert.Equal(t, 0, coll.SpawnedCount())
	assert.Empty(t, factory.instances)
}

func TestSession_InactiveIgnoresInput(t *testing.T) {
	s, _, coll := newTestSession()
	s.SetActive(false)

	assert.False(t, s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonPlace, Ray: downRay(0, 0)}))
	assert.Equal(t, 0, coll.SpawnedCount())
}

func TestSession_NoSelection(t *testing.T) {
	s, _, coll := newTestSession()
	coll.ClearSelection()

	assert.False(t, s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonPlace, Ray: downRay(0, 0)}))
	assert.False(t, s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonRemove, Ray: downRay(0, 0)}))
}

func TestSession_ApplyCachedMakesInstancesPermanent(t *testing.T) {
	s, factory, coll := newTestSession()
	s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonPlace, Ray: downRay(0, 0)})
	live := len(factory.instances)
	require.NotZero(t, live)

	s.ApplyCached()
	assert.Equal(t, 0, coll.SpawnedCount())
	assert.Equal(t, 0, s.Engine().Tracker().Len())

	coll.Primary().SetBrushRadius(20)
	assert.False(t, s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonRemove, Ray: downRay(0, 0)}))
	assert.Len(t, factory.instances, live)
}

func TestSession_DeleteSpawned(t *testing.T) {
	s, factory, coll := newTestSession()
	s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonPlace, Ray: downRay(0, 0)})
	placed := coll.SpawnedCount()

	assert.Equal(t, placed, s.DeleteSpawned())
	assert.Empty(t, factory.instances)
	assert.Equal(t, 0, coll.SpawnedCount())
	assert.Equal(t, 0, s.Engine().Tracker().Len())
}

func TestSession_SwitchCollection(t *testing.T) {
	s, _, _ := newTestSession()
	s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonPlace, Ray: downRay(0, 0)})

	other := model.NewBrushCollection("other")
	s.SwitchCollection(other)
	assert.Same(t, other, s.Collection())
	assert.Equal(t, 0, s.Engine().Tracker().Len())
}

func TestSession_UndoLastStroke(t *testing.T) {
	factory := newFactory()
	journal := &strokeJournal{}
	e := newTestEngine(newGround(), factory, WithUndo(journal))
	coll := model.NewBrushCollection("c")
	b := testBrush("pine")
	coll.Add(b)
	coll.Select(b, false)
	s := NewSession(e, coll)
	s.Journal = journal

	s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonPlace, Ray: downRay(0, 0)})
	first := coll.SpawnedCount()
	s.HandleEvent(PointerEvent{Kind: PointerDown, Button: ButtonPlace, Ray: downRay(40, 40)})
	s.HandleEvent(PointerEvent{Kind: PointerDrag, Button: ButtonPlace, Ray: downRay(60, 60)})
	require.Len(t, journal.strokes, 2)
	second := len(journal.strokes[1])

	assert.Equal(t, second, s.UndoLastStroke())
	assert.Equal(t, first, coll.SpawnedCount())
	assert.Equal(t, first, e.Tracker().Len())

	s.ApplyCached()
	assert.Equal(t, 0, s.UndoLastStroke(), "committed instances are not undone")
	assert.Equal(t, 0, s.UndoLastStroke())
}

func TestPointerEventJSON(t *testing.T) {
	var ev PointerEvent
	data := `{"kind":"drag","button":1,"ray":{"origin":{"x":1,"y":2,"z":3},"direction":{"x":0,"y":-1,"z":0}}}`
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, PointerDrag, ev.Kind)
	assert.Equal(t, ButtonRemove, ev.Button)
	assert.Equal(t, model.V3(1, 2, 3), ev.Ray.Origin)

	out, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"kind":"drag"`)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"hover"}`), &ev))
}
