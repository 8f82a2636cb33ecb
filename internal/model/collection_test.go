package model

import (
	"errors"
	"testing"
)

func newTestCollection(names ...string) (*BrushCollection, []*BrushConfig) {
	c := NewBrushCollection("test")
	var brushes []*BrushConfig
	for _, n := range names {
		b := NewBrush(TemplateRef{ID: n, Name: n})
		c.Add(b)
		brushes = append(brushes, b)
	}
	return c, brushes
}

type fakeDestroyer struct {
	destroyed []InstanceID
	fail      map[InstanceID]bool
}

func (f *fakeDestroyer) Destroy(id InstanceID) error {
	if f.fail[id] {
		return errors.New("gone")
	}
	f.destroyed = append(f.destroyed, id)
	return nil
}

func TestNewBrushCollectionDefaultName(t *testing.T) {
	c := NewBrushCollection("")
	if c.Name != DefaultCollectionName {
		t.Errorf("expected %q, got %q", DefaultCollectionName, c.Name)
	}
	if c.ID == "" {
		t.Error("collection should get an id")
	}
}

func TestSelectWithoutExtend(t *testing.T) {
	c, b := newTestCollection("a", "b", "c")
	c.Select(b[0], false)
	c.Select(b[1], true)
	c.Select(b[2], false)

	sel := c.Selected()
	if len(sel) != 1 || sel[0] != b[2] {
		t.Errorf("expected only c selected, got %v", c.SelectedNames())
	}
	if c.Primary() != b[2] {
		t.Errorf("expected primary c, got %v", c.Primary())
	}
}

func TestSelectExtendTogglesOnlyMembership(t *testing.T) {
	c, b := newTestCollection("a", "b", "c")
	c.Select(b[0], false)

	c.Select(b[1], true)
	if !c.IsSelected(b[1]) || c.Primary() != b[0] {
		t.Fatalf("extend add should keep primary a, got primary %v", c.Primary())
	}
	c.Select(b[1], true)
	if c.IsSelected(b[1]) {
		t.Error("second extend should toggle b out")
	}
	if c.Primary() != b[0] || !c.IsSelected(b[0]) {
		t.Error("primary should be unchanged")
	}
}

func TestSelectExtendOnPrimary(t *testing.T) {
	c, b := newTestCollection("a", "b")
	c.Select(b[0], false)
	c.Select(b[1], true)

	c.Select(b[0], true)
	if c.IsSelected(b[0]) {
		t.Fatal("a should be toggled out")
	}
	if c.Primary() != nil {
		t.Error("a deselected primary must not be reported")
	}

	c.Select(b[0], true)
	if c.Primary() != b[0] {
		t.Error("re-selecting the primary should report it again")
	}
}

func TestSelectedAlwaysContainsPrimary(t *testing.T) {
	c, b := newTestCollection("a", "b", "c")
	ops := []struct {
		brush  *BrushConfig
		extend bool
	}{
		{b[0], false}, {b[1], true}, {b[0], true}, {b[2], false}, {b[2], true}, {b[1], true}, {b[2], true},
	}
	for i, op := range ops {
		c.Select(op.brush, op.extend)
		if p := c.Primary(); p != nil && !c.IsSelected(p) {
			t.Fatalf("step %d: primary %s not in selection", i, p.Name())
		}
	}
}

func TestRemoveDropsFromSelection(t *testing.T) {
	c, b := newTestCollection("a", "b")
	c.Select(b[0], false)
	c.Select(b[1], true)

	c.Remove(b[0])
	if len(c.Brushes) != 1 {
		t.Fatalf("expected 1 brush, got %d", len(c.Brushes))
	}
	if c.IsSelected(b[0]) || c.Primary() != nil {
		t.Error("removed brush should leave selection and primary")
	}
	if !c.IsSelected(b[1]) {
		t.Error("other selected brush should stay selected")
	}
}

func TestRemoveDuplicateKeepsSelection(t *testing.T) {
	c, b := newTestCollection("a")
	c.Add(b[0])
	c.Select(b[0], false)

	c.Remove(b[0])
	if len(c.Brushes) != 1 {
		t.Fatalf("expected 1 brush left, got %d", len(c.Brushes))
	}
	if c.Primary() != b[0] {
		t.Error("brush still in collection should stay selected")
	}
}

func TestRemoveSelected(t *testing.T) {
	c, b := newTestCollection("a", "b", "c")
	c.Select(b[0], false)
	c.Select(b[2], true)

	c.RemoveSelected()
	if len(c.Brushes) != 1 || c.Brushes[0] != b[1] {
		t.Errorf("expected only b left, got %d brushes", len(c.Brushes))
	}
	if len(c.Selected()) != 0 || c.Primary() != nil {
		t.Error("selection should be empty")
	}
}

func TestRemoveAllKeepsSpawned(t *testing.T) {
	c, b := newTestCollection("a", "b")
	c.Select(b[0], false)
	c.Register("i1")

	c.RemoveAll()
	if len(c.Brushes) != 0 || len(c.Selected()) != 0 || c.Primary() != nil {
		t.Error("expected empty collection and selection")
	}
	if c.SpawnedCount() != 1 {
		t.Error("RemoveAll should not touch spawned instances")
	}
}

func TestApplyCachedDoesNotDestroy(t *testing.T) {
	c, _ := newTestCollection("a")
	c.Register("i1")
	c.Register("i2")

	c.ApplyCached()
	if c.SpawnedCount() != 0 {
		t.Errorf("expected empty registry, got %d", c.SpawnedCount())
	}
	// a later delete has nothing left to destroy
	d := &fakeDestroyer{}
	if n := c.DeleteSpawned(d); n != 0 || len(d.destroyed) != 0 {
		t.Errorf("expected nothing destroyed after apply, got %v", d.destroyed)
	}
}

func TestDeleteSpawnedDestroysAll(t *testing.T) {
	c, _ := newTestCollection("a")
	for _, id := range []InstanceID{"i1", "i2", "i3"} {
		c.Register(id)
	}
	d := &fakeDestroyer{fail: map[InstanceID]bool{"i2": true}}

	n := c.DeleteSpawned(d)
	if n != 2 {
		t.Errorf("expected 2 destroyed, got %d", n)
	}
	if len(d.destroyed) != 2 || d.destroyed[0] != "i1" || d.destroyed[1] != "i3" {
		t.Errorf("unexpected destroy order %v", d.destroyed)
	}
	if c.SpawnedCount() != 0 {
		t.Error("registry should be empty after delete")
	}
}

func TestEmptyCollectionOpsAreIdempotent(t *testing.T) {
	c := NewBrushCollection("empty")
	c.RemoveSelected()
	c.RemoveAll()
	c.ApplyCached()
	c.DeleteSpawned(&fakeDestroyer{})
	c.ApplyCached()
	if len(c.Brushes) != 0 || c.SpawnedCount() != 0 || c.Primary() != nil {
		t.Error("empty collection should stay empty")
	}
}

func TestRegistryOrder(t *testing.T) {
	c, _ := newTestCollection()
	c.Register("x")
	c.Register("y")
	c.Register("z")
	c.Register("y")
	if !c.Unregister("y") {
		t.Fatal("expected y to be registered")
	}
	if c.Unregister("y") {
		t.Error("y should already be gone")
	}
	ids := c.Spawned()
	if len(ids) != 2 || ids[0] != "x" || ids[1] != "z" {
		t.Errorf("unexpected registry %v", ids)
	}
	if !c.IsRegistered("z") || c.IsRegistered("y") {
		t.Error("IsRegistered disagrees with Spawned")
	}
}

func TestSelectedNamesAndMaxRadius(t *testing.T) {
	c, b := newTestCollection("Pine", "Rock", "Bush")
	b[1].SetBrushRadius(12)
	b[2].SetBrushRadius(20)
	c.Select(b[0], false)
	c.Select(b[1], true)

	if got := c.SelectedNames(); got != "Pine, Rock" {
		t.Errorf("expected %q, got %q", "Pine, Rock", got)
	}
	if r := c.MaxSelectedRadius(); r != 12 {
		t.Errorf("expected max radius 12, got %f", r)
	}
}

func TestRestoreSelection(t *testing.T) {
	c, b := newTestCollection("a", "b", "c")
	c.RestoreSelection(b[1].ID, []string{b[1].ID, b[2].ID, "missing"})

	if c.Primary() != b[1] {
		t.Errorf("expected primary b")
	}
	primary, ids := c.SelectionIDs()
	if primary != b[1].ID || len(ids) != 2 || ids[1] != b[2].ID {
		t.Errorf("unexpected selection %s %v", primary, ids)
	}
}

func TestSelectAll(t *testing.T) {
	c, b := newTestCollection("a", "b", "c")
	c.SelectAll()
	if len(c.Selected()) != 3 || c.Primary() != b[0] {
		t.Errorf("expected all selected with a primary, got %s", c.SelectedNames())
	}
}
