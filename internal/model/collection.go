package model

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultCollectionName is used when a collection is created without a name.
const DefaultCollectionName = "Default Brush Collection"

// Destroyer removes spawned instances from the world.
type Destroyer interface {
	Destroy(id InstanceID) error
}

// BrushCollection is a named, ordered set of brushes together with the
// current selection and the registry of instances spawned since the last
// commit. Registered instances are erasable; once the registry is cleared
// they become permanent.
//
// A BrushCollection is not safe for concurrent use.
type BrushCollection struct {
	ID      string
	Name    string
	Brushes []*BrushConfig

	primary  *BrushConfig
	selected []*BrushConfig
	spawned  Registry
}

// NewBrushCollection creates an empty collection with a fresh id.
func NewBrushCollection(name string) *BrushCollection {
	if name == "" {
		name = DefaultCollectionName
	}
	return &BrushCollection{
		ID:   uuid.New().String(),
		Name: name,
	}
}

// Add appends b. Nil brushes are ignored.
func (c *BrushCollection) Add(b *BrushConfig) {
	if b == nil {
		return
	}
	c.Brushes = append(c.Brushes, b)
}

// IndexOf returns the position of the first occurrence of b, or -1.
func (c *BrushCollection) IndexOf(b *BrushConfig) int {
	for i, x := range c.Brushes {
		if x == b {
			return i
		}
	}
	return -1
}

// Find returns the first brush with the given id, or nil.
func (c *BrushCollection) Find(id string) *BrushConfig {
	for _, b := range c.Brushes {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Remove deletes the first occurrence of b. Once b no longer appears in the
// collection it is also dropped from the selection.
func (c *BrushCollection) Remove(b *BrushConfig) {
	i := c.IndexOf(b)
	if i < 0 {
		return
	}
	c.Brushes = append(c.Brushes[:i], c.Brushes[i+1:]...)
	if c.IndexOf(b) >= 0 {
		return
	}
	c.deselect(b)
	if c.primary == b {
		c.primary = nil
	}
}

// Select updates the selection. With extend, only b's membership in the
// selected set is toggled. Without extend, b becomes the only selected brush
// and the primary one.
func (c *BrushCollection) Select(b *BrushConfig, extend bool) {
	if b == nil {
		return
	}
	if extend {
		if c.IsSelected(b) {
			c.deselect(b)
		} else {
			c.selected = append(c.selected, b)
		}
		return
	}
	c.selected = []*BrushConfig{b}
	c.primary = b
}

// SelectAll selects every brush, making the first one primary.
func (c *BrushCollection) SelectAll() {
	c.ClearSelection()
	for i, b := range c.Brushes {
		if i == 0 {
			c.Select(b, false)
		} else if !c.IsSelected(b) {
			c.Select(b, true)
		}
	}
}

// ClearSelection empties the selection and the primary brush.
func (c *BrushCollection) ClearSelection() {
	c.selected = nil
	c.primary = nil
}

func (c *BrushCollection) deselect(b *BrushConfig) {
	for i, x := range c.selected {
		if x == b {
			c.selected = append(c.selected[:i], c.selected[i+1:]...)
			return
		}
	}
}

// IsSelected reports whether b is in the selected set.
func (c *BrushCollection) IsSelected(b *BrushConfig) bool {
	for _, x := range c.selected {
		if x == b {
			return true
		}
	}
	return false
}

// Primary returns the brush whose details are being edited. A primary brush
// that was toggled out of the selection is not reported until it is selected
// again.
func (c *BrushCollection) Primary() *BrushConfig {
	if c.primary == nil || !c.IsSelected(c.primary) {
		return nil
	}
	return c.primary
}

// Selected returns the selected brushes in selection order.
func (c *BrushCollection) Selected() []*BrushConfig {
	out := make([]*BrushConfig, len(c.selected))
	copy(out, c.selected)
	return out
}

// RemoveSelected deletes every selected brush and clears the selection.
func (c *BrushCollection) RemoveSelected() {
	if len(c.selected) == 0 {
		return
	}
	kept := c.Brushes[:0]
	for _, b := range c.Brushes {
		if !c.IsSelected(b) {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < len(c.Brushes); i++ {
		c.Brushes[i] = nil
	}
	c.Brushes = kept
	c.ClearSelection()
}

// RemoveAll deletes every brush and clears the selection. Spawned instances
// are left alone.
func (c *BrushCollection) RemoveAll() {
	c.Brushes = nil
	c.ClearSelection()
}

// Register records id as an erasable instance spawned by this collection.
func (c *BrushCollection) Register(id InstanceID) {
	c.spawned.Add(id)
}

// Unregister drops id from the registry and reports whether it was present.
func (c *BrushCollection) Unregister(id InstanceID) bool {
	return c.spawned.Remove(id)
}

func (c *BrushCollection) IsRegistered(id InstanceID) bool {
	return c.spawned.Contains(id)
}

// Spawned returns the registered instances in spawn order.
func (c *BrushCollection) Spawned() []InstanceID {
	return c.spawned.IDs()
}

func (c *BrushCollection) SpawnedCount() int {
	return c.spawned.Len()
}

// ApplyCached commits the spawned instances: the registry is emptied and
// the instances stay in the world.
func (c *BrushCollection) ApplyCached() {
	c.spawned.Clear()
}

// DeleteSpawned destroys every registered instance through d and empties the
// registry. It returns how many instances d destroyed without error.
func (c *BrushCollection) DeleteSpawned(d Destroyer) int {
	destroyed := 0
	for _, id := range c.spawned.IDs() {
		if d != nil && d.Destroy(id) == nil {
			destroyed++
		}
	}
	c.spawned.Clear()
	return destroyed
}

// SelectedNames joins the names of the selected brushes.
func (c *BrushCollection) SelectedNames() string {
	names := make([]string, len(c.selected))
	for i, b := range c.selected {
		names[i] = b.Name()
	}
	return strings.Join(names, ", ")
}

// MaxSelectedRadius returns the largest brush radius among the selection.
func (c *BrushCollection) MaxSelectedRadius() float32 {
	var r float32
	for _, b := range c.selected {
		if b.Details.BrushRadius > r {
			r = b.Details.BrushRadius
		}
	}
	return r
}

// RestoreSelection selects brushes by id, primary first. Unknown ids are
// skipped.
func (c *BrushCollection) RestoreSelection(primaryID string, selectedIDs []string) {
	c.ClearSelection()
	if p := c.Find(primaryID); p != nil {
		c.Select(p, false)
	}
	for _, id := range selectedIDs {
		b := c.Find(id)
		if b != nil && !c.IsSelected(b) {
			c.Select(b, true)
		}
	}
}

// SelectionIDs returns the id of the primary brush ("" if none) and the ids
// of the selected brushes.
func (c *BrushCollection) SelectionIDs() (string, []string) {
	primary := ""
	if p := c.Primary(); p != nil {
		primary = p.ID
	}
	ids := make([]string, len(c.selected))
	for i, b := range c.selected {
		ids[i] = b.ID
	}
	return primary, ids
}
