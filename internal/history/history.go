package history

import (
	"github.com/jinzhu/copier"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

const defaultMaxDepth = 50

// Snapshot captures the brushes and selection of a collection.
type Snapshot struct {
	Brushes     []model.BrushConfig
	PrimaryID   string
	SelectedIDs []string
	Label       string // Human-readable description (e.g. "Paste Filters")
}

// History manages undo/redo stacks of collection snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo
// stack. It returns false if there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent undone snapshot and pushes current onto the
// undo stack. It returns false if there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoLabel returns the label of the snapshot Undo would restore.
func (h *History) UndoLabel() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Label
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// copyBrushes returns deep copies of brushes.
func copyBrushes(brushes []*model.BrushConfig) []model.BrushConfig {
	if brushes == nil {
		return nil
	}
	out := make([]model.BrushConfig, len(brushes))
	for i, b := range brushes {
		if err := copier.CopyWithOption(&out[i], b, copier.Option{DeepCopy: true}); err != nil {
			out[i] = *b
		}
	}
	return out
}

// MakeSnapshot captures the current state of c with a label.
func MakeSnapshot(c *model.BrushCollection, label string) Snapshot {
	primary, selected := c.SelectionIDs()
	return Snapshot{
		Brushes:     copyBrushes(c.Brushes),
		PrimaryID:   primary,
		SelectedIDs: selected,
		Label:       label,
	}
}

// Restore replaces the brushes and selection of c with the snapshot. The
// spawned-instance registry is left alone.
func (s Snapshot) Restore(c *model.BrushCollection) {
	c.Brushes = nil
	for i := range s.Brushes {
		b := s.Brushes[i]
		c.Add(&b)
	}
	c.RestoreSelection(s.PrimaryID, s.SelectedIDs)
}
