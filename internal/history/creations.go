package history

import "github.com/piwi3910/ScatterBrush/internal/model"

// Creation is one recorded instance creation.
type Creation struct {
	ID    model.InstanceID
	Label string
}

// CreationLog records created instances grouped by pointer stroke, keeping
// at most the 50 most recent strokes.
type CreationLog struct {
	strokes  [][]Creation
	maxDepth int
}

func NewCreationLog() *CreationLog {
	return &CreationLog{maxDepth: defaultMaxDepth}
}

// BeginStroke starts a new group. An empty current group is reused.
func (l *CreationLog) BeginStroke() {
	if n := len(l.strokes); n > 0 && len(l.strokes[n-1]) == 0 {
		return
	}
	l.strokes = append(l.strokes, nil)
	if len(l.strokes) > l.maxDepth {
		l.strokes = l.strokes[len(l.strokes)-l.maxDepth:]
	}
}

// RecordCreation adds id to the current stroke, starting one if needed.
func (l *CreationLog) RecordCreation(id model.InstanceID, label string) {
	if len(l.strokes) == 0 {
		l.BeginStroke()
	}
	n := len(l.strokes) - 1
	l.strokes[n] = append(l.strokes[n], Creation{ID: id, Label: label})
}

// PopStroke removes the most recent non-empty stroke and returns its
// instance ids.
func (l *CreationLog) PopStroke() ([]model.InstanceID, bool) {
	for len(l.strokes) > 0 {
		last := l.strokes[len(l.strokes)-1]
		l.strokes = l.strokes[:len(l.strokes)-1]
		if len(last) == 0 {
			continue
		}
		ids := make([]model.InstanceID, len(last))
		for i, c := range last {
			ids[i] = c.ID
		}
		return ids, true
	}
	return nil, false
}

// Last returns the most recent creation.
func (l *CreationLog) Last() (Creation, bool) {
	for i := len(l.strokes) - 1; i >= 0; i-- {
		if s := l.strokes[i]; len(s) > 0 {
			return s[len(s)-1], true
		}
	}
	return Creation{}, false
}

// Len returns the number of recorded creations.
func (l *CreationLog) Len() int {
	n := 0
	for _, s := range l.strokes {
		n += len(s)
	}
	return n
}

func (l *CreationLog) Clear() {
	l.strokes = nil
}
