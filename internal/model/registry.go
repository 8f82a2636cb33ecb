package model

// InstanceID identifies a spawned object instance.
type InstanceID string

// Registry is an insertion-ordered set of instance ids.
type Registry struct {
	ids   []InstanceID
	index map[InstanceID]int
}

// Add inserts id and reports whether it was not already present.
func (r *Registry) Add(id InstanceID) bool {
	if r.index == nil {
		r.index = make(map[InstanceID]int)
	}
	if _, ok := r.index[id]; ok {
		return false
	}
	r.index[id] = len(r.ids)
	r.ids = append(r.ids, id)
	return true
}

// Remove deletes id and reports whether it was present.
func (r *Registry) Remove(id InstanceID) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.ids = append(r.ids[:i], r.ids[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.ids); j++ {
		r.index[r.ids[j]] = j
	}
	return true
}

func (r *Registry) Contains(id InstanceID) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Registry) Len() int {
	return len(r.ids)
}

// IDs returns a copy of the ids in insertion order.
func (r *Registry) IDs() []InstanceID {
	out := make([]InstanceID, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r *Registry) Clear() {
	r.ids = nil
	r.index = nil
}
