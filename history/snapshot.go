// Package history implements transactional undo/redo over deep snapshots of
// the interpreter's mutable state.
//
// A Snapshot never shares containers with live state: NewSnapshot copies its
// inputs and State implementations copy on Restore.
package history

import (
	"maps"
	"slices"
)

// Snapshot is an independent copy of the data store and user knowledge taken
// before a mutating action.
type Snapshot struct {
	Description string
	DataStore   map[string][]float64
	Knowledge   map[string]string
}

// NewSnapshot deep-copies data and knowledge into a new Snapshot.
func NewSnapshot(description string, data map[string][]float64, knowledge map[string]string) Snapshot {
	return Snapshot{
		Description: description,
		DataStore:   CloneData(data),
		Knowledge:   maps.Clone(knowledge),
	}
}

// Clone returns a structurally independent copy of s.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.DataStore = CloneData(s.DataStore)
	c.Knowledge = maps.Clone(s.Knowledge)
	return c
}

// CloneData deep-copies a data store, including every series. A nil store
// clones to an empty, non-nil map.
func CloneData(data map[string][]float64) map[string][]float64 {
	out := make(map[string][]float64, len(data))
	for name, series := range data {
		out[name] = slices.Clone(series)
	}
	return out
}
