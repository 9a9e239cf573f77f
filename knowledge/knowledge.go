// Package knowledge holds user-taught concept definitions. Concept keys are
// case-insensitive.
package knowledge

import (
	"maps"
	"strings"
)

// Memory maps lowercased concepts to definitions.
type Memory struct {
	entries map[string]string
}

// New creates an empty Memory.
func New() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// Get returns the definition stored for concept.
func (m *Memory) Get(concept string) (string, bool) {
	def, ok := m.entries[key(concept)]
	return def, ok
}

// Learn stores or replaces a definition.
func (m *Memory) Learn(concept, definition string) {
	m.entries[key(concept)] = definition
}

// Forget removes concept and reports whether it was present.
func (m *Memory) Forget(concept string) bool {
	k := key(concept)
	if _, ok := m.entries[k]; !ok {
		return false
	}
	delete(m.entries, k)
	return true
}

// Len returns the number of stored concepts.
func (m *Memory) Len() int {
	return len(m.entries)
}

// Export returns an independent copy of every stored definition.
func (m *Memory) Export() map[string]string {
	return maps.Clone(m.entries)
}

// Load replaces the stored definitions with a copy of data. Keys are
// lowercased on the way in.
func (m *Memory) Load(data map[string]string) {
	m.entries = make(map[string]string, len(data))
	for k, v := range data {
		m.entries[key(k)] = v
	}
}

func key(concept string) string {
	return strings.ToLower(strings.TrimSpace(concept))
}
