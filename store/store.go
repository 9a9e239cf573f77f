// Package store persists the interpreter's durable state (named data series
// and user knowledge) between runs.
package store

import (
	"context"
	"maps"

	"github.com/tailored-agentic-units/interpreter/history"
)

// State is the persisted payload.
type State struct {
	DataStore map[string][]float64 `json:"data_store"`
	Knowledge map[string]string    `json:"user_knowledge"`
}

// Empty returns a State with initialized, empty maps.
func Empty() State {
	return State{
		DataStore: make(map[string][]float64),
		Knowledge: make(map[string]string),
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	k := maps.Clone(s.Knowledge)
	if k == nil {
		k = make(map[string]string)
	}
	return State{
		DataStore: history.CloneData(s.DataStore),
		Knowledge: k,
	}
}

// Store loads and saves State. A missing backing store loads as Empty.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}
