// Package session holds the mutable state of one interpreter run: the current
// utterance, named data series, user knowledge, undo/redo history and the
// most recent decision record.
//
// A Context is owned by exactly one engine and threaded through every handler
// call for the duration of a turn. It is not safe for concurrent use.
package session

import (
	"github.com/google/uuid"
	"github.com/tailored-agentic-units/interpreter/history"
	"github.com/tailored-agentic-units/interpreter/knowledge"
)

// Decision records why the most recent handler produced its answer.
type Decision struct {
	Type   string
	Reason []string
}

// Context is the session state threaded through a turn.
type Context struct {
	id string

	// RawInput is the current utterance, overwritten each turn.
	RawInput string
	// DataStore maps dataset names to ordered numeric series.
	DataStore map[string][]float64
	// Memory is the user knowledge store.
	Memory *knowledge.Memory
	// History holds undo/redo snapshots of DataStore and Memory.
	History *history.Manager
	// LastDecision is the explanation of the latest answered turn, if any.
	LastDecision *Decision
	// PendingExternal is a concept awaiting confirmation for external lookup.
	PendingExternal string
	// Intent names the handler that recognized but could not complete the
	// current turn. Reset at the start of every turn.
	Intent string
}

// New creates a Context seeded with persisted data and knowledge. Both
// inputs are copied. The Context is assigned a unique UUIDv7 identifier.
func New(data map[string][]float64, learned map[string]string) *Context {
	mem := knowledge.New()
	mem.Load(learned)

	return &Context{
		id:        uuid.Must(uuid.NewV7()).String(),
		DataStore: history.CloneData(data),
		Memory:    mem,
		History:   history.NewManager(),
	}
}

// ID returns the unique session identifier.
func (c *Context) ID() string {
	return c.id
}

// Dataset returns the named series, or nil when it is undefined.
func (c *Context) Dataset(name string) []float64 {
	return c.DataStore[name]
}

// Capture snapshots the data store and user knowledge.
func (c *Context) Capture(description string) history.Snapshot {
	return history.NewSnapshot(description, c.DataStore, c.Memory.Export())
}

// Restore replaces the data store and user knowledge with copies of the
// snapshot's contents.
func (c *Context) Restore(s history.Snapshot) {
	c.DataStore = history.CloneData(s.DataStore)
	c.Memory.Load(s.Knowledge)
}

// Checkpoint records the current state on the undo stack and discards any
// redoable actions. Call it immediately before mutating DataStore or Memory.
func (c *Context) Checkpoint(description string) {
	c.History.Record(c.Capture(description))
}

// Store checkpoints and then assigns values to the named dataset.
func (c *Context) Store(name string, values []float64) {
	c.Checkpoint("Stored '" + name + "'")
	c.DataStore[name] = values
}

// Decide replaces the decision record.
func (c *Context) Decide(kind string, reason ...string) {
	c.LastDecision = &Decision{Type: kind, Reason: reason}
}

// ClearDecision discards the decision record.
func (c *Context) ClearDecision() {
	c.LastDecision = nil
}
