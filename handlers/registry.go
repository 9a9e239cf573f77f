package handlers

import (
	"fmt"
	"slices"
)

// Registry is an ordered set of handlers. Registration order is dispatch
// priority: the engine offers each utterance to handlers in the order they
// were registered.
type Registry struct {
	handlers []Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends h at the lowest priority.
// Returns ErrAlreadyExists if a handler with the same name is registered.
func (r *Registry) Register(h Handler) error {
	if h.Name() == "" {
		return ErrEmptyName
	}
	if r.index(h.Name()) >= 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, h.Name())
	}
	r.handlers = append(r.handlers, h)
	return nil
}

// List returns the handlers in priority order.
func (r *Registry) List() []Handler {
	return slices.Clone(r.handlers)
}

func (r *Registry) index(name string) int {
	return slices.IndexFunc(r.handlers, func(h Handler) bool {
		return h.Name() == name
	})
}

// Default returns the standard handler set in dispatch priority order:
// why, word problems, calculus, equations, knowledge, data queries. A nil
// lookup disables external knowledge lookups.
func Default(lookup Lookup, strict bool) *Registry {
	eq := &Equation{}
	r := NewRegistry()
	for _, h := range []Handler{
		&Why{},
		NewWordProblem(eq),
		&Calculus{},
		eq,
		NewKnowledge(lookup, strict),
		&DataQuery{},
	} {
		if err := r.Register(h); err != nil {
			panic(fmt.Sprintf("failed to register handler: %v", err))
		}
	}
	return r
}
