// Package engine implements the decision loop that turns one utterance into
// one reply. It owns the session, offers the utterance to handlers in
// registration order, and falls back to dataset assignment and the safety
// and confidence gates when no handler answers.
//
// The engine initializes from configuration via New, creating all
// subsystems internally. Functional options allow test overrides of any
// subsystem.
//
//	e, err := engine.New(ctx, &cfg)
//	reply := e.Handle(ctx, "solve 2x = 4")
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tailored-agentic-units/interpreter/gate"
	"github.com/tailored-agentic-units/interpreter/handlers"
	"github.com/tailored-agentic-units/interpreter/lookup"
	"github.com/tailored-agentic-units/interpreter/numeric"
	"github.com/tailored-agentic-units/interpreter/observability"
	"github.com/tailored-agentic-units/interpreter/session"
	"github.com/tailored-agentic-units/interpreter/store"
)

// Canned replies.
const (
	Clarification = "I need a bit more clarity. Can you explain what you mean?"
	Refusal       = "I can't proceed safely."
	Unimplemented = "I understood the request, but I don't know how to handle it yet."
)

// Option configures an Engine after config-driven initialization.
// Applied by New after cold start; overrides replace config-created defaults.
type Option func(*Engine)

// WithRegistry overrides the default handler registry.
func WithRegistry(r *handlers.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithStore overrides the config-created store.
func WithStore(s store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithObserver overrides the config-selected observer.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithLookup overrides the config-created external lookup. It only affects
// the default registry.
func WithLookup(l handlers.Lookup) Option {
	return func(e *Engine) { e.lookup = l }
}

// Engine is the single-session decision loop. It is not safe for concurrent
// use: turns are processed one at a time.
type Engine struct {
	session  *session.Context
	registry *handlers.Registry
	store    store.Store
	lookup   handlers.Lookup
	strict   bool
	observer observability.Observer
}

// New creates an Engine from configuration and seeds its session from the
// store. Functional options applied after initialization can override any
// subsystem for testing.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Engine, error) {
	observer, err := resolveObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	e := &Engine{
		store:    store.New(&cfg.Store),
		strict:   cfg.Lookup.Strict,
		observer: observer,
	}
	if client := lookup.New(&cfg.Lookup); client != nil {
		e.lookup = client
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = handlers.Default(e.lookup, e.strict)
	}

	state, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	e.session = session.New(state.DataStore, state.Knowledge)

	return e, nil
}

// resolveObserver looks up a comma-separated list of registered observer
// names. An empty list logs through slog.Default.
func resolveObserver(names string) (observability.Observer, error) {
	var resolved []observability.Observer
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		obs, err := observability.GetObserver(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, obs)
	}

	switch len(resolved) {
	case 0:
		return observability.NewSlogObserver(slog.Default()), nil
	case 1:
		return resolved[0], nil
	}
	return observability.NewMultiObserver(resolved...), nil
}

// Session returns the engine's session.
func (e *Engine) Session() *session.Context {
	return e.session
}

// Registry returns the engine's handler registry.
func (e *Engine) Registry() *handlers.Registry {
	return e.registry
}

// Handle processes one utterance and returns the reply. It never fails:
// malformed input becomes a clarification request and persistence errors
// are reported to the observer.
func (e *Engine) Handle(ctx context.Context, input string) string {
	sc := e.session
	sc.RawInput = input
	sc.Intent = ""
	raw := strings.ToLower(strings.TrimSpace(input))

	e.emit(ctx, EventTurnStart, observability.LevelVerbose, map[string]any{
		"session": sc.ID(),
		"length":  len(input),
	})

	if reply, ok := e.history(ctx, raw); ok {
		return reply
	}

	for _, h := range e.registry.List() {
		if !h.CanHandle(sc) {
			continue
		}

		res := h.Handle(ctx, sc)
		e.emit(ctx, EventDispatch, observability.LevelVerbose, map[string]any{
			"handler": h.Name(),
			"outcome": res.Outcome.String(),
		})

		switch res.Outcome {
		case handlers.NeedsClarification:
			e.emit(ctx, EventClarify, observability.LevelInfo, map[string]any{"handler": h.Name()})
			return Clarification
		case handlers.Handled:
			e.persist(ctx)
			return res.Message
		}

		// A handler that claimed the input but passed on it counts as a
		// recognized intent, which lets the confidence gate reach the
		// unimplemented reply instead of a clarification.
		if sc.Intent == "" {
			sc.Intent = h.Name()
		}
	}

	if reply, ok := e.assign(ctx, raw); ok {
		return reply
	}

	safety := gate.EvaluateSafety(input)
	if safety.Level == gate.RiskHigh {
		e.emit(ctx, EventRefuse, observability.LevelInfo, map[string]any{"reason": safety.Reason})
		return Refusal
	}

	confidence := gate.EvaluateConfidence(gate.Signals{Risk: safety.Level, Intent: sc.Intent})
	switch confidence.Level {
	case gate.ConfidenceLow:
		e.emit(ctx, EventClarify, observability.LevelInfo, map[string]any{"reason": confidence.Reason})
		return Clarification
	case gate.ConfidenceCritical:
		e.emit(ctx, EventRefuse, observability.LevelInfo, map[string]any{"reason": confidence.Reason})
		return Refusal + "\nReason: " + confidence.Reason
	}
	return Unimplemented
}

// history handles "undo [n]" and "redo [n]". ok is false for any other
// input.
func (e *Engine) history(ctx context.Context, raw string) (reply string, ok bool) {
	var undo bool
	switch {
	case strings.HasPrefix(raw, "undo"):
		undo = true
	case strings.HasPrefix(raw, "redo"):
	default:
		return "", false
	}

	n := 1
	if parts := strings.Fields(raw); len(parts) == 2 {
		if v, err := strconv.Atoi(parts[1]); err == nil && isDigits(parts[1]) {
			n = v
		}
	}

	sc := e.session
	var k int
	if undo {
		k = sc.History.Undo(sc, n)
	} else {
		k = sc.History.Redo(sc, n)
	}

	e.emit(ctx, EventHistory, observability.LevelInfo, map[string]any{
		"undo":      undo,
		"requested": n,
		"applied":   k,
	})

	switch {
	case k == 0 && undo:
		return "There is nothing to undo.", true
	case k == 0:
		return "There is nothing to redo.", true
	}

	sc.ClearDecision()
	e.persist(ctx)

	if undo {
		return fmt.Sprintf("Undid %d action(s).", k), true
	}
	return fmt.Sprintf("Redid %d action(s).", k), true
}

// assign stores "<name> = <numbers>" as a dataset. ok is false when the
// input is not an assignment or no number parses.
func (e *Engine) assign(ctx context.Context, raw string) (reply string, ok bool) {
	if !strings.Contains(raw, "=") {
		return "", false
	}
	for _, kw := range []string{"solve", "evaluate", "calculate"} {
		if strings.HasPrefix(raw, kw) {
			return "", false
		}
	}
	for _, op := range []string{"==", ">=", "<="} {
		if strings.Contains(raw, op) {
			return "", false
		}
	}

	lhs, rhs, _ := strings.Cut(raw, "=")
	name := strings.TrimSpace(lhs)
	numbers := numeric.ParseList(rhs)
	if len(numbers) == 0 {
		return "", false
	}

	e.session.Store(name, numbers)
	e.emit(ctx, EventStore, observability.LevelInfo, map[string]any{
		"dataset": name,
		"values":  len(numbers),
	})
	e.persist(ctx)

	return fmt.Sprintf("Stored %s as '%s'.", numeric.FormatList(numbers), name), true
}

func (e *Engine) persist(ctx context.Context) {
	state := store.State{
		DataStore: e.session.DataStore,
		Knowledge: e.session.Memory.Export(),
	}
	if err := e.store.Save(ctx, state); err != nil {
		e.emit(ctx, EventError, observability.LevelWarning, map[string]any{
			"error": err.Error(),
		})
		return
	}
	e.emit(ctx, EventPersist, observability.LevelVerbose, map[string]any{
		"datasets":  len(state.DataStore),
		"knowledge": len(state.Knowledge),
	})
}

func (e *Engine) emit(ctx context.Context, kind observability.EventType, level observability.Level, data map[string]any) {
	e.observer.OnEvent(ctx, observability.Event{
		Type:      kind,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "engine.Handle",
		Data:      data,
	})
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
