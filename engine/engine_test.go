package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tailored-agentic-units/interpreter/engine"
	"github.com/tailored-agentic-units/interpreter/handlers"
	"github.com/tailored-agentic-units/interpreter/lookup"
	"github.com/tailored-agentic-units/interpreter/observability"
	"github.com/tailored-agentic-units/interpreter/store"
)

// --- Test helpers ---

type captureObserver struct {
	events []observability.Event
}

func (c *captureObserver) OnEvent(_ context.Context, event observability.Event) {
	c.events = append(c.events, event)
}

func (c *captureObserver) count(kind observability.EventType) int {
	n := 0
	for _, e := range c.events {
		if e.Type == kind {
			n++
		}
	}
	return n
}

type failingStore struct{}

func (failingStore) Load(context.Context) (store.State, error) { return store.Empty(), nil }
func (failingStore) Save(context.Context, store.State) error   { return store.ErrSaveFailed }

type stubLookup struct{ result lookup.Result }

func (s stubLookup) Fetch(context.Context, lookup.Request) (lookup.Result, error) {
	return s.result, nil
}

func newEngine(t *testing.T, opts ...engine.Option) (*engine.Engine, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	cfg := engine.DefaultConfig()
	opts = append([]engine.Option{
		engine.WithStore(mem),
		engine.WithObserver(observability.NoOpObserver{}),
	}, opts...)

	e, err := engine.New(context.Background(), &cfg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e, mem
}

// say feeds each utterance to e and returns the last reply.
func say(e *engine.Engine, inputs ...string) string {
	var reply string
	for _, in := range inputs {
		reply = e.Handle(context.Background(), in)
	}
	return reply
}

var equateEmpty = cmpopts.EquateEmpty()

// --- Tests ---

func TestEngine_Store(t *testing.T) {
	e, mem := newEngine(t)

	if got := say(e, "a = 1, 5, 9, 3"); got != "Stored [1.0, 5.0, 9.0, 3.0] as 'a'." {
		t.Errorf("got %q", got)
	}
	if diff := cmp.Diff([]float64{1, 5, 9, 3}, e.Session().Dataset("a")); diff != "" {
		t.Errorf("dataset mismatch (-want +got):\n%s", diff)
	}
	if mem.Saves() != 1 {
		t.Errorf("got %d saves, want 1", mem.Saves())
	}
	if !e.Session().History.CanUndo() {
		t.Error("storing should take a snapshot")
	}
}

func TestEngine_StoreFallthrough(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no numbers", input: "a = none"},
		{name: "relational", input: "a >= 3"},
		{name: "equality", input: "a == 3"},
		{name: "keyword", input: "evaluate a = 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mem := newEngine(t)
			say(e, tt.input)

			if len(e.Session().DataStore) != 0 {
				t.Errorf("got datasets %v, want none", e.Session().DataStore)
			}
			if e.Session().History.CanUndo() {
				t.Error("fallthrough should not take a snapshot")
			}
			if mem.Saves() != 0 {
				t.Errorf("got %d saves, want 0", mem.Saves())
			}
		})
	}
}

func TestEngine_DataQueries(t *testing.T) {
	e, _ := newEngine(t)
	say(e, "a = 1,5,9,3", "b = 1 9 4 6")

	tests := []struct {
		input string
		want  string
	}{
		{input: "minimum of a", want: "The minimum value is 1.0."},
		{input: "highest below 5 in a", want: "The highest value below 5.0 is 3.0."},
		{input: "closest to 5 in b", want: "The closest value is 4.0."},
		{input: "minimum of missing", want: engine.Clarification},
		{input: "closest to 5 in missing", want: engine.Clarification},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := say(e, tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEngine_SolveAndWhy(t *testing.T) {
	e, _ := newEngine(t)

	if got := say(e, "why"); got != "There is no recent decision to explain." {
		t.Errorf("got %q", got)
	}

	if got := say(e, "solve 2x = 4"); got != "The solution is x = 2.0." {
		t.Fatalf("got %q", got)
	}

	got := say(e, "why")
	if lines := strings.Split(got, "\n"); len(lines) != 3 {
		t.Errorf("got %d explanation lines, want 3: %q", len(lines), got)
	}
	if !strings.HasSuffix(got, "I solved x = -b / a = 2.0.") {
		t.Errorf("got %q", got)
	}
}

func TestEngine_AssignmentClearsDecision(t *testing.T) {
	e, _ := newEngine(t)

	say(e, "solve 2x = 4")
	if got := say(e, "a = 1, 2"); got != "Stored [1.0, 2.0] as 'a'." {
		t.Fatalf("got %q", got)
	}
	if got := say(e, "why"); got != "There is no recent decision to explain." {
		t.Errorf("got %q, want no recent decision", got)
	}
}

func TestEngine_NoUniqueSolution(t *testing.T) {
	e, _ := newEngine(t)
	for _, in := range []string{"solve 0x = 5", "solve 0x = 0"} {
		if got := say(e, in); got != "This equation has no unique solution." {
			t.Errorf("%s: got %q", in, got)
		}
	}
}

func TestEngine_Integrals(t *testing.T) {
	e, _ := newEngine(t)

	if got := say(e, "∫3x^2dx"); got != "The integral is 3/3*x^3 + C." {
		t.Errorf("got %q", got)
	}
	if got := say(e, "integral of x from 0 to 2"); got != "The definite integral is 2.0." {
		t.Errorf("got %q", got)
	}
}

func TestEngine_UndoRoundTrip(t *testing.T) {
	e, _ := newEngine(t)
	say(e, "a = 1", "remember zeta is a letter")

	before := e.Session().Capture("before")

	actions := []string{"a = 2 3", "b = 4", "remember omega is last", "forget zeta", "c = 7"}
	say(e, actions...)

	if got := say(e, "undo 5"); got != "Undid 5 action(s)." {
		t.Fatalf("got %q", got)
	}

	after := e.Session().Capture("after")
	if diff := cmp.Diff(before.DataStore, after.DataStore, equateEmpty); diff != "" {
		t.Errorf("data store mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before.Knowledge, after.Knowledge, equateEmpty); diff != "" {
		t.Errorf("knowledge mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_UndoRedoUndo(t *testing.T) {
	e, _ := newEngine(t)
	say(e, "a = 1", "a = 2", "b = 3")

	say(e, "undo")
	undone := e.Session().Capture("undone")

	if got := say(e, "redo"); got != "Redid 1 action(s)." {
		t.Fatalf("got %q", got)
	}
	say(e, "undo")

	if diff := cmp.Diff(undone.DataStore, e.Session().DataStore, equateEmpty); diff != "" {
		t.Errorf("undo/redo/undo mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_History(t *testing.T) {
	e, mem := newEngine(t)

	steps := []struct {
		input string
		want  string
	}{
		{input: "undo", want: "There is nothing to undo."},
		{input: "redo", want: "There is nothing to redo."},
		{input: "a = 1", want: "Stored [1.0] as 'a'."},
		{input: "a = 2", want: "Stored [2.0] as 'a'."},
		{input: "UNDO 7", want: "Undid 2 action(s)."},
		{input: "redo 0", want: "Redid 1 action(s)."},
		{input: "redo many", want: "Redid 1 action(s)."},
		{input: "redo", want: "There is nothing to redo."},
		{input: "undo", want: "Undid 1 action(s)."},
		{input: "a = 5", want: "Stored [5.0] as 'a'."},
		{input: "redo", want: "There is nothing to redo."},
	}

	for _, s := range steps {
		if got := say(e, s.input); got != s.want {
			t.Fatalf("%s: got %q, want %q", s.input, got, s.want)
		}
	}

	if diff := cmp.Diff(map[string][]float64{"a": {5}}, e.Session().DataStore); diff != "" {
		t.Errorf("data store mismatch (-want +got):\n%s", diff)
	}
	// 3 stores + 4 history steps that applied.
	if mem.Saves() != 7 {
		t.Errorf("got %d saves, want 7", mem.Saves())
	}
}

func TestEngine_UndoClearsDecision(t *testing.T) {
	e, _ := newEngine(t)
	say(e, "a = 1", "solve 2x = 4", "undo")

	if got := say(e, "why"); got != "There is no recent decision to explain." {
		t.Errorf("got %q", got)
	}
}

func TestEngine_Gates(t *testing.T) {
	e, _ := newEngine(t)
	say(e, "a = 1 2")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "destructive", input: "delete everything", want: engine.Refusal},
		{name: "destructive mixed case", input: "Please ERASE it", want: engine.Refusal},
		{name: "unrecognized", input: "hello there", want: engine.Clarification},
		{name: "recognized but unanswered", input: "values of a and more", want: engine.Unimplemented},
		{name: "assignment without numbers", input: "x = foo", want: engine.Unimplemented},
		{name: "handler clarification", input: "solve 2 = 4", want: engine.Clarification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := say(e, tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEngine_SeedsFromStore(t *testing.T) {
	mem := store.NewMemoryStore()
	err := mem.Save(context.Background(), store.State{
		DataStore: map[string][]float64{"a": {4, 2}},
		Knowledge: map[string]string{"zeta": "a letter"},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg := engine.DefaultConfig()
	e, err := engine.New(context.Background(), &cfg,
		engine.WithStore(mem),
		engine.WithObserver(observability.NoOpObserver{}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := say(e, "minimum of a"); got != "The minimum value is 2.0." {
		t.Errorf("got %q", got)
	}
	if got := say(e, "what is zeta"); got != "zeta: a letter" {
		t.Errorf("got %q", got)
	}
}

func TestEngine_PersistFailureIsReported(t *testing.T) {
	obs := &captureObserver{}
	cfg := engine.DefaultConfig()
	e, err := engine.New(context.Background(), &cfg,
		engine.WithStore(failingStore{}),
		engine.WithObserver(obs),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := say(e, "a = 1"); got != "Stored [1.0] as 'a'." {
		t.Errorf("got %q", got)
	}
	if obs.count(engine.EventError) != 1 {
		t.Errorf("got %d error events, want 1", obs.count(engine.EventError))
	}
	for _, ev := range obs.events {
		if ev.Type == engine.EventError && ev.Level != observability.LevelWarning {
			t.Errorf("got level %v, want %v", ev.Level, observability.LevelWarning)
		}
	}
}

func TestEngine_Events(t *testing.T) {
	obs := &captureObserver{}
	e, _ := newEngine(t, engine.WithObserver(obs))

	say(e, "a = 1", "minimum of a", "solve 2 = 4", "delete a")

	tests := []struct {
		kind observability.EventType
		want int
	}{
		{kind: engine.EventTurnStart, want: 4},
		{kind: engine.EventStore, want: 1},
		{kind: engine.EventPersist, want: 2},
		{kind: engine.EventClarify, want: 1},
		{kind: engine.EventRefuse, want: 1},
	}

	for _, tt := range tests {
		if got := obs.count(tt.kind); got != tt.want {
			t.Errorf("%s: got %d events, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestEngine_ExternalLookup(t *testing.T) {
	l := stubLookup{result: lookup.Result{
		Concept:    "quark",
		Summaries:  []string{"A quark is an elementary particle."},
		Confidence: 0.6,
		Sources:    []string{"wikipedia"},
	}}
	e, _ := newEngine(t, engine.WithLookup(l))

	if got := say(e, "what is a quark"); !strings.Contains(got, "Do you want me to look it up") {
		t.Fatalf("got %q", got)
	}
	got := say(e, "yes")
	if !strings.Contains(got, "A quark is an elementary particle.") {
		t.Errorf("got %q", got)
	}
}

func TestEngine_CustomRegistry(t *testing.T) {
	reg := handlers.NewRegistry()
	if err := reg.Register(&handlers.Why{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	e, _ := newEngine(t, engine.WithRegistry(reg))

	if got := say(e, "solve 2x = 4"); got != engine.Clarification {
		t.Errorf("got %q, want clarification from the confidence gate", got)
	}
	if e.Registry() != reg {
		t.Error("Registry() should return the override")
	}
}

func TestNew_ObserverList(t *testing.T) {
	obs := &captureObserver{}
	observability.RegisterObserver("engine-test-capture", obs)

	cfg := engine.DefaultConfig()
	cfg.Observer = "noop, engine-test-capture"

	e, err := engine.New(context.Background(), &cfg, engine.WithStore(store.NewMemoryStore()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	say(e, "why")
	if obs.count(engine.EventTurnStart) != 1 {
		t.Errorf("got %d turn events, want 1", obs.count(engine.EventTurnStart))
	}
}

func TestNew_UnknownObserver(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Observer = "slog,carrier-pigeon"

	_, err := engine.New(context.Background(), &cfg, engine.WithStore(store.NewMemoryStore()))
	if !errors.Is(err, observability.ErrUnknownObserver) {
		t.Errorf("got error %v, want ErrUnknownObserver", err)
	}
}

func TestNew_LoadFailure(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Store.Path = t.TempDir()

	_, err := engine.New(context.Background(), &cfg, engine.WithObserver(observability.NoOpObserver{}))
	if !errors.Is(err, store.ErrLoadFailed) {
		t.Errorf("got error %v, want ErrLoadFailed", err)
	}
}
