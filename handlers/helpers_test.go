package handlers_test

import (
	"context"
	"testing"

	"github.com/tailored-agentic-units/interpreter/handlers"
	"github.com/tailored-agentic-units/interpreter/session"
)

// newSession returns a session seeded with datasets.
func newSession(data map[string][]float64) *session.Context {
	return session.New(data, nil)
}

// run feeds input through h the way the engine does: CanHandle, then Handle.
func run(t *testing.T, h handlers.Handler, sc *session.Context, input string) handlers.Result {
	t.Helper()
	sc.RawInput = input
	if !h.CanHandle(sc) {
		t.Fatalf("%s.CanHandle(%q) = false, want true", h.Name(), input)
	}
	return h.Handle(context.Background(), sc)
}

func wantReply(t *testing.T, got handlers.Result, want string) {
	t.Helper()
	if got.Outcome != handlers.Handled {
		t.Fatalf("got outcome %v, want handled", got.Outcome)
	}
	if got.Message != want {
		t.Errorf("got message %q, want %q", got.Message, want)
	}
}

func wantClarify(t *testing.T, got handlers.Result) {
	t.Helper()
	if got.Outcome != handlers.NeedsClarification {
		t.Errorf("got outcome %v (%q), want needs_clarification", got.Outcome, got.Message)
	}
}
