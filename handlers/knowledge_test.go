package handlers_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tailored-agentic-units/interpreter/handlers"
	"github.com/tailored-agentic-units/interpreter/lookup"
)

type stubLookup struct {
	result    lookup.Result
	err       error
	reqs      []lookup.Request
	forgotten []string
}

func (s *stubLookup) Fetch(_ context.Context, req lookup.Request) (lookup.Result, error) {
	s.reqs = append(s.reqs, req)
	return s.result, s.err
}

func (s *stubLookup) Forget(concept string) {
	s.forgotten = append(s.forgotten, concept)
}

func TestKnowledge_CoreGlossary(t *testing.T) {
	sc := newSession(nil)
	h := handlers.NewKnowledge(nil, false)

	wantReply(t, run(t, h, sc, "What is gravity?"),
		"Gravity is the force that attracts objects with mass toward each other.")
	if sc.LastDecision == nil || sc.LastDecision.Type != "knowledge" {
		t.Errorf("got decision %+v, want knowledge", sc.LastDecision)
	}

	wantReply(t, run(t, h, sc, "what do you know about energy"), "Energy is the capacity to do work.")
}

func TestKnowledge_RememberAndForget(t *testing.T) {
	sc := newSession(nil)
	h := handlers.NewKnowledge(nil, false)

	wantReply(t, run(t, h, sc, "Remember Entropy is disorder"), "I'll remember that entropy is disorder.")
	if !sc.History.CanUndo() {
		t.Fatal("remember should checkpoint before learning")
	}

	wantReply(t, run(t, h, sc, "explain entropy"), "entropy: disorder")
	wantReply(t, run(t, h, sc, "forget entropy"), "I've forgotten entropy.")
	if got := len(sc.History.Past()); got != 2 {
		t.Errorf("got %d snapshots, want 2", got)
	}

	wantReply(t, run(t, h, sc, "forget entropy"), "I don't have anything stored for entropy.")
	if got := len(sc.History.Past()); got != 2 {
		t.Errorf("forgetting an unknown concept took a snapshot: got %d, want 2", got)
	}
}

func TestKnowledge_ForgetDropsCachedLookup(t *testing.T) {
	stub := &stubLookup{}
	sc := newSession(nil)
	h := handlers.NewKnowledge(stub, false)

	run(t, h, sc, "remember quark is a particle")
	wantReply(t, run(t, h, sc, "forget quark"), "I've forgotten quark.")
	wantReply(t, run(t, h, sc, "forget gluon"), "I don't have anything stored for gluon.")

	if diff := cmp.Diff([]string{"quark", "gluon"}, stub.forgotten); diff != "" {
		t.Errorf("forgotten mismatch (-want +got):\n%s", diff)
	}
}

func TestKnowledge_UserDefinitionWins(t *testing.T) {
	sc := newSession(nil)
	sc.Memory.Learn("mean", "the middle-ish number")

	wantReply(t, run(t, handlers.NewKnowledge(nil, false), sc, "define mean"), "mean: the middle-ish number")
}

func TestKnowledge_ExternalLookup(t *testing.T) {
	stub := &stubLookup{result: lookup.Result{
		Concept:    "quark",
		Summaries:  []string{"A quark is an elementary particle."},
		Confidence: 0.6,
		Sources:    []string{"wikipedia"},
	}}
	sc := newSession(nil)
	h := handlers.NewKnowledge(stub, true)

	wantReply(t, run(t, h, sc, "tell me about quark"),
		"I don't have internal knowledge about 'quark'. Do you want me to look it up using external sources?")
	if sc.PendingExternal != "quark" {
		t.Fatalf("got pending %q, want quark", sc.PendingExternal)
	}

	got := run(t, h, sc, "yes")
	if got.Outcome != handlers.Handled {
		t.Fatalf("got outcome %v, want handled", got.Outcome)
	}
	if !strings.Contains(got.Message, "• A quark is an elementary particle.") {
		t.Errorf("summary missing from %q", got.Message)
	}
	if !strings.HasSuffix(got.Message, "Confidence: 0.6") {
		t.Errorf("confidence missing from %q", got.Message)
	}
	if sc.PendingExternal != "" {
		t.Error("pending concept should be cleared")
	}
	if len(stub.reqs) != 1 || stub.reqs[0] != (lookup.Request{Concept: "quark", Strict: true}) {
		t.Errorf("got requests %+v", stub.reqs)
	}
}

func TestKnowledge_ExternalDeclined(t *testing.T) {
	stub := &stubLookup{}
	sc := newSession(nil)
	sc.PendingExternal = "quark"

	wantReply(t, run(t, handlers.NewKnowledge(stub, false), sc, "no thanks"), "Alright. I won't use external information.")
	if len(stub.reqs) != 0 {
		t.Errorf("declined lookup still fetched: %+v", stub.reqs)
	}
	if sc.PendingExternal != "" {
		t.Error("pending concept should be cleared")
	}
}

func TestKnowledge_ExternalUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		lookup handlers.Lookup
	}{
		{name: "disabled", lookup: nil},
		{name: "error", lookup: &stubLookup{err: errors.New("offline")}},
		{name: "empty", lookup: &stubLookup{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newSession(nil)
			sc.PendingExternal = "quark"
			wantReply(t, run(t, handlers.NewKnowledge(tt.lookup, false), sc, "sure"), "External information unavailable.")
		})
	}
}

func TestKnowledge_Clarify(t *testing.T) {
	for _, input := range []string{"what is", "forget", "explain ?"} {
		t.Run(input, func(t *testing.T) {
			wantClarify(t, run(t, handlers.NewKnowledge(nil, false), newSession(nil), input))
		})
	}
}
