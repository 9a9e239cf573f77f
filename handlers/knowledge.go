package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tailored-agentic-units/interpreter/lookup"
	"github.com/tailored-agentic-units/interpreter/numeric"
	"github.com/tailored-agentic-units/interpreter/session"
)

// Lookup fetches external information about a concept.
type Lookup interface {
	Fetch(ctx context.Context, req lookup.Request) (lookup.Result, error)
}

// Forgetter is implemented by lookups that cache results per concept.
type Forgetter interface {
	Forget(concept string)
}

var coreKnowledge = map[string]string{
	"gravity": "Gravity is the force that attracts objects with mass toward each other.",
	"mean":    "Mean is the average obtained by dividing the sum of values by their count.",
	"speed":   "Speed is the distance traveled per unit of time.",
	"force":   "Force is an interaction that changes the motion of an object.",
	"energy":  "Energy is the capacity to do work.",
}

// Longer prefixes first so "what do you know about" wins over shorter ones.
var questionPrefixes = []string{
	"what do you know about", "tell me about", "what is", "explain", "define",
}

var (
	rememberPattern = regexp.MustCompile(`(?i)^remember (.+?) (?:is|means) (.+)$`)
	affirmative     = map[string]bool{"yes": true, "y": true, "sure": true, "ok": true}
)

// Knowledge answers concept questions from user knowledge and a small core
// glossary, offers external lookups for unknown concepts, and lets the user
// teach or forget definitions.
type Knowledge struct {
	lookup Lookup
	strict bool
}

// NewKnowledge creates a Knowledge handler. A nil lookup disables external
// lookups; strict drops low-confidence external results.
func NewKnowledge(l Lookup, strict bool) *Knowledge {
	return &Knowledge{lookup: l, strict: strict}
}

func (*Knowledge) Name() string { return "knowledge" }

func (*Knowledge) CanHandle(sc *session.Context) bool {
	if sc.PendingExternal != "" {
		return true
	}
	text := strings.ToLower(strings.TrimSpace(sc.RawInput))
	if strings.HasPrefix(text, "forget") || strings.HasPrefix(text, "remember ") {
		return true
	}
	for _, p := range questionPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

func (k *Knowledge) Handle(ctx context.Context, sc *session.Context) Result {
	text := strings.ToLower(strings.TrimSpace(sc.RawInput))

	if sc.PendingExternal != "" {
		concept := sc.PendingExternal
		sc.PendingExternal = ""
		if affirmative[text] {
			return k.external(ctx, sc, concept)
		}
		return Reply("Alright. I won't use external information.")
	}

	if rest, ok := strings.CutPrefix(text, "forget"); ok {
		return k.forget(sc, strings.TrimSpace(rest))
	}

	if m := rememberPattern.FindStringSubmatch(strings.TrimSpace(sc.RawInput)); m != nil {
		concept := strings.ToLower(strings.TrimSpace(m[1]))
		definition := strings.TrimSpace(m[2])
		sc.Checkpoint(fmt.Sprintf("Learned '%s'", concept))
		sc.Memory.Learn(concept, definition)
		return Reply(fmt.Sprintf("I'll remember that %s is %s.", concept, definition))
	}

	concept := extractConcept(text)
	if concept == "" {
		return Clarify()
	}

	if def, ok := sc.Memory.Get(concept); ok {
		sc.Decide(k.Name(), fmt.Sprintf("You taught me what %s means.", concept))
		return Reply(fmt.Sprintf("%s: %s", concept, def))
	}

	if def, ok := coreKnowledge[concept]; ok {
		sc.Decide(k.Name(), fmt.Sprintf("%s is part of my core knowledge.", concept))
		return Reply(def)
	}

	sc.PendingExternal = concept
	return Reply(fmt.Sprintf(
		"I don't have internal knowledge about '%s'. Do you want me to look it up using external sources?",
		concept,
	))
}

func (k *Knowledge) forget(sc *session.Context, concept string) Result {
	if concept == "" {
		return Clarify()
	}
	if f, ok := k.lookup.(Forgetter); ok {
		f.Forget(concept)
	}
	if _, ok := sc.Memory.Get(concept); !ok {
		return Reply(fmt.Sprintf("I don't have anything stored for %s.", concept))
	}
	sc.Checkpoint(fmt.Sprintf("Forgot '%s'", concept))
	sc.Memory.Forget(concept)
	return Reply(fmt.Sprintf("I've forgotten %s.", concept))
}

func (k *Knowledge) external(ctx context.Context, sc *session.Context, concept string) Result {
	if k.lookup == nil {
		return Reply("External information unavailable.")
	}

	res, err := k.lookup.Fetch(ctx, lookup.Request{Concept: concept, Strict: k.strict})
	if err != nil || len(res.Summaries) == 0 {
		return Reply("External information unavailable.")
	}

	confidence := numeric.Format(res.Confidence)
	lines := []string{fmt.Sprintf("External information on '%s':\n", concept)}
	for _, s := range res.Summaries {
		lines = append(lines, "• "+s)
	}
	lines = append(lines, "\nConfidence: "+confidence)

	sc.Decide(k.Name(),
		fmt.Sprintf("I looked up '%s' in external sources: %s.", concept, strings.Join(res.Sources, ", ")),
		fmt.Sprintf("Their combined confidence is %s.", confidence),
	)
	return Reply(strings.Join(lines, "\n"))
}

func extractConcept(text string) string {
	for _, p := range questionPrefixes {
		if rest, ok := strings.CutPrefix(text, p); ok {
			return strings.TrimSpace(strings.TrimRight(rest, "?"))
		}
	}
	return ""
}
