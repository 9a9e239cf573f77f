// Package handlers implements the intent handlers the engine dispatches
// utterances to. Each handler answers two questions about the current
// session: can it handle the utterance, and what is the handled result.
//
// Handlers never return errors. Input they recognize but cannot parse
// produces a NeedsClarification result; input outside their domain after a
// closer look produces Unhandled so the next handler gets a chance.
package handlers

import (
	"context"

	"github.com/tailored-agentic-units/interpreter/session"
)

// Outcome tags a Result.
type Outcome int

const (
	// Unhandled passes the utterance to the next handler.
	Unhandled Outcome = iota
	// Handled carries the final message for the turn.
	Handled
	// NeedsClarification ends the turn with a request to rephrase.
	NeedsClarification
)

func (o Outcome) String() string {
	switch o {
	case Handled:
		return "handled"
	case NeedsClarification:
		return "needs_clarification"
	default:
		return "unhandled"
	}
}

// Result is what a handler produced for a turn. Message is meaningful only
// when Outcome is Handled.
type Result struct {
	Outcome Outcome
	Message string
}

// Reply returns a Handled result carrying msg.
func Reply(msg string) Result {
	return Result{Outcome: Handled, Message: msg}
}

// Clarify returns a NeedsClarification result.
func Clarify() Result {
	return Result{Outcome: NeedsClarification}
}

// Pass returns an Unhandled result.
func Pass() Result {
	return Result{Outcome: Unhandled}
}

// Handler is a unit of intent-specific logic.
type Handler interface {
	// Name identifies the handler and doubles as its decision record type.
	Name() string
	// CanHandle reports whether the current utterance belongs to this
	// handler's domain.
	CanHandle(sc *session.Context) bool
	// Handle processes the current utterance. Handlers that mutate the data
	// store or user knowledge checkpoint the session first.
	Handle(ctx context.Context, sc *session.Context) Result
}
