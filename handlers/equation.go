package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/interpreter/algebra"
	"github.com/tailored-agentic-units/interpreter/numeric"
	"github.com/tailored-agentic-units/interpreter/session"
)

// Equation solves "solve <lhs> = <rhs>" for a single variable.
type Equation struct{}

func (*Equation) Name() string { return "equation" }

// CanHandle claims anything that starts with "solve" or contains "=".
// Non-solve assignments are passed on by Handle after the previous decision
// is discarded.
func (*Equation) CanHandle(sc *session.Context) bool {
	text := strings.ToLower(sc.RawInput)
	return strings.HasPrefix(text, "solve") || strings.Contains(text, "=")
}

func (e *Equation) Handle(_ context.Context, sc *session.Context) Result {
	sc.ClearDecision()

	text := strings.ToLower(strings.TrimSpace(sc.RawInput))
	if !strings.HasPrefix(text, "solve") {
		return Pass()
	}
	return e.Solve(sc, strings.TrimSpace(strings.TrimPrefix(text, "solve")))
}

// Solve solves a textual equation and records the derivation. The previous
// decision is discarded before solving.
func (e *Equation) Solve(sc *session.Context, equation string) Result {
	sc.ClearDecision()

	sides := strings.Split(equation, "=")
	if len(sides) != 2 {
		return Clarify()
	}

	sol, err := algebra.Solve(strings.TrimSpace(sides[0]), strings.TrimSpace(sides[1]))
	if err != nil {
		return Clarify()
	}

	sc.Decide(e.Name(), sol.Steps...)

	if !sol.Unique {
		return Reply("This equation has no unique solution.")
	}
	return Reply(fmt.Sprintf("The solution is %s = %s.", sol.Variable, numeric.Format(sol.Root)))
}
