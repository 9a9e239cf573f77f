package algebra

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/tailored-agentic-units/interpreter/numeric"
)

// Epsilon is the slope magnitude below which an equation has no unique root.
const Epsilon = 1e-12

// ErrNoVariable is returned when neither side of the equation contains an
// alphabetic variable symbol.
var ErrNoVariable = errors.New("no variable found")

// Solution is the outcome of solving a linear equation. When Unique is false
// the slope vanished and Root is meaningless.
type Solution struct {
	Variable string
	Root     float64
	Unique   bool
	Slope    Value
	Offset   Value
	Steps    []string
}

// DetectVariable returns the first alphabetic character of text.
func DetectVariable(text string) (string, bool) {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return string(r), true
		}
	}
	return "", false
}

// Solve finds the root of lhs = rhs, assuming both sides are affine in a
// single variable. Both a vanishing-slope contradiction and an identity
// report Unique == false.
func Solve(lhs, rhs string) (*Solution, error) {
	variable, ok := DetectVariable(lhs + rhs)
	if !ok {
		return nil, ErrNoVariable
	}

	expr := fmt.Sprintf("(%s) - (%s)", lhs, rhs)
	expr = strings.ReplaceAll(expr, "^", "**")
	implicit := regexp.MustCompile(`(\d)(` + regexp.QuoteMeta(variable) + `)`)
	expr = implicit.ReplaceAllString(expr, "${1}*${2}")

	at := func(x string) (Value, error) {
		return Evaluate(strings.ReplaceAll(expr, variable, "("+x+")"))
	}

	b, err := at("0")
	if err != nil {
		return nil, fmt.Errorf("evaluate at 0: %w", err)
	}
	f1, err := at("1")
	if err != nil {
		return nil, fmt.Errorf("evaluate at 1: %w", err)
	}
	a := Value{Float: f1.Float - b.Float, Integer: f1.Integer && b.Integer}

	sol := &Solution{Variable: variable, Slope: a, Offset: b}

	if math.Abs(a.Float) < Epsilon {
		sol.Steps = []string{"No unique solution exists."}
		return sol, nil
	}

	root := -b.Float / a.Float
	if root == 0 {
		root = 0
	}
	sol.Root = root
	sol.Unique = true
	sol.Steps = []string{
		fmt.Sprintf("I rearranged the equation into a%s + b = 0.", variable),
		fmt.Sprintf("I identified a = %s, b = %s.", a, b),
		fmt.Sprintf("I solved %s = -b / a = %s.", variable, numeric.Format(root)),
	}
	return sol, nil
}
