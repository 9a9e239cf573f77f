// Package calculus applies the power rule to polynomials parsed by
// numeric.ParseTerms. Antiderivatives and derivatives are rendered in
// unreduced form: the integral of 3x^2 is "3/3*x^3", not "x^3".
package calculus

import (
	"fmt"
	"math"
	"strings"

	"github.com/tailored-agentic-units/interpreter/numeric"
)

// Step pairs an input term with its transformed rendering.
type Step struct {
	Term   numeric.Term
	Result string
}

// Antiderivative is the indefinite integral of a polynomial without the
// constant of integration.
type Antiderivative struct {
	Steps []Step
}

// Expression joins the per-term antiderivatives with " + ".
func (a Antiderivative) Expression() string {
	parts := make([]string, len(a.Steps))
	for i, s := range a.Steps {
		parts[i] = s.Result
	}
	return strings.Join(parts, " + ")
}

// Integrate applies c*x^k -> c/(k+1)*x^(k+1) to every term. Exponents are
// non-negative so k+1 is never zero.
func Integrate(terms []numeric.Term) Antiderivative {
	steps := make([]Step, len(terms))
	for i, t := range terms {
		next := t.Power + 1
		steps[i] = Step{
			Term:   t,
			Result: fmt.Sprintf("%d/%d*x^%d", t.Coeff, next, next),
		}
	}
	return Antiderivative{Steps: steps}
}

// Evaluate computes the antiderivative F(x) numerically.
func Evaluate(terms []numeric.Term, x float64) float64 {
	var total float64
	for _, t := range terms {
		next := float64(t.Power + 1)
		total += float64(t.Coeff) * math.Pow(x, next) / next
	}
	return total
}

// Definite is the result of integrating a polynomial between two bounds.
type Definite struct {
	Lower, Upper float64
	FLower       float64
	FUpper       float64
	Area         float64
}

// IntegrateBetween evaluates F(upper) - F(lower).
func IntegrateBetween(terms []numeric.Term, lower, upper float64) Definite {
	fu := Evaluate(terms, upper)
	fl := Evaluate(terms, lower)
	return Definite{
		Lower:  lower,
		Upper:  upper,
		FLower: fl,
		FUpper: fu,
		Area:   fu - fl,
	}
}

// Derivative is the power-rule derivative of a polynomial. Constant terms
// vanish and are omitted from Steps.
type Derivative struct {
	Steps []Step
}

// Expression joins the per-term derivatives with " + ", or "0" when every
// term was constant.
func (d Derivative) Expression() string {
	if len(d.Steps) == 0 {
		return "0"
	}
	parts := make([]string, len(d.Steps))
	for i, s := range d.Steps {
		parts[i] = s.Result
	}
	return strings.Join(parts, " + ")
}

// Differentiate applies c*x^k -> c*k*x^(k-1) to every non-constant term.
func Differentiate(terms []numeric.Term) Derivative {
	var steps []Step
	for _, t := range terms {
		if t.Power == 0 {
			continue
		}
		steps = append(steps, Step{
			Term:   t,
			Result: fmt.Sprintf("%d*%d*x^%d", t.Coeff, t.Power, t.Power-1),
		})
	}
	return Derivative{Steps: steps}
}
