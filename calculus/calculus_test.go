package calculus_test

import (
	"testing"

	"github.com/tailored-agentic-units/interpreter/calculus"
	"github.com/tailored-agentic-units/interpreter/numeric"
)

func TestIntegrate_Unreduced(t *testing.T) {
	got := calculus.Integrate([]numeric.Term{{Coeff: 3, Power: 2}})
	if got.Expression() != "3/3*x^3" {
		t.Errorf("got %q, want %q", got.Expression(), "3/3*x^3")
	}
}

func TestIntegrate_Sum(t *testing.T) {
	terms := []numeric.Term{{Coeff: 3, Power: 2}, {Coeff: 2, Power: 1}, {Coeff: 5, Power: 0}}

	got := calculus.Integrate(terms)

	want := "3/3*x^3 + 2/2*x^2 + 5/1*x^1"
	if got.Expression() != want {
		t.Errorf("got %q, want %q", got.Expression(), want)
	}
	if len(got.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(got.Steps))
	}
	if got.Steps[1].Term != terms[1] {
		t.Errorf("step 1 term = %v, want %v", got.Steps[1].Term, terms[1])
	}
}

func TestIntegrateBetween(t *testing.T) {
	tests := []struct {
		name         string
		terms        []numeric.Term
		lower, upper float64
		want         float64
	}{
		{name: "identity", terms: []numeric.Term{{Coeff: 1, Power: 1}}, lower: 0, upper: 2, want: 2},
		{name: "square", terms: []numeric.Term{{Coeff: 3, Power: 2}}, lower: 1, upper: 2, want: 7},
		{name: "constant", terms: []numeric.Term{{Coeff: 4, Power: 0}}, lower: 1, upper: 3, want: 8},
		{name: "reversed bounds", terms: []numeric.Term{{Coeff: 1, Power: 1}}, lower: 2, upper: 0, want: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculus.IntegrateBetween(tt.terms, tt.lower, tt.upper)
			if got.Area != tt.want {
				t.Errorf("got area %v, want %v", got.Area, tt.want)
			}
			if got.FUpper-got.FLower != got.Area {
				t.Errorf("area %v does not equal F(upper) - F(lower) = %v", got.Area, got.FUpper-got.FLower)
			}
		})
	}
}

func TestDifferentiate(t *testing.T) {
	got := calculus.Differentiate([]numeric.Term{{Coeff: 3, Power: 2}, {Coeff: 7, Power: 0}})
	if got.Expression() != "3*2*x^1" {
		t.Errorf("got %q, want %q", got.Expression(), "3*2*x^1")
	}

	constant := calculus.Differentiate([]numeric.Term{{Coeff: 9, Power: 0}})
	if constant.Expression() != "0" {
		t.Errorf("got %q, want %q", constant.Expression(), "0")
	}
}
