package numeric

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnsupportedTerm is returned when a polynomial contains a term outside
// the c*x^k grammar.
var ErrUnsupportedTerm = errors.New("unsupported term")

// MaxPower is the largest exponent ParseTerms accepts.
const MaxPower = 1000

var (
	termPattern     = regexp.MustCompile(`^(\d*)x(\^(\d+))?$`)
	constantPattern = regexp.MustCompile(`^\d+$`)
)

// Term is a single polynomial term Coeff*x^Power.
type Term struct {
	Coeff int
	Power int
}

// String renders the term as "4x" for exponent 1 and "3x^2" otherwise.
// Constants keep their exponent: 5 renders as "5x^0".
func (t Term) String() string {
	if t.Power == 1 {
		return fmt.Sprintf("%dx", t.Coeff)
	}
	return fmt.Sprintf("%dx^%d", t.Coeff, t.Power)
}

// ParseTerms parses a sum of terms such as "3x^2+2x+5". Whitespace is
// ignored and one pair of enclosing parentheses is stripped. The coefficient
// defaults to 1, the exponent defaults to 1, and a bare integer is a term
// with exponent 0. Any term outside that grammar rejects the whole
// expression. Exponents are integers in [0, MaxPower].
func ParseTerms(expr string) ([]Term, error) {
	expr = strings.Join(strings.Fields(expr), "")
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		expr = expr[1 : len(expr)-1]
	}

	parts := strings.Split(expr, "+")
	terms := make([]Term, 0, len(parts))

	for _, part := range parts {
		if m := termPattern.FindStringSubmatch(part); m != nil {
			t := Term{Coeff: 1, Power: 1}
			if m[1] != "" {
				c, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("%w: %q", ErrUnsupportedTerm, part)
				}
				t.Coeff = c
			}
			if m[3] != "" {
				p, err := strconv.Atoi(m[3])
				if err != nil || p > MaxPower {
					return nil, fmt.Errorf("%w: %q", ErrUnsupportedTerm, part)
				}
				t.Power = p
			}
			terms = append(terms, t)
			continue
		}

		if constantPattern.MatchString(part) {
			c, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrUnsupportedTerm, part)
			}
			terms = append(terms, Term{Coeff: c, Power: 0})
			continue
		}

		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTerm, part)
	}

	return terms, nil
}
