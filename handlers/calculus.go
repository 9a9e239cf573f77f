package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/tailored-agentic-units/interpreter/calculus"
	"github.com/tailored-agentic-units/interpreter/numeric"
	"github.com/tailored-agentic-units/interpreter/session"
)

var calculusTriggers = []string{
	"integral of", "area under", "definite integral", "∫", "derivative", "rate of change",
}

// Patterns run against the lowercased utterance with all whitespace removed.
var (
	definitePattern   = regexp.MustCompile(`(areaunder|definiteintegralof|integralof)(.+)from(-?\d+\.?\d*)to(-?\d+\.?\d*)`)
	indefinitePattern = regexp.MustCompile(`^integralof(.+)$`)
	derivativePattern = regexp.MustCompile(`^(derivativeof|rateofchangeof)(.+)$`)
)

// Calculus integrates and differentiates polynomials with the power rule.
type Calculus struct{}

func (*Calculus) Name() string { return "calculus" }

func (*Calculus) CanHandle(sc *session.Context) bool {
	text := strings.ToLower(sc.RawInput)
	for _, t := range calculusTriggers {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func (c *Calculus) Handle(_ context.Context, sc *session.Context) Result {
	text := compact(strings.ToLower(sc.RawInput))

	if rest, ok := strings.CutPrefix(text, "∫"); ok {
		if body, ok := strings.CutSuffix(rest, "dx"); ok {
			return c.indefinite(sc, body)
		}
	}

	if m := definitePattern.FindStringSubmatch(text); m != nil {
		lower, ok1 := numeric.ParseNumber(m[3])
		upper, ok2 := numeric.ParseNumber(m[4])
		if !ok1 || !ok2 {
			return Clarify()
		}
		return c.definite(sc, trimDx(m[2]), lower, upper)
	}

	if m := indefinitePattern.FindStringSubmatch(text); m != nil {
		return c.indefinite(sc, trimDx(m[1]))
	}

	if m := derivativePattern.FindStringSubmatch(text); m != nil {
		return c.derivative(sc, trimDx(m[2]))
	}

	return Clarify()
}

func (c *Calculus) indefinite(sc *session.Context, body string) Result {
	terms, err := numeric.ParseTerms(body)
	if err != nil {
		return Clarify()
	}

	anti := calculus.Integrate(terms)

	reason := []string{
		"This is an indefinite integral.",
		"I applied the power rule and linearity of integration.",
	}
	for _, s := range anti.Steps {
		reason = append(reason, fmt.Sprintf("The integral of %s is %s.", s.Term, s.Result))
	}
	reason = append(reason, "Adding constant of integration C.")
	sc.Decide(c.Name(), reason...)

	return Reply(fmt.Sprintf("The integral is %s + C.", anti.Expression()))
}

func (c *Calculus) definite(sc *session.Context, body string, lower, upper float64) Result {
	terms, err := numeric.ParseTerms(body)
	if err != nil {
		return Clarify()
	}

	d := calculus.IntegrateBetween(terms, lower, upper)
	a, b := numeric.Format(d.Lower), numeric.Format(d.Upper)

	sc.Decide(c.Name(),
		"This is a definite integral.",
		"I first found the antiderivative.",
		fmt.Sprintf("F(%s) = %s", b, numeric.Format(d.FUpper)),
		fmt.Sprintf("F(%s) = %s", a, numeric.Format(d.FLower)),
		fmt.Sprintf("F(%s) − F(%s) = %s", b, a, numeric.Format(d.Area)),
	)
	return Reply(fmt.Sprintf("The definite integral is %s.", numeric.Format(d.Area)))
}

func (c *Calculus) derivative(sc *session.Context, body string) Result {
	terms, err := numeric.ParseTerms(body)
	if err != nil {
		return Clarify()
	}

	deriv := calculus.Differentiate(terms)

	reason := []string{
		"This is a derivative.",
		"I applied the power rule to each term.",
	}
	for _, s := range deriv.Steps {
		reason = append(reason, fmt.Sprintf("The derivative of %s is %s.", s.Term, s.Result))
	}
	if len(deriv.Steps) < len(terms) {
		reason = append(reason, "Constant terms vanish.")
	}
	sc.Decide(c.Name(), reason...)

	return Reply(fmt.Sprintf("The derivative is %s.", deriv.Expression()))
}

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func trimDx(body string) string {
	if trimmed, ok := strings.CutSuffix(body, "dx"); ok && trimmed != "" {
		return trimmed
	}
	return body
}
