package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tailored-agentic-units/interpreter/numeric"
	"github.com/tailored-agentic-units/interpreter/session"
)

var wordProblemTriggers = []string{
	"a number", "sum of", "increased by", "decreased by",
	"minus", "equals", "becomes", "travels", "percent of",
}

type linearPhrase struct {
	pattern *regexp.Regexp
	format  string
}

var linearPhrases = []linearPhrase{
	{regexp.MustCompile(`a number increased by (\d+) becomes (\d+)`), "x + %s = %s"},
	{regexp.MustCompile(`the sum of a number and (\d+) is (\d+)`), "x + %s = %s"},
	{regexp.MustCompile(`a number decreased by (\d+) becomes (\d+)`), "x - %s = %s"},
	{regexp.MustCompile(`a number minus (\d+) equals (\d+)`), "x - %s = %s"},
}

var (
	ratePattern    = regexp.MustCompile(`travels (\d+\.?\d*) .* in (\d+\.?\d*) hour`)
	percentPattern = regexp.MustCompile(`(\d+\.?\d*) percent of (\d+\.?\d*)`)
	conjunction    = regexp.MustCompile(`\b(and|or)\b`)
)

// WordProblem translates one-step linear word problems into equations and
// answers simple rate and percentage questions.
type WordProblem struct {
	solver *Equation
}

// NewWordProblem creates a WordProblem that forwards translated equations
// to solver.
func NewWordProblem(solver *Equation) *WordProblem {
	return &WordProblem{solver: solver}
}

func (*WordProblem) Name() string { return "word_problem" }

func (*WordProblem) CanHandle(sc *session.Context) bool {
	text := strings.ToLower(sc.RawInput)
	for _, t := range wordProblemTriggers {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func (w *WordProblem) Handle(_ context.Context, sc *session.Context) Result {
	text := strings.ToLower(strings.TrimSpace(sc.RawInput))

	if equation, ok := translateLinear(text); ok {
		res := w.solver.Solve(sc, equation)
		if res.Outcome != Handled {
			return res
		}

		reason := []string{
			"I converted the word problem into an equation.",
			fmt.Sprintf("The equation was %s.", equation),
			"Then I solved it to find the unknown value.",
		}
		if sc.LastDecision != nil {
			reason = append(reason, sc.LastDecision.Reason...)
		}
		sc.Decide(w.Name(), reason...)
		return res
	}

	if m := ratePattern.FindStringSubmatch(text); m != nil {
		d, _ := numeric.ParseNumber(m[1])
		t, _ := numeric.ParseNumber(m[2])
		if t == 0 {
			return Clarify()
		}

		sc.Decide(w.Name(),
			"Speed is calculated as distance divided by time.",
			fmt.Sprintf("I divided %s by %s.", numeric.Format(d), numeric.Format(t)),
		)
		return Reply(fmt.Sprintf("The speed is %s km/h.", numeric.Format(d/t)))
	}

	if m := percentPattern.FindStringSubmatch(text); m != nil {
		p, _ := numeric.ParseNumber(m[1])
		v, _ := numeric.ParseNumber(m[2])

		sc.Decide(w.Name(),
			"Percent means per hundred.",
			fmt.Sprintf("I calculated %s%% of %s.", numeric.Format(p), numeric.Format(v)),
		)
		return Reply(fmt.Sprintf("%s percent of %s is %s.",
			numeric.Format(p), numeric.Format(v), numeric.Format(p/100*v)))
	}

	return Clarify()
}

// translateLinear maps a canonical phrasing to an equation in x. Phrases
// joined by "and" or "or" describe more than one relation and are rejected;
// the "and" inside "sum of a number and" is part of the phrasing itself.
func translateLinear(text string) (string, bool) {
	if conjunction.MatchString(strings.Replace(text, "sum of a number and", "", 1)) {
		return "", false
	}
	for _, lp := range linearPhrases {
		if m := lp.pattern.FindStringSubmatch(text); m != nil {
			return fmt.Sprintf(lp.format, m[1], m[2]), true
		}
	}
	return "", false
}
