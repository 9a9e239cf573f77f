package handlers

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tailored-agentic-units/interpreter/numeric"
	"github.com/tailored-agentic-units/interpreter/session"
)

var dataTriggers = []string{
	"find", "minimum", "maximum", "min", "max",
	"best", "sort",
	"where", "and", "or",
	"above", "below", "near", "around",
	"closest", "nearest",
	"highest", "lowest",
}

// Symbolic operators in match order: two-character operators first.
var conditionOps = []string{">=", "<=", ">", "<", "=="}

// DataQuery answers comparator and aggregate queries over named datasets.
// Undefined datasets read as empty and end in a clarification request.
type DataQuery struct{}

func (*DataQuery) Name() string { return "data" }

func (*DataQuery) CanHandle(sc *session.Context) bool {
	text := strings.ToLower(sc.RawInput)
	for _, t := range dataTriggers {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// compound describes a "<pick> <side> <target>" phrase such as
// "highest below 5".
type compound struct {
	phrase string
	side   string
	pick   func(candidates []float64, target float64) float64
	answer string
	reason string
}

var compounds = []compound{
	{
		phrase: "highest below",
		side:   "below",
		pick:   func(c []float64, _ float64) float64 { return slices.Max(c) },
		answer: "The highest value below %s is %s.",
		reason: "I selected the highest value below %s.",
	},
	{
		phrase: "lowest above",
		side:   "above",
		pick:   func(c []float64, _ float64) float64 { return slices.Min(c) },
		answer: "The lowest value above %s is %s.",
		reason: "I selected the lowest value above %s.",
	},
	{
		phrase: "closest above",
		side:   "above",
		pick:   nearest,
		answer: "The closest value above %s is %s.",
		reason: "I chose the value just above %s.",
	},
	{
		phrase: "closest below",
		side:   "below",
		pick:   nearest,
		answer: "The closest value below %s is %s.",
		reason: "I chose the value just below %s.",
	},
}

func (q *DataQuery) Handle(_ context.Context, sc *session.Context) Result {
	text := strings.ToLower(sc.RawInput)

	for _, c := range compounds {
		if strings.Contains(text, c.phrase) {
			return q.compound(sc, text, c)
		}
	}

	if strings.Contains(text, "closest") || strings.Contains(text, "nearest") {
		return q.closest(sc, text)
	}

	numbers, filter, ok := q.extract(sc, text)
	if !ok || len(numbers) == 0 {
		return Clarify()
	}
	considered := numeric.FormatList(numbers)

	switch {
	case strings.Contains(text, "minimum") || strings.Contains(text, "min"):
		r := numeric.Format(slices.Min(numbers))
		sc.Decide(q.Name(), filter, fmt.Sprintf("After filtering, the smallest value in %s is %s.", considered, r))
		return Reply(fmt.Sprintf("The minimum value is %s.", r))

	case strings.Contains(text, "maximum") || strings.Contains(text, "max"):
		r := numeric.Format(slices.Max(numbers))
		sc.Decide(q.Name(), filter, fmt.Sprintf("After filtering, the largest value in %s is %s.", considered, r))
		return Reply(fmt.Sprintf("The maximum value is %s.", r))

	case strings.Contains(text, "best"):
		r := numeric.Format(slices.Max(numbers))
		sc.Decide(q.Name(), filter, fmt.Sprintf("After filtering, %s is the highest value in %s.", r, considered))
		return Reply(fmt.Sprintf("The best value is %s.", r))

	case strings.Contains(text, "sort"):
		sorted := slices.Clone(numbers)
		slices.Sort(sorted)
		sc.Decide(q.Name(), filter, fmt.Sprintf("I sorted the values %s.", considered))
		return Reply(fmt.Sprintf("The sorted result is %s.", numeric.FormatList(sorted)))
	}

	return Pass()
}

func (q *DataQuery) compound(sc *session.Context, text string, c compound) Result {
	numbers, target, ok := q.resolveCompound(sc, text, c.side)
	if !ok {
		return Clarify()
	}

	var candidates []float64
	for _, v := range numbers {
		if (c.side == "below" && v < target) || (c.side == "above" && v > target) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return Clarify()
	}

	t := numeric.Format(target)
	r := numeric.Format(c.pick(candidates, target))
	sc.Decide(q.Name(),
		fmt.Sprintf("I kept values %s %s from %s, leaving %s.",
			c.side, t, numeric.FormatList(numbers), numeric.FormatList(candidates)),
		fmt.Sprintf(c.reason, t),
	)
	return Reply(fmt.Sprintf(c.answer, t, r))
}

// resolveCompound finds the dataset named after " of " or " in " and the
// target that follows side. The target may itself be a dataset name, in
// which case its first value is used.
func (q *DataQuery) resolveCompound(sc *session.Context, text, side string) ([]float64, float64, bool) {
	var numbers []float64
	if _, name, ok := strings.Cut(text, " of "); ok {
		numbers = sc.Dataset(strings.TrimSpace(name))
	} else if _, name, ok := strings.Cut(text, " in "); ok {
		numbers = sc.Dataset(strings.TrimSpace(name))
	}

	_, targetPart, _ := strings.Cut(text, side)
	for _, stop := range []string{" of ", " in "} {
		targetPart, _, _ = strings.Cut(targetPart, stop)
	}
	targetPart = strings.TrimSpace(targetPart)

	if series, ok := sc.DataStore[targetPart]; ok {
		if len(series) == 0 {
			return nil, 0, false
		}
		return numbers, series[0], true
	}

	target, ok := numeric.ParseNumber(targetPart)
	return numbers, target, ok
}

func (q *DataQuery) closest(sc *session.Context, text string) Result {
	_, rest, ok := strings.Cut(text, " to ")
	if !ok || !strings.Contains(text, " in ") {
		return Clarify()
	}
	targetPart, dataset, ok := strings.Cut(rest, " in ")
	if !ok {
		return Clarify()
	}

	numbers := sc.Dataset(strings.TrimSpace(dataset))
	target, ok := resolveOperand(sc, targetPart)
	if !ok || len(numbers) == 0 {
		return Clarify()
	}

	closest := nearest(numbers, target)
	sc.Decide(q.Name(),
		fmt.Sprintf("I compared every value in %s with %s.", numeric.FormatList(numbers), numeric.Format(target)),
		fmt.Sprintf("I chose %s because it is closest to %s.", numeric.Format(closest), numeric.Format(target)),
	)
	return Reply(fmt.Sprintf("The closest value is %s.", numeric.Format(closest)))
}

// extract selects the numbers a query ranges over and applies any filter. It
// returns the filter description; ok is false when a filter operand could
// not be resolved.
func (q *DataQuery) extract(sc *session.Context, text string) ([]float64, string, bool) {
	var numbers []float64
	if _, rest, ok := strings.Cut(text, " of "); ok {
		numbers = slices.Clone(sc.Dataset(firstField(rest)))
	} else if _, rest, ok := strings.Cut(text, " in "); ok {
		numbers = slices.Clone(sc.Dataset(firstField(rest)))
	} else {
		numbers = numeric.ParseList(text)
	}

	filter := "No filtering was applied."

	if _, cond, ok := strings.Cut(text, " where "); ok {
		numbers, filter = applyCondition(sc, numbers, strings.TrimSpace(cond))
	}

	if _, rest, ok := strings.Cut(text, " above "); ok {
		rhs, ok := resolveOperand(sc, rest)
		if !ok {
			return nil, "", false
		}
		numbers = keep(numbers, func(v float64) bool { return v > rhs })
		filter = fmt.Sprintf("I kept values above %s.", numeric.Format(rhs))
	}

	if _, rest, ok := strings.Cut(text, " below "); ok {
		rhs, ok := resolveOperand(sc, rest)
		if !ok {
			return nil, "", false
		}
		numbers = keep(numbers, func(v float64) bool { return v < rhs })
		filter = fmt.Sprintf("I kept values below %s.", numeric.Format(rhs))
	}

	return numbers, filter, true
}

func applyCondition(sc *session.Context, numbers []float64, cond string) ([]float64, string) {
	for _, op := range conditionOps {
		_, operand, ok := strings.Cut(cond, op)
		if !ok {
			continue
		}

		rhs, ok := resolveOperand(sc, operand)
		if !ok {
			return numbers, "Condition could not be resolved."
		}

		var pred func(float64) bool
		symbol := op
		switch op {
		case ">":
			pred = func(v float64) bool { return v > rhs }
		case "<":
			pred = func(v float64) bool { return v < rhs }
		case ">=":
			pred, symbol = func(v float64) bool { return v >= rhs }, "≥"
		case "<=":
			pred, symbol = func(v float64) bool { return v <= rhs }, "≤"
		case "==":
			pred = func(v float64) bool { return v == rhs }
		}
		return keep(numbers, pred), fmt.Sprintf("I kept values %s %s.", symbol, numeric.Format(rhs))
	}
	return numbers, "No valid condition was applied."
}

// resolveOperand reads the first word of text as a dataset name (yielding
// its first value) or a numeric literal.
func resolveOperand(sc *session.Context, text string) (float64, bool) {
	token := firstField(text)
	if token == "" {
		return 0, false
	}
	if series, ok := sc.DataStore[token]; ok {
		if len(series) == 0 {
			return 0, false
		}
		return series[0], true
	}
	return numeric.ParseNumber(token)
}

// nearest returns the value minimizing (|v-target|, v), so ties go to the
// smaller value.
func nearest(values []float64, target float64) float64 {
	best := values[0]
	for _, v := range values[1:] {
		d, bd := math.Abs(v-target), math.Abs(best-target)
		if d < bd || (d == bd && v < best) {
			best = v
		}
	}
	return best
}

func keep(values []float64, pred func(float64) bool) []float64 {
	var out []float64
	for _, v := range values {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
