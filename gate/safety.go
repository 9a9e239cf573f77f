// Package gate holds the last-resort evaluators the engine consults when no
// handler claims an utterance. Both evaluators are pure functions of their
// input.
package gate

import "strings"

// RiskLevel classifies how dangerous an utterance looks.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskHigh
)

func (r RiskLevel) String() string {
	if r == RiskHigh {
		return "HIGH"
	}
	return "NONE"
}

// SafetyResult is the verdict of EvaluateSafety.
type SafetyResult struct {
	Level  RiskLevel
	Reason string
}

var destructive = []string{"delete", "remove", "erase", "destroy"}

// EvaluateSafety flags any utterance containing a destructive verb,
// case-insensitively and anywhere in the text.
func EvaluateSafety(text string) SafetyResult {
	lower := strings.ToLower(text)
	for _, verb := range destructive {
		if strings.Contains(lower, verb) {
			return SafetyResult{Level: RiskHigh, Reason: "Destructive action"}
		}
	}
	return SafetyResult{Level: RiskNone}
}
