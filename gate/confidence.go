package gate

// ConfidenceLevel classifies how reliably a request can be acted on.
type ConfidenceLevel int

const (
	ConfidenceHigh ConfidenceLevel = iota
	// ConfidenceMedium is never produced by EvaluateConfidence.
	ConfidenceMedium
	ConfidenceLow
	ConfidenceCritical
)

func (c ConfidenceLevel) String() string {
	switch c {
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceMedium:
		return "MEDIUM"
	case ConfidenceLow:
		return "LOW"
	default:
		return "CRITICAL"
	}
}

// Signals are the contextual inputs to EvaluateConfidence.
type Signals struct {
	Risk   RiskLevel
	Intent string
}

// ConfidenceResult is the verdict of EvaluateConfidence.
type ConfidenceResult struct {
	Level  ConfidenceLevel
	Reason string
}

// EvaluateConfidence returns Critical for high-risk signals, Low when no
// intent was recognized, and High otherwise.
func EvaluateConfidence(s Signals) ConfidenceResult {
	if s.Risk == RiskHigh {
		return ConfidenceResult{Level: ConfidenceCritical, Reason: "High risk detected"}
	}
	if s.Intent == "" {
		return ConfidenceResult{Level: ConfidenceLow, Reason: "Intent unclear"}
	}
	return ConfidenceResult{Level: ConfidenceHigh}
}
