package numeric

import (
	"strconv"
	"strings"
)

// ParseNumber parses a single numeric literal token.
func ParseNumber(token string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseList extracts every numeric literal from a whitespace or comma
// separated list. Tokens that are not numbers are skipped.
func ParseList(text string) []float64 {
	var values []float64
	for _, tok := range strings.Fields(strings.ReplaceAll(text, ",", " ")) {
		if v, ok := ParseNumber(tok); ok {
			values = append(values, v)
		}
	}
	return values
}
