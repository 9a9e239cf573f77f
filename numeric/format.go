package numeric

import (
	"math"
	"strconv"
	"strings"
)

// Format renders v using the shortest representation that round-trips.
// Values with a decimal exponent in [-4, 16) use positional notation and
// always carry a fractional part; everything else uses exponent notation.
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if v != 0 {
		sci := strconv.FormatFloat(v, 'e', -1, 64)
		exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
		if exp < -4 || exp >= 16 {
			return sci
		}
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// FormatList renders values as a bracketed, comma-separated list.
func FormatList(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Format(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
