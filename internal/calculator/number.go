package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// errorText is the operand text left behind by a failed computation.
const errorText = "NaN"

// ParseOperand converts operand text to a float64. Text that is not a
// number yields NaN; magnitudes beyond float64 yield ±Inf.
func ParseOperand(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// FormatOperand converts a float64 back to operand text: shortest
// round-trip decimal, switching to exponent notation for magnitudes of
// at least 1e21 or below 1e-6.
func FormatOperand(f float64) string {
	switch {
	case math.IsNaN(f):
		return errorText
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent rewrites "1.5e-07" as "1.5e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mantissa, sign, digits := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + string(sign) + digits
}

// IsFinite reports whether operand text parses to a finite number.
func IsFinite(s string) bool {
	f := ParseOperand(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
