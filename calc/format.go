package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v the way the display shows results.
// Integers print without a fraction, very large or very small magnitudes
// switch to exponent form, and -0 prints as "0".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// trimExponent drops the zero padding strconv puts in exponents ("5e-07" -> "5e-7")
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+3 >= len(s) || s[i+2] != '0' {
		return s
	}
	return s[:i+2] + s[i+3:]
}

// ParseNumber returns the numeric value of display text.
// Text that is not a number (a lone "-", the error sentinel) is 0.
func ParseNumber(s string) float64 {
	switch s {
	case "Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}

// isFinite reports whether the display holds an editable numeral
func isFinite(s string) bool {
	switch s {
	case "NaN", "Infinity", "-Infinity":
		return false
	}
	return true
}

// countDigits counts the digit characters in s, ignoring sign and point
func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// hasPoint reports whether s already contains a decimal point
func hasPoint(s string) bool {
	return strings.ContainsRune(s, '.')
}
