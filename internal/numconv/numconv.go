// Package numconv converts between numeric literals and Go numbers. All
// conversions are radix-10 and locale independent.
package numconv

import (
	"math"
	"strconv"
	"strings"
)

// IsDouble reports whether a numeric literal denotes a floating point value.
func IsDouble(text string) bool {
	return strings.ContainsAny(text, ".eE")
}

// ParseInt converts an integer literal.
func ParseInt(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}

// ParseFloat converts a floating point literal.
func ParseFloat(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

// FormatInt renders i in decimal.
func FormatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// FormatFloat renders f with the fewest digits that parse back to f. The
// result always contains '.', 'e' or 'E' so it is read back as a double.
// NaN and infinities have no literal form and render as "null".
func FormatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !IsDouble(s) {
		s += ".0"
	}
	return s
}
