package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts a numeric query value. Blank, malformed, NaN and
// infinite inputs report false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseOptionalNumber is ParseNumber for a parameter that may not be supplied.
func ParseOptionalNumber(s *string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	return ParseNumber(*s)
}
