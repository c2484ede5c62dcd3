package utils

import "math"

// Round2 rounds a value to 2 decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// RoundWhole rounds to the nearest whole currency unit, halves away from zero.
// For the non-negative amounts the calculators produce this is round-half-up.
func RoundWhole(value float64) float64 {
	return math.Round(value)
}

// IsFinite reports whether value is neither NaN nor an infinity.
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}
