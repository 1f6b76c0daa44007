// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Sign returns -1 if value is negative, 1 if value is positive, and
// 0 otherwise
func Sign(value float64) float64 {
	switch {
	case value < 0:
		return -1
	case value > 0:
		return 1
	}
	return 0
}

// Wrap wraps value into the interval [min, max), so that values which
// exceed one end of the interval re-enter it from the other end
func Wrap(value, min, max float64) float64 {
	width := max - min
	if width <= 0 {
		panic("wrap: max must be greater than min")
	}
	wrapped := math.Mod(value-min, width)
	if wrapped < 0 {
		wrapped += width
	}
	return wrapped + min
}
