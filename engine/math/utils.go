package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// RangeConvertFloat32 maps value from the range [oldMin, oldMax] into [newMin, newMax].
func RangeConvertFloat32(value, oldMin, oldMax, newMin, newMax float32) float32 {
	return (((value - oldMin) * (newMax - newMin)) / (oldMax - oldMin)) + newMin
}
