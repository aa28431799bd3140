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

// ClampVec4 clamps every component of v to [0, 1].
func ClampVec4(v Vec4) Vec4 {
	return Vec4{
		X: Clamp(v.X, 0, 1),
		Y: Clamp(v.Y, 0, 1),
		Z: Clamp(v.Z, 0, 1),
		W: Clamp(v.W, 0, 1),
	}
}
