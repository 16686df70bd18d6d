// Package affinity provides the numeric similarity primitives the fit
// scorer is built from: scalar closeness, vector closeness, color distance,
// and range affinity.
package affinity

import "math"

// RangeFalloffSlope controls how fast affinity decays outside a tolerance
// band. A slope of 3 reaches zero at distance 1/3 past either bound.
const RangeFalloffSlope = 3.0

// Clamp01 clamps x to [0, 1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Closeness returns how near two scalars are on the unit interval:
// 1 for identical values, falling linearly to 0 at distance 1.
func Closeness(a, b float64) float64 {
	return Clamp01(1 - math.Abs(a-b))
}

// VectorCloseness returns the mean element-wise Closeness of two vectors.
// Callers pass equal-length vectors; an empty pair scores 0.
func VectorCloseness(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += Closeness(a[i], b[i])
	}
	return sum / float64(len(a))
}

// Color is an RGB triple with each component in [0, 1].
type Color [3]float64

// ColorAffinity compares a candidate color against a target in RGB unit-cube
// space, normalized so the farthest corners score 0. A missing candidate
// color scores 0.
func ColorAffinity(candidate *Color, target Color) float64 {
	if candidate == nil {
		return 0
	}
	dist := 0.0
	for i := range target {
		d := candidate[i] - target[i]
		dist += d * d
	}
	dist = math.Sqrt(dist)
	return Clamp01(1 - dist/math.Sqrt(3))
}

// RangeAffinity scores a value against a tolerance band [min, max]: full
// credit inside the band, linear falloff with RangeFalloffSlope outside.
func RangeAffinity(min, max, value float64) float64 {
	if value >= min && value <= max {
		return 1
	}
	dist := min - value
	if value > max {
		dist = value - max
	}
	return Clamp01(1 - RangeFalloffSlope*dist)
}
