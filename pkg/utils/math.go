package utils

import "math"

// countTolerance is the relative distance to an integer treated as floating-point noise,
// such as 2.0000000000000004 crafts
const countTolerance = 1e-12

// CeilCount returns ceil(x) as an action count.
// Values within countTolerance*max(1, x) of an integer snap to it, and any positive x needs at
// least one action.
func CeilCount(x float64) int64 {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if math.IsInf(x, 1) || x >= math.MaxInt64 {
		return math.MaxInt64
	}

	rounded := math.Round(x)
	c := math.Ceil(x)
	if math.Abs(x-rounded) <= countTolerance*math.Max(1, x) {
		c = rounded
	}
	if c < 1 {
		c = 1
	}
	return int64(c)
}

// MaxFloat returns the larger of two floats, ignoring NaN in b.
func MaxFloat(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}
