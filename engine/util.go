package engine

import "golang.org/x/exp/constraints"

// clamp restricts f to the inclusive range [low, high].
func clamp[T constraints.Integer](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

func max32(x, y int32) int32 {
	if x > y {
		return x
	}
	return y
}

// abs32 returns the absolute value of x.
func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
