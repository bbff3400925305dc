package flames

import (
	"math"
)

type Real = float64

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func isBad(z complex128) bool {
	return !isFinite(real(z)) || !isFinite(imag(z))
}

// split divides n into parts that differ by at most one, remainder first.
func split(n int64, parts int) []int64 {
	out := make([]int64, parts)
	base, rem := n/int64(parts), n%int64(parts)
	for i := range out {
		out[i] = base
		if int64(i) < rem {
			out[i]++
		}
	}
	return out
}

func clamp(x, lo, hi Real) Real {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
