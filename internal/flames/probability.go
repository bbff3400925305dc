package flames

import (
	"errors"
	"fmt"
	"math"
)

var ErrBadProbabilities = errors.New("malformed probability table")

// Cumulative turns non-negative weights into a cumulative table ending in exactly 1.
func Cumulative(weights []Real) ([]Real, error) {
	sum := 0.0
	for i, w := range weights {
		if w < 0 || !isFinite(w) {
			return nil, fmt.Errorf("%w: weight %d is %g", ErrBadProbabilities, i, w)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: weights sum to %g", ErrBadProbabilities, sum)
	}
	cum := make([]Real, len(weights))
	acc := 0.0
	for i, w := range weights {
		acc += w
		cum[i] = acc / sum
	}
	cum[len(cum)-1] = 1
	return cum, nil
}

// weightsOf recovers the per-entry probabilities of a cumulative table.
func weightsOf(cum []Real) []Real {
	w := make([]Real, len(cum))
	prev := 0.0
	for i, c := range cum {
		w[i] = c - prev
		prev = c
	}
	return w
}

// pick returns the first index with r < cum[i]; a table that never exceeds r selects 0.
func pick(cum []Real, r Real) int {
	for i, c := range cum {
		if r < c {
			return i
		}
	}
	return 0
}

func validateProbabilities(cum []Real, n int) error {
	if len(cum) != n {
		return fmt.Errorf("%w: %d probabilities for %d transforms", ErrBadProbabilities, len(cum), n)
	}
	if n == 0 {
		return fmt.Errorf("%w: empty", ErrBadProbabilities)
	}
	prev := 0.0
	for i, c := range cum {
		if !isFinite(c) || c < prev {
			return fmt.Errorf("%w: entry %d (%g) decreases", ErrBadProbabilities, i, c)
		}
		prev = c
	}
	if math.Abs(cum[n-1]-1) > 1e-9 {
		return fmt.Errorf("%w: last entry is %g, want 1", ErrBadProbabilities, cum[n-1])
	}
	return nil
}
