package flames

import (
	"math"
	"testing"
)

func approxEqual(a, b Real, tol Real) bool {
	if a > b {
		return a-b <= tol
	}
	return b-a <= tol
}

func TestIsFinite(t *testing.T) {
	if !isFinite(1) || isFinite(math.Inf(1)) || isFinite(math.NaN()) {
		t.Fatal("isFinite failed")
	}
	if !isBad(complex(math.NaN(), 0)) || isBad(1+2i) {
		t.Fatal("isBad failed")
	}
}

func TestSplit(t *testing.T) {
	parts := split(10, 4)
	want := []int64{3, 3, 2, 2}
	sum := int64(0)
	for i, p := range parts {
		if p != want[i] {
			t.Fatalf("split(10, 4) = %v, want %v", parts, want)
		}
		sum += p
	}
	if sum != 10 {
		t.Fatalf("parts sum to %d", sum)
	}
}
