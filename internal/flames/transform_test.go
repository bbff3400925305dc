package flames

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func pointsClose(a, b Point, tol Real) bool {
	return approxEqual(a.X, b.X, tol) && approxEqual(a.Y, b.Y, tol)
}

func TestAffineApply(t *testing.T) {
	tr := NewAffine(1, 2, 3, 4, 5, 6)
	got := tr.Apply(Point{1, -1})
	if got != (Point{2, 5}) {
		t.Fatalf("affine apply: got %+v", got)
	}
	if tr.Symmetry {
		t.Fatal("NewAffine must not be a symmetry transform")
	}
}

func TestMoebiusApply(t *testing.T) {
	// (z + 1) / (0*z + 1) is a translation by 1.
	tr := NewMoebius(1, 1, 0, 1)
	if got := tr.Apply(Point{2, 3}); !pointsClose(got, Point{3, 3}, 1e-12) {
		t.Fatalf("moebius translation: got %+v", got)
	}
	// 1/z at its pole is non-finite, never a panic.
	inv := NewMoebius(0, 1, 1, 0)
	if got := inv.Apply(Point{0, 0}); got.Finite() {
		t.Fatalf("expected non-finite at the pole, got %+v", got)
	}
}

func TestSymmetryConstructors(t *testing.T) {
	p := Point{0.3, -0.7}
	cases := []struct {
		name string
		tr   Transform
		want Point
	}{
		{"identity", Identity(), p},
		{"vertical mirror", MirrorVertical(), Point{-0.3, -0.7}},
		{"horizontal mirror", MirrorHorizontal(), Point{0.3, 0.7}},
		{"rotation pi/2", Rotation(math.Pi / 2), Point{0.7, 0.3}},
	}
	for _, c := range cases {
		if !c.tr.Symmetry {
			t.Fatalf("%s: Symmetry flag not set", c.name)
		}
		if got := c.tr.Apply(p); !pointsClose(got, c.want, 1e-12) {
			t.Fatalf("%s: got %+v want %+v", c.name, got, c.want)
		}
	}
}

func TestRandomTransformsAreSeeded(t *testing.T) {
	a := RandomAffine(rand.New(rand.NewSource(3)))
	b := RandomAffine(rand.New(rand.NewSource(3)))
	if a != b {
		t.Fatal("same seed must give the same affine transform")
	}
	for _, c := range a.A {
		if c < -AffineRange || c >= AffineRange {
			t.Fatalf("coefficient %g outside [-%g, %g)", c, AffineRange, AffineRange)
		}
	}
	m := RandomMoebius(rand.New(rand.NewSource(3)))
	if m.Kind != Moebius || m.Symmetry {
		t.Fatalf("unexpected moebius transform %+v", m)
	}
}

func TestComposeAndInverse(t *testing.T) {
	p := Point{0.4, -1.3}
	for _, pair := range [][2]Transform{
		{NewAffine(2, 1, 3, 0.5, 1, -1), NewAffine(0.3, -0.2, 0.1, 0.7, 0.9, 0.5)},
		{NewMoebius(1+1i, 2, 0.5i, 1), NewMoebius(0.3, -1i, 0.2, 2+0.5i)},
	} {
		outer, inner := pair[0], pair[1]
		c, err := Compose(outer, inner)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := c.Apply(p), outer.Apply(inner.Apply(p)); !pointsClose(got, want, 1e-9) {
			t.Fatalf("%s compose: got %+v want %+v", outer.Kind, got, want)
		}
		inv, err := outer.Inverse()
		if err != nil {
			t.Fatal(err)
		}
		if got := outer.Apply(inv.Apply(p)); !pointsClose(got, p, 1e-9) {
			t.Fatalf("%s inverse: got %+v want %+v", outer.Kind, got, p)
		}
	}
}

func TestComposeInverseErrors(t *testing.T) {
	if _, err := Compose(NewAffine(1, 0, 0, 0, 1, 0), NewMoebius(1, 0, 0, 1)); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if _, err := NewAffine(1, 2, 0, 2, 4, 0).Inverse(); !errors.Is(err, ErrNotInvertible) {
		t.Fatalf("expected ErrNotInvertible for singular affine, got %v", err)
	}
	if _, err := NewMoebius(1, 2, 2, 4).Inverse(); !errors.Is(err, ErrNotInvertible) {
		t.Fatalf("expected ErrNotInvertible for degenerate moebius, got %v", err)
	}
}
