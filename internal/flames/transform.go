package flames

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
)

var (
	ErrNotInvertible = errors.New("transform is not invertible")
	ErrKindMismatch  = errors.New("transforms are of different kinds")
)

type TransformKind uint8

const (
	Affine TransformKind = iota
	Moebius
)

func (k TransformKind) String() string {
	switch k {
	case Affine:
		return "affine"
	case Moebius:
		return "moebius"
	}
	return "unknown"
}

// Transform is one map of the function system, either affine or Moebius.
// Symmetry marks the mirrors/rotations added to realize a global symmetry;
// those are never distorted by the flame variation.
type Transform struct {
	Kind     TransformKind
	A        [6]Real       // affine: x' = A0*x + A1*y + A2, y' = A3*x + A4*y + A5
	M        [4]complex128 // moebius: (M0*z + M1) / (M2*z + M3)
	Symmetry bool
}

// NewAffine builds a non-symmetry affine transform.
func NewAffine(a, b, c, d, e, f Real) Transform {
	return Transform{Kind: Affine, A: [6]Real{a, b, c, d, e, f}}
}

// NewMoebius builds a non-symmetry Moebius transform.
func NewMoebius(a, b, c, d complex128) Transform {
	return Transform{Kind: Moebius, M: [4]complex128{a, b, c, d}}
}

func Identity() Transform {
	t := NewAffine(1, 0, 0, 0, 1, 0)
	t.Symmetry = true
	return t
}

// MirrorVertical reflects across the vertical axis (x -> -x).
func MirrorVertical() Transform {
	t := NewAffine(-1, 0, 0, 0, 1, 0)
	t.Symmetry = true
	return t
}

// MirrorHorizontal reflects across the horizontal axis (y -> -y).
func MirrorHorizontal() Transform {
	t := NewAffine(1, 0, 0, 0, -1, 0)
	t.Symmetry = true
	return t
}

// Rotation rotates by phi radians around the origin.
func Rotation(phi Real) Transform {
	c, s := math.Cos(phi), math.Sin(phi)
	t := NewAffine(c, -s, 0, s, c, 0)
	t.Symmetry = true
	return t
}

// RandomAffine draws every coefficient uniformly from [-AffineRange, AffineRange).
func RandomAffine(rng *rand.Rand) Transform {
	var a [6]Real
	for i := range a {
		a[i] = (2*rng.Float64() - 1) * AffineRange
	}
	return Transform{Kind: Affine, A: a}
}

// RandomMoebius draws the 8 real components from N(0, MoebiusStdDev).
func RandomMoebius(rng *rand.Rand) Transform {
	var m [4]complex128
	for i := range m {
		m[i] = complex(rng.NormFloat64()*MoebiusStdDev, rng.NormFloat64()*MoebiusStdDev)
	}
	return Transform{Kind: Moebius, M: m}
}

// Apply maps p. Moebius maps return NaN at (or numerically near) their pole.
func (t Transform) Apply(p Point) Point {
	switch t.Kind {
	case Moebius:
		z := complex(p.X, p.Y)
		w := (t.M[0]*z + t.M[1]) / (t.M[2]*z + t.M[3])
		if isBad(w) {
			return Point{math.NaN(), math.NaN()}
		}
		return Point{real(w), imag(w)}
	default:
		a := &t.A
		return Point{a[0]*p.X + a[1]*p.Y + a[2], a[3]*p.X + a[4]*p.Y + a[5]}
	}
}

// Compose returns outer∘inner (inner applied first). Both must be of the same kind.
func Compose(outer, inner Transform) (Transform, error) {
	if outer.Kind != inner.Kind {
		return Transform{}, ErrKindMismatch
	}
	r := Transform{Kind: outer.Kind, Symmetry: outer.Symmetry && inner.Symmetry}
	switch outer.Kind {
	case Moebius:
		o, i := outer.M, inner.M
		r.M = [4]complex128{
			o[0]*i[0] + o[1]*i[2], o[0]*i[1] + o[1]*i[3],
			o[2]*i[0] + o[3]*i[2], o[2]*i[1] + o[3]*i[3],
		}
	default:
		o, i := outer.A, inner.A
		r.A = [6]Real{
			o[0]*i[0] + o[1]*i[3], o[0]*i[1] + o[1]*i[4], o[0]*i[2] + o[1]*i[5] + o[2],
			o[3]*i[0] + o[4]*i[3], o[3]*i[1] + o[4]*i[4], o[3]*i[2] + o[4]*i[5] + o[5],
		}
	}
	return r, nil
}

// Inverse returns the inverse map, or ErrNotInvertible for (near) singular ones.
func (t Transform) Inverse() (Transform, error) {
	const eps = 1e-12
	r := Transform{Kind: t.Kind, Symmetry: t.Symmetry}
	switch t.Kind {
	case Moebius:
		a, b, c, d := t.M[0], t.M[1], t.M[2], t.M[3]
		if cmplx.Abs(a*d-b*c) < eps {
			return Transform{}, ErrNotInvertible
		}
		r.M = [4]complex128{d, -b, -c, a}
	default:
		a := t.A
		det := a[0]*a[4] - a[1]*a[3]
		if math.Abs(det) < eps {
			return Transform{}, ErrNotInvertible
		}
		inv := 1 / det
		ia, ib := a[4]*inv, -a[1]*inv
		id, ie := -a[3]*inv, a[0]*inv
		r.A = [6]Real{
			ia, ib, -(ia*a[2] + ib*a[5]),
			id, ie, -(id*a[2] + ie*a[5]),
		}
	}
	return r, nil
}
