package flames

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

type VariationKind uint8

const (
	Linear VariationKind = iota
	Sinusoidal
	Spherical
	Swirl
	Horseshoe
	Polar
	Handkerchief
	Heart
	Disk
	Spiral
	Hyperbolic
	Diamond
	Ex
	Julia
	Bent
	Fisheye
	Exponential
	Power
	Cosine
	Blob
	Pdj
	Fan2
	numVariations
)

var variationNames = [numVariations]string{
	"linear", "sinusoidal", "spherical", "swirl", "horseshoe", "polar",
	"handkerchief", "heart", "disk", "spiral", "hyperbolic", "diamond",
	"ex", "julia", "bent", "fisheye", "exponential", "power", "cosine",
	"blob", "pdj", "fan2",
}

func (k VariationKind) String() string {
	if k < numVariations {
		return variationNames[k]
	}
	return fmt.Sprintf("variation(%d)", k)
}

// ParseVariationKind is case-insensitive.
func ParseVariationKind(s string) (VariationKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range variationNames {
		if n == s {
			return VariationKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown variation %q", s)
}

// Variation is the nonlinear map applied after every non-symmetry transform.
// Params hold the kind's random coefficients, fixed at construction:
//
//	julia: omega
//	blob:  high, low, waves
//	pdj:   p1, p2, p3, p4
//	fan2:  x, y
type Variation struct {
	Kind   VariationKind
	Params [4]Real
}

// NewVariation samples the kind's parameters once from rng.
func NewVariation(kind VariationKind, rng *rand.Rand) Variation {
	v := Variation{Kind: kind}
	switch kind {
	case Julia:
		if rng.Intn(2) == 1 {
			v.Params[0] = math.Pi
		}
	case Blob:
		v.Params[0] = 0.5 + rng.Float64()
		v.Params[1] = 0.5 * rng.Float64()
		v.Params[2] = Real(2 + rng.Intn(6))
	case Pdj:
		for i := range v.Params {
			v.Params[i] = 6*rng.Float64() - 3
		}
	case Fan2:
		v.Params[0] = 2*rng.Float64() - 1
		v.Params[1] = 2*rng.Float64() - 1
	}
	return v
}

// RandomVariation picks a kind uniformly and samples its parameters.
func RandomVariation(rng *rand.Rand) Variation {
	return NewVariation(VariationKind(rng.Intn(int(numVariations))), rng)
}

// Apply distorts p. theta is atan(x/y), not atan2(y, x); every shape depends on it.
func (v Variation) Apply(p Point) Point {
	x, y := p.X, p.Y
	switch v.Kind {
	case Linear:
		return p
	case Sinusoidal:
		return Point{math.Sin(x), math.Sin(y)}
	case Bent:
		switch {
		case x >= 0 && y >= 0:
			return p
		case x < 0 && y >= 0:
			return Point{2 * x, y}
		case x >= 0 && y < 0:
			return Point{x, y / 2}
		default:
			return Point{2 * x, y / 2}
		}
	case Exponential:
		e := math.Exp(x - 1)
		return Point{e * math.Cos(math.Pi*y), e * math.Sin(math.Pi*y)}
	case Cosine:
		return Point{math.Cos(math.Pi*x) * math.Cosh(y), -math.Sin(math.Pi*x) * math.Sinh(y)}
	case Pdj:
		q := &v.Params
		return Point{math.Sin(q[0]*y) - math.Cos(q[1]*x), math.Sin(q[2]*x) - math.Cos(q[3]*y)}
	}

	r2 := x*x + y*y
	r := math.Sqrt(r2)
	theta := math.Atan(x / y)

	switch v.Kind {
	case Spherical:
		return Point{x / r2, y / r2}
	case Swirl:
		s, c := math.Sincos(r2)
		return Point{x*s - y*c, x*c + y*s}
	case Horseshoe:
		return Point{(x - y) * (x + y) / r, 2 * x * y / r}
	case Polar:
		return Point{theta / math.Pi, r - 1}
	case Handkerchief:
		return Point{r * math.Sin(theta+r), r * math.Cos(theta-r)}
	case Heart:
		s, c := math.Sincos(theta * r)
		return Point{r * s, -r * c}
	case Disk:
		s, c := math.Sincos(math.Pi * r)
		k := theta / math.Pi
		return Point{k * s, k * c}
	case Spiral:
		return Point{(math.Cos(theta) + math.Sin(r)) / r, (math.Sin(theta) - math.Cos(r)) / r}
	case Hyperbolic:
		return Point{math.Sin(theta) / r, r * math.Cos(theta)}
	case Diamond:
		return Point{math.Sin(theta) * math.Cos(r), math.Cos(theta) * math.Sin(r)}
	case Ex:
		p0 := math.Sin(theta + r)
		p1 := math.Cos(theta - r)
		p03, p13 := p0*p0*p0, p1*p1*p1
		return Point{r * (p03 + p13), r * (p03 - p13)}
	case Julia:
		sr := math.Sqrt(r)
		s, c := math.Sincos(theta/2 + v.Params[0])
		return Point{sr * c, sr * s}
	case Fisheye:
		k := 2 / (r + 1)
		return Point{k * y, k * x}
	case Power:
		s, c := math.Sincos(theta)
		k := math.Pow(r, s)
		return Point{k * c, k * s}
	case Blob:
		high, low, waves := v.Params[0], v.Params[1], v.Params[2]
		k := r * (low + (high-low)/2*(math.Sin(waves*theta)+1))
		s, c := math.Sincos(theta)
		return Point{k * c, k * s}
	case Fan2:
		dx := math.Pi * (v.Params[0]*v.Params[0] + 1e-10)
		dy := v.Params[1]
		t := theta + dy - dx*math.Trunc((theta+dy)/dx)
		a := theta + dx/2
		if t > dx/2 {
			a = theta - dx/2
		}
		s, c := math.Sincos(a)
		return Point{r * s, r * c}
	}
	return p
}
