package flames

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var ErrNoFinitePoints = errors.New("no finite points to estimate bounds from")

// BoundsPolicy selects how the viewport is derived from the warm-up sample.
type BoundsPolicy uint8

const (
	BoundsStrict  BoundsPolicy = iota // min/max of every point
	BoundsTrimmed                     // min/max after dropping outliers per axis
	BoundsZoomed                      // trimmed, then widened to the target aspect ratio
)

var boundsPolicyNames = [...]string{"strict", "trimmed", "zoomed"}

func (b BoundsPolicy) String() string {
	if int(b) < len(boundsPolicyNames) {
		return boundsPolicyNames[b]
	}
	return fmt.Sprintf("bounds(%d)", b)
}

func (b BoundsPolicy) MarshalText() ([]byte, error) {
	if int(b) >= len(boundsPolicyNames) {
		return nil, fmt.Errorf("unknown bounds policy %d", b)
	}
	return []byte(boundsPolicyNames[b]), nil
}

func (b *BoundsPolicy) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range boundsPolicyNames {
		if n == s {
			*b = BoundsPolicy(i)
			return nil
		}
	}
	return fmt.Errorf("unknown bounds policy %q", s)
}

// warmupFraction is the share of the sample budget burnt before bounds are estimated.
// Strict bounds see every transient point, so they wait longer.
func (b BoundsPolicy) warmupFraction() Real {
	if b == BoundsStrict {
		return 0.10
	}
	return 0.01
}

// Bounds is the viewport rectangle in the iterated plane.
type Bounds struct {
	MinX Real `json:"minX"`
	MaxX Real `json:"maxX"`
	MinY Real `json:"minY"`
	MaxY Real `json:"maxY"`
}

func (b Bounds) Width() Real  { return b.MaxX - b.MinX }
func (b Bounds) Height() Real { return b.MaxY - b.MinY }

func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// BoundsOpts tunes EstimateBounds. Zero values pick defaults.
type BoundsOpts struct {
	Trim   int  // values dropped at each end of each axis (trimmed, zoomed)
	Aspect Real // width/height (zoomed)
}

// EstimateBounds derives the viewport from a sample; non-finite points are ignored.
func EstimateBounds(points []Point, policy BoundsPolicy, opts BoundsOpts) (Bounds, error) {
	xs := make([]Real, 0, len(points))
	ys := make([]Real, 0, len(points))
	for _, p := range points {
		if p.Finite() {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}
	n := len(xs)
	if n == 0 {
		return Bounds{}, ErrNoFinitePoints
	}

	trim := 0
	if policy != BoundsStrict {
		trim = opts.Trim
		if trim <= 0 {
			trim = int(math.Ceil(OutlierFraction * Real(n)))
		}
		if 2*trim >= n {
			trim = (n - 1) / 2
		}
	}
	slices.Sort(xs)
	slices.Sort(ys)
	b := Bounds{MinX: xs[trim], MaxX: xs[n-1-trim], MinY: ys[trim], MaxY: ys[n-1-trim]}

	if policy == BoundsZoomed {
		b = b.withAspect(opts.Aspect)
	}
	DebugLog("Estimated %s bounds from %d points (trim %d): %+v", policy, n, trim, b)
	return b, nil
}

// withAspect widens the shorter side around the centre so that width/height == aspect.
func (b Bounds) withAspect(aspect Real) Bounds {
	if aspect <= 0 || !isFinite(aspect) {
		aspect = 1
	}
	w, h := b.Width(), b.Height()
	if w == 0 && h == 0 {
		return b
	}
	switch {
	case h == 0:
		h = w / aspect
	case w == 0 || w/h < aspect:
		w = h * aspect
	default:
		h = w / aspect
	}
	cx, cy := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	return Bounds{MinX: cx - w/2, MaxX: cx + w/2, MinY: cy - h/2, MaxY: cy + h/2}
}
