package flames

// Point is a position in the iterated plane.
type Point struct {
	X, Y Real
}

// Finite reports whether both coordinates are usable as grid input.
func (p Point) Finite() bool { return isFinite(p.X) && isFinite(p.Y) }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
