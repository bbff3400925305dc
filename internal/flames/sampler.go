package flames

import (
	"iter"
	"math/rand"
	"slices"
)

// Sampler runs the chaos game for one flame. It owns copies of the flame's
// tables and its own RNG, so separate samplers never share mutable state.
// A Sampler is single-pass: restarting means building a new one.
type Sampler struct {
	transforms    []Transform
	probabilities []Real
	colors        []RGB
	hasColor      []bool
	variation     Variation
	post          *Transform
	final         *Transform
	finalColor    *RGB

	rng   *rand.Rand
	point Point
	color RGB
	last  int // index picked by the latest Next
}

// NewSampler starts a sampler at a random point in [-1,1]^2 drawn from seed.
func NewSampler(f *Flame, seed int64) *Sampler {
	n := len(f.Transforms)
	s := &Sampler{
		transforms:    slices.Clone(f.Transforms),
		probabilities: slices.Clone(f.Probabilities),
		colors:        make([]RGB, n),
		hasColor:      make([]bool, n),
		variation:     f.Variation,
		rng:           rand.New(rand.NewSource(seed)),
		color:         RGB{0.5, 0.5, 0.5},
	}
	for i := 0; i < n && i < len(f.Colors); i++ {
		if f.Colors[i] != nil {
			s.colors[i], s.hasColor[i] = *f.Colors[i], true
		}
	}
	if f.PostTransform != nil {
		t := *f.PostTransform
		s.post = &t
	}
	if f.FinalTransform != nil {
		t := *f.FinalTransform
		s.final = &t
	}
	if f.FinalColor != nil {
		c := *f.FinalColor
		s.finalColor = &c
	}
	s.restart()
	return s
}

// restart moves the orbit to a fresh random point; used after divergence.
func (s *Sampler) restart() {
	s.point = Point{2*s.rng.Float64() - 1, 2*s.rng.Float64() - 1}
}

// Next advances the orbit one step and returns the output point and color.
// The final transform and final color only shape the output, never the state.
// A non-finite point is returned as is (the histogram drops it) and the orbit restarts.
func (s *Sampler) Next() (Point, RGB) {
	i := pick(s.probabilities, s.rng.Float64())
	s.last = i
	t := &s.transforms[i]
	p := t.Apply(s.point)
	if !t.Symmetry {
		p = s.variation.Apply(p)
	}
	if s.post != nil {
		p = s.post.Apply(p)
	}
	if s.hasColor[i] {
		s.color = s.color.blend(s.colors[i])
	}

	out, c := p, s.color
	if s.final != nil {
		out = s.final.Apply(p)
	}
	if s.finalColor != nil {
		c = c.blend(*s.finalColor)
	}

	if p.Finite() {
		s.point = p
	} else {
		s.restart()
	}
	return out, c
}

// Perturb nudges the current point by up to PerturbRange on each axis.
func (s *Sampler) Perturb() {
	dx := (2*s.rng.Float64() - 1) * PerturbRange
	dy := (2*s.rng.Float64() - 1) * PerturbRange
	s.point = s.point.Add(Point{dx, dy})
}

// Fork copies the sampler's current state under a new RNG seeded with seed.
func (s *Sampler) Fork(seed int64) *Sampler {
	f := *s
	f.transforms = slices.Clone(s.transforms)
	f.probabilities = slices.Clone(s.probabilities)
	f.colors = slices.Clone(s.colors)
	f.hasColor = slices.Clone(s.hasColor)
	f.rng = rand.New(rand.NewSource(seed))
	return &f
}

// Skip discards n steps.
func (s *Sampler) Skip(n int64) {
	for i := int64(0); i < n; i++ {
		s.Next()
	}
}

// Samples is the infinite output stream.
func (s *Sampler) Samples() iter.Seq2[Point, RGB] {
	return func(yield func(Point, RGB) bool) {
		for {
			if !yield(s.Next()) {
				return
			}
		}
	}
}

// Take yields the next n samples.
func (s *Sampler) Take(n int64) iter.Seq2[Point, RGB] {
	return func(yield func(Point, RGB) bool) {
		for i := int64(0); i < n; i++ {
			if !yield(s.Next()) {
				return
			}
		}
	}
}

// Points collects the next n output points, dropping colors.
func (s *Sampler) Points(n int) []Point {
	pts := make([]Point, 0, n)
	for p := range s.Take(int64(n)) {
		pts = append(pts, p)
	}
	return pts
}
