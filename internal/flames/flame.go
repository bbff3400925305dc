package flames

import (
	"fmt"
	"math"
	"math/rand"
)

// Flame is an iterated function system plus everything needed to color and
// frame it. It is not modified after construction; samplers copy what they use.
type Flame struct {
	Transforms     []Transform  `json:"transforms"`
	Probabilities  []Real       `json:"probabilities"` // cumulative, last == 1
	Colors         []*RGB       `json:"colors"`        // nil entry: transform does not color
	Variation      Variation    `json:"variation"`
	PostTransform  *Transform   `json:"postTransform,omitempty"`
	FinalTransform *Transform   `json:"finalTransform,omitempty"`
	FinalColor     *RGB         `json:"finalColor,omitempty"`
	Bounds         BoundsPolicy `json:"bounds"`
	Gamma          Real         `json:"gamma"`
	Vibrancy       Real         `json:"vibrancy"`
	Description    string       `json:"description,omitempty"`
}

// NewFlame builds a flame from transforms and relative weights (nil weights: uniform).
// Colors may be nil; otherwise they must match the transforms one to one.
func NewFlame(transforms []Transform, weights []Real, colors []*RGB, v Variation) (*Flame, error) {
	if weights == nil {
		weights = make([]Real, len(transforms))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(transforms) {
		return nil, fmt.Errorf("%w: %d weights for %d transforms", ErrBadProbabilities, len(weights), len(transforms))
	}
	cum, err := Cumulative(weights)
	if err != nil {
		return nil, err
	}
	f := &Flame{
		Transforms:    append([]Transform(nil), transforms...),
		Probabilities: cum,
		Colors:        colors,
		Variation:     v,
		Bounds:        BoundsTrimmed,
		Gamma:         Gamma,
		Vibrancy:      Vibrancy,
	}
	f.fillDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// fillDefaults completes optional fields; it never overrides values already set.
func (f *Flame) fillDefaults() {
	if f.Colors == nil {
		f.Colors = make([]*RGB, len(f.Transforms))
	}
	if f.Gamma <= 0 {
		f.Gamma = Gamma
	}
	if !isFinite(f.Vibrancy) {
		f.Vibrancy = Vibrancy
	}
	f.Vibrancy = clamp(f.Vibrancy, 0, 1)
}

// Validate checks the structural invariants the sampler relies on.
func (f *Flame) Validate() error {
	if len(f.Transforms) == 0 {
		return fmt.Errorf("flame has no transforms")
	}
	if err := validateProbabilities(f.Probabilities, len(f.Transforms)); err != nil {
		return err
	}
	if len(f.Colors) != len(f.Transforms) {
		return fmt.Errorf("flame has %d colors for %d transforms", len(f.Colors), len(f.Transforms))
	}
	if f.Variation.Kind >= numVariations {
		return fmt.Errorf("unknown variation kind %d", f.Variation.Kind)
	}
	return nil
}

// AddSymmetry returns a copy of f with rotational (order rotations) and
// optional mirror symmetry. Every group element, the original system
// counting as one, gets the same share of the probability mass.
func (f *Flame) AddSymmetry(rotations int, mirror bool) (*Flame, error) {
	var extra []Transform
	for j := 1; j < rotations; j++ {
		extra = append(extra, Rotation(2*math.Pi*Real(j)/Real(rotations)))
	}
	if mirror {
		extra = append(extra, MirrorVertical())
	}
	g := *f
	if len(extra) == 0 {
		return &g, nil
	}
	share := 1 / Real(1+len(extra))
	weights := weightsOf(f.Probabilities)
	for i := range weights {
		weights[i] *= share
	}
	for range extra {
		weights = append(weights, share)
	}
	g.Transforms = append(append([]Transform(nil), f.Transforms...), extra...)
	g.Colors = append(append([]*RGB(nil), f.Colors...), make([]*RGB, len(extra))...)
	cum, err := Cumulative(weights)
	if err != nil {
		return nil, fmt.Errorf("add symmetry: %w", err)
	}
	g.Probabilities = cum
	DebugLog("Added symmetry: rotations=%d mirror=%v, transforms %d -> %d", rotations, mirror, len(f.Transforms), len(g.Transforms))
	return &g, nil
}

// RandomCfg drives RandomFlame; zero values pick random or default choices.
type RandomCfg struct {
	Transforms int    `json:"transforms,omitempty"`
	Moebius    bool   `json:"moebius,omitempty"`
	Symmetry   int    `json:"symmetry,omitempty"`
	Mirror     bool   `json:"mirror,omitempty"`
	Variation  string `json:"variation,omitempty"`
	Final      bool   `json:"final,omitempty"`
}

// RandomFlame draws a complete flame from rng.
func RandomFlame(rng *rand.Rand, rc RandomCfg) (*Flame, error) {
	n := rc.Transforms
	if n <= 0 {
		n = MinTransforms + rng.Intn(MaxTransforms-MinTransforms+1)
	}
	ts := make([]Transform, n)
	ws := make([]Real, n)
	cs := make([]*RGB, n)
	for i := range ts {
		if rc.Moebius {
			ts[i] = RandomMoebius(rng)
		} else {
			ts[i] = RandomAffine(rng)
		}
		ws[i] = 0.1 + rng.Float64()
		c := randomColor(rng)
		cs[i] = &c
	}
	v := RandomVariation(rng)
	if rc.Variation != "" {
		k, err := ParseVariationKind(rc.Variation)
		if err != nil {
			return nil, err
		}
		v = NewVariation(k, rng)
	}
	f, err := NewFlame(ts, ws, cs, v)
	if err != nil {
		return nil, err
	}
	if rc.Final {
		ft := RandomAffine(rng)
		fc := randomColor(rng)
		f.FinalTransform, f.FinalColor = &ft, &fc
	}
	if rc.Symmetry > 1 || rc.Mirror {
		if f, err = f.AddSymmetry(rc.Symmetry, rc.Mirror); err != nil {
			return nil, err
		}
	}
	kind := Affine
	if rc.Moebius {
		kind = Moebius
	}
	f.Description = fmt.Sprintf("random: %d %s transforms, %s variation, symmetry %d, mirror %v", n, kind, v.Kind, rc.Symmetry, rc.Mirror)
	return f, nil
}
