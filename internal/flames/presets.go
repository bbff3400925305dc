package flames

import "fmt"

// SierpinskiGasket is the classic three-map gasket with red, green and blue corners.
func SierpinskiGasket() *Flame {
	red, green, blue := RGB{1, 0, 0}, RGB{0, 1, 0}, RGB{0, 0, 1}
	return &Flame{
		Transforms: []Transform{
			NewAffine(0.5, 0, 0, 0, 0.5, 0),
			NewAffine(0.5, 0, 0.5, 0, 0.5, 0),
			NewAffine(0.5, 0, 0.25, 0, 0.5, 0.5),
		},
		Probabilities: []Real{0.33, 0.66, 1.0},
		Colors:        []*RGB{&red, &green, &blue},
		Variation:     Variation{Kind: Linear},
		Bounds:        BoundsStrict,
		Gamma:         Gamma,
		Vibrancy:      Vibrancy,
		Description:   "Sierpinski gasket",
	}
}

// BarnsleyFern uses Barnsley's original coefficients and weights.
func BarnsleyFern() *Flame {
	stem, leaf, left, right := RGB{0.4, 0.25, 0.1}, RGB{0.1, 0.8, 0.2}, RGB{0.3, 0.9, 0.3}, RGB{0.2, 0.6, 0.1}
	return &Flame{
		Transforms: []Transform{
			NewAffine(0, 0, 0, 0, 0.16, 0),
			NewAffine(0.85, 0.04, 0, -0.04, 0.85, 1.6),
			NewAffine(0.2, -0.26, 0, 0.23, 0.22, 1.6),
			NewAffine(-0.15, 0.28, 0, 0.26, 0.24, 0.44),
		},
		Probabilities: []Real{0.01, 0.86, 0.93, 1.0},
		Colors:        []*RGB{&stem, &leaf, &left, &right},
		Variation:     Variation{Kind: Linear},
		Bounds:        BoundsTrimmed,
		Gamma:         Gamma,
		Vibrancy:      Vibrancy,
		Description:   "Barnsley fern",
	}
}

// Preset looks a flame up by name.
func Preset(name string) (*Flame, error) {
	switch name {
	case "sierpinski", "gasket":
		return SierpinskiGasket(), nil
	case "fern", "barnsley":
		return BarnsleyFern(), nil
	}
	return nil, fmt.Errorf("unknown preset %q", name)
}
