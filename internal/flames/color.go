package flames

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB stores color components; each should be in [0,1].
type RGB struct {
	R, G, B Real
}

// clamp01 clamps each channel to [0,1].
func (c RGB) clamp01() RGB {
	return RGB{clamp(c.R, 0, 1), clamp(c.G, 0, 1), clamp(c.B, 0, 1)}
}

// blend is the flame coloring step: the midpoint of c and o.
func (c RGB) blend(o RGB) RGB {
	return RGB{(c.R + o.R) * 0.5, (c.G + o.G) * 0.5, (c.B + o.B) * 0.5}
}

// UnmarshalJSON accepts both {"R":..,"G":..,"B":..} and "#rrggbb".
func (c *RGB) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		cf, err := colorful.Hex(hex)
		if err != nil {
			return fmt.Errorf("color %q: %w", hex, err)
		}
		*c = RGB{cf.R, cf.G, cf.B}
		return nil
	}
	type plain RGB
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = RGB(p).clamp01()
	return nil
}

// randomColor draws a saturated, bright color from rng.
func randomColor(rng *rand.Rand) RGB {
	h := rng.Float64() * 360
	s := 0.6 + 0.4*rng.Float64()
	v := 0.7 + 0.3*rng.Float64()
	c := colorful.Hsv(h, s, v).Clamped()
	return RGB{c.R, c.G, c.B}
}

// hsvPalette returns n colors walking the hue circle from hue0 degrees.
func hsvPalette(n int, hue0 Real) []color.RGBA {
	p := make([]color.RGBA, n)
	for i := range p {
		h := hue0 + 360*Real(i)/Real(n)
		for h >= 360 {
			h -= 360
		}
		r, g, b := colorful.Hsv(h, 0.85, 1).Clamped().RGB255()
		p[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p
}

// lightness returns the CIE L* of c in [0,100]; fully transparent pixels are 0.
func lightness(c color.Color) Real {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return 0
	}
	l, _, _ := cf.Lab()
	return clamp(l*100, 0, 100)
}
