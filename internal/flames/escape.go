package flames

import (
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"
)

// EscapeRenderer draws the Mandelbrot set or, with Julia set, the Julia set of C.
type EscapeRenderer struct {
	CenterX, CenterY Real
	Span             Real // viewport height in plane units
	MaxIter          int
	Julia            bool
	C                complex128
	Hue              Real // palette start, degrees
	Workers          int
}

// escape iterates z -> z^2 + c at most maxIter times. It returns the
// iteration count and |z|^2 at exit; n == maxIter means the orbit stayed bounded.
func escape(z, c complex128, maxIter int) (n int, mod2 Real) {
	x, y := real(z), imag(z)
	a, b := real(c), imag(c)
	for n = 0; n < maxIter; n++ {
		xx, yy := x*x, y*y
		if xx+yy > EscapeRadius2 {
			return n, xx + yy
		}
		y = 2*x*y + b
		x = xx - yy + a
	}
	return maxIter, x*x + y*y
}

func (e EscapeRenderer) withDefaults() EscapeRenderer {
	if e.MaxIter <= 0 {
		e.MaxIter = EscapeMaxIter
	}
	if e.Span <= 0 {
		e.Span = 3
	}
	if e.Workers <= 0 {
		e.Workers = runtime.NumCPU()
	}
	return e
}

func (e EscapeRenderer) Render(width, height int) (*image.RGBA, bool, error) {
	e = e.withDefaults()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	palette := hsvPalette(256, e.Hue)
	pxSize := e.Span / Real(height)
	x0 := e.CenterX - pxSize*Real(width)/2
	y0 := e.CenterY + e.Span/2

	rows := make(chan int, height)
	for j := 0; j < height; j++ {
		rows <- j
	}
	close(rows)

	var wg sync.WaitGroup
	wg.Add(e.Workers)
	for w := 0; w < e.Workers; w++ {
		go func() {
			defer wg.Done()
			for j := range rows {
				for i := 0; i < width; i++ {
					p := complex(x0+(Real(i)+0.5)*pxSize, y0-(Real(j)+0.5)*pxSize)
					z, c := complex(0, 0), p
					if e.Julia {
						z, c = p, e.C
					}
					n, mod2 := escape(z, c, e.MaxIter)
					img.SetRGBA(i, j, e.shade(palette, n, mod2))
				}
			}
		}()
	}
	wg.Wait()
	return img, Assess(img).Good, nil
}

// shade maps a smooth escape count onto the palette; bounded orbits are black.
func (e EscapeRenderer) shade(palette []color.RGBA, n int, mod2 Real) color.RGBA {
	if n >= e.MaxIter {
		return color.RGBA{A: 255}
	}
	nu := Real(n) + 1 - math.Log2(math.Log(mod2)/2)
	if !isFinite(nu) || nu < 0 {
		nu = 0
	}
	k := int(nu*4) % len(palette)
	return palette[k]
}
