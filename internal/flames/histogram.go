package flames

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"iter"
	"math"
	"slices"
)

var ErrShapeMismatch = errors.New("histograms differ in resolution or bounds")

// Histogram accumulates flame samples on a fixed grid. Each cell holds the
// summed sample colors and the hit count.
type Histogram struct {
	Width, Height int
	Bounds        Bounds
	Vibrancy      Real
	Gamma         Real
	Buf           []Real // flat: (j*Width + i)*CellSize + c, c in {ChR, ChG, ChB, ChHits}
	Log           SampleLog

	// cached bounds -> grid mapping
	scale      Real
	offX, offY Real
}

// NewHistogram allocates a zeroed grid. The bounds are fitted into the grid
// keeping their aspect ratio, centred along the shorter axis.
func NewHistogram(width, height int, b Bounds, vibrancy, gamma Real) *Histogram {
	if width <= 0 || height <= 0 {
		panic("histogram resolution must be positive")
	}
	if gamma <= 0 {
		gamma = Gamma
	}
	h := &Histogram{
		Width:    width,
		Height:   height,
		Bounds:   b,
		Vibrancy: clamp(vibrancy, 0, 1),
		Gamma:    gamma,
		Buf:      make([]Real, width*height*CellSize),
	}
	h.fit()
	DebugLogOnce("Created histogram %dx%d, bounds=%+v, scale=%.5g", width, height, b, h.scale)
	return h
}

func (h *Histogram) fit() {
	W, H := Real(h.Width), Real(h.Height)
	spanX, spanY := h.Bounds.Width(), h.Bounds.Height()
	sx, sy := math.Inf(1), math.Inf(1)
	if spanX > 0 {
		sx = W / spanX
	}
	if spanY > 0 {
		sy = H / spanY
	}
	h.scale = math.Min(sx, sy)
	if math.IsInf(h.scale, 1) {
		h.scale = 1 // single-point bounds: everything lands in the centre
	}
	h.offX = (W - spanX*h.scale) * 0.5
	h.offY = (H - spanY*h.scale) * 0.5
}

// CellOf maps a point to grid indices; row 0 is the MaxY edge.
func (h *Histogram) CellOf(p Point) (ok bool, i, j int) {
	if !p.Finite() {
		return false, 0, 0
	}
	fx := (p.X-h.Bounds.MinX)*h.scale + h.offX
	fy := (h.Bounds.MaxY-p.Y)*h.scale + h.offY
	if !(fx >= 0 && fx <= Real(h.Width) && fy >= 0 && fy <= Real(h.Height)) {
		return false, 0, 0
	}
	i, j = int(fx), int(fy)
	if i == h.Width {
		i = h.Width - 1
	}
	if j == h.Height {
		j = h.Height - 1
	}
	return true, i, j
}

// Flat buffer index helper.
func (h *Histogram) idx(i, j, c int) int {
	return (j*h.Width+i)*CellSize + c
}

// Add accumulates one sample; it reports false when the sample was dropped.
func (h *Histogram) Add(p Point, c RGB) bool {
	if !p.Finite() || !isFinite(c.R) || !isFinite(c.G) || !isFinite(c.B) {
		h.Log.log(NonFinite)
		return false
	}
	ok, i, j := h.CellOf(p)
	if !ok {
		h.Log.log(OutOfGrid)
		return false
	}
	h.Log.log(Landed)
	base := h.idx(i, j, ChR)
	h.Buf[base+ChR] += c.R
	h.Buf[base+ChG] += c.G
	h.Buf[base+ChB] += c.B
	h.Buf[base+ChHits]++
	return true
}

// Feed accumulates every sample of seq and returns how many landed on the grid.
func (h *Histogram) Feed(seq iter.Seq2[Point, RGB]) int64 {
	var kept int64
	for p, c := range seq {
		if h.Add(p, c) {
			kept++
		}
	}
	return kept
}

// Cell returns the color sums and hit count of cell (i, j).
func (h *Histogram) Cell(i, j int) (sum RGB, hits Real) {
	base := h.idx(i, j, ChR)
	return RGB{h.Buf[base+ChR], h.Buf[base+ChG], h.Buf[base+ChB]}, h.Buf[base+ChHits]
}

// Hits is the total hit count over the grid.
func (h *Histogram) Hits() Real {
	total := 0.0
	for k := ChHits; k < len(h.Buf); k += CellSize {
		total += h.Buf[k]
	}
	return total
}

func (h *Histogram) maxHits() Real {
	m := 0.0
	for k := ChHits; k < len(h.Buf); k += CellSize {
		if h.Buf[k] > m {
			m = h.Buf[k]
		}
	}
	return m
}

func (h *Histogram) Clone() *Histogram {
	c := *h
	c.Buf = slices.Clone(h.Buf)
	return &c
}

// Merge adds o into h cell by cell.
func (h *Histogram) Merge(o *Histogram) error {
	if h.Width != o.Width || h.Height != o.Height || h.Bounds != o.Bounds {
		return fmt.Errorf("%w: %dx%d %+v vs %dx%d %+v", ErrShapeMismatch, h.Width, h.Height, h.Bounds, o.Width, o.Height, o.Bounds)
	}
	for k, v := range o.Buf {
		h.Buf[k] += v
	}
	h.Log.merge(&o.Log)
	return nil
}

// Downscale sums every 2x2 block into one cell of a half-resolution histogram.
// An odd last row or column is dropped.
func (h *Histogram) Downscale() *Histogram {
	w, ht := h.Width/2, h.Height/2
	if w == 0 || ht == 0 {
		return h.Clone()
	}
	d := NewHistogram(w, ht, h.Bounds, h.Vibrancy, h.Gamma)
	d.Log = h.Log
	for j := 0; j < ht; j++ {
		for i := 0; i < w; i++ {
			dst := d.idx(i, j, ChR)
			for _, src := range [4]int{
				h.idx(2*i, 2*j, ChR), h.idx(2*i+1, 2*j, ChR),
				h.idx(2*i, 2*j+1, ChR), h.idx(2*i+1, 2*j+1, ChR),
			} {
				for c := 0; c < CellSize; c++ {
					d.Buf[dst+c] += h.Buf[src+c]
				}
			}
		}
	}
	return d
}

// Normalize turns the sums into an image. Color is the mean sample color,
// blended by vibrancy between the raw mean (1) and its gamma-corrected form (0).
// Alpha is the log hit density relative to the densest cell, gamma corrected;
// empty cells stay fully transparent.
func (h *Histogram) Normalize() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, h.Width, h.Height))
	maxHits := h.maxHits()
	if maxHits == 0 {
		return img
	}
	logMax := math.Log1p(maxHits)
	invGamma := 1.0 / h.Gamma
	vib := h.Vibrancy

	toByte := func(v Real) uint8 {
		return uint8(math.Round(clamp(v, 0, 1) * 255))
	}

	for j := 0; j < h.Height; j++ {
		rowOff := j * img.Stride
		for i := 0; i < h.Width; i++ {
			base := h.idx(i, j, ChR)
			hits := h.Buf[base+ChHits]
			if hits == 0 {
				continue
			}
			p := rowOff + i*4
			for c := ChR; c <= ChB; c++ {
				mean := clamp(h.Buf[base+c]/hits, 0, 1)
				img.Pix[p+c] = toByte(vib*mean + (1-vib)*math.Pow(mean, invGamma))
			}
			img.Pix[p+3] = toByte(math.Pow(math.Log1p(hits)/logMax, invGamma))
		}
	}
	return img
}

// Composite lays src over an opaque black background.
func Composite(src *image.NRGBA) *image.RGBA {
	r := src.Bounds()
	dst := image.NewRGBA(r)
	draw.Draw(dst, r, image.Black, image.Point{}, draw.Src)
	draw.Draw(dst, r, src, r.Min, draw.Over)
	return dst
}
