package flames

import (
	"image"
	"math"

	"github.com/nfnt/resize"
)

// Quality is an advisory score telling boring renders apart; it is never an error.
type Quality struct {
	Entropy  Real // bits, lightness histogram of a thumbnail
	Variance Real // lightness variance, L* in [0,100]
	Coverage Real // share of thumbnail pixels that are not black
	Good     bool
}

// Assess scores img on a ThumbSize thumbnail.
func Assess(img image.Image) Quality {
	thumb := resize.Thumbnail(ThumbSize, ThumbSize, img, resize.Lanczos3)
	b := thumb.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return Quality{}
	}

	const bins = 32
	var hist [bins]int
	var sum, sum2 Real
	lit := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			l := lightness(thumb.At(x, y))
			bin := int(l / 100 * bins)
			if bin >= bins {
				bin = bins - 1
			}
			hist[bin]++
			sum += l
			sum2 += l * l
			if l > 1 {
				lit++
			}
		}
	}

	q := Quality{}
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := Real(c) / Real(n)
		q.Entropy -= p * math.Log2(p)
	}
	mean := sum / Real(n)
	q.Variance = sum2/Real(n) - mean*mean
	q.Coverage = Real(lit) / Real(n)
	q.Good = q.Entropy >= MinEntropy && q.Variance >= MinVariance &&
		q.Coverage >= MinCoverage && q.Coverage <= MaxCoverage
	return q
}
