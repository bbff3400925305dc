package flames

import (
	"bytes"
	"errors"
	"testing"
)

func renderGasket(t *testing.T, spp, workers int, seed int64) *Result {
	t.Helper()
	res, err := Render(SierpinskiGasket(), RenderOpts{
		Width: 100, Height: 100, SamplesPerPixel: spp, Workers: workers, Seed: seed,
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestRenderDeterministic(t *testing.T) {
	a := renderGasket(t, 100, 4, 42)
	b := renderGasket(t, 100, 4, 42)
	if len(a.Image.Pix) != 100*100*4 {
		t.Fatalf("unexpected image size %d", len(a.Image.Pix))
	}
	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Fatal("same seed and worker count must give identical pixels")
	}
	if a.Samples != b.Samples || a.Bounds != b.Bounds {
		t.Fatal("results differ")
	}
}

func TestRenderDeterministicFullBudget(t *testing.T) {
	if testing.Short() {
		t.Skip("large sample budget")
	}
	a := renderGasket(t, SamplesPerPixel*10, 4, 42)
	b := renderGasket(t, SamplesPerPixel*10, 4, 42)
	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Fatal("same seed and worker count must give identical pixels")
	}
}

func TestRenderGasket(t *testing.T) {
	res := renderGasket(t, 50, 2, 1)
	b := res.Bounds
	for _, v := range []struct{ got, want Real }{
		{b.MinX, 0}, {b.MaxX, 1}, {b.MinY, 0}, {b.MaxY, 1},
	} {
		if !approxEqual(v.got, v.want, 0.01) {
			t.Fatalf("strict gasket bounds %+v not close to the unit square", b)
		}
	}
	if res.Samples <= 0 || res.Histogram.Hits() != Real(res.Samples) {
		t.Fatalf("samples %d, hits %g", res.Samples, res.Histogram.Hits())
	}
	if n := res.Histogram.Log.Total(); n != 100*100*50 {
		t.Fatalf("%d samples offered, want the whole budget", n)
	}
	if res.Seed != 1 {
		t.Fatalf("seed = %d", res.Seed)
	}
	for k := 3; k < len(res.Image.Pix); k += 4 {
		if res.Image.Pix[k] != 255 {
			t.Fatal("rendered image must be opaque")
		}
	}
	// The centre of the gasket is its largest hole.
	if c := res.Image.RGBAAt(50, 60); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("hole pixel lit: %+v", c)
	}
}

func TestRenderSampleBudget(t *testing.T) {
	res, err := Render(SierpinskiGasket(), RenderOpts{Width: 10, Height: 10, Samples: 777, Workers: 3, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Samples > 777 {
		t.Fatalf("kept %d samples from a budget of 777", res.Samples)
	}
}

func TestRenderSupersample(t *testing.T) {
	res, err := Render(BarnsleyFern(), RenderOpts{Width: 20, Height: 10, SamplesPerPixel: 10, Supersample: true, Workers: 2, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	if r := res.Image.Bounds(); r.Dx() != 20 || r.Dy() != 10 {
		t.Fatalf("image is %v", r)
	}
	if res.Histogram.Width != 20 || res.Histogram.Height != 10 {
		t.Fatalf("histogram is %dx%d", res.Histogram.Width, res.Histogram.Height)
	}
}

func TestRenderWorkerPanic(t *testing.T) {
	saved := accumulateFunc
	defer func() { accumulateFunc = saved }()
	accumulateFunc = func(*Sampler, *Histogram, int64, *progress) int64 {
		panic("boom")
	}

	_, err := Render(SierpinskiGasket(), RenderOpts{Width: 10, Height: 10, SamplesPerPixel: 1, Workers: 2, Seed: 1})
	var we *WorkerError
	if !errors.As(err, &we) {
		t.Fatalf("expected *WorkerError, got %v", err)
	}
	if we.Value != "boom" || len(we.Stack) == 0 {
		t.Fatalf("worker error lost its panic: %+v", we)
	}
}

func TestRenderDivergentFlame(t *testing.T) {
	f, err := NewFlame([]Transform{NewAffine(0, 0, 0, 0, 0, 0)}, nil, nil, Variation{Kind: Spherical})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Render(f, RenderOpts{Width: 10, Height: 10, SamplesPerPixel: 1, Workers: 2, Seed: 1})
	if err != nil {
		t.Fatalf("divergence must not fail the render: %v", err)
	}
	if res.Quality.Good || res.Samples != 0 || res.Histogram.Hits() != 0 {
		t.Fatalf("divergent flame: good=%v samples=%d", res.Quality.Good, res.Samples)
	}
	if b := res.Image.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Fatalf("image is %v", b)
	}
	for k := 0; k < len(res.Image.Pix); k += 4 {
		if px := res.Image.Pix[k : k+4]; px[0] != 0 || px[1] != 0 || px[2] != 0 || px[3] != 255 {
			t.Fatalf("divergent render should be opaque black, got %v", px)
		}
	}
}

func TestRenderInvalidFlame(t *testing.T) {
	if _, err := Render(&Flame{}, RenderOpts{Width: 10, Height: 10}); err == nil {
		t.Fatal("expected error for an empty flame")
	}
}

func TestFlameRenderer(t *testing.T) {
	var r Renderer = FlameRenderer{Flame: SierpinskiGasket(), Opts: RenderOpts{SamplesPerPixel: 20, Workers: 2, Seed: 9}}
	img, _, err := r.Render(30, 20)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Fatalf("image is %v", b)
	}
}

func TestSplitBudget(t *testing.T) {
	o := RenderOpts{Width: 3, Height: 2, SamplesPerPixel: 5}.withDefaults()
	if o.budget() != 30 {
		t.Fatalf("budget = %d", o.budget())
	}
	o.Samples = 7
	if o.budget() != 7 {
		t.Fatalf("explicit budget = %d", o.budget())
	}
	if d := (RenderOpts{}).withDefaults(); d.Width != Width || d.Height != Height || d.Workers < 1 {
		t.Fatalf("defaults not applied: %+v", d)
	}
}
