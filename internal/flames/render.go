package flames

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// RenderOpts sizes and seeds one render. Zero values pick defaults.
type RenderOpts struct {
	Width, Height   int
	SamplesPerPixel int
	Samples         int64 // absolute budget; overrides SamplesPerPixel when > 0
	Supersample     bool  // accumulate at 2x and box-filter down
	Workers         int   // 0: runtime.NumCPU()
	Seed            int64
}

func (o RenderOpts) withDefaults() RenderOpts {
	if o.Width <= 0 {
		o.Width = Width
	}
	if o.Height <= 0 {
		o.Height = Height
	}
	if o.SamplesPerPixel <= 0 {
		o.SamplesPerPixel = SamplesPerPixel
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// budget is the total number of accumulated samples.
func (o RenderOpts) budget() int64 {
	if o.Samples > 0 {
		return o.Samples
	}
	return int64(o.SamplesPerPixel) * int64(o.Width) * int64(o.Height)
}

// Result is a finished render.
type Result struct {
	Image     *image.RGBA
	Histogram *Histogram // merged and, when supersampling, downscaled
	Bounds    Bounds
	Quality   Quality
	Seed      int64
	Samples   int64 // samples that landed on the grid
}

// WorkerError is a panic recovered from a render worker.
type WorkerError struct {
	Worker int
	Value  interface{}
	Stack  []byte
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("render worker %d panicked: %v", e.Worker, e.Value)
}

type workerResult struct {
	id   int
	hist *Histogram
	kept int64
	err  error
}

// Render samples f with opts.Workers independent workers and returns the
// composited image. The output is identical for a fixed seed and worker count.
func Render(f *Flame, opts RenderOpts) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flame: %w", err)
	}
	opts = opts.withDefaults()
	total := opts.budget()
	workers := opts.Workers
	if int64(workers) > total {
		workers = int(max(total, 1))
	}
	gw, gh := opts.Width, opts.Height
	if opts.Supersample {
		gw, gh = 2*gw, 2*gh
	}

	start := time.Now()
	parent := rand.New(rand.NewSource(opts.Seed))

	// Warm up one throwaway orbit, then frame the attractor from its next points.
	warm := NewSampler(f, parent.Int63())
	nWarm := int64(f.Bounds.warmupFraction() * Real(total))
	nWarm = min(max(nWarm, MinWarmup), MaxWarmup)
	warm.Skip(nWarm)
	bounds, err := EstimateBounds(warm.Points(BoundsSamples), f.Bounds, BoundsOpts{Aspect: Real(opts.Width) / Real(opts.Height)})
	if errors.Is(err, ErrNoFinitePoints) {
		// Nothing survives the map: an empty render the caller may reseed.
		DebugLog("Warm-up %d steps: every point diverged", nWarm)
		return emptyResult(f, opts), nil
	}
	if err != nil {
		return nil, fmt.Errorf("estimate bounds: %w", err)
	}
	DebugLog("Warm-up %d steps, bounds %+v, took %s", nWarm, bounds, time.Since(start))

	// Seeds are drawn in worker order so the render is reproducible.
	samplers := make([]*Sampler, workers)
	for w := range samplers {
		samplers[w] = warm.Fork(parent.Int63())
		samplers[w].Perturb()
	}
	shares := split(total, workers)

	var prog *progress
	if Progress {
		prog = newProgress(total)
	}

	results := make(chan workerResult, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(wid int) {
			defer wg.Done()
			res := workerResult{id: wid}
			defer func() {
				if r := recover(); r != nil {
					res.err = &WorkerError{Worker: wid, Value: r, Stack: debug.Stack()}
				}
				results <- res
			}()
			hist := NewHistogram(gw, gh, bounds, f.Vibrancy, f.Gamma)
			samplers[wid].Skip(Fuse)
			res.kept = accumulateFunc(samplers[wid], hist, shares[wid], prog)
			res.hist = hist
		}(w)
	}
	wg.Wait()
	close(results)

	hists := make([]*Histogram, workers)
	errs := make([]error, workers)
	var kept int64
	for r := range results {
		hists[r.id], errs[r.id] = r.hist, r.err
		kept += r.kept
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	// Merge in worker order: float sums then do not depend on completion order.
	acc := hists[0]
	for _, h := range hists[1:] {
		if err := acc.Merge(h); err != nil {
			return nil, err
		}
	}
	DebugLog("Samples: %s", acc.Log)
	if opts.Supersample {
		acc = acc.Downscale()
	}
	img := Composite(acc.Normalize())
	q := Assess(img)
	DebugLog("Rendered %dx%d: %d/%d samples kept, %d workers, quality %+v, took %s", opts.Width, opts.Height, kept, total, workers, q, time.Since(start))
	return &Result{
		Image:     img,
		Histogram: acc,
		Bounds:    bounds,
		Quality:   q,
		Seed:      opts.Seed,
		Samples:   kept,
	}, nil
}

// emptyResult is an all-black render of a flame with no finite orbit.
func emptyResult(f *Flame, opts RenderOpts) *Result {
	hist := NewHistogram(opts.Width, opts.Height, Bounds{}, f.Vibrancy, f.Gamma)
	img := Composite(hist.Normalize())
	return &Result{
		Image:     img,
		Histogram: hist,
		Quality:   Assess(img),
		Seed:      opts.Seed,
	}
}

// accumulate feeds n samples from s into h.
func accumulate(s *Sampler, h *Histogram, n int64, prog *progress) int64 {
	const chunk = 1 << 16
	var kept int64
	for n > 0 {
		m := min(n, chunk)
		kept += h.Feed(s.Take(m))
		n -= m
		prog.add(m)
	}
	return kept
}

// progress prints roughly every 1% of the budget.
type progress struct {
	total    int64
	step     int64
	done     atomic.Int64
	nextTick atomic.Int64
}

func newProgress(total int64) *progress {
	step := max(total/100, 1)
	p := &progress{total: total, step: step}
	p.nextTick.Store(step)
	return p
}

func (p *progress) add(n int64) {
	if p == nil {
		return
	}
	done := p.done.Add(n)
	for {
		next := p.nextTick.Load()
		if done < next {
			return
		}
		if p.nextTick.CompareAndSwap(next, next+p.step) {
			fmt.Printf("[PROGRESS] %.2f%%\n", Real(done)*100/Real(p.total))
			return
		}
	}
}
