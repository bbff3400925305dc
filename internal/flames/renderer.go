package flames

import "image"

// Renderer is what every fractal family offers to callers: an image at the
// requested resolution plus the advisory quality flag.
type Renderer interface {
	Render(width, height int) (*image.RGBA, bool, error)
}

var (
	_ Renderer = FlameRenderer{}
	_ Renderer = EscapeRenderer{}
)

// FlameRenderer adapts Render to the Renderer interface.
type FlameRenderer struct {
	Flame *Flame
	Opts  RenderOpts
}

func (r FlameRenderer) Render(width, height int) (*image.RGBA, bool, error) {
	opts := r.Opts
	opts.Width, opts.Height = width, height
	res, err := Render(r.Flame, opts)
	if err != nil {
		return nil, false, err
	}
	return res.Image, res.Quality.Good, nil
}
