package flames

import (
	"fmt"
	"math/rand"
	"time"
)

func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if Workers > 0 {
		cfg.Workers = Workers
	}
	if Seed != nil {
		cfg.Seed = Seed
	}
	_, err = RunConfig(cfg)
	return err
}

// RunConfig renders cfg and writes its outputs. Random flames that score
// poorly are regenerated from a derived seed up to cfg.MaxAttempts times.
func RunConfig(cfg *Config) (*Result, error) {
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	random := cfg.Flame == nil && cfg.FlamePath == "" && cfg.Preset == ""

	var (
		f   *Flame
		res *Result
		err error
	)
	attempts := max(cfg.MaxAttempts, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		if f, err = cfg.buildFlame(seed); err != nil {
			return nil, err
		}
		start := time.Now()
		res, err = Render(f, RenderOpts{
			Width:           cfg.Width,
			Height:          cfg.Height,
			SamplesPerPixel: cfg.SamplesPerPixel,
			Samples:         cfg.Samples,
			Supersample:     cfg.Supersample,
			Workers:         cfg.Workers,
			Seed:            seed,
		})
		if err != nil {
			return nil, err
		}
		DebugLog("Attempt %d, seed %d: %q, quality %+v, time: %s", attempt, seed, f.Description, res.Quality, time.Since(start))
		if res.Quality.Good || !random || attempt == attempts {
			break
		}
		seed = rand.New(rand.NewSource(seed)).Int63()
	}
	if !res.Quality.Good {
		fmt.Printf("[QUALITY] seed %d looks uninteresting: %+v\n", seed, res.Quality)
	}

	if err := SaveImage(cfg.Out, res.Image); err != nil {
		return nil, err
	}
	DebugLog("Saved image: %s", cfg.Out)
	if cfg.RawOut != "" {
		if err := res.Histogram.SaveRaw(cfg.RawOut); err != nil {
			return nil, err
		}
		DebugLog("Saved raw histogram: %s", cfg.RawOut)
	}
	if cfg.FlameOut != "" {
		if err := SaveFlame(cfg.FlameOut, f); err != nil {
			return nil, err
		}
		DebugLog("Saved flame: %s", cfg.FlameOut)
	}
	return res, nil
}

// buildFlame resolves the flame source; random flames are drawn from seed.
func (cfg *Config) buildFlame(seed int64) (*Flame, error) {
	switch {
	case cfg.Flame != nil:
		return cfg.Flame, nil
	case cfg.FlamePath != "":
		return LoadFlame(cfg.FlamePath)
	case cfg.Preset != "":
		return Preset(cfg.Preset)
	}
	return RandomFlame(rand.New(rand.NewSource(seed)), cfg.Random)
}
