package flames

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func richFlame(t *testing.T) *Flame {
	t.Helper()
	red, blue := RGB{1, 0, 0}, RGB{0, 0, 1}
	f, err := NewFlame(
		[]Transform{NewAffine(0.5, 0.1, -0.2, 0.3, 0.4, 0.25), NewMoebius(1+2i, -0.5i, 0.25, 1-1i)},
		[]Real{1, 3},
		[]*RGB{&red, nil},
		Variation{Kind: Julia, Params: [4]Real{3.141592653589793}},
	)
	if err != nil {
		t.Fatal(err)
	}
	post, final := Rotation(0.5), NewAffine(1, 0, 0.1, 0, 1, -0.1)
	f.PostTransform, f.FinalTransform, f.FinalColor = &post, &final, &blue
	f.Bounds = BoundsZoomed
	f.Gamma, f.Vibrancy = 2.2, 0.75
	f.Description = "round trip"
	g, err := f.AddSymmetry(2, true)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFlameJSONRoundTrip(t *testing.T) {
	f := richFlame(t)
	path := filepath.Join(t.TempDir(), "sub", "flame.json")
	if err := SaveFlame(path, f); err != nil {
		t.Fatal(err)
	}
	g, err := LoadFlame(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, g) {
		t.Fatalf("round trip changed the flame:\n%+v\n%+v", f, g)
	}

	a, _ := json.Marshal(f)
	b, _ := json.Marshal(g)
	if !bytes.Equal(a, b) {
		t.Fatal("re-marshalled bytes differ")
	}

	// Same flame, same seed, same samples.
	s1, s2 := NewSampler(f, 11), NewSampler(g, 11)
	for i := 0; i < 100; i++ {
		p1, c1 := s1.Next()
		p2, c2 := s2.Next()
		if p1 != p2 || c1 != c2 {
			t.Fatalf("step %d differs after round trip", i)
		}
	}
}

func TestFlameJSONDefaults(t *testing.T) {
	data := `{
		"transforms": [{"kind": "affine", "affine": [0.5, 0, 0, 0, 0.5, 0]}, {"affine": [0.5, 0, 0.5, 0, 0.5, 0]}],
		"probabilities": [0.5, 1],
		"colors": ["#ff0000", {"R": 2, "G": -1, "B": 0.5}],
		"variation": {"kind": "Swirl"}
	}`
	var f Flame
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		t.Fatal(err)
	}
	if f.Bounds != BoundsTrimmed || f.Gamma != Gamma || f.Vibrancy != Vibrancy {
		t.Fatalf("defaults not applied: %+v", f)
	}
	if f.Variation.Kind != Swirl || f.Transforms[1].Kind != Affine {
		t.Fatalf("decoded %+v", f)
	}
	if *f.Colors[0] != (RGB{1, 0, 0}) || *f.Colors[1] != (RGB{1, 0, 0.5}) {
		t.Fatalf("colors %+v %+v", *f.Colors[0], *f.Colors[1])
	}
}

func TestFlameJSONErrors(t *testing.T) {
	for name, data := range map[string]string{
		"kind":          `{"transforms": [{"kind": "spline"}], "probabilities": [1], "variation": {"kind": "linear"}}`,
		"coefficients":  `{"transforms": [{"kind": "affine", "affine": [1, 2]}], "probabilities": [1], "variation": {"kind": "linear"}}`,
		"moebius":       `{"transforms": [{"kind": "moebius", "moebius": [[1, 0]]}], "probabilities": [1], "variation": {"kind": "linear"}}`,
		"variation":     `{"transforms": [{"affine": [1, 0, 0, 0, 1, 0]}], "probabilities": [1], "variation": {"kind": "wobble"}}`,
		"probabilities": `{"transforms": [{"affine": [1, 0, 0, 0, 1, 0]}], "probabilities": [0.5], "variation": {"kind": "linear"}}`,
		"empty":         `{"transforms": [], "probabilities": [], "variation": {"kind": "linear"}}`,
		"color":         `{"transforms": [{"affine": [1, 0, 0, 0, 1, 0]}], "probabilities": [1], "colors": ["#zz"], "variation": {"kind": "linear"}}`,
		"bounds":        `{"transforms": [{"affine": [1, 0, 0, 0, 1, 0]}], "probabilities": [1], "variation": {"kind": "linear"}, "bounds": "loose"}`,
	} {
		var f Flame
		if err := json.Unmarshal([]byte(data), &f); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte(`{"preset": "fern", "seed": 0}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != Width || cfg.Height != Height || cfg.SamplesPerPixel != SamplesPerPixel {
		t.Fatalf("size defaults not applied: %+v", cfg)
	}
	if cfg.Out != Out || cfg.MaxAttempts != MaxAttempts {
		t.Fatalf("output defaults not applied: %+v", cfg)
	}
	if cfg.Seed == nil || *cfg.Seed != 0 {
		t.Fatal("explicit zero seed must be kept")
	}
}

func TestParseConfigInlineFlame(t *testing.T) {
	cfg, err := parseConfig([]byte(`{
		"width": 64, "height": 32, "random": {"transforms": 3, "variation": "sinusoidal"},
		"flame": {"transforms": [{"affine": [0.5, 0, 0, 0, 0.5, 0]}], "probabilities": [1], "variation": {"kind": "linear"}}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 64 || cfg.Height != 32 || cfg.Flame == nil || len(cfg.Flame.Transforms) != 1 {
		t.Fatalf("decoded %+v", cfg)
	}
	if cfg.Random.Transforms != 3 || cfg.Random.Variation != "sinusoidal" {
		t.Fatalf("random cfg %+v", cfg.Random)
	}
	f, err := cfg.buildFlame(1)
	if err != nil || f != cfg.Flame {
		t.Fatal("inline flame should be used as is")
	}
}

func TestParseConfigErrors(t *testing.T) {
	_, err := parseConfig([]byte(`{"preset": "fern", "flamePath": "x.json"}`))
	if err == nil || !strings.Contains(err.Error(), "more than one") {
		t.Fatalf("expected multiple source error, got %v", err)
	}
	if _, err := parseConfig([]byte(`{"width": "wide"}`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"preset": "gasket", "supersample": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Supersample || cfg.Preset != "gasket" {
		t.Fatalf("decoded %+v", cfg)
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
