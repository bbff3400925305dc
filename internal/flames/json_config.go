package flames

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the on-disk run description.
type Config struct {
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	SamplesPerPixel int       `json:"samplesPerPixel"`
	Samples         int64     `json:"samples,omitempty"`
	Supersample     bool      `json:"supersample,omitempty"`
	Workers         int       `json:"workers,omitempty"`
	Seed            *int64    `json:"seed,omitempty"` // absent: derived from the clock
	Out             string    `json:"out"`
	RawOut          string    `json:"rawOut,omitempty"`
	FlameOut        string    `json:"flameOut,omitempty"`
	MaxAttempts     int       `json:"maxAttempts,omitempty"`
	Preset          string    `json:"preset,omitempty"`
	FlamePath       string    `json:"flamePath,omitempty"`
	Flame           *Flame    `json:"flame,omitempty"`
	Random          RandomCfg `json:"random"`
}

type transformJSON struct {
	Kind     string    `json:"kind"`
	Affine   []Real    `json:"affine,omitempty"`
	Moebius  [][2]Real `json:"moebius,omitempty"`
	Symmetry bool      `json:"symmetry,omitempty"`
}

func (t Transform) MarshalJSON() ([]byte, error) {
	tj := transformJSON{Kind: t.Kind.String(), Symmetry: t.Symmetry}
	switch t.Kind {
	case Affine:
		tj.Affine = t.A[:]
	case Moebius:
		tj.Moebius = make([][2]Real, len(t.M))
		for i, z := range t.M {
			tj.Moebius[i] = [2]Real{real(z), imag(z)}
		}
	default:
		return nil, fmt.Errorf("unknown transform kind %d", t.Kind)
	}
	return json.Marshal(tj)
}

func (t *Transform) UnmarshalJSON(data []byte) error {
	var tj transformJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	*t = Transform{Symmetry: tj.Symmetry}
	switch tj.Kind {
	case "affine", "":
		if len(tj.Affine) != len(t.A) {
			return fmt.Errorf("affine transform needs %d coefficients, got %d", len(t.A), len(tj.Affine))
		}
		t.Kind = Affine
		copy(t.A[:], tj.Affine)
	case "moebius":
		if len(tj.Moebius) != len(t.M) {
			return fmt.Errorf("moebius transform needs %d complex coefficients, got %d", len(t.M), len(tj.Moebius))
		}
		t.Kind = Moebius
		for i, z := range tj.Moebius {
			t.M[i] = complex(z[0], z[1])
		}
	default:
		return fmt.Errorf("unknown transform kind %q", tj.Kind)
	}
	return nil
}

type variationJSON struct {
	Kind   string  `json:"kind"`
	Params [4]Real `json:"params"`
}

func (v Variation) MarshalJSON() ([]byte, error) {
	return json.Marshal(variationJSON{Kind: v.Kind.String(), Params: v.Params})
}

func (v *Variation) UnmarshalJSON(data []byte) error {
	var vj variationJSON
	if err := json.Unmarshal(data, &vj); err != nil {
		return err
	}
	k, err := ParseVariationKind(vj.Kind)
	if err != nil {
		return err
	}
	*v = Variation{Kind: k, Params: vj.Params}
	return nil
}

// UnmarshalJSON fills defaults for absent fields and validates the result.
func (f *Flame) UnmarshalJSON(data []byte) error {
	type plain Flame
	p := plain{Bounds: BoundsTrimmed, Gamma: Gamma, Vibrancy: Vibrancy}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Flame(p)
	f.fillDefaults()
	return f.Validate()
}

// LoadFlame reads a flame written by SaveFlame (or by hand).
func LoadFlame(path string) (*Flame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Flame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("flame %s: %w", path, err)
	}
	DebugLog("Loaded flame from %s: %d transforms, %s variation, %q", path, len(f.Transforms), f.Variation.Kind, f.Description)
	return &f, nil
}

// SaveFlame writes f as indented JSON, creating parent directories.
func SaveFlame(path string, f *Flame) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	DebugLog("Loaded config from %s: size=(%d, %d), SPP=%d, samples=%d, supersample=%v, workers=%d", path, cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.Samples, cfg.Supersample, cfg.Workers)
	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Defaults / validation
	if cfg.Width <= 0 {
		cfg.Width = Width
	}
	if cfg.Height <= 0 {
		cfg.Height = Height
	}
	if cfg.SamplesPerPixel <= 0 {
		cfg.SamplesPerPixel = SamplesPerPixel
	}
	if cfg.Out == "" {
		cfg.Out = Out
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = MaxAttempts
	}
	sources := 0
	for _, set := range []bool{cfg.Flame != nil, cfg.FlamePath != "", cfg.Preset != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, fmt.Errorf("config sets more than one of flame, flamePath, preset")
	}
	return &cfg, nil
}
