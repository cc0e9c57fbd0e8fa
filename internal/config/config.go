package config

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720

	// Panel dimensions
	PanelWidth   = 360
	PanelMargin  = 8
	PanelRowSize = 22

	// Scene parameters
	RotationSpeed = 0.03 // radians per second around the vertical axis
	CameraFov     = 45.0 // degrees, vertical
	CameraNear    = 0.1
	CameraFar     = 1000.0
	CameraHeight  = 2.0 // initial distance above the Earth

	EarthRadius         = 0.5
	EarthY              = 2.0
	EarthWidthSegments  = 64
	EarthHeightSegments = 32
	EarthAlbedo         = "#2a4d8f"

	LightX         = 0.0
	LightY         = 2.0
	LightZ         = 2.0
	LightIntensity = 3.0
	LightDistance  = 5.0
	LightDecay     = 0.89
	LightColor     = "#ffffff"

	// Soundtrack
	TapRingSize = 4096
	PulseAmount = 0.6
)

// Parameters is the set of values the galaxy is generated from.
type Parameters struct {
	Count           int
	Size            float64
	Radius          float64
	Branches        int
	Spin            float64
	Randomness      float64
	RandomnessPower float64
	InsideColor     colorful.Color
	OutsideColor    colorful.Color
}

// Defaults returns the parameter set shown on startup.
func Defaults() Parameters {
	return Parameters{
		Count:           100000,
		Size:            0.02,
		Radius:          5,
		Branches:        3,
		Spin:            1.98,
		Randomness:      0.2,
		RandomnessPower: 3,
		InsideColor:     MustHex("#ff6030"),
		OutsideColor:    MustHex("#1b3984"),
	}
}

// Validate reports the first parameter that would make generation
// produce NaN, Inf or an empty cloud.
func (p Parameters) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"size", p.Size},
		{"radius", p.Radius},
		{"spin", p.Spin},
		{"randomness", p.Randomness},
		{"randomnessPower", p.RandomnessPower},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.Errorf("%s must be finite, got %v", f.name, f.v)
		}
	}

	switch {
	case p.Count < 1:
		return errors.Errorf("count must be at least 1, got %d", p.Count)
	case p.Size <= 0:
		return errors.Errorf("size must be positive, got %v", p.Size)
	case p.Radius <= 0:
		return errors.Errorf("radius must be positive, got %v", p.Radius)
	case p.Branches < 1:
		return errors.Errorf("branches must be at least 1, got %d", p.Branches)
	case p.Randomness < 0:
		return errors.Errorf("randomness must not be negative, got %v", p.Randomness)
	case p.RandomnessPower < 1:
		return errors.Errorf("randomnessPower must be at least 1, got %v", p.RandomnessPower)
	}
	return nil
}

// Range bounds a panel control.
type Range struct {
	Min, Max, Step float64
}

// Snap rounds v to a multiple of Step and clamps it into [Min, Max].
func (r Range) Snap(v float64) float64 {
	if r.Step > 0 {
		v = math.Round(v/r.Step) * r.Step
	}
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	return v
}

// Fraction maps v into [0, 1] across the range.
func (r Range) Fraction(v float64) float64 {
	if r.Max <= r.Min {
		return 0
	}
	f := (v - r.Min) / (r.Max - r.Min)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Control ranges for the galaxy folder.
var (
	CountRange           = Range{Min: 100, Max: 1000000, Step: 100}
	SizeRange            = Range{Min: 0.001, Max: 0.1, Step: 0.0001}
	RadiusRange          = Range{Min: 0.01, Max: 100, Step: 0.0001}
	BranchesRange        = Range{Min: 2, Max: 20, Step: 1}
	SpinRange            = Range{Min: -5, Max: 20, Step: 0.001}
	RandomnessRange      = Range{Min: 0, Max: 5, Step: 0.001}
	RandomnessPowerRange = Range{Min: 1, Max: 10, Step: 0.001}
)

// Control ranges for the light folder.
var (
	LightPositionRange  = Range{Min: -10, Max: 10, Step: 0.01}
	LightIntensityRange = Range{Min: 0, Max: 10, Step: 0.01}
	LightDistanceRange  = Range{Min: 0, Max: 10, Step: 0.01}
	LightDecayRange     = Range{Min: 0, Max: 10, Step: 0.01}
)

// MustHex parses a #rrggbb color and panics on malformed input.
// It is meant for compile-time constants only.
func MustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(errors.Wrapf(err, "config: bad color %q", s))
	}
	return c
}
