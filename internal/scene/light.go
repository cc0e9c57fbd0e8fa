package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// PointLight emits from a position with physically based falloff.
// Distance zero means unlimited range.
type PointLight struct {
	Position  r3.Vec
	Color     colorful.Color
	Intensity float64
	Distance  float64
	Decay     float64
}

// Attenuation returns the light's falloff factor at distance d.
func (l *PointLight) Attenuation(d float64) float64 {
	a := 1 / math.Max(math.Pow(d, l.Decay), 0.01)
	if l.Distance > 0 {
		w := 1 - math.Pow(d/l.Distance, 4)
		if w < 0 {
			w = 0
		}
		a *= w * w
	}
	return a
}

// Shade returns the Lambert-lit color of a surface point with unit normal n
// and the given albedo.
func (l *PointLight) Shade(p, n r3.Vec, albedo colorful.Color) colorful.Color {
	toLight := r3.Sub(l.Position, p)
	d := r3.Norm(toLight)
	if d == 0 {
		return colorful.Color{}
	}
	ndl := r3.Dot(n, r3.Scale(1/d, toLight))
	if ndl <= 0 {
		return colorful.Color{}
	}
	k := ndl * l.Intensity * l.Attenuation(d) / math.Pi
	return colorful.Color{
		R: albedo.R * l.Color.R * k,
		G: albedo.G * l.Color.G * k,
		B: albedo.B * l.Color.B * k,
	}.Clamped()
}
