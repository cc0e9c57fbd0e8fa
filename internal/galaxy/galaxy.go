// Package galaxy builds the spiral point cloud drawn by the scene.
package galaxy

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/iburimskiy/galaxy-visualization/internal/config"
)

// Source yields uniform values in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	Float64() float64
}

// PointCloud holds flattened xyz positions and rgb colors, index-aligned.
type PointCloud struct {
	Positions []float32
	Colors    []float32
}

// Len returns the number of points.
func (c *PointCloud) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Positions) / 3
}

// BranchAngle is the angle of the arm point i belongs to.
func BranchAngle(i, branches int) float32 {
	return float32(i%branches) / float32(branches) * 2 * math32.Pi
}

// Generate builds a new point cloud from p. The returned buffers are freshly
// allocated and owned by the caller.
func Generate(p config.Parameters, src Source) (*PointCloud, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "galaxy: invalid parameters")
	}
	if src == nil {
		return nil, errors.New("galaxy: nil random source")
	}

	n := p.Count
	cloud := &PointCloud{
		Positions: make([]float32, n*3),
		Colors:    make([]float32, n*3),
	}

	maxRadius := float32(p.Radius)
	spin := float32(p.Spin)
	randomness := float32(p.Randomness)
	power := float32(p.RandomnessPower)

	for i := 0; i < n; i++ {
		i3 := i * 3

		radius := float32(src.Float64()) * maxRadius
		angle := BranchAngle(i, p.Branches) + radius*spin

		jx := jitter(src, power, randomness)
		jy := jitter(src, power, randomness)
		jz := jitter(src, power, randomness)

		cloud.Positions[i3+0] = math32.Sin(angle)*radius + jx
		cloud.Positions[i3+1] = jy
		cloud.Positions[i3+2] = math32.Cos(angle)*radius + jz

		mixed := p.InsideColor.BlendRgb(p.OutsideColor, float64(radius/maxRadius))
		cloud.Colors[i3+0] = float32(mixed.R)
		cloud.Colors[i3+1] = float32(mixed.G)
		cloud.Colors[i3+2] = float32(mixed.B)
	}

	return cloud, nil
}

// jitter draws a magnitude biased toward zero by power, then a sign.
func jitter(src Source, power, scale float32) float32 {
	v := math32.Pow(float32(src.Float64()), power)
	if src.Float64() >= 0.5 {
		v = -v
	}
	return v * scale
}
