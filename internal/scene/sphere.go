package scene

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere is a UV sphere mesh with per-vertex albedo.
type Sphere struct {
	Center  r3.Vec
	Radius  float64
	Normals []r3.Vec
	Albedo  []colorful.Color
	Indices []uint16

	widthSegments, heightSegments int
}

// NewSphere lays out (widthSegments+1)*(heightSegments+1) vertices row by row
// from the north pole, with the seam duplicated so every column has its own u.
func NewSphere(center r3.Vec, radius float64, widthSegments, heightSegments int, albedo colorful.Color) *Sphere {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	s := &Sphere{
		Center:         center,
		Radius:         radius,
		widthSegments:  widthSegments,
		heightSegments: heightSegments,
	}
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			s.Normals = append(s.Normals, r3.Vec{
				X: -math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi),
				Y: math.Cos(v * math.Pi),
				Z: math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi),
			})
			s.Albedo = append(s.Albedo, albedo)
		}
	}

	row := widthSegments + 1
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint16(iy*row + ix + 1)
			b := uint16(iy*row + ix)
			c := uint16((iy+1)*row + ix)
			d := uint16((iy+1)*row + ix + 1)
			if iy != 0 {
				s.Indices = append(s.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				s.Indices = append(s.Indices, b, c, d)
			}
		}
	}
	return s
}

// VertexCount returns the number of mesh vertices.
func (s *Sphere) VertexCount() int { return len(s.Normals) }

// Position returns the world position of vertex i.
func (s *Sphere) Position(i int) r3.Vec {
	return r3.Add(s.Center, r3.Scale(s.Radius, s.Normals[i]))
}

// ApplyTexture samples img once per vertex, mapping u across the width and v
// down the height. Fully transparent texels keep the current albedo.
func (s *Sphere) ApplyTexture(img image.Image) {
	cols, rows := s.widthSegments+1, s.heightSegments+1
	small := transform.Resize(img, cols, rows, transform.Linear)
	b := small.Bounds()
	for iy := 0; iy < rows; iy++ {
		for ix := 0; ix < cols; ix++ {
			c, ok := colorful.MakeColor(small.At(b.Min.X+ix, b.Min.Y+iy))
			if !ok {
				continue
			}
			s.Albedo[iy*cols+ix] = c
		}
	}
}

// LoadTexture reads an image file for ApplyTexture.
func LoadTexture(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load texture %s", path)
	}
	return img, nil
}
