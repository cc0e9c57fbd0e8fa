// Package scene projects the galaxy and the Earth onto an ebiten image.
package scene

import (
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/iburimskiy/galaxy-visualization/internal/config"
)

// Host owns everything drawn in the viewport. It holds at most one point
// cloud at a time.
type Host struct {
	Camera *Camera
	Light  *PointLight
	Earth  *Sphere

	positions []float32
	colors    []float32
	size      float64
	sizeScale float64
	rotation  float64

	back, front quadBuffer
	earth       batch

	white *ebiten.Image
	log   *slog.Logger
}

// NewHost builds the default camera, light and Earth for a viewport.
func NewHost(width, height int) *Host {
	earthPos := r3.Vec{Y: config.EarthY}

	// The camera orbits the world origin but always looks at the Earth.
	camera := NewCamera(
		r3.Add(earthPos, r3.Vec{Y: config.CameraHeight}),
		r3.Vec{},
		config.CameraFov, config.CameraNear, config.CameraFar,
		width, height,
	)
	camera.SetFocus(earthPos)

	return &Host{
		Camera: camera,
		Light: &PointLight{
			Position:  r3.Vec{X: config.LightX, Y: config.LightY, Z: config.LightZ},
			Color:     config.MustHex(config.LightColor),
			Intensity: config.LightIntensity,
			Distance:  config.LightDistance,
			Decay:     config.LightDecay,
		},
		Earth: NewSphere(earthPos, config.EarthRadius,
			config.EarthWidthSegments, config.EarthHeightSegments,
			config.MustHex(config.EarthAlbedo)),
		sizeScale: 1,
		log:       slog.With("component", "scene"),
	}
}

// SetPointCloud replaces the displayed cloud. The previous buffers are
// dropped before the new ones are adopted.
func (h *Host) SetPointCloud(positions, colors []float32, size float64) error {
	if len(positions) != len(colors) {
		return errors.Errorf("scene: %d position values but %d color values", len(positions), len(colors))
	}
	if len(positions)%3 != 0 {
		return errors.Errorf("scene: buffer length %d is not a multiple of 3", len(positions))
	}
	if !(size > 0) {
		return errors.Errorf("scene: point size must be positive, got %v", size)
	}

	h.release()
	h.positions = positions
	h.colors = colors
	h.size = size
	h.log.Debug("Point cloud replaced", "points", h.PointCount(), "size", size)
	return nil
}

func (h *Host) release() {
	h.positions = nil
	h.colors = nil
	h.back.release()
	h.front.release()
}

// PointCount returns the number of displayed points.
func (h *Host) PointCount() int { return len(h.positions) / 3 }

// Resize tracks the viewport dimensions.
func (h *Host) Resize(width, height int) { h.Camera.Resize(width, height) }

// Advance sets the galaxy rotation from the elapsed time in seconds.
func (h *Host) Advance(elapsed float64) {
	h.rotation = elapsed * config.RotationSpeed
}

// Rotation returns the current galaxy rotation around the vertical axis.
func (h *Host) Rotation() float64 { return h.rotation }

// SetSizeScale multiplies the on-screen point size.
func (h *Host) SetSizeScale(k float64) {
	if k > 0 {
		h.sizeScale = k
	}
}

// Draw renders the frame. Points farther than the Earth's centre go first so
// the sphere covers them; nearer points are added on top.
func (h *Host) Draw(dst *ebiten.Image) {
	if h.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		h.white = img
	}

	dst.Fill(color.Black)
	h.buildPoints()
	h.buildEarth()

	additive := &ebiten.DrawTrianglesOptions{Blend: ebiten.BlendLighter}
	h.back.draw(dst, h.white, additive)
	if len(h.earth.indices) > 0 {
		dst.DrawTriangles(h.earth.vertices, h.earth.indices, h.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
	}
	h.front.draw(dst, h.white, additive)
}

func (h *Host) buildPoints() {
	h.back.reset()
	h.front.reset()

	split := h.Camera.Depth(h.Earth.Center)
	spin := r3.NewRotation(h.rotation, r3.Vec{Y: 1})
	size := h.size * h.sizeScale

	for i := 0; i+2 < len(h.positions); i += 3 {
		p := spin.Rotate(r3.Vec{
			X: float64(h.positions[i]),
			Y: float64(h.positions[i+1]),
			Z: float64(h.positions[i+2]),
		})
		x, y, depth, ok := h.Camera.Project(p)
		if !ok {
			continue
		}
		px := size * h.Camera.PixelScale(depth)
		if px < 1 {
			px = 1
		}
		q := &h.front
		if depth > split {
			q = &h.back
		}
		q.add(float32(x), float32(y), float32(px/2), h.colors[i], h.colors[i+1], h.colors[i+2])
	}
}

func (h *Host) buildEarth() {
	s := h.Earth
	h.earth.vertices = h.earth.vertices[:0]
	h.earth.indices = h.earth.indices[:0]

	visible := make([]bool, s.VertexCount())
	for i := 0; i < s.VertexCount(); i++ {
		p := s.Position(i)
		x, y, _, ok := h.Camera.Project(p)
		visible[i] = ok
		c := h.Light.Shade(p, s.Normals[i], s.Albedo[i])
		h.earth.vertices = append(h.earth.vertices, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: srcMid, SrcY: srcMid,
			ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: 1,
		})
	}

	eye := h.Camera.Eye()
	for t := 0; t+2 < len(s.Indices); t += 3 {
		a, b, c := s.Indices[t], s.Indices[t+1], s.Indices[t+2]
		if !visible[a] || !visible[b] || !visible[c] {
			continue
		}
		n := r3.Add(r3.Add(s.Normals[a], s.Normals[b]), s.Normals[c])
		centroid := r3.Scale(1.0/3, r3.Add(r3.Add(s.Position(int(a)), s.Position(int(b))), s.Position(int(c))))
		if r3.Dot(n, r3.Sub(eye, centroid)) <= 0 {
			continue
		}
		h.earth.indices = append(h.earth.indices, a, b, c)
	}
}
