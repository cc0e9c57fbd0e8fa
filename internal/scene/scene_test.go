package scene

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/iburimskiy/galaxy-visualization/internal/config"
)

const eps = 1e-9

func TestCameraProjectsTargetToCenter(t *testing.T) {
	tests := []struct {
		name string
		eye  r3.Vec
	}{
		{"From above", r3.Vec{Y: 4}},
		{"From the side", r3.Vec{X: 3, Y: 2}},
		{"Diagonal", r3.Vec{X: 1, Y: 5, Z: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(tt.eye, r3.Vec{Y: 2}, 45, 0.1, 1000, 800, 600)
			x, y, _, ok := c.Project(r3.Vec{Y: 2})
			if !ok {
				t.Fatal("target not projected")
			}
			if math.Abs(x-400) > 1e-6 || math.Abs(y-300) > 1e-6 {
				t.Errorf("target at (%v, %v), want (400, 300)", x, y)
			}
		})
	}
}

func TestCameraAxes(t *testing.T) {
	// Looking down -z from +z: +x is right, +y is up on screen.
	c := NewCamera(r3.Vec{Z: 5}, r3.Vec{}, 90, 0.1, 100, 200, 200)
	x, y, depth, ok := c.Project(r3.Vec{X: 1})
	if !ok || x <= 100 || math.Abs(y-100) > 1e-6 {
		t.Errorf("+x projected to (%v, %v, ok=%v)", x, y, ok)
	}
	if math.Abs(depth-5) > eps {
		t.Errorf("depth = %v, want 5", depth)
	}
	if f := c.Forward(); math.Abs(f.Z+1) > eps || math.Abs(r3.Norm(f)-1) > eps {
		t.Errorf("Forward = %+v, want (0, 0, -1)", f)
	}
	_, y, _, _ = c.Project(r3.Vec{Y: 1})
	if y >= 100 {
		t.Errorf("+y projected below centre: %v", y)
	}
}

func TestCameraClipsBehind(t *testing.T) {
	c := NewCamera(r3.Vec{Z: 5}, r3.Vec{}, 45, 0.1, 100, 200, 200)
	if _, _, _, ok := c.Project(r3.Vec{Z: 10}); ok {
		t.Error("point behind the camera should not project")
	}
	if _, _, _, ok := c.Project(r3.Vec{Z: -200}); ok {
		t.Error("point beyond far plane should not project")
	}
}

func TestCameraOrbit(t *testing.T) {
	c := NewCamera(r3.Vec{Z: 5}, r3.Vec{}, 45, 0.1, 100, 200, 200)
	before := c.Azimuth
	c.Rotate(50, 0)
	if math.Abs(c.Azimuth-(before-2*math.Pi*50/200)) > eps {
		t.Errorf("Azimuth = %v after drag", c.Azimuth)
	}
	if d := r3.Norm(c.Eye()); math.Abs(d-5) > 1e-9 {
		t.Errorf("orbit changed distance to %v", d)
	}

	c.Rotate(0, 10000)
	if c.Polar < minPolar || c.Polar > maxPolar {
		t.Errorf("Polar %v escaped clamp", c.Polar)
	}

	c.Zoom(1)
	if math.Abs(c.Distance-5*zoomScale) > 1e-9 {
		t.Errorf("Distance = %v after zoom, want %v", c.Distance, 5*zoomScale)
	}
	c.Zoom(-1000)
	if c.Distance != maxDistance {
		t.Errorf("Distance = %v, want clamp %v", c.Distance, maxDistance)
	}
}

func TestCameraResizeKeepsCenter(t *testing.T) {
	c := NewCamera(r3.Vec{Y: 4}, r3.Vec{Y: 2}, 45, 0.1, 1000, 800, 600)
	c.Resize(1920, 1080)
	x, y, _, _ := c.Project(r3.Vec{Y: 2})
	if math.Abs(x-960) > 1e-6 || math.Abs(y-540) > 1e-6 {
		t.Errorf("target at (%v, %v) after resize", x, y)
	}
}

func TestLightAttenuation(t *testing.T) {
	l := &PointLight{Intensity: 1, Distance: 5, Decay: 2}
	tests := []struct {
		name string
		d    float64
		want float64
	}{
		{"Beyond range", 6, 0},
		{"At range", 5, 0},
		{"Inside range", 1, 1 * math.Pow(1-math.Pow(0.2, 4), 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Attenuation(tt.d); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Attenuation(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}

	unlimited := &PointLight{Decay: 2}
	if got := unlimited.Attenuation(10); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("unlimited Attenuation(10) = %v, want 0.01", got)
	}
	if got := unlimited.Attenuation(0); got != 100 {
		t.Errorf("Attenuation(0) = %v, want 100", got)
	}
}

func TestLightShade(t *testing.T) {
	l := &PointLight{
		Position:  r3.Vec{Y: 1},
		Color:     colorful.Color{R: 1, G: 1, B: 1},
		Intensity: math.Pi,
		Decay:     0,
	}
	white := colorful.Color{R: 1, G: 1, B: 1}

	lit := l.Shade(r3.Vec{}, r3.Vec{Y: 1}, white)
	if math.Abs(lit.R-1) > 1e-9 {
		t.Errorf("facing light: %v", lit)
	}
	dark := l.Shade(r3.Vec{}, r3.Vec{Y: -1}, white)
	if dark != (colorful.Color{}) {
		t.Errorf("facing away: %v", dark)
	}
}

func TestSphereMesh(t *testing.T) {
	s := NewSphere(r3.Vec{Y: 2}, 0.5, 64, 32, colorful.Color{R: 1})
	if s.VertexCount() != 65*33 {
		t.Errorf("VertexCount = %d", s.VertexCount())
	}
	wantTriangles := 64*32*2 - 2*64
	if len(s.Indices) != wantTriangles*3 {
		t.Errorf("triangles = %d, want %d", len(s.Indices)/3, wantTriangles)
	}
	for i := 0; i < s.VertexCount(); i++ {
		if d := r3.Norm(r3.Sub(s.Position(i), s.Center)); math.Abs(d-0.5) > 1e-9 {
			t.Fatalf("vertex %d at distance %v", i, d)
		}
	}
	if n := s.Normals[0]; math.Abs(n.Y-1) > eps {
		t.Errorf("first row should be the north pole, got %v", n)
	}
}

func TestSphereApplyTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	s := NewSphere(r3.Vec{}, 1, 8, 4, colorful.Color{B: 1})
	s.ApplyTexture(img)
	for i, c := range s.Albedo {
		if c.R < 0.99 || c.B > 0.01 {
			t.Fatalf("albedo[%d] = %v, want red", i, c)
		}
	}
}

func TestSphereTextureKeepsAlbedoUnderTransparency(t *testing.T) {
	base := colorful.Color{B: 1}
	s := NewSphere(r3.Vec{}, 1, 8, 4, base)
	s.ApplyTexture(image.NewRGBA(image.Rect(0, 0, 40, 20)))
	for i, c := range s.Albedo {
		if c != base {
			t.Fatalf("albedo[%d] = %v, want %v", i, c, base)
		}
	}
}

func TestHostCameraOrbitsOriginFacingEarth(t *testing.T) {
	h := NewHost(800, 600)
	earth := r3.Vec{Y: config.EarthY}

	if d := r3.Norm(h.Camera.Eye()); math.Abs(d-(config.EarthY+config.CameraHeight)) > 1e-9 {
		t.Errorf("eye %v from origin, want %v", d, config.EarthY+config.CameraHeight)
	}

	h.Camera.Rotate(120, -80)
	h.Camera.Zoom(3)
	if d := r3.Norm(h.Camera.Eye()); math.Abs(d-h.Camera.Distance) > 1e-9 {
		t.Errorf("eye %v from origin, want distance %v", d, h.Camera.Distance)
	}
	x, y, _, ok := h.Camera.Project(earth)
	if !ok || math.Abs(x-400) > 1e-6 || math.Abs(y-300) > 1e-6 {
		t.Errorf("Earth at (%v, %v, ok=%v), want screen centre", x, y, ok)
	}
}

func TestSetPointCloudReplaces(t *testing.T) {
	h := NewHost(800, 600)

	if err := h.SetPointCloud(make([]float32, 30), make([]float32, 30), 0.02); err != nil {
		t.Fatalf("SetPointCloud: %v", err)
	}
	if h.PointCount() != 10 {
		t.Errorf("PointCount = %d, want 10", h.PointCount())
	}
	if err := h.SetPointCloud(make([]float32, 12), make([]float32, 12), 0.02); err != nil {
		t.Fatalf("SetPointCloud: %v", err)
	}
	if h.PointCount() != 4 {
		t.Errorf("PointCount = %d after replacement, want 4", h.PointCount())
	}
}

func TestSetPointCloudRejectsBadBuffers(t *testing.T) {
	tests := []struct {
		name      string
		positions []float32
		colors    []float32
		size      float64
	}{
		{"Mismatched", make([]float32, 6), make([]float32, 3), 0.02},
		{"Not triples", make([]float32, 4), make([]float32, 4), 0.02},
		{"Zero size", make([]float32, 3), make([]float32, 3), 0},
		{"NaN size", make([]float32, 3), make([]float32, 3), math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHost(800, 600)
			_ = h.SetPointCloud(make([]float32, 9), make([]float32, 9), 0.02)
			if err := h.SetPointCloud(tt.positions, tt.colors, tt.size); err == nil {
				t.Fatal("Expected an error")
			}
			if h.PointCount() != 3 {
				t.Errorf("failed replacement changed the cloud: %d points", h.PointCount())
			}
		})
	}
}

func TestBuildPointsSplitsAroundEarth(t *testing.T) {
	h := NewHost(config.WindowWidth, config.WindowHeight)

	// One point on the galaxy plane below the Earth, one between the Earth
	// and the camera.
	positions := []float32{1, 0, 0, 0, 3.5, 0.2}
	colors := []float32{1, 0, 0, 0, 1, 0}
	if err := h.SetPointCloud(positions, colors, 0.02); err != nil {
		t.Fatalf("SetPointCloud: %v", err)
	}
	h.buildPoints()

	if h.back.quads() != 1 || h.front.quads() != 1 {
		t.Fatalf("back=%d front=%d, want 1/1", h.back.quads(), h.front.quads())
	}
	v := h.back.batches[0].vertices[0]
	if v.ColorR != 1 || v.ColorG != 0 {
		t.Errorf("back quad colour = %v", v)
	}
}

func TestBuildPointsAppliesRotation(t *testing.T) {
	h := NewHost(800, 800)
	h.Camera = NewCamera(r3.Vec{Y: 10}, r3.Vec{}, 90, 0.1, 100, 800, 800)
	_ = h.SetPointCloud([]float32{1, 0, 0}, []float32{1, 1, 1}, 0.02)

	h.buildPoints()
	x0 := h.back.batches[0].vertices[0].DstX

	h.Advance(math.Pi / 2 / config.RotationSpeed)
	if math.Abs(h.Rotation()-math.Pi/2) > 1e-9 {
		t.Fatalf("Rotation = %v", h.Rotation())
	}
	h.buildPoints()
	x1 := h.back.batches[0].vertices[0].DstX
	y1 := h.back.batches[0].vertices[0].DstY

	if math.Abs(float64(x1-x0)) < 1 {
		t.Errorf("point did not move on screen: %v -> %v", x0, x1)
	}
	// A quarter turn counter-clockwise seen from above takes +x to -z,
	// which is the top half of the screen for this camera.
	if y1 >= 400 {
		t.Errorf("rotated point at y=%v, want above centre", y1)
	}
}

func TestBuildEarthCullsBackFaces(t *testing.T) {
	h := NewHost(config.WindowWidth, config.WindowHeight)
	h.buildEarth()

	total := len(h.Earth.Indices)
	got := len(h.earth.indices)
	if got == 0 || got >= total {
		t.Errorf("visible indices %d of %d", got, total)
	}
	if len(h.earth.vertices) != h.Earth.VertexCount() {
		t.Errorf("vertices = %d, want %d", len(h.earth.vertices), h.Earth.VertexCount())
	}
}

func TestQuadBufferBatches(t *testing.T) {
	var q quadBuffer
	n := maxBatchVertices/4 + 10
	for i := 0; i < n; i++ {
		q.add(float32(i), 0, 1, 1, 1, 1)
	}
	if q.used != 2 {
		t.Errorf("used = %d batches, want 2", q.used)
	}
	if q.quads() != n {
		t.Errorf("quads = %d, want %d", q.quads(), n)
	}
	for _, bt := range q.batches[:q.used] {
		if len(bt.vertices) > maxBatchVertices {
			t.Errorf("batch holds %d vertices", len(bt.vertices))
		}
		if len(bt.indices) != len(bt.vertices)/4*6 {
			t.Errorf("indices %d for %d vertices", len(bt.indices), len(bt.vertices))
		}
	}

	q.reset()
	if q.quads() != 0 || len(q.batches) != 2 {
		t.Errorf("reset: quads=%d batches=%d", q.quads(), len(q.batches))
	}
	q.release()
	if q.batches != nil {
		t.Error("release kept batches")
	}
}
