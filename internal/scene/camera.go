package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	minPolar    = 1e-3
	maxPolar    = math.Pi - 1e-3
	minDistance = 0.2
	maxDistance = 200
	zoomScale   = 0.95
)

// Camera is a perspective camera orbiting Target while looking at Focus.
// Azimuth is measured around the vertical axis from +z, polar from +y.
type Camera struct {
	Target   r3.Vec
	Focus    r3.Vec
	Distance float64
	Azimuth  float64
	Polar    float64

	Fov       float64 // vertical, degrees
	Near, Far float64

	width, height float64

	// basis, rebuilt by update
	eye, right, up, forward r3.Vec
	focal                   float64
}

// NewCamera places a camera at eye orbiting and looking at target.
func NewCamera(eye, target r3.Vec, fov, near, far float64, width, height int) *Camera {
	c := &Camera{
		Target: target,
		Focus:  target,
		Fov:    fov,
		Near:   near,
		Far:    far,
	}
	off := r3.Sub(eye, target)
	l := r3.Norm(off)
	c.Distance = clamp(l, minDistance, maxDistance)
	c.Azimuth = math.Atan2(off.X, off.Z)
	if l > 0 {
		c.Polar = math.Acos(clamp(off.Y/l, -1, 1))
	}
	c.Resize(width, height)
	return c
}

// SetFocus keeps the camera pointed at p without moving the orbit centre.
func (c *Camera) SetFocus(p r3.Vec) {
	c.Focus = p
	c.update()
}

// Resize updates the viewport the camera projects into.
func (c *Camera) Resize(width, height int) {
	c.width = float64(max(width, 1))
	c.height = float64(max(height, 1))
	c.update()
}

// Rotate orbits by a pointer drag of dx, dy pixels. A drag across the full
// viewport height turns the camera by a full circle.
func (c *Camera) Rotate(dx, dy float64) {
	c.Azimuth -= 2 * math.Pi * dx / c.height
	c.Polar -= 2 * math.Pi * dy / c.height
	c.update()
}

// Zoom moves toward the target for positive steps and away for negative.
func (c *Camera) Zoom(steps float64) {
	c.Distance *= math.Pow(zoomScale, steps)
	c.update()
}

// Eye returns the camera position.
func (c *Camera) Eye() r3.Vec { return c.eye }

// Forward returns the unit view direction.
func (c *Camera) Forward() r3.Vec { return c.forward }

// Depth returns the distance of p along the view direction.
func (c *Camera) Depth(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(p, c.eye), c.forward)
}

// Project maps a world point to screen pixels. ok is false when the point
// falls outside the near/far planes.
func (c *Camera) Project(p r3.Vec) (x, y, depth float64, ok bool) {
	d := r3.Sub(p, c.eye)
	depth = r3.Dot(d, c.forward)
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	aspect := c.width / c.height
	ndcX := c.focal / aspect * r3.Dot(d, c.right) / depth
	ndcY := c.focal * r3.Dot(d, c.up) / depth
	x = (ndcX + 1) / 2 * c.width
	y = (1 - ndcY) / 2 * c.height
	return x, y, depth, true
}

// PixelScale converts a world-space size at depth into pixels.
func (c *Camera) PixelScale(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return c.height / 2 / depth
}

func (c *Camera) update() {
	c.Polar = clamp(c.Polar, minPolar, maxPolar)
	c.Distance = clamp(c.Distance, minDistance, maxDistance)

	sinP := math.Sin(c.Polar)
	off := r3.Vec{
		X: c.Distance * sinP * math.Sin(c.Azimuth),
		Y: c.Distance * math.Cos(c.Polar),
		Z: c.Distance * sinP * math.Cos(c.Azimuth),
	}
	c.eye = r3.Add(c.Target, off)

	look := r3.Sub(c.Focus, c.eye)
	if r3.Norm(look) < 1e-9 {
		look = r3.Scale(-1, off)
	}
	c.forward = r3.Unit(look)

	// The tangent of the azimuth circle stays defined when looking straight
	// down; it is made orthogonal to forward in case Focus is off the axis.
	tangent := r3.Vec{X: math.Cos(c.Azimuth), Z: -math.Sin(c.Azimuth)}
	right := r3.Sub(tangent, r3.Scale(r3.Dot(tangent, c.forward), c.forward))
	if r3.Norm(right) < 1e-9 {
		right = tangent
	}
	c.right = r3.Unit(right)
	c.up = r3.Unit(r3.Cross(c.right, c.forward))

	c.focal = 1 / math.Tan(c.Fov*math.Pi/360)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
