// Package panel is a small immediate-mode control panel drawn over the
// scene: collapsible folders of sliders and colour swatches.
package panel

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/galaxy-visualization/internal/config"
)

// Pointer is the mouse state for one frame.
type Pointer struct {
	X, Y         int
	Pressed      bool
	JustPressed  bool
	JustReleased bool
}

func (p Pointer) in(r image.Rectangle) bool {
	return image.Pt(p.X, p.Y).In(r)
}

// Control is a single row (or group of rows) in the panel.
type Control interface {
	// Height is the vertical space the control takes in pixels.
	Height() int
	// Update handles input for a control laid out at r and reports whether
	// the pointer is busy with it.
	Update(p Pointer, r image.Rectangle) bool
	Draw(dst *ebiten.Image, r image.Rectangle)
}

var (
	colorBackground = color.RGBA{R: 26, G: 26, B: 26, A: 230}
	colorHeader     = color.RGBA{R: 17, G: 17, B: 17, A: 255}
	colorTrack      = color.RGBA{R: 48, G: 48, B: 48, A: 255}
	colorTrackHover = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	colorFill       = color.RGBA{R: 47, G: 161, B: 214, A: 255}
	colorBorder     = color.RGBA{R: 80, G: 80, B: 80, A: 255}
)

// Panel is the root of the control tree, anchored to the top-right corner.
type Panel struct {
	Title string
	Open  bool

	col     column
	bounds  image.Rectangle
	pressed bool // header press waiting for its release
}

// New returns a closed panel.
func New(title string, children ...Control) *Panel {
	return &Panel{Title: title, col: column{children: children}}
}

// Toggle opens or closes the panel.
func (pn *Panel) Toggle() { pn.Open = !pn.Open }

// Bounds returns the area the panel covered on the last update.
func (pn *Panel) Bounds() image.Rectangle { return pn.bounds }

// Update lays the panel out against the screen width and feeds it input.
// It reports whether the pointer belongs to the panel this frame, in which
// case the scene should ignore it.
func (pn *Panel) Update(p Pointer, screenWidth int) bool {
	x0 := screenWidth - config.PanelWidth - config.PanelMargin
	y := config.PanelMargin
	header := image.Rect(x0, y, x0+config.PanelWidth, y+config.PanelRowSize)

	h := config.PanelRowSize
	if pn.Open {
		h += pn.col.height()
	}
	pn.bounds = image.Rect(x0, y, x0+config.PanelWidth, y+h)

	if pn.pressed {
		if p.Pressed && !p.JustReleased {
			return true
		}
		pn.pressed = false
		if p.in(header) {
			pn.Toggle()
		}
		return true
	}
	if pn.Open && pn.col.update(p, x0, header.Max.Y, config.PanelWidth) {
		return true
	}
	if p.JustPressed && p.in(header) {
		pn.pressed = true
		return true
	}
	return p.in(pn.bounds)
}

// Draw renders the panel at the position computed by the last Update.
func (pn *Panel) Draw(dst *ebiten.Image) {
	b := pn.bounds
	if b.Empty() {
		return
	}
	fillRect(dst, b, colorBackground)
	header := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+config.PanelRowSize)
	fillRect(dst, header, colorHeader)
	drawLabel(dst, foldMark(pn.Open)+pn.Title, header)

	if pn.Open {
		pn.col.draw(dst, b.Min.X, header.Max.Y, b.Dx())
	}
	vector.StrokeRect(dst, float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy()), 1, colorBorder, false)
}

// column stacks controls vertically. A control that takes a press keeps
// receiving input until it lets go, even when the pointer leaves its row.
type column struct {
	children []Control
	captured Control
}

func (col *column) height() int {
	h := 0
	for _, c := range col.children {
		h += c.Height()
	}
	return h
}

func (col *column) rect(target Control, x0, y, width int) image.Rectangle {
	for _, c := range col.children {
		if c == target {
			return image.Rect(x0, y, x0+width, y+c.Height())
		}
		y += c.Height()
	}
	return image.Rectangle{}
}

func (col *column) update(p Pointer, x0, y, width int) bool {
	if col.captured != nil {
		busy := col.captured.Update(p, col.rect(col.captured, x0, y, width))
		if !busy {
			col.captured = nil
		}
		return busy
	}

	busy := false
	for _, c := range col.children {
		r := image.Rect(x0, y, x0+width, y+c.Height())
		if c.Update(p, r) {
			busy = true
			if p.JustPressed {
				col.captured = c
			}
		}
		y += c.Height()
	}
	return busy
}

func (col *column) draw(dst *ebiten.Image, x0, y, width int) {
	for _, c := range col.children {
		r := image.Rect(x0, y, x0+width, y+c.Height())
		c.Draw(dst, r)
		y += c.Height()
	}
}

func foldMark(open bool) string {
	if open {
		return "[-] "
	}
	return "[+] "
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
}

// drawLabel prints text vertically centred in r with a small left inset.
func drawLabel(dst *ebiten.Image, text string, r image.Rectangle) {
	ebitenutil.DebugPrintAt(dst, text, r.Min.X+6, r.Min.Y+(r.Dy()-16)/2)
}
