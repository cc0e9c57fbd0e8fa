package panel

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/galaxy-visualization/internal/config"
)

const (
	// labelShare is the fraction of a row given to the control's name.
	labelShare   = 0.4
	folderIndent = 8
)

// Binding reads and writes the value a slider edits.
type Binding struct {
	Get func() float64
	Set func(float64)
}

// Float binds a float64 field.
func Float(v *float64) Binding {
	return Binding{
		Get: func() float64 { return *v },
		Set: func(x float64) { *v = x },
	}
}

// Int binds an int field; written values are rounded.
func Int(v *int) Binding {
	return Binding{
		Get: func() float64 { return float64(*v) },
		Set: func(x float64) { *v = int(math.Round(x)) },
	}
}

// Slider edits a number within a range by dragging.
type Slider struct {
	Label string
	Value Binding
	Range config.Range

	// OnChange fires on every value change while dragging.
	OnChange func()
	// OnFinishChange fires once on release, and only if the value moved.
	OnFinishChange func()

	dragging bool
	hovered  bool
	start    float64
}

func (s *Slider) Height() int { return config.PanelRowSize }

func (s *Slider) track(r image.Rectangle) image.Rectangle {
	x := r.Min.X + int(float64(r.Dx())*labelShare)
	return image.Rect(x, r.Min.Y+3, r.Max.X-6, r.Max.Y-3)
}

func (s *Slider) Update(p Pointer, r image.Rectangle) bool {
	tr := s.track(r)
	s.hovered = p.in(tr)

	if !s.dragging {
		if p.JustPressed && s.hovered {
			s.dragging = true
			s.start = s.Value.Get()
			s.setFromX(p.X, tr)
			return true
		}
		return false
	}

	if p.Pressed && !p.JustReleased {
		s.setFromX(p.X, tr)
		return true
	}

	s.dragging = false
	if s.Value.Get() != s.start && s.OnFinishChange != nil {
		s.OnFinishChange()
	}
	return false
}

func (s *Slider) setFromX(x int, tr image.Rectangle) {
	if tr.Dx() <= 0 {
		return
	}
	frac := float64(x-tr.Min.X) / float64(tr.Dx())
	v := s.Range.Snap(s.Range.Min + frac*(s.Range.Max-s.Range.Min))
	if v == s.Value.Get() {
		return
	}
	s.Value.Set(v)
	if s.OnChange != nil {
		s.OnChange()
	}
}

func (s *Slider) Draw(dst *ebiten.Image, r image.Rectangle) {
	drawLabel(dst, s.Label, r)

	tr := s.track(r)
	bg := colorTrack
	if s.hovered || s.dragging {
		bg = colorTrackHover
	}
	fillRect(dst, tr, bg)

	v := s.Value.Get()
	fill := int(float64(tr.Dx()) * s.Range.Fraction(v))
	fillRect(dst, image.Rect(tr.Min.X, tr.Min.Y, tr.Min.X+fill, tr.Max.Y), colorFill)
	drawLabel(dst, formatValue(v, s.Range.Step), tr)
}

// formatValue prints v with as many decimals as the step needs.
func formatValue(v, step float64) string {
	if step >= 1 || step <= 0 {
		return fmt.Sprintf("%.0f", v)
	}
	decimals := int(math.Ceil(-math.Log10(step) - 1e-9))
	return fmt.Sprintf("%.*f", decimals, v)
}

// Picker asks the user for a colour. ok is false when the user cancelled.
type Picker func(title string, current colorful.Color) (c colorful.Color, ok bool, err error)

// ColorSwatch shows a colour and opens a picker when clicked.
type ColorSwatch struct {
	Label  string
	Value  *colorful.Color
	Picker Picker

	OnFinishChange func()
	OnError        func(error)

	armed bool
}

func (s *ColorSwatch) Height() int { return config.PanelRowSize }

func (s *ColorSwatch) swatch(r image.Rectangle) image.Rectangle {
	x := r.Min.X + int(float64(r.Dx())*labelShare)
	return image.Rect(x, r.Min.Y+3, r.Max.X-6, r.Max.Y-3)
}

func (s *ColorSwatch) Update(p Pointer, r image.Rectangle) bool {
	sw := s.swatch(r)
	if !s.armed {
		if p.JustPressed && p.in(sw) {
			s.armed = true
			return true
		}
		return false
	}
	if !p.JustReleased && p.Pressed {
		return true
	}

	s.armed = false
	if p.in(sw) {
		s.pick()
	}
	return false
}

func (s *ColorSwatch) pick() {
	if s.Picker == nil {
		return
	}
	c, ok, err := s.Picker(s.Label, *s.Value)
	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return
	}
	if !ok || c == *s.Value {
		return
	}
	*s.Value = c
	if s.OnFinishChange != nil {
		s.OnFinishChange()
	}
}

func (s *ColorSwatch) Draw(dst *ebiten.Image, r image.Rectangle) {
	drawLabel(dst, s.Label, r)
	sw := s.swatch(r)
	fillRect(dst, sw, s.Value.Clamped())
	vector.StrokeRect(dst, float32(sw.Min.X), float32(sw.Min.Y), float32(sw.Dx()), float32(sw.Dy()), 1, colorBorder, false)
	drawLabel(dst, s.Value.Hex(), sw)
}

// Folder groups controls under a header that collapses them.
type Folder struct {
	Title string
	Open  bool

	col     column
	pressed bool
}

// NewFolder returns a closed folder.
func NewFolder(title string, children ...Control) *Folder {
	return &Folder{Title: title, col: column{children: children}}
}

func (f *Folder) Height() int {
	if !f.Open {
		return config.PanelRowSize
	}
	return config.PanelRowSize + f.col.height()
}

func (f *Folder) header(r image.Rectangle) image.Rectangle {
	return image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+config.PanelRowSize)
}

func (f *Folder) Update(p Pointer, r image.Rectangle) bool {
	h := f.header(r)
	if f.pressed {
		if p.Pressed && !p.JustReleased {
			return true
		}
		f.pressed = false
		if p.in(h) {
			f.Open = !f.Open
		}
		return false
	}
	if p.JustPressed && p.in(h) {
		f.pressed = true
		return true
	}
	if !f.Open {
		return false
	}
	return f.col.update(p, r.Min.X+folderIndent, h.Max.Y, r.Dx()-folderIndent)
}

func (f *Folder) Draw(dst *ebiten.Image, r image.Rectangle) {
	h := f.header(r)
	fillRect(dst, h, colorHeader)
	drawLabel(dst, foldMark(f.Open)+f.Title, h)
	if f.Open {
		f.col.draw(dst, r.Min.X+folderIndent, h.Max.Y, r.Dx()-folderIndent)
	}
}
