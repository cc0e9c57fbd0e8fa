// Package game runs the galaxy scene inside ebiten's loop.
//
// Everything happens on the game goroutine. Frame ticks advance the rotation;
// committed panel edits regenerate the point cloud before the next frame.
package game

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/galaxy-visualization/internal/config"
	"github.com/iburimskiy/galaxy-visualization/internal/galaxy"
	"github.com/iburimskiy/galaxy-visualization/internal/panel"
	"github.com/iburimskiy/galaxy-visualization/internal/scene"
)

// Game implements ebiten.Game.
type Game struct {
	params config.Parameters
	seed   uint64
	rng    *rand.Rand

	host  *scene.Host
	panel *panel.Panel
	music soundtrack

	// dialogs, swappable in tests
	pickColor  panel.Picker
	chooseFile func() (string, error)

	width, height int
	start         time.Time
	orbiting      bool
	lastCursor    image.Point

	generation int
	lastErr    error
	log        *slog.Logger
}

// New builds the scene from opts and generates the first galaxy.
func New(opts config.Options) (*Game, error) {
	g := &Game{
		params:     config.Defaults(),
		host:       scene.NewHost(config.WindowWidth, config.WindowHeight),
		pickColor:  pickColor,
		chooseFile: selectSoundtrack,
		width:      config.WindowWidth,
		height:     config.WindowHeight,
		start:      time.Now(),
		log:        slog.With("component", "game"),
	}
	if opts.Count > 0 {
		g.params.Count = opts.Count
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	g.reseed(seed)

	if opts.EarthTexture != "" {
		img, err := scene.LoadTexture(opts.EarthTexture)
		if err != nil {
			return nil, err
		}
		g.host.Earth.ApplyTexture(img)
	}

	g.panel = g.buildPanel()

	if err := g.Regenerate(); err != nil {
		return nil, err
	}

	if opts.Music != "" {
		if err := g.music.load(opts.Music); err != nil {
			// The galaxy is still worth showing without sound.
			g.fail(err)
		}
	}
	return g, nil
}

// Close stops the soundtrack and releases its file.
func (g *Game) Close() {
	g.music.close()
}

func (g *Game) reseed(seed uint64) {
	g.seed = seed
	g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Regenerate rebuilds the point cloud from a snapshot of the current
// parameters and swaps it into the scene. On failure the displayed cloud is
// left untouched.
func (g *Game) Regenerate() error {
	snapshot := g.params
	began := time.Now()

	cloud, err := galaxy.Generate(snapshot, g.rng)
	if err != nil {
		g.fail(err)
		return err
	}
	if err := g.host.SetPointCloud(cloud.Positions, cloud.Colors, snapshot.Size); err != nil {
		g.fail(err)
		return err
	}

	g.generation++
	g.lastErr = nil
	g.log.Debug("Galaxy generated",
		"points", cloud.Len(),
		"branches", snapshot.Branches,
		"seed", g.seed,
		"took", time.Since(began),
	)
	return nil
}

func (g *Game) fail(err error) {
	g.lastErr = err
	g.log.Error("Operation failed", "error", err)
}

// commit is the finish-change handler of every galaxy control.
func (g *Game) commit() {
	_ = g.Regenerate()
}

func (g *Game) buildPanel() *panel.Panel {
	p := &g.params
	slider := func(label string, v panel.Binding, r config.Range) *panel.Slider {
		return &panel.Slider{Label: label, Value: v, Range: r, OnFinishChange: g.commit}
	}
	swatch := func(label string, c *colorful.Color, onFinish func()) *panel.ColorSwatch {
		return &panel.ColorSwatch{
			Label:          label,
			Value:          c,
			Picker:         func(t string, cur colorful.Color) (colorful.Color, bool, error) { return g.pickColor(t, cur) },
			OnFinishChange: onFinish,
			OnError:        g.fail,
		}
	}

	galaxyFolder := panel.NewFolder("Galaxy",
		slider("count", panel.Int(&p.Count), config.CountRange),
		slider("size", panel.Float(&p.Size), config.SizeRange),
		slider("radius", panel.Float(&p.Radius), config.RadiusRange),
		slider("branches", panel.Int(&p.Branches), config.BranchesRange),
		slider("spin", panel.Float(&p.Spin), config.SpinRange),
		slider("randomness", panel.Float(&p.Randomness), config.RandomnessRange),
		slider("randomnessPower", panel.Float(&p.RandomnessPower), config.RandomnessPowerRange),
		swatch("insideColor", &p.InsideColor, g.commit),
		swatch("outsideColor", &p.OutsideColor, g.commit),
	)

	light := g.host.Light
	lightFolder := panel.NewFolder("Light",
		panel.NewFolder("Position",
			&panel.Slider{Label: "x", Value: panel.Float(&light.Position.X), Range: config.LightPositionRange},
			&panel.Slider{Label: "y", Value: panel.Float(&light.Position.Y), Range: config.LightPositionRange},
			&panel.Slider{Label: "z", Value: panel.Float(&light.Position.Z), Range: config.LightPositionRange},
		),
		swatch("color", &light.Color, nil),
		&panel.Slider{Label: "intensity", Value: panel.Float(&light.Intensity), Range: config.LightIntensityRange},
		&panel.Slider{Label: "distance", Value: panel.Float(&light.Distance), Range: config.LightDistanceRange},
		&panel.Slider{Label: "decay", Value: panel.Float(&light.Decay), Range: config.LightDecayRange},
	)

	return panel.New("Controls", galaxyFolder, lightFolder)
}

// handlePointer orbits the camera with drags the panel did not claim.
func (g *Game) handlePointer(p panel.Pointer, claimed bool) {
	cur := image.Pt(p.X, p.Y)
	switch {
	case p.JustPressed && !claimed:
		g.orbiting = true
	case g.orbiting && p.Pressed:
		d := cur.Sub(g.lastCursor)
		if d != (image.Point{}) {
			g.host.Camera.Rotate(float64(d.X), float64(d.Y))
		}
	}
	if !p.Pressed || p.JustReleased {
		g.orbiting = false
	}
	g.lastCursor = cur
}

func (g *Game) handleWheel(dy float64, claimed bool) {
	if dy != 0 && !claimed {
		g.host.Camera.Zoom(dy)
	}
}

func (g *Game) openSoundtrack() {
	path, err := g.chooseFile()
	if err != nil {
		g.fail(err)
		return
	}
	if path == "" {
		return
	}
	if err := g.music.load(path); err != nil {
		g.fail(err)
		return
	}
	g.log.Info("Soundtrack loaded", "file", filepath.Base(path))
}

// handleKeys runs every shortcut pressed this frame.
func (g *Game) handleKeys(justPressed func(ebiten.Key) bool) {
	if justPressed(ebiten.KeyTab) {
		g.panel.Toggle()
	}
	if justPressed(ebiten.KeyR) {
		g.reseed(g.rng.Uint64())
		g.commit()
	}
	if justPressed(ebiten.KeyM) {
		g.openSoundtrack()
	}
	if justPressed(ebiten.KeySpace) {
		g.music.togglePause()
	}
}

func (g *Game) Update() error {
	x, y := ebiten.CursorPosition()
	p := panel.Pointer{
		X:            x,
		Y:            y,
		Pressed:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
	claimed := g.panel.Update(p, g.width)
	g.handlePointer(p, claimed)
	_, wy := ebiten.Wheel()
	g.handleWheel(wy, claimed)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	g.handleKeys(inpututil.IsKeyJustPressed)

	g.host.Advance(time.Since(g.start).Seconds())
	g.host.SetSizeScale(1 + config.PulseAmount*g.music.level())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.host.Draw(screen)
	g.panel.Draw(screen)
	ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
}

func (g *Game) status() string {
	s := fmt.Sprintf("%d points  seed %d  %.0f FPS", g.host.PointCount(), g.seed, ebiten.ActualFPS())
	if g.music.loaded() {
		state := "playing"
		if g.music.paused {
			state = "paused"
		}
		s += fmt.Sprintf("  |  %s %s %s/%s", filepath.Base(g.music.path), state,
			formatDuration(g.music.position()), formatDuration(g.music.length()))
	}
	if g.lastErr != nil {
		s += "  |  Error: " + g.lastErr.Error()
	}
	return s
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.host.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
