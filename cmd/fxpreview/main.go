// Package main provides a live preview window for particle settings.
//
// The window runs its own simulator. Baking always uses a separate simulator
// and random generator, so exporting never disturbs the live preview.
//
// Usage:
//
//	go run ./cmd/fxpreview [flags]
//
// Flags:
//
//	--config <file>   Settings YAML (defaults are used when omitted)
//	--out <file>      Archive written by the bake key (default particle.zip)
//	--verbose         Enable verbose logging
//
// Controls:
//
//	B          - Bake the current settings to --out
//	R          - Reset the simulation
//	L          - Reload --config from disk
//	P          - Toggle pause
//	Tab        - Select the next editable field
//	E          - Edit the selected field (type a number, Enter applies, Esc cancels)
//	Mouse      - Click to move the emitter
//	Q/Escape   - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/fxbake/internal/atlas"
	"github.com/decker502/fxbake/internal/particle"
	"github.com/decker502/fxbake/pkg/config"
	"github.com/decker502/fxbake/pkg/export"
)

var (
	configFlag  = flag.String("config", "", "Settings YAML file")
	outFlag     = flag.String("out", export.DefaultName+".zip", "Archive path written by the bake key")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

var errQuit = errors.New("quit requested")

// editableField is one numeric setting that can be changed from the keyboard
type editableField struct {
	name string
	get  func(s *particle.ParticleSettings) float64
	set  func(s *particle.ParticleSettings, v float64)
}

var editableFields = []editableField{
	{"rate", func(s *particle.ParticleSettings) float64 { return s.Emitter.Rate },
		func(s *particle.ParticleSettings, v float64) { s.Emitter.Rate = v }},
	{"angle", func(s *particle.ParticleSettings) float64 { return s.Emitter.Angle },
		func(s *particle.ParticleSettings, v float64) { s.Emitter.Angle = v }},
	{"angleSpread", func(s *particle.ParticleSettings) float64 { return s.Emitter.AngleSpread },
		func(s *particle.ParticleSettings, v float64) { s.Emitter.AngleSpread = v }},
	{"speedMin", func(s *particle.ParticleSettings) float64 { return s.Emitter.SpeedMin },
		func(s *particle.ParticleSettings, v float64) { s.Emitter.SpeedMin = v }},
	{"speedMax", func(s *particle.ParticleSettings) float64 { return s.Emitter.SpeedMax },
		func(s *particle.ParticleSettings, v float64) { s.Emitter.SpeedMax = v }},
	{"gravity", func(s *particle.ParticleSettings) float64 { return s.Gravity },
		func(s *particle.ParticleSettings, v float64) { s.Gravity = v }},
	{"drag", func(s *particle.ParticleSettings) float64 { return s.Drag },
		func(s *particle.ParticleSettings, v float64) { s.Drag = v }},
	{"vortexStrength", func(s *particle.ParticleSettings) float64 { return s.VortexStrength },
		func(s *particle.ParticleSettings, v float64) { s.VortexStrength = v }},
}

// PreviewGame implements ebiten.Game for the live preview
type PreviewGame struct {
	settings particle.ParticleSettings
	sim      *particle.Simulator
	sprite   *ebiten.Image
	paused   bool

	// Field editing
	field     int
	editing   bool
	editQuery string

	// Bake runs in the background; only one at a time
	baking   atomic.Bool
	statusMu sync.Mutex
	status   string
}

// NewPreviewGame creates the preview for settings
func NewPreviewGame(settings particle.ParticleSettings) *PreviewGame {
	g := &PreviewGame{
		sprite: ebiten.NewImageFromImage(atlas.Sprite()),
	}
	g.applySettings(settings)
	g.setStatus("Ready")
	return g
}

// applySettings replaces the live settings and restarts the simulation
func (g *PreviewGame) applySettings(settings particle.ParticleSettings) {
	config.Normalize(&settings)
	g.settings = settings
	// The preview never shares its generator with a bake
	g.sim = particle.NewSimulator(settings, particle.NewRand(settings.Seed))
	g.sim.Reset()
}

func (g *PreviewGame) setStatus(msg string) {
	g.statusMu.Lock()
	g.status = msg
	g.statusMu.Unlock()
}

func (g *PreviewGame) getStatus() string {
	g.statusMu.Lock()
	defer g.statusMu.Unlock()
	return g.status
}

// Update advances the simulation by one tick
func (g *PreviewGame) Update() error {
	if g.editing {
		g.updateEditMode()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Reset()
		g.setStatus("Simulation reset")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.reload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.field = (g.field + 1) % len(editableFields)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.editing = true
		g.editQuery = ""
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.startBake()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		s := g.settings
		s.Emitter.X, s.Emitter.Y = float64(x), float64(y)
		g.applySettings(s)
	}

	if !g.paused {
		g.sim.Update(1 / float64(ebiten.TPS()))
	}
	return nil
}

// updateEditMode collects a numeric edit for the selected field
func (g *PreviewGame) updateEditMode() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.editing = false
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(g.editQuery) > 0 {
		g.editQuery = g.editQuery[:len(g.editQuery)-1]
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.editing = false
		f := editableFields[g.field]
		s := g.settings
		prev := f.get(&s)
		v := config.ApplyNumericEdit(prev, g.editQuery)
		if v == prev {
			g.setStatus(fmt.Sprintf("%s unchanged (input %q)", f.name, g.editQuery))
			return
		}
		f.set(&s, v)
		g.applySettings(s)
		g.setStatus(fmt.Sprintf("%s = %g", f.name, f.get(&g.settings)))
		return
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == 'e' || r == '+' {
			g.editQuery += string(r)
		}
	}
}

func (g *PreviewGame) reload() {
	if *configFlag == "" {
		g.setStatus("No --config to reload")
		return
	}
	settings, err := config.LoadSettings(*configFlag)
	if err != nil {
		log.Printf("[Preview] Reload failed: %v", err)
		g.setStatus("Reload failed: " + err.Error())
		return
	}
	g.applySettings(settings)
	g.setStatus("Reloaded " + *configFlag)
}

// startBake exports the current settings in the background
func (g *PreviewGame) startBake() {
	if !g.baking.CompareAndSwap(false, true) {
		return
	}
	settings := g.settings
	out := *outFlag
	g.setStatus("Baking...")

	go func() {
		defer g.baking.Store(false)

		res, err := export.Run(settings, export.Options{})
		if err == nil {
			err = res.WriteFile(out)
		}
		if err != nil {
			log.Printf("[Preview] Bake failed: %v", err)
			g.setStatus("Bake failed: " + err.Error())
			return
		}
		g.setStatus(fmt.Sprintf("Baked %d frames, %d particles to %s", res.Frames, res.Bones, out))
	}()
}

// Draw renders live particles and the status lines
func (g *PreviewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 24, B: 32, A: 255})

	half := float64(atlas.SpriteSize) / 2
	for _, p := range g.sim.Particles() {
		if p.Alpha <= 0 {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-half, -half)
		op.GeoM.Scale(p.ScaleX, p.ScaleY)
		op.GeoM.Rotate(p.Rotation * math.Pi / 180)
		op.GeoM.Translate(p.X, p.Y)
		a := float32(p.Alpha)
		op.ColorScale.Scale(float32(p.Color.R)*a, float32(p.Color.G)*a, float32(p.Color.B)*a, a)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(g.sprite, op)
	}

	f := editableFields[g.field]
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("particles: %d  spawned: %d  t=%.2fs  TPS: %.0f",
		len(g.sim.Particles()), g.sim.SpawnCount(), g.sim.Clock(), ebiten.ActualTPS()), 10, 10)
	if g.editing {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %s_  (Enter apply, Esc cancel)", f.name, g.editQuery), 10, 30)
	} else {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("[Tab] %s = %g  [E] edit", f.name, f.get(&g.settings)), 10, 30)
	}
	ebitenutil.DebugPrintAt(screen, g.getStatus(), 10, 50)
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", g.settings.FrameWidth-60, 10)
	}
}

// Layout uses the export frame size as the logical screen
func (g *PreviewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.settings.FrameWidth, g.settings.FrameHeight
}

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	settings := particle.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.LoadSettings(*configFlag)
		if err != nil {
			log.SetOutput(os.Stderr)
			log.Fatal("Failed to load settings:", err)
		}
	}

	game := NewPreviewGame(settings)

	ebiten.SetWindowSize(settings.FrameWidth, settings.FrameHeight)
	ebiten.SetWindowTitle("Particle Bake Preview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
