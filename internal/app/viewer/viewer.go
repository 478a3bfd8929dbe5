// Package viewer runs a simulation session in an SDL2 window.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/app"
	"github.com/Faultbox/mod1/internal/config"
	"github.com/Faultbox/mod1/internal/engine/camera"
	"github.com/Faultbox/mod1/internal/engine/debug"
	"github.com/Faultbox/mod1/internal/engine/input"
	"github.com/Faultbox/mod1/internal/engine/picking"
	"github.com/Faultbox/mod1/internal/engine/renderer"
	"github.com/Faultbox/mod1/internal/engine/window"
)

// maxStepsPerFrame bounds catch-up after a slow frame.
const maxStepsPerFrame = 4

// Viewer is the windowed simulator.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	session *app.Session

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	shots    *debug.Screenshot

	running   bool
	dragging  bool
	lastMouse [2]int
}

// New loads the session and opens the window.
func New(cfg *config.Config, log *zap.Logger) (*Viewer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	session, err := app.NewSession(cfg, log)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		cfg:     cfg,
		log:     log,
		session: session,
		input:   input.New(),
		camera:  camera.NewOrbitCamera(),
		shots:   debug.NewScreenshot(cfg.Graphics.ScreenshotDir, "mod1"),
	}

	v.window, err = window.New(window.Config{
		Title:      "mod1",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:        width,
		Height:       height,
		SunAzimuth:   cfg.Graphics.SunAzimuth,
		SunElevation: cfg.Graphics.SunElevation,
	}, log.Named("renderer"))
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.uploadTerrain()
	return v, nil
}

// Run drives the simulation at the configured tick rate and renders every
// frame until the window is closed or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true
	tickRate := v.cfg.Simulation.TickRate

	last := time.Now()
	var acc time.Duration
	frames := 0
	fpsTimer := last

	v.log.Info("starting viewer loop", zap.Duration("tick_rate", tickRate))

	for v.running {
		now := time.Now()
		acc += now.Sub(last)
		last = now

		if v.input.Update() {
			break
		}
		if err := v.handleEvents(); err != nil {
			return err
		}

		for steps := 0; acc >= tickRate; steps++ {
			if steps == maxStepsPerFrame {
				acc = 0
				break
			}
			v.session.Controls.Step(v.session.Sim)
			acc -= tickRate
		}

		v.render()
		v.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			st := v.session.Sim.Stats()
			if v.cfg.Graphics.ShowFPS {
				v.window.SetTitle(fmt.Sprintf("mod1 - %d fps - level %d - %d active", frames, st.Level, st.Active))
			}
			v.log.Debug("frame stats",
				zap.Int("fps", frames),
				zap.Uint64("tick", st.Tick),
				zap.Int("level", st.Level),
				zap.Int("active", st.Active),
			)
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) handleEvents() error {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.Size())

		case input.EventKeyDown:
			if e.Repeat {
				continue
			}
			if e.Key == screenshotKey {
				v.screenshot()
				continue
			}
			a := actionFor(e.Key)
			quit, err := v.session.Handle(a)
			if err != nil {
				// a bad points file should not close the window
				v.log.Error("action failed", zap.Stringer("action", a), zap.Error(err))
				continue
			}
			if quit {
				v.running = false
			}
			if a == app.ActionRegrid {
				v.uploadTerrain()
			}

		case input.EventMouseDown:
			switch e.Button {
			case sdl.BUTTON_LEFT:
				v.dragging = true
				v.lastMouse = [2]int{e.MouseX, e.MouseY}
			case sdl.BUTTON_RIGHT:
				v.pour(e.MouseX, e.MouseY)
			}

		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT {
				v.dragging = false
			}

		case input.EventMouseMove:
			if !v.dragging {
				continue
			}
			w, h := v.renderer.Size()
			dx := float32(e.MouseX-v.lastMouse[0]) / float32(max(w, 1))
			dy := float32(e.MouseY-v.lastMouse[1]) / float32(max(h, 1))
			v.camera.HandleDrag(dx, dy)
			v.lastMouse = [2]int{e.MouseX, e.MouseY}

		case input.EventMouseWheel:
			v.camera.HandleZoom(e.WheelY)
		}
	}
	return nil
}

// pour drops water into the terrain column under the cursor.
func (v *Viewer) pour(mx, my int) {
	w, h := v.renderer.Size()
	inv := v.camera.ViewProjection(w, h).Inv()
	ray := picking.ScreenToRay(float32(mx), float32(my), float32(w), float32(h), inv)

	p, ok := ray.HitHeightfield(v.session.Terrain.Heights)
	if !ok {
		return
	}
	if v.session.PourAt(p[0], p[2]) {
		v.log.Debug("poured water", zap.Float32("x", p[0]), zap.Float32("z", p[2]))
	}
}

func (v *Viewer) screenshot() {
	v.render()
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.SavePixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) uploadTerrain() {
	vertices, indices := v.session.Terrain.Heights.SurfaceMesh()
	v.renderer.SetTerrain(vertices, indices)

	lattice, _ := v.session.Sim.Geometry()
	v.renderer.SetLattice(lattice)

	lo, hi := v.session.Terrain.Heights.Bounds()
	v.camera.FitToBounds(mgl32.Vec3(lo), mgl32.Vec3{hi[0], 1, hi[2]})
}

func (v *Viewer) render() {
	_, indices := v.session.Sim.Geometry()
	v.renderer.UpdateWater(indices)
	w, h := v.renderer.Size()
	v.renderer.Draw(v.camera.ViewProjection(w, h))
}

// Close releases the window and GPU resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
