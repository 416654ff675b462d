// Package viewer runs the interactive mesh editing window.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/config"
	"github.com/Faultbox/meshsculpt/internal/editor/deform"
	"github.com/Faultbox/meshsculpt/internal/editor/export"
	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/editor/tool"
	"github.com/Faultbox/meshsculpt/internal/engine/camera"
	"github.com/Faultbox/meshsculpt/internal/engine/debug"
	"github.com/Faultbox/meshsculpt/internal/engine/input"
	"github.com/Faultbox/meshsculpt/internal/engine/lighting"
	"github.com/Faultbox/meshsculpt/internal/engine/renderer"
	"github.com/Faultbox/meshsculpt/internal/engine/scene"
	"github.com/Faultbox/meshsculpt/internal/engine/window"
	"github.com/Faultbox/meshsculpt/internal/gltfio"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

var (
	meshColor       = [3]float32{0.72, 0.74, 0.78}
	pointColor      = [4]float32{0.1, 0.1, 0.1, 0.9}
	selectedColor   = [4]float32{1, 0.55, 0.1, 1}
	boundsColor     = [4]float32{0.3, 0.6, 1, 0.6}
	boxColor        = [4]float32{1, 1, 1, 0.9}
	ringColor       = [4]float32{1, 0.85, 0.2, 0.8}
	pivotColor      = [4]float32{1, 0.2, 0.2, 1}
	backgroundColor = [3]float32{0.18, 0.19, 0.22}
)

const ringSegments = 64

// Viewer owns the window, the GL renderer and the editing session of one
// scene.
type Viewer struct {
	cfg   *config.Config
	path  string
	root  *scene.Node
	title string

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	reg      *registry.Registry
	settings *proportional.Settings
	entries  []*deform.MeshEntry
	detach   func()
	camera   *camera.OrbitCamera
	tool     *tool.Tool
	shots    *debug.ScreenshotCapture

	light      renderer.Light
	showPoints bool
	running    bool
	log        *zap.Logger
}

// New opens a window for root, loaded from path.
func New(cfg *config.Config, path string, root *scene.Node) (*Viewer, error) {
	v := &Viewer{
		cfg:      cfg,
		path:     path,
		root:     root,
		title:    "meshview - " + filepath.Base(path),
		input:    input.New(),
		reg:      registry.New(),
		settings: cfg.ProportionalSettings(),
		light: renderer.Light{
			Direction: lighting.Incident(cfg.Light.Azimuth, cfg.Light.Elevation),
			Ambient:   cfg.Light.Ambient,
		},
		showPoints: true,
		log:        logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.String("model", path),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      v.title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		Background: backgroundColor,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.entries, v.detach = deform.Attach(v.reg, root, v.settings)

	v.camera = camera.NewOrbitCamera()
	v.camera.FovY = cfg.Camera.FOVDegrees * math32.Pi / 180
	v.camera.Near = cfg.Camera.Near
	v.camera.Far = cfg.Camera.Far
	v.camera.DragSensitivity = cfg.Camera.DragSensitivity
	v.camera.ZoomSensitivity = cfg.Camera.ZoomSensitivity
	v.resetView()

	ww, wh := v.window.Size()
	v.tool = tool.New(v.reg, v.settings, v.camera, tool.Options{
		PickRadiusPixels: cfg.Editing.PickRadiusPixels,
		BoxMinPixels:     cfg.Editing.BoxMinPixels,
		RadiusScrollStep: cfg.Editing.RadiusScrollStep,
	}, ww, wh)

	v.shots = debug.NewScreenshotCapture(cfg.Export.ScreenshotDir, "meshview", cfg.Export.ScreenshotFormat)

	v.log.Info("viewer initialized", zap.Int("meshes", len(v.entries)))
	return v, nil
}

// Run starts the frame loop: input, tool update, render.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	lastStatus := ""

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		v.input.Reset()
		if window.PollEvents(v.input) {
			v.running = false
			break
		}
		for _, e := range v.input.Events() {
			if e.Type == input.EventWindowResize {
				v.renderer.Resize(v.window.DrawableSize())
			}
		}

		// 2. Selection, drag and deformation
		actions := v.tool.Process(v.input.Events())
		if err := v.handle(actions); err != nil {
			v.log.Error("action failed", zap.Error(err))
		}

		// 3. Render
		v.render()
		if actions.Screenshot {
			v.screenshot()
		}

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		if s := v.status(); s != lastStatus {
			v.window.SetTitle(v.title + "  " + s)
			lastStatus = s
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.tool != nil && v.tool.Drag().Active() {
		v.tool.Drag().End()
	}
	if v.detach != nil {
		v.detach()
	}
	v.reg.Close()
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handle(a tool.Actions) error {
	if a.Quit {
		v.running = false
	}
	if a.ResetView {
		v.resetView()
	}
	if a.TogglePoints {
		v.showPoints = !v.showPoints
	}
	if a.Export {
		return v.export()
	}
	return nil
}

// export bakes the scene as it stands and writes it to the configured path.
func (v *Viewer) export() error {
	if v.tool.Drag().Active() {
		v.log.Warn("export ignored while dragging")
		return nil
	}
	out := v.cfg.Export.Output
	baked := export.Bake(v.root)
	if err := gltfio.Save(out, baked); err != nil {
		return fmt.Errorf("export %s: %w", out, err)
	}
	v.log.Info("exported", zap.String("path", out), zap.Int("meshes", len(baked)))
	return nil
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) resetView() {
	b := v.root.WorldBounds()
	if b.IsEmpty() {
		v.camera.FitToBounds(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
		return
	}
	v.camera.FitToBounds(b.Min, b.Max)
}

func (v *Viewer) status() string {
	s := "proportional off"
	if v.settings.Enabled {
		s = fmt.Sprintf("proportional %s r=%.3g", v.settings.Falloff, v.settings.Radius())
	}
	if n := v.reg.SelectedCount(); n > 0 {
		s += fmt.Sprintf("  selected %d", n)
	}
	return s
}
