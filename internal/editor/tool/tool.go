// Package tool turns viewport input into editor actions: vertex picking, box
// selection, pivot dragging, camera control and proportional setting changes.
package tool

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/editor/drag"
	"github.com/Faultbox/meshsculpt/internal/editor/picker"
	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/editor/space"
	"github.com/Faultbox/meshsculpt/internal/engine/camera"
	"github.com/Faultbox/meshsculpt/internal/engine/input"
	"github.com/Faultbox/meshsculpt/internal/engine/picking"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Mode is what the left or right button is currently doing.
type Mode int

const (
	ModeIdle Mode = iota
	ModeBox
	ModeMove
	ModeOrbit
	ModePan
)

func (m Mode) String() string {
	switch m {
	case ModeBox:
		return "box"
	case ModeMove:
		return "move"
	case ModeOrbit:
		return "orbit"
	case ModePan:
		return "pan"
	}
	return "idle"
}

// Options tune picking and radius scrolling.
type Options struct {
	PickRadiusPixels float32
	BoxMinPixels     float32
	RadiusScrollStep float32
}

// DefaultOptions returns the values used when a config leaves them unset.
func DefaultOptions() Options {
	return Options{
		PickRadiusPixels: 12,
		BoxMinPixels:     picker.DefaultBoxMinPixels,
		RadiusScrollStep: 1.1,
	}
}

// Actions are requests the tool cannot fulfil itself and hands to the caller.
type Actions struct {
	Export       bool
	Screenshot   bool
	ResetView    bool
	TogglePoints bool
	Quit         bool
}

// Tool is the input state machine of the viewport.
type Tool struct {
	reg      *registry.Registry
	settings *proportional.Settings
	cam      *camera.OrbitCamera
	drag     *drag.Controller
	box      *picker.BoxSelector
	opts     Options
	vp       space.Viewport
	log      *zap.Logger

	mode   Mode
	last   math.Vec2
	grab   math.Vec3 // plane hit under the pointer when a move began
	normal math.Vec3 // move plane normal
}

// New wires a tool over reg. The viewport starts at width x height pixels.
func New(reg *registry.Registry, settings *proportional.Settings, cam *camera.OrbitCamera, opts Options, width, height int) *Tool {
	def := DefaultOptions()
	if opts.PickRadiusPixels <= 0 {
		opts.PickRadiusPixels = def.PickRadiusPixels
	}
	if opts.BoxMinPixels <= 0 {
		opts.BoxMinPixels = def.BoxMinPixels
	}
	if opts.RadiusScrollStep <= 1 {
		opts.RadiusScrollStep = def.RadiusScrollStep
	}
	t := &Tool{
		reg:      reg,
		settings: settings,
		cam:      cam,
		drag:     drag.New(reg, settings),
		box:      picker.NewBoxSelector(opts.BoxMinPixels),
		opts:     opts,
		log:      logger.Named("tool"),
	}
	t.Resize(width, height)
	return t
}

// Resize updates the viewport and the camera aspect ratio.
func (t *Tool) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	t.vp = space.Viewport{Width: float32(width), Height: float32(height)}
	t.cam.SetViewport(width, height)
}

// Viewport returns the current viewport.
func (t *Tool) Viewport() space.Viewport { return t.vp }

// Mode returns the current interaction mode.
func (t *Tool) Mode() Mode { return t.mode }

// Box returns the active box selector, for overlay drawing.
func (t *Tool) Box() *picker.BoxSelector { return t.box }

// Drag returns the drag controller.
func (t *Tool) Drag() *drag.Controller { return t.drag }

// Process handles a frame's events in order.
func (t *Tool) Process(events []input.Event) Actions {
	var a Actions
	for _, e := range events {
		t.Handle(e, &a)
	}
	return a
}

// Handle applies one event. Requests for the caller are recorded in a.
func (t *Tool) Handle(e input.Event, a *Actions) {
	switch e.Type {
	case input.EventQuit:
		a.Quit = true
	case input.EventWindowResize:
		t.Resize(e.Width, e.Height)
	case input.EventKeyDown:
		t.keyDown(e.Key, a)
	case input.EventKeyUp:
		switch {
		case e.Key == input.KeyCtrl && t.mode == ModeBox:
			t.endBox()
		case e.Key == input.KeyAlt && t.mode == ModeMove:
			t.endMove()
		}
	case input.EventMouseDown:
		t.mouseDown(e)
	case input.EventMouseMove:
		t.mouseMove(e)
	case input.EventMouseUp:
		t.mouseUp(e)
	case input.EventMouseWheel:
		t.wheel(e)
	}
}

func (t *Tool) keyDown(k input.Key, a *Actions) {
	switch k {
	case input.KeyP:
		on := t.settings.Toggle()
		t.log.Info("proportional editing", zap.Bool("enabled", on))
	case input.KeyF:
		f := t.settings.CycleFalloff()
		t.log.Info("falloff", zap.Stringer("kind", f))
	case input.KeyEscape:
		t.cancel()
		t.reg.ClearAllSelections()
	case input.KeyE:
		a.Export = true
	case input.KeyR:
		a.ResetView = true
	case input.KeyH:
		a.TogglePoints = true
	case input.KeyF12:
		a.Screenshot = true
	}
}

func (t *Tool) mouseDown(e input.Event) {
	p := math.Vec2{X: e.X, Y: e.Y}
	t.last = p
	if t.mode != ModeIdle {
		return
	}
	switch e.Button {
	case input.ButtonLeft:
		switch {
		case e.Mods.Has(input.ModCtrl):
			t.box.Begin(p, t.vp)
			t.mode = ModeBox
		case e.Mods.Has(input.ModAlt):
			t.beginMove(p)
		default:
			hit, ok := picker.Nearest(t.reg, t.cam, t.vp, p, t.opts.PickRadiusPixels)
			picker.ClickAt(t.reg, hit, ok, e.Mods.Has(input.ModShift))
		}
	case input.ButtonRight:
		t.mode = ModeOrbit
	case input.ButtonMiddle:
		t.mode = ModePan
	}
}

func (t *Tool) mouseMove(e input.Event) {
	p := math.Vec2{X: e.X, Y: e.Y}
	d := p.Sub(t.last)
	t.last = p
	switch t.mode {
	case ModeBox:
		t.box.Move(p)
	case ModeMove:
		if hit, ok := t.planeHit(p); ok {
			sess, _ := t.drag.Session()
			t.drag.Update(sess.StartPivot.Add(hit.Sub(t.grab)))
		}
	case ModeOrbit:
		t.cam.HandleDrag(d.X, d.Y)
	case ModePan:
		t.cam.HandlePan(d.X, d.Y)
	}
}

func (t *Tool) mouseUp(e input.Event) {
	t.last = math.Vec2{X: e.X, Y: e.Y}
	switch {
	case t.mode == ModeBox && e.Button == input.ButtonLeft:
		t.box.Move(t.last)
		t.endBox()
	case t.mode == ModeMove && e.Button == input.ButtonLeft:
		t.endMove()
	case t.mode == ModeOrbit && e.Button == input.ButtonRight,
		t.mode == ModePan && e.Button == input.ButtonMiddle:
		t.mode = ModeIdle
	}
}

func (t *Tool) wheel(e input.Event) {
	if e.WheelY == 0 {
		return
	}
	if e.Mods.Has(input.ModAlt) {
		r := t.settings.ScaleRadius(t.opts.RadiusScrollStep, e.WheelY)
		t.log.Debug("radius", zap.Float32("world", r))
		return
	}
	t.cam.HandleZoom(e.WheelY)
}

// beginMove starts a drag session and fixes the move plane through the
// selection centroid, facing the camera.
func (t *Tool) beginMove(p math.Vec2) {
	if !t.drag.Begin() {
		return
	}
	sess, _ := t.drag.Session()
	t.normal = t.cam.Forward()
	hit, ok := t.rayAt(p).IntersectPlane(sess.StartPivot, t.normal)
	if !ok {
		t.drag.End()
		return
	}
	t.grab = hit
	t.mode = ModeMove
}

func (t *Tool) planeHit(p math.Vec2) (math.Vec3, bool) {
	sess, ok := t.drag.Session()
	if !ok {
		return math.Vec3{}, false
	}
	return t.rayAt(p).IntersectPlane(sess.StartPivot, t.normal)
}

func (t *Tool) rayAt(p math.Vec2) picking.Ray {
	inv := t.cam.ViewProjection().Inverse()
	return picking.ScreenToRay(p.X-t.vp.X, p.Y-t.vp.Y, t.vp.Width, t.vp.Height, inv)
}

func (t *Tool) endMove() {
	t.drag.End()
	t.mode = ModeIdle
}

func (t *Tool) endBox() {
	t.box.End(t.reg, t.cam)
	t.mode = ModeIdle
}

// cancel abandons any box and finalizes any move in progress.
func (t *Tool) cancel() {
	switch t.mode {
	case ModeBox:
		t.box.Cancel()
	case ModeMove:
		t.drag.End()
	}
	t.mode = ModeIdle
}
