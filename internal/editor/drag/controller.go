// Package drag runs a vertex drag session: it fixes a pivot at the selection
// centroid, measures how far the pivot has travelled and fans that delta out
// to every registered mesh.
package drag

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Session is the state of an active drag.
type Session struct {
	// StartPivot is the selection centroid when the drag began.
	StartPivot math.Vec3
	// Pivot is the most recent pivot position.
	Pivot math.Vec3
	// Params is what entries received in BeginMove.
	Params registry.MoveParams
}

// Delta returns the world-space displacement since the drag began.
func (s Session) Delta() math.Vec3 {
	return s.Pivot.Sub(s.StartPivot)
}

// Controller owns at most one drag session at a time.
type Controller struct {
	reg      *registry.Registry
	settings *proportional.Settings
	session  *Session
	log      *zap.Logger
}

// New returns a controller over reg. settings supplies the proportional
// flag, falloff and radius sampled at the start of each drag.
func New(reg *registry.Registry, settings *proportional.Settings) *Controller {
	return &Controller{
		reg:      reg,
		settings: settings,
		log:      logger.Named("drag"),
	}
}

// Centroid returns the world-space mean of every selected vertex across all
// entries, and how many vertices contributed.
func Centroid(reg *registry.Registry) (math.Vec3, int) {
	var sum math.Vec3
	n := 0
	for _, e := range reg.Entries() {
		sel := e.Selection()
		if len(sel) == 0 {
			continue
		}
		world := e.WorldMatrix()
		for _, i := range sel {
			if i < 0 || i >= e.VertexCount() {
				continue
			}
			sum = sum.Add(world.TransformVec3(e.Position(i)))
			n++
		}
	}
	if n == 0 {
		return math.Vec3{}, 0
	}
	return sum.Scale(1 / float32(n)), n
}

// Begin starts a session at the selection centroid. It returns false, and
// starts nothing, when no vertex is selected or a session is already active.
func (c *Controller) Begin() bool {
	if c.session != nil {
		return false
	}
	pivot, n := Centroid(c.reg)
	if n == 0 {
		return false
	}

	params := registry.MoveParams{
		PivotWorld:   pivot,
		Proportional: c.settings.Enabled,
		RadiusWorld:  c.settings.Radius(),
		Falloff:      c.settings.Falloff,
	}
	c.session = &Session{StartPivot: pivot, Pivot: pivot, Params: params}

	for _, e := range c.reg.Entries() {
		if len(e.Selection()) == 0 {
			continue
		}
		if m, ok := e.(registry.Mover); ok {
			m.BeginMove(params)
		}
	}

	c.log.Debug("begin",
		zap.Int("vertices", n),
		zap.Bool("proportional", params.Proportional),
		zap.Stringer("falloff", params.Falloff),
		zap.Float32("radius", params.RadiusWorld))
	return true
}

// Update moves the pivot and applies the displacement from the drag start to
// every entry. Entries read their own selection at call time.
func (c *Controller) Update(pivot math.Vec3) {
	if c.session == nil {
		return
	}
	c.session.Pivot = pivot
	delta := c.session.Delta()
	for _, e := range c.reg.Entries() {
		e.MoveSelected(delta)
	}
}

// Translate offsets the current pivot by d and applies the result.
func (c *Controller) Translate(d math.Vec3) {
	if c.session == nil {
		return
	}
	c.Update(c.session.Pivot.Add(d))
}

// End finalizes every entry and discards the session.
func (c *Controller) End() {
	if c.session == nil {
		return
	}
	for _, e := range c.reg.Entries() {
		if m, ok := e.(registry.Mover); ok {
			m.EndMove()
		}
	}
	c.log.Debug("end", zap.Stringer("delta", c.session.Delta()))
	c.session = nil
}

// Active reports whether a session is in progress.
func (c *Controller) Active() bool {
	return c.session != nil
}

// Session returns a copy of the active session.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}
