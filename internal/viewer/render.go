package viewer

import (
	"github.com/Faultbox/meshsculpt/internal/editor/deform"
	"github.com/Faultbox/meshsculpt/internal/engine/debug"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// render draws the current frame.
func (v *Viewer) render() {
	v.renderer.Begin()

	viewProj := v.camera.ViewProjection()
	for _, e := range v.entries {
		n := e.Node()
		v.renderer.DrawMesh(n.Mesh, e.WorldMatrix(), viewProj, meshColor, v.light)
	}

	v.renderer.Overlay(func() {
		for _, e := range v.entries {
			v.drawEntryOverlay(e, viewProj)
		}
		v.drawDragOverlay(viewProj)
		v.drawBox()
	})

	v.renderer.End()
}

func (v *Viewer) drawEntryOverlay(e *deform.MeshEntry, viewProj math.Mat4) {
	sel := e.Selection()
	world := e.WorldMatrix()
	mvp := viewProj.Mul(world)
	g := e.Node().Mesh

	if len(sel) > 0 {
		v.renderer.DrawLines(debug.BBoxWireframe(g.Box, math.Identity()), mvp, boundsColor)
	}
	if !v.showPoints {
		return
	}
	v.renderer.DrawPoints(g.Positions, mvp, pointColor, 4)
	if len(sel) > 0 {
		v.renderer.DrawPoints(debug.GatherPoints(g.Positions, sel, math.Identity()), mvp, selectedColor, 7)
	}
}

// drawDragOverlay marks the pivot and, with proportional editing, the live
// influence radius facing the camera.
func (v *Viewer) drawDragOverlay(viewProj math.Mat4) {
	sess, ok := v.tool.Drag().Session()
	if !ok {
		return
	}
	p := sess.Pivot
	v.renderer.DrawPoints([]float32{p.X, p.Y, p.Z}, viewProj, pivotColor, 10)
	if !sess.Params.Proportional {
		return
	}
	fwd := v.camera.Forward()
	right := fwd.Cross(math.Vec3{Y: 1})
	if right.Length() < 1e-4 {
		right = math.Vec3{X: 1}
	}
	right = right.Normalize()
	up := right.Cross(fwd)
	v.renderer.DrawLines(debug.Ring(p, right, up, v.settings.Radius(), ringSegments), viewProj, ringColor)
}

func (v *Viewer) drawBox() {
	box := v.tool.Box()
	if !box.Active() {
		return
	}
	v.renderer.DrawLines(debug.RectOutline(box.Rect(), v.tool.Viewport()), math.Identity(), boxColor)
}
