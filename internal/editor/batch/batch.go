// Package batch runs editing operations without a window: scene summaries and
// scripted select-and-move passes over a loaded scene.
package batch

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/meshsculpt/internal/editor/deform"
	"github.com/Faultbox/meshsculpt/internal/editor/drag"
	"github.com/Faultbox/meshsculpt/internal/editor/picker"
	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/editor/space"
	"github.com/Faultbox/meshsculpt/internal/engine/camera"
	"github.com/Faultbox/meshsculpt/internal/engine/mesh"
	"github.com/Faultbox/meshsculpt/internal/engine/scene"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

var (
	// ErrNothingSelected is returned when a move selects no vertex.
	ErrNothingSelected = errors.New("no vertex selected")
	// ErrNoSuchMesh is returned when a mesh filter matches nothing.
	ErrNoSuchMesh = errors.New("no mesh matches")
)

// MeshInfo summarizes one editable mesh.
type MeshInfo struct {
	ID        string
	Name      string
	Vertices  int
	Triangles int
	Skinned   bool
	Bounds    mesh.Box // world space

	// Edge length statistics in local units, over triangle edges.
	EdgeMean   float64
	EdgeStdDev float64
}

// Describe lists every mesh under root in registration order.
func Describe(root *scene.Node) []MeshInfo {
	var out []MeshInfo
	for i, n := range root.Meshes() {
		g := n.Mesh
		info := MeshInfo{
			ID:        fmt.Sprintf("%d:%s", i, n.Name),
			Name:      n.Name,
			Vertices:  g.VertexCount(),
			Triangles: g.TriangleCount(),
			Skinned:   n.Skin != nil || g.IsSkinned(),
			Bounds:    g.Box.Transform(n.WorldMatrix()),
		}
		if lengths := edgeLengths(g); len(lengths) > 0 {
			info.EdgeMean, info.EdgeStdDev = stat.MeanStdDev(lengths, nil)
		}
		out = append(out, info)
	}
	return out
}

func edgeLengths(g *mesh.Geometry) []float64 {
	n := g.VertexCount()
	var out []float64
	for t := 0; t < g.TriangleCount(); t++ {
		a, b, c := g.Triangle(t)
		if a >= n || b >= n || c >= n {
			continue
		}
		pa, pb, pc := g.Position(a), g.Position(b), g.Position(c)
		out = append(out,
			float64(pa.Distance(pb)),
			float64(pb.Distance(pc)),
			float64(pc.Distance(pa)))
	}
	return out
}

// MoveOptions describe one scripted move.
type MoveOptions struct {
	// Mesh restricts selection to meshes with this node name. Empty means all.
	Mesh string

	// Indices selects vertices by index in every matched mesh.
	Indices []int
	// Box selects vertices projecting into this pixel rectangle, seen from a
	// camera fitted to the scene bounds. Used when Indices is empty.
	Box      *space.Rect
	Viewport space.Viewport

	Delta math.Vec3

	Proportional bool
	Radius       float32
	Falloff      proportional.Falloff
}

// Report is the outcome of Move.
type Report struct {
	Selected int
	Moved    int // vertices whose position changed
	Pivot    math.Vec3
}

// Move selects vertices under root, drags them by opts.Delta through a drag
// session and finalizes the edit. Geometry is changed in place.
func Move(root *scene.Node, opts MoveOptions) (Report, error) {
	log := logger.Named("batch")

	reg := registry.New()
	defer reg.Close()
	settings := proportional.NewSettings(0, 0)
	settings.Enabled = opts.Proportional
	settings.Falloff = opts.Falloff
	if opts.Radius > 0 {
		settings.SetRadius(opts.Radius)
	}

	entries, detach := deform.Attach(reg, root, settings)
	defer detach()

	var matched []*deform.MeshEntry
	for _, e := range entries {
		if opts.Mesh == "" || e.Node().Name == opts.Mesh {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return Report{}, fmt.Errorf("%w %q", ErrNoSuchMesh, opts.Mesh)
	}

	if err := selectVertices(root, matched, opts); err != nil {
		return Report{}, err
	}

	before := make(map[*deform.MeshEntry][]float32, len(entries))
	for _, e := range entries {
		before[e] = slices.Clone(e.Node().Mesh.Positions)
	}

	ctrl := drag.New(reg, settings)
	if !ctrl.Begin() {
		return Report{}, ErrNothingSelected
	}
	sess, _ := ctrl.Session()
	ctrl.Translate(opts.Delta)
	ctrl.End()

	rep := Report{Selected: reg.SelectedCount(), Pivot: sess.StartPivot}
	for _, e := range entries {
		rep.Moved += changed(before[e], e.Node().Mesh.Positions)
	}
	log.Info("move applied",
		zap.Int("selected", rep.Selected),
		zap.Int("moved", rep.Moved),
		zap.Stringer("delta", opts.Delta),
		zap.Bool("proportional", opts.Proportional))
	return rep, nil
}

func selectVertices(root *scene.Node, entries []*deform.MeshEntry, opts MoveOptions) error {
	if len(opts.Indices) > 0 {
		for _, e := range entries {
			e.SetSelection(opts.Indices)
		}
		return nil
	}
	if opts.Box == nil {
		return ErrNothingSelected
	}
	vp := opts.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("box selection needs a viewport, got %gx%g", vp.Width, vp.Height)
	}
	cam := FitCamera(root, vp)
	for _, e := range entries {
		e.SetSelection(picker.SelectInRect(e, cam, vp, *opts.Box))
	}
	return nil
}

// FitCamera returns the default orbit camera framing root in vp.
func FitCamera(root *scene.Node, vp space.Viewport) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	cam.SetViewport(int(vp.Width), int(vp.Height))
	b := root.WorldBounds()
	if b.IsEmpty() {
		return cam
	}
	cam.FitToBounds(b.Min, b.Max)
	return cam
}

func changed(a, b []float32) int {
	n := 0
	for i := 0; i+2 < len(a) && i+2 < len(b); i += 3 {
		if a[i] != b[i] || a[i+1] != b[i+1] || a[i+2] != b[i+2] {
			n++
		}
	}
	return n
}
