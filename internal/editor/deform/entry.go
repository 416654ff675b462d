// Package deform applies drag displacements to mesh vertex buffers, either
// rigidly to the selected vertices or with a proportional falloff around the
// drag pivot.
package deform

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/editor/space"
	"github.com/Faultbox/meshsculpt/internal/engine/scene"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// MeshEntry adapts a scene mesh node to the registry. It owns the node's
// selection and, while a drag is active, a snapshot of its position buffer.
type MeshEntry struct {
	id       string
	node     *scene.Node
	settings *proportional.Settings

	selection []int

	// Drag state, valid between BeginMove and EndMove.
	snapshot   []float32
	selected   []bool
	params     registry.MoveParams
	pivotLocal math.Vec3

	log *zap.Logger
}

var (
	_ registry.Entry = (*MeshEntry)(nil)
	_ registry.Mover = (*MeshEntry)(nil)
)

// NewMeshEntry wraps node. When settings is non-nil the proportional radius is
// read from it on every move, so scrolling mid-drag takes effect at once; the
// enabled flag and falloff stay as captured by BeginMove.
func NewMeshEntry(id string, node *scene.Node, settings *proportional.Settings) *MeshEntry {
	return &MeshEntry{
		id:       id,
		node:     node,
		settings: settings,
		log:      logger.Named("deform").With(zap.String("mesh", id)),
	}
}

// ID implements registry.Entry.
func (e *MeshEntry) ID() string { return e.id }

// Node returns the wrapped scene node.
func (e *MeshEntry) Node() *scene.Node { return e.node }

// WorldMatrix implements registry.Entry.
func (e *MeshEntry) WorldMatrix() math.Mat4 { return e.node.WorldMatrix() }

// VertexCount implements registry.Entry. Meshes without a position attribute
// report zero vertices and so can never be selected.
func (e *MeshEntry) VertexCount() int {
	if !e.node.Mesh.HasPositions() {
		return 0
	}
	return e.node.Mesh.VertexCount()
}

// Position implements registry.Entry.
func (e *MeshEntry) Position(i int) math.Vec3 { return e.node.Mesh.Position(i) }

// Selection implements registry.Entry.
func (e *MeshEntry) Selection() []int { return e.selection }

// SetSelection implements registry.Entry. The stored set is sorted, unique
// and within the vertex range.
func (e *MeshEntry) SetSelection(indices []int) {
	n := e.VertexCount()
	sel := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < n {
			sel = append(sel, i)
		}
	}
	slices.Sort(sel)
	e.selection = slices.Compact(sel)
	if e.snapshot != nil {
		e.selected = e.selectionMask()
	}
}

// Moving reports whether a drag snapshot is held.
func (e *MeshEntry) Moving() bool {
	return e.snapshot != nil
}

// BeginMove implements registry.Mover. It snapshots the position buffer and
// records the pivot in local space.
func (e *MeshEntry) BeginMove(p registry.MoveParams) {
	if e.VertexCount() == 0 {
		return
	}
	e.params = p
	e.snapshot = slices.Clone(e.node.Mesh.Positions)
	e.selected = e.selectionMask()
	e.pivotLocal = space.WorldPointToLocal(e.node.WorldMatrix(), p.PivotWorld)

	e.log.Debug("begin move",
		zap.Int("selected", len(e.selection)),
		zap.Bool("proportional", p.Proportional),
		zap.Stringer("falloff", p.Falloff))
}

// EndMove implements registry.Mover. Derived geometry is rebuilt once more
// and the snapshot released.
func (e *MeshEntry) EndMove() {
	if e.snapshot == nil {
		return
	}
	e.node.Mesh.RecomputeDerived()
	e.snapshot = nil
	e.selected = nil
	e.log.Debug("end move")
}

// MoveSelected implements registry.Entry. delta is measured from the drag
// start, so repeated calls with the same delta are idempotent.
func (e *MeshEntry) MoveSelected(delta math.Vec3) {
	if e.VertexCount() == 0 {
		return
	}
	if e.snapshot == nil {
		// No BeginMove for this mesh. Without a selection there is no
		// pivot to measure a falloff from, so there is nothing to move.
		if len(e.selection) == 0 {
			return
		}
		e.BeginMove(e.implicitParams())
	}
	if len(e.selection) == 0 && !e.params.Proportional {
		return
	}

	world := e.node.WorldMatrix()
	local := space.WorldDeltaToLocal(world, delta)
	positions := e.node.Mesh.Positions

	if e.params.Proportional {
		radius := space.RadiusToLocal(world, e.radiusWorld())
		Proportional(positions, e.snapshot, e.selected, e.pivotLocal, local, radius, e.params.Falloff)
	} else {
		Rigid(positions, e.snapshot, e.selection, local)
	}

	e.node.Mesh.MarkDirty()
	e.node.Mesh.RecomputeDerived()
}

// radiusWorld is the live radius when settings are attached, otherwise the
// one captured at BeginMove.
func (e *MeshEntry) radiusWorld() float32 {
	if e.settings != nil {
		return e.settings.Radius()
	}
	return e.params.RadiusWorld
}

// implicitParams builds move parameters for a drag this entry was not told
// about: the pivot is its own selection centroid and the proportional state
// comes from the live settings.
func (e *MeshEntry) implicitParams() registry.MoveParams {
	var centroid math.Vec3
	for _, i := range e.selection {
		centroid = centroid.Add(e.Position(i))
	}
	centroid = centroid.Scale(1 / float32(len(e.selection)))

	p := registry.MoveParams{
		PivotWorld: e.node.WorldMatrix().TransformVec3(centroid),
	}
	if e.settings != nil {
		p.Proportional = e.settings.Enabled
		p.Falloff = e.settings.Falloff
		p.RadiusWorld = e.settings.Radius()
	}
	e.log.Warn("move without begin, snapshotting on the fly")
	return p
}

func (e *MeshEntry) selectionMask() []bool {
	mask := make([]bool, e.VertexCount())
	for _, i := range e.selection {
		mask[i] = true
	}
	return mask
}
