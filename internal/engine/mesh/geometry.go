// Package mesh holds editable triangle geometry: a flat vertex position buffer
// plus the derived attributes (bounds, normals) that must follow every edit.
package mesh

import (
	"slices"

	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Geometry is a mutable vertex buffer with optional index and skin attributes.
// Positions and Normals are flat xyz triples. A nil Positions slice means the
// mesh carries no position attribute and cannot be edited or exported.
type Geometry struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32

	// Skin attributes, one entry per vertex; nil for rigid meshes.
	Joints  [][4]uint16
	Weights [][4]float32

	Box    Box
	Sphere Sphere

	dirty bool
}

// New builds geometry from positions and optional triangle indices and
// computes bounds and normals.
func New(positions []float32, indices []uint32) *Geometry {
	g := &Geometry{
		Positions: positions,
		Indices:   indices,
	}
	g.RecomputeDerived()
	g.dirty = false
	return g
}

// HasPositions reports whether the geometry has a usable position attribute.
func (g *Geometry) HasPositions() bool {
	return g != nil && len(g.Positions) >= 3
}

// VertexCount returns the number of vertices in the position buffer.
func (g *Geometry) VertexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Positions) / 3
}

// Position returns vertex i in local space.
func (g *Geometry) Position(i int) math.Vec3 {
	return math.Vec3At(g.Positions, i)
}

// SetPosition overwrites vertex i. It does not mark the buffer dirty.
func (g *Geometry) SetPosition(i int, p math.Vec3) {
	math.PutVec3(g.Positions, i, p)
}

// TriangleCount returns the number of triangles described by the buffers.
func (g *Geometry) TriangleCount() int {
	if g.Indices != nil {
		return len(g.Indices) / 3
	}
	return g.VertexCount() / 3
}

// Triangle returns the vertex indices of triangle t.
func (g *Geometry) Triangle(t int) (a, b, c int) {
	if g.Indices != nil {
		return int(g.Indices[3*t]), int(g.Indices[3*t+1]), int(g.Indices[3*t+2])
	}
	return 3 * t, 3*t + 1, 3*t + 2
}

// IsSkinned reports whether per-vertex joint bindings are present.
func (g *Geometry) IsSkinned() bool {
	return len(g.Joints) > 0 && len(g.Weights) > 0
}

// MarkDirty flags the position buffer as changed since the last upload.
func (g *Geometry) MarkDirty() {
	g.dirty = true
}

// Dirty reports whether the buffer changed since the last TakeDirty.
func (g *Geometry) Dirty() bool {
	return g.dirty
}

// TakeDirty returns the dirty flag and clears it.
func (g *Geometry) TakeDirty() bool {
	d := g.dirty
	g.dirty = false
	return d
}

// Clone returns a deep copy with a clear dirty flag.
func (g *Geometry) Clone() *Geometry {
	return &Geometry{
		Positions: slices.Clone(g.Positions),
		Normals:   slices.Clone(g.Normals),
		Indices:   slices.Clone(g.Indices),
		Joints:    slices.Clone(g.Joints),
		Weights:   slices.Clone(g.Weights),
		Box:       g.Box,
		Sphere:    g.Sphere,
	}
}
