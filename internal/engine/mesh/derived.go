package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshsculpt/pkg/math"
)

// RecomputeDerived rebuilds the bounding box, bounding sphere and vertex
// normals from the current position buffer and marks the geometry dirty.
// Run it after every position write, before the frame is rendered.
func (g *Geometry) RecomputeDerived() {
	g.ComputeBoundingBox()
	g.ComputeBoundingSphere()
	g.ComputeVertexNormals()
	g.dirty = true
}

// ComputeBoundingBox rebuilds Box from the positions.
func (g *Geometry) ComputeBoundingBox() {
	box := EmptyBox()
	for i := 0; i < g.VertexCount(); i++ {
		box.Expand(g.Position(i))
	}
	g.Box = box
}

// ComputeBoundingSphere rebuilds Sphere around the center of Box. Call
// ComputeBoundingBox first.
func (g *Geometry) ComputeBoundingSphere() {
	if g.Box.IsEmpty() {
		g.Sphere = Sphere{Radius: -1}
		return
	}
	center := g.Box.Center()
	var maxSq float32
	for i := 0; i < g.VertexCount(); i++ {
		d := g.Position(i).Sub(center)
		maxSq = math32.Max(maxSq, d.Dot(d))
	}
	g.Sphere = Sphere{Center: center, Radius: math32.Sqrt(maxSq)}
}

// ComputeVertexNormals re-derives per-vertex normals from the triangle
// winding. Indexed geometry sums the area-weighted face normals of every
// triangle touching a vertex; non-indexed geometry gets flat face normals.
// Counter-clockwise triangles face the viewer.
func (g *Geometry) ComputeVertexNormals() {
	n := g.VertexCount()
	if n == 0 {
		g.Normals = nil
		return
	}
	if len(g.Normals) != 3*n {
		g.Normals = make([]float32, 3*n)
	} else {
		clear(g.Normals)
	}

	for t := 0; t < g.TriangleCount(); t++ {
		a, b, c := g.Triangle(t)
		if a >= n || b >= n || c >= n {
			continue
		}
		pa, pb, pc := g.Position(a), g.Position(b), g.Position(c)
		face := pc.Sub(pb).Cross(pa.Sub(pb))

		for _, v := range [3]int{a, b, c} {
			math.PutVec3(g.Normals, v, math.Vec3At(g.Normals, v).Add(face))
		}
	}

	for i := 0; i < n; i++ {
		math.PutVec3(g.Normals, i, math.Vec3At(g.Normals, i).Normalize())
	}
}
