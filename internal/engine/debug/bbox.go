// Package debug builds line and point geometry for the editor overlays and
// captures viewport screenshots.
package debug

import (
	"github.com/Faultbox/meshsculpt/internal/engine/mesh"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// BBoxWireframe returns line vertices for the edges of box, transformed by
// model. An empty box yields nil.
func BBoxWireframe(box mesh.Box, model math.Mat4) []float32 {
	if box.IsEmpty() {
		return nil
	}
	var c [8]math.Vec3
	for i := range c {
		p := box.Min
		if i&1 != 0 {
			p.X = box.Max.X
		}
		if i&2 != 0 {
			p.Y = box.Max.Y
		}
		if i&4 != 0 {
			p.Z = box.Max.Z
		}
		c[i] = model.TransformVec3(p)
	}

	// Corner pairs differing in exactly one axis bit.
	edges := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7}, // X
		{0, 2}, {1, 3}, {4, 6}, {5, 7}, // Y
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // Z
	}
	out := make([]float32, 0, BBoxWireframeVertexCount*3)
	for _, e := range edges {
		a, b := c[e[0]], c[e[1]]
		out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}
	return out
}
