package debug

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshsculpt/internal/editor/space"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// RectOutline returns the four edges of a pixel rectangle as NDC line
// vertices, ready to draw with an identity matrix.
func RectOutline(r space.Rect, vp space.Viewport) []float32 {
	x0, y0 := vp.PixelToNDC(math.Vec2{X: r.X, Y: r.Y})
	x1, y1 := vp.PixelToNDC(math.Vec2{X: r.X + r.Width, Y: r.Y + r.Height})
	return []float32{
		x0, y0, 0, x1, y0, 0,
		x1, y0, 0, x1, y1, 0,
		x1, y1, 0, x0, y1, 0,
		x0, y1, 0, x0, y0, 0,
	}
}

// Ring returns line vertices for a circle of the given radius around center,
// lying in the plane spanned by the unit vectors u and v.
func Ring(center, u, v math.Vec3, radius float32, segments int) []float32 {
	if segments < 3 {
		segments = 3
	}
	point := func(i int) math.Vec3 {
		a := 2 * math32.Pi * float32(i) / float32(segments)
		return center.Add(u.Scale(radius * math32.Cos(a))).Add(v.Scale(radius * math32.Sin(a)))
	}
	out := make([]float32, 0, segments*6)
	prev := point(0)
	for i := 1; i <= segments; i++ {
		next := point(i)
		out = append(out, prev.X, prev.Y, prev.Z, next.X, next.Y, next.Z)
		prev = next
	}
	return out
}

// GatherPoints returns the transformed positions of the given vertex indices
// as a flat xyz buffer.
func GatherPoints(positions []float32, indices []int, model math.Mat4) []float32 {
	out := make([]float32, 0, 3*len(indices))
	for _, i := range indices {
		p := model.TransformVec3(math.Vec3At(positions, i))
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}
