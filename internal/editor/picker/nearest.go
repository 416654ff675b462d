package picker

import (
	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/editor/space"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Hit is a vertex found under the pointer.
type Hit struct {
	Entry registry.Entry
	Index int
	// Pixels is the screen distance from the pointer to the vertex.
	Pixels float32
	// Depth is the NDC depth of the vertex; smaller is closer.
	Depth float32
}

// Nearest returns the vertex whose projection lies closest to the pointer,
// within maxPixels. Among vertices at the same screen distance the one
// nearest the camera wins. Vertices behind the camera are ignored.
func Nearest(reg *registry.Registry, proj space.Projector, vp space.Viewport, pointer math.Vec2, maxPixels float32) (Hit, bool) {
	var best Hit
	found := false

	for _, e := range reg.Entries() {
		world := e.WorldMatrix()
		for i := 0; i < e.VertexCount(); i++ {
			ndc, ok := proj.Project(world.TransformVec3(e.Position(i)))
			if !ok {
				continue
			}
			d := vp.NDCToPixel(ndc).Distance(pointer)
			if d > maxPixels {
				continue
			}
			if !found || d < best.Pixels || (d == best.Pixels && ndc.Z < best.Depth) {
				best = Hit{Entry: e, Index: i, Pixels: d, Depth: ndc.Z}
				found = true
			}
		}
	}
	return best, found
}
