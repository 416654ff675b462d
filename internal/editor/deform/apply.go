package deform

import (
	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Rigid writes snapshot+delta into positions for each selected vertex and
// leaves every other vertex alone.
func Rigid(positions, snapshot []float32, selection []int, delta math.Vec3) {
	for _, i := range selection {
		math.PutVec3(positions, i, math.Vec3At(snapshot, i).Add(delta))
	}
}

// Proportional writes snapshot+delta*w into every vertex. Selected vertices
// get w = 1; the rest are weighted by falloff over their snapshot distance to
// pivot, reaching 0 at radius.
func Proportional(positions, snapshot []float32, selected []bool, pivot, delta math.Vec3, radius float32, falloff proportional.Falloff) {
	n := len(snapshot) / 3
	for i := 0; i < n; i++ {
		p := math.Vec3At(snapshot, i)
		w := float32(1)
		if i >= len(selected) || !selected[i] {
			w = Weight(p.Distance(pivot), radius, falloff)
		}
		math.PutVec3(positions, i, p.Add(delta.Scale(w)))
	}
}

// Weight is the falloff weight of a vertex d local units from the pivot.
func Weight(d, radius float32, falloff proportional.Falloff) float32 {
	if d >= radius {
		return 0
	}
	return falloff.Weight(d / radius)
}
