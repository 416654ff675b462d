// Package export decides how edited meshes are written out: rigid meshes
// have their world transform baked into the vertices, skinned meshes keep
// local vertices and carry the transform on the node.
package export

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/engine/scene"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

const normalEpsilon float32 = 1e-8

// BakedMesh is one export-ready mesh node. Buffers are copies and may be
// handed to a writer without affecting the scene.
type BakedMesh struct {
	Name string

	Positions []float32
	Normals   []float32
	Indices   []uint32
	Joints    [][4]uint16
	Weights   [][4]float32

	// Node transform. Identity for rigid meshes.
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3

	Skinned bool
	Skin    *scene.Skin
}

// Matrix returns the node transform as a matrix.
func (b *BakedMesh) Matrix() math.Mat4 {
	return math.Compose(b.Translation, b.Rotation, b.Scale)
}

// Bake walks root and returns one BakedMesh per mesh node with a position
// attribute, in depth-first order. Other nodes are skipped.
func Bake(root *scene.Node) []BakedMesh {
	var out []BakedMesh
	for _, n := range root.Meshes() {
		if isSkinned(n) {
			out = append(out, bakeSkinned(n))
		} else {
			out = append(out, bakeRigid(n))
		}
	}
	logger.Debug("baked scene",
		zap.String("root", root.Name),
		zap.Int("meshes", len(out)))
	return out
}

func isSkinned(n *scene.Node) bool {
	return n.Skin != nil || n.Mesh.IsSkinned()
}

func bakeRigid(n *scene.Node) BakedMesh {
	g := n.Mesh
	world := n.WorldMatrix()

	b := BakedMesh{
		Name:      n.Name,
		Positions: slices.Clone(g.Positions),
		Indices:   slices.Clone(g.Indices),
		Rotation:  math.QuatIdentity(),
		Scale:     math.Vec3{X: 1, Y: 1, Z: 1},
	}
	for i := 0; i < len(b.Positions)/3; i++ {
		math.PutVec3(b.Positions, i, world.TransformVec3(math.Vec3At(b.Positions, i)))
	}

	if len(g.Normals) == len(g.Positions) {
		nm := world.Mat3().NormalMatrix(normalEpsilon)
		b.Normals = slices.Clone(g.Normals)
		for i := 0; i < len(b.Normals)/3; i++ {
			math.PutVec3(b.Normals, i, nm.MulVec3(math.Vec3At(b.Normals, i)).Normalize())
		}
	}

	// A mirroring transform turns counter-clockwise faces clockwise.
	if world.Mat3().Determinant() < 0 {
		flipWinding(&b)
	}
	return b
}

func bakeSkinned(n *scene.Node) BakedMesh {
	g := n.Mesh
	t, r, s := n.WorldMatrix().Decompose()
	return BakedMesh{
		Name:        n.Name,
		Positions:   slices.Clone(g.Positions),
		Normals:     slices.Clone(g.Normals),
		Indices:     slices.Clone(g.Indices),
		Joints:      slices.Clone(g.Joints),
		Weights:     slices.Clone(g.Weights),
		Translation: t,
		Rotation:    r,
		Scale:       s,
		Skinned:     true,
		Skin:        n.Skin,
	}
}

// flipWinding swaps the second and third corner of every triangle.
func flipWinding(b *BakedMesh) {
	if b.Indices != nil {
		for t := 0; t+2 < len(b.Indices); t += 3 {
			b.Indices[t+1], b.Indices[t+2] = b.Indices[t+2], b.Indices[t+1]
		}
		return
	}
	swap := func(buf []float32, a, c int) {
		va, vc := math.Vec3At(buf, a), math.Vec3At(buf, c)
		math.PutVec3(buf, a, vc)
		math.PutVec3(buf, c, va)
	}
	for v := 0; v+2 < len(b.Positions)/3; v += 3 {
		swap(b.Positions, v+1, v+2)
		if b.Normals != nil {
			swap(b.Normals, v+1, v+2)
		}
	}
}
