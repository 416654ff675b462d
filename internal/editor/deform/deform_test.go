package deform

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/engine/mesh"
	"github.com/Faultbox/meshsculpt/internal/engine/scene"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

const tol = 1e-5

func tetraNode() *scene.Node {
	g := mesh.New([]float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}, []uint32{0, 2, 1, 0, 1, 3, 0, 3, 2, 1, 2, 3})
	return scene.NewMeshNode("tetra", g)
}

// lineNode places vertices on the X axis at 0, 0.5, 1 and 2.
func lineNode() *scene.Node {
	return scene.NewMeshNode("line", mesh.New([]float32{
		0, 0, 0,
		0.5, 0, 0,
		1, 0, 0,
		2, 0, 0,
	}, nil))
}

func assertVec(t *testing.T, want, got math.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, tol, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, tol, msgAndArgs...)
}

func TestMoveSingleVertexEndToEnd(t *testing.T) {
	node := tetraNode()
	e := NewMeshEntry("tetra", node, nil)
	e.SetSelection([]int{0})

	e.BeginMove(registry.MoveParams{RadiusWorld: 1})
	e.MoveSelected(math.Vec3{X: 1})
	e.EndMove()

	g := node.Mesh
	assertVec(t, math.Vec3{X: 1}, g.Position(0))
	assertVec(t, math.Vec3{X: 1}, g.Position(1))
	assertVec(t, math.Vec3{Y: 1}, g.Position(2))
	assertVec(t, math.Vec3{Z: 1}, g.Position(3))
}

func TestRigidMoveLeavesUnselectedAlone(t *testing.T) {
	node := tetraNode()
	node.Rotation = math.QuatFromAxisAngle(math.Vec3{Z: 1}, 0.6)
	node.Scale = math.Vec3{X: 2, Y: 1, Z: 0.5}
	node.Position = math.Vec3{X: 3, Y: -2}
	before := slices.Clone(node.Mesh.Positions)

	e := NewMeshEntry("tetra", node, nil)
	e.SetSelection([]int{1, 3})
	e.BeginMove(registry.MoveParams{RadiusWorld: 10})

	delta := math.Vec3{X: 0.4, Y: -1.2, Z: 2}
	e.MoveSelected(delta)

	local := node.WorldMatrix().Mat3().Inverse(1e-8).MulVec3(delta)
	for i := 0; i < 4; i++ {
		snap := math.Vec3At(before, i)
		if i == 1 || i == 3 {
			assertVec(t, snap.Add(local), node.Mesh.Position(i), "selected %d", i)
		} else {
			assert.Equal(t, snap, node.Mesh.Position(i), "unselected %d", i)
		}
	}

	// The moved vertex lands exactly delta away in world space.
	world := node.WorldMatrix()
	moved := world.TransformVec3(node.Mesh.Position(1))
	assertVec(t, world.TransformVec3(math.Vec3At(before, 1)).Add(delta), moved)
}

func TestMoveIsMeasuredFromSnapshot(t *testing.T) {
	node := tetraNode()
	e := NewMeshEntry("tetra", node, nil)
	e.SetSelection([]int{2})
	e.BeginMove(registry.MoveParams{})

	e.MoveSelected(math.Vec3{Z: 1})
	e.MoveSelected(math.Vec3{Z: 1})
	assertVec(t, math.Vec3{Y: 1, Z: 1}, node.Mesh.Position(2))

	e.MoveSelected(math.Vec3{Z: 0.25})
	assertVec(t, math.Vec3{Y: 1, Z: 0.25}, node.Mesh.Position(2))
}

func TestUniformScaleConvertsDelta(t *testing.T) {
	node := lineNode()
	node.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	e := NewMeshEntry("line", node, nil)
	e.SetSelection([]int{0})
	e.BeginMove(registry.MoveParams{})

	e.MoveSelected(math.Vec3{Y: 2})

	assertVec(t, math.Vec3{Y: 1}, node.Mesh.Position(0))
}

func TestEmptySelectionIsNoOp(t *testing.T) {
	node := tetraNode()
	before := slices.Clone(node.Mesh.Positions)
	node.Mesh.TakeDirty()

	e := NewMeshEntry("tetra", node, nil)
	e.MoveSelected(math.Vec3{X: 5})

	assert.Equal(t, before, node.Mesh.Positions)
	assert.False(t, node.Mesh.Dirty())
	assert.False(t, e.Moving(), "no snapshot without a session")
}

func TestEmptySelectionDuringRigidSessionIsNoOp(t *testing.T) {
	node := tetraNode()
	e := NewMeshEntry("tetra", node, nil)
	e.SetSelection([]int{0})
	e.BeginMove(registry.MoveParams{})
	node.Mesh.TakeDirty()

	e.SetSelection(nil)
	e.MoveSelected(math.Vec3{X: 5})

	assert.False(t, node.Mesh.Dirty())
	assertVec(t, math.Vec3{}, node.Mesh.Position(0))
}

func TestMissingSnapshotIsCreatedOnTheFly(t *testing.T) {
	node := tetraNode()
	e := NewMeshEntry("tetra", node, nil)
	e.SetSelection([]int{3})

	e.MoveSelected(math.Vec3{X: 1})
	require.True(t, e.Moving())
	e.MoveSelected(math.Vec3{X: 2})
	assertVec(t, math.Vec3{X: 2, Z: 1}, node.Mesh.Position(3))

	e.EndMove()
	assert.False(t, e.Moving())
}

func TestProportionalWeights(t *testing.T) {
	node := lineNode()
	e := NewMeshEntry("line", node, nil)
	e.SetSelection([]int{0})
	e.BeginMove(registry.MoveParams{
		PivotWorld:   math.Vec3{},
		Proportional: true,
		RadiusWorld:  1,
		Falloff:      proportional.Smooth,
	})

	e.MoveSelected(math.Vec3{Y: 1})

	g := node.Mesh
	assert.InDelta(t, 1, g.Position(0).Y, tol, "selected")
	assert.InDelta(t, 0.5, g.Position(1).Y, tol, "half radius")
	assert.InDelta(t, 0, g.Position(2).Y, tol, "on the radius")
	assert.InDelta(t, 0, g.Position(3).Y, tol, "outside")
}

func TestProportionalZeroRadiusMatchesRigid(t *testing.T) {
	rigid := tetraNode()
	soft := tetraNode()
	delta := math.Vec3{X: 0.3, Y: 0.7, Z: -0.2}

	for _, tc := range []struct {
		node   *scene.Node
		params registry.MoveParams
	}{
		{rigid, registry.MoveParams{}},
		{soft, registry.MoveParams{Proportional: true, RadiusWorld: 0, Falloff: proportional.Sharp}},
	} {
		e := NewMeshEntry("m", tc.node, nil)
		e.SetSelection([]int{1})
		e.BeginMove(tc.params)
		e.MoveSelected(delta)
		e.EndMove()
	}

	assert.Equal(t, rigid.Mesh.Positions, soft.Mesh.Positions)
}

func TestProportionalRadiusIsLive(t *testing.T) {
	settings := proportional.NewSettings(proportional.MinRadius, proportional.MaxRadius)
	settings.Enabled = true
	settings.SetRadius(1)

	node := lineNode()
	e := NewMeshEntry("line", node, settings)
	e.SetSelection([]int{0})
	e.BeginMove(registry.MoveParams{Proportional: true, RadiusWorld: 1, Falloff: proportional.Smooth})

	e.MoveSelected(math.Vec3{Y: 1})
	assert.InDelta(t, 0, node.Mesh.Position(2).Y, tol)

	settings.SetRadius(4)
	e.MoveSelected(math.Vec3{Y: 1})
	assert.InDelta(t, 0.84375, node.Mesh.Position(2).Y, tol)
	assert.InDelta(t, 0.5, node.Mesh.Position(3).Y, tol)
}

func TestProportionalFlagCapturedAtBegin(t *testing.T) {
	settings := proportional.NewSettings(0, 0)
	settings.Enabled = true

	node := lineNode()
	e := NewMeshEntry("line", node, settings)
	e.SetSelection([]int{0})
	e.BeginMove(registry.MoveParams{Proportional: true, RadiusWorld: 1, Falloff: proportional.Smooth})

	// Switching modes mid-drag has no effect until the next drag.
	settings.Enabled = false
	settings.Falloff = proportional.Sharp
	e.MoveSelected(math.Vec3{Y: 1})

	assert.InDelta(t, 0.5, node.Mesh.Position(1).Y, tol)
}

func TestProportionalRadiusScalesWithWorld(t *testing.T) {
	node := lineNode()
	node.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	e := NewMeshEntry("line", node, nil)
	e.SetSelection([]int{0})
	// A world radius of 2 is one local unit under scale 2.
	e.BeginMove(registry.MoveParams{Proportional: true, RadiusWorld: 2, Falloff: proportional.Smooth})

	e.MoveSelected(math.Vec3{Y: 2})

	assert.InDelta(t, 1, node.Mesh.Position(0).Y, tol)
	assert.InDelta(t, 0.5, node.Mesh.Position(1).Y, tol)
	assert.InDelta(t, 0, node.Mesh.Position(2).Y, tol)
}

func TestProportionalPivotInLocalSpace(t *testing.T) {
	node := lineNode()
	node.Position = math.Vec3{X: 10}
	e := NewMeshEntry("line", node, nil)
	e.SetSelection([]int{3})
	e.BeginMove(registry.MoveParams{
		PivotWorld:   math.Vec3{X: 12},
		Proportional: true,
		RadiusWorld:  1.5,
		Falloff:      proportional.Sharp,
	})

	e.MoveSelected(math.Vec3{Z: 1})

	// Vertex 2 is one unit from the local pivot (2,0,0).
	want := Weight(1, 1.5, proportional.Sharp)
	assert.InDelta(t, want, node.Mesh.Position(2).Z, tol)
	assert.InDelta(t, 0, node.Mesh.Position(0).Z, tol)
}

func TestProportionalPivotWithCollapsedAxis(t *testing.T) {
	node := lineNode()
	node.Position = math.Vec3{X: 5}
	node.Scale = math.Vec3{X: 1, Y: 1, Z: 0}
	e := NewMeshEntry("line", node, nil)
	e.SetSelection([]int{3})
	// Average scale is 2/3, so a world radius of 1 is 1.5 local units.
	e.BeginMove(registry.MoveParams{
		PivotWorld:   math.Vec3{X: 7},
		Proportional: true,
		RadiusWorld:  1,
		Falloff:      proportional.Sharp,
	})

	e.MoveSelected(math.Vec3{Y: 1})

	g := node.Mesh
	assert.InDelta(t, 1, g.Position(3).Y, tol)
	want := Weight(1, 1.5, proportional.Sharp)
	require.Greater(t, want, float32(0))
	assert.InDelta(t, want, g.Position(2).Y, tol, "weight measured from the local pivot (2,0,0)")
	assert.InDelta(t, 0, g.Position(1).Y, tol)
	assert.InDelta(t, 0, g.Position(0).Y, tol)
}

func TestMoveRecomputesDerived(t *testing.T) {
	node := tetraNode()
	e := NewMeshEntry("tetra", node, nil)
	e.SetSelection([]int{3})
	e.BeginMove(registry.MoveParams{})
	node.Mesh.TakeDirty()

	e.MoveSelected(math.Vec3{Z: 4})

	assert.True(t, node.Mesh.Dirty())
	assert.InDelta(t, 5, node.Mesh.Box.Max.Z, tol)
	assert.Greater(t, node.Mesh.Sphere.Radius, float32(2))
}

func TestEndMoveFinalizesNormals(t *testing.T) {
	node := tetraNode()
	e := NewMeshEntry("tetra", node, nil)
	e.SetSelection([]int{3})
	e.BeginMove(registry.MoveParams{})
	e.MoveSelected(math.Vec3{Z: 1})

	// Corrupt the normals as if a frame had been skipped.
	clear(node.Mesh.Normals)
	e.EndMove()

	want := slices.Clone(node.Mesh.Normals)
	node.Mesh.ComputeVertexNormals()
	assert.Equal(t, want, node.Mesh.Normals)
	assert.NotEqual(t, math.Vec3{}, math.Vec3At(node.Mesh.Normals, 0))
	assert.False(t, e.Moving())
}

func TestSetSelectionNormalizes(t *testing.T) {
	e := NewMeshEntry("tetra", tetraNode(), nil)

	e.SetSelection([]int{3, 1, 3, -1, 9, 1})

	assert.Equal(t, []int{1, 3}, e.Selection())
}

func TestMeshWithoutPositionsIsExcluded(t *testing.T) {
	node := scene.NewMeshNode("empty", mesh.New(nil, nil))
	e := NewMeshEntry("empty", node, nil)

	e.SetSelection([]int{0, 1})
	assert.Empty(t, e.Selection())
	assert.Equal(t, 0, e.VertexCount())

	e.BeginMove(registry.MoveParams{Proportional: true, RadiusWorld: 1})
	assert.False(t, e.Moving())
	e.MoveSelected(math.Vec3{X: 1})
	assert.Nil(t, node.Mesh.Positions)
}

func TestWeight(t *testing.T) {
	assert.Equal(t, float32(1), Weight(0, 1, proportional.Gaussian))
	assert.Equal(t, float32(0), Weight(1, 1, proportional.Gaussian))
	assert.Equal(t, float32(0), Weight(5, 1, proportional.Smooth))
	assert.Equal(t, float32(0), Weight(0, 0, proportional.Smooth))
	assert.InDelta(t, 0.0625, Weight(1, 2, proportional.Sharp), tol)
}

func TestAttach(t *testing.T) {
	root := scene.NewNode("root")
	root.Add(tetraNode())
	root.Add(scene.NewMeshNode("empty", mesh.New(nil, nil)))
	group := scene.NewNode("group")
	group.Add(lineNode())
	root.Add(group)

	reg := registry.New()
	entries, detach := Attach(reg, root, nil)

	require.Len(t, entries, 2)
	assert.Equal(t, "0:tetra", entries[0].ID())
	assert.Equal(t, "1:line", entries[1].ID())
	assert.Equal(t, 2, reg.Len())

	detach()
	assert.Equal(t, 0, reg.Len())
}
