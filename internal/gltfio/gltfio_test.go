package gltfio

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshsculpt/internal/editor/export"
	"github.com/Faultbox/meshsculpt/internal/engine/mesh"
	"github.com/Faultbox/meshsculpt/internal/engine/scene"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

func quadNode(name string) *scene.Node {
	return scene.NewMeshNode(name, mesh.New([]float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}, []uint32{0, 1, 2, 0, 2, 3}))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".glb", ".gltf"} {
		t.Run(ext, func(t *testing.T) {
			n := quadNode("quad")
			n.Position = math.Vec3{X: 2}
			path := filepath.Join(t.TempDir(), "out"+ext)

			require.NoError(t, Save(path, export.Bake(n)))

			root, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "out", root.Name)

			meshes := root.Meshes()
			require.Len(t, meshes, 1)
			got := meshes[0]
			assert.Equal(t, "quad", got.Name)
			assert.Equal(t, []float32{2, 0, 0, 3, 0, 0, 3, 1, 0, 2, 1, 0}, got.Mesh.Positions)
			assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, got.Mesh.Indices)
			assert.Equal(t, math.Vec3{}, got.Position)
			assert.Len(t, got.Mesh.Normals, 12)
		})
	}
}

func TestDocumentRoundTripSkinned(t *testing.T) {
	root := scene.NewNode("root")
	hip := scene.NewNode("hip")
	hip.Position = math.Vec3{Y: 1}
	body := quadNode("body")
	body.Position = math.Vec3{Z: 3}
	body.Mesh.Joints = [][4]uint16{{0}, {0}, {0}, {0}}
	body.Mesh.Weights = [][4]float32{{1}, {1}, {1}, {1}}
	body.Skin = &scene.Skin{
		Name:        "rig",
		Joints:      []*scene.Node{hip},
		InverseBind: []math.Mat4{math.Translate(0, -1, 0)},
	}
	root.Add(hip)
	root.Add(body)

	doc, err := ToDocument(export.Bake(root))
	require.NoError(t, err)
	require.Len(t, doc.Skins, 1)
	require.Len(t, doc.Nodes, 2)

	back, err := FromDocument(doc, "scene")
	require.NoError(t, err)

	got := back.Find("body")
	require.NotNil(t, got)
	require.NotNil(t, got.Skin)
	assert.Equal(t, body.Mesh.Positions, got.Mesh.Positions)
	assert.Equal(t, math.Vec3{Z: 3}, got.Position)
	assert.Equal(t, body.Mesh.Joints, got.Mesh.Joints)
	require.Len(t, got.Skin.Joints, 1)
	assert.Equal(t, "hip", got.Skin.Joints[0].Name)
	assert.Equal(t, math.Vec3{Y: 1}, got.Skin.Joints[0].Position)
	assert.Equal(t, math.Translate(0, -1, 0), got.Skin.InverseBind[0])
}

func TestFromDocumentHierarchy(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{
			{Mode: gltf.PrimitiveTriangles, Attributes: map[string]int{gltf.POSITION: pos}},
			{Mode: gltf.PrimitiveTriangles, Attributes: map[string]int{gltf.POSITION: pos}},
			{Mode: gltf.PrimitivePoints, Attributes: map[string]int{gltf.POSITION: pos}},
		},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Children: []int{1}, Translation: [3]float64{5, 0, 0}},
		{Mesh: gltf.Index(0), Scale: [3]float64{2, 2, 2}},
	}
	doc.Scenes[0].Nodes = []int{0}

	root, err := FromDocument(doc, "doc")
	require.NoError(t, err)

	parent := root.Find("parent")
	require.NotNil(t, parent)
	assert.Equal(t, math.Vec3{X: 5}, parent.Position)

	child := root.Find("node1")
	require.NotNil(t, child)
	assert.Nil(t, child.Mesh, "multi-primitive meshes split into children")
	assert.Len(t, child.Children(), 2)
	assert.Len(t, root.Meshes(), 2)

	world := root.Find("node1.0").WorldMatrix()
	assert.Equal(t, math.Vec3{X: 7}, world.TransformVec3(math.Vec3{X: 1}))
}

func TestFromDocumentRejectsCycle(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "a", Children: []int{1}},
		{Name: "b", Children: []int{0}},
	}

	_, err := FromDocument(doc, "cycle")
	assert.ErrorContains(t, err, "cycle")
}

func TestFromDocumentRejectsBadChild(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "a", Children: []int{4}}}

	_, err := FromDocument(doc, "bad")
	assert.ErrorContains(t, err, "out of range")
}

func TestFromDocumentWithoutPositions(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{Mode: gltf.PrimitiveTriangles, Attributes: map[string]int{}}}}}
	doc.Nodes = []*gltf.Node{{Name: "empty", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}

	_, err := FromDocument(doc, "empty")
	assert.ErrorIs(t, err, ErrNoMeshes)
}

func TestToDocumentEmpty(t *testing.T) {
	_, err := ToDocument(nil)
	assert.ErrorIs(t, err, ErrNoMeshes)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Load("model.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	err = Save(filepath.Join(t.TempDir(), "model.fbx"), export.Bake(quadNode("q")))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)
}
