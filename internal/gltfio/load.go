// Package gltfio reads glTF 2.0 assets into the scene graph and writes baked
// meshes back out as .glb or .gltf.
package gltfio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/engine/mesh"
	"github.com/Faultbox/meshsculpt/internal/engine/scene"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

var (
	// ErrNoMeshes means the asset has no mesh with a position attribute.
	ErrNoMeshes = errors.New("gltfio: no editable meshes")
	// ErrUnsupportedFormat means the file extension is neither .glb nor .gltf.
	ErrUnsupportedFormat = errors.New("gltfio: unsupported file extension")
)

// Load reads a .glb or .gltf file and returns its default scene under a root
// node named after the file.
func Load(path string) (*scene.Node, error) {
	if err := checkExt(path); err != nil {
		return nil, err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	root, err := FromDocument(doc, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Info("loaded model",
		zap.String("path", path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(root.Meshes())))
	return root, nil
}

func checkExt(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// FromDocument converts a decoded glTF document into a scene hierarchy.
func FromDocument(doc *gltf.Document, name string) (*scene.Node, error) {
	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n, err := convertNode(doc, i, gn)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}

	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			if nodes[c].Parent() != nil {
				return nil, fmt.Errorf("node %d: child %d already has a parent", i, c)
			}
			if isAncestor(nodes[c], nodes[i]) {
				return nil, fmt.Errorf("node %d: cycle through child %d", i, c)
			}
			nodes[i].Add(nodes[c])
		}
	}

	for i, gn := range doc.Nodes {
		if gn.Skin == nil {
			continue
		}
		skin, err := convertSkin(doc, *gn.Skin, nodes)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		nodes[i].Skin = skin
		for _, c := range nodes[i].Children() {
			if c.Mesh != nil && c.Skin == nil {
				c.Skin = skin
			}
		}
	}

	root := scene.NewNode(name)
	for _, idx := range sceneRoots(doc, nodes) {
		if idx < 0 || idx >= len(nodes) {
			return nil, fmt.Errorf("scene root %d out of range", idx)
		}
		root.Add(nodes[idx])
	}
	if len(root.Meshes()) == 0 {
		return nil, ErrNoMeshes
	}
	return root, nil
}

// isAncestor reports whether a is n or one of n's ancestors.
func isAncestor(a, n *scene.Node) bool {
	for p := n; p != nil; p = p.Parent() {
		if p == a {
			return true
		}
	}
	return false
}

// sceneRoots returns the root node indices of the default scene, or every
// parentless node when the document declares no scenes.
func sceneRoots(doc *gltf.Document, nodes []*scene.Node) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}
	var roots []int
	for i, n := range nodes {
		if n.Parent() == nil {
			roots = append(roots, i)
		}
	}
	return roots
}

func convertNode(doc *gltf.Document, i int, gn *gltf.Node) (*scene.Node, error) {
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node%d", i)
	}
	n := scene.NewNode(name)
	setTransform(n, gn)

	if gn.Mesh == nil {
		return n, nil
	}
	mi := *gn.Mesh
	if mi < 0 || mi >= len(doc.Meshes) {
		return nil, fmt.Errorf("node %d: mesh index %d out of range", i, mi)
	}
	gm := doc.Meshes[mi]

	var geoms []*mesh.Geometry
	for pi, p := range gm.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			logger.Warn("skipping non-triangle primitive",
				zap.String("node", name),
				zap.Int("primitive", pi))
			continue
		}
		g, err := readPrimitive(doc, p)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
		}
		geoms = append(geoms, g)
	}

	switch len(geoms) {
	case 0:
	case 1:
		n.Mesh = geoms[0]
	default:
		// One editable child per primitive so each keeps its own buffers.
		for pi, g := range geoms {
			n.Add(scene.NewMeshNode(fmt.Sprintf("%s.%d", name, pi), g))
		}
	}
	return n, nil
}

func setTransform(n *scene.Node, gn *gltf.Node) {
	if m := gn.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var mm math.Mat4
		for i, v := range m {
			mm[i] = float32(v)
		}
		n.SetLocalMatrix(mm)
		return
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()
	n.Position = math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}
	n.Rotation = math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}.Normalize()
	n.Scale = math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

// readPrimitive decodes one triangle primitive. A primitive without POSITION
// yields geometry with no position buffer.
func readPrimitive(doc *gltf.Document, p *gltf.Primitive) (*mesh.Geometry, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return mesh.New(nil, nil), nil
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	pos, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var indices []uint32
	if p.Indices != nil {
		acr, err := accessor(doc, *p.Indices)
		if err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	}

	g := mesh.New(flatten(pos), indices)

	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
		if len(normals) == len(pos) {
			g.Normals = flatten(normals)
		}
	}

	ji, hasJoints := p.Attributes[gltf.JOINTS_0]
	wi, hasWeights := p.Attributes[gltf.WEIGHTS_0]
	if hasJoints && hasWeights {
		jacr, err := accessor(doc, ji)
		if err != nil {
			return nil, err
		}
		wacr, err := accessor(doc, wi)
		if err != nil {
			return nil, err
		}
		if g.Joints, err = modeler.ReadJoints(doc, jacr, nil); err != nil {
			return nil, fmt.Errorf("read joints: %w", err)
		}
		if g.Weights, err = modeler.ReadWeights(doc, wacr, nil); err != nil {
			return nil, fmt.Errorf("read weights: %w", err)
		}
	}
	return g, nil
}

func convertSkin(doc *gltf.Document, si int, nodes []*scene.Node) (*scene.Skin, error) {
	if si < 0 || si >= len(doc.Skins) {
		return nil, fmt.Errorf("skin index %d out of range", si)
	}
	gs := doc.Skins[si]
	skin := &scene.Skin{Name: gs.Name}
	for _, j := range gs.Joints {
		if j < 0 || j >= len(nodes) {
			return nil, fmt.Errorf("skin %d: joint %d out of range", si, j)
		}
		skin.Joints = append(skin.Joints, nodes[j])
	}

	if gs.InverseBindMatrices == nil {
		skin.InverseBind = make([]math.Mat4, len(skin.Joints))
		for i := range skin.InverseBind {
			skin.InverseBind[i] = math.Identity()
		}
		return skin, nil
	}
	acr, err := accessor(doc, *gs.InverseBindMatrices)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("skin %d: read inverse bind matrices: %w", si, err)
	}
	mats, ok := data.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("skin %d: inverse bind matrices have type %T", si, data)
	}
	for _, m := range mats {
		skin.InverseBind = append(skin.InverseBind, fromColumns(m))
	}
	return skin, nil
}

func flatten(v [][3]float32) []float32 {
	out := make([]float32, 0, 3*len(v))
	for _, p := range v {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

func unflatten(buf []float32) [][3]float32 {
	out := make([][3]float32, len(buf)/3)
	for i := range out {
		out[i] = [3]float32{buf[3*i], buf[3*i+1], buf[3*i+2]}
	}
	return out
}

// fromColumns converts a column-major accessor matrix.
func fromColumns(m [4][4]float32) math.Mat4 {
	var out math.Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[c][r]
		}
	}
	return out
}

func toColumns(m math.Mat4) [4][4]float32 {
	var out [4][4]float32
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c][r] = m[c*4+r]
		}
	}
	return out
}
