package gltfio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/editor/export"
	"github.com/Faultbox/meshsculpt/internal/engine/scene"
	"github.com/Faultbox/meshsculpt/internal/logger"
)

// Save writes baked meshes to path. A .glb extension produces a binary
// container; .gltf embeds the buffer as a data URI.
func Save(path string, meshes []export.BakedMesh) error {
	if err := checkExt(path); err != nil {
		return err
	}
	doc, err := ToDocument(meshes)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	logger.Info("exported model", zap.String("path", path), zap.Int("meshes", len(meshes)))
	return nil
}

// ToDocument builds a glTF document with one root node per baked mesh. Joint
// nodes of skinned meshes are written as additional roots carrying their
// world transform, which keeps joint*inverseBind unchanged.
func ToDocument(meshes []export.BakedMesh) (*gltf.Document, error) {
	if len(meshes) == 0 {
		return nil, ErrNoMeshes
	}
	doc := gltf.NewDocument()
	doc.Asset.Generator = "meshsculpt"

	joints := make(map[*scene.Node]int)
	for _, b := range meshes {
		if len(b.Positions) < 3 {
			continue
		}
		prim := &gltf.Primitive{
			Mode: gltf.PrimitiveTriangles,
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, unflatten(b.Positions)),
			},
		}
		if len(b.Normals) == len(b.Positions) {
			prim.Attributes[gltf.NORMAL] = modeler.WriteNormal(doc, unflatten(b.Normals))
		}
		if len(b.Indices) > 0 {
			prim.Indices = gltf.Index(modeler.WriteIndices(doc, b.Indices))
		}
		if b.Skinned && len(b.Joints) > 0 && len(b.Weights) > 0 {
			prim.Attributes[gltf.JOINTS_0] = modeler.WriteJoints(doc, b.Joints)
			prim.Attributes[gltf.WEIGHTS_0] = modeler.WriteWeights(doc, b.Weights)
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       b.Name,
			Primitives: []*gltf.Primitive{prim},
		})
		node := &gltf.Node{
			Name:        b.Name,
			Mesh:        gltf.Index(len(doc.Meshes) - 1),
			Translation: [3]float64{float64(b.Translation.X), float64(b.Translation.Y), float64(b.Translation.Z)},
			Rotation:    [4]float64{float64(b.Rotation.X), float64(b.Rotation.Y), float64(b.Rotation.Z), float64(b.Rotation.W)},
			Scale:       [3]float64{float64(b.Scale.X), float64(b.Scale.Y), float64(b.Scale.Z)},
		}
		if b.Skinned && b.Skin != nil {
			node.Skin = gltf.Index(writeSkin(doc, b.Skin, joints))
		}
		addRoot(doc, node)
	}
	if len(doc.Meshes) == 0 {
		return nil, ErrNoMeshes
	}
	return doc, nil
}

func addRoot(doc *gltf.Document, n *gltf.Node) int {
	doc.Nodes = append(doc.Nodes, n)
	idx := len(doc.Nodes) - 1
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, idx)
	return idx
}

func writeSkin(doc *gltf.Document, s *scene.Skin, joints map[*scene.Node]int) int {
	gs := &gltf.Skin{Name: s.Name}
	for _, j := range s.Joints {
		idx, ok := joints[j]
		if !ok {
			t, r, sc := j.WorldMatrix().Decompose()
			idx = addRoot(doc, &gltf.Node{
				Name:        j.Name,
				Translation: [3]float64{float64(t.X), float64(t.Y), float64(t.Z)},
				Rotation:    [4]float64{float64(r.X), float64(r.Y), float64(r.Z), float64(r.W)},
				Scale:       [3]float64{float64(sc.X), float64(sc.Y), float64(sc.Z)},
			})
			joints[j] = idx
		}
		gs.Joints = append(gs.Joints, idx)
	}
	if len(s.InverseBind) == len(s.Joints) && len(s.Joints) > 0 {
		mats := make([][4][4]float32, len(s.InverseBind))
		for i, m := range s.InverseBind {
			mats[i] = toColumns(m)
		}
		gs.InverseBindMatrices = gltf.Index(modeler.WriteAccessor(doc, gltf.TargetNone, mats))
	}
	doc.Skins = append(doc.Skins, gs)
	return len(doc.Skins) - 1
}
