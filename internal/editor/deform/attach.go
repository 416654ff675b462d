package deform

import (
	"fmt"

	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/engine/scene"
)

// Attach registers an entry for every mesh under root that has a position
// attribute. Ids are "<index>:<name>" in depth-first order, so repeated names
// stay distinct. The returned func unregisters them all.
func Attach(reg *registry.Registry, root *scene.Node, settings *proportional.Settings) (entries []*MeshEntry, detach func()) {
	var unregs []func()
	for i, n := range root.Meshes() {
		e := NewMeshEntry(fmt.Sprintf("%d:%s", i, n.Name), n, settings)
		entries = append(entries, e)
		unregs = append(unregs, reg.Register(e))
	}
	return entries, func() {
		for _, u := range unregs {
			u()
		}
	}
}
