package scene

import (
	"github.com/Faultbox/meshsculpt/internal/engine/mesh"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Node is a transform in the scene hierarchy. A node with a Mesh is a mesh
// object; a node with a Skin is additionally bound to a joint hierarchy.
type Node struct {
	Name string

	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	Mesh *mesh.Geometry
	Skin *Skin

	parent   *Node
	children []*Node
}

// Skin binds a mesh node to a set of joint nodes.
type Skin struct {
	Name        string
	Joints      []*Node
	InverseBind []math.Mat4
}

// NewNode returns a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// NewMeshNode returns an identity-transform node carrying geometry.
func NewMeshNode(name string, g *mesh.Geometry) *Node {
	n := NewNode(name)
	n.Mesh = g
	return n
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child nodes. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child under n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It is a no-op if child is not a direct child.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// LocalMatrix returns translation * rotation * scale.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// SetLocalMatrix replaces the node transform with the decomposition of m.
func (n *Node) SetLocalMatrix(m math.Mat4) {
	n.Position, n.Rotation, n.Scale = m.Decompose()
}

// WorldMatrix returns the product of every ancestor's local matrix with
// this node's.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Meshes returns every node under n (inclusive) that carries geometry with
// a position attribute, in depth-first order.
func (n *Node) Meshes() []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if node.Mesh.HasPositions() {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Find returns the first node under n with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// WorldBounds returns the union of all mesh bounding boxes under n in
// world space.
func (n *Node) WorldBounds() mesh.Box {
	box := mesh.EmptyBox()
	for _, m := range n.Meshes() {
		box = box.Union(m.Mesh.Box.Transform(m.WorldMatrix()))
	}
	return box
}
