// Package registry tracks which editable meshes exist in the current viewport
// session and exposes them to the picker and drag controller.
//
// A Registry is owned by one viewport session and is not safe for concurrent
// use; every call happens on the frame loop goroutine.
package registry

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Entry is one selectable mesh.
type Entry interface {
	// ID is stable for the lifetime of the mesh.
	ID() string

	// Selection returns the selected vertex indices in no particular order.
	Selection() []int
	// SetSelection replaces the selection. Duplicates and out-of-range
	// indices are dropped.
	SetSelection(indices []int)

	// MoveSelected displaces the selection by a world-space delta measured
	// from the drag start.
	MoveSelected(delta math.Vec3)

	// WorldMatrix is the mesh's current local-to-world transform.
	WorldMatrix() math.Mat4
	// VertexCount is the number of vertices in the position buffer.
	VertexCount() int
	// Position returns vertex i in local space.
	Position(i int) math.Vec3
}

// Mover is implemented by entries that need to prepare for and finalize a
// drag session.
type Mover interface {
	BeginMove(p MoveParams)
	EndMove()
}

// MoveParams is handed to every entry with a selection when a drag starts.
type MoveParams struct {
	PivotWorld   math.Vec3
	Proportional bool
	RadiusWorld  float32
	Falloff      proportional.Falloff
}

// Registry maps mesh ids to their entries.
type Registry struct {
	entries map[string]Entry
	log     *zap.Logger
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		log:     logger.Named("registry"),
	}
}

// Register adds e, replacing any entry with the same id. The returned func
// removes e again; it does nothing if e has since been replaced.
func (r *Registry) Register(e Entry) (unregister func()) {
	id := e.ID()
	if _, ok := r.entries[id]; ok {
		r.log.Debug("replacing entry", zap.String("id", id))
	}
	r.entries[id] = e
	r.log.Debug("registered", zap.String("id", id), zap.Int("vertices", e.VertexCount()))

	return func() {
		if cur, ok := r.entries[id]; ok && cur == e {
			delete(r.entries, id)
			r.log.Debug("unregistered", zap.String("id", id))
		}
	}
}

// Lookup returns the entry registered under id.
func (r *Registry) Lookup(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Entries returns a snapshot of the registered entries ordered by id.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// ClearAllSelections empties the selection of every entry.
func (r *Registry) ClearAllSelections() {
	for _, e := range r.entries {
		e.SetSelection(nil)
	}
}

// SelectedCount returns the total number of selected vertices.
func (r *Registry) SelectedCount() int {
	n := 0
	for _, e := range r.entries {
		n += len(e.Selection())
	}
	return n
}

// Close drops every entry. The registry is empty but usable afterwards.
func (r *Registry) Close() {
	if len(r.entries) > 0 {
		r.log.Debug("closing", zap.Int("entries", len(r.entries)))
	}
	clear(r.entries)
}
