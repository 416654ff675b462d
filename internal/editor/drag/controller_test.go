package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshsculpt/internal/editor/deform"
	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/engine/mesh"
	"github.com/Faultbox/meshsculpt/internal/engine/scene"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

const tol = 1e-5

// recorder is a registry entry that logs every call it receives.
type recorder struct {
	id     string
	pos    []math.Vec3
	world  math.Mat4
	sel    []int
	begins []registry.MoveParams
	moves  []math.Vec3
	ends   int
}

func newRecorder(id string, pos ...math.Vec3) *recorder {
	return &recorder{id: id, pos: pos, world: math.Identity()}
}

func (r *recorder) ID() string                      { return r.id }
func (r *recorder) Selection() []int                { return r.sel }
func (r *recorder) SetSelection(idx []int)          { r.sel = idx }
func (r *recorder) MoveSelected(d math.Vec3)        { r.moves = append(r.moves, d) }
func (r *recorder) WorldMatrix() math.Mat4          { return r.world }
func (r *recorder) VertexCount() int                { return len(r.pos) }
func (r *recorder) Position(i int) math.Vec3        { return r.pos[i] }
func (r *recorder) BeginMove(p registry.MoveParams) { r.begins = append(r.begins, p) }
func (r *recorder) EndMove()                        { r.ends++ }

func newController(entries ...registry.Entry) (*Controller, *proportional.Settings) {
	reg := registry.New()
	for _, e := range entries {
		reg.Register(e)
	}
	settings := proportional.NewSettings(proportional.MinRadius, proportional.MaxRadius)
	return New(reg, settings), settings
}

func TestCentroidAcrossEntries(t *testing.T) {
	a := newRecorder("a", math.Vec3{}, math.Vec3{X: 2})
	a.sel = []int{0, 1}
	b := newRecorder("b", math.Vec3{})
	b.world = math.Translate(0, 3, 0)
	b.sel = []int{0}

	reg := registry.New()
	reg.Register(a)
	reg.Register(b)

	c, n := Centroid(reg)
	assert.Equal(t, 3, n)
	assert.InDelta(t, 2.0/3.0, c.X, tol)
	assert.InDelta(t, 1, c.Y, tol)
}

func TestBeginWithoutSelectionDoesNotStart(t *testing.T) {
	a := newRecorder("a", math.Vec3{})
	ctl, _ := newController(a)

	assert.False(t, ctl.Begin())
	assert.False(t, ctl.Active())

	ctl.Update(math.Vec3{X: 1})
	ctl.End()
	assert.Empty(t, a.begins)
	assert.Empty(t, a.moves)
	assert.Zero(t, a.ends)
}

func TestBeginOnlyNotifiesSelectedEntries(t *testing.T) {
	a := newRecorder("a", math.Vec3{X: 1})
	a.sel = []int{0}
	b := newRecorder("b", math.Vec3{})
	ctl, settings := newController(a, b)
	settings.Enabled = true
	settings.Falloff = proportional.Gaussian
	settings.SetRadius(2.5)

	require.True(t, ctl.Begin())

	require.Len(t, a.begins, 1)
	assert.Equal(t, registry.MoveParams{
		PivotWorld:   math.Vec3{X: 1},
		Proportional: true,
		RadiusWorld:  2.5,
		Falloff:      proportional.Gaussian,
	}, a.begins[0])
	assert.Empty(t, b.begins)
}

func TestUpdateSendsDeltaFromStart(t *testing.T) {
	a := newRecorder("a", math.Vec3{X: 1, Y: 1})
	a.sel = []int{0}
	b := newRecorder("b", math.Vec3{})
	ctl, _ := newController(a, b)
	require.True(t, ctl.Begin())

	ctl.Update(math.Vec3{X: 2, Y: 1})
	ctl.Update(math.Vec3{X: 3, Y: 1})
	ctl.Translate(math.Vec3{Z: 1})

	want := []math.Vec3{{X: 1}, {X: 2}, {X: 2, Z: 1}}
	assert.Equal(t, want, a.moves)
	assert.Equal(t, want, b.moves, "every entry receives the delta")

	s, ok := ctl.Session()
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: 1, Y: 1}, s.StartPivot)
	assert.Equal(t, math.Vec3{X: 3, Y: 1, Z: 1}, s.Pivot)
}

func TestEndNotifiesAllAndClears(t *testing.T) {
	a := newRecorder("a", math.Vec3{})
	a.sel = []int{0}
	b := newRecorder("b", math.Vec3{})
	ctl, _ := newController(a, b)
	require.True(t, ctl.Begin())

	ctl.End()

	assert.Equal(t, 1, a.ends)
	assert.Equal(t, 1, b.ends)
	assert.False(t, ctl.Active())
	_, ok := ctl.Session()
	assert.False(t, ok)

	ctl.End()
	assert.Equal(t, 1, a.ends, "second End is a no-op")
}

func TestBeginTwiceKeepsFirstSession(t *testing.T) {
	a := newRecorder("a", math.Vec3{})
	a.sel = []int{0}
	ctl, _ := newController(a)

	require.True(t, ctl.Begin())
	assert.False(t, ctl.Begin())
	assert.Len(t, a.begins, 1)
}

func TestDragDeformsMeshes(t *testing.T) {
	node := scene.NewMeshNode("quad", mesh.New([]float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}, []uint32{0, 1, 2, 0, 2, 3}))
	node.Position = math.Vec3{X: 5}

	reg := registry.New()
	settings := proportional.NewSettings(0, 0)
	entries, detach := deform.Attach(reg, node, settings)
	defer detach()
	entries[0].SetSelection([]int{2, 3})

	ctl := New(reg, settings)
	require.True(t, ctl.Begin())
	s, _ := ctl.Session()
	assert.InDelta(t, 5.5, s.StartPivot.X, tol)
	assert.InDelta(t, 1, s.StartPivot.Y, tol)

	ctl.Update(s.StartPivot.Add(math.Vec3{Z: 2}))
	ctl.End()

	g := node.Mesh
	assert.Equal(t, math.Vec3{}, g.Position(0))
	assert.Equal(t, math.Vec3{X: 1}, g.Position(1))
	assert.InDelta(t, 2, g.Position(2).Z, tol)
	assert.InDelta(t, 2, g.Position(3).Z, tol)
	assert.False(t, entries[0].Moving())
}
