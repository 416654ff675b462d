package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/editor/space"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

type testEntry struct {
	id        string
	world     math.Mat4
	positions []math.Vec3
	sel       []int
}

func newTestEntry(id string, positions ...math.Vec3) *testEntry {
	return &testEntry{id: id, world: math.Identity(), positions: positions}
}

func (e *testEntry) ID() string               { return e.id }
func (e *testEntry) Selection() []int         { return e.sel }
func (e *testEntry) SetSelection(idx []int)   { e.sel = idx }
func (e *testEntry) MoveSelected(math.Vec3)   {}
func (e *testEntry) WorldMatrix() math.Mat4   { return e.world }
func (e *testEntry) VertexCount() int         { return len(e.positions) }
func (e *testEntry) Position(i int) math.Vec3 { return e.positions[i] }

// flatProjector treats world X/Y as NDC directly and rejects points with
// positive Z as behind the camera.
type flatProjector struct{}

func (flatProjector) Project(p math.Vec3) (math.Vec3, bool) {
	return p, p.Z <= 0
}

var vp100 = space.Viewport{Width: 100, Height: 100}

func px(x, y float32) math.Vec2 { return math.Vec2{X: x, Y: y} }

func TestClickSingleReplaces(t *testing.T) {
	e := newTestEntry("m")
	e.sel = []int{1, 2, 3}

	Click(e, 7, false)

	assert.Equal(t, []int{7}, e.sel)
}

func TestClickMultiToggles(t *testing.T) {
	e := newTestEntry("m")
	e.sel = []int{1, 2, 3}

	Click(e, 2, true)
	assert.ElementsMatch(t, []int{1, 3}, e.sel)

	Click(e, 5, true)
	assert.ElementsMatch(t, []int{1, 3, 5}, e.sel)
}

func TestClickMultiDoesNotAliasPrior(t *testing.T) {
	prior := []int{1, 2, 3}
	e := newTestEntry("m")
	e.sel = prior

	Click(e, 1, true)

	assert.Equal(t, []int{1, 2, 3}, prior)
}

func TestClickAtMissClears(t *testing.T) {
	reg := registry.New()
	a := newTestEntry("a")
	a.sel = []int{0}
	reg.Register(a)

	ClickAt(reg, Hit{}, false, true)
	assert.Equal(t, []int{0}, a.sel, "multi miss keeps selection")

	ClickAt(reg, Hit{}, false, false)
	assert.Empty(t, a.sel)
}

func TestClickAtSingleClearsOtherEntries(t *testing.T) {
	reg := registry.New()
	a := newTestEntry("a", math.Vec3{})
	b := newTestEntry("b", math.Vec3{})
	a.sel = []int{0}
	reg.Register(a)
	reg.Register(b)

	ClickAt(reg, Hit{Entry: b, Index: 0}, true, false)

	assert.Empty(t, a.sel)
	assert.Equal(t, []int{0}, b.sel)
}

func TestNearest(t *testing.T) {
	reg := registry.New()
	// Pixel positions: (50,50), (75,50), (50,25).
	e := newTestEntry("m",
		math.Vec3{},
		math.Vec3{X: 0.5},
		math.Vec3{Y: 0.5},
	)
	reg.Register(e)

	hit, ok := Nearest(reg, flatProjector{}, vp100, px(72, 52), 10)
	require.True(t, ok)
	assert.Equal(t, 1, hit.Index)
	assert.Same(t, registry.Entry(e), hit.Entry)

	_, ok = Nearest(reg, flatProjector{}, vp100, px(0, 100), 10)
	assert.False(t, ok)
}

func TestNearestPrefersCloserDepth(t *testing.T) {
	reg := registry.New()
	e := newTestEntry("m",
		math.Vec3{Z: -0.2},
		math.Vec3{Z: -0.8},
	)
	reg.Register(e)

	hit, ok := Nearest(reg, flatProjector{}, vp100, px(50, 50), 5)
	require.True(t, ok)
	assert.Equal(t, 1, hit.Index)
}

func TestNearestSkipsBehindCamera(t *testing.T) {
	reg := registry.New()
	reg.Register(newTestEntry("m", math.Vec3{Z: 1}))

	_, ok := Nearest(reg, flatProjector{}, vp100, px(50, 50), 5)
	assert.False(t, ok)
}

func TestBoxSelectReplacesSelection(t *testing.T) {
	reg := registry.New()
	e := newTestEntry("m",
		math.Vec3{X: -0.5, Y: 0.5},  // (25,25)
		math.Vec3{X: 0.5, Y: 0.5},   // (75,25)
		math.Vec3{X: -0.5, Y: -0.5}, // (25,75)
	)
	e.sel = []int{2}
	reg.Register(e)

	box := NewBoxSelector(DefaultBoxMinPixels)
	box.Begin(px(90, 10), vp100)
	box.Move(px(10, 40))
	require.True(t, box.Active())
	assert.Equal(t, space.Rect{X: 10, Y: 10, Width: 80, Height: 30}, box.Rect())

	require.True(t, box.End(reg, flatProjector{}))
	assert.Equal(t, []int{0, 1}, e.sel)
	assert.False(t, box.Active())
}

func TestBoxSelectEdgesInclusive(t *testing.T) {
	reg := registry.New()
	e := newTestEntry("m", math.Vec3{X: -0.5, Y: 0.5}) // (25,25)
	reg.Register(e)

	box := NewBoxSelector(2)
	box.Begin(px(25, 25), vp100)
	box.Move(px(30, 30))
	box.End(reg, flatProjector{})

	assert.Equal(t, []int{0}, e.sel)
}

func TestBoxSelectFullViewport(t *testing.T) {
	reg := registry.New()
	visible := newTestEntry("a",
		math.Vec3{X: -1, Y: 1},
		math.Vec3{X: 1, Y: -1},
		math.Vec3{X: 0.3, Y: 0.1, Z: -0.5},
		math.Vec3{Z: 2}, // behind the camera
	)
	other := newTestEntry("b", math.Vec3{})
	other.world = math.Translate(5, 0, 0) // off screen
	other.sel = []int{0}
	reg.Register(visible)
	reg.Register(other)

	box := NewBoxSelector(2)
	box.Begin(px(0, 0), vp100)
	box.Move(px(100, 100))
	require.True(t, box.End(reg, flatProjector{}))

	assert.Equal(t, []int{0, 1, 2}, visible.sel)
	assert.Empty(t, other.sel, "box select replaces rather than merges")
}

func TestBoxSelectBelowThresholdKeepsSelection(t *testing.T) {
	tests := []struct {
		name string
		end  math.Vec2
	}{
		{"click", px(50, 50)},
		{"thin", px(51.5, 90)},
		{"short", px(90, 51)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New()
			e := newTestEntry("m", math.Vec3{}, math.Vec3{X: 0.5})
			e.sel = []int{1}
			reg.Register(e)

			box := NewBoxSelector(2)
			box.Begin(px(50, 50), vp100)
			box.Move(tt.end)

			assert.False(t, box.End(reg, flatProjector{}))
			assert.Equal(t, []int{1}, e.sel)
		})
	}
}

func TestBoxSelectUsesViewportFromBegin(t *testing.T) {
	reg := registry.New()
	e := newTestEntry("m", math.Vec3{}) // (50,50) in the original viewport
	reg.Register(e)

	box := NewBoxSelector(2)
	box.Begin(px(40, 40), vp100)
	box.Move(px(60, 60))
	// A resize mid-drag does not reach the selector; the captured 100x100
	// viewport still maps the vertex to (50,50).
	require.True(t, box.End(reg, flatProjector{}))

	assert.Equal(t, []int{0}, e.sel)
}

func TestBoxSelectCancel(t *testing.T) {
	reg := registry.New()
	e := newTestEntry("m", math.Vec3{})
	e.sel = []int{0}
	reg.Register(e)

	box := NewBoxSelector(2)
	box.Begin(px(0, 0), vp100)
	box.Move(px(10, 10))
	box.Cancel()

	assert.False(t, box.End(reg, flatProjector{}))
	assert.Equal(t, []int{0}, e.sel)
}

func TestNewBoxSelectorDefault(t *testing.T) {
	assert.Equal(t, float32(DefaultBoxMinPixels), NewBoxSelector(0).MinPixels)
}
