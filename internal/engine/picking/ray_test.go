package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshsculpt/pkg/math"
)

func assertNear(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-3, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, 1e-3, "y of %v", got)
	assert.InDelta(t, want.Z, got.Z, 1e-3, "z of %v", got)
}

func TestScreenToRayCenter(t *testing.T) {
	eye := math.Vec3{Z: 5}
	view := math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(1, 1, 0.1, 100)

	r := ScreenToRay(50, 50, 100, 100, proj.Mul(view).Inverse())

	assertNear(t, math.Vec3{Z: -1}, r.Direction)
	assert.InDelta(t, 4.9, r.Origin.Z, 0.1, "origin lies on the near plane")
}

func TestIntersectPlane(t *testing.T) {
	r := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}

	p, ok := r.IntersectPlane(math.Vec3{X: 3, Y: 2}, math.Vec3{Z: 1})
	require.True(t, ok)
	assertNear(t, math.Vec3{}, p)

	_, ok = r.IntersectPlane(math.Vec3{Z: 10}, math.Vec3{Z: 1})
	assert.False(t, ok, "plane behind the ray")
	_, ok = r.IntersectPlane(math.Vec3{}, math.Vec3{X: 1})
	assert.False(t, ok, "parallel plane")
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: math.Vec3{X: 1, Y: 10}, Direction: math.Vec3{Y: -1}}

	p, ok := r.IntersectPlaneY(2)

	require.True(t, ok)
	assertNear(t, math.Vec3{X: 1, Y: 2}, p)
}
