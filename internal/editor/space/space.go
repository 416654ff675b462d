// Package space converts displacements and points between a mesh's local
// frame, the shared world frame and the viewport's pixel grid.
package space

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Epsilon is the relative size below which a basis axis counts as
// collapsed. Scale denominators are clamped to it as well.
const Epsilon float32 = 1e-8

const (
	// minAxisScale bounds a collapsed axis when the whole basis is zero.
	minAxisScale float32 = 1e-8
	// minDeterminant keeps the inverse finite for a skewed singular basis.
	minDeterminant float32 = 1e-30
)

// LocalInverse returns the inverse of the rotation and scale part of world.
// Thresholds are relative to the matrix's own average axis scale, so a
// uniformly tiny object inverts exactly. A collapsed axis is replaced by a
// short one perpendicular to the others: the healthy axes keep their exact
// inverse and the collapsed one maps to a large but finite factor.
func LocalInverse(world math.Mat4) math.Mat3 {
	m := world.Mat3()
	cols := [3]math.Vec3{m.Column(0), m.Column(1), m.Column(2)}
	avg := AverageWorldScale(world)
	minScale := Epsilon * avg
	if minScale <= 0 {
		minScale = minAxisScale
	}

	for i := range cols {
		if cols[i].Length() >= minScale {
			continue
		}
		n := cols[(i+1)%3].Cross(cols[(i+2)%3])
		if n.Length() == 0 {
			switch i {
			case 0:
				n.X = 1
			case 1:
				n.Y = 1
			default:
				n.Z = 1
			}
		}
		cols[i] = n.Normalize().Scale(minScale)
	}

	var fixed math.Mat3
	for i, c := range cols {
		fixed[i*3], fixed[i*3+1], fixed[i*3+2] = c.X, c.Y, c.Z
	}
	return fixed.Inverse(math32.Max(Epsilon*Epsilon*avg*avg*avg, minDeterminant))
}

// WorldDeltaToLocal converts a world-space displacement into the local frame
// of an object with the given world matrix. Only the rotation and scale part
// of the inverse participates; a direction carries no translation.
func WorldDeltaToLocal(world math.Mat4, delta math.Vec3) math.Vec3 {
	return LocalInverse(world).MulVec3(delta)
}

// WorldPointToLocal converts a world-space point into the local frame, with
// the same clamping as WorldDeltaToLocal.
func WorldPointToLocal(world math.Mat4, p math.Vec3) math.Vec3 {
	return LocalInverse(world).MulVec3(p.Sub(world.Translation()))
}

// AverageWorldScale returns the mean length of the three basis columns of
// the world matrix. It is exact only for uniform scale.
func AverageWorldScale(world math.Mat4) float32 {
	s := world.Mat3().ColumnLengths()
	return (s.X + s.Y + s.Z) / 3
}

// RadiusToLocal converts a world-space radius into the local frame using the
// average world scale.
func RadiusToLocal(world math.Mat4, radius float32) float32 {
	return radius / math32.Max(AverageWorldScale(world), Epsilon)
}

// Viewport is the pixel rectangle the scene is drawn into. Y grows downward.
type Viewport struct {
	X, Y          float32
	Width, Height float32
}

// Projector maps a world-space point into normalized device coordinates.
// ok is false when the point is behind the camera.
type Projector interface {
	Project(world math.Vec3) (ndc math.Vec3, ok bool)
}

// NDCToPixel maps normalized device coordinates into viewport pixels.
func (v Viewport) NDCToPixel(ndc math.Vec3) math.Vec2 {
	return math.Vec2{
		X: v.X + (ndc.X+1)*0.5*v.Width,
		Y: v.Y + (1-ndc.Y)*0.5*v.Height,
	}
}

// PixelToNDC is the inverse of NDCToPixel for the X and Y axes.
func (v Viewport) PixelToNDC(px math.Vec2) (x, y float32) {
	if v.Width <= 0 || v.Height <= 0 {
		return 0, 0
	}
	x = (px.X-v.X)/v.Width*2 - 1
	y = 1 - (px.Y-v.Y)/v.Height*2
	return x, y
}

// ProjectToPixel maps a local-space point through the object's world matrix
// and the projector into viewport pixels.
func ProjectToPixel(p Projector, world math.Mat4, local math.Vec3, vp Viewport) (math.Vec2, bool) {
	ndc, ok := p.Project(world.TransformVec3(local))
	if !ok {
		return math.Vec2{}, false
	}
	return vp.NDCToPixel(ndc), true
}
