package space

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Rect is a pixel rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// RectFromCorners builds a normalized rectangle spanning two arbitrary
// corners, so Width and Height are never negative.
func RectFromCorners(a, b math.Vec2) Rect {
	left, right := math32.Min(a.X, b.X), math32.Max(a.X, b.X)
	top, bottom := math32.Min(a.Y, b.Y), math32.Max(a.Y, b.Y)
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p math.Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// AtLeast reports whether both dimensions reach min pixels.
func (r Rect) AtLeast(min float32) bool {
	return r.Width >= min && r.Height >= min
}
