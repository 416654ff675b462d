package picker

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/editor/registry"
	"github.com/Faultbox/meshsculpt/internal/editor/space"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// DefaultBoxMinPixels is the smallest rectangle, in both dimensions, that
// counts as a box selection.
const DefaultBoxMinPixels = 2

// BoxSelector tracks a rectangular drag in screen pixels.
type BoxSelector struct {
	// MinPixels rejects rectangles narrower or shorter than this on release.
	MinPixels float32

	active   bool
	anchor   math.Vec2
	current  math.Vec2
	viewport space.Viewport
}

// NewBoxSelector returns a selector with the given size threshold.
func NewBoxSelector(minPixels float32) *BoxSelector {
	if minPixels <= 0 {
		minPixels = DefaultBoxMinPixels
	}
	return &BoxSelector{MinPixels: minPixels}
}

// Begin anchors the rectangle at the pointer. The viewport is captured here
// and used for the whole drag even if the window resizes.
func (b *BoxSelector) Begin(pointer math.Vec2, vp space.Viewport) {
	b.active = true
	b.anchor = pointer
	b.current = pointer
	b.viewport = vp
}

// Move grows the rectangle to the pointer.
func (b *BoxSelector) Move(pointer math.Vec2) {
	if b.active {
		b.current = pointer
	}
}

// Active reports whether a box drag is in progress.
func (b *BoxSelector) Active() bool {
	return b.active
}

// Rect returns the normalized rectangle spanned so far.
func (b *BoxSelector) Rect() space.Rect {
	return space.RectFromCorners(b.anchor, b.current)
}

// Cancel abandons the drag without touching any selection.
func (b *BoxSelector) Cancel() {
	b.active = false
}

// End finishes the drag. If the rectangle is large enough every entry's
// selection is replaced by the vertices projecting inside it and End returns
// true; otherwise nothing changes.
func (b *BoxSelector) End(reg *registry.Registry, proj space.Projector) bool {
	if !b.active {
		return false
	}
	b.active = false

	rect := b.Rect()
	if !rect.AtLeast(b.MinPixels) {
		return false
	}

	total := 0
	for _, e := range reg.Entries() {
		sel := SelectInRect(e, proj, b.viewport, rect)
		e.SetSelection(sel)
		total += len(sel)
	}
	logger.Debug("box select",
		zap.Float32("w", rect.Width),
		zap.Float32("h", rect.Height),
		zap.Int("selected", total))
	return true
}

// SelectInRect returns the vertices of e whose projection falls inside rect.
func SelectInRect(e registry.Entry, proj space.Projector, vp space.Viewport, rect space.Rect) []int {
	world := e.WorldMatrix()
	var sel []int
	for i := 0; i < e.VertexCount(); i++ {
		px, ok := space.ProjectToPixel(proj, world, e.Position(i), vp)
		if ok && rect.Contains(px) {
			sel = append(sel, i)
		}
	}
	return sel
}
