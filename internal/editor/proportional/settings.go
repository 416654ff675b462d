package proportional

import "github.com/chewxy/math32"

// Radius bounds applied to interactive radius changes, in world units.
const (
	MinRadius float32 = 0.001
	MaxRadius float32 = 1000
)

// Settings are the live proportional editing parameters. Radius changes take
// effect on the next drag update; Enabled and Falloff are captured by mesh
// entries when a drag begins.
type Settings struct {
	Enabled bool
	Falloff Falloff

	radius    float32
	minRadius float32
	maxRadius float32
}

// NewSettings returns disabled smooth-falloff settings with radius 1 and the
// given clamp bounds. Non-positive bounds fall back to MinRadius/MaxRadius.
func NewSettings(minRadius, maxRadius float32) *Settings {
	if minRadius <= 0 {
		minRadius = MinRadius
	}
	if maxRadius < minRadius {
		maxRadius = MaxRadius
	}
	s := &Settings{
		Falloff:   Smooth,
		minRadius: minRadius,
		maxRadius: maxRadius,
	}
	s.SetRadius(1)
	return s
}

// Radius returns the current influence radius in world units.
func (s *Settings) Radius() float32 {
	return s.radius
}

// SetRadius sets the radius, clamped to the configured bounds.
func (s *Settings) SetRadius(r float32) {
	s.radius = math32.Max(s.minRadius, math32.Min(s.maxRadius, r))
}

// ScaleRadius multiplies the radius by step^ticks, e.g. one call per wheel
// event with ticks = wheel delta. Returns the new radius.
func (s *Settings) ScaleRadius(step, ticks float32) float32 {
	s.SetRadius(s.radius * math32.Pow(step, ticks))
	return s.radius
}

// Toggle flips proportional editing and returns the new state.
func (s *Settings) Toggle() bool {
	s.Enabled = !s.Enabled
	return s.Enabled
}

// CycleFalloff advances to the next falloff curve and returns it.
func (s *Settings) CycleFalloff() Falloff {
	s.Falloff = s.Falloff.Next()
	return s.Falloff
}
