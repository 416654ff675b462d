// Package proportional holds the soft-selection falloff curves and the live
// proportional editing settings shared by the drag controller and mesh entries.
package proportional

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// ErrUnknownFalloff is returned when parsing an unrecognized falloff name.
var ErrUnknownFalloff = errors.New("unknown falloff")

// Falloff selects the weight curve applied to unselected vertices.
type Falloff int

const (
	Smooth Falloff = iota
	Gaussian
	Sharp

	numFalloffs
)

// gaussianK controls how quickly the gaussian curve decays.
const gaussianK = 3

var falloffNames = [numFalloffs]string{
	Smooth:   "smooth",
	Gaussian: "gaussian",
	Sharp:    "sharp",
}

// Falloffs lists every falloff kind in cycling order.
func Falloffs() []Falloff {
	return []Falloff{Smooth, Gaussian, Sharp}
}

// ParseFalloff converts a case-insensitive name to a Falloff.
func ParseFalloff(name string) (Falloff, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range falloffNames {
		if n == name {
			return Falloff(i), nil
		}
	}
	return Smooth, fmt.Errorf("%w: %q", ErrUnknownFalloff, name)
}

// String returns the config name of the falloff.
func (f Falloff) String() string {
	if f < 0 || f >= numFalloffs {
		return fmt.Sprintf("Falloff(%d)", int(f))
	}
	return falloffNames[f]
}

// Next returns the following falloff, wrapping around.
func (f Falloff) Next() Falloff {
	return (f + 1) % numFalloffs
}

// Weight maps a normalized distance t (distance / radius) to a blend factor.
// Every curve returns 1 at t=0, 0 at t=1 and never increases in between.
// t is clamped to [0, 1].
func (f Falloff) Weight(t float32) float32 {
	if t <= 0 {
		return 1
	}
	if t >= 1 {
		return 0
	}

	switch f {
	case Gaussian:
		tail := math32.Exp(-gaussianK)
		return (math32.Exp(-gaussianK*t*t) - tail) / (1 - tail)
	case Sharp:
		u := 1 - t
		u2 := u * u
		return u2 * u2
	default:
		// smoothstep of (1 - t)
		u := 1 - t
		return u * u * (3 - 2*u)
	}
}
