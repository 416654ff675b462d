package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name               string
		azimuth, elevation float32
		x, y, z            float32
	}{
		{"horizon front", 0, 0, 0, 0, 1},
		{"horizon right", 90, 0, 1, 0, 0},
		{"zenith", 30, 90, 0, 1, 0},
		{"behind", 180, 0, 0, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := SunDirection(tt.azimuth, tt.elevation)
			assert.InDelta(t, tt.x, d.X, 1e-6)
			assert.InDelta(t, tt.y, d.Y, 1e-6)
			assert.InDelta(t, tt.z, d.Z, 1e-6)
			assert.InDelta(t, 1, d.Length(), 1e-6)
		})
	}
}

func TestIncident(t *testing.T) {
	d := Incident(0, 90)
	assert.InDelta(t, -1, d.Y, 1e-6)
}
