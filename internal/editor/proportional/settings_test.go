package proportional

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings(MinRadius, MaxRadius)
	assert.False(t, s.Enabled)
	assert.Equal(t, Smooth, s.Falloff)
	assert.Equal(t, float32(1), s.Radius())
}

func TestNewSettingsBadBounds(t *testing.T) {
	s := NewSettings(0, -1)
	s.SetRadius(1e9)
	assert.Equal(t, MaxRadius, s.Radius())
	s.SetRadius(0)
	assert.Equal(t, MinRadius, s.Radius())
}

func TestScaleRadius(t *testing.T) {
	s := NewSettings(MinRadius, MaxRadius)

	assert.InDelta(t, 1.21, s.ScaleRadius(1.1, 2), 1e-5)
	assert.InDelta(t, 1.1, s.ScaleRadius(1.1, -1), 1e-5)
}

func TestScaleRadiusClamps(t *testing.T) {
	s := NewSettings(MinRadius, MaxRadius)

	for i := 0; i < 500; i++ {
		s.ScaleRadius(1.1, 1)
	}
	assert.Equal(t, MaxRadius, s.Radius())

	for i := 0; i < 2000; i++ {
		s.ScaleRadius(1.1, -1)
	}
	assert.Equal(t, MinRadius, s.Radius())
}

func TestToggleAndCycle(t *testing.T) {
	s := NewSettings(MinRadius, MaxRadius)

	assert.True(t, s.Toggle())
	assert.False(t, s.Toggle())

	assert.Equal(t, Gaussian, s.CycleFalloff())
	assert.Equal(t, Sharp, s.CycleFalloff())
	assert.Equal(t, Smooth, s.CycleFalloff())
}
