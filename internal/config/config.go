// Package config handles editor configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
)

// Config holds all editor settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Light   LightConfig   `yaml:"light"`
	Editing EditingConfig `yaml:"editing"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings for the interactive viewer.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Samples    int  `yaml:"samples"` // MSAA, 0 disables
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	FOVDegrees      float32 `yaml:"fov_degrees"`
	Near            float32 `yaml:"near"`
	Far             float32 `yaml:"far"`
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
}

// LightConfig places the directional light used for shading.
type LightConfig struct {
	Azimuth   float32 `yaml:"azimuth"`   // Degrees around +Y from +Z
	Elevation float32 `yaml:"elevation"` // Degrees above the horizon
	Ambient   float32 `yaml:"ambient"`   // 0..1
}

// EditingConfig holds vertex selection and proportional editing settings.
type EditingConfig struct {
	Proportional     bool    `yaml:"proportional"`
	Radius           float32 `yaml:"radius"`             // World units
	Falloff          string  `yaml:"falloff"`            // smooth, gaussian or sharp
	RadiusScrollStep float32 `yaml:"radius_scroll_step"` // Multiplier per wheel tick
	MinRadius        float32 `yaml:"min_radius"`
	MaxRadius        float32 `yaml:"max_radius"`
	BoxMinPixels     float32 `yaml:"box_min_pixels"`
	PickRadiusPixels float32 `yaml:"pick_radius_pixels"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	Output           string `yaml:"output"`
	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // png, bmp or tiff
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
		},
		Camera: CameraConfig{
			FOVDegrees:      45,
			Near:            0.01,
			Far:             1000,
			DragSensitivity: 0.005,
			ZoomSensitivity: 0.1,
		},
		Light: LightConfig{
			Azimuth:   35,
			Elevation: 50,
			Ambient:   0.25,
		},
		Editing: EditingConfig{
			Proportional:     false,
			Radius:           1.0,
			Falloff:          proportional.Smooth.String(),
			RadiusScrollStep: 1.1,
			MinRadius:        proportional.MinRadius,
			MaxRadius:        proportional.MaxRadius,
			BoxMinPixels:     2,
			PickRadiusPixels: 12,
		},
		Export: ExportConfig{
			Output:           "edited.glb",
			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that the editing section describes a usable session.
func (c *Config) Validate() error {
	var errs []error
	if _, err := proportional.ParseFalloff(c.Editing.Falloff); err != nil {
		errs = append(errs, err)
	}
	if c.Editing.MinRadius <= 0 || c.Editing.MaxRadius < c.Editing.MinRadius {
		errs = append(errs, fmt.Errorf("radius bounds [%v, %v] are invalid", c.Editing.MinRadius, c.Editing.MaxRadius))
	}
	if c.Editing.Radius <= 0 {
		errs = append(errs, fmt.Errorf("radius must be positive, got %v", c.Editing.Radius))
	}
	if c.Editing.RadiusScrollStep <= 1 {
		errs = append(errs, fmt.Errorf("radius_scroll_step must be greater than 1, got %v", c.Editing.RadiusScrollStep))
	}
	if c.Light.Ambient < 0 || c.Light.Ambient > 1 {
		errs = append(errs, fmt.Errorf("light ambient %v is outside [0, 1]", c.Light.Ambient))
	}
	switch c.Export.ScreenshotFormat {
	case "png", "bmp", "tiff":
	default:
		errs = append(errs, fmt.Errorf("screenshot_format %q is not png, bmp or tiff", c.Export.ScreenshotFormat))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d is invalid", c.Window.Width, c.Window.Height))
	}
	if c.Window.Samples < 0 || c.Window.Samples > 16 {
		errs = append(errs, fmt.Errorf("window samples %d is outside [0, 16]", c.Window.Samples))
	}
	return errors.Join(errs...)
}

// ProportionalSettings builds the live proportional editing settings from the
// editing section. Call Validate first; an unknown falloff falls back to smooth.
func (c *Config) ProportionalSettings() *proportional.Settings {
	kind, err := proportional.ParseFalloff(c.Editing.Falloff)
	if err != nil {
		kind = proportional.Smooth
	}
	s := proportional.NewSettings(c.Editing.MinRadius, c.Editing.MaxRadius)
	s.Enabled = c.Editing.Proportional
	s.Falloff = kind
	s.SetRadius(c.Editing.Radius)
	return s
}
