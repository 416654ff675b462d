package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed     = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen   = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth        = flag.Int("width", 0, "Window width")
	flagHeight       = flag.Int("height", 0, "Window height")
	flagOutput       = flag.String("out", "", "Export path for baked geometry")
	flagProportional = flag.Bool("proportional", false, "Start with proportional editing enabled")
	flagFalloff      = flag.String("falloff", "", "Proportional falloff: smooth, gaussian or sharp")
	flagRadius       = flag.Float64("radius", 0, "Proportional editing radius in world units")
	flagWriteConfig  = flag.Bool("write-config", false, "Write the effective config to the user config dir and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigRequested reports whether --write-config was given.
func WriteConfigRequested() bool {
	return *flagWriteConfig
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagOutput != "" {
		cfg.Export.Output = *flagOutput
	}
	if *flagProportional {
		cfg.Editing.Proportional = true
	}
	if *flagFalloff != "" {
		cfg.Editing.Falloff = *flagFalloff
	}
	if *flagRadius > 0 {
		cfg.Editing.Radius = float32(*flagRadius)
	}
}
