// Package main is the entry point for the interactive mesh editor.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/config"
	"github.com/Faultbox/meshsculpt/internal/gltfio"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	args := config.Args()
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshview [flags] [model.glb|model.gltf]")
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if config.WriteConfigRequested() {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config written to", config.ConfigDir())
		return
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== meshview ===")
	logger.Debug("config", zap.Any("config", cfg))

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if path, err = pickModel(); err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return
		}
		logger.Error("file dialog failed", zap.Error(err))
		os.Exit(1)
	}

	root, err := gltfio.Load(path)
	if err != nil {
		logger.Error("failed to load model", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.New(cfg, path, root)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// pickModel asks for a model file when none is given on the command line.
func pickModel() (string, error) {
	return dialog.File().
		Filter("glTF Models", "glb", "gltf").
		Filter("All Files", "*").
		Title("Open Model").
		Load()
}
