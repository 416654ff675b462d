// meshedit is a headless CLI for inspecting, deforming and baking glTF meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/editor/batch"
	"github.com/Faultbox/meshsculpt/internal/editor/export"
	"github.com/Faultbox/meshsculpt/internal/editor/proportional"
	"github.com/Faultbox/meshsculpt/internal/editor/space"
	"github.com/Faultbox/meshsculpt/internal/gltfio"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "move":
		err = cmdMove(args)
	case "bake":
		err = cmdBake(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshedit - glTF vertex editing utility

Usage:
  meshedit <command> [options] <model>

Commands:
  info <model>                       Show meshes, vertex counts and bounds
  move [options] <model>             Select vertices and move them
  bake -o <out> <model>              Bake node transforms into the geometry

Move options:
  -o <path>          Output file (.glb or .gltf)
  -mesh <name>       Only select in meshes with this node name
  -select 0,1,2      Select vertices by index
  -box x0,y0,x1,y1   Select vertices inside a pixel rectangle of a fitted view
  -delta x,y,z       World-space displacement
  -proportional      Enable proportional editing
  -radius r          Proportional radius in world units
  -falloff kind      smooth, gaussian or sharp

Examples:
  meshedit info model.glb
  meshedit move -select 0,4 -delta 0,0.2,0 -o out.glb model.glb
  meshedit move -box 100,100,300,250 -delta 0,0,1 -proportional -radius 2 -o out.glb model.glb
  meshedit bake -o baked.glb model.glb`)
}

// initLogging sends warnings to stderr, or everything with -v.
func initLogging(verbose bool) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.Init(level, "")
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: meshedit info <model>")
	}
	if err := initLogging(*verbose); err != nil {
		return err
	}

	root, err := gltfio.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	infos := batch.Describe(root)
	fmt.Printf("Model:  %s\n", fs.Arg(0))
	fmt.Printf("Meshes: %d\n", len(infos))
	fmt.Println()
	for _, m := range infos {
		skinned := ""
		if m.Skinned {
			skinned = " skinned"
		}
		fmt.Printf("  %-24s %7d verts %7d tris%s\n", m.ID, m.Vertices, m.Triangles, skinned)
		if !m.Bounds.IsEmpty() {
			fmt.Printf("  %-24s bounds %v .. %v\n", "", m.Bounds.Min, m.Bounds.Max)
		}
		if m.Triangles > 0 {
			fmt.Printf("  %-24s edges mean %.4g stddev %.4g\n", "", m.EdgeMean, m.EdgeStdDev)
		}
	}
	return nil
}

func cmdMove(args []string) error {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	out := fs.String("o", "", "Output file")
	meshName := fs.String("mesh", "", "Mesh node name")
	sel := fs.String("select", "", "Vertex indices, comma separated")
	box := fs.String("box", "", "Pixel rectangle x0,y0,x1,y1")
	width := fs.Int("width", 1280, "View width for -box")
	height := fs.Int("height", 720, "View height for -box")
	delta := fs.String("delta", "", "Displacement x,y,z")
	prop := fs.Bool("proportional", false, "Proportional editing")
	radius := fs.Float64("radius", 1, "Proportional radius")
	falloff := fs.String("falloff", "smooth", "Proportional falloff")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if fs.NArg() < 1 || *out == "" || *delta == "" {
		return errors.New("usage: meshedit move -delta x,y,z -o <out> [-select ... | -box ...] <model>")
	}
	if err := initLogging(*verbose); err != nil {
		return err
	}

	opts := batch.MoveOptions{
		Mesh:         *meshName,
		Viewport:     space.Viewport{Width: float32(*width), Height: float32(*height)},
		Proportional: *prop,
		Radius:       float32(*radius),
	}
	var err error
	if opts.Delta, err = parseVec3(*delta); err != nil {
		return fmt.Errorf("-delta: %w", err)
	}
	if opts.Falloff, err = proportional.ParseFalloff(*falloff); err != nil {
		return fmt.Errorf("-falloff: %w", err)
	}
	switch {
	case *sel != "":
		if opts.Indices, err = parseIndices(*sel); err != nil {
			return fmt.Errorf("-select: %w", err)
		}
	case *box != "":
		r, err := parseRect(*box)
		if err != nil {
			return fmt.Errorf("-box: %w", err)
		}
		opts.Box = &r
	default:
		return errors.New("one of -select or -box is required")
	}

	root, err := gltfio.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	rep, err := batch.Move(root, opts)
	if err != nil {
		return err
	}
	if err := gltfio.Save(*out, export.Bake(root)); err != nil {
		return err
	}

	logger.Info("saved", zap.String("path", *out))
	fmt.Printf("Selected %d vertices, moved %d, pivot %v\n", rep.Selected, rep.Moved, rep.Pivot)
	fmt.Printf("Written: %s\n", *out)
	return nil
}

func cmdBake(args []string) error {
	fs := flag.NewFlagSet("bake", flag.ExitOnError)
	out := fs.String("o", "", "Output file")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if fs.NArg() < 1 || *out == "" {
		return errors.New("usage: meshedit bake -o <out> <model>")
	}
	if err := initLogging(*verbose); err != nil {
		return err
	}

	root, err := gltfio.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	baked := export.Bake(root)
	if err := gltfio.Save(*out, baked); err != nil {
		return err
	}
	fmt.Printf("Baked %d meshes into %s\n", len(baked), *out)
	return nil
}

func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated numbers, got %q", n, s)
	}
	out := make([]float32, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseVec3(s string) (math.Vec3, error) {
	f, err := parseFloats(s, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

func parseRect(s string) (space.Rect, error) {
	f, err := parseFloats(s, 4)
	if err != nil {
		return space.Rect{}, err
	}
	return space.RectFromCorners(math.Vec2{X: f[0], Y: f[1]}, math.Vec2{X: f[2], Y: f[3]}), nil
}

func parseIndices(s string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		i, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		if i < 0 {
			return nil, fmt.Errorf("negative index %d", i)
		}
		out = append(out, i)
	}
	if len(out) == 0 {
		return nil, errors.New("no indices")
	}
	return out, nil
}
