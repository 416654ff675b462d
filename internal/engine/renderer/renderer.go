// Package renderer draws editable meshes and the editor overlays with
// OpenGL 4.1.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/engine/mesh"
	"github.com/Faultbox/meshsculpt/internal/engine/shader"
	"github.com/Faultbox/meshsculpt/internal/logger"
	"github.com/Faultbox/meshsculpt/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [3]float32
}

// Light is the single directional light used for shading.
type Light struct {
	Direction math.Vec3
	Ambient   float32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	meshProgram *shader.Program
	flatProgram *shader.Program

	meshes map[*mesh.Geometry]*gpuMesh
	stream streamBuffer

	log *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		meshes: make(map[*mesh.Geometry]*gpuMesh),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)

	var err error
	if r.meshProgram, err = shader.NewProgram(meshVertexShader, meshFragmentShader); err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	if r.flatProgram, err = shader.NewProgram(flatVertexShader, flatFragmentShader); err != nil {
		r.meshProgram.Delete()
		return nil, fmt.Errorf("flat shader: %w", err)
	}
	r.stream.init()

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)))
	for g := range r.meshes {
		r.Release(g)
	}
	r.stream.delete()
	r.meshProgram.Delete()
	r.flatProgram.Delete()
}

// Resize handles window resize. width and height are drawable pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// DrawMesh draws g with the given model and view-projection matrices,
// uploading its buffers first if they changed.
func (r *Renderer) DrawMesh(g *mesh.Geometry, model, viewProj math.Mat4, color [3]float32, light Light) {
	if !g.HasPositions() {
		return
	}
	m := r.sync(g)

	mvp := viewProj.Mul(model)
	normal := model.Mat3().NormalMatrix(1e-8)

	r.meshProgram.Use()
	gl.UniformMatrix4fv(r.meshProgram.Uniform("uMVP"), 1, false, mvp.Ptr())
	gl.UniformMatrix3fv(r.meshProgram.Uniform("uNormalMatrix"), 1, false, &normal[0])
	gl.Uniform3f(r.meshProgram.Uniform("uColor"), color[0], color[1], color[2])
	gl.Uniform3f(r.meshProgram.Uniform("uLightDir"), light.Direction.X, light.Direction.Y, light.Direction.Z)
	gl.Uniform1f(r.meshProgram.Uniform("uAmbient"), light.Ambient)

	m.draw()
}

// DrawPoints draws xyz triples as square points.
func (r *Renderer) DrawPoints(points []float32, mvp math.Mat4, color [4]float32, size float32) {
	r.drawFlat(gl.POINTS, points, mvp, color, size)
}

// DrawLines draws xyz pairs as line segments.
func (r *Renderer) DrawLines(lines []float32, mvp math.Mat4, color [4]float32) {
	r.drawFlat(gl.LINES, lines, mvp, color, 1)
}

// Overlay runs fn with depth testing disabled so its draws sit on top.
func (r *Renderer) Overlay(fn func()) {
	gl.Disable(gl.DEPTH_TEST)
	fn()
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) drawFlat(mode uint32, verts []float32, mvp math.Mat4, color [4]float32, size float32) {
	if len(verts) < 3 {
		return
	}
	r.flatProgram.Use()
	gl.UniformMatrix4fv(r.flatProgram.Uniform("uMVP"), 1, false, mvp.Ptr())
	gl.Uniform4f(r.flatProgram.Uniform("uColor"), color[0], color[1], color[2], color[3])
	gl.Uniform1f(r.flatProgram.Uniform("uPointSize"), size)
	r.stream.draw(mode, verts)
}

// Release frees the GPU buffers held for g.
func (r *Renderer) Release(g *mesh.Geometry) {
	if m, ok := r.meshes[g]; ok {
		m.delete()
		delete(r.meshes, g)
	}
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
