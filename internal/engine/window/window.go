// Package window owns the SDL2 window and its OpenGL 4.1 core context.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshsculpt/internal/logger"
)

func init() {
	// GL and SDL video calls must stay on the main thread.
	runtime.LockOSThread()
}

// Config describes the window to open.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Samples    int // MSAA samples, 0 disables multisampling
}

// Window is an SDL2 window with a current GL context.
type Window struct {
	win *sdl.Window
	ctx sdl.GLContext
	log *zap.Logger
}

type glAttr struct {
	attr  sdl.GLattr
	value int
}

// contextAttrs requests the highest core profile macOS offers.
var contextAttrs = []glAttr{
	{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
	{sdl.GL_CONTEXT_MINOR_VERSION, 1},
	{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	{sdl.GL_DOUBLEBUFFER, 1},
	{sdl.GL_DEPTH_SIZE, 24},
}

// New initializes SDL video, opens the window and makes its GL context
// current. When the driver rejects the requested multisampling the window is
// opened again without it.
func New(cfg Config) (*Window, error) {
	log := logger.Named("window")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	w, err := open(cfg, cfg.Samples)
	if err != nil && cfg.Samples > 0 {
		log.Warn("multisampled context unavailable, retrying without", zap.Int("samples", cfg.Samples), zap.Error(err))
		w, err = open(cfg, 0)
	}
	if err != nil {
		sdl.Quit()
		return nil, err
	}
	w.log = log
	w.setSwapInterval(cfg.VSync)

	dw, dh := w.DrawableSize()
	log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("drawable_width", dw),
		zap.Int("drawable_height", dh),
		zap.Bool("fullscreen", cfg.Fullscreen),
	)
	return w, nil
}

func open(cfg Config, samples int) (*Window, error) {
	attrs := append([]glAttr(nil), contextAttrs...)
	if samples > 0 {
		attrs = append(attrs, glAttr{sdl.GL_MULTISAMPLEBUFFERS, 1}, glAttr{sdl.GL_MULTISAMPLESAMPLES, samples})
	} else {
		attrs = append(attrs, glAttr{sdl.GL_MULTISAMPLEBUFFERS, 0}, glAttr{sdl.GL_MULTISAMPLESAMPLES, 0})
	}
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			return nil, fmt.Errorf("gl attribute %d=%d: %w", a.attr, a.value, err)
		}
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	win, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	ctx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("create gl context: %w", err)
	}
	return &Window{win: win, ctx: ctx}, nil
}

// setSwapInterval prefers adaptive vsync and falls back to plain vsync.
func (w *Window) setSwapInterval(vsync bool) {
	if !vsync {
		_ = sdl.GLSetSwapInterval(0)
		return
	}
	if sdl.GLSetSwapInterval(-1) == nil {
		return
	}
	if err := sdl.GLSetSwapInterval(1); err != nil {
		w.log.Warn("vsync unavailable", zap.Error(err))
	}
}

// Close releases the context and the window and shuts SDL down.
func (w *Window) Close() {
	if w.ctx != nil {
		sdl.GLDeleteContext(w.ctx)
		w.ctx = nil
	}
	if w.win != nil {
		w.win.Destroy()
		w.win = nil
	}
	sdl.Quit()
	w.log.Debug("window closed")
}

// SwapBuffers presents the back buffer.
func (w *Window) SwapBuffers() { w.win.GLSwap() }

// Size is the window size in screen coordinates, the space pointer events
// are reported in.
func (w *Window) Size() (int, int) {
	width, height := w.win.GetSize()
	return int(width), int(height)
}

// DrawableSize is the framebuffer size in pixels. It exceeds Size on
// high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.win.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle replaces the title bar text.
func (w *Window) SetTitle(title string) { w.win.SetTitle(title) }
