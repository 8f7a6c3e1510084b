// Package app runs the interactive viewer: a window showing the software
// rendered mesh, re-rendered whenever the camera moves.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/softrender/internal/engine/camera"
	"github.com/Faultbox/softrender/internal/engine/debug"
	"github.com/Faultbox/softrender/internal/engine/input"
	"github.com/Faultbox/softrender/internal/engine/renderer"
	"github.com/Faultbox/softrender/internal/engine/window"
	"github.com/Faultbox/softrender/internal/logger"
)

// Config holds viewer configuration.
type Config struct {
	Window window.Config
	// FrameDelay is slept after every presented frame.
	FrameDelay    time.Duration
	ScreenshotDir string
}

// App is the viewer instance.
type App struct {
	config  Config
	running bool
	window  *window.Window
	input   *input.Input
	scene   *scene
	shots   *debug.ScreenshotCapture
}

// New opens the window. The renderer and camera are owned by the caller.
func New(cfg Config, r *renderer.Renderer, cam *camera.OrbitCamera) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	win, err := window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Fullscreen and high-DPI windows may not get the requested size.
	scn := newScene(r, cam)
	scn.resize(win.GetSize())
	if w, h := r.Size(); w != cfg.Window.Width || h != cfg.Window.Height {
		logger.Info("render size follows window", zap.Int("width", w), zap.Int("height", h))
	}

	return &App{
		config: cfg,
		window: win,
		input:  input.New(),
		scene:  scn,
		shots:  debug.NewScreenshotCapture(cfg.ScreenshotDir, "softrender"),
	}, nil
}

// Run drives the viewer until the window is closed, Escape is pressed or
// ctx is cancelled. Cancellation is checked at frame boundaries and is not
// an error.
func (a *App) Run(ctx context.Context) error {
	a.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for a.running {
		if ctx.Err() != nil {
			logger.Info("viewer interrupted")
			break
		}

		// Calculate delta time
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		if w, h, ok := a.input.Resized(); ok {
			a.scene.resize(w, h)
		}

		// 2. Move the camera
		a.scene.update(float32(dt))

		// 3. Render if anything changed
		drawn, err := a.scene.draw(ctx)
		if err != nil {
			if cancelled(err) {
				logger.Info("viewer interrupted")
				break
			}
			return fmt.Errorf("render error: %w", err)
		}
		if drawn {
			a.updateTitle()
		}

		if a.input.IsKeyPressed(sdl.SCANCODE_F12) {
			a.screenshot()
		}

		// 4. Present
		a.window.Present(a.scene.renderer.Framebuffer())

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", time.Duration(dt*float64(time.Second))))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if a.config.FrameDelay > 0 {
			window.Delay(uint32(a.config.FrameDelay / time.Millisecond))
		}
	}

	return nil
}

func (a *App) updateTitle() {
	s := a.scene.last
	a.window.SetTitle(fmt.Sprintf("%s - %d faces, %d px, %v",
		a.config.Window.Title, s.Faces-s.Skipped, s.Shaded, s.Duration.Round(time.Millisecond)))
}

func (a *App) screenshot() {
	path, err := a.shots.CaptureFromImage(a.scene.renderer.Framebuffer().Image())
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases the window.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
}
