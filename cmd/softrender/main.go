// Package main is the entry point for the softrender viewer and
// headless renderer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/softrender/internal/app"
	"github.com/Faultbox/softrender/internal/config"
	"github.com/Faultbox/softrender/internal/engine/camera"
	"github.com/Faultbox/softrender/internal/engine/debug"
	"github.com/Faultbox/softrender/internal/engine/renderer"
	"github.com/Faultbox/softrender/internal/engine/shader"
	"github.com/Faultbox/softrender/internal/engine/texture"
	"github.com/Faultbox/softrender/internal/engine/window"
	"github.com/Faultbox/softrender/internal/logger"
	"github.com/Faultbox/softrender/pkg/formats"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(2)
	}

	// Initialize logger
	opts := logger.Options{Level: cfg.Logging.Level, Console: os.Stderr, JSON: cfg.Logging.JSON}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(2)
	}

	logger.Info("=== softrender ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("saving config failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", config.UserConfigPath()))
	}

	if err := run(cfg); err != nil {
		logger.Error("softrender failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mesh, err := formats.LoadOBJ(cfg.Assets.Mesh)
	if err != nil {
		return fmt.Errorf("loading mesh: %w", err)
	}
	logger.Info("mesh loaded",
		zap.String("path", cfg.Assets.Mesh),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("faces", mesh.FaceCount()),
		zap.Int("skipped_lines", len(mesh.Skipped)),
	)

	paths := texture.Paths{
		Diffuse:  cfg.Assets.Diffuse,
		Normal:   cfg.Assets.Normal,
		Specular: cfg.Assets.Specular,
	}
	if cfg.Assets.Discover {
		paths = texture.Discover(cfg.Assets.Mesh, paths)
	}
	maps, err := texture.LoadMaps(paths)
	if err != nil {
		// Rendering continues with the maps that did load.
		logger.Warn("material maps missing", zap.Error(err))
	}
	logger.Debug("material maps",
		zap.String("diffuse", paths.Diffuse),
		zap.String("normal", paths.Normal),
		zap.String("specular", paths.Specular),
	)

	rcfg := renderer.Config{
		Width:              cfg.Render.Width,
		Height:             cfg.Render.Height,
		Depth:              cfg.Render.Depth,
		Shader:             shader.Kind(cfg.Render.Shader),
		Options:            cfg.Render.ShaderOptions(),
		Light:              cfg.Light.Direction.Vec(),
		PerspectiveCorrect: cfg.Render.PerspectiveCorrect,
		FlipX:              cfg.Render.FlipX,
		Clear:              cfg.Render.ClearColor(),
		ShowBounds:         cfg.Render.ShowBounds,
	}
	if cfg.Output.Headless && cfg.Output.Progress {
		rcfg.Progress = os.Stderr
	}
	r, err := renderer.New(rcfg, mesh, maps)
	if err != nil {
		return err
	}

	cam := camera.NewOrbitCamera(cfg.Camera.Eye.Vec(), cfg.Camera.Center.Vec(), cfg.Camera.Up.Vec())
	cam.OrbitSpeed = cfg.Camera.OrbitSpeed

	if cfg.Output.Headless {
		return renderHeadless(ctx, cfg, r, cam)
	}
	return runViewer(ctx, cfg, r, cam)
}

func renderHeadless(ctx context.Context, cfg *config.Config, r *renderer.Renderer, cam *camera.OrbitCamera) error {
	frame, err := r.Frame(cam.Eye, cam.Center, cam.Up)
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	stats, err := r.Render(ctx, frame)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("render interrupted")
			return nil
		}
		return err
	}
	logger.Info("frame rendered",
		zap.Int("faces", stats.Faces),
		zap.Int("skipped", stats.Skipped),
		zap.Int("shaded", stats.Shaded),
		zap.Int("discarded", stats.Discarded),
		zap.Duration("took", stats.Duration),
	)

	if err := debug.SaveImage(r.Framebuffer().Image(), cfg.Output.Path); err != nil {
		return fmt.Errorf("saving image: %w", err)
	}
	logger.Info("image written", zap.String("path", cfg.Output.Path))

	if cfg.Output.DepthPath != "" {
		if err := debug.SaveImage(r.DepthImage(), cfg.Output.DepthPath); err != nil {
			return fmt.Errorf("saving depth: %w", err)
		}
		logger.Info("depth written", zap.String("path", cfg.Output.DepthPath))
	}
	return nil
}

func runViewer(ctx context.Context, cfg *config.Config, r *renderer.Renderer, cam *camera.OrbitCamera) error {
	a, err := app.New(app.Config{
		Window: window.Config{
			Title:      cfg.Window.Title,
			Width:      cfg.Render.Width,
			Height:     cfg.Render.Height,
			Fullscreen: cfg.Window.Fullscreen,
			VSync:      cfg.Window.VSync,
		},
		FrameDelay:    cfg.Window.FrameDelay,
		ScreenshotDir: cfg.Output.ScreenshotDir,
	}, r, cam)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		return err
	}
	logger.Info("viewer closed normally")
	return nil
}
