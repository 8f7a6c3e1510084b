package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/softrender/internal/engine/camera"
	"github.com/Faultbox/softrender/internal/engine/renderer"
	"github.com/Faultbox/softrender/internal/logger"
)

// scene pairs a renderer with the camera that drives it and tracks
// whether the color buffer is stale.
type scene struct {
	renderer *renderer.Renderer
	camera   *camera.OrbitCamera
	dirty    bool
	// last holds the stats of the most recent successful pass.
	last renderer.Stats
}

func newScene(r *renderer.Renderer, c *camera.OrbitCamera) *scene {
	return &scene{renderer: r, camera: c, dirty: true}
}

// update advances the camera by dt seconds.
func (s *scene) update(dt float32) {
	if s.camera.Advance(dt) {
		s.dirty = true
	}
}

// resize changes the output size and marks the frame stale.
func (s *scene) resize(width, height int) {
	w, h := s.renderer.Size()
	if width <= 0 || height <= 0 || (w == width && h == height) {
		return
	}
	s.renderer.Resize(width, height)
	s.dirty = true
}

// draw re-renders when stale. A camera placement that cannot produce
// transforms keeps the previous image. It reports whether a pass ran.
func (s *scene) draw(ctx context.Context) (bool, error) {
	if !s.dirty {
		return false, nil
	}
	s.dirty = false

	frame, err := s.renderer.Frame(s.camera.Eye, s.camera.Center, s.camera.Up)
	if err != nil {
		if renderer.IsSkippable(err) {
			logger.Warn("camera placement skipped", zap.Error(err))
			return false, nil
		}
		return false, err
	}

	stats, err := s.renderer.Render(ctx, frame)
	if err != nil {
		if renderer.IsSkippable(err) {
			logger.Warn("frame skipped", zap.Error(err))
			return false, nil
		}
		return false, err
	}
	s.last = stats
	return true, nil
}

// cancelled reports whether err only signals a shutdown request.
func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
