// Package renderer runs the software render pass: every face of a mesh
// through the vertex stage, the rasterizer and the fragment stage.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/softrender/internal/engine/debug"
	"github.com/Faultbox/softrender/internal/engine/framebuffer"
	"github.com/Faultbox/softrender/internal/engine/raster"
	"github.com/Faultbox/softrender/internal/engine/shader"
	"github.com/Faultbox/softrender/internal/engine/transform"
	"github.com/Faultbox/softrender/internal/logger"
	"github.com/Faultbox/softrender/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	// Depth is the viewport depth range.
	Depth float32

	Shader  shader.Kind
	Options shader.Options
	// Light is the world-space light direction.
	Light math.Vec3f

	PerspectiveCorrect bool
	FlipX              bool

	// Clear is the background color.
	Clear color.RGBA
	// ShowBounds overlays the mesh bounding box.
	ShowBounds bool
	// Progress, when set, receives a progress bar over the faces.
	Progress io.Writer
}

// Stats describes one render pass.
type Stats struct {
	raster.Stats
	// Faces is the number of faces submitted.
	Faces int
	// Skipped counts faces dropped by the vertex stage.
	Skipped  int
	Duration time.Duration
}

// Bounded is implemented by meshes that know their bounding box.
type Bounded interface {
	Bounds() (lo, hi math.Vec3f)
}

// Renderer owns the color and depth buffers and draws a mesh into them.
type Renderer struct {
	config Config
	mesh   shader.Mesh
	maps   shader.Maps
	raster raster.Rasterizer

	color *framebuffer.Framebuffer
	depth *raster.DepthBuffer
}

// New creates a renderer for mesh and its material maps.
func New(cfg Config, mesh shader.Mesh, maps shader.Maps) (*Renderer, error) {
	if mesh == nil {
		return nil, shader.ErrNoMesh
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid render size %dx%d", cfg.Width, cfg.Height)
	}
	if _, err := shader.ParseKind(string(cfg.Shader)); err != nil {
		return nil, err
	}
	if cfg.Depth <= 0 {
		cfg.Depth = transform.DefaultDepth
	}

	r := &Renderer{
		config: cfg,
		mesh:   mesh,
		maps:   maps,
		raster: raster.Rasterizer{
			PerspectiveCorrect: cfg.PerspectiveCorrect,
			FlipX:              cfg.FlipX,
		},
		color: framebuffer.New(cfg.Width, cfg.Height, cfg.Clear),
		depth: raster.NewDepthBuffer(cfg.Width, cfg.Height),
	}

	logger.Info("renderer created",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.String("shader", string(cfg.Shader)),
		zap.Int("faces", mesh.FaceCount()),
		zap.Bool("perspective_correct", cfg.PerspectiveCorrect),
	)
	return r, nil
}

// Resize reallocates the buffers for a new output size.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == r.config.Width && height == r.config.Height {
		return
	}
	r.config.Width = width
	r.config.Height = height
	r.color.Resize(width, height)
	r.depth = raster.NewDepthBuffer(width, height)
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the output size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// Frame builds the standing transforms for a camera placement at the
// renderer's size.
func (r *Renderer) Frame(eye, center, up math.Vec3f) (*transform.Frame, error) {
	return transform.NewFrame(eye, center, up, r.config.Width, r.config.Height, r.config.Depth)
}

// Render clears both buffers and draws every face of the mesh as seen
// through frame. Faces the vertex stage cannot place are skipped and
// counted. ctx is checked once before drawing starts.
func (r *Renderer) Render(ctx context.Context, frame *transform.Frame) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	if frame.Width != r.config.Width || frame.Height != r.config.Height {
		return Stats{}, fmt.Errorf("frame is %dx%d, renderer is %dx%d",
			frame.Width, frame.Height, r.config.Width, r.config.Height)
	}

	start := time.Now()
	u, err := shader.NewUniforms(frame, r.config.Light)
	if err != nil {
		return Stats{}, fmt.Errorf("building uniforms: %w", err)
	}
	sh, err := shader.New(r.config.Shader, r.mesh, u, r.maps, r.config.Options)
	if err != nil {
		return Stats{}, err
	}

	r.color.Clear()
	r.depth.Reset()

	var bar *progressbar.ProgressBar
	if r.config.Progress != nil {
		bar = progressbar.NewOptions(r.mesh.FaceCount(),
			progressbar.OptionSetWriter(r.config.Progress),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
		)
		defer bar.Close()
	}

	stats := Stats{Faces: r.mesh.FaceCount()}
	for face := 0; face < stats.Faces; face++ {
		if bar != nil {
			_ = bar.Add(1)
		}
		pts, err := r.vertices(sh, face)
		if err != nil {
			stats.Skipped++
			logger.Debug("face skipped", zap.Int("face", face), zap.Error(err))
			continue
		}
		stats.Add(r.raster.DrawTriangle(pts, r.depth, sh, r.color))
	}

	if r.config.ShowBounds {
		if b, ok := r.mesh.(Bounded); ok {
			lo, hi := b.Bounds()
			debug.DrawBounds(&r.raster, frame, lo, hi, debug.DefaultBoxColor, r.color)
		}
	}

	stats.Duration = time.Since(start)
	logger.Debug("frame rendered",
		zap.Int("faces", stats.Faces),
		zap.Int("skipped", stats.Skipped),
		zap.Int("shaded", stats.Shaded),
		zap.Int("occluded", stats.Occluded),
		zap.Duration("took", stats.Duration),
	)
	return stats, nil
}

func (r *Renderer) vertices(sh shader.Shader, face int) ([3]math.Vec4f, error) {
	var pts [3]math.Vec4f
	for nth := 0; nth < 3; nth++ {
		p, err := sh.Vertex(face, nth)
		if err != nil {
			return pts, err
		}
		pts[nth] = p
	}
	return pts, nil
}

// Framebuffer returns the color buffer of the last pass.
func (r *Renderer) Framebuffer() *framebuffer.Framebuffer {
	return r.color
}

// Depth returns the depth buffer of the last pass.
func (r *Renderer) Depth() *raster.DepthBuffer {
	return r.depth
}

// DepthImage renders the depth buffer as grayscale, brighter is nearer.
// It has the same orientation as the color buffer.
func (r *Renderer) DepthImage() *image.Gray {
	img := r.depth.Image(r.config.Depth)
	if r.config.FlipX {
		w := img.Rect.Dx()
		for y := 0; y < img.Rect.Dy(); y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+w]
			for i, j := 0, w-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
	}
	return img
}

// IsSkippable reports whether err only affects a single frame, such as a
// camera placement that makes the transforms singular.
func IsSkippable(err error) bool {
	return errors.Is(err, math.ErrSingular) ||
		errors.Is(err, math.ErrZeroVector) ||
		errors.Is(err, transform.ErrDegenerateBasis)
}
