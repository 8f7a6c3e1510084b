package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/softrender/internal/engine/debug"
	"github.com/Faultbox/softrender/internal/engine/shader"
	"github.com/Faultbox/softrender/internal/engine/transform"
	"github.com/Faultbox/softrender/pkg/formats"
	"github.com/Faultbox/softrender/pkg/math"
)

const size = 32

var (
	eye        = math.V3[float32](0, 0, 3)
	center     = math.Vec3f{}
	up         = math.V3[float32](0, 1, 0)
	background = color.RGBA{R: 10, G: 20, B: 30, A: 255}
)

func mesh(t *testing.T, src string) *formats.OBJ {
	t.Helper()
	obj, err := formats.ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	return obj
}

const facing = `v -0.5 -0.5 0
v 0.5 -0.5 0
v 0 0.5 0
vn 0 0 1
f 1//1 2//1 3//1
`

func testConfig() Config {
	return Config{
		Width:   size,
		Height:  size,
		Depth:   255,
		Shader:  shader.KindGouraud,
		Options: shader.DefaultOptions(),
		Light:   math.V3[float32](0, 0, 1),
		FlipX:   true,
		Clear:   background,
	}
}

func render(t *testing.T, r *Renderer) Stats {
	t.Helper()
	frame, err := r.Frame(eye, center, up)
	require.NoError(t, err)
	stats, err := r.Render(context.Background(), frame)
	require.NoError(t, err)
	return stats
}

func TestNewValidates(t *testing.T) {
	obj := mesh(t, facing)

	_, err := New(testConfig(), nil, shader.Maps{})
	assert.ErrorIs(t, err, shader.ErrNoMesh)

	cfg := testConfig()
	cfg.Width = 0
	_, err = New(cfg, obj, shader.Maps{})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Shader = "toon"
	_, err = New(cfg, obj, shader.Maps{})
	assert.ErrorIs(t, err, shader.ErrUnknownShader)

	cfg = testConfig()
	cfg.Depth = 0
	r, err := New(cfg, obj, shader.Maps{})
	require.NoError(t, err)
	frame, err := r.Frame(eye, center, up)
	require.NoError(t, err)
	assert.Equal(t, float32(transform.DefaultDepth), frame.Depth)
}

func TestRenderFacingTriangle(t *testing.T) {
	for _, kind := range shader.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			cfg := testConfig()
			cfg.Shader = kind
			r, err := New(cfg, mesh(t, facing), shader.Maps{})
			require.NoError(t, err)

			stats := render(t, r)
			assert.Equal(t, 1, stats.Faces)
			assert.Zero(t, stats.Skipped)
			assert.Equal(t, 1, stats.Triangles)
			assert.Positive(t, stats.Shaded)
			assert.Equal(t, stats.Shaded, r.Depth().Covered())

			fb := r.Framebuffer()
			mid := fb.At(size/2-1, size/2-1)
			assert.NotEqual(t, background, mid, "triangle center not shaded")
			assert.Greater(t, mid.R, uint8(200), "facing light should be bright")
			assert.Equal(t, background, fb.At(0, 0))
			assert.Equal(t, background, fb.At(size-1, 0))
		})
	}
}

func TestRenderDepthImageMatchesColor(t *testing.T) {
	r, err := New(testConfig(), mesh(t, facing), shader.Maps{})
	require.NoError(t, err)
	render(t, r)

	fb := r.Framebuffer()
	depth := r.DepthImage()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			shaded := fb.At(x, y) != background
			covered := depth.GrayAt(x, y).Y > 0
			require.Equal(t, shaded, covered, "pixel (%d,%d)", x, y)
		}
	}
	assert.Equal(t, uint8(127), depth.GrayAt(size/2-1, size/2-1).Y)
}

func TestRenderSkipsFaceOnEyePlane(t *testing.T) {
	src := facing + `v 0 0 3
f 1 2 4
`
	r, err := New(testConfig(), mesh(t, src), shader.Maps{})
	require.NoError(t, err)

	stats := render(t, r)
	assert.Equal(t, 2, stats.Faces)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Triangles)
}

func TestRenderClearsBetweenFrames(t *testing.T) {
	r, err := New(testConfig(), mesh(t, facing), shader.Maps{})
	require.NoError(t, err)

	first := render(t, r)
	second := render(t, r)
	assert.Equal(t, first.Shaded, second.Shaded)
	assert.Zero(t, second.Occluded, "depth buffer not reset")
}

func TestRenderCancelled(t *testing.T) {
	r, err := New(testConfig(), mesh(t, facing), shader.Maps{})
	require.NoError(t, err)
	frame, err := r.Frame(eye, center, up)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, frame)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderFrameSizeMismatch(t *testing.T) {
	r, err := New(testConfig(), mesh(t, facing), shader.Maps{})
	require.NoError(t, err)
	frame, err := transform.NewFrame(eye, center, up, size*2, size, 255)
	require.NoError(t, err)

	_, err = r.Render(context.Background(), frame)
	assert.Error(t, err)
}

func TestRenderProgress(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Progress = &buf
	r, err := New(cfg, mesh(t, facing), shader.Maps{})
	require.NoError(t, err)

	render(t, r)
	assert.Contains(t, buf.String(), "rendering")
}

func TestRenderShowBounds(t *testing.T) {
	cfg := testConfig()
	cfg.ShowBounds = true
	r, err := New(cfg, mesh(t, facing), shader.Maps{})
	require.NoError(t, err)
	render(t, r)

	fb := r.Framebuffer()
	overlay := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if fb.At(x, y) == debug.DefaultBoxColor {
				overlay++
			}
		}
	}
	assert.Positive(t, overlay)
}

func TestResize(t *testing.T) {
	r, err := New(testConfig(), mesh(t, facing), shader.Maps{})
	require.NoError(t, err)

	r.Resize(64, 48)
	w, h := r.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)
	assert.Equal(t, 64, r.Framebuffer().Width())
	assert.Equal(t, 48, r.Depth().Height())

	r.Resize(0, 10)
	w, _ = r.Size()
	assert.Equal(t, 64, w, "invalid size ignored")

	stats := render(t, r)
	assert.Positive(t, stats.Shaded)
}

func TestIsSkippable(t *testing.T) {
	assert.True(t, IsSkippable(fmt.Errorf("frame: %w", math.ErrSingular)))
	assert.True(t, IsSkippable(transform.ErrDegenerateBasis))
	assert.False(t, IsSkippable(errors.New("disk full")))
	assert.False(t, IsSkippable(context.Canceled))
}
