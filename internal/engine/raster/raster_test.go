package raster

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/softrender/pkg/math"
)

// gridSurface records emitted colors.
type gridSurface struct {
	w, h   int
	pixels map[[2]int]color.RGBA
}

func newGridSurface(w, h int) *gridSurface {
	return &gridSurface{w: w, h: h, pixels: make(map[[2]int]color.RGBA)}
}

func (s *gridSurface) Width() int  { return s.w }
func (s *gridSurface) Height() int { return s.h }
func (s *gridSurface) SetColor(x, y int, c color.RGBA) {
	s.pixels[[2]int{x, y}] = c
}

// solid shades every pixel with one color.
type solid struct {
	c       color.RGBA
	discard bool
	bars    []math.Vec3f
}

func (s *solid) Fragment(bar math.Vec3f) (color.RGBA, bool) {
	s.bars = append(s.bars, bar)
	return s.c, s.discard
}

func tri(a, b, c [3]float32) [3]math.Vec4f {
	return [3]math.Vec4f{
		{X: a[0], Y: a[1], Z: a[2], W: 1},
		{X: b[0], Y: b[1], Z: b[2], W: 1},
		{X: c[0], Y: c[1], Z: c[2], W: 1},
	}
}

func TestBarycentricVertices(t *testing.T) {
	pts := tri([3]float32{0, 0, 0}, [3]float32{10, 0, 0}, [3]float32{0, 10, 0})

	tests := []struct {
		name   string
		px, py int
		want   math.Vec3f
	}{
		{"vertex 0", 0, 0, math.Vec3f{X: 1, Y: 0, Z: 0}},
		{"vertex 1", 10, 0, math.Vec3f{X: 0, Y: 1, Z: 0}},
		{"vertex 2", 0, 10, math.Vec3f{X: 0, Y: 0, Z: 1}},
		{"edge midpoint", 5, 5, math.Vec3f{X: 0, Y: 0.5, Z: 0.5}},
		{"interior", 2, 3, math.Vec3f{X: 0.5, Y: 0.2, Z: 0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Barycentric(pts, tt.px, tt.py)
			assert.InDelta(t, tt.want.X, got.X, 1e-6)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-6)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-6)
		})
	}
}

func TestBarycentricProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		var pts [3]math.Vec4f
		for j := range pts {
			pts[j] = math.Vec4f{X: r.Float32() * 100, Y: r.Float32() * 100, W: 1}
		}
		px, py := r.Intn(100), r.Intn(100)
		bar := Barycentric(pts, px, py)
		if bar == outside {
			continue
		}
		assert.InDelta(t, 1, bar.X+bar.Y+bar.Z, 1e-4)

		// Reconstructing the point from the weights gives the pixel back.
		x := bar.X*pts[0].X + bar.Y*pts[1].X + bar.Z*pts[2].X
		y := bar.X*pts[0].Y + bar.Y*pts[1].Y + bar.Z*pts[2].Y
		assert.InDelta(t, float32(px), x, 1e-2)
		assert.InDelta(t, float32(py), y, 1e-2)
	}
}

func TestBarycentricOutside(t *testing.T) {
	pts := tri([3]float32{0, 0, 0}, [3]float32{10, 0, 0}, [3]float32{0, 10, 0})
	for _, p := range [][2]int{{-1, -1}, {11, 0}, {6, 6}, {0, 11}, {-3, 5}} {
		bar := Barycentric(pts, p[0], p[1])
		assert.False(t, Inside(bar), "point %v should be outside, got %v", p, bar)
	}
}

func TestBarycentricDegenerate(t *testing.T) {
	// Collinear vertices have zero area.
	pts := tri([3]float32{0, 0, 0}, [3]float32{5, 5, 0}, [3]float32{10, 10, 0})
	assert.Equal(t, outside, Barycentric(pts, 5, 5))
	assert.False(t, Inside(Barycentric(pts, 5, 5)))

	// Doubled area below one pixel.
	thin := tri([3]float32{0, 0, 0}, [3]float32{0.5, 0, 0}, [3]float32{0, 0.5, 0})
	assert.Equal(t, outside, Barycentric(thin, 0, 0))
}

func TestBoundingBox(t *testing.T) {
	pts := tri([3]float32{-5, 3.5, 0}, [3]float32{20.7, 8, 0}, [3]float32{4, 120, 0})
	minX, minY, maxX, maxY, ok := BoundingBox(pts, 16, 100)
	require.True(t, ok)
	assert.Equal(t, 0, minX)
	assert.Equal(t, 4, minY)
	assert.Equal(t, 15, maxX)
	assert.Equal(t, 99, maxY)

	offscreen := tri([3]float32{-10, -10, 0}, [3]float32{-5, -10, 0}, [3]float32{-10, -5, 0})
	_, _, _, _, ok = BoundingBox(offscreen, 16, 16)
	assert.False(t, ok)

	nan := tri([3]float32{math32.NaN(), 0, 0}, [3]float32{1, 1, 0}, [3]float32{2, 0, 0})
	_, _, _, _, ok = BoundingBox(nan, 16, 16)
	assert.False(t, ok)
}

func TestDrawTriangleFillsRightTriangle(t *testing.T) {
	const w, h = 64, 64
	depth := NewDepthBuffer(w, h)
	surf := newGridSurface(w, h)
	red := &solid{c: color.RGBA{R: 255, A: 255}}

	var r Rasterizer
	stats := r.DrawTriangle(tri([3]float32{10, 10, 0}, [3]float32{50, 10, 0}, [3]float32{10, 50, 0}), depth, red, surf)

	// Pixels (x, y) with x, y >= 10 and x+y <= 60.
	const want = 41 * 42 / 2
	assert.Equal(t, want, stats.Covered)
	assert.Equal(t, want, stats.Shaded)
	assert.Equal(t, want, depth.Covered())
	assert.Len(t, surf.pixels, want)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			inside := x >= 10 && y >= 10 && x+y <= 60
			z := depth.At(x, y)
			if inside {
				assert.Equal(t, float32(0), z, "depth at (%d,%d)", x, y)
				assert.Equal(t, red.c, surf.pixels[[2]int{x, h - 1 - y}])
			} else {
				assert.True(t, math32.IsInf(z, -1), "depth at (%d,%d) = %v", x, y, z)
			}
		}
	}
}

func TestDrawTriangleDepthOrderIndependent(t *testing.T) {
	const w, h = 40, 40
	near := &solid{c: color.RGBA{G: 255, A: 255}}
	far := &solid{c: color.RGBA{B: 255, A: 255}}

	nearTri := tri([3]float32{0, 0, 10}, [3]float32{30, 0, 10}, [3]float32{0, 30, 10})
	// Depth ramps from 0 to 21 across x, crossing the near triangle between pixel columns.
	farTri := tri([3]float32{5, 5, 0}, [3]float32{35, 5, 21}, [3]float32{5, 35, 0})

	render := func(order []int) (*gridSurface, *DepthBuffer) {
		depth := NewDepthBuffer(w, h)
		surf := newGridSurface(w, h)
		var r Rasterizer
		for _, i := range order {
			if i == 0 {
				r.DrawTriangle(nearTri, depth, near, surf)
			} else {
				r.DrawTriangle(farTri, depth, far, surf)
			}
		}
		return surf, depth
	}

	a, da := render([]int{0, 1})
	b, db := render([]int{1, 0})
	assert.Equal(t, a.pixels, b.pixels)
	assert.Equal(t, da, db)

	// Where both cover, the larger interpolated depth wins.
	for y := 5; y < 30; y++ {
		for x := 5; x < 30; x++ {
			bn := Barycentric(nearTri, x, y)
			bf := Barycentric(farTri, x, y)
			if !Inside(bn) || !Inside(bf) {
				continue
			}
			zf := bf.X*farTri[0].Z + bf.Y*farTri[1].Z + bf.Z*farTri[2].Z
			got := a.pixels[[2]int{x, h - 1 - y}]
			if zf > 10 {
				assert.Equal(t, far.c, got, "pixel (%d,%d) zf=%v", x, y, zf)
			} else {
				assert.Equal(t, near.c, got, "pixel (%d,%d) zf=%v", x, y, zf)
			}
		}
	}
}

func TestDrawTriangleDiscard(t *testing.T) {
	depth := NewDepthBuffer(20, 20)
	surf := newGridSurface(20, 20)
	sh := &solid{discard: true}

	var r Rasterizer
	stats := r.DrawTriangle(tri([3]float32{0, 0, 1}, [3]float32{10, 0, 1}, [3]float32{0, 10, 1}), depth, sh, surf)
	assert.Equal(t, stats.Covered, stats.Discarded)
	assert.Zero(t, stats.Shaded)
	assert.Empty(t, surf.pixels)
	// The depth test has already accepted the pixels.
	assert.Equal(t, stats.Covered, depth.Covered())
}

func TestDrawTriangleDegenerateSkipsShading(t *testing.T) {
	depth := NewDepthBuffer(20, 20)
	surf := newGridSurface(20, 20)
	sh := &solid{}

	var r Rasterizer
	stats := r.DrawTriangle(tri([3]float32{0, 0, 1}, [3]float32{5, 5, 1}, [3]float32{10, 10, 1}), depth, sh, surf)
	assert.Zero(t, stats.Covered)
	assert.Empty(t, sh.bars)
	assert.Zero(t, depth.Covered())
}

func TestDrawTriangleFlipX(t *testing.T) {
	depth := NewDepthBuffer(10, 10)
	surf := newGridSurface(10, 10)
	r := Rasterizer{FlipX: true}
	r.DrawTriangle(tri([3]float32{0, 0, 0}, [3]float32{2, 0, 0}, [3]float32{0, 2, 0}), depth, &solid{}, surf)

	_, ok := surf.pixels[[2]int{9, 9}]
	assert.True(t, ok, "pixel (0,0) should land at (9,9)")
}

func TestDrawTriangleClipsToSmallerSurface(t *testing.T) {
	depth := NewDepthBuffer(20, 20)
	surf := newGridSurface(10, 10)
	sh := &solid{c: color.RGBA{R: 255, A: 255}}

	var r Rasterizer
	stats := r.DrawTriangle(tri([3]float32{0, 0, 1}, [3]float32{19, 0, 1}, [3]float32{0, 19, 1}), depth, sh, surf)

	// Every pixel of the 10x10 corner is inside the triangle.
	assert.Equal(t, 100, stats.Tested)
	assert.Equal(t, 100, stats.Shaded)
	assert.Len(t, surf.pixels, stats.Shaded)
	assert.Equal(t, 100, depth.Covered())
	for p := range surf.pixels {
		assert.True(t, p[0] >= 0 && p[0] < 10 && p[1] >= 0 && p[1] < 10, "pixel %v outside surface", p)
	}
	_, ok := surf.pixels[[2]int{0, 9}]
	assert.True(t, ok, "pixel (0,0) should land at (0,9)")
}

func TestPerspectiveCorrect(t *testing.T) {
	pts := [3]math.Vec4f{
		{X: 0, Y: 0, W: 1},
		{X: 20, Y: 0, W: 2},
		{X: 0, Y: 20, W: 4},
	}
	depth := NewDepthBuffer(32, 32)
	sh := &solid{}
	r := Rasterizer{PerspectiveCorrect: true}
	r.DrawTriangle(pts, depth, sh, newGridSurface(32, 32))

	require.NotEmpty(t, sh.bars)
	for _, bar := range sh.bars {
		assert.InDelta(t, 1, bar.X+bar.Y+bar.Z, 1e-5)
	}

	screen := Barycentric(pts, 5, 5)
	got := perspective(screen, pts)
	want := math.Vec3f{X: screen.X / 1, Y: screen.Y / 2, Z: screen.Z / 4}
	want = want.Scale(1 / (want.X + want.Y + want.Z))
	assert.InDelta(t, want.X, got.X, 1e-6)
	assert.InDelta(t, want.Y, got.Y, 1e-6)
	assert.InDelta(t, want.Z, got.Z, 1e-6)

	// A zero w leaves the screen weights untouched.
	pts[1].W = 0
	assert.Equal(t, screen, perspective(screen, pts))
}

func TestDepthBuffer(t *testing.T) {
	d := NewDepthBuffer(4, 3)
	assert.True(t, math32.IsInf(d.At(3, 2), -1))

	assert.True(t, d.TestAndSet(1, 1, 5))
	assert.False(t, d.TestAndSet(1, 1, 5), "equal depth must not pass")
	assert.False(t, d.TestAndSet(1, 1, 4))
	assert.True(t, d.TestAndSet(1, 1, 6))
	assert.False(t, d.TestAndSet(1, 1, math32.NaN()))
	assert.Equal(t, float32(6), d.At(1, 1))
	assert.Equal(t, 1, d.Covered())

	img := d.Image(12)
	assert.Equal(t, uint8(127), img.GrayAt(1, 1).Y)

	d.Reset()
	assert.Zero(t, d.Covered())
	assert.Panics(t, func() { d.At(4, 0) })
}
