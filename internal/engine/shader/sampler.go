package shader

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/softrender/pkg/math"
)

// texel maps uv to integer texel coordinates. v runs bottom to top while
// image rows run top to bottom.
func texel(s Sampler, uv math.Vec2f) (int, int) {
	w, h := s.Width(), s.Height()
	x := int(math32.Floor(uv.X * float32(w)))
	y := int(math32.Floor((1 - uv.Y) * float32(h)))
	return clamp(x, 0, w-1), clamp(y, 0, h-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sample returns the texel under uv.
func Sample(s Sampler, uv math.Vec2f) color.RGBA {
	x, y := texel(s, uv)
	return s.At(x, y)
}

// SampleNormal decodes the texel under uv as a vector in [-1, 1]^3.
func SampleNormal(s Sampler, uv math.Vec2f) math.Vec3f {
	c := Sample(s, uv)
	return math.Vec3f{
		X: float32(c.R)/255*2 - 1,
		Y: float32(c.G)/255*2 - 1,
		Z: float32(c.B)/255*2 - 1,
	}
}

// scale multiplies the color channels by k, clamped to [0, 255]. Alpha is kept.
func scale(c color.RGBA, k float32) color.RGBA {
	return color.RGBA{
		R: channel(float32(c.R) * k),
		G: channel(float32(c.G) * k),
		B: channel(float32(c.B) * k),
		A: c.A,
	}
}

func channel(v float32) uint8 {
	if math32.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
