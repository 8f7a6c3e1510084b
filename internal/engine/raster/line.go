package raster

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/softrender/pkg/math"
)

// DrawLine draws a one pixel wide segment between two screen positions
// without a depth test. Pixels are emitted with the same orientation as
// DrawTriangle and anything outside surf is clipped. It returns the number
// of pixels written. Segments with an endpoint beyond maxLineCoord are
// skipped.
func (r *Rasterizer) DrawLine(a, b math.Vec4f, c color.RGBA, surf Surface) int {
	for _, v := range [4]float32{a.X, a.Y, b.X, b.Y} {
		if !(math32.Abs(v) <= maxLineCoord) {
			return 0
		}
	}
	width, height := surf.Width(), surf.Height()
	x0, y0 := int(math32.Round(a.X)), int(math32.Round(a.Y))
	x1, y1 := int(math32.Round(b.X)), int(math32.Round(b.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	written := 0
	e := dx + dy
	for {
		if x0 >= 0 && x0 < width && y0 >= 0 && y0 < height {
			ex := x0
			if r.FlipX {
				ex = width - 1 - x0
			}
			surf.SetColor(ex, height-1-y0, c)
			written++
		}
		if x0 == x1 && y0 == y1 {
			return written
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

const maxLineCoord = 1 << 16

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
