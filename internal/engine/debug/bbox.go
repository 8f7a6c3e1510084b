package debug

import (
	"image/color"

	"github.com/Faultbox/softrender/internal/engine/raster"
	"github.com/Faultbox/softrender/internal/engine/transform"
	"github.com/Faultbox/softrender/pkg/math"
)

// BoxEdgeCount is the number of edges of a box wireframe.
const BoxEdgeCount = 12

// BoxEdges returns the 12 edges of the axis-aligned box lo..hi, grown by
// padding on every side. Swapped corners are reordered.
func BoxEdges(lo, hi math.Vec3f, padding float32) [BoxEdgeCount][2]math.Vec3f {
	if lo.X > hi.X {
		lo.X, hi.X = hi.X, lo.X
	}
	if lo.Y > hi.Y {
		lo.Y, hi.Y = hi.Y, lo.Y
	}
	if lo.Z > hi.Z {
		lo.Z, hi.Z = hi.Z, lo.Z
	}
	pad := math.V3(padding, padding, padding)
	lo, hi = lo.Sub(pad), hi.Add(pad)

	c := func(x, y, z float32) math.Vec3f { return math.V3(x, y, z) }
	return [BoxEdgeCount][2]math.Vec3f{
		// Bottom face
		{c(lo.X, lo.Y, lo.Z), c(hi.X, lo.Y, lo.Z)},
		{c(hi.X, lo.Y, lo.Z), c(hi.X, lo.Y, hi.Z)},
		{c(hi.X, lo.Y, hi.Z), c(lo.X, lo.Y, hi.Z)},
		{c(lo.X, lo.Y, hi.Z), c(lo.X, lo.Y, lo.Z)},
		// Top face
		{c(lo.X, hi.Y, lo.Z), c(hi.X, hi.Y, lo.Z)},
		{c(hi.X, hi.Y, lo.Z), c(hi.X, hi.Y, hi.Z)},
		{c(hi.X, hi.Y, hi.Z), c(lo.X, hi.Y, hi.Z)},
		{c(lo.X, hi.Y, hi.Z), c(lo.X, hi.Y, lo.Z)},
		// Vertical edges
		{c(lo.X, lo.Y, lo.Z), c(lo.X, hi.Y, lo.Z)},
		{c(hi.X, lo.Y, lo.Z), c(hi.X, hi.Y, lo.Z)},
		{c(hi.X, lo.Y, hi.Z), c(hi.X, hi.Y, hi.Z)},
		{c(lo.X, lo.Y, hi.Z), c(lo.X, hi.Y, hi.Z)},
	}
}

// DefaultBoxColor is the overlay color used by the renderer.
var DefaultBoxColor = color.RGBA{R: 255, G: 255, A: 255}

// DrawBounds projects the wireframe of lo..hi through frame and draws it
// over surf. Edges with an endpoint that cannot be projected are skipped.
// It returns the number of edges drawn.
func DrawBounds(r *raster.Rasterizer, frame *transform.Frame, lo, hi math.Vec3f, c color.RGBA, surf raster.Surface) int {
	pv := frame.ProjectionView()
	project := func(p math.Vec3f) (math.Vec4f, bool) {
		clip, err := pv.MulVec4(p.Extend(1))
		if err != nil {
			return math.Vec4f{}, false
		}
		screen, err := frame.ToScreen(clip)
		if err != nil {
			return math.Vec4f{}, false
		}
		return screen, true
	}

	drawn := 0
	for _, e := range BoxEdges(lo, hi, 0) {
		a, okA := project(e[0])
		b, okB := project(e[1])
		if !okA || !okB {
			continue
		}
		r.DrawLine(a, b, c, surf)
		drawn++
	}
	return drawn
}
