// Package raster scan-converts screen-space triangles with a z-buffer.
package raster

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/softrender/pkg/math"
)

// Surface receives the colors of accepted pixels.
type Surface interface {
	Width() int
	Height() int
	SetColor(x, y int, c color.RGBA)
}

// Fragmenter resolves the color of one covered pixel. Returning true
// discards the pixel.
type Fragmenter interface {
	Fragment(bar math.Vec3f) (color.RGBA, bool)
}

// outside is returned by Barycentric for triangles too thin to cover a pixel.
var outside = math.Vec3f{X: -1, Y: 1, Z: 1}

// Barycentric returns the weights of pixel (px, py) with respect to the
// screen-space triangle pts. Triangles whose doubled area is below one
// pixel yield a vector with a negative weight.
func Barycentric(pts [3]math.Vec4f, px, py int) math.Vec3f {
	x := float32(px)
	y := float32(py)
	u := math.Vec3f{
		X: pts[1].X - pts[0].X,
		Y: pts[2].X - pts[0].X,
		Z: pts[0].X - x,
	}.Cross(math.Vec3f{
		X: pts[1].Y - pts[0].Y,
		Y: pts[2].Y - pts[0].Y,
		Z: pts[0].Y - y,
	})
	if math32.Abs(u.Z) < 1 {
		return outside
	}
	return math.Vec3f{
		X: 1 - (u.X+u.Y)/u.Z,
		Y: u.X / u.Z,
		Z: u.Y / u.Z,
	}
}

// Inside reports whether every weight is non-negative.
func Inside(bar math.Vec3f) bool {
	return bar.X >= 0 && bar.Y >= 0 && bar.Z >= 0
}

// BoundingBox returns the inclusive pixel box of pts clamped to
// [0,width) x [0,height). ok is false when the box is empty.
func BoundingBox(pts [3]math.Vec4f, width, height int) (minX, minY, maxX, maxY int, ok bool) {
	lo := math.Vec2f{X: math32.Inf(1), Y: math32.Inf(1)}
	hi := math.Vec2f{X: math32.Inf(-1), Y: math32.Inf(-1)}
	for _, p := range pts {
		if math32.IsNaN(p.X) || math32.IsNaN(p.Y) {
			return 0, 0, 0, 0, false
		}
		lo.X = math32.Min(lo.X, p.X)
		lo.Y = math32.Min(lo.Y, p.Y)
		hi.X = math32.Max(hi.X, p.X)
		hi.Y = math32.Max(hi.Y, p.Y)
	}

	fx := math32.Max(0, math32.Ceil(lo.X))
	fy := math32.Max(0, math32.Ceil(lo.Y))
	tx := math32.Min(float32(width-1), math32.Floor(hi.X))
	ty := math32.Min(float32(height-1), math32.Floor(hi.Y))
	if fx > tx || fy > ty {
		return 0, 0, 0, 0, false
	}
	return int(fx), int(fy), int(tx), int(ty), true
}

// Stats counts what happened to the pixels of one or more triangles.
type Stats struct {
	Triangles int
	Tested    int
	Covered   int
	Shaded    int
	Discarded int
	Occluded  int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Triangles += other.Triangles
	s.Tested += other.Tested
	s.Covered += other.Covered
	s.Shaded += other.Shaded
	s.Discarded += other.Discarded
	s.Occluded += other.Occluded
}

// Rasterizer draws triangles into a depth buffer and a Surface.
type Rasterizer struct {
	// PerspectiveCorrect divides the fragment weights by each vertex's
	// clip-space w (carried in W) before shading. Depth always uses the
	// screen-space weights.
	PerspectiveCorrect bool

	// FlipX mirrors emitted columns.
	FlipX bool
}

// DrawTriangle scans the bounding box of pts, keeps pixels whose weights
// are all non-negative and whose interpolated depth beats the buffer, and
// hands them to the fragment stage. Accepted colors are emitted at
// (x, height-1-y). Scanning covers only the area shared by depth and surf.
func (r *Rasterizer) DrawTriangle(pts [3]math.Vec4f, depth *DepthBuffer, frag Fragmenter, surf Surface) Stats {
	stats := Stats{Triangles: 1}

	width := min(depth.Width(), surf.Width())
	height := min(depth.Height(), surf.Height())
	minX, minY, maxX, maxY, ok := BoundingBox(pts, width, height)
	if !ok {
		return stats
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			stats.Tested++
			bar := Barycentric(pts, x, y)
			if !Inside(bar) {
				continue
			}
			stats.Covered++

			z := bar.X*pts[0].Z + bar.Y*pts[1].Z + bar.Z*pts[2].Z
			if !depth.TestAndSet(x, y, z) {
				stats.Occluded++
				continue
			}

			if r.PerspectiveCorrect {
				bar = perspective(bar, pts)
			}
			c, discard := frag.Fragment(bar)
			if discard {
				stats.Discarded++
				continue
			}
			stats.Shaded++

			ex := x
			if r.FlipX {
				ex = width - 1 - x
			}
			surf.SetColor(ex, height-1-y, c)
		}
	}
	return stats
}

// perspective reweights screen-space barycentrics by 1/w of each vertex.
func perspective(bar math.Vec3f, pts [3]math.Vec4f) math.Vec3f {
	for _, p := range pts {
		if math32.Abs(p.W) < math.MinW {
			return bar
		}
	}
	c := math.Vec3f{X: bar.X / pts[0].W, Y: bar.Y / pts[1].W, Z: bar.Z / pts[2].W}
	sum := c.X + c.Y + c.Z
	if math32.Abs(sum) < math.MinW {
		return bar
	}
	return c.Scale(1 / sum)
}
