package shader

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/softrender/pkg/math"
)

// Gouraud computes Lambert intensity per vertex and interpolates it.
type Gouraud struct {
	base
	intensity math.Vec3f
}

// Vertex implements Shader.
func (g *Gouraud) Vertex(face, nth int) (math.Vec4f, error) {
	screen, err := g.vertex(face, nth)
	if err != nil {
		return screen, err
	}
	var k float32
	if n, ok := unit(g.varyingNormal.Column3(nth)); ok {
		k = math32.Max(0, n.Dot(g.u.Light))
	}
	g.intensity.Set(nth, k)
	return screen, nil
}

// Fragment implements Shader.
func (g *Gouraud) Fragment(bar math.Vec3f) (color.RGBA, bool) {
	if !g.ready() {
		return color.RGBA{}, true
	}
	k := g.intensity.Dot(bar)
	return scale(g.diffuse(g.uv(bar)), k), false
}
