package shader

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/softrender/pkg/math"
)

// Phong extends NormalMapped with an ambient floor and a specular highlight.
type Phong struct {
	NormalMapped
	opts Options
}

// Fragment implements Shader.
func (p *Phong) Fragment(bar math.Vec3f) (color.RGBA, bool) {
	if !p.ready() {
		return color.RGBA{}, true
	}
	uv := p.uv(bar)
	n, ok := p.shadingNormal(bar, uv)
	if !ok {
		return color.RGBA{}, true
	}
	l := p.u.Light

	diff := math32.Max(0, n.Dot(l))
	// Reflected light direction.
	r, ok := unit(n.Scale(2 * n.Dot(l)).Sub(l))
	var spec float32
	if ok {
		spec = math32.Pow(math32.Max(r.Z, 0), p.exponent(uv))
	}

	c := p.diffuse(uv)
	k := diff + p.opts.SpecularWeight*spec
	return color.RGBA{
		R: channel(p.opts.Ambient + float32(c.R)*k),
		G: channel(p.opts.Ambient + float32(c.G)*k),
		B: channel(p.opts.Ambient + float32(c.B)*k),
		A: c.A,
	}, false
}

// exponent reads the specular exponent from the specular map's first
// channel, falling back to Shininess. A zero texel gives exponent 0, which
// lights the whole surface with the full specular weight.
func (p *Phong) exponent(uv math.Vec2f) float32 {
	if p.maps.Specular == nil {
		return p.opts.Shininess
	}
	return float32(Sample(p.maps.Specular, uv).R)
}
