package shader

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/softrender/pkg/math"
)

// NormalMapped shades with a diffuse map and a tangent-space normal map.
type NormalMapped struct {
	base
}

// Vertex implements Shader.
func (s *NormalMapped) Vertex(face, nth int) (math.Vec4f, error) {
	return s.vertex(face, nth)
}

// Fragment implements Shader.
func (s *NormalMapped) Fragment(bar math.Vec3f) (color.RGBA, bool) {
	if !s.ready() {
		return color.RGBA{}, true
	}
	uv := s.uv(bar)
	n, ok := s.shadingNormal(bar, uv)
	if !ok {
		return color.RGBA{}, true
	}
	k := math32.Max(0, n.Dot(s.u.Light))
	return scale(s.diffuse(uv), k), false
}

// shadingNormal returns the normal-mapped normal at bar, or the interpolated
// geometric normal when there is no normal map or the tangent frame is
// degenerate. ok is false only when the geometric normal itself vanishes.
func (s *NormalMapped) shadingNormal(bar math.Vec3f, uv math.Vec2f) (math.Vec3f, bool) {
	bn, ok := s.normal(bar)
	if !ok {
		return bn, false
	}
	if s.maps.Normal == nil {
		return bn, true
	}
	tbn, ok := s.tangentFrame(bn)
	if !ok {
		return bn, true
	}
	mapped, err := tbn.MulVec3(SampleNormal(s.maps.Normal, uv))
	if err != nil {
		return bn, true
	}
	if n, ok := unit(mapped); ok {
		return n, true
	}
	return bn, true
}

// tangentFrame solves for the tangent and bitangent of the current
// triangle and returns the matrix whose columns are tangent, bitangent and
// bn. ok is false when the system is singular or the uv deltas vanish.
func (s *NormalMapped) tangentFrame(bn math.Vec3f) (*math.Matrix, bool) {
	p0 := s.varyingNDC.Column3(0)
	a := math.NewMatrix(3, 3)
	a.SetColumn3(0, s.varyingNDC.Column3(1).Sub(p0))
	a.SetColumn3(1, s.varyingNDC.Column3(2).Sub(p0))
	a.SetColumn3(2, bn)
	// Rows are edge1, edge2 and the normal.
	a = a.Transpose()

	ai, err := a.Inverse()
	if err != nil {
		return nil, false
	}

	uv := s.varyingUV
	du := math.Vec3f{X: uv.At(0, 1) - uv.At(0, 0), Y: uv.At(0, 2) - uv.At(0, 0)}
	dv := math.Vec3f{X: uv.At(1, 1) - uv.At(1, 0), Y: uv.At(1, 2) - uv.At(1, 0)}

	i, _ := ai.MulVec3(du)
	j, _ := ai.MulVec3(dv)
	tangent, ok := unit(i)
	if !ok {
		return nil, false
	}
	bitangent, ok := unit(j)
	if !ok {
		return nil, false
	}

	tbn := math.NewMatrix(3, 3)
	tbn.SetColumn3(0, tangent)
	tbn.SetColumn3(1, bitangent)
	tbn.SetColumn3(2, bn)
	return tbn, true
}
